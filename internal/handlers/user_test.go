package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/harube/kanban-board-api/internal/constants"
	"github.com/harube/kanban-board-api/internal/database"
	"github.com/harube/kanban-board-api/internal/dto"
	"github.com/harube/kanban-board-api/internal/models"
	"github.com/harube/kanban-board-api/internal/repository"
	"github.com/harube/kanban-board-api/internal/services"
)

// UserHandlerTestSuite defines the test suite for UserHandler
type UserHandlerTestSuite struct {
	suite.Suite
	db      *gorm.DB
	handler *UserHandler
}

// SetupTest runs before each test
func (suite *UserHandlerTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(&models.User{})
	suite.Require().NoError(err)

	database.SetDB(suite.db)

	userRepo := repository.NewUserRepository(suite.db)
	userService := services.NewUserService(userRepo)
	suite.handler = NewUserHandler(userService)

	gin.SetMode(gin.TestMode)
}

// TearDownTest runs after each test
func (suite *UserHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *UserHandlerTestSuite) createTestUser(name, email string) *models.User {
	user := &models.User{
		Name:  name,
		Email: email,
	}
	suite.db.Create(user)
	return user
}

func (suite *UserHandlerTestSuite) createAuthContext(method, url string, body []byte, userID uint64) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, url, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Set(constants.ContextKeyUserID, userID)

	return c, w
}

func (suite *UserHandlerTestSuite) TestListTeamMembers() {
	alice := suite.createTestUser("Alice", "alice@example.com")
	suite.createTestUser("Bob", "bob@example.com")

	c, w := suite.createAuthContext("GET", "/api/users", nil, alice.ID)

	suite.handler.ListTeamMembers(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response struct {
		Users []dto.UserDTO `json:"users"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Len(suite.T(), response.Users, 2)
}

func (suite *UserHandlerTestSuite) TestGetProfile() {
	user := suite.createTestUser("Alice", "alice@example.com")
	suite.db.Model(user).Updates(map[string]any{"role": "Engineer"})

	c, w := suite.createAuthContext("GET", "/api/users/me", nil, user.ID)

	suite.handler.GetProfile(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var profile dto.ProfileDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &profile))
	assert.Equal(suite.T(), "Alice", profile.Name)
	assert.Equal(suite.T(), "alice@example.com", profile.Email)
	assert.Equal(suite.T(), "Engineer", profile.Role)
}

func (suite *UserHandlerTestSuite) TestGetProfile_UnknownUser() {
	c, w := suite.createAuthContext("GET", "/api/users/me", nil, 999)

	suite.handler.GetProfile(c)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

func (suite *UserHandlerTestSuite) TestUpdateProfile_NameAndRole() {
	user := suite.createTestUser("Alice", "alice@example.com")

	body, _ := json.Marshal(map[string]any{
		"name": "Alice Liddell",
		"role": "Team Lead",
	})
	c, w := suite.createAuthContext("PATCH", "/api/users/me", body, user.ID)

	suite.handler.UpdateProfile(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var stored models.User
	suite.db.First(&stored, user.ID)
	assert.Equal(suite.T(), "Alice Liddell", stored.Name)
	assert.Equal(suite.T(), "Team Lead", stored.Role)
}

func (suite *UserHandlerTestSuite) TestUpdateProfile_PartialUpdateKeepsOtherFields() {
	user := suite.createTestUser("Alice", "alice@example.com")
	suite.db.Model(user).Updates(map[string]any{"role": "Engineer"})

	body, _ := json.Marshal(map[string]any{"name": "Alice Liddell"})
	c, w := suite.createAuthContext("PATCH", "/api/users/me", body, user.ID)

	suite.handler.UpdateProfile(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var stored models.User
	suite.db.First(&stored, user.ID)
	assert.Equal(suite.T(), "Alice Liddell", stored.Name)
	assert.Equal(suite.T(), "Engineer", stored.Role)
}

func TestUserHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(UserHandlerTestSuite))
}
