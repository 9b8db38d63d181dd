package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/harube/kanban-board-api/internal/constants"
	"github.com/harube/kanban-board-api/internal/database"
	apierrors "github.com/harube/kanban-board-api/internal/errors"
	"github.com/harube/kanban-board-api/internal/models"
)

// RequireProjectOwner loads the project from the URL parameter and verifies
// the caller owns it. Owner-scoped mutations (update, delete) hang off this.
func RequireProjectOwner() gin.HandlerFunc {
	return func(c *gin.Context) {
		projectIDStr := c.Param("id")
		projectID, err := strconv.ParseUint(projectIDStr, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid project ID")
			c.Abort()
			return
		}

		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		var project models.Project
		if err := database.GetDB().First(&project, projectID).Error; err != nil {
			apierrors.NotFound(c, "Project not found")
			c.Abort()
			return
		}

		if project.OwnerID != userID {
			apierrors.Forbidden(c, "Only the project owner can perform this action")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyProject, project)
		c.Next()
	}
}

// GetProject retrieves the project loaded by RequireProjectOwner.
func GetProject(c *gin.Context) (models.Project, bool) {
	value, exists := c.Get(constants.ContextKeyProject)
	if !exists {
		return models.Project{}, false
	}
	project, ok := value.(models.Project)
	return project, ok
}
