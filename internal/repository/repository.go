package repository

import (
	"github.com/harube/kanban-board-api/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// Update updates a user
	Update(user *models.User) error

	// List lists all users
	List() ([]models.User, error)
}

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	// Create creates a new project
	Create(project *models.Project) error

	// FindByID finds a project by ID
	FindByID(id uint64) (*models.Project, error)

	// ListByOwner lists projects owned by a user
	ListByOwner(ownerID uint64) ([]models.Project, error)

	// Update updates a project
	Update(project *models.Project) error

	// DeleteCascade deletes a project together with its tasks and their
	// assignments in a single transaction.
	DeleteCascade(id uint64) error
}

// TaskRepository defines the interface for task and assignment data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Task, error)

	// ListByProject retrieves a project's tasks newest first, with
	// assignments and their users preloaded.
	ListByProject(projectID uint64, page, pageSize int) ([]models.Task, int64, error)

	// Update updates a task
	Update(task *models.Task) error

	// Delete deletes a task and its assignments
	Delete(id uint64) error

	// CreateAssignment inserts an assignment row; a duplicate pair fails.
	CreateAssignment(assignment *models.TaskAssignment) error

	// DeleteAssignment deletes the exact (taskID, userID) pair. Returns
	// gorm.ErrRecordNotFound when the pair does not exist.
	DeleteAssignment(taskID, userID uint64) error

	// FindAssignment finds a specific task assignment
	FindAssignment(taskID, userID uint64) (*models.TaskAssignment, error)
}
