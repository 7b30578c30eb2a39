// Package store is the record store adapter: it persists tasks, projects,
// employees, independent work and comment threads, and offers the atomic
// single-record mutation and append primitives the workflow relies on.
package store

import (
	"context"
	"time"

	"project-tracker-api/internal/models"

	"github.com/pkg/errors"
)

var (
	// ErrNotFound is returned when an identifier does not resolve to a record.
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned when a concurrent writer won the race for a record
	// and the mutation could not be applied after retrying.
	ErrConflict = errors.New("concurrent update conflict")
	// ErrDuplicate is returned when a write collides with a unique column.
	ErrDuplicate = errors.New("record already exists")
)

// TaskMutation edits a loaded task in place. Returning an error aborts the
// update and leaves the stored record untouched.
type TaskMutation func(task *models.Task) error

// TaskQuery narrows FindTasks. Zero fields do not filter.
type TaskQuery struct {
	IDs        []string
	ProjectID  string
	AssigneeID string
	Status     models.TaskStatus
}

// TaskStore persists tasks
type TaskStore interface {
	// FindTaskByID returns the task with its comment thread.
	FindTaskByID(ctx context.Context, id string) (*models.Task, error)

	// FindTasks returns tasks matching q, ordered by creation time (newest first).
	FindTasks(ctx context.Context, q TaskQuery) ([]models.Task, error)

	// CreateTask persists a new task.
	CreateTask(ctx context.Context, task *models.Task) error

	// UpdateTask applies mutate to the current record as one atomic write and
	// returns the post-mutation record.
	UpdateTask(ctx context.Context, id string, mutate TaskMutation) (*models.Task, error)

	// AppendTaskComment atomically appends c to the task's thread and returns
	// the task as written.
	AppendTaskComment(ctx context.Context, taskID string, c *models.Comment) (*models.Task, error)

	// DeleteTask removes a task and its comments.
	DeleteTask(ctx context.Context, id string) error

	// DeleteTasksByProject removes every task referencing projectID.
	DeleteTasksByProject(ctx context.Context, projectID string) (int64, error)
}

// ProjectStore persists projects
type ProjectStore interface {
	FindProjectByID(ctx context.Context, id string) (*models.Project, error)
	FindProjects(ctx context.Context) ([]models.Project, error)
	CreateProject(ctx context.Context, project *models.Project) error
	UpdateProject(ctx context.Context, id string, fields map[string]any) (*models.Project, error)

	// DeleteProject removes the project together with the tasks it owns.
	DeleteProject(ctx context.Context, id string) error
}

// EmployeeStore persists employees
type EmployeeStore interface {
	FindEmployeeByID(ctx context.Context, id string) (*models.Employee, error)

	// FindEmployeeByLogin matches either username or email.
	FindEmployeeByLogin(ctx context.Context, login string) (*models.Employee, error)

	FindEmployees(ctx context.Context) ([]models.Employee, error)
	CreateEmployee(ctx context.Context, employee *models.Employee) error
	UpdateEmployee(ctx context.Context, id string, fields map[string]any) (*models.Employee, error)
}

// WorkQuery narrows FindWork. Zero fields do not filter.
type WorkQuery struct {
	EmployeeID string
	From       *time.Time
	To         *time.Time
}

// WorkStore persists independent work entries
type WorkStore interface {
	FindWorkByID(ctx context.Context, id string) (*models.IndependentWork, error)
	FindWork(ctx context.Context, q WorkQuery) ([]models.IndependentWork, error)
	CreateWork(ctx context.Context, work *models.IndependentWork) error
	DeleteWork(ctx context.Context, id string) error
}

// CommentStore appends to and reads comment threads
type CommentStore interface {
	// AppendComment atomically appends c to the thread of the given parent.
	// It never rewrites existing comments.
	AppendComment(ctx context.Context, kind models.ParentKind, parentID string, c *models.Comment) error

	// ListComments returns the thread in append order.
	ListComments(ctx context.Context, kind models.ParentKind, parentID string) ([]models.Comment, error)
}
