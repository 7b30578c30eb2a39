package workflow

import (
	"context"
	"time"

	"project-tracker-api/internal/identity"
	"project-tracker-api/internal/models"
	"project-tracker-api/internal/realtime"
	"project-tracker-api/internal/store"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// TaskRepository is the part of the record store the workflow needs
type TaskRepository interface {
	FindTaskByID(ctx context.Context, id string) (*models.Task, error)
	CreateTask(ctx context.Context, task *models.Task) error
	UpdateTask(ctx context.Context, id string, mutate store.TaskMutation) (*models.Task, error)
	AppendTaskComment(ctx context.Context, taskID string, c *models.Comment) (*models.Task, error)
	DeleteTask(ctx context.Context, id string) error
}

// Event types published after a mutation is applied
const (
	EventTaskCreated         = "task_created"
	EventTaskUpdated         = "task_updated"
	EventTaskDeleted         = "task_deleted"
	EventCompletionRequested = "task_completion_requested"
	EventCompletionResponded = "task_completion_responded"
	EventExtensionRequested  = "task_extension_requested"
	EventExtensionResponded  = "task_extension_responded"
	EventTaskCommented       = "task_commented"
)

// now stamps every transition; tests freeze it
var now = func() time.Time { return time.Now().UTC() }

// Service applies workflow operations for a principal. Every operation is a
// single atomic store mutation and returns the record as written.
type Service struct {
	tasks  TaskRepository
	events realtime.Publisher
	log    *logrus.Logger
}

// NewService wires the workflow to its store, event publisher and logger.
// A nil publisher drops events.
func NewService(tasks TaskRepository, events realtime.Publisher, logger *logrus.Logger) *Service {
	if events == nil {
		events = realtime.Discard{}
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Service{tasks: tasks, events: events, log: logger}
}

// NewTask holds the fields supplied when creating a task
type NewTask struct {
	Title                 string
	Description           string
	ProjectID             string
	AssigneeID            string
	Priority              models.TaskPriority
	Status                models.TaskStatus
	EstimatedHours        float64
	StartDate             *time.Time
	DueDate               *time.Time
	DirectorInputRequired bool
}

// Get returns a task the principal may see
func (s *Service) Get(ctx context.Context, p identity.Principal, taskID string) (*models.Task, error) {
	task, err := s.tasks.FindTaskByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if !identity.CanAccessTask(p, task) {
		return nil, errors.Wrapf(ErrUnauthorized, "task %s", taskID)
	}
	return task, nil
}

// Create persists a new task. Directors and project heads create tasks for
// anyone; an employee may only create a task for themselves, which is then
// marked as employee created.
func (s *Service) Create(ctx context.Context, p identity.Principal, in NewTask) (*models.Task, error) {
	task := &models.Task{
		Title:                 in.Title,
		Description:           in.Description,
		ProjectID:             identity.NormalizeID(in.ProjectID),
		AssigneeID:            identity.NormalizeID(in.AssigneeID),
		AssignedByID:          p.ID,
		Priority:              in.Priority,
		Status:                in.Status,
		EstimatedHours:        in.EstimatedHours,
		StartDate:             in.StartDate,
		DueDate:               in.DueDate,
		DirectorInputRequired: in.DirectorInputRequired,
	}

	switch {
	case identity.CanCreateTask(p.Role):
	case p.Role == models.RoleEmployee:
		if task.AssigneeID != "" && !identity.IsSelf(task.AssigneeID, p.ID) {
			return nil, errors.Wrap(ErrUnauthorized, "employees may only create tasks for themselves")
		}
		task.AssigneeID = p.ID
		task.IsEmployeeCreated = true
	default:
		return nil, errors.Wrapf(ErrUnauthorized, "role %q cannot create tasks", p.Role)
	}

	if task.Priority == "" {
		task.Priority = models.PriorityLessUrgent
	}
	if !task.Priority.Valid() {
		return nil, errors.Wrapf(ErrInvalidTransition, "unknown priority %q", task.Priority)
	}
	if task.Status == "" {
		task.Status = models.StatusPending
	}
	if task.Status == models.StatusCompleted {
		return nil, errors.Wrap(ErrInvalidTransition, "a task cannot be created completed")
	}
	if !task.Status.Valid() {
		return nil, errors.Wrapf(ErrInvalidTransition, "unknown status %q", task.Status)
	}

	if err := s.tasks.CreateTask(ctx, task); err != nil {
		return nil, err
	}
	s.applied(task, p, EventTaskCreated)
	return task, nil
}

// RequestCompletion asks for the task to be approved as completed.
func (s *Service) RequestCompletion(ctx context.Context, p identity.Principal, taskID string) (*models.Task, error) {
	return s.mutate(ctx, p, taskID, EventCompletionRequested, func(t *models.Task, at time.Time) error {
		if !identity.CanAccessTask(p, t) {
			return errors.Wrapf(ErrUnauthorized, "task %s", taskID)
		}
		return ApplyCompletionRequest(t, p.ID, at)
	})
}

// RespondToCompletion approves or rejects completion. Only approvers may respond.
func (s *Service) RespondToCompletion(ctx context.Context, p identity.Principal, taskID string, resp CompletionResponse) (*models.Task, error) {
	if !identity.CanApprove(p.Role) {
		return nil, errors.Wrapf(ErrUnauthorized, "role %q cannot respond to completion requests", p.Role)
	}
	return s.mutate(ctx, p, taskID, EventCompletionResponded, func(t *models.Task, at time.Time) error {
		return ApplyCompletionResponse(t, resp, p.ID, at)
	})
}

// RequestExtension proposes a new deadline for the task.
func (s *Service) RequestExtension(ctx context.Context, p identity.Principal, taskID string, req ExtensionRequest) (*models.Task, error) {
	return s.mutate(ctx, p, taskID, EventExtensionRequested, func(t *models.Task, at time.Time) error {
		if !identity.CanAccessTask(p, t) {
			return errors.Wrapf(ErrUnauthorized, "task %s", taskID)
		}
		return ApplyExtensionRequest(t, req, p.ID, at)
	})
}

// RespondToExtension records the decision on a deadline proposal. The due
// date is left alone; callers apply an accepted deadline with Update.
func (s *Service) RespondToExtension(ctx context.Context, p identity.Principal, taskID string, resp ExtensionResponse) (*models.Task, error) {
	if !identity.CanApprove(p.Role) {
		return nil, errors.Wrapf(ErrUnauthorized, "role %q cannot respond to extension requests", p.Role)
	}
	return s.mutate(ctx, p, taskID, EventExtensionResponded, func(t *models.Task, at time.Time) error {
		return ApplyExtensionResponse(t, resp, p.ID, at)
	})
}

// SetPrimaryStatus changes only the primary status.
func (s *Service) SetPrimaryStatus(ctx context.Context, p identity.Principal, taskID string, status models.TaskStatus) (*models.Task, error) {
	return s.Update(ctx, p, taskID, TaskPatch{Status: &status})
}

// Update applies a direct field update.
// Moving a task straight to Completed is reserved for approvers; everyone
// else goes through a completion request. Employees may only touch progress
// fields of their own, unlocked tasks.
func (s *Service) Update(ctx context.Context, p identity.Principal, taskID string, patch TaskPatch) (*models.Task, error) {
	return s.mutate(ctx, p, taskID, EventTaskUpdated, func(t *models.Task, at time.Time) error {
		if !identity.CanAccessTask(p, t) {
			return errors.Wrapf(ErrUnauthorized, "task %s", taskID)
		}
		if patch.Status != nil && *patch.Status == models.StatusCompleted &&
			t.Status != models.StatusCompleted && !identity.CanApprove(p.Role) {
			return errors.Wrap(ErrUnauthorized, "completion requires approval")
		}
		if !identity.CanCreateTask(p.Role) {
			if !patch.SelfServiceOnly() {
				return errors.Wrap(ErrUnauthorized, "employees may only update status and progress")
			}
			if t.IsLocked {
				return errors.Wrapf(ErrUnauthorized, "task %s is locked", taskID)
			}
		}
		if patch.AssigneeID != nil {
			id := identity.NormalizeID(*patch.AssigneeID)
			patch.AssigneeID = &id
		}
		wasCompleted := t.Status == models.StatusCompleted
		if err := ApplyPatch(t, patch, at); err != nil {
			return err
		}
		if !wasCompleted && t.Status == models.StatusCompleted {
			SettleCompletionRequest(t, p.ID, at)
		}
		return nil
	})
}

// AddComment appends a comment to the task's thread.
func (s *Service) AddComment(ctx context.Context, p identity.Principal, taskID, content string, visible bool) (*models.Task, error) {
	task, err := s.tasks.FindTaskByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if !identity.CanAccessTask(p, task) {
		return nil, errors.Wrapf(ErrUnauthorized, "task %s", taskID)
	}

	updated, err := s.tasks.AppendTaskComment(ctx, taskID, &models.Comment{
		AuthorID:   p.ID,
		AuthorName: p.Name,
		Content:    content,
		IsVisible:  visible,
		Timestamp:  now(),
	})
	if err != nil {
		return nil, err
	}
	s.applied(updated, p, EventTaskCommented)
	return updated, nil
}

// Delete removes a task. Only task creators' roles may delete.
func (s *Service) Delete(ctx context.Context, p identity.Principal, taskID string) error {
	if !identity.CanCreateTask(p.Role) {
		return errors.Wrapf(ErrUnauthorized, "role %q cannot delete tasks", p.Role)
	}
	task, err := s.tasks.FindTaskByID(ctx, taskID)
	if err != nil {
		return err
	}
	if err := s.tasks.DeleteTask(ctx, taskID); err != nil {
		return err
	}
	s.applied(task, p, EventTaskDeleted)
	return nil
}

// mutate runs apply inside the store's atomic update, stamping one clock
// reading for the whole operation.
func (s *Service) mutate(ctx context.Context, p identity.Principal, taskID, action string, apply func(t *models.Task, at time.Time) error) (*models.Task, error) {
	at := now()
	updated, err := s.tasks.UpdateTask(ctx, taskID, func(t *models.Task) error {
		if err := apply(t, at); err != nil {
			return err
		}
		return CheckInvariants(t)
	})
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"task_id": taskID,
			"actor":   p.ID,
			"action":  action,
		}).WithError(err).Debug("task transition rejected")
		return nil, err
	}
	s.applied(updated, p, action)
	return updated, nil
}

func (s *Service) applied(task *models.Task, p identity.Principal, action string) {
	s.log.WithFields(logrus.Fields{
		"task_id": task.ID,
		"actor":   p.ID,
		"action":  action,
		"status":  task.Status,
	}).Info("task transition applied")

	s.events.Publish(realtime.Event{
		Type:       action,
		TaskID:     task.ID,
		ProjectID:  task.ProjectID,
		ActorID:    p.ID,
		Version:    task.Version,
		Recipients: recipients(task, p),
	})
}

// recipients lists the employees involved in a task, excluding the actor
func recipients(task *models.Task, p identity.Principal) []string {
	seen := map[string]bool{p.ID: true}
	var out []string
	for _, id := range []string{task.AssigneeID, task.AssignedByID, task.CompletionRequestedBy, task.ExtensionRequestedBy} {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
