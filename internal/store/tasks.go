package store

import (
	"context"

	"project-tracker-api/internal/models"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// maxUpdateAttempts bounds the retries of UpdateTask when it loses a version race.
const maxUpdateAttempts = 3

// FindTaskByID implements TaskStore.FindTaskByID.
func (s *GormStore) FindTaskByID(ctx context.Context, id string) (*models.Task, error) {
	return findTask(s.db.WithContext(ctx), id)
}

func findTask(tx *gorm.DB, id string) (*models.Task, error) {
	var task models.Task
	if err := tx.Where("id = ?", id).First(&task).Error; err != nil {
		return nil, lookupErr(err, "task", id)
	}
	threads, err := loadThreads(tx, models.ParentTask, []string{id})
	if err != nil {
		return nil, err
	}
	task.Comments = threads[id]
	return &task, nil
}

// FindTasks implements TaskStore.FindTasks.
func (s *GormStore) FindTasks(ctx context.Context, q TaskQuery) ([]models.Task, error) {
	tx := s.db.WithContext(ctx)
	query := tx.Model(&models.Task{})
	if len(q.IDs) > 0 {
		query = query.Where("id IN ?", q.IDs)
	}
	if q.ProjectID != "" {
		query = query.Where("project_id = ?", q.ProjectID)
	}
	if q.AssigneeID != "" {
		query = query.Where("assignee_id = ?", q.AssigneeID)
	}
	if q.Status != "" {
		query = query.Where("status = ?", q.Status)
	}

	var tasks []models.Task
	if err := query.Order("created_at desc").Find(&tasks).Error; err != nil {
		return nil, errors.Wrap(err, "failed to fetch tasks")
	}

	ids := make([]string, len(tasks))
	for i := range tasks {
		ids[i] = tasks[i].ID
	}
	threads, err := loadThreads(tx, models.ParentTask, ids)
	if err != nil {
		return nil, err
	}
	for i := range tasks {
		tasks[i].Comments = threads[tasks[i].ID]
	}
	return tasks, nil
}

// CreateTask implements TaskStore.CreateTask.
func (s *GormStore) CreateTask(ctx context.Context, task *models.Task) error {
	if task.ID == "" {
		task.ID = newID()
	}
	task.Version = 1
	if err := s.db.WithContext(ctx).Create(task).Error; err != nil {
		return errors.Wrap(err, "failed to create task")
	}
	task.Comments = nil
	return nil
}

// UpdateTask implements TaskStore.UpdateTask.
// The mutation runs on a snapshot read outside any transaction. The write is
// conditional on the version read and the result is read back in the same
// transaction as the write, so a concurrent writer is never silently
// overwritten. A lost race re-reads the record and runs mutate again.
func (s *GormStore) UpdateTask(ctx context.Context, id string, mutate TaskMutation) (*models.Task, error) {
	var lastErr error
	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		task, err := s.updateTaskOnce(ctx, id, mutate)
		if errors.Is(err, ErrConflict) {
			lastErr = err
			continue
		}
		return task, err
	}
	return nil, errors.Wrapf(lastErr, "task %s after %d attempts", id, maxUpdateAttempts)
}

func (s *GormStore) updateTaskOnce(ctx context.Context, id string, mutate TaskMutation) (*models.Task, error) {
	current, err := findTask(s.db.WithContext(ctx), id)
	if err != nil {
		return nil, err
	}
	readVersion := current.Version

	if err := mutate(current); err != nil {
		return nil, err
	}
	current.ID = id
	current.Version = readVersion + 1
	current.UpdatedAt = now()

	var updated *models.Task
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(current).
			Where("version = ?", readVersion).
			Select("*").
			Omit("id", "created_at").
			Updates(current)
		if res.Error != nil {
			return errors.Wrapf(res.Error, "failed to update task %s", id)
		}
		if res.RowsAffected == 0 {
			return ErrConflict
		}

		fresh, err := findTask(tx, id)
		if err != nil {
			return err
		}
		updated = fresh
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// AppendTaskComment appends c to the task's thread and returns the task as it
// stands after the append, read in the same transaction.
func (s *GormStore) AppendTaskComment(ctx context.Context, taskID string, c *models.Comment) (*models.Task, error) {
	var updated *models.Task
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := appendComment(tx, models.ParentTask, taskID, c); err != nil {
			return err
		}
		fresh, err := findTask(tx, taskID)
		if err != nil {
			return err
		}
		updated = fresh
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteTask implements TaskStore.DeleteTask.
func (s *GormStore) DeleteTask(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ?", id).Delete(&models.Task{})
		if res.Error != nil {
			return errors.Wrapf(res.Error, "failed to delete task %s", id)
		}
		if res.RowsAffected == 0 {
			return errors.Wrapf(ErrNotFound, "task %s", id)
		}
		return deleteThreads(tx, models.ParentTask, []string{id})
	})
}

// DeleteTasksByProject implements TaskStore.DeleteTasksByProject.
func (s *GormStore) DeleteTasksByProject(ctx context.Context, projectID string) (int64, error) {
	var deleted int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		n, err := deleteTasksByProject(tx, projectID)
		deleted = n
		return err
	})
	return deleted, err
}

func deleteTasksByProject(tx *gorm.DB, projectID string) (int64, error) {
	var ids []string
	if err := tx.Model(&models.Task{}).Where("project_id = ?", projectID).Pluck("id", &ids).Error; err != nil {
		return 0, errors.Wrapf(err, "failed to list tasks of project %s", projectID)
	}
	if len(ids) == 0 {
		return 0, nil
	}
	if err := deleteThreads(tx, models.ParentTask, ids); err != nil {
		return 0, err
	}
	res := tx.Where("id IN ?", ids).Delete(&models.Task{})
	if res.Error != nil {
		return 0, errors.Wrapf(res.Error, "failed to delete tasks of project %s", projectID)
	}
	return res.RowsAffected, nil
}
