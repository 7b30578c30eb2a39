package store

import (
	"context"

	"project-tracker-api/internal/models"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// FindProjectByID implements ProjectStore.FindProjectByID.
func (s *GormStore) FindProjectByID(ctx context.Context, id string) (*models.Project, error) {
	return findProject(s.db.WithContext(ctx), id)
}

func findProject(tx *gorm.DB, id string) (*models.Project, error) {
	var project models.Project
	if err := tx.Where("id = ?", id).First(&project).Error; err != nil {
		return nil, lookupErr(err, "project", id)
	}
	threads, err := loadThreads(tx, models.ParentProject, []string{id})
	if err != nil {
		return nil, err
	}
	project.Comments = threads[id]
	return &project, nil
}

// FindProjects implements ProjectStore.FindProjects.
func (s *GormStore) FindProjects(ctx context.Context) ([]models.Project, error) {
	tx := s.db.WithContext(ctx)
	var projects []models.Project
	if err := tx.Order("created_at desc").Find(&projects).Error; err != nil {
		return nil, errors.Wrap(err, "failed to fetch projects")
	}
	ids := make([]string, len(projects))
	for i := range projects {
		ids[i] = projects[i].ID
	}
	threads, err := loadThreads(tx, models.ParentProject, ids)
	if err != nil {
		return nil, err
	}
	for i := range projects {
		projects[i].Comments = threads[projects[i].ID]
	}
	return projects, nil
}

// CreateProject implements ProjectStore.CreateProject.
func (s *GormStore) CreateProject(ctx context.Context, project *models.Project) error {
	if project.ID == "" {
		project.ID = newID()
	}
	if project.Status == "" {
		project.Status = models.ProjectCurrent
	}
	if err := s.db.WithContext(ctx).Create(project).Error; err != nil {
		return errors.Wrap(err, "failed to create project")
	}
	return nil
}

// UpdateProject implements ProjectStore.UpdateProject.
func (s *GormStore) UpdateProject(ctx context.Context, id string, fields map[string]any) (*models.Project, error) {
	var updated *models.Project
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := findProject(tx, id)
		if err != nil {
			return err
		}
		if len(fields) > 0 {
			if err := tx.Model(current).Updates(fields).Error; err != nil {
				return errors.Wrapf(err, "failed to update project %s", id)
			}
		}
		updated, err = findProject(tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteProject implements ProjectStore.DeleteProject.
// Tasks referencing the project and every affected comment thread go in the same transaction.
func (s *GormStore) DeleteProject(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ?", id).Delete(&models.Project{})
		if res.Error != nil {
			return errors.Wrapf(res.Error, "failed to delete project %s", id)
		}
		if res.RowsAffected == 0 {
			return errors.Wrapf(ErrNotFound, "project %s", id)
		}
		if _, err := deleteTasksByProject(tx, id); err != nil {
			return err
		}
		return deleteThreads(tx, models.ParentProject, []string{id})
	})
}
