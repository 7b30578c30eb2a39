package store

import (
	"context"

	"project-tracker-api/internal/models"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// FindWorkByID implements WorkStore.FindWorkByID.
func (s *GormStore) FindWorkByID(ctx context.Context, id string) (*models.IndependentWork, error) {
	tx := s.db.WithContext(ctx)
	var w models.IndependentWork
	if err := tx.Where("id = ?", id).First(&w).Error; err != nil {
		return nil, lookupErr(err, "independent work", id)
	}
	threads, err := loadThreads(tx, models.ParentIndependentWork, []string{id})
	if err != nil {
		return nil, err
	}
	w.Comments = threads[id]
	return &w, nil
}

// FindWork implements WorkStore.FindWork.
func (s *GormStore) FindWork(ctx context.Context, q WorkQuery) ([]models.IndependentWork, error) {
	tx := s.db.WithContext(ctx)
	query := tx.Model(&models.IndependentWork{})
	if q.EmployeeID != "" {
		query = query.Where("employee_id = ?", q.EmployeeID)
	}
	if q.From != nil {
		query = query.Where("date >= ?", *q.From)
	}
	if q.To != nil {
		query = query.Where("date <= ?", *q.To)
	}

	var entries []models.IndependentWork
	if err := query.Order("date desc").Find(&entries).Error; err != nil {
		return nil, errors.Wrap(err, "failed to fetch independent work")
	}
	ids := make([]string, len(entries))
	for i := range entries {
		ids[i] = entries[i].ID
	}
	threads, err := loadThreads(tx, models.ParentIndependentWork, ids)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		entries[i].Comments = threads[entries[i].ID]
	}
	return entries, nil
}

// CreateWork implements WorkStore.CreateWork.
func (s *GormStore) CreateWork(ctx context.Context, w *models.IndependentWork) error {
	if w.ID == "" {
		w.ID = newID()
	}
	if w.Category == "" {
		w.Category = models.WorkOther
	}
	if err := s.db.WithContext(ctx).Create(w).Error; err != nil {
		return errors.Wrap(err, "failed to create independent work")
	}
	return nil
}

// DeleteWork implements WorkStore.DeleteWork.
func (s *GormStore) DeleteWork(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ?", id).Delete(&models.IndependentWork{})
		if res.Error != nil {
			return errors.Wrapf(res.Error, "failed to delete independent work %s", id)
		}
		if res.RowsAffected == 0 {
			return errors.Wrapf(ErrNotFound, "independent work %s", id)
		}
		return deleteThreads(tx, models.ParentIndependentWork, []string{id})
	})
}
