package store

import (
	"context"

	"project-tracker-api/internal/models"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// FindEmployeeByID implements EmployeeStore.FindEmployeeByID.
func (s *GormStore) FindEmployeeByID(ctx context.Context, id string) (*models.Employee, error) {
	var e models.Employee
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&e).Error; err != nil {
		return nil, lookupErr(err, "employee", id)
	}
	return &e, nil
}

// FindEmployeeByLogin implements EmployeeStore.FindEmployeeByLogin.
func (s *GormStore) FindEmployeeByLogin(ctx context.Context, login string) (*models.Employee, error) {
	var e models.Employee
	if err := s.db.WithContext(ctx).Where("username = ? OR email = ?", login, login).First(&e).Error; err != nil {
		return nil, lookupErr(err, "employee", login)
	}
	return &e, nil
}

// FindEmployees implements EmployeeStore.FindEmployees.
func (s *GormStore) FindEmployees(ctx context.Context) ([]models.Employee, error) {
	var employees []models.Employee
	if err := s.db.WithContext(ctx).Order("name asc").Find(&employees).Error; err != nil {
		return nil, errors.Wrap(err, "failed to fetch employees")
	}
	return employees, nil
}

// CreateEmployee implements EmployeeStore.CreateEmployee.
func (s *GormStore) CreateEmployee(ctx context.Context, e *models.Employee) error {
	if e.ID == "" {
		e.ID = newID()
	}
	if e.Status == "" {
		e.Status = models.EmployeeActive
	}
	if err := s.db.WithContext(ctx).Create(e).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errors.Wrapf(ErrDuplicate, "employee %q or %q", e.Username, e.Email)
		}
		return errors.Wrap(err, "failed to create employee")
	}
	return nil
}

// UpdateEmployee implements EmployeeStore.UpdateEmployee.
// The role column is never written here; roles are fixed once assigned.
func (s *GormStore) UpdateEmployee(ctx context.Context, id string, fields map[string]any) (*models.Employee, error) {
	delete(fields, "role")

	var updated models.Employee
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&updated).Error; err != nil {
			return lookupErr(err, "employee", id)
		}
		if len(fields) > 0 {
			if err := tx.Model(&updated).Updates(fields).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return errors.Wrapf(ErrDuplicate, "employee %s", id)
				}
				return errors.Wrapf(err, "failed to update employee %s", id)
			}
		}
		return tx.Where("id = ?", id).First(&updated).Error
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}
