package store

import (
	"context"

	"project-tracker-api/internal/models"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// parentModel returns the model holding threads of the given kind
func parentModel(kind models.ParentKind) (any, error) {
	switch kind {
	case models.ParentTask:
		return &models.Task{}, nil
	case models.ParentProject:
		return &models.Project{}, nil
	case models.ParentIndependentWork:
		return &models.IndependentWork{}, nil
	}
	return nil, errors.Errorf("unknown comment parent kind %q", kind)
}

// AppendComment implements CommentStore.AppendComment.
func (s *GormStore) AppendComment(ctx context.Context, kind models.ParentKind, parentID string, c *models.Comment) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return appendComment(tx, kind, parentID, c)
	})
}

// appendComment inserts a single row; existing comments are never read back
// and rewritten, so concurrent appends cannot lose each other.
func appendComment(tx *gorm.DB, kind models.ParentKind, parentID string, c *models.Comment) error {
	model, err := parentModel(kind)
	if err != nil {
		return err
	}
	var n int64
	if err := tx.Model(model).Where("id = ?", parentID).Count(&n).Error; err != nil {
		return errors.Wrapf(err, "failed to check %s %s", kind, parentID)
	}
	if n == 0 {
		return errors.Wrapf(ErrNotFound, "%s %s", kind, parentID)
	}

	c.Seq = 0
	if c.ID == "" {
		c.ID = newID()
	}
	c.ParentKind = kind
	c.ParentID = parentID
	if c.Timestamp.IsZero() {
		c.Timestamp = now()
	}
	if err := tx.Create(c).Error; err != nil {
		return errors.Wrapf(err, "failed to append comment to %s %s", kind, parentID)
	}
	return nil
}

// ListComments implements CommentStore.ListComments.
func (s *GormStore) ListComments(ctx context.Context, kind models.ParentKind, parentID string) ([]models.Comment, error) {
	threads, err := loadThreads(s.db.WithContext(ctx), kind, []string{parentID})
	if err != nil {
		return nil, err
	}
	return threads[parentID], nil
}
