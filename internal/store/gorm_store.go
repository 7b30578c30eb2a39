package store

import (
	"time"

	"project-tracker-api/internal/models"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// GormStore implements every store interface on top of gorm
type GormStore struct {
	db *gorm.DB
}

// NewGormStore wraps an open gorm connection
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// DB exposes the underlying connection (health checks, CLI tooling)
func (s *GormStore) DB() *gorm.DB {
	return s.db
}

var now = func() time.Time { return time.Now().UTC() }

func newID() string {
	return uuid.New().String()
}

// lookupErr classifies a gorm lookup error
func lookupErr(err error, kind, id string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errors.Wrapf(ErrNotFound, "%s %s", kind, id)
	}
	return errors.Wrapf(err, "failed to fetch %s %s", kind, id)
}

// loadThreads returns the comment threads of the given parents keyed by parent id
func loadThreads(tx *gorm.DB, kind models.ParentKind, ids []string) (map[string][]models.Comment, error) {
	threads := make(map[string][]models.Comment, len(ids))
	if len(ids) == 0 {
		return threads, nil
	}
	var comments []models.Comment
	if err := tx.Where("parent_kind = ? AND parent_id IN ?", kind, ids).
		Order("seq asc").
		Find(&comments).Error; err != nil {
		return nil, errors.Wrapf(err, "failed to load %s comments", kind)
	}
	for _, c := range comments {
		threads[c.ParentID] = append(threads[c.ParentID], c)
	}
	return threads, nil
}

func deleteThreads(tx *gorm.DB, kind models.ParentKind, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	if err := tx.Where("parent_kind = ? AND parent_id IN ?", kind, ids).
		Delete(&models.Comment{}).Error; err != nil {
		return errors.Wrapf(err, "failed to delete %s comments", kind)
	}
	return nil
}

// Ensure GormStore implements the adapter interfaces at compile time.
var (
	_ TaskStore     = (*GormStore)(nil)
	_ ProjectStore  = (*GormStore)(nil)
	_ EmployeeStore = (*GormStore)(nil)
	_ WorkStore     = (*GormStore)(nil)
	_ CommentStore  = (*GormStore)(nil)
)
