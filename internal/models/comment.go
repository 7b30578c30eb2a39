package models

import "time"

// ParentKind names the kind of record a comment thread hangs off
type ParentKind string

const (
	ParentTask            ParentKind = "task"
	ParentProject         ParentKind = "project"
	ParentIndependentWork ParentKind = "independent_work"
)

// Comment is one entry of an append-only comment thread.
// Seq is the insertion order; ID is stable and independent of position.
type Comment struct {
	Seq        uint64     `json:"-" gorm:"primaryKey;autoIncrement"`
	ID         string     `json:"id" gorm:"uniqueIndex;not null"`
	ParentKind ParentKind `json:"-" gorm:"column:parent_kind;index:idx_comment_parent;not null"`
	ParentID   string     `json:"-" gorm:"column:parent_id;index:idx_comment_parent;not null"`
	AuthorID   string     `json:"userId" gorm:"column:author_id;not null"`
	AuthorName string     `json:"userName" gorm:"column:author_name"`
	Content    string     `json:"content" gorm:"not null"`
	IsVisible  bool       `json:"isVisible" gorm:"not null"`
	Timestamp  time.Time  `json:"timestamp"`
}

// TableName specifies the table name for Comment Model
func (Comment) TableName() string {
	return "comments"
}
