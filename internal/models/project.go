package models

import "time"

// ProjectStatus represents the status of a project
type ProjectStatus string

const (
	ProjectCurrent   ProjectStatus = "Current"
	ProjectUpcoming  ProjectStatus = "Upcoming"
	ProjectSleeping  ProjectStatus = "Sleeping (On Hold)"
	ProjectCompleted ProjectStatus = "Completed"
)

// Valid reports whether s is one of the known project statuses
func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectCurrent, ProjectUpcoming, ProjectSleeping, ProjectCompleted:
		return true
	}
	return false
}

// Project groups tasks. Tasks reference a project by id and are deleted with it.
type Project struct {
	ID                    string        `json:"id" gorm:"primaryKey"`
	Name                  string        `json:"name" gorm:"not null"`
	Description           string        `json:"description"`
	Status                ProjectStatus `json:"status" gorm:"not null;default:'Current'"`
	AssigneeID            string        `json:"assigneeId" gorm:"column:assignee_id;index"`
	CreatedByID           string        `json:"createdById" gorm:"column:created_by_id"`
	StartDate             *time.Time    `json:"startDate,omitempty"`
	EndDate               *time.Time    `json:"endDate,omitempty"`
	IsEmployeeCreated     bool          `json:"isEmployeeCreated"`
	DirectorInputRequired bool          `json:"directorInputRequired"`
	Comments              []Comment     `json:"comments" gorm:"-"`
	CreatedAt             time.Time     `json:"createdAt"`
	UpdatedAt             time.Time     `json:"updatedAt"`
}

// TableName specifies the table name for Project Model
func (Project) TableName() string {
	return "projects"
}
