package models

import (
	"time"
)

// TaskStatus represents the primary lifecycle status of a task
type TaskStatus string

const (
	StatusPending    TaskStatus = "Pending"
	StatusInProgress TaskStatus = "In Progress"
	StatusCompleted  TaskStatus = "Completed"
)

// Valid reports whether s is one of the known task statuses
func (s TaskStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// TaskPriority represents the priority bucket of a task
type TaskPriority string

const (
	PriorityUrgent     TaskPriority = "Urgent"
	PriorityLessUrgent TaskPriority = "Less Urgent"
	PriorityFreeTime   TaskPriority = "Free Time"
	PriorityCustom     TaskPriority = "Custom"

	// PriorityFlagged is a filter-only pseudo priority matching tasks that
	// need director input. It is never stored on a task.
	PriorityFlagged TaskPriority = "Flagged"
)

// Valid reports whether p can be stored on a task. Flagged is not storable.
func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityUrgent, PriorityLessUrgent, PriorityFreeTime, PriorityCustom:
		return true
	}
	return false
}

// RequestStatus is the state of a completion or extension request.
// The empty value means no request has been made.
type RequestStatus string

const (
	RequestNone     RequestStatus = ""
	RequestPending  RequestStatus = "Pending"
	RequestApproved RequestStatus = "Approved"
	RequestRejected RequestStatus = "Rejected"
)

// Task represents a unit of work in the system
type Task struct {
	ID                    string       `json:"id" gorm:"primaryKey"`
	Title                 string       `json:"title" gorm:"not null"`
	Description           string       `json:"description"`
	ProjectID             string       `json:"projectId" gorm:"column:project_id;index"`
	AssigneeID            string       `json:"assigneeId" gorm:"column:assignee_id;index"`
	AssignedByID          string       `json:"assignedById" gorm:"column:assigned_by_id;not null"`
	Priority              TaskPriority `json:"priority" gorm:"not null;default:'Less Urgent'"`
	Status                TaskStatus   `json:"status" gorm:"not null;default:'Pending'"`
	EstimatedHours        float64      `json:"estimatedHours"`
	ActualHours           float64      `json:"actualHours"`
	StartDate             *time.Time   `json:"startDate,omitempty"`
	DueDate               *time.Time   `json:"dueDate,omitempty"`
	CompletedDate         *time.Time   `json:"completedDate,omitempty"`
	IsLocked              bool         `json:"isLocked"`
	DirectorInputRequired bool         `json:"directorInputRequired"`
	IsEmployeeCreated     bool         `json:"isEmployeeCreated"`
	WorkDone              int          `json:"workDone"`

	CompletionRequestStatus   RequestStatus `json:"completionRequestStatus,omitempty"`
	CompletionRequestedBy     string        `json:"completionRequestedBy,omitempty"`
	CompletionRequestedAt     *time.Time    `json:"completionRequestedAt,omitempty"`
	CompletionResponseBy      string        `json:"completionResponseBy,omitempty"`
	CompletionResponseAt      *time.Time    `json:"completionResponseAt,omitempty"`
	CompletionResponseComment string        `json:"completionResponseComment,omitempty"`

	ExtensionRequestStatus   RequestStatus `json:"extensionRequestStatus,omitempty"`
	NewDeadlineProposal      *time.Time    `json:"newDeadlineProposal,omitempty"`
	ReasonForExtension       string        `json:"reasonForExtension,omitempty"`
	ExtensionRequestedBy     string        `json:"extensionRequestedBy,omitempty"`
	ExtensionRequestDate     *time.Time    `json:"extensionRequestDate,omitempty"`
	ExtensionResponseBy      string        `json:"extensionResponseBy,omitempty"`
	ExtensionResponseAt      *time.Time    `json:"extensionResponseAt,omitempty"`
	ExtensionResponseComment string        `json:"extensionResponseComment,omitempty"`

	Comments []Comment `json:"comments" gorm:"-"`

	// Version is bumped on every write and guards concurrent updates.
	Version   int64     `json:"version" gorm:"not null;default:0"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName specifies the table name for Task Model
func (Task) TableName() string {
	return "tasks"
}
