package models

import "time"

// WorkCategory classifies an independent work entry
type WorkCategory string

const (
	WorkDesign WorkCategory = "Design"
	WorkSite   WorkCategory = "Site"
	WorkOffice WorkCategory = "Office"
	WorkOther  WorkCategory = "Other"
)

// IndependentWork is a per-employee log entry outside of any task
type IndependentWork struct {
	ID          string       `json:"id" gorm:"primaryKey"`
	EmployeeID  string       `json:"employeeId" gorm:"column:employee_id;index;not null"`
	Date        time.Time    `json:"date"`
	Category    WorkCategory `json:"category" gorm:"not null;default:'Other'"`
	TimeSpent   float64      `json:"timeSpent"`
	Description string       `json:"description"`
	Comments    []Comment    `json:"comments" gorm:"-"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// TableName specifies the table name for IndependentWork Model
func (IndependentWork) TableName() string {
	return "independent_work"
}
