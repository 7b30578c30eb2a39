package models

import "time"

// Role is the role of a principal
type Role string

const (
	RoleDirector    Role = "Director"
	RoleProjectHead Role = "Project Head"
	RoleEmployee    Role = "Employee"
)

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	switch r {
	case RoleDirector, RoleProjectHead, RoleEmployee:
		return true
	}
	return false
}

// EmployeeStatus represents the employment status of an employee
type EmployeeStatus string

const (
	EmployeeActive   EmployeeStatus = "Active"
	EmployeeInactive EmployeeStatus = "Inactive"
	EmployeeOnLeave  EmployeeStatus = "On Leave"
)

// Valid reports whether s is one of the known employee statuses
func (s EmployeeStatus) Valid() bool {
	switch s {
	case EmployeeActive, EmployeeInactive, EmployeeOnLeave:
		return true
	}
	return false
}

// Employee represents a principal of the system
type Employee struct {
	ID         string         `json:"id" gorm:"primaryKey"`
	Name       string         `json:"name" gorm:"not null"`
	Username   string         `json:"username" gorm:"uniqueIndex;not null"`
	Email      string         `json:"email" gorm:"uniqueIndex;not null"`
	Password   string         `json:"-" gorm:"not null"`
	Role       Role           `json:"role" gorm:"not null"`
	Status     EmployeeStatus `json:"status" gorm:"not null;default:'Active'"`
	Department string         `json:"department"`
	Phone      string         `json:"phone"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
}

// TableName specifies the table name for Employee Model
func (Employee) TableName() string {
	return "employees"
}
