// Package identity resolves an acting principal to its role and answers the
// capability questions the workflow, visibility and dashboard layers ask.
// Everything here is a pure function of the role; nothing holds state.
package identity

import (
	"fmt"
	"reflect"
	"strings"

	"project-tracker-api/internal/models"
)

// Principal is the acting identity behind a request
type Principal struct {
	ID   string
	Name string
	Role models.Role
}

// NewPrincipal builds a principal, normalising its id
func NewPrincipal(id any, name string, role models.Role) Principal {
	return Principal{ID: NormalizeID(id), Name: name, Role: role}
}

// CanCreateTask reports whether role may create and assign tasks for others
func CanCreateTask(role models.Role) bool {
	return role == models.RoleDirector || role == models.RoleProjectHead
}

// CanApprove reports whether role may respond to completion and extension requests.
// Project heads create and assign but do not approve.
func CanApprove(role models.Role) bool {
	return role == models.RoleDirector
}

// CanViewAll reports whether role sees every task and project
func CanViewAll(role models.Role) bool {
	return role == models.RoleDirector || role == models.RoleProjectHead
}

// CanManageEmployees reports whether role may create or edit employee records
func CanManageEmployees(role models.Role) bool {
	return role == models.RoleDirector
}

// IsSelf reports whether viewerID refers to the same employee as employeeID
func IsSelf(employeeID, viewerID any) bool {
	a, b := NormalizeID(employeeID), NormalizeID(viewerID)
	return a != "" && a == b
}

// CanAccessTask reports whether p may see and act on a task
func CanAccessTask(p Principal, task *models.Task) bool {
	if CanViewAll(p.Role) {
		return true
	}
	return IsSelf(task.AssigneeID, p.ID)
}

// CanAccessProject reports whether p may see and act on a project
func CanAccessProject(p Principal, project *models.Project) bool {
	if CanViewAll(p.Role) {
		return true
	}
	return IsSelf(project.AssigneeID, p.ID)
}

// NormalizeID turns an identifier of any representation into its canonical string.
// Ids arrive as plain strings, as typed ids implementing fmt.Stringer (uuid.UUID,
// driver object ids) or as raw bytes, and must compare equal when they name the same record.
func NormalizeID(id any) string {
	switch v := id.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case *string:
		if v == nil {
			return ""
		}
		return strings.TrimSpace(*v)
	case []byte:
		return strings.TrimSpace(string(v))
	}
	if rv := reflect.ValueOf(id); rv.Kind() == reflect.Pointer && rv.IsNil() {
		return ""
	}
	if v, ok := id.(fmt.Stringer); ok {
		return strings.TrimSpace(v.String())
	}
	return strings.TrimSpace(fmt.Sprint(id))
}
