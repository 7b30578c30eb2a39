// Package attribution classifies tasks and projects by who originated them
// and narrows collections to what a viewer may see.
package attribution

import (
	"time"

	"project-tracker-api/internal/identity"
	"project-tracker-api/internal/models"
)

// Source is the creation source of a task or project
type Source string

const (
	SourceDirector    Source = "Director"
	SourceProjectHead Source = "Project Head"
	SourceEmployee    Source = "Employee"
)

// Valid reports whether s is a known source
func (s Source) Valid() bool {
	switch s {
	case SourceDirector, SourceProjectHead, SourceEmployee:
		return true
	}
	return false
}

// Directory indexes employees by normalized id
type Directory map[string]models.Employee

// NewDirectory builds a Directory from a list of employees.
func NewDirectory(employees []models.Employee) Directory {
	dir := make(Directory, len(employees))
	for _, e := range employees {
		dir[identity.NormalizeID(e.ID)] = e
	}
	return dir
}

// RoleOf returns the role of the employee with the given id, if known.
func (d Directory) RoleOf(id any) (models.Role, bool) {
	e, ok := d[identity.NormalizeID(id)]
	if !ok {
		return "", false
	}
	return e.Role, true
}

func classify(employeeCreated bool, creatorID string, dir Directory) Source {
	if employeeCreated {
		return SourceEmployee
	}
	if role, ok := dir.RoleOf(creatorID); ok && role == models.RoleProjectHead {
		return SourceProjectHead
	}
	return SourceDirector
}

// ClassifyTask returns the source of a task. Employee-created tasks are
// always SourceEmployee; otherwise a project head assigner yields
// SourceProjectHead and anything else falls back to SourceDirector.
func ClassifyTask(task models.Task, dir Directory) Source {
	return classify(task.IsEmployeeCreated, task.AssignedByID, dir)
}

// ClassifyProject applies the task rules to a project, keyed on its creator.
func ClassifyProject(project models.Project, dir Directory) Source {
	return classify(project.IsEmployeeCreated, project.CreatedByID, dir)
}

// VisibleTasks returns the tasks p may see. Directors and project heads see
// everything; employees only see tasks assigned to them.
func VisibleTasks(p identity.Principal, tasks []models.Task) []models.Task {
	out := make([]models.Task, 0, len(tasks))
	for i := range tasks {
		if identity.CanAccessTask(p, &tasks[i]) {
			out = append(out, tasks[i])
		}
	}
	return out
}

// VisibleProjects returns the projects p may see.
func VisibleProjects(p identity.Principal, projects []models.Project) []models.Project {
	out := make([]models.Project, 0, len(projects))
	for i := range projects {
		if identity.CanAccessProject(p, &projects[i]) {
			out = append(out, projects[i])
		}
	}
	return out
}

// TaskFilter narrows a task list. Zero fields match everything and set
// fields combine with AND. Within Statuses and Priorities any listed value
// matches. PriorityFlagged matches tasks needing director input.
type TaskFilter struct {
	Statuses   []models.TaskStatus
	Priorities []models.TaskPriority
	AssigneeID string
	Source     Source
	DueFrom    *time.Time
	DueTo      *time.Time
}

// IsZero reports whether f filters nothing
func (f TaskFilter) IsZero() bool {
	return len(f.Statuses) == 0 && len(f.Priorities) == 0 && f.AssigneeID == "" &&
		f.Source == "" && f.DueFrom == nil && f.DueTo == nil
}

// Match reports whether task satisfies every set field of f.
func (f TaskFilter) Match(task models.Task, dir Directory) bool {
	if len(f.Statuses) > 0 && !containsStatus(f.Statuses, task.Status) {
		return false
	}
	if len(f.Priorities) > 0 && !matchPriority(f.Priorities, task) {
		return false
	}
	if f.AssigneeID != "" && !identity.IsSelf(task.AssigneeID, f.AssigneeID) {
		return false
	}
	if f.Source != "" && ClassifyTask(task, dir) != f.Source {
		return false
	}
	if f.DueFrom != nil || f.DueTo != nil {
		if task.DueDate == nil {
			return false
		}
		if f.DueFrom != nil && task.DueDate.Before(*f.DueFrom) {
			return false
		}
		if f.DueTo != nil && task.DueDate.After(*f.DueTo) {
			return false
		}
	}
	return true
}

// FilterTasks returns the tasks matching f, preserving order. An empty
// result is returned as an empty, non-nil slice.
func FilterTasks(tasks []models.Task, f TaskFilter, dir Directory) []models.Task {
	out := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if f.Match(t, dir) {
			out = append(out, t)
		}
	}
	return out
}

// ProjectFilter narrows a project list the same way TaskFilter does.
type ProjectFilter struct {
	Statuses   []models.ProjectStatus
	AssigneeID string
	Source     Source
	Flagged    bool
}

// Match reports whether project satisfies every set field of f.
func (f ProjectFilter) Match(project models.Project, dir Directory) bool {
	if len(f.Statuses) > 0 {
		found := false
		for _, s := range f.Statuses {
			if s == project.Status {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.AssigneeID != "" && !identity.IsSelf(project.AssigneeID, f.AssigneeID) {
		return false
	}
	if f.Source != "" && ClassifyProject(project, dir) != f.Source {
		return false
	}
	if f.Flagged && !project.DirectorInputRequired {
		return false
	}
	return true
}

// FilterProjects returns the projects matching f, preserving order.
func FilterProjects(projects []models.Project, f ProjectFilter, dir Directory) []models.Project {
	out := make([]models.Project, 0, len(projects))
	for _, p := range projects {
		if f.Match(p, dir) {
			out = append(out, p)
		}
	}
	return out
}

func containsStatus(statuses []models.TaskStatus, s models.TaskStatus) bool {
	for _, v := range statuses {
		if v == s {
			return true
		}
	}
	return false
}

func matchPriority(priorities []models.TaskPriority, task models.Task) bool {
	for _, p := range priorities {
		if p == models.PriorityFlagged {
			if task.DirectorInputRequired {
				return true
			}
			continue
		}
		if p == task.Priority {
			return true
		}
	}
	return false
}
