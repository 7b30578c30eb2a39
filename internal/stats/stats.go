// Package stats derives dashboard counters from a snapshot of records.
// Everything here is pure: inputs are never modified and the result depends
// only on the snapshot, the viewer and the time passed in.
package stats

import (
	"time"

	"project-tracker-api/internal/identity"
	"project-tracker-api/internal/models"
)

// Scope names the task set the priority buckets were computed over
type Scope string

const (
	ScopeAll      Scope = "all"
	ScopeAssigned Scope = "assigned"
)

// Snapshot is the input to Compute. Callers pass collections already
// filtered for the viewer where that applies.
type Snapshot struct {
	Tasks     []models.Task
	Projects  []models.Project
	Employees []models.Employee
}

// TaskCounts are counters over every task in the snapshot
type TaskCounts struct {
	Total      int `json:"total"`
	Completed  int `json:"completed"`
	Pending    int `json:"pending"`
	InProgress int `json:"inProgress"`
	Overdue    int `json:"overdue"`
}

// ProjectCounts are counters over every project in the snapshot
type ProjectCounts struct {
	Total  int `json:"total"`
	Active int `json:"active"`
}

// PriorityCounts buckets tasks by priority within Scope
type PriorityCounts struct {
	Scope      Scope `json:"scope"`
	Urgent     int   `json:"urgent"`
	LessUrgent int   `json:"lessUrgent"`
	FreeTime   int   `json:"freeTime"`
	Completed  int   `json:"completed"`
}

// Summary is the set of dashboard counters
type Summary struct {
	Tasks           TaskCounts     `json:"tasks"`
	Projects        ProjectCounts  `json:"projects"`
	ActiveEmployees int            `json:"activeEmployees"`
	Priorities      PriorityCounts `json:"priorities"`
	GeneratedAt     time.Time      `json:"generatedAt"`
}

// IsOverdue reports whether task is unfinished and past its due date at now.
// A task due exactly at now is not yet overdue.
func IsOverdue(task models.Task, now time.Time) bool {
	return task.Status != models.StatusCompleted && task.DueDate != nil && task.DueDate.Before(now)
}

// Compute derives the summary for viewer from snap at now.
func Compute(snap Snapshot, viewer identity.Principal, now time.Time) Summary {
	sum := Summary{GeneratedAt: now}

	for _, t := range snap.Tasks {
		sum.Tasks.Total++
		switch t.Status {
		case models.StatusCompleted:
			sum.Tasks.Completed++
		case models.StatusPending:
			sum.Tasks.Pending++
		case models.StatusInProgress:
			sum.Tasks.InProgress++
		}
		if IsOverdue(t, now) {
			sum.Tasks.Overdue++
		}
	}

	for _, p := range snap.Projects {
		sum.Projects.Total++
		if p.Status == models.ProjectCurrent {
			sum.Projects.Active++
		}
	}

	for _, e := range snap.Employees {
		if e.Status == models.EmployeeActive {
			sum.ActiveEmployees++
		}
	}

	sum.Priorities = priorities(snap.Tasks, viewer)
	return sum
}

func priorities(tasks []models.Task, viewer identity.Principal) PriorityCounts {
	counts := PriorityCounts{Scope: ScopeAll}
	if !identity.CanViewAll(viewer.Role) {
		counts.Scope = ScopeAssigned
	}

	for _, t := range tasks {
		if counts.Scope == ScopeAssigned && !identity.IsSelf(t.AssigneeID, viewer.ID) {
			continue
		}
		switch t.Priority {
		case models.PriorityUrgent:
			counts.Urgent++
		case models.PriorityLessUrgent:
			counts.LessUrgent++
		case models.PriorityFreeTime:
			counts.FreeTime++
		}
		if t.Status == models.StatusCompleted {
			counts.Completed++
		}
	}
	return counts
}
