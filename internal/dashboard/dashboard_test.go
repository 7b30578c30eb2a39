package dashboard

import (
	"context"
	"io"
	"testing"
	"time"

	"project-tracker-api/internal/attribution"
	"project-tracker-api/internal/identity"
	"project-tracker-api/internal/models"
	"project-tracker-api/internal/stats"
	"project-tracker-api/internal/store"
	"project-tracker-api/internal/testutil"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	svc   *Service
	store *store.GormStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := testutil.NewInMemoryDB()
	require.NoError(t, err)
	s := store.NewGormStore(db)
	ctx := context.Background()

	employees := []models.Employee{
		{ID: "dir-1", Name: "Dana", Username: "dana", Email: "dana@example.com", Password: "x", Role: models.RoleDirector},
		{ID: "ph-1", Name: "Priya", Username: "priya", Email: "priya@example.com", Password: "x", Role: models.RoleProjectHead},
		{ID: "emp-3", Name: "Omar", Username: "omar", Email: "omar@example.com", Password: "x", Role: models.RoleEmployee},
		{ID: "emp-7", Name: "Lena", Username: "lena", Email: "lena@example.com", Password: "x", Role: models.RoleEmployee, Status: models.EmployeeOnLeave},
	}
	for i := range employees {
		require.NoError(t, s.CreateEmployee(ctx, &employees[i]))
	}

	yesterday := time.Now().UTC().Add(-24 * time.Hour)
	completedAt := yesterday
	tasks := []models.Task{
		{Title: "Overdue", AssigneeID: "emp-3", AssignedByID: "dir-1", Status: models.StatusPending, Priority: models.PriorityUrgent, DueDate: &yesterday},
		{Title: "From PH", AssigneeID: "emp-3", AssignedByID: "ph-1", Status: models.StatusInProgress, Priority: models.PriorityFreeTime},
		{Title: "Done", AssigneeID: "emp-7", AssignedByID: "ph-1", Status: models.StatusCompleted, Priority: models.PriorityUrgent, CompletedDate: &completedAt},
		{Title: "Self", AssigneeID: "emp-7", AssignedByID: "emp-7", Status: models.StatusPending, Priority: models.PriorityLessUrgent, IsEmployeeCreated: true},
	}
	for i := range tasks {
		require.NoError(t, s.CreateTask(ctx, &tasks[i]))
	}

	projects := []models.Project{
		{Name: "Harbour", Status: models.ProjectCurrent, AssigneeID: "emp-3", CreatedByID: "dir-1"},
		{Name: "Library", Status: models.ProjectUpcoming, AssigneeID: "emp-7", CreatedByID: "ph-1"},
	}
	for i := range projects {
		require.NoError(t, s.CreateProject(ctx, &projects[i]))
	}

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return &fixture{
		svc:   NewService(s, s, s, time.Minute, logger),
		store: s,
	}
}

func TestBuild_Director(t *testing.T) {
	f := newFixture(t)
	viewer := identity.NewPrincipal("dir-1", "Dana", models.RoleDirector)

	view, err := f.svc.Build(context.Background(), viewer, attribution.TaskFilter{}, attribution.ProjectFilter{})
	require.NoError(t, err)
	require.Len(t, view.Tasks, 4)
	require.Len(t, view.Projects, 2)
	require.Equal(t, stats.TaskCounts{Total: 4, Completed: 1, Pending: 2, InProgress: 1, Overdue: 1}, view.Summary.Tasks)
	require.Equal(t, stats.ProjectCounts{Total: 2, Active: 1}, view.Summary.Projects)
	require.Equal(t, 3, view.Summary.ActiveEmployees)
	require.Equal(t, stats.ScopeAll, view.Summary.Priorities.Scope)
	require.Equal(t, 2, view.Summary.Priorities.Urgent)
}

func TestBuild_EmployeeSeesOwnOnly(t *testing.T) {
	f := newFixture(t)
	viewer := identity.NewPrincipal("emp-3", "Omar", models.RoleEmployee)

	view, err := f.svc.Build(context.Background(), viewer, attribution.TaskFilter{}, attribution.ProjectFilter{})
	require.NoError(t, err)
	require.Len(t, view.Tasks, 2)
	for _, task := range view.Tasks {
		require.Equal(t, "emp-3", task.AssigneeID)
	}
	require.Len(t, view.Projects, 1)
	require.Equal(t, "Harbour", view.Projects[0].Name)
	require.Equal(t, stats.ScopeAssigned, view.Summary.Priorities.Scope)
	require.Equal(t, 1, view.Summary.Tasks.Overdue)
}

func TestTasks_FilterBySource(t *testing.T) {
	f := newFixture(t)
	viewer := identity.NewPrincipal("ph-1", "Priya", models.RoleProjectHead)
	ctx := context.Background()

	fromPH, err := f.svc.Tasks(ctx, viewer, attribution.TaskFilter{Source: attribution.SourceProjectHead})
	require.NoError(t, err)
	require.Len(t, fromPH, 2)

	selfService, err := f.svc.Tasks(ctx, viewer, attribution.TaskFilter{Source: attribution.SourceEmployee})
	require.NoError(t, err)
	require.Len(t, selfService, 1)
	require.Equal(t, "Self", selfService[0].Title)

	none, err := f.svc.Tasks(ctx, viewer, attribution.TaskFilter{Statuses: []models.TaskStatus{models.StatusCompleted}, AssigneeID: "emp-3"})
	require.NoError(t, err)
	require.Empty(t, none)
}

func TestEmployees_CachedUntilInvalidated(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.svc.Employees(ctx)
	require.NoError(t, err)
	require.Len(t, first, 4)

	extra := models.Employee{ID: "emp-9", Name: "Ivo", Username: "ivo", Email: "ivo@example.com", Password: "x", Role: models.RoleEmployee}
	require.NoError(t, f.store.CreateEmployee(ctx, &extra))

	cached, err := f.svc.Employees(ctx)
	require.NoError(t, err)
	require.Len(t, cached, 4)

	f.svc.InvalidateEmployees()
	fresh, err := f.svc.Employees(ctx)
	require.NoError(t, err)
	require.Len(t, fresh, 5)
}
