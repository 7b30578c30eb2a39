// Package dashboard assembles what a viewer sees: the visible, filtered task
// and project lists and the counters computed over them.
package dashboard

import (
	"context"
	"time"

	"project-tracker-api/internal/attribution"
	"project-tracker-api/internal/cache"
	"project-tracker-api/internal/identity"
	"project-tracker-api/internal/models"
	"project-tracker-api/internal/stats"
	"project-tracker-api/internal/store"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const directoryKey = "employees"

// clock for overdue checks
var now = func() time.Time { return time.Now().UTC() }

// View is a dashboard response
type View struct {
	Summary  stats.Summary    `json:"summary"`
	Tasks    []models.Task    `json:"tasks"`
	Projects []models.Project `json:"projects"`
}

// Service reads snapshots from the stores for a viewer
type Service struct {
	tasks     store.TaskStore
	projects  store.ProjectStore
	employees store.EmployeeStore
	directory *cache.TTLCache[string, []models.Employee]
	log       *logrus.Logger
}

// NewService builds a dashboard over the stores. The employee list used for
// attribution is cached for directoryTTL.
func NewService(tasks store.TaskStore, projects store.ProjectStore, employees store.EmployeeStore, directoryTTL time.Duration, logger *logrus.Logger) *Service {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Service{
		tasks:     tasks,
		projects:  projects,
		employees: employees,
		directory: cache.New[string, []models.Employee](directoryTTL),
		log:       logger,
	}
}

// Employees returns the cached employee list.
func (s *Service) Employees(ctx context.Context) ([]models.Employee, error) {
	return s.directory.GetOrLoad(ctx, directoryKey, func(ctx context.Context, _ string) ([]models.Employee, error) {
		s.log.Debug("loading employee directory")
		employees, err := s.employees.FindEmployees(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "failed to load employee directory")
		}
		return employees, nil
	})
}

// InvalidateEmployees forces the next read to go to the store. Call it after
// an employee is created or changed.
func (s *Service) InvalidateEmployees() {
	s.directory.Invalidate(directoryKey)
}

// Tasks returns the tasks p may see that match f.
func (s *Service) Tasks(ctx context.Context, p identity.Principal, f attribution.TaskFilter) ([]models.Task, error) {
	q := store.TaskQuery{}
	if !identity.CanViewAll(p.Role) {
		q.AssigneeID = p.ID
	}
	tasks, err := s.tasks.FindTasks(ctx, q)
	if err != nil {
		return nil, err
	}
	tasks = attribution.VisibleTasks(p, tasks)
	if f.IsZero() {
		return tasks, nil
	}

	dir, err := s.directoryIndex(ctx)
	if err != nil {
		return nil, err
	}
	return attribution.FilterTasks(tasks, f, dir), nil
}

// Projects returns the projects p may see that match f.
func (s *Service) Projects(ctx context.Context, p identity.Principal, f attribution.ProjectFilter) ([]models.Project, error) {
	projects, err := s.projects.FindProjects(ctx)
	if err != nil {
		return nil, err
	}
	projects = attribution.VisibleProjects(p, projects)

	dir, err := s.directoryIndex(ctx)
	if err != nil {
		return nil, err
	}
	return attribution.FilterProjects(projects, f, dir), nil
}

// Build returns the dashboard for p. Counters are computed over the filtered
// lists, so the numbers always agree with what is shown.
func (s *Service) Build(ctx context.Context, p identity.Principal, tf attribution.TaskFilter, pf attribution.ProjectFilter) (*View, error) {
	tasks, err := s.Tasks(ctx, p, tf)
	if err != nil {
		return nil, err
	}
	projects, err := s.Projects(ctx, p, pf)
	if err != nil {
		return nil, err
	}
	employees, err := s.Employees(ctx)
	if err != nil {
		return nil, err
	}

	summary := stats.Compute(stats.Snapshot{
		Tasks:     tasks,
		Projects:  projects,
		Employees: employees,
	}, p, now())

	return &View{Summary: summary, Tasks: tasks, Projects: projects}, nil
}

func (s *Service) directoryIndex(ctx context.Context) (attribution.Directory, error) {
	employees, err := s.Employees(ctx)
	if err != nil {
		return nil, err
	}
	return attribution.NewDirectory(employees), nil
}
