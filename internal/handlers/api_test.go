package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"project-tracker-api/internal/app"
	"project-tracker-api/internal/auth"
	"project-tracker-api/internal/config"
	"project-tracker-api/internal/models"
	"project-tracker-api/internal/routes"
	"project-tracker-api/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

const password = "correct-horse"

type testServer struct {
	t      *testing.T
	router *gin.Engine
	app    *app.App
	tokens map[string]string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := testutil.NewInMemoryDB()
	require.NoError(t, err)

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	cfg := &config.Config{
		JWTSecret:        "test-secret",
		JWTIssuer:        "project-tracker-api",
		JWTAudience:      "project-tracker-clients",
		JWTExpiry:        time.Hour,
		EmployeeCacheTTL: time.Minute,
	}
	a := app.New(db, cfg, logger, nil)

	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	for _, e := range []models.Employee{
		{ID: "dir-1", Name: "Dana", Username: "dana", Email: "dana@example.com", Role: models.RoleDirector},
		{ID: "ph-1", Name: "Priya", Username: "priya", Email: "priya@example.com", Role: models.RoleProjectHead},
		{ID: "emp-3", Name: "Omar", Username: "omar", Email: "omar@example.com", Role: models.RoleEmployee},
		{ID: "emp-7", Name: "Lena", Username: "lena", Email: "lena@example.com", Role: models.RoleEmployee},
	} {
		e := e
		e.Password = hash
		require.NoError(t, a.Store.CreateEmployee(context.Background(), &e))
	}

	return &testServer{t: t, router: routes.SetupRoutes(a.Handler), app: a, tokens: map[string]string{}}
}

func (s *testServer) do(method, path, login string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if login != "" {
		req.Header.Set("Authorization", "Bearer "+s.token(login))
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) token(login string) string {
	s.t.Helper()
	if tok, ok := s.tokens[login]; ok {
		return tok
	}
	w := s.do(http.MethodPost, "/api/login", "", map[string]string{"login": login, "password": password})
	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())
	var resp struct{ Token string }
	require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &resp))
	s.tokens[login] = resp.Token
	return resp.Token
}

func decodeTask(t *testing.T, w *httptest.ResponseRecorder) models.Task {
	t.Helper()
	var task models.Task
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &task), w.Body.String())
	return task
}

func (s *testServer) createTask(login string, body map[string]any) models.Task {
	s.t.Helper()
	w := s.do(http.MethodPost, "/api/tasks", login, body)
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())
	return decodeTask(s.t, w)
}

func TestLogin(t *testing.T) {
	s := newTestServer(t)

	for _, login := range []string{"dana", "dana@example.com"} {
		w := s.do(http.MethodPost, "/api/login", "", map[string]string{"login": login, "password": password})
		require.Equal(t, http.StatusOK, w.Code)
		require.NotContains(t, w.Body.String(), "password")
	}

	w := s.do(http.MethodPost, "/api/login", "", map[string]string{"login": "dana", "password": "wrong"})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodPost, "/api/login", "", map[string]string{"login": "nobody", "password": password})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodPost, "/api/login", "", map[string]string{"login": "dana"})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCompletionWorkflow(t *testing.T) {
	s := newTestServer(t)
	task := s.createTask("dana", map[string]any{"title": "Survey site", "assigneeId": "emp-7", "status": "In Progress"})
	require.Equal(t, models.StatusInProgress, task.Status)
	require.Equal(t, "dir-1", task.AssignedByID)

	w := s.do(http.MethodPost, "/api/tasks/"+task.ID+"/completion-request", "lena", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	requested := decodeTask(t, w)
	require.Equal(t, models.RequestPending, requested.CompletionRequestStatus)
	require.Equal(t, "emp-7", requested.CompletionRequestedBy)
	require.Equal(t, models.StatusInProgress, requested.Status)

	w = s.do(http.MethodPost, "/api/tasks/"+task.ID+"/completion-response", "priya", map[string]any{"action": "approve"})
	require.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodPost, "/api/tasks/"+task.ID+"/completion-response", "dana", map[string]any{"action": "approve", "workDone": 100})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	approved := decodeTask(t, w)
	require.Equal(t, models.StatusCompleted, approved.Status)
	require.Equal(t, models.RequestApproved, approved.CompletionRequestStatus)
	require.Equal(t, "dir-1", approved.CompletionResponseBy)
	require.NotNil(t, approved.CompletedDate)
	require.Equal(t, 100, approved.WorkDone)

	w = s.do(http.MethodPost, "/api/tasks/"+task.ID+"/completion-request", "lena", nil)
	require.Equal(t, http.StatusConflict, w.Code)
}

func TestCompletionRejectKeepsStatus(t *testing.T) {
	s := newTestServer(t)
	task := s.createTask("priya", map[string]any{"title": "Draw elevations", "assigneeId": "emp-3"})

	w := s.do(http.MethodPost, "/api/tasks/"+task.ID+"/completion-request", "omar", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodPost, "/api/tasks/"+task.ID+"/completion-response", "dana", map[string]any{"action": "reject", "comment": "missing sheet 3"})
	require.Equal(t, http.StatusOK, w.Code)
	rejected := decodeTask(t, w)
	require.Equal(t, models.StatusPending, rejected.Status)
	require.Equal(t, models.RequestRejected, rejected.CompletionRequestStatus)
	require.Equal(t, "missing sheet 3", rejected.CompletionResponseComment)
	require.Nil(t, rejected.CompletedDate)
}

func TestExtensionWorkflow(t *testing.T) {
	s := newTestServer(t)
	task := s.createTask("dana", map[string]any{"title": "Submit permit", "assigneeId": "emp-3", "dueDate": "2026-07-01"})
	require.NotNil(t, task.DueDate)

	w := s.do(http.MethodPost, "/api/tasks/"+task.ID+"/extension-request", "omar", map[string]any{"newDeadline": "2026-07-15", "reason": "overloaded"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	requested := decodeTask(t, w)
	require.Equal(t, models.RequestPending, requested.ExtensionRequestStatus)
	require.Equal(t, "overloaded", requested.ReasonForExtension)

	w = s.do(http.MethodPost, "/api/tasks/"+task.ID+"/extension-response", "dana", map[string]any{"status": "Rejected"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	rejected := decodeTask(t, w)
	require.Equal(t, models.RequestRejected, rejected.ExtensionRequestStatus)
	require.True(t, task.DueDate.Equal(*rejected.DueDate))

	w = s.do(http.MethodPost, "/api/tasks/"+task.ID+"/extension-response", "dana", map[string]any{"status": "Maybe"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/api/tasks/"+task.ID+"/extension-response", "dana", map[string]any{"status": "approved"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Equal(t, models.RequestApproved, decodeTask(t, w).ExtensionRequestStatus)
}

func TestTaskPriorityValidation(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPost, "/api/tasks", "dana", map[string]any{"title": "Odd", "priority": "Flagged"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	task := s.createTask("dana", map[string]any{"title": "Grade lot", "priority": "Urgent"})
	w = s.do(http.MethodPatch, "/api/tasks/"+task.ID, "dana", map[string]any{"priority": "Banana"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodGet, "/api/tasks/"+task.ID, "dana", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, models.PriorityUrgent, decodeTask(t, w).Priority)
}

func TestTaskUpdatePermissions(t *testing.T) {
	s := newTestServer(t)
	task := s.createTask("dana", map[string]any{"title": "Model facade", "assigneeId": "emp-3"})

	w := s.do(http.MethodPatch, "/api/tasks/"+task.ID, "omar", map[string]any{"status": "In Progress", "workDone": 40})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Equal(t, 40, decodeTask(t, w).WorkDone)

	w = s.do(http.MethodPatch, "/api/tasks/"+task.ID, "omar", map[string]any{"status": "Completed"})
	require.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodPatch, "/api/tasks/"+task.ID, "omar", map[string]any{"title": "Renamed"})
	require.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodPatch, "/api/tasks/"+task.ID, "lena", map[string]any{"workDone": 10})
	require.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodPatch, "/api/tasks/"+task.ID, "omar", map[string]any{"workDone": 140})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPatch, "/api/tasks/"+task.ID, "dana", map[string]any{"status": "Completed"})
	require.Equal(t, http.StatusOK, w.Code)
	done := decodeTask(t, w)
	require.NotNil(t, done.CompletedDate)

	w = s.do(http.MethodPatch, "/api/tasks/"+task.ID, "dana", map[string]any{"status": "Pending"})
	require.Equal(t, http.StatusConflict, w.Code)
}

func TestTaskListVisibilityAndFilters(t *testing.T) {
	s := newTestServer(t)
	s.createTask("dana", map[string]any{"title": "A", "assigneeId": "emp-3", "priority": "Urgent"})
	s.createTask("priya", map[string]any{"title": "B", "assigneeId": "emp-7", "directorInputRequired": true})
	s.createTask("omar", map[string]any{"title": "C"})

	type listResp struct {
		Tasks []models.Task `json:"tasks"`
		Total int           `json:"total"`
	}
	list := func(login, query string) listResp {
		w := s.do(http.MethodGet, "/api/tasks"+query, login, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var resp listResp
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		return resp
	}

	require.Equal(t, 3, list("dana", "").Total)

	mine := list("omar", "")
	require.Equal(t, 2, mine.Total)
	for _, task := range mine.Tasks {
		require.Equal(t, "emp-3", task.AssigneeID)
	}

	require.Equal(t, 1, list("dana", "?source=Project%20Head").Total)
	require.Equal(t, 1, list("dana", "?source=Employee").Total)
	require.Equal(t, 1, list("dana", "?priority=Flagged").Total)
	require.Equal(t, 1, list("dana", "?priority=Urgent&assignee=emp-3").Total)
	require.Equal(t, 0, list("dana", "?status=Completed").Total)
	require.Len(t, list("dana", "?limit=2").Tasks, 2)

	w := s.do(http.MethodGet, "/api/tasks?status=Done", "dana", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTaskNotFoundAndAuth(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/api/tasks/missing", "dana", nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodPost, "/api/tasks/missing/completion-request", "omar", nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodGet, "/api/tasks", "", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodPost, "/api/tasks", "dana", map[string]any{"description": "no title"})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTaskComments(t *testing.T) {
	s := newTestServer(t)
	task := s.createTask("dana", map[string]any{"title": "Coordinate MEP", "assigneeId": "emp-7"})

	w := s.do(http.MethodPost, "/api/tasks/"+task.ID+"/comments", "lena", map[string]any{"content": "started"})
	require.Equal(t, http.StatusCreated, w.Code)
	w = s.do(http.MethodPost, "/api/tasks/"+task.ID+"/comments", "dana", map[string]any{"content": "thanks", "isVisible": false})
	require.Equal(t, http.StatusCreated, w.Code)

	withComments := decodeTask(t, w)
	require.Len(t, withComments.Comments, 2)
	require.Equal(t, "started", withComments.Comments[0].Content)
	require.Equal(t, "emp-7", withComments.Comments[0].AuthorID)
	require.False(t, withComments.Comments[1].IsVisible)
	require.NotEqual(t, withComments.Comments[0].ID, withComments.Comments[1].ID)

	w = s.do(http.MethodPost, "/api/tasks/"+task.ID+"/comments", "omar", map[string]any{"content": "not mine"})
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestProjectDeleteCascades(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPost, "/api/projects", "priya", map[string]any{"name": "Harbour", "assigneeId": "emp-3"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var project models.Project
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &project))
	require.Equal(t, models.ProjectCurrent, project.Status)

	task := s.createTask("priya", map[string]any{"title": "Piles", "projectId": project.ID, "assigneeId": "emp-3"})

	w = s.do(http.MethodPost, "/api/projects/"+project.ID+"/comments", "omar", map[string]any{"content": "kickoff done"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = s.do(http.MethodPatch, "/api/projects/"+project.ID, "omar", map[string]any{"name": "Renamed"})
	require.Equal(t, http.StatusForbidden, w.Code)
	w = s.do(http.MethodPatch, "/api/projects/"+project.ID, "omar", map[string]any{"status": "Upcoming"})
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodDelete, "/api/projects/"+project.ID, "omar", nil)
	require.Equal(t, http.StatusForbidden, w.Code)
	w = s.do(http.MethodDelete, "/api/projects/"+project.ID, "dana", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodGet, "/api/tasks/"+task.ID, "dana", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	w = s.do(http.MethodGet, "/api/projects/"+project.ID, "dana", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestEmployeeSelfServiceProject(t *testing.T) {
	s := newTestServer(t)
	w := s.do(http.MethodPost, "/api/projects", "lena", map[string]any{"name": "Side study"})
	require.Equal(t, http.StatusCreated, w.Code)
	var project models.Project
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &project))
	require.True(t, project.IsEmployeeCreated)
	require.Equal(t, "emp-7", project.AssigneeID)

	w = s.do(http.MethodGet, "/api/projects?source=Employee", "dana", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "Side study")
}

func TestEmployees(t *testing.T) {
	s := newTestServer(t)
	newEmployee := map[string]any{
		"name": "Ivo", "username": "ivo", "email": "ivo@example.com",
		"password": "secret-pass", "role": "Employee",
	}

	w := s.do(http.MethodPost, "/api/employees", "priya", newEmployee)
	require.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodPost, "/api/employees", "dana", newEmployee)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created models.Employee
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = s.do(http.MethodGet, "/api/employees", "omar", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "ivo@example.com")

	w = s.do(http.MethodPatch, "/api/employees/"+created.ID, "omar", map[string]any{"phone": "123"})
	require.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodPatch, "/api/employees/emp-3", "omar", map[string]any{"phone": "555-0101", "role": "Director"})
	require.Equal(t, http.StatusOK, w.Code)
	var updated models.Employee
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	require.Equal(t, "555-0101", updated.Phone)
	require.Equal(t, models.RoleEmployee, updated.Role)

	w = s.do(http.MethodPost, "/api/login", "", map[string]string{"login": "ivo", "password": "secret-pass"})
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodPost, "/api/employees", "dana", newEmployee)
	require.Equal(t, http.StatusConflict, w.Code, w.Body.String())

	w = s.do(http.MethodPatch, "/api/employees/"+created.ID, "dana", map[string]any{"status": "Retired"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPatch, "/api/employees/"+created.ID, "dana", map[string]any{"status": "On Leave"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestIndependentWork(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPost, "/api/work", "omar", map[string]any{"date": "2026-04-02", "category": "Site", "timeSpent": 3.5, "description": "site visit"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var entry models.IndependentWork
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entry))
	require.Equal(t, "emp-3", entry.EmployeeID)

	w = s.do(http.MethodPost, "/api/work/"+entry.ID+"/comments", "dana", map[string]any{"content": "good"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = s.do(http.MethodGet, "/api/work", "lena", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotContains(t, w.Body.String(), "site visit")

	w = s.do(http.MethodGet, "/api/work?employeeId=emp-3", "dana", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "site visit")

	w = s.do(http.MethodDelete, "/api/work/"+entry.ID, "lena", nil)
	require.Equal(t, http.StatusForbidden, w.Code)
	w = s.do(http.MethodDelete, "/api/work/"+entry.ID, "omar", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodPost, "/api/work", "omar", map[string]any{"date": "yesterday", "description": "x"})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDashboard(t *testing.T) {
	s := newTestServer(t)
	s.createTask("dana", map[string]any{"title": "Late", "assigneeId": "emp-3", "dueDate": "2020-01-01", "priority": "Urgent"})
	s.createTask("dana", map[string]any{"title": "Later", "assigneeId": "emp-7", "priority": "Free Time"})

	var view struct {
		Summary struct {
			Tasks struct {
				Total   int `json:"total"`
				Overdue int `json:"overdue"`
			} `json:"tasks"`
			ActiveEmployees int `json:"activeEmployees"`
			Priorities      struct {
				Scope  string `json:"scope"`
				Urgent int    `json:"urgent"`
			} `json:"priorities"`
		} `json:"summary"`
	}

	w := s.do(http.MethodGet, "/api/dashboard", "dana", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	require.Equal(t, 2, view.Summary.Tasks.Total)
	require.Equal(t, 1, view.Summary.Tasks.Overdue)
	require.Equal(t, 4, view.Summary.ActiveEmployees)
	require.Equal(t, "all", view.Summary.Priorities.Scope)

	w = s.do(http.MethodGet, "/api/dashboard", "lena", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	require.Equal(t, 1, view.Summary.Tasks.Total)
	require.Equal(t, 0, view.Summary.Tasks.Overdue)
	require.Equal(t, "assigned", view.Summary.Priorities.Scope)
	require.Equal(t, 0, view.Summary.Priorities.Urgent)
}
