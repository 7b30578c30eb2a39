package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"project-tracker-api/internal/attribution"
	"project-tracker-api/internal/models"
	"project-tracker-api/internal/workflow"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

// CreateTaskRequest represents the request payload for creating a task
type CreateTaskRequest struct {
	Title                 string              `json:"title" binding:"required"`
	Description           string              `json:"description"`
	ProjectID             string              `json:"projectId"`
	AssigneeID            string              `json:"assigneeId"`
	Priority              models.TaskPriority `json:"priority"`
	Status                models.TaskStatus   `json:"status"`
	EstimatedHours        float64             `json:"estimatedHours"`
	StartDate             *string             `json:"startDate"`
	DueDate               *string             `json:"dueDate"`
	DirectorInputRequired bool                `json:"directorInputRequired"`
}

// UpdateTaskRequest represents the request payload for updating a task
type UpdateTaskRequest struct {
	Title                 *string              `json:"title"`
	Description           *string              `json:"description"`
	ProjectID             *string              `json:"projectId"`
	AssigneeID            *string              `json:"assigneeId"`
	Priority              *models.TaskPriority `json:"priority"`
	Status                *models.TaskStatus   `json:"status"`
	EstimatedHours        *float64             `json:"estimatedHours"`
	ActualHours           *float64             `json:"actualHours"`
	StartDate             *string              `json:"startDate"`
	DueDate               *string              `json:"dueDate"`
	IsLocked              *bool                `json:"isLocked"`
	DirectorInputRequired *bool                `json:"directorInputRequired"`
	WorkDone              *int                 `json:"workDone" binding:"omitempty,min=0,max=100"`
}

// CompletionResponseRequest represents a director's answer to a completion request
type CompletionResponseRequest struct {
	Action   workflow.CompletionAction `json:"action" binding:"required"`
	Comment  string                    `json:"comment"`
	WorkDone *int                      `json:"workDone" binding:"omitempty,min=0,max=100"`
}

// ExtensionRequestRequest represents a deadline extension proposal
type ExtensionRequestRequest struct {
	NewDeadline string `json:"newDeadline" binding:"required"`
	Reason      string `json:"reason" binding:"required"`
}

// ExtensionResponseRequest represents the answer to an extension proposal
type ExtensionResponseRequest struct {
	Status  models.RequestStatus `json:"status" binding:"required"`
	Comment string               `json:"comment"`
}

// CommentRequest represents a new comment on any thread
type CommentRequest struct {
	Content   string `json:"content" binding:"required"`
	IsVisible *bool  `json:"isVisible"`
}

func (r CommentRequest) visible() bool {
	return r.IsVisible == nil || *r.IsVisible
}

// splitList splits a comma separated query value
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// parseTaskFilter reads status, priority, assignee, source, dueFrom and dueTo.
// Comma separated lists match any listed value.
func parseTaskFilter(c *gin.Context) (attribution.TaskFilter, error) {
	var f attribution.TaskFilter
	for _, s := range splitList(c.Query("status")) {
		status := models.TaskStatus(s)
		if !status.Valid() {
			return f, errors.Errorf("invalid status %q", s)
		}
		f.Statuses = append(f.Statuses, status)
	}
	for _, p := range splitList(c.Query("priority")) {
		f.Priorities = append(f.Priorities, models.TaskPriority(p))
	}
	f.AssigneeID = strings.TrimSpace(c.Query("assignee"))
	if src := attribution.Source(c.Query("source")); src != "" {
		if !src.Valid() {
			return f, errors.Errorf("invalid source %q", src)
		}
		f.Source = src
	}

	from, to := c.Query("dueFrom"), c.Query("dueTo")
	var err error
	if f.DueFrom, err = optionalDate("dueFrom", &from); err != nil {
		return f, err
	}
	if f.DueTo, err = optionalDate("dueTo", &to); err != nil {
		return f, err
	}
	// a bare date as upper bound covers that whole day
	if f.DueTo != nil && len(strings.TrimSpace(to)) == len("2006-01-02") {
		end := f.DueTo.Add(24*time.Hour - time.Nanosecond)
		f.DueTo = &end
	}
	return f, nil
}

/*
GetTasks handles GET /api/tasks
Returns the tasks visible to the caller, narrowed by the query filters.
Query params: page (default 1), limit (default 50, max 100).
*/
func (h *Handler) GetTasks(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	filter, err := parseTaskFilter(c)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit < 1 {
		limit = 50
	}
	if limit > 100 {
		limit = 100
	}

	tasks, err := h.dashboard.Tasks(c.Request.Context(), p, filter)
	if err != nil {
		h.respondError(c, err)
		return
	}

	total := len(tasks)
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}
	pageTasks := tasks[start:end]

	c.JSON(http.StatusOK, gin.H{
		"tasks": pageTasks,
		"count": len(pageTasks),
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

// GetTaskByID handles GET /api/tasks/:id
func (h *Handler) GetTaskByID(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	task, err := h.workflow.Get(c.Request.Context(), p, c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// CreateTask handles POST /api/tasks
func (h *Handler) CreateTask(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	start, err := optionalDate("startDate", req.StartDate)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	due, err := optionalDate("dueDate", req.DueDate)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	if req.Priority != "" && !req.Priority.Valid() {
		badRequest(c, "Unknown priority")
		return
	}

	task, err := h.workflow.Create(c.Request.Context(), p, workflow.NewTask{
		Title:                 strings.TrimSpace(req.Title),
		Description:           req.Description,
		ProjectID:             req.ProjectID,
		AssigneeID:            req.AssigneeID,
		Priority:              req.Priority,
		Status:                req.Status,
		EstimatedHours:        req.EstimatedHours,
		StartDate:             start,
		DueDate:               due,
		DirectorInputRequired: req.DirectorInputRequired,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

// UpdateTask handles PATCH /api/tasks/:id
func (h *Handler) UpdateTask(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	start, err := optionalDate("startDate", req.StartDate)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	due, err := optionalDate("dueDate", req.DueDate)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	if req.Priority != nil && !req.Priority.Valid() {
		badRequest(c, "Unknown priority")
		return
	}

	task, err := h.workflow.Update(c.Request.Context(), p, c.Param("id"), workflow.TaskPatch{
		Title:                 req.Title,
		Description:           req.Description,
		ProjectID:             req.ProjectID,
		AssigneeID:            req.AssigneeID,
		Priority:              req.Priority,
		Status:                req.Status,
		EstimatedHours:        req.EstimatedHours,
		ActualHours:           req.ActualHours,
		StartDate:             start,
		DueDate:               due,
		IsLocked:              req.IsLocked,
		DirectorInputRequired: req.DirectorInputRequired,
		WorkDone:              req.WorkDone,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// DeleteTask handles DELETE /api/tasks/:id
func (h *Handler) DeleteTask(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	if err := h.workflow.Delete(c.Request.Context(), p, c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}

// RequestCompletion handles POST /api/tasks/:id/completion-request
func (h *Handler) RequestCompletion(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	task, err := h.workflow.RequestCompletion(c.Request.Context(), p, c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// RespondToCompletion handles POST /api/tasks/:id/completion-response
func (h *Handler) RespondToCompletion(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req CompletionResponseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	task, err := h.workflow.RespondToCompletion(c.Request.Context(), p, c.Param("id"), workflow.CompletionResponse{
		Action:   workflow.CompletionAction(strings.ToLower(string(req.Action))),
		Comment:  req.Comment,
		WorkDone: req.WorkDone,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// RequestExtension handles POST /api/tasks/:id/extension-request
func (h *Handler) RequestExtension(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req ExtensionRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	deadline, ok := parseDateFlexible(req.NewDeadline)
	if !ok {
		badRequest(c, "invalid newDeadline")
		return
	}
	task, err := h.workflow.RequestExtension(c.Request.Context(), p, c.Param("id"), workflow.ExtensionRequest{
		NewDeadline: deadline,
		Reason:      req.Reason,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// RespondToExtension handles POST /api/tasks/:id/extension-response
func (h *Handler) RespondToExtension(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req ExtensionResponseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	decision, ok := parseDecision(req.Status)
	if !ok {
		badRequest(c, "status must be Approved or Rejected")
		return
	}
	task, err := h.workflow.RespondToExtension(c.Request.Context(), p, c.Param("id"), workflow.ExtensionResponse{
		Status:  decision,
		Comment: req.Comment,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// AddTaskComment handles POST /api/tasks/:id/comments
func (h *Handler) AddTaskComment(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	task, err := h.workflow.AddComment(c.Request.Context(), p, c.Param("id"), req.Content, req.visible())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

// parseDecision accepts Approved or Rejected in any case
func parseDecision(s models.RequestStatus) (models.RequestStatus, bool) {
	switch strings.ToLower(strings.TrimSpace(string(s))) {
	case "approved":
		return models.RequestApproved, true
	case "rejected":
		return models.RequestRejected, true
	}
	return "", false
}
