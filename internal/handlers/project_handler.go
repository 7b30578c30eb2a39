package handlers

import (
	"net/http"
	"strings"

	"project-tracker-api/internal/attribution"
	"project-tracker-api/internal/identity"
	"project-tracker-api/internal/models"
	"project-tracker-api/internal/realtime"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ProjectRequest represents the request payload for creating or updating a project
type ProjectRequest struct {
	Name                  *string               `json:"name"`
	Description           *string               `json:"description"`
	Status                *models.ProjectStatus `json:"status"`
	AssigneeID            *string               `json:"assigneeId"`
	StartDate             *string               `json:"startDate"`
	EndDate               *string               `json:"endDate"`
	DirectorInputRequired *bool                 `json:"directorInputRequired"`
}

func parseProjectFilter(c *gin.Context) (attribution.ProjectFilter, bool) {
	return parseProjectFilterParams(c, "status", "source")
}

// parseProjectFilterParams reads a project filter from the named query params
// and writes a 400 on bad input
func parseProjectFilterParams(c *gin.Context, statusParam, sourceParam string) (attribution.ProjectFilter, bool) {
	var f attribution.ProjectFilter
	for _, s := range splitList(c.Query(statusParam)) {
		status := models.ProjectStatus(s)
		if !status.Valid() {
			badRequest(c, "invalid project status "+s)
			return f, false
		}
		f.Statuses = append(f.Statuses, status)
	}
	f.AssigneeID = strings.TrimSpace(c.Query("assignee"))
	if src := attribution.Source(c.Query(sourceParam)); src != "" {
		if !src.Valid() {
			badRequest(c, "invalid source "+string(src))
			return f, false
		}
		f.Source = src
	}
	f.Flagged = c.Query("flagged") == "true"
	return f, true
}

// GetProjects handles GET /api/projects
func (h *Handler) GetProjects(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	filter, ok := parseProjectFilter(c)
	if !ok {
		return
	}
	projects, err := h.dashboard.Projects(c.Request.Context(), p, filter)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"projects": projects,
		"count":    len(projects),
	})
}

// GetProjectByID handles GET /api/projects/:id
func (h *Handler) GetProjectByID(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	project, err := h.projects.FindProjectByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	if !identity.CanAccessProject(p, project) {
		forbidden(c, "You cannot view this project")
		return
	}
	c.JSON(http.StatusOK, project)
}

// CreateProject handles POST /api/projects.
// Employees may propose a project for themselves; it is flagged as employee created.
func (h *Handler) CreateProject(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req ProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if req.Name == nil || strings.TrimSpace(*req.Name) == "" {
		badRequest(c, "name is required")
		return
	}

	project := models.Project{
		Name:        strings.TrimSpace(*req.Name),
		CreatedByID: p.ID,
	}
	if req.Description != nil {
		project.Description = *req.Description
	}
	if req.Status != nil {
		if !req.Status.Valid() {
			badRequest(c, "invalid project status")
			return
		}
		project.Status = *req.Status
	}
	if req.AssigneeID != nil {
		project.AssigneeID = identity.NormalizeID(*req.AssigneeID)
	}
	if req.DirectorInputRequired != nil {
		project.DirectorInputRequired = *req.DirectorInputRequired
	}
	var err error
	if project.StartDate, err = optionalDate("startDate", req.StartDate); err != nil {
		badRequest(c, err.Error())
		return
	}
	if project.EndDate, err = optionalDate("endDate", req.EndDate); err != nil {
		badRequest(c, err.Error())
		return
	}

	if !identity.CanCreateTask(p.Role) {
		if project.AssigneeID != "" && !identity.IsSelf(project.AssigneeID, p.ID) {
			forbidden(c, "Employees may only create projects for themselves")
			return
		}
		project.AssigneeID = p.ID
		project.IsEmployeeCreated = true
	}

	if err := h.projects.CreateProject(c.Request.Context(), &project); err != nil {
		h.respondError(c, err)
		return
	}
	h.publishProject("project_created", &project, p)
	c.JSON(http.StatusCreated, project)
}

// UpdateProject handles PATCH /api/projects/:id.
// Assigned employees may only change the status of their project.
func (h *Handler) UpdateProject(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id := c.Param("id")
	current, err := h.projects.FindProjectByID(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if !identity.CanAccessProject(p, current) {
		forbidden(c, "You cannot edit this project")
		return
	}

	var req ProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	fields := map[string]any{}
	if req.Status != nil {
		if !req.Status.Valid() {
			badRequest(c, "invalid project status")
			return
		}
		fields["status"] = *req.Status
	}
	managed := req.Name != nil || req.Description != nil || req.AssigneeID != nil ||
		req.StartDate != nil || req.EndDate != nil || req.DirectorInputRequired != nil
	if managed && !identity.CanCreateTask(p.Role) {
		forbidden(c, "Employees may only update the project status")
		return
	}
	if req.Name != nil {
		fields["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.AssigneeID != nil {
		fields["assignee_id"] = identity.NormalizeID(*req.AssigneeID)
	}
	if req.DirectorInputRequired != nil {
		fields["director_input_required"] = *req.DirectorInputRequired
	}
	if req.StartDate != nil {
		start, err := optionalDate("startDate", req.StartDate)
		if err != nil {
			badRequest(c, err.Error())
			return
		}
		fields["start_date"] = start
	}
	if req.EndDate != nil {
		end, err := optionalDate("endDate", req.EndDate)
		if err != nil {
			badRequest(c, err.Error())
			return
		}
		fields["end_date"] = end
	}

	project, err := h.projects.UpdateProject(c.Request.Context(), id, fields)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.publishProject("project_updated", project, p)
	c.JSON(http.StatusOK, project)
}

// DeleteProject handles DELETE /api/projects/:id. Its tasks are deleted with it.
func (h *Handler) DeleteProject(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	if !identity.CanCreateTask(p.Role) {
		forbidden(c, "Only directors and project heads can delete projects")
		return
	}
	id := c.Param("id")
	project, err := h.projects.FindProjectByID(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if err := h.projects.DeleteProject(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}

	h.log.WithFields(logrus.Fields{"project_id": id, "actor": p.ID}).Info("project deleted")
	h.publishProject("project_deleted", project, p)
	c.JSON(http.StatusOK, gin.H{"message": "Project deleted successfully"})
}

// AddProjectComment handles POST /api/projects/:id/comments
func (h *Handler) AddProjectComment(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id := c.Param("id")
	project, err := h.projects.FindProjectByID(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if !identity.CanAccessProject(p, project) {
		forbidden(c, "You cannot comment on this project")
		return
	}

	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	comment := models.Comment{
		AuthorID:   p.ID,
		AuthorName: p.Name,
		Content:    req.Content,
		IsVisible:  req.visible(),
	}
	if err := h.comments.AppendComment(c.Request.Context(), models.ParentProject, id, &comment); err != nil {
		h.respondError(c, err)
		return
	}
	h.publishProject("project_commented", project, p)
	c.JSON(http.StatusCreated, comment)
}

func (h *Handler) publishProject(eventType string, project *models.Project, p identity.Principal) {
	var recipients []string
	for _, id := range []string{project.AssigneeID, project.CreatedByID} {
		if id != "" && id != p.ID {
			recipients = append(recipients, id)
		}
	}
	h.hub.Publish(realtime.Event{
		Type:       eventType,
		ProjectID:  project.ID,
		ActorID:    p.ID,
		Recipients: recipients,
	})
}
