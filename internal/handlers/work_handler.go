package handlers

import (
	"net/http"
	"strings"

	"project-tracker-api/internal/identity"
	"project-tracker-api/internal/models"
	"project-tracker-api/internal/store"

	"github.com/gin-gonic/gin"
)

// CreateWorkRequest represents a new independent work entry
type CreateWorkRequest struct {
	Date        string              `json:"date" binding:"required"`
	Category    models.WorkCategory `json:"category"`
	TimeSpent   float64             `json:"timeSpent" binding:"gte=0"`
	Description string              `json:"description" binding:"required"`
}

func canSeeWork(p identity.Principal, w *models.IndependentWork) bool {
	return identity.CanViewAll(p.Role) || identity.IsSelf(w.EmployeeID, p.ID)
}

// GetWork handles GET /api/work.
// Employees see their own log; directors and project heads may pass employeeId.
func (h *Handler) GetWork(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	q := store.WorkQuery{EmployeeID: strings.TrimSpace(c.Query("employeeId"))}
	if !identity.CanViewAll(p.Role) {
		q.EmployeeID = p.ID
	}
	from, to := c.Query("from"), c.Query("to")
	var err error
	if q.From, err = optionalDate("from", &from); err != nil {
		badRequest(c, err.Error())
		return
	}
	if q.To, err = optionalDate("to", &to); err != nil {
		badRequest(c, err.Error())
		return
	}

	entries, err := h.work.FindWork(c.Request.Context(), q)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"work":  entries,
		"count": len(entries),
	})
}

// CreateWork handles POST /api/work. Entries are always logged for the caller.
func (h *Handler) CreateWork(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req CreateWorkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	date, ok := parseDateFlexible(req.Date)
	if !ok {
		badRequest(c, "invalid date")
		return
	}
	switch req.Category {
	case "", models.WorkDesign, models.WorkSite, models.WorkOffice, models.WorkOther:
	default:
		badRequest(c, "invalid category")
		return
	}

	entry := models.IndependentWork{
		EmployeeID:  p.ID,
		Date:        date,
		Category:    req.Category,
		TimeSpent:   req.TimeSpent,
		Description: req.Description,
	}
	if err := h.work.CreateWork(c.Request.Context(), &entry); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// DeleteWork handles DELETE /api/work/:id
func (h *Handler) DeleteWork(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id := c.Param("id")
	entry, err := h.work.FindWorkByID(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if !identity.IsSelf(entry.EmployeeID, p.ID) && !identity.CanApprove(p.Role) {
		forbidden(c, "You can only delete your own entries")
		return
	}
	if err := h.work.DeleteWork(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Entry deleted successfully"})
}

// AddWorkComment handles POST /api/work/:id/comments
func (h *Handler) AddWorkComment(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id := c.Param("id")
	entry, err := h.work.FindWorkByID(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if !canSeeWork(p, entry) {
		forbidden(c, "You cannot comment on this entry")
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
	if err := h.comments.AppendComment(c.Request.Context(), models.ParentIndependentWork, id, &comment); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}
