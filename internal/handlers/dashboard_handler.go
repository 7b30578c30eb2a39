package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetDashboard handles GET /api/dashboard.
// It accepts the task filters of GET /api/tasks; project filters use the
// projectStatus, projectSource and flagged params.
func (h *Handler) GetDashboard(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	tf, err := parseTaskFilter(c)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	pf, ok := parseProjectFilterParams(c, "projectStatus", "projectSource")
	if !ok {
		return
	}

	view, err := h.dashboard.Build(c.Request.Context(), p, tf, pf)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}
