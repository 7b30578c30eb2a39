package handlers

import (
	"net/http"
	"strings"
	"time"

	"project-tracker-api/internal/auth"
	"project-tracker-api/internal/dashboard"
	"project-tracker-api/internal/identity"
	"project-tracker-api/internal/middleware"
	"project-tracker-api/internal/realtime"
	"project-tracker-api/internal/store"
	"project-tracker-api/internal/workflow"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Handler serves the HTTP API
type Handler struct {
	workflow  *workflow.Service
	dashboard *dashboard.Service
	projects  store.ProjectStore
	employees store.EmployeeStore
	work      store.WorkStore
	comments  store.CommentStore
	tokens    *auth.Tokens
	hub       *realtime.Hub
	log       *logrus.Logger
}

// Deps lists what Handler needs
type Deps struct {
	Workflow  *workflow.Service
	Dashboard *dashboard.Service
	Projects  store.ProjectStore
	Employees store.EmployeeStore
	Work      store.WorkStore
	Comments  store.CommentStore
	Tokens    *auth.Tokens
	Hub       *realtime.Hub
	Logger    *logrus.Logger
}

// New builds a Handler from its dependencies
func New(d Deps) *Handler {
	if d.Logger == nil {
		d.Logger = logrus.StandardLogger()
	}
	if d.Hub == nil {
		d.Hub = realtime.GetHub()
	}
	return &Handler{
		workflow:  d.Workflow,
		dashboard: d.Dashboard,
		projects:  d.Projects,
		employees: d.Employees,
		work:      d.Work,
		comments:  d.Comments,
		tokens:    d.Tokens,
		hub:       d.Hub,
		log:       d.Logger,
	}
}

// Tokens exposes the token validator for the auth middleware
func (h *Handler) Tokens() *auth.Tokens {
	return h.tokens
}

// principal returns the caller or writes a 401
func principal(c *gin.Context) (identity.Principal, bool) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok || p.ID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Employee not found in token"})
		return identity.Principal{}, false
	}
	return p, true
}

// respondError maps a domain error to a status code
func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, workflow.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{"error": "username or email already in use"})
	case errors.Is(err, store.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "the record was changed concurrently, retry"})
	case errors.Is(err, workflow.ErrUnauthorized):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	default:
		h.log.WithError(err).WithField("path", c.FullPath()).Error("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

func forbidden(c *gin.Context, msg string) {
	c.JSON(http.StatusForbidden, gin.H{"error": msg})
}

// parseDateFlexible accepts the date layouts clients send
func parseDateFlexible(dateStr string) (time.Time, bool) {
	dateStr = strings.TrimSpace(dateStr)
	if dateStr == "" {
		return time.Time{}, false
	}
	layouts := []string{
		time.RFC3339,
		"2006-01-02",
		"2 Jan 2006",
		"02 Jan 2006",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, dateStr); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// optionalDate parses an optional date field; an empty value yields nil
func optionalDate(field string, value *string) (*time.Time, error) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil, nil
	}
	t, ok := parseDateFlexible(*value)
	if !ok {
		return nil, errors.Errorf("invalid %s %q", field, *value)
	}
	return &t, nil
}
