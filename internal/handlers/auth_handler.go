package handlers

import (
	"net/http"

	"project-tracker-api/internal/auth"
	"project-tracker-api/internal/models"
	"project-tracker-api/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

// LoginRequest represents the login request payload.
// Login accepts either the username or the email address.
type LoginRequest struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse represents the login response
type LoginResponse struct {
	Token    string           `json:"token"`
	Employee *models.Employee `json:"employee"`
	Message  string           `json:"message"`
}

// Login handles POST /api/login
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request. Login and password are required.")
		return
	}

	employee, err := h.employees.FindEmployeeByLogin(c.Request.Context(), req.Login)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		h.respondError(c, err)
		return
	}
	if !auth.CheckPassword(employee.Password, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}
	if employee.Status == models.EmployeeInactive {
		c.JSON(http.StatusForbidden, gin.H{"error": "Account is inactive"})
		return
	}

	token, err := h.tokens.GenerateToken(employee)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.log.WithField("employee_id", employee.ID).Info("employee logged in")
	c.JSON(http.StatusOK, LoginResponse{
		Token:    token,
		Employee: employee,
		Message:  "Login successful",
	})
}

// Me handles GET /api/me
func (h *Handler) Me(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	employee, err := h.employees.FindEmployeeByID(c.Request.Context(), p.ID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, employee)
}
