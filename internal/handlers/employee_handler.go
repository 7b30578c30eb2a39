package handlers

import (
	"net/http"
	"strings"

	"project-tracker-api/internal/auth"
	"project-tracker-api/internal/identity"
	"project-tracker-api/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// CreateEmployeeRequest represents the request payload for creating an employee
type CreateEmployeeRequest struct {
	Name       string      `json:"name" binding:"required"`
	Username   string      `json:"username" binding:"required"`
	Email      string      `json:"email" binding:"required,email"`
	Password   string      `json:"password" binding:"required,min=6"`
	Role       models.Role `json:"role" binding:"required"`
	Department string      `json:"department"`
	Phone      string      `json:"phone"`
}

// UpdateEmployeeRequest represents the request payload for updating an employee.
// Role is intentionally absent.
type UpdateEmployeeRequest struct {
	Name       *string                `json:"name"`
	Email      *string                `json:"email"`
	Password   *string                `json:"password"`
	Status     *models.EmployeeStatus `json:"status"`
	Department *string                `json:"department"`
	Phone      *string                `json:"phone"`
}

// GetEmployees handles GET /api/employees
func (h *Handler) GetEmployees(c *gin.Context) {
	employees, err := h.dashboard.Employees(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	role := models.Role(c.Query("role"))
	resp := make([]models.Employee, 0, len(employees))
	for _, e := range employees {
		if role != "" && e.Role != role {
			continue
		}
		resp = append(resp, e)
	}

	c.JSON(http.StatusOK, gin.H{
		"employees": resp,
		"count":     len(resp),
	})
}

// GetEmployee handles GET /api/employees/:id
func (h *Handler) GetEmployee(c *gin.Context) {
	employee, err := h.employees.FindEmployeeByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, employee)
}

// CreateEmployee handles POST /api/employees
func (h *Handler) CreateEmployee(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	if !identity.CanManageEmployees(p.Role) {
		forbidden(c, "Only a director can add employees")
		return
	}

	var req CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if !req.Role.Valid() {
		badRequest(c, "Unknown role")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}
	employee := models.Employee{
		Name:       strings.TrimSpace(req.Name),
		Username:   strings.TrimSpace(req.Username),
		Email:      strings.ToLower(strings.TrimSpace(req.Email)),
		Password:   hash,
		Role:       req.Role,
		Department: req.Department,
		Phone:      req.Phone,
	}
	if err := h.employees.CreateEmployee(c.Request.Context(), &employee); err != nil {
		h.respondError(c, err)
		return
	}
	h.dashboard.InvalidateEmployees()

	h.log.WithFields(logrus.Fields{"employee_id": employee.ID, "actor": p.ID}).Info("employee created")
	c.JSON(http.StatusCreated, employee)
}

// UpdateEmployee handles PATCH /api/employees/:id.
// Directors may edit anyone; everyone else only themselves and not their status.
func (h *Handler) UpdateEmployee(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id := c.Param("id")
	self := identity.IsSelf(id, p.ID)
	if !self && !identity.CanManageEmployees(p.Role) {
		forbidden(c, "You can only edit your own profile")
		return
	}

	var req UpdateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	fields := map[string]any{}
	if req.Name != nil {
		fields["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		fields["email"] = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Department != nil {
		fields["department"] = *req.Department
	}
	if req.Phone != nil {
		fields["phone"] = *req.Phone
	}
	if req.Status != nil {
		if !identity.CanManageEmployees(p.Role) {
			forbidden(c, "Only a director can change employee status")
			return
		}
		if !req.Status.Valid() {
			badRequest(c, "Unknown employee status")
			return
		}
		fields["status"] = *req.Status
	}
	if req.Password != nil {
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			h.respondError(c, err)
			return
		}
		fields["password"] = hash
	}

	employee, err := h.employees.UpdateEmployee(c.Request.Context(), id, fields)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.dashboard.InvalidateEmployees()
	c.JSON(http.StatusOK, employee)
}
