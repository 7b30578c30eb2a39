package routes

import (
	"net/http"

	"project-tracker-api/internal/handlers"
	"project-tracker-api/internal/middleware"
	"project-tracker-api/internal/models"

	"github.com/gin-gonic/gin"
)

// SetupRoutes registers every endpoint on a new gin engine
func SetupRoutes(h *handlers.Handler) *gin.Engine {
	ginRouter := gin.New()
	ginRouter.Use(gin.Recovery(), middleware.RequestLogger())

	// CORS middleware (for frontend integration)
	ginRouter.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	ginRouter.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Project Tracker API is running",
		})
	})

	api := ginRouter.Group("/api")
	{
		api.POST("/login", h.Login)
	}

	protected := api.Group("")
	protected.Use(middleware.JWTAuthMiddleware(h.Tokens()))
	{
		protected.GET("/me", h.Me)
		protected.GET("/ws", h.WebSocket)
		protected.GET("/dashboard", h.GetDashboard)

		protected.GET("/employees", h.GetEmployees)
		protected.GET("/employees/:id", h.GetEmployee)
		protected.POST("/employees", middleware.RequireRoles(models.RoleDirector), h.CreateEmployee)
		protected.PATCH("/employees/:id", h.UpdateEmployee)

		protected.GET("/tasks", h.GetTasks)
		protected.POST("/tasks", h.CreateTask)
		protected.GET("/tasks/:id", h.GetTaskByID)
		protected.PATCH("/tasks/:id", h.UpdateTask)
		protected.PUT("/tasks/:id", h.UpdateTask)
		protected.DELETE("/tasks/:id", h.DeleteTask)
		protected.POST("/tasks/:id/completion-request", h.RequestCompletion)
		protected.POST("/tasks/:id/completion-response", middleware.RequireRoles(models.RoleDirector), h.RespondToCompletion)
		protected.POST("/tasks/:id/extension-request", h.RequestExtension)
		protected.POST("/tasks/:id/extension-response", middleware.RequireRoles(models.RoleDirector), h.RespondToExtension)
		protected.POST("/tasks/:id/comments", h.AddTaskComment)

		protected.GET("/projects", h.GetProjects)
		protected.POST("/projects", h.CreateProject)
		protected.GET("/projects/:id", h.GetProjectByID)
		protected.PATCH("/projects/:id", h.UpdateProject)
		protected.DELETE("/projects/:id", h.DeleteProject)
		protected.POST("/projects/:id/comments", h.AddProjectComment)

		protected.GET("/work", h.GetWork)
		protected.POST("/work", h.CreateWork)
		protected.DELETE("/work/:id", h.DeleteWork)
		protected.POST("/work/:id/comments", h.AddWorkComment)
	}

	return ginRouter
}
