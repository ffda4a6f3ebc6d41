package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-dashboard-api/internal/authz"
	"github.com/yukikurage/task-dashboard-api/internal/middleware"
)

// Routes bundles the handlers mounted by Register.
type Routes struct {
	Auth      *AuthHandler
	Dashboard *DashboardHandler
	Task      *TaskHandler
	Comment   *CommentHandler
	Realtime  *RealtimeHandler
}

// Register mounts every API route on r. Public routes come first; the rest
// sit behind RequireAuth and, where needed, a role gate.
func (rt *Routes) Register(r gin.IRouter, authn middleware.Authenticator) {
	requireAuth := middleware.RequireAuth(authn)
	leadership := middleware.RequireRoles(authz.Leadership...)
	ceoOnly := middleware.RequireRoles(authz.CEOOnly...)

	authRoutes := r.Group("/auth")
	{
		authRoutes.POST("/register", rt.Auth.Register)
		authRoutes.POST("/token", rt.Auth.Login)
		authRoutes.POST("/logout", rt.Auth.Logout)
		authRoutes.GET("/me", requireAuth, rt.Auth.GetCurrentUser)
	}

	r.GET("/users", requireAuth, leadership, rt.Auth.ListUsers)

	dashboards := r.Group("/dashboards", requireAuth)
	{
		dashboards.GET("", rt.Dashboard.ListDashboards)
		dashboards.POST("", leadership, rt.Dashboard.CreateDashboard)
		dashboards.DELETE("/:id", ceoOnly, rt.Dashboard.DeleteDashboard)
	}

	tasks := r.Group("/tasks", requireAuth)
	{
		tasks.GET("/dashboard/:id", rt.Task.ListDashboardTasks)
		tasks.POST("", leadership, rt.Task.CreateTask)
		tasks.POST("/generate", leadership, rt.Task.GenerateTasks)
		tasks.PUT("/:id", leadership, rt.Task.UpdateTask)
		tasks.DELETE("/:id", leadership, rt.Task.DeleteTask)
		tasks.POST("/:id/assign/:user_id", leadership, rt.Task.AssignWorker)
	}

	comments := r.Group("/comments", requireAuth)
	{
		comments.GET("/task/:id", rt.Comment.ListTaskComments)
		comments.POST("", rt.Comment.CreateComment)
		comments.PUT("/:id/status", leadership, rt.Comment.UpdateCommentStatus)
		comments.DELETE("/:id", rt.Comment.DeleteComment)
	}

	r.GET("/ws/:user_id", requireAuth, rt.Realtime.Connect)
}
