package handler

import (
	"noteshare/cmd/internal/http/middleware"

	"github.com/labstack/echo/v4"
)

type Routes struct {
	Notes *DefaultNoteRoute
	Users *DefaultUserRoute
	Util  *DefaultUtilRoute
	Auth  middleware.Authenticator
}

func RegisterRoutes(e *echo.Echo, r *Routes) {
	requireAuth := middleware.NewAuthMiddleware(&middleware.AuthMiddlewareConfig{Users: r.Auth})
	optionalAuth := middleware.NewAuthMiddleware(&middleware.AuthMiddlewareConfig{Users: r.Auth, Optional: true})

	// Docker Compose healthcheck
	e.GET("/health", r.Util.HealthCheck)

	api := e.Group("/api")
	api.GET("/stats", r.Util.GetStats)

	// Users
	api.POST("/users", r.Users.CreateUser)
	api.POST("/users/login", r.Users.CreateLogin)
	api.POST("/users/logout", r.Users.Logout, requireAuth)
	api.GET("/profile", r.Users.GetProfile, requireAuth)
	api.PATCH("/profile", r.Users.UpdateProfile, requireAuth)
	api.POST("/profile/token", r.Users.RegenerateToken, requireAuth)

	// Notes
	api.GET("/notes/public", r.Notes.ListPublic, optionalAuth)
	api.GET("/notes/public/:id", r.Notes.GetPublic, optionalAuth)
	api.GET("/notes/private", r.Notes.ListOwned, requireAuth)
	api.GET("/notes/private/:id", r.Notes.GetOwned, requireAuth)
	api.POST("/notes", r.Notes.CreateNote, requireAuth)
	api.PATCH("/notes/:id", r.Notes.UpdateNote, requireAuth)
	api.DELETE("/notes/:id", r.Notes.DeleteNote, requireAuth)
	api.POST("/notes/:id/like", r.Notes.ToggleLike, requireAuth)
}
