package router

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"user_service/internal/feature/users/transport/handler"
)

// NewRouter wires the account endpoints under /api/users. All routes are
// public; issued tokens are meant for downstream services.
func NewRouter(users *handler.UserHandler) *gin.Engine {
	r := gin.Default()
	r.Use(cors.Default())

	// Liveness probe
	r.GET("/healthz", handler.Health)

	api := r.Group("/api/users")
	{
		api.POST("/register", users.Register)
		api.POST("/login", users.Login)
		api.GET("", users.GetAllUsers)
		api.GET("/:id", users.GetUserByID)
		api.DELETE("/:id", users.DeleteUser)
	}

	return r
}
