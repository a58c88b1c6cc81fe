package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/echo-cqy/codeling/internal/handlers"
	"github.com/echo-cqy/codeling/internal/middleware"
)

func RegisterAuthRoutes(r gin.IRouter) {
	r.POST("/register", middleware.AuthRateLimit(), handlers.Register)
	r.POST("/login", middleware.AuthRateLimit(), handlers.Login)
	r.GET("/me", middleware.AuthMiddleware(), handlers.Me)
}
