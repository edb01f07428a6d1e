package routes

import (
	"citymapper-be/controllers"
	"citymapper-be/middlewares"

	"github.com/gin-gonic/gin"
)

// AuthRoutes sets up the authentication routes
func AuthRoutes(r *gin.Engine, ac *controllers.AuthController, auth middlewares.AuthOptions) {
	group := r.Group("/api/auth")
	{
		group.POST("/register", ac.RegisterUser)
		group.POST("/login", ac.LoginUser)
		group.GET("/me", middlewares.AuthMiddleware(auth), ac.GetMe)
		group.POST("/logout", middlewares.AuthMiddleware(auth), ac.LogoutUser)
	}
}
