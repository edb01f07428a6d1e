package routes

import (
	"citymapper-be/controllers"
	"citymapper-be/middlewares"

	"github.com/gin-gonic/gin"
)

func UserRoutes(r *gin.Engine, ic *controllers.IssueController, auth middlewares.AuthOptions) {
	users := r.Group("/api/users", middlewares.AuthMiddleware(auth))
	{
		users.GET("/me/issues", ic.GetIssuesByUser)
	}
}
