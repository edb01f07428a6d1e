package routes

import (
	"citymapper-be/controllers"
	"citymapper-be/middlewares"

	"github.com/gin-gonic/gin"
)

// IssueRoutes sets up the issue routes. Identity is optional here; the issue
// store decides which operations need it. limiter guards issue creation and
// may be nil.
func IssueRoutes(r *gin.Engine, ic *controllers.IssueController, auth middlewares.AuthOptions, limiter gin.HandlerFunc) {
	issue := r.Group("/api/issues", middlewares.OptionalAuthMiddleware(auth))
	{
		create := []gin.HandlerFunc{ic.CreateIssue}
		if limiter != nil {
			create = append([]gin.HandlerFunc{limiter}, create...)
		}
		issue.POST("", create...)
		issue.GET("", ic.GetAllIssues)
		issue.GET("/recent", ic.RecentIssues)
		issue.GET("/heatmap", ic.Heatmap)
		issue.GET("/analytics", ic.GetIssueAnalytics)
		issue.GET("/:id", ic.GetIssue)
		issue.POST("/:id/upvote", ic.HandleUpvote)
		issue.POST("/:id/comments", ic.AddComment)
		issue.POST("/:id/responses", ic.AddArchitectResponse)
		issue.POST("/:id/resolve", ic.ResolveIssue)
	}
}
