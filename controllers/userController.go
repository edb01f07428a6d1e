package controllers

import (
	"net/http"
	"strconv"

	"citymapper-be/middlewares"
	"citymapper-be/store"

	"github.com/gin-gonic/gin"
)

// GetIssuesByUser retrieves the issues reported by the signed-in user
func (ic *IssueController) GetIssuesByUser(c *gin.Context) {
	identity := middlewares.CurrentIdentity(c)
	if identity == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	result := ic.issues.Query(store.Filter{
		CreatedBy: identity.ID,
		Status:    c.Query("status"),
		Sort:      c.DefaultQuery("sort", "newest"),
		Page:      page,
		Limit:     limit,
	})

	c.JSON(http.StatusOK, gin.H{
		"issues":      newIssueViews(result.Issues, identity),
		"totalIssues": result.TotalIssues,
		"totalPages":  result.TotalPages,
		"currentPage": result.CurrentPage,
	})
}
