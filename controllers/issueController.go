package controllers

import (
	"net/http"
	"strconv"
	"time"

	"citymapper-be/middlewares"
	"citymapper-be/models"
	"citymapper-be/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// IssueController exposes the issue store over HTTP
type IssueController struct {
	issues *store.IssueStore
	log    *zap.Logger
	now    func() time.Time
}

func NewIssueController(issues *store.IssueStore, log *zap.Logger) *IssueController {
	return &IssueController{issues: issues, log: log, now: time.Now}
}

// IssueView is an issue decorated for the current viewer
type IssueView struct {
	models.Issue
	UpvoteCount    int  `json:"upvoteCount"`
	UserHasUpvoted bool `json:"userHasUpvoted"`
}

func newIssueView(issue models.Issue, viewer *models.Identity) IssueView {
	view := IssueView{Issue: issue, UpvoteCount: issue.Upvotes.Count()}
	if viewer != nil {
		view.UserHasUpvoted = issue.Upvotes.Has(viewer.ID)
	}
	return view
}

func newIssueViews(issues []models.Issue, viewer *models.Identity) []IssueView {
	views := make([]IssueView, 0, len(issues))
	for _, issue := range issues {
		views = append(views, newIssueView(issue, viewer))
	}
	return views
}

// CreateIssue handles the creation of a new issue
func (ic *IssueController) CreateIssue(c *gin.Context) {
	var draft models.IssueDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	identity := middlewares.CurrentIdentity(c)
	issue, err := ic.issues.CreateIssue(draft, identity)
	if err != nil {
		respondStoreError(c, ic.log, err)
		return
	}

	ic.log.Info("issue created", zap.String("issue_id", issue.ID), zap.String("user_id", identity.ID))
	c.JSON(http.StatusCreated, newIssueView(issue, identity))
}

// GetAllIssues lists issues with filtering, sorting and pagination
func (ic *IssueController) GetAllIssues(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	unanswered, _ := strconv.ParseBool(c.DefaultQuery("unanswered", "false"))

	result := ic.issues.Query(store.Filter{
		Category:   c.Query("category"),
		Status:     c.Query("status"),
		Search:     c.Query("search"),
		Unanswered: unanswered,
		Sort:       c.DefaultQuery("sort", "newest"),
		Page:       page,
		Limit:      limit,
	})

	c.JSON(http.StatusOK, gin.H{
		"issues":      newIssueViews(result.Issues, middlewares.CurrentIdentity(c)),
		"totalIssues": result.TotalIssues,
		"totalPages":  result.TotalPages,
		"currentPage": result.CurrentPage,
	})
}

// GetIssue retrieves a single issue
func (ic *IssueController) GetIssue(c *gin.Context) {
	issue, err := ic.issues.Get(c.Param("id"))
	if err != nil {
		respondStoreError(c, ic.log, err)
		return
	}
	c.JSON(http.StatusOK, newIssueView(issue, middlewares.CurrentIdentity(c)))
}

// HandleUpvote toggles the caller's upvote on an issue
func (ic *IssueController) HandleUpvote(c *gin.Context) {
	identity := middlewares.CurrentIdentity(c)
	issue, err := ic.issues.ToggleUpvote(c.Param("id"), identity)
	if err != nil {
		respondStoreError(c, ic.log, err)
		return
	}

	voted := issue.Upvotes.Has(identity.ID)
	message := "Vote removed successfully"
	if voted {
		message = "Vote cast successfully"
	}
	c.JSON(http.StatusOK, gin.H{
		"message":        message,
		"votes":          issue.Upvotes.Count(),
		"userHasUpvoted": voted,
		"issue":          newIssueView(issue, identity),
	})
}

// AddComment appends a comment to an issue
func (ic *IssueController) AddComment(c *gin.Context) {
	var input struct {
		Text string `json:"text" binding:"required,max=1000"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	identity := middlewares.CurrentIdentity(c)
	issue, err := ic.issues.AddComment(c.Param("id"), input.Text, identity)
	if err != nil {
		respondStoreError(c, ic.log, err)
		return
	}
	c.JSON(http.StatusCreated, newIssueView(issue, identity))
}

// AddArchitectResponse attaches a design proposal to an issue
func (ic *IssueController) AddArchitectResponse(c *gin.Context) {
	var draft models.ResponseDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	identity := middlewares.CurrentIdentity(c)
	issue, err := ic.issues.AddArchitectResponse(c.Param("id"), draft, identity)
	if err != nil {
		respondStoreError(c, ic.log, err)
		return
	}

	ic.log.Info("architect responded", zap.String("issue_id", issue.ID), zap.String("user_id", identity.ID))
	c.JSON(http.StatusCreated, newIssueView(issue, identity))
}

// ResolveIssue is the resolve transition; the store does not support it yet
func (ic *IssueController) ResolveIssue(c *gin.Context) {
	issue, err := ic.issues.Resolve(c.Param("id"), middlewares.CurrentIdentity(c))
	if err != nil {
		respondStoreError(c, ic.log, err)
		return
	}
	c.JSON(http.StatusOK, issue)
}

// RecentIssues returns the newest issues as map pins
func (ic *IssueController) RecentIssues(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "19"))
	c.JSON(http.StatusOK, ic.issues.RecentPins(limit))
}

// Heatmap returns the trauma layer points
func (ic *IssueController) Heatmap(c *gin.Context) {
	c.JSON(http.StatusOK, ic.issues.Heatmap())
}

// GetIssueAnalytics returns dashboard figures
func (ic *IssueController) GetIssueAnalytics(c *gin.Context) {
	c.JSON(http.StatusOK, ic.issues.Analytics(ic.now()))
}
