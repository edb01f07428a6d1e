package routes

import (
	"net/http"
	"time"

	"citymapper-be/controllers"
	"citymapper-be/middlewares"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Deps are the collaborators the HTTP surface is built from
type Deps struct {
	Issues       *controllers.IssueController
	Auth         *controllers.AuthController
	AuthOptions  middlewares.AuthOptions
	IssueLimiter gin.HandlerFunc
	CORSOrigins  []string
	Logger       *zap.Logger
}

// NewRouter builds the gin engine with every route registered
func NewRouter(deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.RequestLogger(deps.Logger))
	if len(deps.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     deps.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	AuthRoutes(r, deps.Auth, deps.AuthOptions)
	IssueRoutes(r, deps.Issues, deps.AuthOptions, deps.IssueLimiter)
	UserRoutes(r, deps.Issues, deps.AuthOptions)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	return r
}
