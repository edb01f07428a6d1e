package controllers

import (
	"errors"
	"net/http"
	"time"

	"citymapper-be/config"
	"citymapper-be/middlewares"
	"citymapper-be/models"
	"citymapper-be/repository"
	authUtils "citymapper-be/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthController registers users and manages their session tokens
type AuthController struct {
	users     repository.UserRepository
	blacklist *repository.TokenBlacklist
	cfg       *config.Config
	log       *zap.Logger
}

// NewAuthController builds the controller. blacklist may be nil, in which
// case logout only clears the cookie.
func NewAuthController(users repository.UserRepository, blacklist *repository.TokenBlacklist, cfg *config.Config, log *zap.Logger) *AuthController {
	return &AuthController{users: users, blacklist: blacklist, cfg: cfg, log: log}
}

func userResponse(user *models.User) gin.H {
	return gin.H{
		"id":        user.ID,
		"name":      user.Name,
		"email":     user.Email,
		"role":      user.Role,
		"createdAt": user.CreatedAt,
	}
}

// RegisterUser handles user registration
func (ac *AuthController) RegisterUser(c *gin.Context) {
	var input struct {
		Name     string `json:"name" binding:"required,max=50"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=6"`
		Role     string `json:"role" binding:"omitempty,oneof=community architect"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	role := models.Community
	if input.Role != "" {
		role = models.Role(input.Role)
	}

	user := &models.User{
		Name:      input.Name,
		Email:     input.Email,
		Password:  input.Password,
		Role:      role,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := user.HashPassword(); err != nil {
		ac.log.Error("error hashing password", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
		return
	}

	if err := ac.users.Create(c.Request.Context(), user); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "User with this email already exists"})
			return
		}
		ac.log.Error("error inserting user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
		return
	}

	ac.log.Info("user registered", zap.String("user_id", user.ID.Hex()), zap.String("role", string(user.Role)))
	c.JSON(http.StatusCreated, userResponse(user))
}

// LoginUser handles user login
func (ac *AuthController) LoginUser(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := ac.users.FindByEmail(c.Request.Context(), input.Email)
	if err != nil {
		if !errors.Is(err, repository.ErrUserNotFound) {
			ac.log.Error("error finding user", zap.Error(err))
		}
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	if !user.ComparePassword(input.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, _, err := authUtils.GenerateToken(ac.cfg.JWTSecret, user.Identity(), ac.cfg.TokenTTL)
	if err != nil {
		ac.log.Error("error generating token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
		return
	}

	ac.setAuthCookie(c, token, int(ac.cfg.TokenTTL.Seconds()))

	response := userResponse(user)
	response["token"] = token
	c.JSON(http.StatusOK, response)
}

// GetMe retrieves the authenticated user's information
func (ac *AuthController) GetMe(c *gin.Context) {
	identity := middlewares.CurrentIdentity(c)
	if identity == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	user, err := ac.users.FindByID(c.Request.Context(), identity.ID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		ac.log.Error("error finding user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
		return
	}

	c.JSON(http.StatusOK, userResponse(user))
}

// LogoutUser clears the auth_token cookie and revokes the token when a
// blacklist is configured
func (ac *AuthController) LogoutUser(c *gin.Context) {
	if claims := middlewares.CurrentClaims(c); claims != nil && ac.blacklist != nil {
		if err := ac.blacklist.Revoke(c.Request.Context(), claims.Id, claims.TTL()); err != nil {
			ac.log.Error("error revoking token", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
			return
		}
	}

	ac.setAuthCookie(c, "", -1)
	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out successfully",
	})
}

// setAuthCookie writes the session cookie. Login and logout must share the
// same attributes or the browser keeps the old cookie.
func (ac *AuthController) setAuthCookie(c *gin.Context, value string, maxAge int) {
	domain := ac.cfg.Domain
	// For production, don't set domain to allow cross-origin cookies
	if ac.cfg.IsProduction() {
		domain = ""
	}

	http.SetCookie(c.Writer, &http.Cookie{
		Name:     middlewares.AuthCookieName,
		Value:    value,
		MaxAge:   maxAge,
		Path:     "/",
		Domain:   domain,
		Secure:   ac.cfg.IsProduction(),
		HttpOnly: true,
		SameSite: http.SameSiteNoneMode,
	})
}
