package middlewares

import (
	"context"
	"net/http"
	"strings"

	"citymapper-be/models"
	authUtils "citymapper-be/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	AuthCookieName = "auth_token"

	identityKey = "identity"
	claimsKey   = "claims"
)

// RevocationChecker reports whether a token ID was revoked at logout
type RevocationChecker interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// AuthOptions configures token verification. Revoked may be nil.
type AuthOptions struct {
	Secret  string
	Revoked RevocationChecker
	Logger  *zap.Logger
}

// AuthMiddleware rejects requests without a valid token
func AuthMiddleware(opts AuthOptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "No authorization token provided"})
			c.Abort()
			return
		}

		claims, status, msg := verify(c, opts, tokenString)
		if claims == nil {
			c.JSON(status, gin.H{"error": msg})
			c.Abort()
			return
		}

		setIdentity(c, claims)
		c.Next()
	}
}

// OptionalAuthMiddleware attaches the identity when a valid token is present
// and otherwise lets the request through anonymously.
func OptionalAuthMiddleware(opts AuthOptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			c.Next()
			return
		}

		claims, status, msg := verify(c, opts, tokenString)
		if claims == nil && status == http.StatusInternalServerError {
			c.JSON(status, gin.H{"error": msg})
			c.Abort()
			return
		}
		if claims != nil {
			setIdentity(c, claims)
		}
		c.Next()
	}
}

// CurrentIdentity returns the signed-in user, or nil
func CurrentIdentity(c *gin.Context) *models.Identity {
	if v, ok := c.Get(identityKey); ok {
		if identity, ok := v.(*models.Identity); ok {
			return identity
		}
	}
	return nil
}

// CurrentClaims returns the verified token claims, or nil
func CurrentClaims(c *gin.Context) *authUtils.Claims {
	if v, ok := c.Get(claimsKey); ok {
		if claims, ok := v.(*authUtils.Claims); ok {
			return claims
		}
	}
	return nil
}

func extractToken(c *gin.Context) string {
	if authHeader := c.Request.Header.Get("Authorization"); authHeader != "" {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	if cookie, err := c.Cookie(AuthCookieName); err == nil {
		return cookie
	}
	return ""
}

func verify(c *gin.Context, opts AuthOptions, tokenString string) (*authUtils.Claims, int, string) {
	if opts.Secret == "" {
		return nil, http.StatusInternalServerError, "JWT secret not configured"
	}

	claims, err := authUtils.ParseToken(opts.Secret, tokenString)
	if err != nil {
		logger(opts).Debug("token validation failed", zap.Error(err))
		return nil, http.StatusUnauthorized, "Invalid authorization token"
	}

	if opts.Revoked != nil {
		revoked, err := opts.Revoked.IsRevoked(c.Request.Context(), claims.Id)
		if err != nil {
			logger(opts).Error("token revocation check failed", zap.Error(err))
			return nil, http.StatusInternalServerError, "Something went wrong"
		}
		if revoked {
			return nil, http.StatusUnauthorized, "Token has been revoked"
		}
	}

	return claims, http.StatusOK, ""
}

func setIdentity(c *gin.Context, claims *authUtils.Claims) {
	c.Set("user_id", claims.UserID)
	c.Set(claimsKey, claims)
	c.Set(identityKey, claims.Identity())
}

func logger(opts AuthOptions) *zap.Logger {
	if opts.Logger == nil {
		return zap.NewNop()
	}
	return opts.Logger
}
