package controllers

import (
	"errors"
	"net/http"

	"citymapper-be/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondStoreError maps issue store errors onto HTTP responses
func respondStoreError(c *gin.Context, log *zap.Logger, err error) {
	switch {
	case errors.Is(err, store.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
	case errors.Is(err, store.ErrIssueNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Issue not found"})
	case errors.Is(err, store.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Only architects can respond to issues"})
	case errors.Is(err, store.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrResolveUnsupported):
		c.JSON(http.StatusNotImplemented, gin.H{"error": "Resolving issues is not supported yet"})
	default:
		log.Error("issue store failure", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
	}
}
