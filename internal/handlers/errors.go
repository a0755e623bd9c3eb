package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tasktalk-dev/tasktalk/internal/llm"
	"github.com/tasktalk-dev/tasktalk/internal/store"
)

// respondStoreError translates the store/provider error taxonomy into the
// HTTP surface: 404 not-found, 403 ownership, 422 validation, 409
// duplicate, 502/504 upstream.
func respondStoreError(ctx *gin.Context, err error) {
	var validationErr *store.ValidationError

	switch {
	case errors.Is(err, store.ErrNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, store.ErrForbidden):
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
	case errors.Is(err, store.ErrDuplicateEmail):
		ctx.JSON(http.StatusConflict, gin.H{"error": "Email already exists"})
	case errors.As(err, &validationErr):
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":  "Validation failed",
			"field":  validationErr.Field,
			"detail": validationErr.Message,
		})
	case errors.Is(err, context.DeadlineExceeded):
		log.Printf("Upstream timeout: %v", err)
		ctx.JSON(http.StatusGatewayTimeout, gin.H{"error": "Upstream timeout"})
	case errors.Is(err, llm.ErrUnavailable):
		log.Printf("Upstream failure: %v", err)
		ctx.JSON(http.StatusBadGateway, gin.H{"error": "Upstream service unavailable"})
	default:
		log.Printf("Internal error: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
