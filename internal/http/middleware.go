package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"jwt-todo/internal/domain"
	"jwt-todo/internal/service"
)

// TokenHeader carries the bearer token. "Authorization: Bearer <token>" is
// accepted when it is absent.
const TokenHeader = "x-access-token"

const userContextKey = "user_public_id"

// UserHandlerFunc is a handler that runs only for a resolved identity.
type UserHandlerFunc func(c *gin.Context, user *domain.User)

// withUser resolves the request's token to a user before calling next.
// Missing tokens, bad tokens and tokens of deleted users never reach next.
func (h *Handler) withUser(next UserHandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := h.auth.Authenticate(c.Request.Context(), tokenFromRequest(c.Request))
		if err != nil {
			h.rejectAuthentication(c, err)
			return
		}

		c.Set(userContextKey, user.PublicID)
		next(c, user)
	}
}

func (h *Handler) rejectAuthentication(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrAuthenticationMissing):
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token is missing"})
	case errors.Is(err, service.ErrAuthenticationInvalid):
		// expiry, tampering and unknown subjects share one response; only the log tells them apart
		h.logger.WithFields(logrus.Fields{
			"path":   c.FullPath(),
			"reason": err.Error(),
		}).Info("token rejected")
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token is invalid"})
	default:
		h.writeError(c, err)
		c.Abort()
	}
}

func tokenFromRequest(r *http.Request) string {
	if token := strings.TrimSpace(r.Header.Get(TokenHeader)); token != "" {
		return token
	}
	parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

func (h *Handler) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := h.logger.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
			"client":  c.ClientIP(),
		})
		if user := c.GetString(userContextKey); user != "" {
			entry = entry.WithField("user", user)
		}
		entry.Info("request")
	}
}

// writeError maps service failures to HTTP statuses. Unknown errors are logged
// and hidden behind a generic 500.
func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrAuthenticationMissing):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "token is missing"})
	case errors.Is(err, service.ErrAuthenticationInvalid):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "token is invalid"})
	case errors.Is(err, service.ErrAuthorizationDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": "cannot perform that function"})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		h.logger.WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
		}).Errorf("request failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
