// Package middleware holds the gin handlers shared by every route: request
// logging and token authentication.
package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"foodgram-backend/controllers/respond"
	"foodgram-backend/models"
	"foodgram-backend/services/errs"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const userKey = "user"

const (
	detailNotProvided = "Authentication credentials were not provided."
	detailInvalid     = "Invalid token."
)

// Authenticator resolves a bearer token to its user.
type Authenticator interface {
	Authenticate(token string) (models.User, error)
}

// Logger replaces gin's default request log with one logrus line per request.
func Logger(entry *logrus.Entry) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
			"client":  c.ClientIP(),
		}
		if user, ok := CurrentUser(c); ok {
			fields["user_id"] = user.ID
		}
		logger := entry.WithFields(fields)
		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			logger.Error("request failed")
		case len(c.Errors) > 0:
			logger.Warn(c.Errors.String())
		default:
			logger.Info("request served")
		}
	}
}

// Authenticate attaches the user named by an "Authorization: Token <jwt>" or
// "Bearer <jwt>" header. Requests without the header continue anonymously;
// a header carrying a bad token is rejected.
func Authenticate(authenticator Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := strings.TrimSpace(c.GetHeader("Authorization"))
		if header == "" {
			c.Next()
			return
		}

		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !(strings.EqualFold(scheme, "Token") || strings.EqualFold(scheme, "Bearer")) || strings.TrimSpace(token) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": detailInvalid})
			return
		}
		user, err := authenticator.Authenticate(strings.TrimSpace(token))
		if errors.Is(err, errs.ErrAuth) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": detailInvalid})
			return
		}
		if err != nil {
			respond.Error(c, err)
			return
		}
		c.Set(userKey, user)
		c.Next()
	}
}

// RequireAuth rejects anonymous requests.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentUser(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": detailNotProvided})
			return
		}
		c.Next()
	}
}

func CurrentUser(c *gin.Context) (models.User, bool) {
	value, ok := c.Get(userKey)
	if !ok {
		return models.User{}, false
	}
	user, ok := value.(models.User)
	return user, ok
}

// ViewerID is the id of the authenticated caller, or 0 for anonymous requests.
func ViewerID(c *gin.Context) uint {
	user, _ := CurrentUser(c)
	return user.ID
}
