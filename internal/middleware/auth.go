package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"canteen_manager/internal/access"
	"canteen_manager/internal/apperr"
	"canteen_manager/internal/auth"
	"canteen_manager/internal/models"
	"canteen_manager/internal/services"

	"github.com/gin-gonic/gin"
)

const (
	actorKey     = "actor"
	userKey      = "user"
	sessionIDKey = "session_id"
)

// ActorFrom returns the authenticated caller, or nil before RequireAuth ran.
func ActorFrom(c *gin.Context) *access.Actor {
	v, ok := c.Get(actorKey)
	if !ok {
		return nil
	}
	actor, _ := v.(*access.Actor)
	return actor
}

func UserFrom(c *gin.Context) *models.User {
	v, _ := c.Get(userKey)
	u, _ := v.(*models.User)
	return u
}

func SessionID(c *gin.Context) string {
	return c.GetString(sessionIDKey)
}

// Abort ends the request with the status apperr assigns to err.
func Abort(c *gin.Context, err error) {
	status := apperr.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		slog.Error("request failed", "method", c.Request.Method, "path", c.Request.URL.Path, "error", err)
		c.AbortWithStatusJSON(status, gin.H{"error": "internal server error"})
		return
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

func bearerToken(header string) (string, error) {
	if header == "" {
		return "", auth.ErrMissingToken
	}
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", auth.ErrInvalidToken
	}
	return parts[1], nil
}

// RequireAuth resolves the bearer token to a live session and loads the user, so
// role or canteen changes apply to already issued tokens.
func RequireAuth(users services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := bearerToken(c.GetHeader("Authorization"))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		user, sessionID, err := users.Authenticate(c.Request.Context(), token)
		if err != nil {
			Abort(c, err)
			return
		}
		c.Set(userKey, user)
		c.Set(actorKey, access.FromUser(user))
		c.Set(sessionIDKey, sessionID)
		c.Next()
	}
}

// RequireRole admits the listed roles; admins always pass.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := access.Authorize(ActorFrom(c), roles...); err != nil {
			Abort(c, err)
			return
		}
		c.Next()
	}
}
