package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"task-tracker/internal/domain"
	resp "task-tracker/internal/transport/http/response"
)

const KeyUser = "user"

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (domain.User, error)
}

// AuthToken resolves "Authorization: Bearer <token>" to a user and stores it under KeyUser.
// Any failure ends the request with 401; there is no retry or session.
func AuthToken(a Authenticator, l *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			unauthorized(c, "missing bearer token")
			return
		}
		u, err := a.Authenticate(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, domain.ErrUnauthorized) {
				unauthorized(c, "invalid token")
				return
			}
			l.Error("authenticate", zap.Error(err))
			resp.Abort(c, resp.CodeServerError, "")
			return
		}
		c.Set(KeyUser, u)
		c.Next()
	}
}

// CurrentUser returns the user bound by AuthToken.
func CurrentUser(c *gin.Context) (domain.User, bool) {
	v, ok := c.Get(KeyUser)
	if !ok {
		return domain.User{}, false
	}
	u, ok := v.(domain.User)
	return u, ok
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func unauthorized(c *gin.Context, msg string) {
	c.Header("WWW-Authenticate", "Bearer")
	resp.Abort(c, resp.CodeUnauthorized, msg)
}
