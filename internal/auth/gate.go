package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gkicks/gkicks-pos-service/internal/admin"
	"github.com/gkicks/gkicks-pos-service/pkg/apperror"
	"github.com/gkicks/gkicks-pos-service/pkg/logger"
	"github.com/gkicks/gkicks-pos-service/pkg/response"
	"go.uber.org/zap"
)

type sessionLookup interface {
	Get(ctx context.Context, key string) (*SessionData, error)
}

// Gate resolves the caller from a bearer token, falling back to the session
// cookie, and maps the email to an active admin_users row.
type Gate struct {
	tokens     *TokenVerifier
	sessions   sessionLookup
	admins     admin.Repository
	cookieName string
	logger     logger.ZapLogger
}

func NewGate(tokens *TokenVerifier, sessions sessionLookup, admins admin.Repository, cookieName string, log logger.ZapLogger) *Gate {
	return &Gate{
		tokens:     tokens,
		sessions:   sessions,
		admins:     admins,
		cookieName: cookieName,
		logger:     log,
	}
}

// Authenticate returns the caller's identity or apperror.ErrUnauthorized.
// A bad token is not fatal; the cookie is still tried.
func (g *Gate) Authenticate(c *gin.Context) (*Identity, error) {
	ctx := c.Request.Context()

	var email, role, name string

	if token := bearerToken(c.GetHeader("Authorization")); token != "" {
		claims, err := g.tokens.Verify(token)
		if err != nil {
			g.logger.Debug("bearer token rejected", zap.Error(err))
		} else {
			email, role, name = claims.Email, claims.Role, claims.Name
		}
	}

	if email == "" && g.sessions != nil {
		if key, err := c.Cookie(g.cookieName); err == nil && key != "" {
			data, err := g.sessions.Get(ctx, key)
			if err != nil {
				g.logger.Debug("session cookie rejected", zap.Error(err))
			} else {
				email, role, name = data.Email, data.Role, data.Name
			}
		}
	}

	if email == "" {
		return nil, apperror.ErrUnauthorized
	}

	user, err := g.admins.FindActiveByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		g.logger.Debug("no active admin user for email", zap.String("email", email))
		return nil, apperror.ErrUnauthorized
	}
	if name == "" {
		name = user.Name
	}

	return &Identity{UserID: user.ID, Email: email, Name: name, Role: role}, nil
}

// Require authenticates the request and checks the role. Any failure answers
// 401 without saying which check failed.
func (g *Gate) Require(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := g.Authenticate(c)
		if err != nil {
			if !errors.Is(err, apperror.ErrUnauthorized) {
				g.logger.Error("identity lookup failed", zap.Error(err))
			}
			response.Unauthorized(c)
			return
		}
		if !id.HasRole(roles...) {
			response.Unauthorized(c)
			return
		}

		c.Set("identity", id)
		c.Request = c.Request.WithContext(WithIdentity(c.Request.Context(), id))
		c.Next()
	}
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}
