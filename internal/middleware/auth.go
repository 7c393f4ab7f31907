package middleware

import (
	"errors"
	"net/http"
	"strings"

	"hostcalendar/internal/pkg/jwt"
	"hostcalendar/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	ContextUserID = "user_id"
	ContextRole   = "role"
)

var (
	errTokenMissing    = errors.New("token missing")
	errTokenBadFormat  = errors.New("bad authorization header")
	errTokenValidation = errors.New("token invalid")
)

// TokenValidator is satisfied by *jwt.Service.
type TokenValidator interface {
	ValidateToken(token string) (*jwt.Claims, error)
}

// Auth requires a valid access token taken from the Authorization header,
// the auth cookie, or ?token= on websocket upgrades.
func Auth(tokens TokenValidator, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := authenticate(c, tokens, cookieName)
		if err != nil {
			switch {
			case errors.Is(err, errTokenMissing):
				response.Abort(c, http.StatusUnauthorized, "AUTH_REQUIRED", "Authentication required")
			case errors.Is(err, errTokenBadFormat):
				response.Abort(c, http.StatusUnauthorized, "INVALID_AUTH_FORMAT", "Authorization header must be: Bearer <token>")
			default:
				response.Abort(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
			}
			return
		}
		setIdentity(c, claims)
		c.Next()
	}
}

// OptionalAuth sets the identity when a valid token is present and never rejects.
func OptionalAuth(tokens TokenValidator, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, err := authenticate(c, tokens, cookieName); err == nil {
			setIdentity(c, claims)
		}
		c.Next()
	}
}

// UserID returns the authenticated user id or 0.
func UserID(c *gin.Context) int64 {
	return c.GetInt64(ContextUserID)
}

func IsHost(c *gin.Context) bool {
	return c.GetString(ContextRole) == jwt.RoleHost
}

func authenticate(c *gin.Context, tokens TokenValidator, cookieName string) (*jwt.Claims, error) {
	raw, err := tokenFromRequest(c, cookieName)
	if err != nil {
		return nil, err
	}
	claims, err := tokens.ValidateToken(raw)
	if err != nil {
		return nil, errTokenValidation
	}
	return claims, nil
}

func tokenFromRequest(c *gin.Context, cookieName string) (string, error) {
	if header := c.GetHeader("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			return "", errTokenBadFormat
		}
		return strings.TrimSpace(parts[1]), nil
	}
	if cookieName != "" {
		if v, err := c.Cookie(cookieName); err == nil && v != "" {
			return v, nil
		}
	}
	if websocket.IsWebSocketUpgrade(c.Request) {
		if v := c.Query("token"); v != "" {
			return v, nil
		}
	}
	return "", errTokenMissing
}

func setIdentity(c *gin.Context, claims *jwt.Claims) {
	c.Set(ContextUserID, claims.UserID)
	c.Set(ContextRole, claims.Role)
}
