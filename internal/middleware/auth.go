package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"modelreviews/internal/models"
	"modelreviews/internal/security"
)

const (
	currentUserKey  = "current_user"
	accessClaimsKey = "access_claims"
)

type UserLookup interface {
	GetByID(ctx context.Context, id string) (models.User, error)
}

type SessionLookup interface {
	GetByID(ctx context.Context, id string) (models.Session, error)
	Touch(ctx context.Context, sessionID string, ip string, userAgent string) error
}

// Authenticator resolves bearer tokens to active users with a live session.
type Authenticator struct {
	secret   string
	users    UserLookup
	sessions SessionLookup
}

func NewAuthenticator(secret string, users UserLookup, sessions SessionLookup) *Authenticator {
	return &Authenticator{secret: secret, users: users, sessions: sessions}
}

type authFailure struct {
	status int
	code   string
}

func (a *Authenticator) resolve(c *gin.Context, tokenStr string) (models.User, *security.AccessClaims, *authFailure) {
	claims, err := security.ParseAccessToken(tokenStr, a.secret)
	if err != nil {
		return models.User{}, nil, &authFailure{http.StatusUnauthorized, "invalid_token"}
	}

	session, err := a.sessions.GetByID(c.Request.Context(), claims.SessionID)
	if err != nil {
		return models.User{}, nil, &authFailure{http.StatusUnauthorized, "session_not_found"}
	}
	if session.UserID != claims.UserID || session.DeviceID != claims.DeviceID {
		return models.User{}, nil, &authFailure{http.StatusUnauthorized, "session_mismatch"}
	}

	user, err := a.users.GetByID(c.Request.Context(), claims.UserID)
	if err != nil {
		return models.User{}, nil, &authFailure{http.StatusUnauthorized, "user_not_found"}
	}
	if !user.Active() {
		return models.User{}, nil, &authFailure{http.StatusForbidden, "user_inactive"}
	}

	_ = a.sessions.Touch(c.Request.Context(), session.ID, c.ClientIP(), c.GetHeader("User-Agent"))
	return user, claims, nil
}

// Required rejects requests without a valid bearer token.
func (a *Authenticator) Required() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing_token"})
			return
		}

		user, claims, failure := a.resolve(c, tokenStr)
		if failure != nil {
			c.AbortWithStatusJSON(failure.status, gin.H{"error": failure.code})
			return
		}

		c.Set(currentUserKey, user)
		c.Set(accessClaimsKey, *claims)
		c.Next()
	}
}

// Optional attaches the user when a valid token is present and lets
// anonymous requests through.
func (a *Authenticator) Optional() gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenStr, ok := bearerToken(c); ok {
			if user, claims, failure := a.resolve(c, tokenStr); failure == nil {
				c.Set(currentUserKey, user)
				c.Set(accessClaimsKey, *claims)
			}
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}
	return strings.TrimPrefix(header, "Bearer "), true
}

// CurrentUser returns the authenticated user, if any.
func CurrentUser(c *gin.Context) (models.User, bool) {
	val, exists := c.Get(currentUserKey)
	if !exists {
		return models.User{}, false
	}
	user, ok := val.(models.User)
	return user, ok
}

func CurrentClaims(c *gin.Context) (security.AccessClaims, bool) {
	val, exists := c.Get(accessClaimsKey)
	if !exists {
		return security.AccessClaims{}, false
	}
	claims, ok := val.(security.AccessClaims)
	return claims, ok
}
