package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/yanqian/celestial-scale/internal/infra/config"
)

const (
	sessionContextKey = "session_id"
	sessionIssuer     = "celestial-scale"
)

// SessionManager issues and verifies the signed visitor session cookie.
type SessionManager struct {
	secret     []byte
	ttl        time.Duration
	cookieName string
	secure     bool
	now        func() time.Time
}

// NewSessionManager builds the cookie signer from config.
func NewSessionManager(cfg *config.Config) *SessionManager {
	return &SessionManager{
		secret:     []byte(cfg.Session.Secret),
		ttl:        cfg.Session.TTL,
		cookieName: cfg.Session.CookieName,
		secure:     cfg.Session.SecureCookie,
		now:        time.Now,
	}
}

// Issue creates a new session id and its signed token.
func (m *SessionManager) Issue() (string, string, error) {
	id := uuid.NewString()
	now := m.now()
	claims := jwt.RegisteredClaims{
		ID:        id,
		Issuer:    sessionIssuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", "", fmt.Errorf("sign session token: %w", err)
	}
	return id, signed, nil
}

// Parse verifies a token and returns its session id.
func (m *SessionManager) Parse(token string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %s", t.Method.Alg())
		}
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(sessionIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return "", err
	}
	if !parsed.Valid || claims.ID == "" {
		return "", fmt.Errorf("session token invalid")
	}
	return claims.ID, nil
}

func sessionMiddleware(m *SessionManager, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, err := c.Cookie(m.cookieName); err == nil && token != "" {
			if id, err := m.Parse(token); err == nil {
				c.Set(sessionContextKey, id)
				c.Next()
				return
			}
			logger.Debug("discarding invalid session cookie", "path", c.Request.URL.Path)
		}
		id, token, err := m.Issue()
		if err != nil {
			abortWithError(c, NewHTTPError(http.StatusInternalServerError, "session_failed", "could not start session", err))
			return
		}
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(m.cookieName, token, int(m.ttl.Seconds()), "/", "", m.secure, true)
		c.Set(sessionContextKey, id)
		c.Next()
	}
}

func sessionID(c *gin.Context) string {
	return c.GetString(sessionContextKey)
}
