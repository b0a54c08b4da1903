package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/blogverse/backend/internal/models"
)

// Cookie names used by the HTTP layer.
const (
	SessionCookie = "session"
	VerifyCookie  = "verify_session"
)

// SessionClaims identify a logged-in user: id, email and display name.
type SessionClaims struct {
	UserID int    `json:"user_id"`
	Name   string `json:"name"`
	Gmail  string `json:"gmail"`
	jwt.RegisteredClaims
}

// VerifyClaims carry only the correlation token of a pending verification
// row. The client never sees the OTP state itself.
type VerifyClaims struct {
	Token string `json:"token"`
	jwt.RegisteredClaims
}

// Manager signs and validates the session and verification cookies.
type Manager struct {
	secret []byte
}

func NewManager(secret string) *Manager {
	return &Manager{secret: []byte(secret)}
}

// IssueSession creates a signed session token for a logged-in user.
func (m *Manager) IssueSession(user *models.User) (string, error) {
	claims := SessionClaims{
		UserID: user.ID,
		Name:   user.Name,
		Gmail:  user.Gmail,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(72 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// ParseSession validates a session token and returns its claims.
func (m *Manager) ParseSession(tokenString string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, m.keyFunc)
	if err != nil {
		return nil, fmt.Errorf("invalid session token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid session token")
	}
	return claims, nil
}

// IssueVerifyToken wraps a pending-verification correlation token so the
// client holds a signed reference rather than raw state.
func (m *Manager) IssueVerifyToken(correlationToken string, ttl time.Duration) (string, error) {
	claims := VerifyClaims{
		Token: correlationToken,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// ParseVerifyToken validates a verification cookie and returns the
// correlation token it references.
func (m *Manager) ParseVerifyToken(tokenString string) (string, error) {
	claims := &VerifyClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, m.keyFunc)
	if err != nil {
		return "", fmt.Errorf("invalid verification token: %w", err)
	}
	if !token.Valid || claims.Token == "" {
		return "", fmt.Errorf("invalid verification token")
	}
	return claims.Token, nil
}

func (m *Manager) keyFunc(token *jwt.Token) (interface{}, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
	}
	return m.secret, nil
}
