package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/trafficops/traffic-ops-api/models"
)

// SessionCookieName is the cookie carrying the signed session token
const SessionCookieName = "traffic_session"

// Sessions persist until logout; the cookie itself is capped at 31 days so
// abandoned browsers eventually forget it.
const sessionLifetime = 31 * 24 * time.Hour

// SessionManager issues and verifies the signed session cookie. The cookie
// payload is an HS256 JWT carrying the user's username, role and display
// name, so no server-side session table is needed.
type SessionManager struct {
	secret []byte
}

// NewSessionManager returns a session manager signing with the given secret
func NewSessionManager(secret string) *SessionManager {
	return &SessionManager{secret: []byte(secret)}
}

// Issue replaces any prior session by setting a fresh signed cookie for the
// given user. The session survives the connection (persistent cookie).
func (s *SessionManager) Issue(w http.ResponseWriter, user models.SessionUser) error {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  user.Username,
		"role": user.Role,
		"name": user.Name,
		"iat":  now.Unix(),
		"exp":  now.Add(sessionLifetime).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return fmt.Errorf("failed to sign session token: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    signed,
		Path:     "/",
		MaxAge:   int(sessionLifetime.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Clear expires the session cookie. Idempotent, clearing a missing session
// is not an error.
func (s *SessionManager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// FromRequest verifies the session cookie and returns the identity it
// carries. Missing, expired or tampered cookies all yield an error.
func (s *SessionManager) FromRequest(r *http.Request) (*models.SessionUser, error) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return nil, fmt.Errorf("no session cookie: %w", err)
	}

	token, err := jwt.Parse(cookie.Value, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse session token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid session token")
	}

	username, _ := claims["sub"].(string)
	role, _ := claims["role"].(string)
	name, _ := claims["name"].(string)
	if username == "" {
		return nil, fmt.Errorf("session token missing subject")
	}

	return &models.SessionUser{Username: username, Role: role, Name: name}, nil
}
