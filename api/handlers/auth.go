package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/trafficops/traffic-ops-api/api"
	"github.com/trafficops/traffic-ops-api/config"
	"github.com/trafficops/traffic-ops-api/models"
)

// Auth exposes the login/logout/check endpoints backed by the fixed
// credential registry and the session cookie.
type Auth struct {
	Users    config.UserRegistry
	Sessions *api.SessionManager
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginHandler verifies credentials and establishes a fresh session
func (a Auth) LoginHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	if req.Username == "" || req.Password == "" {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": "Username and password required"}`))
		return
	}

	cred, ok := a.Users.Verify(req.Username, req.Password)
	if !ok {
		zap.S().Infow("login failed", "username", req.Username)
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error": "Invalid credentials"}`))
		return
	}

	user := models.SessionUser{
		Username: req.Username,
		Role:     cred.Role,
		Name:     cred.Name,
	}

	// issuing a new cookie discards whatever session the client held before
	if err := a.Sessions.Issue(w, user); err != nil {
		config.ErrorStatus("failed to create session", http.StatusInternalServerError, w, err)
		return
	}

	zap.S().Infow("login successful", "username", user.Username, "role", user.Role)
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Login successful",
		"user":    user,
	})
}

// LogoutHandler clears the session cookie, succeeding even without one
func (a Auth) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	a.Sessions.Clear(w)
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"message": "Logout successful"}`))
}

// CheckHandler reports the identity behind the current session, if any
func (a Auth) CheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	user, err := a.Sessions.FromRequest(r)
	if err != nil {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"authenticated": false}`))
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"authenticated": true,
		"user":          user,
	})
}
