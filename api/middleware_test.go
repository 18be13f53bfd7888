package api_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trafficops/traffic-ops-api/api"
	"github.com/trafficops/traffic-ops-api/models"
)

func identityEcho(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := api.SessionFromContext(r.Context())
		if !ok {
			t.Error("no session in context")
			return
		}
		w.Write([]byte(user.Username))
	})
}

func TestRequireAuth_NoSession(t *testing.T) {
	sm := api.NewSessionManager("test-secret")

	req, _ := http.NewRequest("GET", "/api/v1/violations", nil)
	rr := httptest.NewRecorder()
	sm.RequireAuth(identityEcho(t)).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.JSONEq(t, `{"error": "Unauthorized, please login first"}`, rr.Body.String())
}

func TestRequireAuth_ValidSession(t *testing.T) {
	sm := api.NewSessionManager("test-secret")
	cookie := issueCookie(t, sm, models.SessionUser{Username: "officer1", Role: "user"})

	req, _ := http.NewRequest("GET", "/api/v1/violations", nil)
	req.AddCookie(cookie)
	rr := httptest.NewRecorder()
	sm.RequireAuth(identityEcho(t)).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "officer1", rr.Body.String())
}

func TestRequireAdmin_UserRoleForbidden(t *testing.T) {
	sm := api.NewSessionManager("test-secret")
	cookie := issueCookie(t, sm, models.SessionUser{Username: "officer1", Role: "user"})

	req, _ := http.NewRequest("DELETE", "/api/v1/violations/abc", nil)
	req.AddCookie(cookie)
	rr := httptest.NewRecorder()
	sm.RequireAdmin(identityEcho(t)).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.JSONEq(t, `{"error": "Forbidden, admin access required"}`, rr.Body.String())
}

func TestRequireAdmin_NoSession(t *testing.T) {
	sm := api.NewSessionManager("test-secret")

	req, _ := http.NewRequest("DELETE", "/api/v1/violations/abc", nil)
	rr := httptest.NewRecorder()
	sm.RequireAdmin(identityEcho(t)).ServeHTTP(rr, req)

	// a missing session is unauthorized, not forbidden
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRequireAdmin_AdminAllowed(t *testing.T) {
	sm := api.NewSessionManager("test-secret")
	cookie := issueCookie(t, sm, models.SessionUser{Username: "admin", Role: "admin"})

	req, _ := http.NewRequest("DELETE", "/api/v1/violations/abc", nil)
	req.AddCookie(cookie)
	rr := httptest.NewRecorder()
	sm.RequireAdmin(identityEcho(t)).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "admin", rr.Body.String())
}
