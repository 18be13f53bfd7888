package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/trafficops/traffic-ops-api/api/handlers"
	"github.com/trafficops/traffic-ops-api/databases/mocks"
)

func TestEvidence_UploadEvidenceHandlerBadID(t *testing.T) {
	req := officerRequest(t, "POST", "/api/v1/violations/zzz/evidence", "")
	req = mux.SetURLVars(req, map[string]string{"violation_id": "zzz"})

	e := handlers.Evidence{DB: &mocks.ViolationDatabase{}}
	rr := httptest.NewRecorder()
	http.HandlerFunc(e.UploadEvidenceHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestEvidence_UploadEvidenceHandlerNotMultipart(t *testing.T) {
	req := officerRequest(t, "POST", "/api/v1/violations/608cafd695eb9dc05379b7f3/evidence", `{"file":"nope"}`)
	req = mux.SetURLVars(req, map[string]string{"violation_id": "608cafd695eb9dc05379b7f3"})
	req.Header.Set("Content-Type", "application/json")

	e := handlers.Evidence{DB: &mocks.ViolationDatabase{}}
	rr := httptest.NewRecorder()
	http.HandlerFunc(e.UploadEvidenceHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
