package api_test

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/trafficops/traffic-ops-api/api"
)

func TestLoginRateLimit_BurstThenThrottle(t *testing.T) {
	limited := api.LoginRateLimit(1, 2, time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req, _ := http.NewRequest("POST", "/api/v1/auth/login", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rr := httptest.NewRecorder()
		limited.ServeHTTP(rr, req)
		codes = append(codes, rr.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

// Exercises the visitor map from many goroutines sharing one IP so the race
// detector can verify the lastSeen bookkeeping is synchronized.
func TestLoginRateLimit_ConcurrentSameClient(t *testing.T) {
	limited := api.LoginRateLimit(1000, 1000, time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req, _ := http.NewRequest("POST", "/api/v1/auth/login", nil)
			req.RemoteAddr = "10.0.0.1:1234"
			rr := httptest.NewRecorder()
			limited.ServeHTTP(rr, req)
			assert.Equal(t, http.StatusOK, rr.Code)
		}()
	}
	wg.Wait()
}

func TestLoginRateLimit_PerClientIsolation(t *testing.T) {
	limited := api.LoginRateLimit(1, 1, time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	first, _ := http.NewRequest("POST", "/api/v1/auth/login", nil)
	first.RemoteAddr = "10.0.0.1:1234"
	rr1 := httptest.NewRecorder()
	limited.ServeHTTP(rr1, first)
	assert.Equal(t, http.StatusOK, rr1.Code)

	// the first client is exhausted but a second client is untouched
	second, _ := http.NewRequest("POST", "/api/v1/auth/login", nil)
	second.RemoteAddr = "10.0.0.2:1234"
	rr2 := httptest.NewRecorder()
	limited.ServeHTTP(rr2, second)
	assert.Equal(t, http.StatusOK, rr2.Code)
}
