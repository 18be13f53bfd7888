package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/trafficops/traffic-ops-api/api/handlers"
	"github.com/trafficops/traffic-ops-api/databases/mocks"
	"github.com/trafficops/traffic-ops-api/models"
)

var analyticsNow = time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)

func emptyAnalytics() handlers.Analytics {
	vdb := &mocks.ViolationDatabase{}
	vdb.On("Find", mock.Anything, mock.Anything).Return(nil, nil)
	vdb.On("CountDocuments", mock.Anything, mock.Anything).Return(int64(0), nil)
	vdb.On("SumFines", mock.Anything).Return(float64(0), nil)
	vdb.On("AverageFine", mock.Anything).Return(float64(0), nil)

	idb := &mocks.IncidentDatabase{}
	idb.On("Find", mock.Anything, mock.Anything).Return(nil, nil)
	idb.On("CountDocuments", mock.Anything, mock.Anything).Return(int64(0), nil)

	pdb := &mocks.ParkingZoneDatabase{}
	pdb.On("Find", mock.Anything, mock.Anything).Return(nil, nil)
	pdb.On("CountDocuments", mock.Anything, mock.Anything).Return(int64(0), nil)
	pdb.On("SumCapacity", mock.Anything).Return(int64(0), nil)

	return handlers.Analytics{
		VDB: vdb, IDB: idb, PDB: pdb,
		Now: func() time.Time { return analyticsNow },
	}
}

func TestAnalytics_AnalyticsHandlerEmptyCollections(t *testing.T) {
	req := officerRequest(t, "GET", "/api/v1/analytics", "")

	an := emptyAnalytics()
	rr := httptest.NewRecorder()
	http.HandlerFunc(an.AnalyticsHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp models.AnalyticsResponse
	_ = json.Unmarshal(rr.Body.Bytes(), &resp)

	assert.Empty(t, resp.ViolationsByType)
	assert.Empty(t, resp.ViolationStatus)
	assert.Empty(t, resp.IncidentsBySeverity)
	assert.Empty(t, resp.ParkingOccupancy)
	assert.Equal(t, int64(0), resp.TotalViolations)
	assert.Equal(t, float64(0), resp.TotalFines)
	assert.Equal(t, float64(0), resp.AvgFine)
	assert.Equal(t, int64(0), resp.ActiveIncidents)

	// the time buckets are seeded at zero even with nothing recorded
	assert.Len(t, resp.MonthlyFines, 6)
	assert.Len(t, resp.IncidentTrends, 7)
	assert.Contains(t, resp.MonthlyFines, "Mar 2024")
	assert.Zero(t, resp.MonthlyFines["Mar 2024"])
	assert.Contains(t, resp.IncidentTrends, "15 Mar")
	assert.Contains(t, resp.IncidentTrends, "09 Mar")
	assert.Zero(t, resp.IncidentTrends["15 Mar"])
}

func TestAnalytics_ComputeProjections(t *testing.T) {
	vdb := &mocks.ViolationDatabase{}
	vdb.On("Find", mock.Anything, mock.Anything).Return([]models.Violation{
		{ViolationType: "Speeding", Status: "Pending", FineAmount: 500, Date: "2024-03-10T08:00:00Z"},
		{ViolationType: "Speeding", Status: "Paid", FineAmount: 300, Date: "2024-03-01T08:00:00Z"},
		{ViolationType: "No Parking", Status: "Pending", FineAmount: 200, Date: "not-a-date"},
	}, nil)
	vdb.On("CountDocuments", mock.Anything, mock.Anything).Return(int64(3), nil)
	vdb.On("SumFines", mock.Anything).Return(float64(1000), nil)
	vdb.On("AverageFine", mock.Anything).Return(333.333333, nil)

	idb := &mocks.IncidentDatabase{}
	idb.On("Find", mock.Anything, mock.Anything).Return([]models.Incident{
		{Severity: "High", Status: "Active", Date: "2024-03-15T01:00:00Z"},
		{Severity: "High", Status: "Resolved", Date: "2024-03-14T01:00:00Z"},
		{Severity: "Low", Status: "Active", Date: "2024-01-01T01:00:00Z"},
	}, nil)
	idb.On("CountDocuments", mock.Anything, mock.Anything).Return(int64(2), nil)

	pdb := &mocks.ParkingZoneDatabase{}
	pdb.On("Find", mock.Anything, mock.Anything).Return([]models.ParkingZone{
		{ZoneName: "Zone A", OccupiedSlots: 10, AvailableSlots: 40},
		{ZoneName: "Zone B", OccupiedSlots: 5, AvailableSlots: 15},
		{ZoneName: "Zone A", OccupiedSlots: 20, AvailableSlots: 30},
	}, nil)
	pdb.On("CountDocuments", mock.Anything, mock.Anything).Return(int64(3), nil)
	pdb.On("SumCapacity", mock.Anything).Return(int64(120), nil)

	an := handlers.Analytics{
		VDB: vdb, IDB: idb, PDB: pdb,
		Now: func() time.Time { return analyticsNow },
	}

	resp, err := an.Compute(context.Background())
	assert.NoError(t, err)

	assert.Equal(t, map[string]int{"Speeding": 2, "No Parking": 1}, resp.ViolationsByType)
	assert.Equal(t, map[string]int{"Pending": 2, "Paid": 1}, resp.ViolationStatus)
	assert.Equal(t, map[string]int{"High": 2, "Low": 1}, resp.IncidentsBySeverity)

	// parseable March dates both land in the current month bucket, the
	// malformed one is skipped silently
	assert.Equal(t, float64(800), resp.MonthlyFines["Mar 2024"])

	// same-day and prior-day incidents fall in the 7-day window, January does not
	assert.Equal(t, 1, resp.IncidentTrends["15 Mar"])
	assert.Equal(t, 1, resp.IncidentTrends["14 Mar"])

	// zone name collision: the later record wins
	assert.Equal(t, models.ZoneOccupancy{Occupied: 20, Available: 30}, resp.ParkingOccupancy["Zone A"])
	assert.Equal(t, models.ZoneOccupancy{Occupied: 5, Available: 15}, resp.ParkingOccupancy["Zone B"])

	assert.Equal(t, int64(3), resp.TotalViolations)
	assert.Equal(t, float64(1000), resp.TotalFines)
	assert.Equal(t, 333.33, resp.AvgFine)
	assert.Equal(t, int64(2), resp.ActiveIncidents)
	assert.Equal(t, int64(3), resp.TotalParkingZones)
	assert.Equal(t, int64(120), resp.TotalParkingCapacity)
}

func TestAnalytics_ComputeStoreError(t *testing.T) {
	an := emptyAnalytics()

	vdb := &mocks.ViolationDatabase{}
	vdb.On("Find", mock.Anything, mock.Anything).Return(nil, errors.New("mocked-error"))
	vdb.On("CountDocuments", mock.Anything, mock.Anything).Return(int64(0), nil)
	vdb.On("SumFines", mock.Anything).Return(float64(0), nil)
	vdb.On("AverageFine", mock.Anything).Return(float64(0), nil)
	an.VDB = vdb

	req := officerRequest(t, "GET", "/api/v1/analytics", "")
	rr := httptest.NewRecorder()
	http.HandlerFunc(an.AnalyticsHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}
