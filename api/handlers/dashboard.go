package handlers

import (
	"encoding/json"
	"net/http"

	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/sync/errgroup"

	"github.com/trafficops/traffic-ops-api/config"
	"github.com/trafficops/traffic-ops-api/databases"
	"github.com/trafficops/traffic-ops-api/models"
)

// Dashboard serves the headline stats for the operations landing page
type Dashboard struct {
	VDB databases.ViolationDatabase
	IDB databases.IncidentDatabase
	PDB databases.ParkingZoneDatabase
}

// DashboardStatsHandler returns the four headline counters. The counts are
// independent reads, so they run concurrently and only the final assembly
// waits.
func (d Dashboard) DashboardStatsHandler(w http.ResponseWriter, r *http.Request) {
	var stats models.DashboardStats

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() (err error) {
		stats.TotalViolations, err = d.VDB.CountDocuments(ctx, bson.M{})
		return err
	})
	g.Go(func() (err error) {
		stats.ActiveIncidents, err = d.IDB.CountDocuments(ctx, bson.M{"status": "Active"})
		return err
	})
	g.Go(func() (err error) {
		stats.ParkingZones, err = d.PDB.CountDocuments(ctx, bson.M{})
		return err
	})
	g.Go(func() (err error) {
		stats.TotalFines, err = d.VDB.SumFines(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		config.ErrorStatus("failed to get dashboard stats", http.StatusInternalServerError, w, err)
		return
	}

	b, err := json.Marshal(stats)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}
