package handlers

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/sync/errgroup"

	"github.com/trafficops/traffic-ops-api/config"
	"github.com/trafficops/traffic-ops-api/databases"
	"github.com/trafficops/traffic-ops-api/models"
)

// Bucket label formats. Months use the 30-day offset approximation of the
// existing dashboard, not calendar-month arithmetic; changing it would move
// records between buckets for anyone consuming the feed.
const (
	monthLabel = "Jan 2006"
	dayLabel   = "02 Jan"
)

// Analytics recomputes the full statistical snapshot on every request. No
// caching: the collections are small and this is a dashboard read, so
// correctness wins over latency.
type Analytics struct {
	VDB databases.ViolationDatabase
	IDB databases.IncidentDatabase
	PDB databases.ParkingZoneDatabase
	Now func() time.Time
}

// AnalyticsHandler returns the composite analytics document
func (a *Analytics) AnalyticsHandler(w http.ResponseWriter, r *http.Request) {
	resp, err := a.Compute(r.Context())
	if err != nil {
		config.ErrorStatus("failed to compute analytics", http.StatusInternalServerError, w, err)
		return
	}

	b, err := json.Marshal(resp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// Compute assembles every projection from a point-in-time read of the three
// collections. The store reads are independent and run concurrently; any
// store failure aborts the whole snapshot, while per-record date parse
// failures only exclude that record from the time-bucketed projections.
func (a *Analytics) Compute(ctx context.Context) (*models.AnalyticsResponse, error) {
	now := a.Now()

	var (
		violations []models.Violation
		incidents  []models.Incident
		zones      []models.ParkingZone
		resp       models.AnalyticsResponse
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		violations, err = a.VDB.Find(gctx, bson.M{})
		return err
	})
	g.Go(func() (err error) {
		incidents, err = a.IDB.Find(gctx, bson.M{})
		return err
	})
	g.Go(func() (err error) {
		zones, err = a.PDB.Find(gctx, bson.M{})
		return err
	})
	g.Go(func() (err error) {
		resp.TotalViolations, err = a.VDB.CountDocuments(gctx, bson.M{})
		return err
	})
	g.Go(func() (err error) {
		resp.TotalFines, err = a.VDB.SumFines(gctx)
		return err
	})
	g.Go(func() (err error) {
		avg, err := a.VDB.AverageFine(gctx)
		resp.AvgFine = math.Round(avg*100) / 100
		return err
	})
	g.Go(func() (err error) {
		resp.ActiveIncidents, err = a.IDB.CountDocuments(gctx, bson.M{"status": "Active"})
		return err
	})
	g.Go(func() (err error) {
		resp.TotalParkingZones, err = a.PDB.CountDocuments(gctx, bson.M{})
		return err
	})
	g.Go(func() (err error) {
		resp.TotalParkingCapacity, err = a.PDB.SumCapacity(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	resp.ViolationsByType = violationsByType(violations)
	resp.ViolationStatus = violationStatus(violations)
	resp.IncidentsBySeverity = incidentsBySeverity(incidents)
	resp.MonthlyFines = monthlyFines(now, violations)
	resp.ParkingOccupancy = parkingOccupancy(zones)
	resp.IncidentTrends = incidentTrends(now, incidents)

	return &resp, nil
}

// violationsByType counts violations per distinct type. Unseen types are
// simply absent, never zero-filled.
func violationsByType(violations []models.Violation) map[string]int {
	counts := map[string]int{}
	for _, v := range violations {
		counts[v.ViolationType]++
	}
	return counts
}

func violationStatus(violations []models.Violation) map[string]int {
	counts := map[string]int{}
	for _, v := range violations {
		counts[v.Status]++
	}
	return counts
}

func incidentsBySeverity(incidents []models.Incident) map[string]int {
	counts := map[string]int{}
	for _, i := range incidents {
		counts[i.Severity]++
	}
	return counts
}

// monthlyFines folds fines into six month buckets: the current month plus the
// five labels found at now - 30*i days. Buckets are pre-seeded at zero;
// violations with unparsable dates or dates outside the seeded labels are
// skipped silently.
func monthlyFines(now time.Time, violations []models.Violation) map[string]float64 {
	buckets := map[string]float64{}
	for i := 0; i < 6; i++ {
		buckets[now.AddDate(0, 0, -30*i).Format(monthLabel)] = 0
	}
	for _, v := range violations {
		date, err := parseRecordDate(v.Date)
		if err != nil {
			continue
		}
		label := date.Format(monthLabel)
		if _, ok := buckets[label]; ok {
			buckets[label] += v.FineAmount
		}
	}
	return buckets
}

// parkingOccupancy snapshots per-zone occupancy keyed by zone name. Zones
// sharing a name overwrite each other, last one wins.
func parkingOccupancy(zones []models.ParkingZone) map[string]models.ZoneOccupancy {
	occupancy := map[string]models.ZoneOccupancy{}
	for _, z := range zones {
		occupancy[z.ZoneName] = models.ZoneOccupancy{
			Occupied:  z.OccupiedSlots,
			Available: z.AvailableSlots,
		}
	}
	return occupancy
}

// incidentTrends counts incidents per day over the trailing seven days,
// buckets pre-seeded at zero, out-of-range and unparsable dates skipped.
func incidentTrends(now time.Time, incidents []models.Incident) map[string]int {
	buckets := map[string]int{}
	for i := 0; i < 7; i++ {
		buckets[now.AddDate(0, 0, -i).Format(dayLabel)] = 0
	}
	for _, inc := range incidents {
		date, err := parseRecordDate(inc.Date)
		if err != nil {
			continue
		}
		label := date.Format(dayLabel)
		if _, ok := buckets[label]; ok {
			buckets[label]++
		}
	}
	return buckets
}

// parseRecordDate accepts the stored ISO-8601 timestamps. A trailing literal
// "Z" is treated as the UTC offset; zone-less timestamps (written by older
// tooling) are taken as UTC.
func parseRecordDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02T15:04:05.999999999", s)
}
