package models

// ZoneOccupancy is the per-zone slice of the parking occupancy projection
type ZoneOccupancy struct {
	Occupied  int `json:"occupied"`
	Available int `json:"available"`
}

// AnalyticsResponse is the composite analytics document. Every projection is
// computed independently and tolerates empty collections.
type AnalyticsResponse struct {
	ViolationsByType     map[string]int           `json:"violations_by_type"`
	ViolationStatus      map[string]int           `json:"violation_status"`
	IncidentsBySeverity  map[string]int           `json:"incidents_by_severity"`
	MonthlyFines         map[string]float64       `json:"monthly_fines"`
	ParkingOccupancy     map[string]ZoneOccupancy `json:"parking_occupancy"`
	IncidentTrends       map[string]int           `json:"incident_trends"`
	TotalViolations      int64                    `json:"total_violations"`
	TotalFines           float64                  `json:"total_fines"`
	AvgFine              float64                  `json:"avg_fine"`
	ActiveIncidents      int64                    `json:"active_incidents"`
	TotalParkingZones    int64                    `json:"total_parking_zones"`
	TotalParkingCapacity int64                    `json:"total_parking_capacity"`
}

// DashboardStats is the headline stats document for the operations dashboard
type DashboardStats struct {
	TotalViolations int64   `json:"total_violations"`
	ActiveIncidents int64   `json:"active_incidents"`
	ParkingZones    int64   `json:"parking_zones"`
	TotalFines      float64 `json:"total_fines"`
}
