package models

// HealthCheckResponse returns the health check response struct, aka alive or not
type HealthCheckResponse struct {
	Alive bool `json:"alive"`
}
