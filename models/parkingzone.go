package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// ParkingZone holds the structure for the parking_zones collection in mongo.
// AvailableSlots is derived from TotalSlots and OccupiedSlots by the write
// path and is never trusted from client input.
type ParkingZone struct {
	ID             primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	ZoneName       string             `json:"zone_name" bson:"zone_name"`
	Location       string             `json:"location" bson:"location"`
	TotalSlots     int                `json:"total_slots" bson:"total_slots"`
	OccupiedSlots  int                `json:"occupied_slots" bson:"occupied_slots"`
	AvailableSlots int                `json:"available_slots" bson:"available_slots"`
	HourlyRate     float64            `json:"hourly_rate" bson:"hourly_rate"`
	ZoneType       string             `json:"zone_type" bson:"zone_type"`
	CreatedBy      string             `json:"created_by" bson:"created_by"`
	UpdatedBy      string             `json:"updated_by,omitempty" bson:"updated_by,omitempty"`
	UpdatedAt      string             `json:"updated_at,omitempty" bson:"updated_at,omitempty"`
}
