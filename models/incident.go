package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Incident holds the structure for the incidents collection in mongo
type Incident struct {
	ID               primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	IncidentType     string             `json:"incident_type" bson:"incident_type"`
	Severity         string             `json:"severity" bson:"severity"`
	Location         string             `json:"location" bson:"location"`
	ReportedBy       string             `json:"reported_by" bson:"reported_by"`
	Description      string             `json:"description" bson:"description"`
	Status           string             `json:"status" bson:"status"`
	VehiclesInvolved *int               `json:"vehicles_involved,omitempty" bson:"vehicles_involved,omitempty"`
	Date             string             `json:"date" bson:"date"`
	CreatedBy        string             `json:"created_by" bson:"created_by"`
	UpdatedBy        string             `json:"updated_by,omitempty" bson:"updated_by,omitempty"`
	UpdatedAt        string             `json:"updated_at,omitempty" bson:"updated_at,omitempty"`
}
