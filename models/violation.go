package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Violation holds the structure for the violations collection in mongo
type Violation struct {
	ID               primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	VehicleNumber    string             `json:"vehicle_number" bson:"vehicle_number"`
	ViolationType    string             `json:"violation_type" bson:"violation_type"`
	Location         string             `json:"location" bson:"location"`
	FineAmount       float64            `json:"fine_amount" bson:"fine_amount"`
	OfficerName      string             `json:"officer_name" bson:"officer_name"`
	Status           string             `json:"status" bson:"status"`
	Date             string             `json:"date" bson:"date"`
	Evidence         []string           `json:"evidence,omitempty" bson:"evidence,omitempty"`
	PaymentReference string             `json:"payment_reference,omitempty" bson:"payment_reference,omitempty"`
	CreatedBy        string             `json:"created_by" bson:"created_by"`
	UpdatedBy        string             `json:"updated_by,omitempty" bson:"updated_by,omitempty"`
	UpdatedAt        string             `json:"updated_at,omitempty" bson:"updated_at,omitempty"`
}
