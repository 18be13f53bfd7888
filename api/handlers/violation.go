package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/trafficops/traffic-ops-api/api"
	"github.com/trafficops/traffic-ops-api/config"
	"github.com/trafficops/traffic-ops-api/databases"
	"github.com/trafficops/traffic-ops-api/models"
)

// Violation exported for testing purposes
type Violation struct {
	DB databases.ViolationDatabase
}

var violationRequiredFields = []string{"vehicle_number", "violation_type", "location", "fine_amount", "officer_name", "status"}

// ViolationHandler returns all violations, most recently dated first
func (v Violation) ViolationHandler(w http.ResponseWriter, r *http.Request) {
	limit, hasLimit, err := parseLimit(r)
	if err != nil {
		config.ErrorStatus("invalid limit parameter", http.StatusBadRequest, w, err)
		return
	}

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	if hasLimit {
		opts = opts.SetLimit(limit)
	}

	dbResp, err := v.DB.Find(context.TODO(), bson.M{}, opts)
	if err != nil {
		config.ErrorStatus("failed to get violations", http.StatusInternalServerError, w, err)
		return
	}
	// the frontend requires a JSON array even when the collection is empty
	if len(dbResp) == 0 {
		dbResp = []models.Violation{}
	}
	b, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// CreateViolationHandler validates and records a new violation citation
func (v Violation) CreateViolationHandler(w http.ResponseWriter, r *http.Request) {
	data, err := decodeRecordBody(r)
	if err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	if missing, ok := requireFields(data, violationRequiredFields); !ok {
		writeMissingField(w, missing)
		return
	}

	fine, ok := data["fine_amount"].(float64)
	if !ok || fine < 0 {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": "fine_amount must be a non-negative number"}`))
		return
	}

	sess, _ := api.SessionFromContext(r.Context())
	data["date"] = nowUTC()
	data["created_by"] = sess.Username

	res, err := v.DB.InsertOne(context.Background(), data)
	if err != nil {
		config.ErrorStatus("failed to create violation", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Violation added successfully",
		"id":      insertedIDHex(res),
	})
}

// UpdateViolationHandler merges the supplied fields into an existing violation
func (v Violation) UpdateViolationHandler(w http.ResponseWriter, r *http.Request) {
	violationID := mux.Vars(r)["violation_id"]

	vID, err := primitive.ObjectIDFromHex(violationID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	data, err := decodeRecordBody(r)
	if err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	sess, _ := api.SessionFromContext(r.Context())
	stampUpdate(data, sess.Username)

	err = v.DB.UpdateOne(context.Background(), bson.M{"_id": vID}, bson.M{"$set": data})
	if err != nil {
		config.ErrorStatus("failed to update violation", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Violation updated successfully",
	})
}

// DeleteViolationHandler deletes a violation by ID, admin only
func (v Violation) DeleteViolationHandler(w http.ResponseWriter, r *http.Request) {
	violationID := mux.Vars(r)["violation_id"]

	vID, err := primitive.ObjectIDFromHex(violationID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	err = v.DB.DeleteOne(context.Background(), bson.M{"_id": vID})
	if err != nil {
		config.ErrorStatus("failed to delete violation", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Violation deleted successfully",
	})
}
