package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/trafficops/traffic-ops-api/api"
	"github.com/trafficops/traffic-ops-api/config"
	"github.com/trafficops/traffic-ops-api/databases"
	"github.com/trafficops/traffic-ops-api/models"
	"github.com/trafficops/traffic-ops-api/notify"
)

// Incident exported for testing purposes
type Incident struct {
	DB     databases.IncidentDatabase
	Feed   *IncidentFeed
	Mailer *notify.Mailer
}

var incidentRequiredFields = []string{"incident_type", "severity", "location", "reported_by", "description", "status"}

// IncidentHandler returns all incidents, optionally filtered by exact status,
// most recently dated first
func (i Incident) IncidentHandler(w http.ResponseWriter, r *http.Request) {
	limit, hasLimit, err := parseLimit(r)
	if err != nil {
		config.ErrorStatus("invalid limit parameter", http.StatusBadRequest, w, err)
		return
	}

	query := bson.M{}
	if status := r.URL.Query().Get("status"); status != "" {
		query["status"] = status
	}

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	if hasLimit {
		opts = opts.SetLimit(limit)
	}

	dbResp, err := i.DB.Find(context.TODO(), query, opts)
	if err != nil {
		config.ErrorStatus("failed to get incidents", http.StatusInternalServerError, w, err)
		return
	}
	if len(dbResp) == 0 {
		dbResp = []models.Incident{}
	}
	b, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// CreateIncidentHandler validates and records a new incident report
func (i Incident) CreateIncidentHandler(w http.ResponseWriter, r *http.Request) {
	data, err := decodeRecordBody(r)
	if err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	if missing, ok := requireFields(data, incidentRequiredFields); !ok {
		writeMissingField(w, missing)
		return
	}

	sess, _ := api.SessionFromContext(r.Context())
	data["date"] = nowUTC()
	data["created_by"] = sess.Username

	res, err := i.DB.InsertOne(context.Background(), data)
	if err != nil {
		config.ErrorStatus("failed to create incident", http.StatusInternalServerError, w, err)
		return
	}
	id := insertedIDHex(res)

	if severity, _ := data["severity"].(string); severity == "High" && i.Mailer != nil && i.Mailer.Enabled() {
		go func() {
			if err := i.Mailer.IncidentAlert(id, data); err != nil {
				zap.S().Warnw("failed to send incident alert", "id", id, "error", err)
			}
		}()
	}
	i.broadcast("incident_created", id, data)

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Incident reported successfully",
		"id":      id,
	})
}

// UpdateIncidentHandler merges the supplied fields into an existing incident
func (i Incident) UpdateIncidentHandler(w http.ResponseWriter, r *http.Request) {
	incidentID := mux.Vars(r)["incident_id"]

	iID, err := primitive.ObjectIDFromHex(incidentID)
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

	err = i.DB.UpdateOne(context.Background(), bson.M{"_id": iID}, bson.M{"$set": data})
	if err != nil {
		config.ErrorStatus("failed to update incident", http.StatusInternalServerError, w, err)
		return
	}
	i.broadcast("incident_updated", incidentID, data)

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Incident updated successfully",
	})
}

// DeleteIncidentHandler deletes an incident by ID, admin only
func (i Incident) DeleteIncidentHandler(w http.ResponseWriter, r *http.Request) {
	incidentID := mux.Vars(r)["incident_id"]

	iID, err := primitive.ObjectIDFromHex(incidentID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	err = i.DB.DeleteOne(context.Background(), bson.M{"_id": iID})
	if err != nil {
		config.ErrorStatus("failed to delete incident", http.StatusInternalServerError, w, err)
		return
	}
	i.broadcast("incident_deleted", incidentID, nil)

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Incident deleted successfully",
	})
}

func (i Incident) broadcast(event, id string, data map[string]interface{}) {
	if i.Feed == nil {
		return
	}
	payload := map[string]interface{}{"id": id}
	for k, v := range data {
		payload[k] = v
	}
	i.Feed.Broadcast(event, payload)
}
