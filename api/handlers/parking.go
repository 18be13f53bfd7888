package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/trafficops/traffic-ops-api/api"
	"github.com/trafficops/traffic-ops-api/config"
	"github.com/trafficops/traffic-ops-api/databases"
	"github.com/trafficops/traffic-ops-api/models"
)

// ParkingZone exported for testing purposes
type ParkingZone struct {
	DB databases.ParkingZoneDatabase
}

var parkingRequiredFields = []string{"zone_name", "location", "total_slots", "occupied_slots", "hourly_rate", "zone_type"}

// ParkingZoneHandler returns all parking zones
func (p ParkingZone) ParkingZoneHandler(w http.ResponseWriter, r *http.Request) {
	dbResp, err := p.DB.Find(context.TODO(), bson.M{})
	if err != nil {
		config.ErrorStatus("failed to get parking zones", http.StatusInternalServerError, w, err)
		return
	}
	if len(dbResp) == 0 {
		dbResp = []models.ParkingZone{}
	}
	b, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// CreateParkingZoneHandler validates and records a new parking zone. The
// available slot count is derived server-side, never read from the payload.
func (p ParkingZone) CreateParkingZoneHandler(w http.ResponseWriter, r *http.Request) {
	data, err := decodeRecordBody(r)
	if err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	if missing, ok := requireFields(data, parkingRequiredFields); !ok {
		writeMissingField(w, missing)
		return
	}

	total, tOK := slotCount(data, "total_slots")
	occupied, oOK := slotCount(data, "occupied_slots")
	if !tOK || !oOK {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": "total_slots and occupied_slots must be non-negative integers"}`))
		return
	}
	data["total_slots"] = total
	data["occupied_slots"] = occupied
	data["available_slots"] = total - occupied

	sess, _ := api.SessionFromContext(r.Context())
	data["created_by"] = sess.Username

	res, err := p.DB.InsertOne(context.Background(), data)
	if err != nil {
		config.ErrorStatus("failed to create parking zone", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Parking zone added successfully",
		"id":      insertedIDHex(res),
	})
}

// UpdateParkingZoneHandler merges the supplied fields into an existing zone,
// re-deriving available_slots whenever either slot operand changes. When only
// one operand is in the payload the other is read from the stored record so
// the derived value is never stale.
func (p ParkingZone) UpdateParkingZoneHandler(w http.ResponseWriter, r *http.Request) {
	zoneID := mux.Vars(r)["zone_id"]

	zID, err := primitive.ObjectIDFromHex(zoneID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	data, err := decodeRecordBody(r)
	if err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	delete(data, "available_slots")

	total, hasTotal := slotCount(data, "total_slots")
	occupied, hasOccupied := slotCount(data, "occupied_slots")
	_, totalSupplied := data["total_slots"]
	_, occupiedSupplied := data["occupied_slots"]
	if (totalSupplied && !hasTotal) || (occupiedSupplied && !hasOccupied) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": "total_slots and occupied_slots must be non-negative integers"}`))
		return
	}

	if totalSupplied || occupiedSupplied {
		if !totalSupplied || !occupiedSupplied {
			current, err := p.DB.FindOne(context.Background(), bson.M{"_id": zID})
			if err != nil {
				config.ErrorStatus("failed to get parking zone", http.StatusInternalServerError, w, err)
				return
			}
			if !totalSupplied {
				total = current.TotalSlots
			}
			if !occupiedSupplied {
				occupied = current.OccupiedSlots
			}
		}
		if totalSupplied {
			data["total_slots"] = total
		}
		if occupiedSupplied {
			data["occupied_slots"] = occupied
		}
		data["available_slots"] = total - occupied
	}

	sess, _ := api.SessionFromContext(r.Context())
	stampUpdate(data, sess.Username)

	err = p.DB.UpdateOne(context.Background(), bson.M{"_id": zID}, bson.M{"$set": data})
	if err != nil {
		config.ErrorStatus("failed to update parking zone", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Parking zone updated successfully",
	})
}

// DeleteParkingZoneHandler deletes a parking zone by ID, admin only
func (p ParkingZone) DeleteParkingZoneHandler(w http.ResponseWriter, r *http.Request) {
	zoneID := mux.Vars(r)["zone_id"]

	zID, err := primitive.ObjectIDFromHex(zoneID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	err = p.DB.DeleteOne(context.Background(), bson.M{"_id": zID})
	if err != nil {
		config.ErrorStatus("failed to delete parking zone", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Parking zone deleted successfully",
	})
}

// slotCount extracts a non-negative whole number from the decoded payload
func slotCount(data map[string]interface{}, field string) (int, bool) {
	f, ok := data[field].(float64)
	if !ok || f < 0 || f != float64(int(f)) {
		return 0, false
	}
	return int(f), true
}
