package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/trafficops/traffic-ops-api/databases"
)

// decodeRecordBody decodes a JSON object body into a field map, dropping the
// fields clients may never write directly.
func decodeRecordBody(r *http.Request) (map[string]interface{}, error) {
	var data map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		return nil, err
	}
	delete(data, "_id")
	delete(data, "created_by")
	delete(data, "updated_by")
	delete(data, "updated_at")
	return data, nil
}

// requireFields reports the first required field absent from the payload
func requireFields(data map[string]interface{}, fields []string) (string, bool) {
	for _, f := range fields {
		if _, ok := data[f]; !ok {
			return f, false
		}
	}
	return "", true
}

func writeMissingField(w http.ResponseWriter, field string) {
	w.WriteHeader(http.StatusBadRequest)
	b, _ := json.Marshal(map[string]string{"error": fmt.Sprintf("Missing required field: %s", field)})
	w.Write(b)
}

// stampUpdate attributes an update to the acting user. The creation date is
// immutable so a client-supplied one is discarded.
func stampUpdate(data map[string]interface{}, username string) {
	delete(data, "date")
	data["updated_by"] = username
	data["updated_at"] = nowUTC()
}

// insertedIDHex re-expresses a store-generated id as a plain string for the
// response body.
func insertedIDHex(res databases.InsertOneResultHelper) string {
	id := res.Decode()
	if oid, ok := id.(primitive.ObjectID); ok {
		return oid.Hex()
	}
	return fmt.Sprintf("%v", id)
}
