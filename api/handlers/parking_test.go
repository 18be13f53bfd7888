package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/trafficops/traffic-ops-api/api/handlers"
	"github.com/trafficops/traffic-ops-api/databases/mocks"
	"github.com/trafficops/traffic-ops-api/models"
)

func TestParkingZone_ParkingZoneHandlerSuccess(t *testing.T) {
	req := officerRequest(t, "GET", "/api/v1/parking", "")

	db := &mocks.ParkingZoneDatabase{}
	db.On("Find", mock.Anything, mock.Anything).Return([]models.ParkingZone{
		{ZoneName: "Zone A", TotalSlots: 50, OccupiedSlots: 10, AvailableSlots: 40},
	}, nil)

	p := handlers.ParkingZone{DB: db}
	rr := httptest.NewRecorder()
	http.HandlerFunc(p.ParkingZoneHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var got []models.ParkingZone
	_ = json.Unmarshal(rr.Body.Bytes(), &got)
	assert.Len(t, got, 1)
	assert.Equal(t, 40, got[0].AvailableSlots)
}

func TestParkingZone_CreateParkingZoneHandlerDerivesAvailableSlots(t *testing.T) {
	body := `{"zone_name":"Zone A","location":"MG Road","total_slots":50,"occupied_slots":10,"hourly_rate":20,"zone_type":"Street","available_slots":999}`
	req := officerRequest(t, "POST", "/api/v1/parking", body)

	oid := primitive.NewObjectID()
	res := &mocks.InsertOneResultHelper{}
	res.On("Decode").Return(oid)

	var inserted map[string]interface{}
	db := &mocks.ParkingZoneDatabase{}
	db.On("InsertOne", mock.Anything, mock.Anything).Return(res, nil).Run(func(args mock.Arguments) {
		inserted = args.Get(1).(map[string]interface{})
	})

	p := handlers.ParkingZone{DB: db}
	rr := httptest.NewRecorder()
	http.HandlerFunc(p.CreateParkingZoneHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)

	// the client-supplied available_slots is ignored and re-derived
	assert.Equal(t, 40, inserted["available_slots"])
	assert.Equal(t, 50, inserted["total_slots"])
	assert.Equal(t, 10, inserted["occupied_slots"])
	assert.Equal(t, "officer1", inserted["created_by"])
}

func TestParkingZone_CreateParkingZoneHandlerRejectsBadSlots(t *testing.T) {
	body := `{"zone_name":"Zone A","location":"MG Road","total_slots":"fifty","occupied_slots":10,"hourly_rate":20,"zone_type":"Street"}`
	req := officerRequest(t, "POST", "/api/v1/parking", body)

	p := handlers.ParkingZone{DB: &mocks.ParkingZoneDatabase{}}
	rr := httptest.NewRecorder()
	http.HandlerFunc(p.CreateParkingZoneHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"error": "total_slots and occupied_slots must be non-negative integers"}`, rr.Body.String())
}

func TestParkingZone_CreateParkingZoneHandlerMissingField(t *testing.T) {
	body := `{"zone_name":"Zone A","location":"MG Road","total_slots":50,"occupied_slots":10,"hourly_rate":20}`
	req := officerRequest(t, "POST", "/api/v1/parking", body)

	p := handlers.ParkingZone{DB: &mocks.ParkingZoneDatabase{}}
	rr := httptest.NewRecorder()
	http.HandlerFunc(p.CreateParkingZoneHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"error": "Missing required field: zone_type"}`, rr.Body.String())
}

func TestParkingZone_UpdateParkingZoneHandlerBothSlotsSupplied(t *testing.T) {
	req := officerRequest(t, "PUT", "/api/v1/parking/608cafd695eb9dc05379b7f3", `{"total_slots":60,"occupied_slots":15}`)
	req = mux.SetURLVars(req, map[string]string{"zone_id": "608cafd695eb9dc05379b7f3"})

	var set map[string]interface{}
	db := &mocks.ParkingZoneDatabase{}
	db.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		set = args.Get(2).(bson.M)["$set"].(map[string]interface{})
	})

	p := handlers.ParkingZone{DB: db}
	rr := httptest.NewRecorder()
	http.HandlerFunc(p.UpdateParkingZoneHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 45, set["available_slots"])
	db.AssertNotCalled(t, "FindOne", mock.Anything, mock.Anything)
}

func TestParkingZone_UpdateParkingZoneHandlerSingleSlotOperand(t *testing.T) {
	req := officerRequest(t, "PUT", "/api/v1/parking/608cafd695eb9dc05379b7f3", `{"occupied_slots":30}`)
	req = mux.SetURLVars(req, map[string]string{"zone_id": "608cafd695eb9dc05379b7f3"})

	db := &mocks.ParkingZoneDatabase{}
	db.On("FindOne", mock.Anything, mock.Anything).Return(&models.ParkingZone{
		ZoneName: "Zone A", TotalSlots: 50, OccupiedSlots: 10, AvailableSlots: 40,
	}, nil)

	var set map[string]interface{}
	db.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		set = args.Get(2).(bson.M)["$set"].(map[string]interface{})
	})

	p := handlers.ParkingZone{DB: db}
	rr := httptest.NewRecorder()
	http.HandlerFunc(p.UpdateParkingZoneHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	// total read from the stored record, available re-derived
	assert.Equal(t, 20, set["available_slots"])
	assert.Equal(t, 30, set["occupied_slots"])
	assert.NotContains(t, set, "total_slots")
}

func TestParkingZone_UpdateParkingZoneHandlerNoSlotChange(t *testing.T) {
	req := officerRequest(t, "PUT", "/api/v1/parking/608cafd695eb9dc05379b7f3", `{"hourly_rate":25,"available_slots":999}`)
	req = mux.SetURLVars(req, map[string]string{"zone_id": "608cafd695eb9dc05379b7f3"})

	var set map[string]interface{}
	db := &mocks.ParkingZoneDatabase{}
	db.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		set = args.Get(2).(bson.M)["$set"].(map[string]interface{})
	})

	p := handlers.ParkingZone{DB: db}
	rr := httptest.NewRecorder()
	http.HandlerFunc(p.UpdateParkingZoneHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.NotContains(t, set, "available_slots")
	assert.Equal(t, float64(25), set["hourly_rate"])
}

func TestParkingZone_DeleteParkingZoneHandlerSuccess(t *testing.T) {
	req := officerRequest(t, "DELETE", "/api/v1/parking/608cafd695eb9dc05379b7f3", "")
	req = mux.SetURLVars(req, map[string]string{"zone_id": "608cafd695eb9dc05379b7f3"})

	db := &mocks.ParkingZoneDatabase{}
	db.On("DeleteOne", mock.Anything, mock.Anything).Return(nil)

	p := handlers.ParkingZone{DB: db}
	rr := httptest.NewRecorder()
	http.HandlerFunc(p.DeleteParkingZoneHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"message": "Parking zone deleted successfully"}`, rr.Body.String())
}
