package databases_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/trafficops/traffic-ops-api/databases"
	"github.com/trafficops/traffic-ops-api/databases/mocks"
	"github.com/trafficops/traffic-ops-api/models"
)

func TestViolationDatabase_Find(t *testing.T) {
	db := &mocks.DatabaseHelper{}
	coll := &mocks.CollectionHelper{}
	cursor := &mocks.CursorHelper{}

	cursor.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(*[]models.Violation)
		*arg = []models.Violation{{VehicleNumber: "KA01AB1234"}}
	})
	coll.On("Find", mock.Anything, mock.Anything).Return(cursor, nil)
	db.On("Collection", "violations").Return(coll)

	violations, err := databases.NewViolationDatabase(db).Find(context.Background(), bson.M{})
	assert.NoError(t, err)
	assert.Len(t, violations, 1)
	assert.Equal(t, "KA01AB1234", violations[0].VehicleNumber)
}

func TestViolationDatabase_FindOneError(t *testing.T) {
	db := &mocks.DatabaseHelper{}
	coll := &mocks.CollectionHelper{}
	single := &mocks.SingleResultHelper{}

	single.On("Decode", mock.Anything).Return(errors.New("mongo: no documents in result"))
	coll.On("FindOne", mock.Anything, mock.Anything).Return(single)
	db.On("Collection", "violations").Return(coll)

	_, err := databases.NewViolationDatabase(db).FindOne(context.Background(), bson.M{"_id": "x"})
	assert.Error(t, err)
}

func TestViolationDatabase_SumFines(t *testing.T) {
	db := &mocks.DatabaseHelper{}
	coll := &mocks.CollectionHelper{}
	cursor := &mocks.CursorHelper{}

	var pipeline []bson.M
	cursor.On("Decode", mock.Anything).Return(nil)
	coll.On("Aggregate", mock.Anything, mock.Anything).Return(cursor, nil).Run(func(args mock.Arguments) {
		pipeline = args.Get(1).([]bson.M)
	})
	db.On("Collection", "violations").Return(coll)

	total, err := databases.NewViolationDatabase(db).SumFines(context.Background())
	assert.NoError(t, err)
	assert.Zero(t, total)

	group := pipeline[0]["$group"].(bson.M)
	assert.Equal(t, bson.M{"$sum": "$fine_amount"}, group["total"])
}

func TestParkingZoneDatabase_SumCapacityEmpty(t *testing.T) {
	db := &mocks.DatabaseHelper{}
	coll := &mocks.CollectionHelper{}
	cursor := &mocks.CursorHelper{}

	cursor.On("Decode", mock.Anything).Return(nil)
	coll.On("Aggregate", mock.Anything, mock.Anything).Return(cursor, nil)
	db.On("Collection", "parking_zones").Return(coll)

	total, err := databases.NewParkingZoneDatabase(db).SumCapacity(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, int64(0), total)
}

func TestIncidentDatabase_CountDocuments(t *testing.T) {
	db := &mocks.DatabaseHelper{}
	coll := &mocks.CollectionHelper{}

	coll.On("CountDocuments", mock.Anything, bson.M{"status": "Active"}).Return(int64(4), nil)
	db.On("Collection", "incidents").Return(coll)

	count, err := databases.NewIncidentDatabase(db).CountDocuments(context.Background(), bson.M{"status": "Active"})
	assert.NoError(t, err)
	assert.Equal(t, int64(4), count)
}

func TestIncidentDatabase_FindPropagatesError(t *testing.T) {
	db := &mocks.DatabaseHelper{}
	coll := &mocks.CollectionHelper{}

	coll.On("Find", mock.Anything, mock.Anything).Return(nil, errors.New("mocked-error"))
	db.On("Collection", "incidents").Return(coll)

	_, err := databases.NewIncidentDatabase(db).Find(context.Background(), bson.M{})
	assert.Error(t, err)
}
