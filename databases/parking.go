package databases

// go generate: mockery --name ParkingZoneDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/trafficops/traffic-ops-api/models"
)

const parkingZoneName = "parking_zones"

// ParkingZoneDatabase contains the methods to use with the parking_zones collection
type ParkingZoneDatabase interface {
	FindOne(context.Context, interface{}, ...*options.FindOneOptions) (*models.ParkingZone, error)
	Find(context.Context, interface{}, ...*options.FindOptions) ([]models.ParkingZone, error)
	InsertOne(context.Context, interface{}, ...*options.InsertOneOptions) (InsertOneResultHelper, error)
	UpdateOne(context.Context, interface{}, interface{}, ...*options.UpdateOptions) error
	DeleteOne(context.Context, interface{}, ...*options.DeleteOptions) error
	CountDocuments(context.Context, interface{}, ...*options.CountOptions) (int64, error)
	SumCapacity(context.Context) (int64, error)
}

type parkingZoneDatabase struct {
	db DatabaseHelper
}

// NewParkingZoneDatabase initializes a new instance of parking zone database with the provided db connection
func NewParkingZoneDatabase(db DatabaseHelper) ParkingZoneDatabase {
	return &parkingZoneDatabase{
		db: db,
	}
}

func (c *parkingZoneDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.ParkingZone, error) {
	zone := &models.ParkingZone{}
	err := c.db.Collection(parkingZoneName).FindOne(ctx, filter, opts...).Decode(&zone)
	if err != nil {
		return nil, err
	}
	return zone, nil
}

func (c *parkingZoneDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.ParkingZone, error) {
	var zones []models.ParkingZone
	cur, err := c.db.Collection(parkingZoneName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	err = cur.Decode(&zones)
	if err != nil {
		return nil, err
	}
	return zones, nil
}

func (c *parkingZoneDatabase) InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error) {
	return c.db.Collection(parkingZoneName).InsertOne(ctx, document, opts...)
}

func (c *parkingZoneDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) error {
	return c.db.Collection(parkingZoneName).UpdateOne(ctx, filter, update, opts...)
}

func (c *parkingZoneDatabase) DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) error {
	return c.db.Collection(parkingZoneName).DeleteOne(ctx, filter, opts...)
}

func (c *parkingZoneDatabase) CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error) {
	return c.db.Collection(parkingZoneName).CountDocuments(ctx, filter, opts...)
}

func (c *parkingZoneDatabase) SumCapacity(ctx context.Context) (int64, error) {
	total, err := groupSum(ctx, c.db.Collection(parkingZoneName), "total_slots")
	if err != nil {
		return 0, err
	}
	return int64(total), nil
}
