package databases

// go generate: mockery --name ViolationDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/trafficops/traffic-ops-api/models"
)

const violationName = "violations"

// ViolationDatabase contains the methods to use with the violations collection
type ViolationDatabase interface {
	FindOne(context.Context, interface{}, ...*options.FindOneOptions) (*models.Violation, error)
	Find(context.Context, interface{}, ...*options.FindOptions) ([]models.Violation, error)
	InsertOne(context.Context, interface{}, ...*options.InsertOneOptions) (InsertOneResultHelper, error)
	UpdateOne(context.Context, interface{}, interface{}, ...*options.UpdateOptions) error
	DeleteOne(context.Context, interface{}, ...*options.DeleteOptions) error
	CountDocuments(context.Context, interface{}, ...*options.CountOptions) (int64, error)
	SumFines(context.Context) (float64, error)
	AverageFine(context.Context) (float64, error)
}

type violationDatabase struct {
	db DatabaseHelper
}

// NewViolationDatabase initializes a new instance of violation database with the provided db connection
func NewViolationDatabase(db DatabaseHelper) ViolationDatabase {
	return &violationDatabase{
		db: db,
	}
}

func (c *violationDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.Violation, error) {
	violation := &models.Violation{}
	err := c.db.Collection(violationName).FindOne(ctx, filter, opts...).Decode(&violation)
	if err != nil {
		return nil, err
	}
	return violation, nil
}

func (c *violationDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Violation, error) {
	var violations []models.Violation
	cur, err := c.db.Collection(violationName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	err = cur.Decode(&violations)
	if err != nil {
		return nil, err
	}
	return violations, nil
}

func (c *violationDatabase) InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error) {
	return c.db.Collection(violationName).InsertOne(ctx, document, opts...)
}

func (c *violationDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) error {
	return c.db.Collection(violationName).UpdateOne(ctx, filter, update, opts...)
}

func (c *violationDatabase) DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) error {
	return c.db.Collection(violationName).DeleteOne(ctx, filter, opts...)
}

func (c *violationDatabase) CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error) {
	return c.db.Collection(violationName).CountDocuments(ctx, filter, opts...)
}

func (c *violationDatabase) SumFines(ctx context.Context) (float64, error) {
	return groupSum(ctx, c.db.Collection(violationName), "fine_amount")
}

func (c *violationDatabase) AverageFine(ctx context.Context) (float64, error) {
	return groupAvg(ctx, c.db.Collection(violationName), "fine_amount")
}
