package databases

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
)

type sumResult struct {
	Total float64 `bson:"total"`
}

type avgResult struct {
	Avg float64 `bson:"avg"`
}

// groupSum runs a single $group pipeline summing the given numeric field over
// the whole collection. An empty collection yields zero.
func groupSum(ctx context.Context, coll CollectionHelper, field string) (float64, error) {
	pipeline := []bson.M{
		{"$group": bson.M{"_id": nil, "total": bson.M{"$sum": "$" + field}}},
	}
	cur, err := coll.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	var results []sumResult
	if err := cur.Decode(&results); err != nil {
		return 0, err
	}
	if len(results) == 0 {
		return 0, nil
	}
	return results[0].Total, nil
}

// groupAvg runs a single $group pipeline averaging the given numeric field.
// An empty collection yields zero rather than a division by zero.
func groupAvg(ctx context.Context, coll CollectionHelper, field string) (float64, error) {
	pipeline := []bson.M{
		{"$group": bson.M{"_id": nil, "avg": bson.M{"$avg": "$" + field}}},
	}
	cur, err := coll.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	var results []avgResult
	if err := cur.Decode(&results); err != nil {
		return 0, err
	}
	if len(results) == 0 {
		return 0, nil
	}
	return results[0].Avg, nil
}
