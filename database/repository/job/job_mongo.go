package jobRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"keyhubcentral/database"
	"keyhubcentral/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoJobRepo implements Repository over the "jobs" collection.
type MongoJobRepo struct {
	coll *mongo.Collection
}

// NewMongoJobRepo creates the read-only job Repository.
func NewMongoJobRepo() Repository {
	return &MongoJobRepo{coll: database.Collection("jobs")}
}

func (r *MongoJobRepo) GetByID(ctx context.Context, id string) (*models.Job, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	var job models.Job
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&job); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch job %s: %w", id, err)
	}
	return &job, nil
}
