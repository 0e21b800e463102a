package contractorRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"keyhubcentral/database"
	"keyhubcentral/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoContractorRepo implements Repository using MongoDB.
type MongoContractorRepo struct {
	coll *mongo.Collection
}

// NewMongoContractorRepo creates a Repository backed by the "contractors"
// collection.
func NewMongoContractorRepo() Repository {
	return &MongoContractorRepo{coll: database.Collection("contractors")}
}

func (r *MongoContractorRepo) GetByID(ctx context.Context, id string) (*models.Contractor, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	var contractor models.Contractor
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&contractor); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch contractor %s: %w", id, err)
	}
	return &contractor, nil
}

func (r *MongoContractorRepo) GetActive(ctx context.Context, trades []models.Trade) ([]models.Contractor, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	filter := bson.M{"status": models.ContractorActive}
	if len(trades) > 0 {
		filter["trades"] = bson.M{"$in": trades}
	}
	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve active contractors: %w", err)
	}
	defer cursor.Close(ctx)
	var contractors []models.Contractor
	if err := cursor.All(ctx, &contractors); err != nil {
		return nil, fmt.Errorf("error decoding contractors: %w", err)
	}
	return contractors, nil
}

func (r *MongoContractorRepo) Create(ctx context.Context, contractor *models.Contractor) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if _, err := r.coll.InsertOne(ctx, contractor); err != nil {
		return fmt.Errorf("failed to create contractor: %w", err)
	}
	return nil
}

func (r *MongoContractorRepo) Update(ctx context.Context, contractor *models.Contractor) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	result, err := r.coll.UpdateOne(ctx, bson.M{"id": contractor.ID}, bson.M{"$set": contractor})
	if err != nil {
		return fmt.Errorf("failed to update contractor %s: %w", contractor.ID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("contractor %s not found", contractor.ID)
	}
	return nil
}

// UpdateRating guards the write with the previous overall score so two
// concurrent rating submissions cannot silently clobber each other.
func (r *MongoContractorRepo) UpdateRating(ctx context.Context, id string, prevOverall float64, rating models.Rating) (*models.Contractor, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	filter := bson.M{"id": id, "rating.overall": prevOverall}
	update := bson.M{"$set": bson.M{"rating": rating, "updatedAt": time.Now().UTC()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.Contractor
	err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&updated)
	if err == nil {
		return &updated, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("failed to update rating for contractor %s: %w", id, err)
	}

	// Guard mismatch and missing contractor both surface as ErrNoDocuments;
	// a second lookup tells them apart.
	existing, lookupErr := r.GetByID(ctx, id)
	if lookupErr != nil {
		return nil, lookupErr
	}
	if existing == nil {
		return nil, fmt.Errorf("contractor %s not found", id)
	}
	return nil, nil
}

func (r *MongoContractorRepo) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	result, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete contractor %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("contractor %s not found", id)
	}
	return nil
}
