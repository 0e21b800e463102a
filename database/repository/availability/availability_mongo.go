package availabilityRepo

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

// batchSize caps how many contractor IDs go into one $in query.
const batchSize = 500

// MongoAvailabilityRepo implements Repository using MongoDB.
type MongoAvailabilityRepo struct {
	coll *mongo.Collection
}

// NewMongoAvailabilityRepo creates a Repository backed by the "availability"
// collection, keyed by (contractorId, date).
func NewMongoAvailabilityRepo() Repository {
	return &MongoAvailabilityRepo{coll: database.Collection("availability")}
}

// EnsureIndexes creates the unique day-key index and the range-scan index.
func (r *MongoAvailabilityRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "contractorId", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "date", Value: 1}}},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create availability indexes: %w", err)
	}
	return nil
}

func (r *MongoAvailabilityRepo) Get(ctx context.Context, contractorID, date string) (*models.Availability, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	var record models.Availability
	filter := bson.M{"contractorId": contractorID, "date": date}
	if err := r.coll.FindOne(ctx, filter).Decode(&record); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch availability for %s on %s: %w", contractorID, date, err)
	}
	return &record, nil
}

func (r *MongoAvailabilityRepo) GetRange(ctx context.Context, contractorID, startDate, endDate string) ([]models.Availability, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	filter := bson.M{
		"contractorId": contractorID,
		"date":         bson.M{"$gte": startDate, "$lte": endDate},
	}
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch availability range for %s: %w", contractorID, err)
	}
	defer cursor.Close(ctx)
	var records []models.Availability
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("error decoding availability records: %w", err)
	}
	return records, nil
}

func (r *MongoAvailabilityRepo) Set(ctx context.Context, record *models.Availability) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	filter := bson.M{"contractorId": record.ContractorID, "date": record.Date}
	opts := options.Replace().SetUpsert(true)
	if _, err := r.coll.ReplaceOne(ctx, filter, record, opts); err != nil {
		return fmt.Errorf("failed to set availability for %s on %s: %w", record.ContractorID, record.Date, err)
	}
	return nil
}

func (r *MongoAvailabilityRepo) Clear(ctx context.Context, contractorID, date string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	filter := bson.M{"contractorId": contractorID, "date": date}
	if _, err := r.coll.DeleteOne(ctx, filter); err != nil {
		return fmt.Errorf("failed to clear availability for %s on %s: %w", contractorID, date, err)
	}
	return nil
}

func (r *MongoAvailabilityRepo) GetManyForDate(ctx context.Context, contractorIDs []string, date string) ([]models.Availability, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var records []models.Availability
	for start := 0; start < len(contractorIDs); start += batchSize {
		end := start + batchSize
		if end > len(contractorIDs) {
			end = len(contractorIDs)
		}
		filter := bson.M{
			"contractorId": bson.M{"$in": contractorIDs[start:end]},
			"date":         date,
		}
		cursor, err := r.coll.Find(ctx, filter)
		if err != nil {
			return nil, fmt.Errorf("failed to batch-fetch availability for %s: %w", date, err)
		}
		var batch []models.Availability
		if err := cursor.All(ctx, &batch); err != nil {
			cursor.Close(ctx)
			return nil, fmt.Errorf("error decoding availability batch: %w", err)
		}
		records = append(records, batch...)
	}
	return records, nil
}
