package ratingRequestRepo

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

// MongoRatingRequestRepo implements Repository using MongoDB.
type MongoRatingRequestRepo struct {
	coll *mongo.Collection
}

// NewMongoRatingRequestRepo creates a Repository backed by the
// "ratingRequests" collection.
func NewMongoRatingRequestRepo() Repository {
	return &MongoRatingRequestRepo{coll: database.Collection("ratingRequests")}
}

// EnsureIndexes creates the token index and the natural-key index enforcing
// one request per (job, contractor).
func (r *MongoRatingRequestRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "token", Value: 1}}, Options: options.Index().SetUnique(true)},
		{
			Keys:    bson.D{{Key: "jobId", Value: 1}, {Key: "contractorId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "contractorId", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "expiresAt", Value: 1}}},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create rating request indexes: %w", err)
	}
	return nil
}

func (r *MongoRatingRequestRepo) GetByToken(ctx context.Context, token string) (*models.RatingRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	var request models.RatingRequest
	if err := r.coll.FindOne(ctx, bson.M{"token": token}).Decode(&request); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch rating request: %w", err)
	}
	return &request, nil
}

func (r *MongoRatingRequestRepo) CreateIfAbsent(ctx context.Context, request *models.RatingRequest) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	filter := bson.M{"jobId": request.JobID, "contractorId": request.ContractorID}
	update := bson.M{"$setOnInsert": request}
	opts := options.Update().SetUpsert(true)
	result, err := r.coll.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return false, fmt.Errorf("failed to create rating request for job %s: %w", request.JobID, err)
	}
	return result.UpsertedCount > 0, nil
}

func (r *MongoRatingRequestRepo) ListByJob(ctx context.Context, jobID string) ([]models.RatingRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	cursor, err := r.coll.Find(ctx, bson.M{"jobId": jobID})
	if err != nil {
		return nil, fmt.Errorf("failed to list rating requests for job %s: %w", jobID, err)
	}
	defer cursor.Close(ctx)
	var requests []models.RatingRequest
	if err := cursor.All(ctx, &requests); err != nil {
		return nil, fmt.Errorf("error decoding rating requests: %w", err)
	}
	return requests, nil
}

func (r *MongoRatingRequestRepo) ListCompletedByContractor(ctx context.Context, contractorID string) ([]models.RatingRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	filter := bson.M{"contractorId": contractorID, "status": models.RequestCompleted}
	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list completed requests for contractor %s: %w", contractorID, err)
	}
	defer cursor.Close(ctx)
	var requests []models.RatingRequest
	if err := cursor.All(ctx, &requests); err != nil {
		return nil, fmt.Errorf("error decoding rating requests: %w", err)
	}
	return requests, nil
}

func (r *MongoRatingRequestRepo) MarkCompleted(ctx context.Context, token string, rating float64, completedAt time.Time) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	filter := bson.M{"token": token, "status": models.RequestPending}
	update := bson.M{"$set": bson.M{
		"status":      models.RequestCompleted,
		"rating":      rating,
		"completedAt": completedAt,
	}}
	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to complete rating request: %w", err)
	}
	return result.ModifiedCount > 0, nil
}

func (r *MongoRatingRequestRepo) MarkExpired(ctx context.Context, token string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	filter := bson.M{"token": token, "status": models.RequestPending}
	update := bson.M{"$set": bson.M{"status": models.RequestExpired}}
	if _, err := r.coll.UpdateOne(ctx, filter, update); err != nil {
		return fmt.Errorf("failed to expire rating request: %w", err)
	}
	return nil
}

func (r *MongoRatingRequestRepo) ExpireOverdue(ctx context.Context, now time.Time) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	filter := bson.M{
		"status":    models.RequestPending,
		"expiresAt": bson.M{"$lt": now},
	}
	update := bson.M{"$set": bson.M{"status": models.RequestExpired}}
	result, err := r.coll.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, fmt.Errorf("failed to expire overdue rating requests: %w", err)
	}
	return result.ModifiedCount, nil
}
