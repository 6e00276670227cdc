// internal/interface/repository/email_repo.go
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tabelog-sync-service/internal/domain/entity"
	"tabelog-sync-service/internal/domain/repository"
	"tabelog-sync-service/pkg/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// staleProcessingAfter is how long a PROCESSING document may sit before it is reset
const staleProcessingAfter = 5 * time.Minute

// MongoEmailRepository implements the EmailRepository interface
type MongoEmailRepository struct {
	collection *mongo.Collection
	logger     logger.Logger
}

// NewMongoEmailRepository creates a new MongoDB email repository
func NewMongoEmailRepository(ctx context.Context, db *mongo.Database, logger logger.Logger) repository.EmailRepository {
	collection := db.Collection("emailLogs")

	emailIDIndex := mongo.IndexModel{
		Keys:    bson.M{"emailId": 1},
		Options: options.Index().SetUnique(true),
	}

	// Index on processStatus for finding emails by status
	processStatusIndex := mongo.IndexModel{
		Keys: bson.M{"processStatus": 1},
	}

	// Booking id lookups from the extracted reservation
	bookingIndex := mongo.IndexModel{
		Keys: bson.M{"extractedData.bookingId": 1},
	}

	if _, err := collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		emailIDIndex,
		processStatusIndex,
		bookingIndex,
	}); err != nil {
		logger.Warn("Failed to create emailLogs indexes", "error", err)
	}

	return &MongoEmailRepository{
		collection: collection,
		logger:     logger,
	}
}

// Save records a routed message. A message seen again on a later poll keeps
// its document and gets its attempt counter bumped.
func (r *MongoEmailRepository) Save(ctx context.Context, email *entity.Email) error {
	filter := bson.M{"emailId": email.EmailID}
	update := bson.M{
		"$set": bson.M{
			"threadId":      email.ThreadID,
			"from":          email.From,
			"to":            email.To,
			"subject":       email.Subject,
			"body":          email.Body,
			"htmlBody":      email.HTMLBody,
			"receivedAt":    email.ReceivedAt,
			"labels":        email.Labels,
			"processStatus": entity.StatusPending,
		},
		"$inc": bson.M{"attempts": 1},
	}

	_, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to save email: %w", err)
	}
	return nil
}

// FindByEmailID finds an email by Gmail email ID
func (r *MongoEmailRepository) FindByEmailID(ctx context.Context, emailID string) (*entity.Email, error) {
	var email entity.Email
	err := r.collection.FindOne(ctx, bson.M{"emailId": emailID}).Decode(&email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &email, nil
}

// UpdateStatusByEmailID updates just the status and started time
func (r *MongoEmailRepository) UpdateStatusByEmailID(ctx context.Context, emailID string, status string, startedAt time.Time) error {
	set := bson.M{
		"processStatus": status,
	}

	// Only set processStartedAt when moving to PROCESSING
	if status == entity.StatusProcessing && !startedAt.IsZero() {
		set["processStartedAt"] = startedAt
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"emailId": emailID}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}

	if result.MatchedCount == 0 {
		return fmt.Errorf("no document found with emailID: %s", emailID)
	}

	return nil
}

// MarkAsProcessedByEmailID marks an email as processed with full details
func (r *MongoEmailRepository) MarkAsProcessedByEmailID(ctx context.Context, emailID, status, processorType, errorDetail string, extractedData map[string]interface{}) error {
	set := bson.M{
		"processedAt":   time.Now(),
		"processStatus": status,
		"processorType": processorType,
		"errorDetail":   errorDetail,
	}

	if len(extractedData) > 0 {
		set["extractedData"] = extractedData
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"emailId": emailID}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to mark as processed: %w", err)
	}

	if result.MatchedCount == 0 {
		return fmt.Errorf("no document found with emailID: %s", emailID)
	}

	return nil
}

// ResetProcessingEmails resets emails stuck in PROCESSING state back to PENDING
func (r *MongoEmailRepository) ResetProcessingEmails(ctx context.Context) error {
	staleTime := time.Now().Add(-staleProcessingAfter)

	filter := bson.M{
		"processStatus": entity.StatusProcessing,
		"$or": []bson.M{
			{"processStartedAt": bson.M{"$lt": staleTime}},
			{"processStartedAt": bson.M{"$exists": false}},
		},
	}

	update := bson.M{
		"$set": bson.M{
			"processStatus": entity.StatusPending,
			"errorDetail":   "Reset from stale PROCESSING state",
		},
	}

	result, err := r.collection.UpdateMany(ctx, filter, update)
	if err != nil {
		return err
	}

	if result.ModifiedCount > 0 {
		r.logger.Info("Reset stale processing emails", "count", result.ModifiedCount)
	}

	return nil
}
