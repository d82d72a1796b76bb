package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ScheduledReminder records a reminder that was registered with the
// notification service for one batch.
type ScheduledReminder struct {
	BatchID   string    `bson:"batch_id"`
	BatchName string    `bson:"batch_name"`
	Handle    string    `bson:"handle"`
	TriggerAt time.Time `bson:"trigger_at"`
	CreatedAt time.Time `bson:"created_at"`
}

// ReminderLedger defines the persistence operations for the scheduled-reminder set.
type ReminderLedger interface {
	SaveScheduledReminder(ctx context.Context, rec ScheduledReminder) error
	LoadScheduledReminders(ctx context.Context) ([]ScheduledReminder, error)
}

// MongoReminderLedger implements the ReminderLedger interface for MongoDB.
type MongoReminderLedger struct {
	client   *mongo.Client
	dbName   string
	collName string
}

// NewMongoReminderLedger creates a new MongoDB-backed reminder ledger.
func NewMongoReminderLedger(ctx context.Context, uri string, dbName string) (*MongoReminderLedger, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &MongoReminderLedger{
		client:   client,
		dbName:   dbName,
		collName: "scheduled_reminders",
	}, nil
}

// SaveScheduledReminder upserts the ledger entry for a batch id, so a retried
// schedule never produces two entries.
func (r *MongoReminderLedger) SaveScheduledReminder(ctx context.Context, rec ScheduledReminder) error {
	collection := r.client.Database(r.dbName).Collection(r.collName)
	filter := bson.M{"batch_id": rec.BatchID}
	update := bson.M{"$set": rec}
	opts := options.Update().SetUpsert(true)

	if _, err := collection.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("failed to upsert scheduled reminder: %w", err)
	}
	return nil
}

// LoadScheduledReminders returns every ledger entry, used to warm the
// scheduler's dedupe set at startup.
func (r *MongoReminderLedger) LoadScheduledReminders(ctx context.Context) ([]ScheduledReminder, error) {
	collection := r.client.Database(r.dbName).Collection(r.collName)

	cursor, err := collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to load scheduled reminders: %w", err)
	}
	defer cursor.Close(ctx)

	var records []ScheduledReminder
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode scheduled reminders: %w", err)
	}
	return records, nil
}

// Close closes the MongoDB connection.
func (r *MongoReminderLedger) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
