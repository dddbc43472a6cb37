package auditlogRepo

import (
	"context"
	"fmt"
	"time"

	"chronoboard/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoAuditLogRepo struct {
	coll *mongo.Collection
}

// NewMongoAuditLogRepo returns an AuditLogRepository backed by the admin_logs collection.
func NewMongoAuditLogRepo(db *mongo.Database) AuditLogRepository {
	repo := &mongoAuditLogRepo{coll: db.Collection("admin_logs")}
	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

func newContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, timeout)
}

func (r *mongoAuditLogRepo) ensureIndexes() error {
	ctx, cancel := newContext(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "schoolId", Value: 1}, {Key: "timestamp", Value: -1}}},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

func (r *mongoAuditLogRepo) Create(ctx context.Context, entry models.AuditLog) error {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	if _, err := r.coll.InsertOne(ctx, entry); err != nil {
		return fmt.Errorf("failed to insert audit log: %w", err)
	}
	return nil
}

func (r *mongoAuditLogRepo) ListBySchool(ctx context.Context, schoolID string, limit int) ([]models.AuditLog, error) {
	ctx, cancel := newContext(ctx, 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cursor, err := r.coll.Find(ctx, bson.M{"schoolId": schoolID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit logs for %s: %w", schoolID, err)
	}
	defer cursor.Close(ctx)

	logs := []models.AuditLog{}
	if err := cursor.All(ctx, &logs); err != nil {
		return nil, fmt.Errorf("failed to decode audit logs: %w", err)
	}
	return logs, nil
}

func (r *mongoAuditLogRepo) DeleteBySchool(ctx context.Context, schoolID string) (int64, error) {
	ctx, cancel := newContext(ctx, 10*time.Second)
	defer cancel()

	res, err := r.coll.DeleteMany(ctx, bson.M{"schoolId": schoolID})
	if err != nil {
		return 0, fmt.Errorf("failed to delete audit logs for %s: %w", schoolID, err)
	}
	return res.DeletedCount, nil
}
