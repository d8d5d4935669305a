package mongo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/robertarktes/travel-reservations/internal/observability"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// AuditLogger appends booking events consumed off the broker to an
// append-only collection. Best effort: notification delivery carries no
// durability guarantee.
type AuditLogger struct {
	coll   *mongo.Collection
	logger observability.Logger
}

func NewAuditLogger(db *mongo.Database, logger observability.Logger) *AuditLogger {
	return &AuditLogger{
		coll:   db.Collection("audit_logs"),
		logger: logger,
	}
}

type AuditEntry struct {
	ID        uuid.UUID `bson:"_id"`
	Event     string    `bson:"event"`
	Timestamp time.Time `bson:"timestamp"`
	Payload   bson.M    `bson:"payload"`
}

func (a *AuditLogger) Record(ctx context.Context, event string, payload map[string]interface{}) error {
	entry := AuditEntry{
		ID:        uuid.New(),
		Event:     event,
		Timestamp: time.Now().UTC(),
		Payload:   bson.M(payload),
	}
	if _, err := a.coll.InsertOne(ctx, entry); err != nil {
		a.logger.Error("failed to insert audit entry", err)
		return err
	}
	return nil
}
