package repository

import (
	"context"

	"github.com/ppopeskul/sms-relay/internal/models"
)

// Repository interface defines all repository operations.
type Repository interface {
	// Ping checks backend connectivity
	Ping(ctx context.Context) error

	// Messages returns the message store
	Messages() MessageRepository

	// Mode reports the active backend ("memory" or "postgres")
	Mode() string

	// Location reports where records live (DSN host or "process memory")
	Location() string

	Close() error
}

// MessageRepository interface defines message store operations. Put is an
// idempotent upsert keyed by message id; scans never observe a torn record.
type MessageRepository interface {
	Put(ctx context.Context, msg *models.Message) error
	ScanAll(ctx context.Context, limit int) ([]*models.Message, error)
	ScanByParty(ctx context.Context, phone string) ([]*models.Message, error)
	Prune(ctx context.Context, keep int) (int, error)
}
