package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ppopeskul/sms-relay/internal/config"
)

// postgresRepository is the disk-backed Repository.
type postgresRepository struct {
	db       *sqlx.DB
	messages MessageRepository
	location string
}

// NewPostgresRepository wraps an open database handle.
func NewPostgresRepository(db *sqlx.DB, cfg *config.DatabaseConfig) Repository {
	return &postgresRepository{
		db:       db,
		messages: newPostgresMessageRepository(db),
		location: cfg.Host,
	}
}

func (r *postgresRepository) Messages() MessageRepository {
	return r.messages
}

func (r *postgresRepository) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	return r.db.PingContext(ctx)
}

func (r *postgresRepository) Mode() string { return config.StorageModePostgres }

func (r *postgresRepository) Location() string { return r.location }

func (r *postgresRepository) Close() error { return r.db.Close() }

// memoryRepository is the bounded in-process Repository.
type memoryRepository struct {
	messages MessageRepository
}

// NewMemoryRepository builds a store bounded to capacity records.
func NewMemoryRepository(capacity int) Repository {
	return &memoryRepository{
		messages: newMemoryMessageRepository(capacity),
	}
}

func (r *memoryRepository) Messages() MessageRepository { return r.messages }

func (r *memoryRepository) Ping(context.Context) error { return nil }

func (r *memoryRepository) Mode() string { return config.StorageModeMemory }

func (r *memoryRepository) Location() string { return "process memory" }

func (r *memoryRepository) Close() error { return nil }
