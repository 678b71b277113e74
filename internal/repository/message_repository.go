package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/ppopeskul/sms-relay/internal/models"
	"github.com/ppopeskul/sms-relay/internal/phone"
)

// postgresMessageRepository persists messages in a single table keyed by
// message id, with secondary indexes on both parties and the timestamp.
type postgresMessageRepository struct {
	db *sqlx.DB
}

func newPostgresMessageRepository(db *sqlx.DB) *postgresMessageRepository {
	return &postgresMessageRepository{db: db}
}

// Put inserts or replaces the record with a matching id. The single-statement
// upsert is what makes concurrent writes safe without extra locking.
func (r *postgresMessageRepository) Put(ctx context.Context, msg *models.Message) error {
	query := `
		INSERT INTO messages (id, from_number, to_number, body, direction, at, media_urls)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE
		SET from_number = EXCLUDED.from_number,
		    to_number   = EXCLUDED.to_number,
		    body        = EXCLUDED.body,
		    direction   = EXCLUDED.direction,
		    at          = EXCLUDED.at,
		    media_urls  = EXCLUDED.media_urls
	`

	_, err := r.db.ExecContext(ctx, query,
		msg.ID, msg.From, msg.To, msg.Body, msg.Direction, msg.At, msg.MediaURLs)
	return storageErr("put", err)
}

// ScanAll returns records newest first; limit<=0 returns everything.
func (r *postgresMessageRepository) ScanAll(ctx context.Context, limit int) ([]*models.Message, error) {
	query := `
		SELECT id, from_number, to_number, body, direction, at, media_urls, seq
		FROM messages
		ORDER BY at DESC, seq DESC
	`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	var messages []*models.Message
	if err := r.db.SelectContext(ctx, &messages, query, args...); err != nil {
		return nil, storageErr("scan all", err)
	}
	return messages, nil
}

// ScanByParty returns every record where the phone is sender or recipient,
// oldest first with insertion-order tie-break.
func (r *postgresMessageRepository) ScanByParty(ctx context.Context, p string) ([]*models.Message, error) {
	query := `
		SELECT id, from_number, to_number, body, direction, at, media_urls, seq
		FROM messages
		WHERE from_number = $1 OR to_number = $1
		ORDER BY at ASC, seq ASC
	`

	var messages []*models.Message
	if err := r.db.SelectContext(ctx, &messages, query, phone.Normalize(p)); err != nil {
		return nil, storageErr("scan by party", err)
	}
	return messages, nil
}

// Prune deletes all but the newest keep records, oldest first.
func (r *postgresMessageRepository) Prune(ctx context.Context, keep int) (int, error) {
	if keep <= 0 {
		return 0, nil
	}

	query := `
		DELETE FROM messages
		WHERE id IN (
			SELECT id FROM messages
			ORDER BY at DESC, seq DESC
			OFFSET $1
		)
	`

	res, err := r.db.ExecContext(ctx, query, keep)
	if err != nil {
		return 0, storageErr("prune", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, storageErr("prune", err)
	}
	return int(affected), nil
}
