package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mmynk/bakery/internal/models"
)

// GetCart retrieves a user's cart document.
func (s *SQLiteStore) GetCart(ctx context.Context, userID string) (*models.CartDocument, error) {
	var data string
	doc := &models.CartDocument{UserID: userID}
	err := s.db.QueryRowContext(ctx,
		"SELECT data, synced_at FROM carts WHERE user_id = ?", userID,
	).Scan(&data, &doc.SyncedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	if err := json.Unmarshal([]byte(data), &doc.Cart); err != nil {
		return nil, fmt.Errorf("failed to decode cart: %w", err)
	}
	return doc, nil
}

// SaveCart upserts a user's cart document. SyncedAt is the current time in
// milliseconds, bumped past the previous value if the clock has not moved.
func (s *SQLiteStore) SaveCart(ctx context.Context, doc *models.CartDocument) error {
	data, err := json.Marshal(doc.Cart)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var previous int64
	err = tx.QueryRowContext(ctx, "SELECT synced_at FROM carts WHERE user_id = ?", doc.UserID).Scan(&previous)
	if err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("failed to read cart sync time: %w", err)
	}

	syncedAt := time.Now().UnixMilli()
	if syncedAt <= previous {
		syncedAt = previous + 1
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO carts (user_id, data, synced_at) VALUES (?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET data = excluded.data, synced_at = excluded.synced_at`,
		doc.UserID, string(data), syncedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	doc.SyncedAt = syncedAt
	return nil
}

// DeleteCart removes a user's cart document. Missing carts are ignored.
func (s *SQLiteStore) DeleteCart(ctx context.Context, userID string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM carts WHERE user_id = ?", userID); err != nil {
		return fmt.Errorf("failed to delete cart: %w", err)
	}
	return nil
}
