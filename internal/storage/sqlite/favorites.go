package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/mmynk/bakery/internal/models"
)

// AddFavorite bookmarks a cake for a user. Adding twice is a no-op.
func (s *SQLiteStore) AddFavorite(ctx context.Context, userID, cakeID string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO favorites (user_id, cake_id, created_at) VALUES (?, ?, ?)",
		userID, cakeID, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to add favorite: %w", err)
	}
	return nil
}

// RemoveFavorite removes a bookmark. Removing a missing favorite is a no-op.
func (s *SQLiteStore) RemoveFavorite(ctx context.Context, userID, cakeID string) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM favorites WHERE user_id = ? AND cake_id = ?",
		userID, cakeID,
	)
	if err != nil {
		return fmt.Errorf("failed to remove favorite: %w", err)
	}
	return nil
}

// ListFavorites returns a user's favorites, most recent first.
func (s *SQLiteStore) ListFavorites(ctx context.Context, userID string) ([]*models.Favorite, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT user_id, cake_id, created_at FROM favorites WHERE user_id = ? ORDER BY created_at DESC, cake_id",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	defer rows.Close()

	var favorites []*models.Favorite
	for rows.Next() {
		f := &models.Favorite{}
		if err := rows.Scan(&f.UserID, &f.CakeID, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan favorite: %w", err)
		}
		favorites = append(favorites, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate favorites: %w", err)
	}
	return favorites, nil
}
