package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/bakery/internal/models"
	"github.com/mmynk/bakery/internal/storage"
)

const cakeColumns = `id, name, description, category, image_url, customizable, available, featured, created_at, updated_at`

func scanCake(row rowScanner) (*models.Cake, error) {
	cake := &models.Cake{}
	var customizable, available, featured int
	if err := row.Scan(
		&cake.ID, &cake.Name, &cake.Description, &cake.Category, &cake.ImageURL,
		&customizable, &available, &featured, &cake.CreatedAt, &cake.UpdatedAt,
	); err != nil {
		return nil, err
	}
	cake.Customizable = customizable != 0
	cake.Available = available != 0
	cake.Featured = featured != 0
	return cake, nil
}

// CreateCake persists a new cake with its sizes.
func (s *SQLiteStore) CreateCake(ctx context.Context, cake *models.Cake) error {
	if cake.ID == "" {
		cake.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if cake.CreatedAt == 0 {
		cake.CreatedAt = now
	}
	cake.UpdatedAt = now

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO cakes (`+cakeColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		cake.ID, cake.Name, cake.Description, cake.Category, cake.ImageURL,
		boolToInt(cake.Customizable), boolToInt(cake.Available), boolToInt(cake.Featured),
		cake.CreatedAt, cake.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert cake: %w", err)
	}

	if err := insertSizes(ctx, tx, cake); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func insertSizes(ctx context.Context, tx *sql.Tx, cake *models.Cake) error {
	for i, size := range cake.Sizes {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO cake_sizes (cake_id, position, label, servings, price) VALUES (?, ?, ?, ?, ?)",
			cake.ID, i, size.Label, size.Servings, size.Price,
		)
		if err != nil {
			return fmt.Errorf("failed to insert cake size: %w", err)
		}
	}
	return nil
}

// GetCake retrieves a cake by ID, including its sizes.
func (s *SQLiteStore) GetCake(ctx context.Context, cakeID string) (*models.Cake, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+cakeColumns+` FROM cakes WHERE id = ?`, cakeID)
	cake, err := scanCake(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("cake %s: %w", cakeID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cake: %w", err)
	}

	if err := s.loadSizes(ctx, []*models.Cake{cake}); err != nil {
		return nil, err
	}
	return cake, nil
}

// UpdateCake replaces a cake's fields and sizes.
func (s *SQLiteStore) UpdateCake(ctx context.Context, cake *models.Cake) error {
	cake.UpdatedAt = time.Now().Unix()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE cakes SET name = ?, description = ?, category = ?, image_url = ?,
		 customizable = ?, available = ?, featured = ?, updated_at = ? WHERE id = ?`,
		cake.Name, cake.Description, cake.Category, cake.ImageURL,
		boolToInt(cake.Customizable), boolToInt(cake.Available), boolToInt(cake.Featured),
		cake.UpdatedAt, cake.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update cake: %w", err)
	}
	if err := requireRow(res, "cake", cake.ID); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM cake_sizes WHERE cake_id = ?", cake.ID); err != nil {
		return fmt.Errorf("failed to delete cake sizes: %w", err)
	}
	if err := insertSizes(ctx, tx, cake); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// DeleteCake removes a cake. Past orders keep their item snapshots.
func (s *SQLiteStore) DeleteCake(ctx context.Context, cakeID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM cakes WHERE id = ?", cakeID)
	if err != nil {
		return fmt.Errorf("failed to delete cake: %w", err)
	}
	return requireRow(res, "cake", cakeID)
}

// ListCakes returns cakes matching filter, featured first then by name.
func (s *SQLiteStore) ListCakes(ctx context.Context, filter storage.CakeFilter) ([]*models.Cake, error) {
	query := `SELECT ` + cakeColumns + ` FROM cakes WHERE 1 = 1`
	var args []any
	if filter.Category != "" {
		query += " AND category = ?"
		args = append(args, filter.Category)
	}
	if filter.FeaturedOnly {
		query += " AND featured = 1"
	}
	if filter.AvailableOnly {
		query += " AND available = 1"
	}
	query += " ORDER BY featured DESC, name"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list cakes: %w", err)
	}

	var cakes []*models.Cake
	for rows.Next() {
		cake, err := scanCake(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan cake: %w", err)
		}
		cakes = append(cakes, cake)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate cakes: %w", err)
	}

	if err := s.loadSizes(ctx, cakes); err != nil {
		return nil, err
	}
	return cakes, nil
}

// loadSizes fills Sizes for every cake with one query.
func (s *SQLiteStore) loadSizes(ctx context.Context, cakes []*models.Cake) error {
	if len(cakes) == 0 {
		return nil
	}
	byID := make(map[string]*models.Cake, len(cakes))
	args := make([]any, len(cakes))
	for i, cake := range cakes {
		byID[cake.ID] = cake
		args[i] = cake.ID
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT cake_id, label, servings, price FROM cake_sizes
		 WHERE cake_id IN (`+placeholders(len(cakes))+`) ORDER BY cake_id, position`,
		args...,
	)
	if err != nil {
		return fmt.Errorf("failed to get cake sizes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var cakeID string
		var size models.Size
		if err := rows.Scan(&cakeID, &size.Label, &size.Servings, &size.Price); err != nil {
			return fmt.Errorf("failed to scan cake size: %w", err)
		}
		if cake, ok := byID[cakeID]; ok {
			cake.Sizes = append(cake.Sizes, size)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate cake sizes: %w", err)
	}
	return nil
}
