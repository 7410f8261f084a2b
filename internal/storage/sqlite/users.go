package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mmynk/bakery/internal/models"
	"github.com/mmynk/bakery/internal/storage"
)

const userColumns = `id, email, display_name, password_hash, role, email_verified, phone, address, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	user := &models.User{}
	var role string
	var verified int
	if err := row.Scan(
		&user.ID,
		&user.Email,
		&user.DisplayName,
		&user.PasswordHash,
		&role,
		&verified,
		&user.Phone,
		&user.Address,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, err
	}
	user.Role = models.Role(role)
	user.EmailVerified = verified != 0
	return user, nil
}

// CreateUser inserts a new user into the database.
func (s *SQLiteStore) CreateUser(ctx context.Context, user *models.User) error {
	if user.Role == "" {
		user.Role = models.RoleCustomer
	}
	query := `INSERT INTO users (` + userColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		user.ID,
		user.Email,
		user.DisplayName,
		user.PasswordHash,
		string(user.Role),
		boolToInt(user.EmailVerified),
		user.Phone,
		user.Address,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetUserByEmail retrieves a user by their email address.
func (s *SQLiteStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	user, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil // User not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return user, nil
}

// GetUserByID retrieves a user by their ID.
func (s *SQLiteStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	user, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil // User not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}
	return user, nil
}

// UpdateUser saves the user's profile fields.
func (s *SQLiteStore) UpdateUser(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now().Unix()
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET display_name = ?, phone = ?, address = ?, updated_at = ? WHERE id = ?`,
		user.DisplayName, user.Phone, user.Address, user.UpdatedAt, user.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return requireRow(res, "user", user.ID)
}

// ListUsers returns all users ordered by creation time.
func (s *SQLiteStore) ListUsers(ctx context.Context) ([]*models.User, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at, email`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}
	return users, nil
}

// SetUserRole changes a user's role.
func (s *SQLiteStore) SetUserRole(ctx context.Context, userID string, role models.Role) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET role = ?, updated_at = ? WHERE id = ?`,
		string(role), time.Now().Unix(), userID,
	)
	if err != nil {
		return fmt.Errorf("failed to set user role: %w", err)
	}
	return requireRow(res, "user", userID)
}

// CreateVerificationToken stores an email verification token.
func (s *SQLiteStore) CreateVerificationToken(ctx context.Context, token *models.VerificationToken) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO verification_tokens (token, user_id, expires_at) VALUES (?, ?, ?)`,
		token.Token, token.UserID, token.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create verification token: %w", err)
	}
	return nil
}

// GetVerificationToken looks up a verification token.
func (s *SQLiteStore) GetVerificationToken(ctx context.Context, token string) (*models.VerificationToken, error) {
	vt := &models.VerificationToken{}
	err := s.db.QueryRowContext(ctx,
		`SELECT token, user_id, expires_at FROM verification_tokens WHERE token = ?`, token,
	).Scan(&vt.Token, &vt.UserID, &vt.ExpiresAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get verification token: %w", err)
	}
	return vt, nil
}

// DeleteVerificationToken removes a token. Missing tokens are ignored.
func (s *SQLiteStore) DeleteVerificationToken(ctx context.Context, token string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM verification_tokens WHERE token = ?`, token); err != nil {
		return fmt.Errorf("failed to delete verification token: %w", err)
	}
	return nil
}

// SetEmailVerified marks the user's email verified.
func (s *SQLiteStore) SetEmailVerified(ctx context.Context, userID string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET email_verified = 1, updated_at = ? WHERE id = ?`,
		time.Now().Unix(), userID,
	)
	if err != nil {
		return fmt.Errorf("failed to set email verified: %w", err)
	}
	return requireRow(res, "user", userID)
}

// requireRow turns a zero-row update into storage.ErrNotFound.
func requireRow(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, storage.ErrNotFound)
	}
	return nil
}
