package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/ornithedex/server/internal/models"
)

// UserRepository implements UserRepo for PostgreSQL/SQLite
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user. Returns models.ErrUsernameTaken when the
// username is already registered.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `INSERT INTO users (id, username, password_hash, theme, is_admin, share_token, show_map, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Username, user.PasswordHash, user.Theme,
		user.IsAdmin, user.ShareToken, user.ShowMap, user.CreatedAt, user.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return models.ErrUsernameTaken
	}
	return err
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.getOne(ctx, `SELECT id, username, password_hash, theme, is_admin, share_token, show_map, created_at, updated_at
						  FROM users WHERE id = $1`, id)
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.getOne(ctx, `SELECT id, username, password_hash, theme, is_admin, share_token, show_map, created_at, updated_at
						  FROM users WHERE username = $1`, username)
}

func (r *UserRepository) GetByShareToken(ctx context.Context, token string) (*models.User, error) {
	return r.getOne(ctx, `SELECT id, username, password_hash, theme, is_admin, share_token, show_map, created_at, updated_at
						  FROM users WHERE share_token = $1`, token)
}

func (r *UserRepository) getOne(ctx context.Context, query string, arg interface{}) (*models.User, error) {
	var user models.User
	var shareToken sql.NullString
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID, &user.Username, &user.PasswordHash, &user.Theme,
		&user.IsAdmin, &shareToken, &user.ShowMap, &user.CreatedAt, &user.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if shareToken.Valid {
		user.ShareToken = &shareToken.String
	}
	return &user, nil
}

// UpdateTheme changes the display theme
func (r *UserRepository) UpdateTheme(ctx context.Context, id, theme string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET theme = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`, theme, id)
	return err
}

// SetShareToken sets the public share token
func (r *UserRepository) SetShareToken(ctx context.Context, id, token string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET share_token = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`, token, id)
	return err
}

// SetAdmin changes the admin flag
func (r *UserRepository) SetAdmin(ctx context.Context, id string, isAdmin bool) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET is_admin = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`, isAdmin, id)
	return err
}

// isUniqueViolation detects unique-constraint errors from either backend
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint") || strings.Contains(msg, "duplicate key")
}
