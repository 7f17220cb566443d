package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"taskdeck/internal/api/models"
)

var (
	// ErrUsernameTaken is returned when a signup loses the uniqueness race.
	ErrUsernameTaken = errors.New("user exists")
	// ErrNotFound is returned for missing rows. For tasks it is also
	// returned when the row exists but belongs to someone else; callers
	// cannot tell the two apart.
	ErrNotFound = errors.New("not found")
)

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	Create(ctx context.Context, username, passwordHash string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

type sqliteUserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new sqlite-based UserRepository.
func NewUserRepository(db *sqlx.DB) UserRepository {
	return &sqliteUserRepository{db: db}
}

// Create inserts a new user. The UNIQUE constraint on username is the
// atomicity guarantee: of two concurrent signups for the same name,
// exactly one insert succeeds and the other observes ErrUsernameTaken.
func (r *sqliteUserRepository) Create(ctx context.Context, username, passwordHash string) (*models.User, error) {
	query := `INSERT INTO users (username, password_hash) VALUES (?, ?)`
	res, err := r.db.ExecContext(ctx, query, username, passwordHash)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read inserted user id: %w", err)
	}

	return &models.User{ID: id, Username: username, PasswordHash: passwordHash}, nil
}

// GetByUsername retrieves a user by username.
func (r *sqliteUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	query := `SELECT id, username, password_hash FROM users WHERE username = ?`
	err := r.db.GetContext(ctx, &user, query, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}
	return &user, nil
}
