package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/mgrist/texlien/internal/database"
	"github.com/mgrist/texlien/internal/models"
)

// UserRepository defines the interface for user account data access.
type UserRepository interface {
	// GetByID returns nil, nil when no user exists (not an error).
	GetByID(ctx context.Context, id int64) (*models.User, error)

	// GetByEmail returns nil, nil when no user exists. Lookup is
	// case-insensitive.
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// Create inserts a user and returns the assigned ID.
	Create(ctx context.Context, u *models.User) (int64, error)
}

type userRepository struct {
	db *database.Database
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *database.Database) UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, email, display_name, password_hash, active, created_at`

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Email, &u.DisplayName, &u.PasswordHash, &u.Active, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	u, err := scanUser(r.db.Pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query user %d: %w", id, err)
	}
	return u, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = LOWER($1)`

	u, err := scanUser(r.db.Pool.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query user by email: %w", err)
	}
	return u, nil
}

func (r *userRepository) Create(ctx context.Context, u *models.User) (int64, error) {
	query := `
		INSERT INTO users (email, display_name, password_hash, active)
		VALUES ($1,$2,$3,$4)
		RETURNING id`

	var id int64
	err := r.db.Pool.QueryRow(ctx, query, u.Email, u.DisplayName, u.PasswordHash, u.Active).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert user: %w", err)
	}
	return id, nil
}
