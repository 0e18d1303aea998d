// internal/repository/user_repository.go
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/stockrit/stockrit/internal/model"
)

// UserRepository handles database operations for accounts.
type UserRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewUserRepository creates a new user repository.
func NewUserRepository(db *sqlx.DB, logger *zap.Logger) *UserRepository {
	return &UserRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new account and returns its id. Usernames and emails
// are unique; the service checks both before calling, the constraints
// are the backstop.
func (r *UserRepository) Create(ctx context.Context, user *model.UserCreate, passwordHash string) (int64, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		r.logger.Error("failed to begin transaction", zap.Error(err))
		return 0, err
	}
	defer tx.Rollback()

	insert := tx.Rebind(`INSERT INTO users (username, email, password_hash) VALUES (?, ?, ?)`)
	if _, err := tx.ExecContext(ctx, insert, user.Username, user.Email, passwordHash); err != nil {
		r.logger.Error("failed to create user", zap.Error(err), zap.String("username", user.Username))
		return 0, err
	}

	var id int64
	query := tx.Rebind(`SELECT id FROM users WHERE username = ?`)
	if err := tx.GetContext(ctx, &id, query, user.Username); err != nil {
		r.logger.Error("failed to read back user id", zap.Error(err), zap.String("username", user.Username))
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// GetByID retrieves an account by id. Returns (nil, nil) when no row
// matches.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	query := r.db.Rebind(`SELECT id, username, email, password_hash, created_at FROM users WHERE id = ?`)

	var user model.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("failed to get user by ID", zap.Error(err), zap.Int64("id", id))
		return nil, err
	}

	return &user, nil
}

// GetByUsername retrieves an account by username. Returns (nil, nil)
// when no row matches.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	query := r.db.Rebind(`SELECT id, username, email, password_hash, created_at FROM users WHERE username = ?`)

	var user model.User
	if err := r.db.GetContext(ctx, &user, query, username); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("failed to get user by username", zap.Error(err), zap.String("username", username))
		return nil, err
	}

	return &user, nil
}

// GetByEmail retrieves an account by email. Returns (nil, nil) when no
// row matches.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	query := r.db.Rebind(`SELECT id, username, email, password_hash, created_at FROM users WHERE email = ?`)

	var user model.User
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("failed to get user by email", zap.Error(err), zap.String("email", email))
		return nil, err
	}

	return &user, nil
}
