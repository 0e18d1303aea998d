// internal/repository/favorite_repository.go
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/stockrit/stockrit/internal/model"
)

// FavoriteRepository handles database operations for the favorites
// board.
type FavoriteRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewFavoriteRepository creates a new favorite repository.
func NewFavoriteRepository(db *sqlx.DB, logger *zap.Logger) *FavoriteRepository {
	return &FavoriteRepository{
		db:     db,
		logger: logger,
	}
}

// Add bookmarks a stock for a user, creating the stock row the first
// time any user favorites that symbol. Returns model.ErrAlreadyFavorited
// when the pair already exists.
func (r *FavoriteRepository) Add(ctx context.Context, userID int64, symbol string, name *string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		r.logger.Error("failed to begin transaction", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	stockID, err := r.stockID(ctx, tx, symbol, name)
	if err != nil {
		r.logger.Error("failed to resolve stock", zap.Error(err), zap.String("symbol", symbol))
		return err
	}

	insert := tx.Rebind(`INSERT INTO favorites (user_id, stock_id) VALUES (?, ?) ON CONFLICT (user_id, stock_id) DO NOTHING`)
	res, err := tx.ExecContext(ctx, insert, userID, stockID)
	if err != nil {
		r.logger.Error("failed to add favorite", zap.Error(err), zap.Int64("user_id", userID), zap.String("symbol", symbol))
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return model.ErrAlreadyFavorited
	}

	return tx.Commit()
}

// Remove deletes a bookmark. Returns model.ErrNotFavorited when the
// user never favorited the symbol.
func (r *FavoriteRepository) Remove(ctx context.Context, userID int64, symbol string) error {
	query := r.db.Rebind(`DELETE FROM favorites WHERE user_id = ? AND stock_id = (SELECT id FROM stocks WHERE symbol = ?)`)

	res, err := r.db.ExecContext(ctx, query, userID, symbol)
	if err != nil {
		r.logger.Error("failed to remove favorite", zap.Error(err), zap.Int64("user_id", userID), zap.String("symbol", symbol))
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return model.ErrNotFavorited
	}

	return nil
}

// List returns a user's favorites in the order they were added.
func (r *FavoriteRepository) List(ctx context.Context, userID int64) ([]model.Stock, error) {
	query := r.db.Rebind(`
		SELECT s.id, s.symbol, s.name
		FROM favorites f
		JOIN stocks s ON s.id = f.stock_id
		WHERE f.user_id = ?
		ORDER BY f.id`)

	stocks := []model.Stock{}
	if err := r.db.SelectContext(ctx, &stocks, query, userID); err != nil {
		r.logger.Error("failed to list favorites", zap.Error(err), zap.Int64("user_id", userID))
		return nil, err
	}

	return stocks, nil
}

// stockID finds the stock row for a symbol, inserting it when missing.
// An existing row keeps its name.
func (r *FavoriteRepository) stockID(ctx context.Context, tx *sqlx.Tx, symbol string, name *string) (int64, error) {
	var id int64
	query := tx.Rebind(`SELECT id FROM stocks WHERE symbol = ?`)

	err := tx.GetContext(ctx, &id, query, symbol)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}

	insert := tx.Rebind(`INSERT INTO stocks (symbol, name) VALUES (?, ?)`)
	if _, err := tx.ExecContext(ctx, insert, symbol, name); err != nil {
		return 0, err
	}
	if err := tx.GetContext(ctx, &id, query, symbol); err != nil {
		return 0, err
	}
	return id, nil
}
