// internal/service/favorite_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/stockrit/stockrit/internal/config"
	"github.com/stockrit/stockrit/internal/events"
	"github.com/stockrit/stockrit/internal/metrics"
	"github.com/stockrit/stockrit/internal/model"
	"github.com/stockrit/stockrit/internal/repository"
)

// FavoriteService manages a user's bookmarked tickers.
type FavoriteService struct {
	favoriteRepo *repository.FavoriteRepository
	producer     *events.Producer
	metrics      *metrics.Metrics
	cfg          *config.Config
	logger       *zap.Logger
}

// NewFavoriteService creates a new favorite service.
func NewFavoriteService(favoriteRepo *repository.FavoriteRepository, producer *events.Producer, m *metrics.Metrics, cfg *config.Config, logger *zap.Logger) *FavoriteService {
	return &FavoriteService{
		favoriteRepo: favoriteRepo,
		producer:     producer,
		metrics:      m,
		cfg:          cfg,
		logger:       logger,
	}
}

// Add bookmarks a ticker for the user.
func (s *FavoriteService) Add(ctx context.Context, userID int64, req *model.FavoriteCreate) error {
	symbol := model.NormalizeSymbol(req.Symbol)

	var name *string
	if req.Name != "" {
		name = &req.Name
	}

	if err := s.favoriteRepo.Add(ctx, userID, symbol, name); err != nil {
		if errors.Is(err, model.ErrAlreadyFavorited) {
			return err
		}
		return fmt.Errorf("%w: add favorite: %v", model.ErrPersistenceFailure, err)
	}

	s.metrics.ObserveFavoriteMutation("add")
	s.publish(events.TypeFavoriteAdded, userID, symbol)
	return nil
}

// Remove deletes a bookmark.
func (s *FavoriteService) Remove(ctx context.Context, userID int64, symbol string) error {
	symbol = model.NormalizeSymbol(symbol)

	if err := s.favoriteRepo.Remove(ctx, userID, symbol); err != nil {
		if errors.Is(err, model.ErrNotFavorited) {
			return err
		}
		return fmt.Errorf("%w: remove favorite: %v", model.ErrPersistenceFailure, err)
	}

	s.metrics.ObserveFavoriteMutation("remove")
	s.publish(events.TypeFavoriteRemoved, userID, symbol)
	return nil
}

// List returns the user's favorites in the order they were added.
func (s *FavoriteService) List(ctx context.Context, userID int64) ([]model.Stock, error) {
	stocks, err := s.favoriteRepo.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: list favorites: %v", model.ErrPersistenceFailure, err)
	}
	return stocks, nil
}

// publishTimeout bounds the detached event publishes.
const publishTimeout = 5 * time.Second

// publish emits a favorite lifecycle event without holding up the
// request. The request context dies once the response is written, so
// the publish runs on its own deadline.
func (s *FavoriteService) publish(eventType string, userID int64, symbol string) {
	evt := events.FavoriteEvent{
		Type:   eventType,
		UserID: userID,
		Symbol: symbol,
		At:     time.Now().UTC(),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()
		if err := s.producer.Publish(ctx, s.cfg.Kafka.Topics["favorites"], symbol, evt); err != nil {
			s.logger.Warn("failed to publish favorite event",
				zap.String("type", eventType),
				zap.String("symbol", symbol),
				zap.Error(err))
		}
	}()
}
