package repository

import (
	"context"
	"errors"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/stockrit/stockrit/internal/model"
)

func strptr(s string) *string { return &s }

func TestFavoriteRepository_AddListRemove(t *testing.T) {
	db := testDB(t)
	repo := NewFavoriteRepository(db, zap.NewNop())
	ctx := context.Background()
	userID := seedUser(t, db, "alice", "alice@example.com")

	if err := repo.Add(ctx, userID, "AAPL", strptr("Apple Inc.")); err != nil {
		t.Fatalf("add AAPL: %v", err)
	}
	if err := repo.Add(ctx, userID, "MSFT", nil); err != nil {
		t.Fatalf("add MSFT: %v", err)
	}

	stocks, err := repo.List(ctx, userID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(stocks) != 2 {
		t.Fatalf("list: got %d stocks, want 2", len(stocks))
	}
	if stocks[0].Symbol != "AAPL" || stocks[1].Symbol != "MSFT" {
		t.Errorf("order: got %s, %s", stocks[0].Symbol, stocks[1].Symbol)
	}
	if stocks[0].Name == nil || *stocks[0].Name != "Apple Inc." {
		t.Errorf("AAPL name: got %v", stocks[0].Name)
	}
	if stocks[1].Name != nil {
		t.Errorf("MSFT name: got %v, want nil", *stocks[1].Name)
	}

	if err := repo.Add(ctx, userID, "AAPL", nil); !errors.Is(err, model.ErrAlreadyFavorited) {
		t.Errorf("re-add: got %v, want ErrAlreadyFavorited", err)
	}

	if err := repo.Remove(ctx, userID, "AAPL"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	stocks, err = repo.List(ctx, userID)
	if err != nil {
		t.Fatalf("list after remove: %v", err)
	}
	if len(stocks) != 1 || stocks[0].Symbol != "MSFT" {
		t.Errorf("after remove: got %+v", stocks)
	}

	if err := repo.Remove(ctx, userID, "AAPL"); !errors.Is(err, model.ErrNotFavorited) {
		t.Errorf("re-remove: got %v, want ErrNotFavorited", err)
	}
	if err := repo.Remove(ctx, userID, "NEVER"); !errors.Is(err, model.ErrNotFavorited) {
		t.Errorf("remove unknown: got %v, want ErrNotFavorited", err)
	}
}

func TestFavoriteRepository_EmptyListIsEmptySlice(t *testing.T) {
	db := testDB(t)
	repo := NewFavoriteRepository(db, zap.NewNop())
	userID := seedUser(t, db, "alice", "alice@example.com")

	stocks, err := repo.List(context.Background(), userID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if stocks == nil || len(stocks) != 0 {
		t.Errorf("got %#v, want empty slice", stocks)
	}
}

func TestFavoriteRepository_StockRowIsShared(t *testing.T) {
	db := testDB(t)
	repo := NewFavoriteRepository(db, zap.NewNop())
	ctx := context.Background()
	alice := seedUser(t, db, "alice", "alice@example.com")
	bob := seedUser(t, db, "bob", "bob@example.com")

	if err := repo.Add(ctx, alice, "AAPL", strptr("Apple Inc.")); err != nil {
		t.Fatalf("alice add: %v", err)
	}
	// Same symbol, different reported name: the first insert wins.
	if err := repo.Add(ctx, bob, "AAPL", strptr("Apple Computer")); err != nil {
		t.Fatalf("bob add: %v", err)
	}

	var count int
	if err := db.Get(&count, `SELECT COUNT(*) FROM stocks WHERE symbol = 'AAPL'`); err != nil {
		t.Fatalf("count stocks: %v", err)
	}
	if count != 1 {
		t.Errorf("stock rows: got %d, want 1", count)
	}

	stocks, err := repo.List(ctx, bob)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(stocks) != 1 || stocks[0].Name == nil || *stocks[0].Name != "Apple Inc." {
		t.Errorf("bob's view: got %+v", stocks)
	}

	// Removing one user's bookmark leaves the other's intact.
	if err := repo.Remove(ctx, alice, "AAPL"); err != nil {
		t.Fatalf("alice remove: %v", err)
	}
	stocks, err = repo.List(ctx, bob)
	if err != nil || len(stocks) != 1 {
		t.Errorf("bob after alice removes: stocks %+v, err %v", stocks, err)
	}
}

func TestFavoriteRepository_ConcurrentAddOneWins(t *testing.T) {
	db := testDB(t)
	repo := NewFavoriteRepository(db, zap.NewNop())
	ctx := context.Background()
	userID := seedUser(t, db, "alice", "alice@example.com")

	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = repo.Add(ctx, userID, "TSLA", nil)
		}(i)
	}
	wg.Wait()

	var dups int
	for _, err := range errs {
		switch {
		case err == nil:
		case errors.Is(err, model.ErrAlreadyFavorited):
			dups++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if dups > 1 {
		t.Errorf("both adds reported duplicates")
	}

	stocks, err := repo.List(ctx, userID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(stocks) != 1 {
		t.Errorf("favorites: got %d, want 1", len(stocks))
	}
}
