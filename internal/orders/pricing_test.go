package orders

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/supplyhub-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/supplyhub-backend/pkg/errors"
)

func TestLiveTotalSkipsDetachedItems(t *testing.T) {
	items := []models.OrderItem{
		{Quantity: 2, Price: 1, ProductInfo: &models.ProductInfo{Price: 1000}},
		{Quantity: 1, Price: 900},
		{Quantity: 3, Price: 1, ProductInfo: &models.ProductInfo{Price: 50}},
	}
	if got := liveTotal(items); got != 2150 {
		t.Fatalf("expected 2150, got %d", got)
	}
	if got := snapshotTotal(items); got != 2+900+3 {
		t.Fatalf("expected 905, got %d", got)
	}
	if got := liveTotal(nil); got != 0 {
		t.Fatalf("expected 0 for no items, got %d", got)
	}
}

// racingRepo answers the first FindBasket as missing, as if another request inserted concurrently.
type racingRepo struct {
	Repository
	winner  *models.Order
	finds   int
	creates int
	findErr error
}

func (r *racingRepo) FindBasket(context.Context, uuid.UUID) (*models.Order, error) {
	r.finds++
	if r.findErr != nil {
		return nil, r.findErr
	}
	if r.finds == 1 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.winner, nil
}

func (r *racingRepo) CreateBasket(context.Context, *models.Order) error {
	r.creates++
	return nil
}

func TestGetOrCreateBasketReadsWinnerAfterLostRace(t *testing.T) {
	winner := &models.Order{ID: uuid.New()}
	repo := &racingRepo{winner: winner}

	got, err := getOrCreateBasket(context.Background(), repo, uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != winner.ID {
		t.Fatalf("expected winner basket %s, got %s", winner.ID, got.ID)
	}
	if repo.creates != 1 || repo.finds != 2 {
		t.Fatalf("expected 1 create and 2 finds, got %d and %d", repo.creates, repo.finds)
	}
}

func TestGetOrCreateBasketWrapsStoreErrors(t *testing.T) {
	repo := &racingRepo{findErr: errors.New("connection reset")}
	_, err := getOrCreateBasket(context.Background(), repo, uuid.New())
	if !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
	if repo.creates != 0 {
		t.Fatalf("expected no create attempt, got %d", repo.creates)
	}
}
