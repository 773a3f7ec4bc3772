package feeds

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/supplyhub-backend/internal/shops"
	"github.com/angelmondragon/supplyhub-backend/pkg/db"
	"github.com/angelmondragon/supplyhub-backend/pkg/db/models"
	"github.com/angelmondragon/supplyhub-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/supplyhub-backend/pkg/errors"
	"github.com/angelmondragon/supplyhub-backend/pkg/logger"
	"github.com/angelmondragon/supplyhub-backend/pkg/metrics"
	"github.com/angelmondragon/supplyhub-backend/pkg/outbox"
	"github.com/angelmondragon/supplyhub-backend/pkg/outbox/payloads"
)

const defaultLockTTL = 5 * time.Minute

type ImportInput struct {
	UserID uuid.UUID
	URL    string
}

type ImportResult struct {
	ShopID     uuid.UUID `json:"shop_id"`
	Categories int       `json:"categories"`
	Offers     int       `json:"offers"`
	Parameters int       `json:"parameters"`
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type userLookup interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type feedFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

type importLocker interface {
	FeedLockKey(userID string) string
	AcquireLock(ctx context.Context, key, token string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, key, token string) error
}

type outboxEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type shopRepository interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Shop, error)
	FindByName(ctx context.Context, name string) (*models.Shop, error)
	Create(ctx context.Context, shop *models.Shop) error
	UpdateIdentity(ctx context.Context, shopID uuid.UUID, name string, url *string) error
	AttachCategories(ctx context.Context, shopID uuid.UUID, categoryIDs []uuid.UUID) error
}

type catalogWriter interface {
	UpsertCategory(ctx context.Context, name string) (uuid.UUID, error)
	UpsertProduct(ctx context.Context, name string, categoryID *uuid.UUID) (uuid.UUID, error)
	UpsertParameter(ctx context.Context, name string) (uuid.UUID, error)
	ClearShopOffers(ctx context.Context, shopID uuid.UUID) error
	CreateOffer(ctx context.Context, offer *models.ProductInfo) error
	CreateParameters(ctx context.Context, rows []models.ProductParameter) error
	ReattachBasketItems(ctx context.Context, shopID uuid.UUID) (int64, error)
}

// ServiceParams wires the ingestion pipeline. Factories default to the gorm repositories.
type ServiceParams struct {
	TxRunner       txRunner
	Users          userLookup
	Fetcher        feedFetcher
	Locker         importLocker
	Outbox         outboxEmitter
	Metrics        *metrics.FeedImportMetrics
	Logger         *logger.Logger
	LockTTL        time.Duration
	ShopsFactory   func(tx *gorm.DB) shopRepository
	CatalogFactory func(tx *gorm.DB) catalogWriter
}

// Service imports a shop's feed and replaces its catalog.
type Service struct {
	tx             txRunner
	users          userLookup
	fetcher        feedFetcher
	locker         importLocker
	outbox         outboxEmitter
	metrics        *metrics.FeedImportMetrics
	logg           *logger.Logger
	lockTTL        time.Duration
	shopsFactory   func(tx *gorm.DB) shopRepository
	catalogFactory func(tx *gorm.DB) catalogWriter
}

func NewService(params ServiceParams) (*Service, error) {
	if params.TxRunner == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if params.Users == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if params.Fetcher == nil {
		return nil, fmt.Errorf("feed fetcher required")
	}
	if params.Locker == nil {
		return nil, fmt.Errorf("import locker required")
	}
	if params.Outbox == nil {
		return nil, fmt.Errorf("outbox emitter required")
	}
	svc := &Service{
		tx:             params.TxRunner,
		users:          params.Users,
		fetcher:        params.Fetcher,
		locker:         params.Locker,
		outbox:         params.Outbox,
		metrics:        params.Metrics,
		logg:           params.Logger,
		lockTTL:        params.LockTTL,
		shopsFactory:   params.ShopsFactory,
		catalogFactory: params.CatalogFactory,
	}
	if svc.lockTTL <= 0 {
		svc.lockTTL = defaultLockTTL
	}
	if svc.shopsFactory == nil {
		svc.shopsFactory = func(tx *gorm.DB) shopRepository { return shops.NewRepository(tx) }
	}
	if svc.catalogFactory == nil {
		svc.catalogFactory = func(tx *gorm.DB) catalogWriter { return NewRepository(tx) }
	}
	return svc, nil
}

// Import fetches the feed at input.URL and rebuilds the caller's catalog from it in one transaction.
func (s *Service) Import(ctx context.Context, input ImportInput) (*ImportResult, error) {
	start := time.Now()
	outcome := metrics.OutcomeError
	var result *ImportResult
	defer func() {
		offers := 0
		if result != nil {
			offers = result.Offers
		}
		s.metrics.Observe(outcome, time.Since(start), offers)
	}()

	target, err := parseFeedURL(input.URL)
	if err != nil {
		outcome = metrics.OutcomeInvalid
		return nil, err
	}
	if err := s.requireShopUser(ctx, input.UserID); err != nil {
		return nil, err
	}

	key := s.locker.FeedLockKey(input.UserID.String())
	token := uuid.NewString()
	acquired, err := s.locker.AcquireLock(ctx, key, token, s.lockTTL)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "acquire import lock")
	}
	if !acquired {
		outcome = metrics.OutcomeConflict
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "catalog import already running")
	}
	defer s.releaseLock(ctx, key, token)

	body, err := s.fetcher.Fetch(ctx, target)
	if err != nil {
		outcome = metrics.OutcomeFetchError
		if pkgerrors.As(err) == nil {
			err = pkgerrors.Wrap(pkgerrors.CodeDependency, err, "feed could not be fetched")
		}
		return nil, err
	}

	doc, err := Decode(body)
	if err != nil {
		outcome = metrics.OutcomeInvalid
		return nil, err
	}

	var res ImportResult
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		var txErr error
		res, txErr = s.rebuild(ctx, tx, input.UserID, target, doc)
		return txErr
	})
	if err != nil {
		if pkgerrors.IsCode(err, pkgerrors.CodeConflict) {
			outcome = metrics.OutcomeConflict
		}
		if pkgerrors.As(err) == nil {
			err = pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rebuild catalog")
		}
		return nil, err
	}

	result = &res
	outcome = metrics.OutcomeSuccess
	if s.logg != nil {
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"shop_id":    res.ShopID.String(),
			"categories": res.Categories,
			"offers":     res.Offers,
			"parameters": res.Parameters,
		})
		s.logg.Info(logCtx, "catalog imported")
	}
	return result, nil
}

func (s *Service) rebuild(ctx context.Context, tx *gorm.DB, userID uuid.UUID, target string, doc *Document) (ImportResult, error) {
	shopRepo := s.shopsFactory(tx)
	catalog := s.catalogFactory(tx)

	shop, err := resolveShop(ctx, shopRepo, userID, doc.Shop, target)
	if err != nil {
		return ImportResult{}, err
	}
	res := ImportResult{ShopID: shop.ID, Categories: len(doc.Categories)}

	categoryIDs := make(map[string]uuid.UUID, len(doc.Categories))
	ids := make([]uuid.UUID, 0, len(doc.Categories))
	for _, c := range doc.Categories {
		id, err := catalog.UpsertCategory(ctx, c.Name)
		if err != nil {
			return ImportResult{}, err
		}
		categoryIDs[c.Name] = id
		ids = append(ids, id)
	}
	if err := shopRepo.AttachCategories(ctx, shop.ID, ids); err != nil {
		return ImportResult{}, err
	}

	if err := catalog.ClearShopOffers(ctx, shop.ID); err != nil {
		return ImportResult{}, err
	}

	parameterIDs := map[string]uuid.UUID{}
	for _, good := range doc.Goods {
		var categoryID *uuid.UUID
		if good.Category != "" {
			id := categoryIDs[good.Category]
			categoryID = &id
		}
		productID, err := catalog.UpsertProduct(ctx, good.Name, categoryID)
		if err != nil {
			return ImportResult{}, err
		}

		offer := &models.ProductInfo{
			ID:        uuid.New(),
			ProductID: productID,
			ShopID:    shop.ID,
			Price:     *good.Price,
			Quantity:  *good.Quantity,
		}
		if err := catalog.CreateOffer(ctx, offer); err != nil {
			return ImportResult{}, err
		}
		res.Offers++

		names := make([]string, 0, len(good.Parameters))
		for name := range good.Parameters {
			names = append(names, name)
		}
		sort.Strings(names)

		rows := make([]models.ProductParameter, 0, len(names))
		for _, name := range names {
			paramID, ok := parameterIDs[name]
			if !ok {
				paramID, err = catalog.UpsertParameter(ctx, name)
				if err != nil {
					return ImportResult{}, err
				}
				parameterIDs[name] = paramID
			}
			rows = append(rows, models.ProductParameter{
				ID:            uuid.New(),
				ProductInfoID: offer.ID,
				ParameterID:   paramID,
				Value:         string(good.Parameters[name]),
			})
		}
		if err := catalog.CreateParameters(ctx, rows); err != nil {
			return ImportResult{}, err
		}
		res.Parameters += len(rows)
	}

	if _, err := catalog.ReattachBasketItems(ctx, shop.ID); err != nil {
		return ImportResult{}, err
	}

	err = s.outbox.Emit(ctx, tx, outbox.DomainEvent{
		EventType:     enums.EventCatalogImported,
		AggregateType: enums.AggregateShop,
		AggregateID:   shop.ID,
		Actor:         &outbox.ActorRef{UserID: userID, UserType: enums.UserTypeShop},
		Data: payloads.CatalogImportedEvent{
			ShopID:     shop.ID,
			ShopName:   shop.Name,
			URL:        target,
			Categories: res.Categories,
			Offers:     res.Offers,
			Parameters: res.Parameters,
		},
	})
	if err != nil {
		return ImportResult{}, err
	}
	return res, nil
}

// resolveShop returns the caller's shop under the feed's name, creating it OPEN on first import.
func resolveShop(ctx context.Context, repo shopRepository, userID uuid.UUID, name, target string) (*models.Shop, error) {
	named, err := repo.FindByName(ctx, name)
	switch {
	case err == nil:
		if named.UserID == nil || *named.UserID != userID {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "shop name already taken")
		}
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}

	feedURL := target
	owned, err := repo.FindByUserID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		owner := userID
		shop := &models.Shop{
			ID:     uuid.New(),
			Name:   name,
			URL:    &feedURL,
			State:  enums.ShopStateOpen,
			UserID: &owner,
		}
		if err := repo.Create(ctx, shop); err != nil {
			if db.IsUniqueViolation(err, "") {
				return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "shop name already taken")
			}
			return nil, err
		}
		return shop, nil
	}
	if err != nil {
		return nil, err
	}

	if err := repo.UpdateIdentity(ctx, owned.ID, name, &feedURL); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "shop name already taken")
		}
		return nil, err
	}
	owned.Name = name
	owned.URL = &feedURL
	return owned, nil
}

func (s *Service) requireShopUser(ctx context.Context, userID uuid.UUID) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeUnauthorized, "user not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	if !user.Type.CanManageShop() {
		return pkgerrors.New(pkgerrors.CodeForbidden, "only for shops")
	}
	return nil
}

func (s *Service) releaseLock(ctx context.Context, key, token string) {
	if err := s.locker.ReleaseLock(context.WithoutCancel(ctx), key, token); err != nil && s.logg != nil {
		s.logg.Warn(s.logg.WithField(ctx, "lock_key", key), fmt.Sprintf("release import lock: %v", err))
	}
}

func parseFeedURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", pkgerrors.Validation("invalid feed url", map[string]string{"url": "must be an absolute http or https url"})
	}
	return u.String(), nil
}

var (
	_ txRunner      = (*db.Client)(nil)
	_ outboxEmitter = (*outbox.Service)(nil)
)
