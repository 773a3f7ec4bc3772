package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/supplyhub-backend/api/controllers"
	"github.com/angelmondragon/supplyhub-backend/api/middleware"
	"github.com/angelmondragon/supplyhub-backend/internal/auth"
	"github.com/angelmondragon/supplyhub-backend/internal/catalog"
	"github.com/angelmondragon/supplyhub-backend/internal/contacts"
	"github.com/angelmondragon/supplyhub-backend/internal/orders"
	"github.com/angelmondragon/supplyhub-backend/internal/shops"
	"github.com/angelmondragon/supplyhub-backend/internal/users"
	"github.com/angelmondragon/supplyhub-backend/pkg/auth/session"
	"github.com/angelmondragon/supplyhub-backend/pkg/config"
	"github.com/angelmondragon/supplyhub-backend/pkg/enums"
	"github.com/angelmondragon/supplyhub-backend/pkg/logger"
	pkgredis "github.com/angelmondragon/supplyhub-backend/pkg/redis"
)

// RedisStore is the slice of the redis client the HTTP layer uses.
type RedisStore interface {
	pkgredis.IdempotencyStore
	middleware.RateLimitStore
	Ping(ctx context.Context) error
}

// Services groups the domain services mounted on the router.
type Services struct {
	Auth     auth.Service
	Register auth.RegisterService
	Profile  users.ProfileService
	Contacts contacts.Service
	Shops    shops.Service
	Catalog  catalog.Service
	Orders   orders.Service
	Importer controllers.CatalogImporter
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP controllers.Pinger,
	redisStore RedisStore,
	sessions session.AccessSessionChecker,
	metricsHandler http.Handler,
	svc Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	var limiter middleware.RateLimitStore
	idempotent := func(next http.Handler) http.Handler { return next }
	readiness := map[string]controllers.Pinger{"db": dbP}
	if redisStore != nil {
		limiter = redisStore
		readiness["redis"] = redisStore
		if cfg.FeatureFlags.Idempotency {
			idempotent = middleware.Idempotency(redisStore, logg)
		}
	}
	rateLimited := func(policy middleware.AuthRateLimitPolicy) func(http.Handler) http.Handler {
		if limiter == nil {
			return func(next http.Handler) http.Handler { return next }
		}
		return middleware.AuthRateLimit(policy, limiter, logg)
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readiness))
	})
	if metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", metricsHandler)
	}

	authenticated := middleware.Auth(cfg.JWT, sessions, logg)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/categories/", controllers.CatalogCategories(svc.Catalog, logg))
		r.Get("/shops/", controllers.ShopsList(svc.Shops, logg))
		r.Get("/products/", controllers.CatalogOffers(svc.Catalog, logg))
		r.Get("/product/", controllers.CatalogProducts(svc.Catalog, logg))

		r.Route("/user", func(r chi.Router) {
			r.With(rateLimited(registerPolicy)).Post("/register/", controllers.AuthRegister(svc.Register, logg))
			r.With(rateLimited(loginPolicy)).Post("/login/", controllers.AuthLogin(svc.Auth, logg))
			r.Post("/login/refresh/", controllers.AuthRefresh(svc.Auth, logg))

			r.Group(func(r chi.Router) {
				r.Use(authenticated)
				r.Post("/logout/", controllers.AuthLogout(svc.Auth, logg))
				r.Get("/details/", controllers.UserDetails(svc.Profile, logg))
				r.Post("/details/", controllers.UserUpdateDetails(svc.Profile, logg))

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireWriterType(enums.UserTypeBuyer, logg))
					r.Get("/contact/", controllers.ContactsList(svc.Contacts, logg))
					r.Post("/contact/", controllers.ContactCreate(svc.Contacts, logg))
					r.Put("/contact/", controllers.ContactUpdate(svc.Contacts, logg))
					r.Delete("/contact/", controllers.ContactDelete(svc.Contacts, logg))
				})
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(authenticated)
			r.Use(middleware.RequireUserType(enums.UserTypeBuyer, logg))

			r.Get("/basket/", controllers.BasketView(svc.Orders, logg))
			r.Post("/basket/", controllers.BasketAdd(svc.Orders, logg))
			r.Delete("/basket/", controllers.BasketRemove(svc.Orders, logg))
			r.Put("/basket/", controllers.BasketUpdate(svc.Orders, logg))

			r.Get("/order/", controllers.OrdersList(svc.Orders, logg))
			r.With(idempotent).Post("/order/", controllers.OrderConfirm(svc.Orders, logg))
		})

		r.Route("/partner", func(r chi.Router) {
			r.Use(authenticated)
			r.Use(middleware.RequireUserType(enums.UserTypeShop, logg))

			r.Get("/state/", controllers.PartnerState(svc.Shops, logg))
			r.Patch("/state/", controllers.PartnerSetState(svc.Shops, logg))
			r.With(idempotent).Post("/update/", controllers.PartnerUpdate(svc.Importer, logg))
			r.Get("/orders/", controllers.PartnerOrders(svc.Orders, logg))
		})
	})

	return r
}
