package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mazaohq/mazao-pos-backend/api/controllers"
	"github.com/mazaohq/mazao-pos-backend/api/middleware"
	"github.com/mazaohq/mazao-pos-backend/api/responses"
	"github.com/mazaohq/mazao-pos-backend/internal/auth"
	"github.com/mazaohq/mazao-pos-backend/internal/products"
	"github.com/mazaohq/mazao-pos-backend/internal/reports"
	"github.com/mazaohq/mazao-pos-backend/internal/sales"
	"github.com/mazaohq/mazao-pos-backend/internal/shops"
	"github.com/mazaohq/mazao-pos-backend/internal/staff"
	"github.com/mazaohq/mazao-pos-backend/pkg/config"
	"github.com/mazaohq/mazao-pos-backend/pkg/enums"
	pkgerrors "github.com/mazaohq/mazao-pos-backend/pkg/errors"
	"github.com/mazaohq/mazao-pos-backend/pkg/logger"
	"github.com/mazaohq/mazao-pos-backend/pkg/redis"
)

// Deps carries everything the router mounts. Domain services are nil in demo
// mode (no database configured); their routes then answer 503.
type Deps struct {
	Config  *config.Config
	Logger  *logger.Logger
	DB      controllers.Pinger
	Redis   *redis.Client
	Metrics prometheus.Gatherer

	Auth     auth.Service
	Shops    shops.Service
	Products products.Service
	Sales    sales.Service
	Reports  reports.Service
	Staff    staff.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	nc := notConfigured(logg)

	var redisP controllers.Pinger
	if deps.Redis != nil {
		redisP = deps.Redis
	}

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	var rateStore middleware.RateLimiterStore
	if deps.Redis != nil {
		rateStore = deps.Redis
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, redisP))
	})

	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Metrics, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			limited := middleware.AuthRateLimit(loginPolicy, rateStore, logg)
			r.With(limited).Post("/auth/login", controllers.AuthLogin(deps.Auth, logg))
			r.With(limited).Post("/auth/staff-login", controllers.AuthStaffLogin(deps.Auth, logg))
			lookup := controllers.ShopLookup(deps.Auth, logg)
			if deps.Shops != nil {
				lookup = controllers.ShopBranding(deps.Shops, logg)
			}
			r.Get("/shops/lookup", lookup)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, deps.Auth, logg))

			// Reachable while the session is PIN-locked.
			r.Post("/auth/unlock", controllers.AuthUnlock(deps.Auth, logg))
			r.Post("/auth/logout", controllers.AuthLogout(deps.Auth, logg))
			r.Post("/auth/touch", controllers.AuthTouch(logg))
			r.Get("/auth/session", controllers.AuthSession(deps.Auth, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.LockGuard(logg))

				r.Route("/products", func(r chi.Router) {
					if deps.Products == nil {
						r.HandleFunc("/", nc)
						r.HandleFunc("/*", nc)
						return
					}
					r.With(cashier(logg)).Get("/", controllers.ProductList(deps.Products, logg))
					r.With(cashier(logg)).Get("/{productId}", controllers.ProductGet(deps.Products, logg))
					r.With(manager(logg)).Post("/", controllers.ProductCreate(deps.Products, logg))
					r.With(manager(logg)).Patch("/{productId}", controllers.ProductUpdate(deps.Products, logg))
					r.With(manager(logg)).Post("/{productId}/receive", controllers.ProductReceiveStock(deps.Products, logg))
				})

				r.Route("/sales", func(r chi.Router) {
					if deps.Sales == nil {
						r.HandleFunc("/", nc)
						r.HandleFunc("/*", nc)
						return
					}
					r.With(cashier(logg)).Post("/", controllers.SaleCheckout(deps.Sales, logg))
					r.With(cashier(logg)).Get("/", controllers.SaleList(deps.Sales, logg))
					r.With(cashier(logg)).Get("/{saleId}", controllers.SaleDetail(deps.Sales, logg))
					r.With(manager(logg)).Post("/{saleId}/void", controllers.SaleVoid(deps.Sales, logg))
				})

				r.Route("/reports", func(r chi.Router) {
					if deps.Reports == nil {
						r.HandleFunc("/*", nc)
						return
					}
					r.With(manager(logg)).Get("/summary", controllers.ReportSummary(deps.Reports, logg))
				})

				r.Route("/shops", func(r chi.Router) {
					if deps.Shops == nil {
						r.HandleFunc("/*", nc)
						return
					}
					r.With(admin(logg)).Get("/me", controllers.ShopProfile(deps.Shops, logg))
					r.With(admin(logg)).Put("/me", controllers.ShopUpdate(deps.Shops, logg))
				})

				r.Route("/staff", func(r chi.Router) {
					if deps.Staff == nil {
						r.HandleFunc("/", nc)
						r.HandleFunc("/*", nc)
						return
					}
					r.Use(admin(logg))
					r.Post("/", controllers.StaffCreate(deps.Staff, logg))
					r.Get("/", controllers.StaffList(deps.Staff, logg))
					r.Put("/{staffId}/pin", controllers.StaffSetPIN(deps.Staff, logg))
					r.Put("/{staffId}/active", controllers.StaffSetActive(deps.Staff, logg))
				})
			})
		})
	})

	return r
}

func cashier(logg *logger.Logger) func(http.Handler) http.Handler {
	return middleware.RequireRole(enums.StaffRoleCashier, logg)
}

func manager(logg *logger.Logger) func(http.Handler) http.Handler {
	return middleware.RequireRole(enums.StaffRoleManager, logg)
}

func admin(logg *logger.Logger) func(http.Handler) http.Handler {
	return middleware.RequireRole(enums.StaffRoleAdmin, logg)
}

func notConfigured(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := pkgerrors.New(pkgerrors.CodeDependency, "database not configured")
		responses.WriteError(r.Context(), logg, w, err)
	}
}
