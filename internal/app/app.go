package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"storefront/internal/account"
	"storefront/internal/auth"
	"storefront/internal/cart"
	"storefront/internal/catalog"
	"storefront/internal/images"
	"storefront/pkg/kit"
)

type Deps struct {
	Log      *zap.Logger
	Service  string
	Registry *prometheus.Registry

	MetricsEnabled bool
	MetricsToken   string

	Accounts account.Store
	Catalog  catalog.Store
	Images   *images.Store
	Tokens   *auth.TokenMaker
}

const (
	loginLimitPerMin  = 5
	signupLimitPerMin = 3
	limitWindow       = time.Minute

	readyTimeout = 1 * time.Second
)

// NewHandler wires every endpoint of the storefront into one router.
func NewHandler(deps Deps) http.Handler {
	r := chi.NewRouter()

	setupMiddleware(r, deps)
	setupMetrics(r, deps)

	r.Get("/healthz", healthz)
	r.Get("/readyz", readyz(deps))

	authSrv := &auth.Server{Log: deps.Log, Store: deps.Accounts, Tokens: deps.Tokens}
	cartSrv := &cart.Server{Log: deps.Log, Store: deps.Accounts}
	catalogSrv := &catalog.Server{Log: deps.Log, Store: deps.Catalog, Images: deps.Images}

	loginLimiter := kit.NewIPRateLimiter(loginLimitPerMin, limitWindow)
	signupLimiter := kit.NewIPRateLimiter(signupLimitPerMin, limitWindow)

	r.Route("/auth", func(rr chi.Router) {
		rr.With(signupLimiter.Middleware).Post("/signup", authSrv.SignupHandler())
		rr.With(loginLimiter.Middleware).Post("/login", authSrv.LoginHandler())
	})

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireAccount(deps.Tokens))
		pr.Get("/cart", cartSrv.GetHandler())
		pr.Post("/cart/items/{id}", cartSrv.AddHandler())
		pr.Delete("/cart/items/{id}", cartSrv.RemoveHandler())
	})

	r.Route("/products", func(rr chi.Router) {
		rr.Post("/", catalogSrv.CreateHandler())
		rr.Get("/", catalogSrv.ListHandler())
		rr.Get("/recent", catalogSrv.RecentHandler())
		rr.Get("/category/{name}", catalogSrv.ByCategoryHandler())
		rr.Delete("/{id}", catalogSrv.DeleteHandler())
	})

	r.Handle(deps.Images.BaseURL()+"/*", deps.Images.Handler())

	return r
}

func setupMiddleware(r *chi.Mux, deps Deps) {
	r.Use(chimw.RequestID)
	r.Use(kit.Recoverer)
	r.Use(kit.Logging(deps.Log))
}

func setupMetrics(r *chi.Mux, deps Deps) {
	if deps.Registry == nil {
		return
	}

	metrics := kit.NewMetrics(deps.Registry)
	r.Use(metrics.Middleware(deps.Service, kit.ChiRoutePatternOrPath))

	if !deps.MetricsEnabled {
		return
	}

	r.With(kit.MetricsAuth(deps.MetricsToken)).
		Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
}

func healthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func readyz(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()

		if err := deps.Accounts.Ping(ctx); err != nil {
			if deps.Log != nil {
				deps.Log.Warn("readyz failed: accounts", zap.Error(err))
			}
			kit.WriteError(w, r, http.StatusServiceUnavailable, "not ready", nil)
			return
		}

		if err := deps.Catalog.Ping(ctx); err != nil {
			if deps.Log != nil {
				deps.Log.Warn("readyz failed: catalog", zap.Error(err))
			}
			kit.WriteError(w, r, http.StatusServiceUnavailable, "not ready", nil)
			return
		}

		w.WriteHeader(http.StatusOK)
	}
}
