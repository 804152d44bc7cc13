// Package app wires the storefront services, stores and transports together.
package app

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/abgdnv/storefront/internal/cache"
	"github.com/abgdnv/storefront/internal/config"
	"github.com/abgdnv/storefront/internal/media"
	"github.com/abgdnv/storefront/internal/service"
	"github.com/abgdnv/storefront/internal/store"
	"github.com/abgdnv/storefront/internal/transport/rest"
	"github.com/abgdnv/storefront/pkg/auth"
	"github.com/abgdnv/storefront/pkg/messaging"
	"github.com/abgdnv/storefront/pkg/server"
	"github.com/abgdnv/storefront/pkg/telemetry"
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

const (
	serviceName  = "storefront"
	readyTimeout = 2 * time.Second
)

// Stores groups the persistence layer used by the services.
type Stores struct {
	Products store.ProductStore
	Users    store.UserStore
	Coupons  store.CouponStore
}

// PgStores returns the PostgreSQL backed stores.
func PgStores(dbPool *pgxpool.Pool) Stores {
	return Stores{
		Products: store.NewPgProductStore(dbPool),
		Users:    store.NewPgUserStore(dbPool),
		Coupons:  store.NewPgCouponStore(dbPool),
	}
}

// MemoryStores returns stores backed by a single in-memory dataset.
func MemoryStores(m *store.MemoryStore) Stores {
	return Stores{
		Products: m,
		Users:    m.Users(),
		Coupons:  m.Coupons(),
	}
}

// Infra holds the external collaborators. Nil fields fall back to in-process defaults.
type Infra struct {
	Stores    Stores
	Cache     cache.Cache
	Images    media.ImageStore
	Publisher messaging.Publisher
	Checks    []rest.ReadinessCheck
}

type Dependencies struct {
	CartService    service.CartService
	ProductService service.ProductService
	CouponService  service.CouponService
	Users          store.UserStore
	Verifier       auth.Verifier
	Checks         []rest.ReadinessCheck
	Logger         *slog.Logger
}

func SetupDependencies(infra Infra, cfg *config.Config, logger *slog.Logger) *Dependencies {
	if infra.Cache == nil {
		infra.Cache = cache.NewMemoryCache()
	}
	if infra.Images == nil {
		infra.Images = media.PassthroughImageStore{}
	}
	if infra.Publisher == nil {
		infra.Publisher = messaging.NopPublisher{}
	}

	featured := service.NewFeatured(infra.Stores.Products, infra.Cache, cfg.Cache, logger)
	coupons := service.NewCoupons(infra.Stores.Coupons, logger)

	return &Dependencies{
		CartService:    service.NewCart(infra.Stores.Users, infra.Stores.Products, coupons, logger),
		ProductService: service.NewCatalog(infra.Stores.Products, featured, infra.Images, infra.Publisher, logger),
		CouponService:  coupons,
		Users:          infra.Stores.Users,
		Verifier:       auth.NewHMACVerifier(cfg.Auth),
		Checks:         infra.Checks,
		Logger:         logger,
	}
}

// PoolCheck reports the database as ready when it answers a ping.
func PoolCheck(dbPool *pgxpool.Pool) rest.ReadinessCheck {
	return rest.ReadinessCheck{Name: "postgres", Check: dbPool.Ping}
}

// SetupHttpHandler builds the router with health and API routes.
// Used by tests to exercise the full HTTP stack.
func SetupHttpHandler(deps *Dependencies, cfg *config.Config) http.Handler {
	mux := server.NewChiRouter(deps.Logger)
	wireRoutes(mux, deps, cfg)
	return mux
}

func wireRoutes(mux *chi.Mux, deps *Dependencies, cfg *config.Config) {
	rest.NewHealthHandler(readyTimeout, deps.Logger, deps.Checks...).RegisterRoutes(mux)
	if cfg.Telemetry.Metrics.Enabled {
		mux.Handle("/metrics", telemetry.MetricsHandler())
	}

	authn := rest.NewAuthenticator(deps.Verifier, deps.Users, cfg.Auth.CookieName, deps.Logger)
	h := rest.NewHandler(deps.CartService, deps.ProductService, deps.CouponService, deps.Logger)
	h.RegisterRoutes(mux, authn.Middleware)
}

// SetupHttpServer creates and configures the storefront HTTP server.
func SetupHttpServer(deps *Dependencies, cfg *config.Config) *http.Server {
	mux := SetupHttpHandler(deps, cfg)

	httpCfg := server.HTTPConfig{
		Port:           cfg.HTTPServer.Port,
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		ReadTimeout:    cfg.HTTPServer.Timeout.Read,
		WriteTimeout:   cfg.HTTPServer.Timeout.Write,
		IdleTimeout:    cfg.HTTPServer.Timeout.Idle,
		ReadHeader:     cfg.HTTPServer.Timeout.ReadHeader,
	}

	return server.NewHTTPServer(httpCfg, serviceName, mux)
}

// SetupGrpcServer creates the gRPC server that exposes the standard health service.
// The returned health.Server is flipped to NOT_SERVING on shutdown.
func SetupGrpcServer(logger *slog.Logger, reflectionEnabled bool) (*grpc.Server, *health.Server) {
	hs := health.NewServer()
	hs.SetServingStatus(serviceName, healthpb.HealthCheckResponse_SERVING)
	return server.NewGRPCServer(logger, reflectionEnabled, server.WithHealth(hs)), hs
}
