package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/abgdnv/storefront/internal/config"
	"github.com/abgdnv/storefront/internal/store"
	"github.com/abgdnv/storefront/internal/transport/rest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

func testConfig() *config.Config {
	var cfg config.Config
	cfg.HTTPServer.Port = 8080
	cfg.HTTPServer.MaxHeaderBytes = 1 << 20
	cfg.HTTPServer.Timeout.Read = 5 * time.Second
	cfg.HTTPServer.Timeout.Write = 10 * time.Second
	cfg.HTTPServer.Timeout.Idle = time.Minute
	cfg.HTTPServer.Timeout.ReadHeader = time.Second
	cfg.Auth.Secret = "0123456789abcdef0123456789abcdef"
	cfg.Auth.CookieName = "accessToken"
	cfg.Cache.FeaturedKey = "featured_products"
	return &cfg
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSetupDependencies_Defaults(t *testing.T) {
	deps := SetupDependencies(Infra{Stores: MemoryStores(store.NewMemoryStore())}, testConfig(), discardLogger())

	assert.NotNil(t, deps.CartService)
	assert.NotNil(t, deps.ProductService)
	assert.NotNil(t, deps.CouponService)
	assert.NotNil(t, deps.Verifier)
	assert.Empty(t, deps.Checks)
}

func TestSetupHttpHandler(t *testing.T) {
	failing := rest.ReadinessCheck{Name: "redis", Check: func(context.Context) error { return errors.New("connection refused") }}

	testCases := []struct {
		name     string
		checks   []rest.ReadinessCheck
		path     string
		expected int
	}{
		{name: "liveness", path: "/healthz", expected: http.StatusOK},
		{name: "ready without checks", path: "/readyz", expected: http.StatusOK},
		{name: "not ready", checks: []rest.ReadinessCheck{failing}, path: "/readyz", expected: http.StatusServiceUnavailable},
		{name: "api requires a token", path: "/api/cart", expected: http.StatusUnauthorized},
		{name: "unknown route", path: "/nope", expected: http.StatusNotFound},
		{name: "metrics disabled", path: "/metrics", expected: http.StatusNotFound},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			deps := SetupDependencies(Infra{Stores: MemoryStores(store.NewMemoryStore()), Checks: tc.checks}, testConfig(), discardLogger())
			handler := SetupHttpHandler(deps, testConfig())
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			rr := httptest.NewRecorder()

			// when
			handler.ServeHTTP(rr, req)

			// then
			assert.Equal(t, tc.expected, rr.Code)
		})
	}
}

func TestSetupHttpHandler_Metrics(t *testing.T) {
	cfg := testConfig()
	cfg.Telemetry.Metrics.Enabled = true
	deps := SetupDependencies(Infra{Stores: MemoryStores(store.NewMemoryStore())}, cfg, discardLogger())
	rr := httptest.NewRecorder()

	SetupHttpHandler(deps, cfg).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "go_goroutines")
}

func TestSetupHttpServer(t *testing.T) {
	cfg := testConfig()
	deps := SetupDependencies(Infra{Stores: MemoryStores(store.NewMemoryStore())}, cfg, discardLogger())

	srv := SetupHttpServer(deps, cfg)

	assert.Equal(t, ":8080", srv.Addr)
	assert.Equal(t, 5*time.Second, srv.ReadTimeout)
	assert.Equal(t, time.Second, srv.ReadHeaderTimeout)
	assert.Equal(t, 1<<20, srv.MaxHeaderBytes)
}

func TestSetupGrpcServer(t *testing.T) {
	srv, hs := SetupGrpcServer(discardLogger(), false)
	t.Cleanup(srv.Stop)

	resp, err := hs.Check(context.Background(), &healthpb.HealthCheckRequest{Service: serviceName})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())

	hs.Shutdown()
	resp, err = hs.Check(context.Background(), &healthpb.HealthCheckRequest{Service: serviceName})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, resp.GetStatus())
}
