// Package e2e provides end-to-end tests for the storefront application.
// The suite spins up a real PostgreSQL instance with testcontainers-go, applies the migrations
// and serves the application handler from an httptest.Server.
//
// Covered flows:
//   - cart add, update, remove and summary with a coupon
//   - featured snapshot refresh after an admin toggle
//   - tolerance of carts stored as NULL or malformed JSON
package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/abgdnv/storefront/internal/app"
	"github.com/abgdnv/storefront/internal/config"
	"github.com/abgdnv/storefront/internal/service"
	"github.com/abgdnv/storefront/internal/transport/rest"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwt"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// skipE2ETests is the environment variable that can be set to skip E2E tests.
const skipE2ETests = "STOREFRONT_SKIP_E2E_TESTS"

const (
	testSecret = "0123456789abcdef0123456789abcdef"
	cookieName = "accessToken"
)

type StorefrontE2ESuite struct {
	suite.Suite
	pgContainer *postgres.PostgresContainer
	dbPool      *pgxpool.Pool
	server      *httptest.Server
	httpClient  *http.Client
	logger      *slog.Logger
	ctx         context.Context

	customerID uuid.UUID
	adminID    uuid.UUID
}

func testConfig() *config.Config {
	var cfg config.Config
	cfg.Auth.Secret = testSecret
	cfg.Auth.CookieName = cookieName
	cfg.Cache.FeaturedKey = "featured_products"
	return &cfg
}

func (s *StorefrontE2ESuite) SetupSuite() {
	s.ctx = context.Background()
	var err error
	s.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))

	// 1. Start PostgreSQL
	s.pgContainer, err = postgres.Run(s.ctx,
		"postgres:17.5-alpine",
		postgres.WithDatabase("storefront"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Minute),
		),
		testcontainers.WithWaitStrategy(
			wait.ForListeningPort("5432/tcp"),
		),
	)
	require.NoError(s.T(), err, "Failed to run PostgreSQL container")

	connStr, err := s.pgContainer.ConnectionString(s.ctx, "sslmode=disable")
	require.NoError(s.T(), err, "Failed to get connection string from container")

	s.dbPool, err = pgxpool.New(s.ctx, connStr)
	require.NoError(s.T(), err, "Failed to create pgx pool")

	for i := range 10 {
		s.logger.Info("Pinging E2E PostgreSQL database", "attempt", i+1)
		err = s.dbPool.Ping(s.ctx)
		if err == nil {
			break
		}
		time.Sleep(time.Second * 2)
	}
	require.NoError(s.T(), err, "Failed to connect to PostgreSQL after retries")

	// 2. Migrations
	wd, _ := os.Getwd()
	m, err := migrate.New("file://"+filepath.Join(wd, "..", "..", "..", "deploy", "migrations"), connStr)
	require.NoError(s.T(), err, "Failed to create migrate instance")
	err = m.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		_, _ = m.Close()
		require.NoError(s.T(), err, "Failed to apply migrations")
	}

	// 3. Application
	cfg := testConfig()
	deps := app.SetupDependencies(app.Infra{
		Stores: app.PgStores(s.dbPool),
		Checks: []rest.ReadinessCheck{app.PoolCheck(s.dbPool)},
	}, cfg, s.logger)
	s.server = httptest.NewServer(app.SetupHttpHandler(deps, cfg))
	s.httpClient = s.server.Client()
	s.logger.Info("E2E test server started", "url", s.server.URL)
}

func (s *StorefrontE2ESuite) TearDownSuite() {
	if s.server != nil {
		s.server.Close()
	}
	if s.dbPool != nil {
		s.dbPool.Close()
	}
	if s.pgContainer != nil {
		if err := s.pgContainer.Terminate(s.ctx); err != nil {
			s.logger.Warn("Failed to terminate E2E PostgreSQL container", "error", err)
		}
	}
}

// SetupTest resets the tables and seeds one customer and one admin.
func (s *StorefrontE2ESuite) SetupTest() {
	_, err := s.dbPool.Exec(s.ctx, "TRUNCATE TABLE coupons, products, users CASCADE")
	require.NoError(s.T(), err, "Failed to truncate tables")

	s.customerID = s.insertUser("Ann", "ann@example.com", "customer")
	s.adminID = s.insertUser("Bob", "bob@example.com", "admin")
}

func TestStorefrontE2E(t *testing.T) {
	if os.Getenv(skipE2ETests) == "1" {
		t.Skip("Skipping E2E tests based on " + skipE2ETests + " env var")
	}
	suite.Run(t, new(StorefrontE2ESuite))
}

func (s *StorefrontE2ESuite) TestHealth() {
	status, _ := s.do(uuid.Nil, http.MethodGet, "/readyz", nil)
	s.Equal(http.StatusOK, status)
}

func (s *StorefrontE2ESuite) TestCartFlow() {
	jeans := s.insertProduct("Jeans", 5000, "jeans", false)
	shirt := s.insertProduct("Shirt", 2500, "t-shirts", false)

	// add jeans twice and the shirt once
	for _, id := range []uuid.UUID{jeans, jeans, shirt} {
		status, _ := s.do(s.customerID, http.MethodPost, "/api/cart", map[string]string{"productId": id.String()})
		s.Require().Equal(http.StatusOK, status)
	}
	items := s.getCart()
	s.Require().Len(items, 2)
	s.Equal(jeans.String(), items[0].ID)
	s.Equal(2, items[0].Quantity)
	s.Equal(1, items[1].Quantity)

	// set the shirt quantity
	status, _ := s.do(s.customerID, http.MethodPut, "/api/cart", map[string]any{"id": shirt.String(), "quantity": 3})
	s.Require().Equal(http.StatusOK, status)
	s.Equal(3, s.getCart()[1].Quantity)

	// zero removes the line
	status, _ = s.do(s.customerID, http.MethodPut, "/api/cart", map[string]any{"id": jeans.String(), "quantity": 0})
	s.Require().Equal(http.StatusOK, status)
	items = s.getCart()
	s.Require().Len(items, 1)
	s.Equal(shirt.String(), items[0].ID)

	// summary applies the coupon
	_, err := s.dbPool.Exec(s.ctx,
		"INSERT INTO coupons (code, discount_percentage, expiration_date, user_id) VALUES ('SAVE10', 10, $1, $2)",
		time.Now().Add(24*time.Hour), s.customerID)
	s.Require().NoError(err)
	var summary service.CartSummaryDto
	status, body := s.do(s.customerID, http.MethodGet, "/api/cart/summary?coupon=SAVE10", nil)
	s.Require().Equal(http.StatusOK, status)
	s.Require().NoError(json.Unmarshal(body, &summary))
	s.Equal(int64(7500), summary.Subtotal)
	s.Equal(int64(750), summary.Discount)
	s.Equal(int64(6750), summary.Total)

	// clear
	status, _ = s.do(s.customerID, http.MethodDelete, "/api/cart", nil)
	s.Require().Equal(http.StatusOK, status)
	s.Empty(s.getCart())
}

func (s *StorefrontE2ESuite) TestCartTolerance() {
	testCases := []struct {
		name string
		sql  string
	}{
		{name: "null cart", sql: "UPDATE users SET cart_items = NULL WHERE id = $1"},
		{name: "non-array cart", sql: `UPDATE users SET cart_items = '{"product": 1}'::jsonb WHERE id = $1`},
		{name: "string cart", sql: `UPDATE users SET cart_items = to_jsonb('[{"product":'::text) WHERE id = $1`},
	}
	for _, tc := range testCases {
		s.Run(tc.name, func() {
			_, err := s.dbPool.Exec(s.ctx, tc.sql, s.customerID)
			s.Require().NoError(err)

			s.Empty(s.getCart())

			product := s.insertProduct("Cap", 1500, "hats", false)
			status, _ := s.do(s.customerID, http.MethodPost, "/api/cart", map[string]string{"productId": product.String()})
			s.Require().Equal(http.StatusOK, status)
			s.Len(s.getCart(), 1)
		})
	}
}

func (s *StorefrontE2ESuite) TestFeaturedRefreshAfterToggle() {
	jeans := s.insertProduct("Jeans", 5000, "jeans", true)
	shirt := s.insertProduct("Shirt", 2500, "t-shirts", false)

	featured := s.getFeatured()
	s.Require().Len(featured, 1)
	s.Equal(jeans.String(), featured[0].ID)

	// customers cannot toggle
	status, _ := s.do(s.customerID, http.MethodPatch, "/api/products/"+shirt.String()+"/featured", nil)
	s.Equal(http.StatusForbidden, status)

	status, _ = s.do(s.adminID, http.MethodPatch, "/api/products/"+shirt.String()+"/featured", nil)
	s.Require().Equal(http.StatusOK, status)

	s.Len(s.getFeatured(), 2)
}

// --------------------------------------------------------------------------
// ---------------------------- Helper methods ------------------------------
// --------------------------------------------------------------------------

func (s *StorefrontE2ESuite) insertUser(name, email, role string) uuid.UUID {
	s.T().Helper()
	var id uuid.UUID
	err := s.dbPool.QueryRow(s.ctx,
		"INSERT INTO users (name, email, role) VALUES ($1, $2, $3) RETURNING id", name, email, role).Scan(&id)
	s.Require().NoError(err)
	return id
}

func (s *StorefrontE2ESuite) insertProduct(name string, price int64, category string, featured bool) uuid.UUID {
	s.T().Helper()
	var id uuid.UUID
	err := s.dbPool.QueryRow(s.ctx,
		"INSERT INTO products (name, price, category, is_featured) VALUES ($1, $2, $3, $4) RETURNING id",
		name, price, category, featured).Scan(&id)
	s.Require().NoError(err)
	return id
}

func (s *StorefrontE2ESuite) getCart() []service.CartItemDto {
	s.T().Helper()
	status, body := s.do(s.customerID, http.MethodGet, "/api/cart", nil)
	s.Require().Equal(http.StatusOK, status)
	var items []service.CartItemDto
	s.Require().NoError(json.Unmarshal(body, &items))
	return items
}

func (s *StorefrontE2ESuite) getFeatured() []service.ProductDto {
	s.T().Helper()
	status, body := s.do(s.customerID, http.MethodGet, "/api/products/featured", nil)
	s.Require().Equal(http.StatusOK, status)
	var products []service.ProductDto
	s.Require().NoError(json.Unmarshal(body, &products))
	return products
}

// do sends a request as userID; uuid.Nil sends it without a token.
func (s *StorefrontE2ESuite) do(userID uuid.UUID, method, path string, payload any) (int, []byte) {
	s.T().Helper()
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		s.Require().NoError(err)
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(s.ctx, method, s.server.URL+path, body)
	s.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	if userID != uuid.Nil {
		req.AddCookie(&http.Cookie{Name: cookieName, Value: s.token(userID)})
	}

	resp, err := s.httpClient.Do(req)
	s.Require().NoError(err)
	defer func() { _ = resp.Body.Close() }()
	respBody, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	return resp.StatusCode, respBody
}

func (s *StorefrontE2ESuite) token(userID uuid.UUID) string {
	s.T().Helper()
	tok, err := jwt.NewBuilder().Subject(userID.String()).Expiration(time.Now().Add(time.Hour)).Build()
	s.Require().NoError(err)
	signed, err := jwt.Sign(tok, jwt.WithKey(jwa.HS256(), []byte(testSecret)))
	s.Require().NoError(err)
	return string(signed)
}
