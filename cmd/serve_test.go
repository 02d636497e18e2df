package cmd

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gymku_backend/internals/configs"
	"gymku_backend/internals/databases/dbtest"
)

func testConfig() *configs.Config {
	cfg := &configs.Config{AppEnv: "test", TZName: "Asia/Jakarta", CORSOrigins: "*"}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.TTL = time.Hour
	cfg.Storage.Driver = "memory"
	return cfg
}

func TestNewAppServesHealthAndRequestID(t *testing.T) {
	db := dbtest.Open(t)
	d, err := buildDeps(testConfig(), db)
	require.NoError(t, err)
	assert.NotNil(t, d.Gateway)
	assert.NotNil(t, d.Metrics)

	app := newApp(d)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/health", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	resp, err = app.Test(httptest.NewRequest("GET", "/tidak-ada", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)

	// route terproteksi tanpa token
	resp, err = app.Test(httptest.NewRequest("GET", "/api/v1/payments", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)
}

func TestBuildDepsRejectsUnknownStorage(t *testing.T) {
	cfg := testConfig()
	cfg.Storage.Driver = "ftp"
	_, err := buildDeps(cfg, dbtest.Open(t))
	assert.Error(t, err)
}

func TestRootHasSubcommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"serve", "migrate", "seed", "jobs"} {
		assert.True(t, names[want], want)
	}
}

func TestFiberConfigTrustsOnlyConfiguredProxies(t *testing.T) {
	clientIP := func(cfg *configs.Config) string {
		app := fiber.New(fiberConfig(cfg))
		app.Get("/ip", func(c *fiber.Ctx) error { return c.SendString(c.IP()) })
		req := httptest.NewRequest("GET", "/ip", nil)
		req.Header.Set(fiber.HeaderXForwardedFor, "203.0.113.9")
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		return string(body)
	}

	// default: header dari klien diabaikan
	cfg := testConfig()
	assert.Empty(t, cfg.ProxyList())
	assert.NotEqual(t, "203.0.113.9", clientIP(cfg))

	// app.Test memakai remote addr 0.0.0.0
	cfg.TrustedProxies = " 0.0.0.0/32 , ,10.0.0.0/8"
	assert.Equal(t, []string{"0.0.0.0/32", "10.0.0.0/8"}, cfg.ProxyList())
	assert.Equal(t, "203.0.113.9", clientIP(cfg))
}
