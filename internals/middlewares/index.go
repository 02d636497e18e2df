package middlewares

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"

	"gymku_backend/internals/configs"
	"gymku_backend/internals/helpers/metrics"
	"gymku_backend/internals/middlewares/logger"
)

// SetupMiddlewares middleware global (urutan penting: recover paling luar).
func SetupMiddlewares(app *fiber.App, cfg *configs.Config, m *metrics.Metrics) {
	app.Use(RecoveryMiddleware())
	app.Use(RequestContext(5 * time.Second))
	app.Use(logger.LoggerMiddleware(cfg.TZName))
	app.Use(CorsMiddleware(cfg.CORSOrigins))
	app.Use(compress.New(compress.Config{Level: compress.LevelDefault}))
	app.Use(etag.New())
	if m != nil {
		app.Use(MetricsMiddleware(m))
	}
}
