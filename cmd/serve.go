package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"gymku_backend/internals/configs"
	database "gymku_backend/internals/databases"
	txService "gymku_backend/internals/features/payment/transactions/service"
	helper "gymku_backend/internals/helpers"
	"gymku_backend/internals/helpers/cache"
	"gymku_backend/internals/helpers/metrics"
	"gymku_backend/internals/helpers/storage"
	"gymku_backend/internals/jobs"
	"gymku_backend/internals/middlewares"
	routes "gymku_backend/internals/route"
	routeDetails "gymku_backend/internals/route/details"
)

func serveCmd() *cobra.Command {
	var migrate bool
	c := &cobra.Command{
		Use:   "serve",
		Short: "Jalankan HTTP API (+ scheduler job)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, db, err := bootstrap()
			if err != nil {
				return err
			}
			defer database.Close(db)
			database.WarmUp(db)

			if migrate {
				if err := database.Migrate(db); err != nil {
					return err
				}
			}
			return serve(cfg, db)
		},
	}
	c.Flags().BoolVar(&migrate, "migrate", false, "jalankan AutoMigrate sebelum start")
	return c
}

// buildDeps merakit dependency bersama untuk route & job.
func buildDeps(cfg *configs.Config, db *gorm.DB) (routeDetails.Deps, error) {
	ch, err := cache.New(cfg.RedisURL)
	if err != nil {
		return routeDetails.Deps{}, err
	}
	disk, err := storage.New(cfg.Storage)
	if err != nil {
		return routeDetails.Deps{}, err
	}
	return routeDetails.Deps{
		DB:      db,
		Cfg:     cfg,
		Cache:   ch,
		Disk:    disk,
		Metrics: metrics.New(),
		Gateway: txService.NewMidtransGateway(cfg.Midtrans),
		Loc:     cfg.Location(),
	}, nil
}

// fiberConfig: X-Forwarded-For hanya dipercaya dari TRUSTED_PROXIES,
// kalau tidak rate limiter per-IP bisa diakali klien.
func fiberConfig(cfg *configs.Config) fiber.Config {
	return fiber.Config{
		// 🚀 JSON super cepat
		JSONEncoder:             sonic.Marshal,
		JSONDecoder:             sonic.Unmarshal,
		ErrorHandler:            helper.ErrorHandler(cfg.AppDebug),
		DisableStartupMessage:   true,
		BodyLimit:               8 * 1024 * 1024, // upload gambar
		ProxyHeader:             fiber.HeaderXForwardedFor,
		EnableTrustedProxyCheck: true,
		TrustedProxies:          cfg.ProxyList(),
		ReadTimeout:             15 * time.Second,
		WriteTimeout:            30 * time.Second,
		IdleTimeout:             90 * time.Second,
	}
}

// newApp fiber app lengkap dengan middleware global & semua route.
func newApp(d routeDetails.Deps) *fiber.App {
	app := fiber.New(fiberConfig(d.Cfg))

	middlewares.SetupMiddlewares(app, d.Cfg, d.Metrics)
	routes.SetupRoutes(app, d)
	return app
}

func serve(cfg *configs.Config, db *gorm.DB) error {
	d, err := buildDeps(cfg, db)
	if err != nil {
		return err
	}
	app := newApp(d)

	// ⏱ scheduler setelah DB siap
	var scheduler *cron.Cron
	if cfg.Jobs.Enabled {
		runner := newRunner(cfg, db, d.Cache, d.Metrics)
		if scheduler, err = jobs.Start(runner, cfg.Jobs, d.Loc); err != nil {
			return err
		}
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Msgf("✅ Listening on :%s", cfg.Port)
		errCh <- app.Listen("0.0.0.0:" + cfg.Port)
	}()

	// graceful shutdown: stop job -> tutup HTTP -> pool DB ditutup oleh caller
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("🛑 Shutdown...")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	jobs.Stop(ctx, scheduler)
	return app.ShutdownWithContext(ctx)
}
