package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"

	"storefront/internal/config"
	"storefront/internal/http/handlers"
	applog "storefront/internal/log"
	"storefront/internal/store"
)

func main() {
	cfg := config.Load()

	lg := applog.New(applog.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Output: cfg.LogFile})
	applog.SetLogger(lg)
	defer func() { _ = lg.Sync() }()

	lg.Info("config.loaded",
		zap.String("env", cfg.Env),
		zap.String("port", cfg.Port),
		zap.String("store_driver", cfg.StoreDriver),
		zap.Bool("simulate_latency", cfg.SimulateLatency),
		zap.String("site_url", cfg.SiteURL),
	)

	st, err := store.Open(cfg.StoreDriver, cfg.DBDSN, store.RedisConfig{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
		Prefix:   cfg.RedisPrefix,
	})
	if err != nil {
		lg.Fatal("store.open.fail", zap.Error(err), zap.String("driver", cfg.StoreDriver))
	}
	defer st.Close()

	ctx := context.Background()
	seeded, err := store.Seed(ctx, st, store.Admin{Email: cfg.AdminEmail, Password: cfg.AdminPassword})
	if err != nil {
		lg.Fatal("store.seed.fail", zap.Error(err))
	}
	if len(seeded) > 0 {
		lg.Info("store.seeded", zap.Strings("keys", seeded))
	}

	deps, err := handlers.NewDeps(ctx, st, cfg)
	if err != nil {
		lg.Fatal("deps.fail", zap.Error(err))
	}

	app := fiber.New(fiber.Config{
		Views:        handlers.Views(),
		BodyLimit:    cfg.BodyLimit,
		ErrorHandler: handlers.ErrorHandler,
	})

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New(logger.Config{
		Output: zap.NewStdLog(lg.Named("access")).Writer(),
		Format: "${status} ${method} ${path} ${latency} ${locals:requestid}\n",
	}))
	app.Use(helmet.New())
	app.Use(handlers.AttachUser(deps.Auth))
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			p := c.Path()
			return p == "/healthz" || strings.HasPrefix(p, "/metrics")
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.global.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate limit exceeded, retry soon"})
		},
	}))

	handlers.Mount(app, deps)

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		lg.Info("server.shutdown")
		_ = app.ShutdownWithTimeout(10 * time.Second)
	}()

	lg.Info("server.listen", zap.String("addr", ":"+cfg.Port))
	if err := app.Listen(":" + cfg.Port); err != nil {
		lg.Fatal("server.listen.fail", zap.Error(err))
	}

	// last write of the cart before the store closes
	if err := deps.Cart.Persist(ctx); err != nil {
		lg.Error("cart.persist.fail", zap.Error(err))
	}
}
