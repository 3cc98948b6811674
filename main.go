package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"hypersonic/internal/api"
	"hypersonic/internal/clock"
	"hypersonic/internal/config"
	"hypersonic/internal/database"
	"hypersonic/internal/engine"
	"hypersonic/internal/logger"
	"hypersonic/internal/push"
	"hypersonic/internal/worker"

	webpush "github.com/SherClockHolmes/webpush-go"
	"github.com/alecthomas/kong"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
)

type CLI struct {
	Serve     ServeCmd     `cmd:"" default:"withargs" help:"Run the HyperSonic server (default)."`
	VapidKeys VapidKeysCmd `cmd:"" name:"vapid-keys" help:"Generate a VAPID key pair for web push."`
}

type ServeCmd struct {
	Config string `short:"c" default:"config.yaml" help:"Path to a YAML or JSON config file."`
	Port   int    `short:"p" help:"Override the listen port."`
	Debug  bool   `help:"Enable debug logging."`
}

type VapidKeysCmd struct{}

func (VapidKeysCmd) Run() error {
	privateKey, publicKey, err := webpush.GenerateVAPIDKeys()
	if err != nil {
		return fmt.Errorf("failed to generate VAPID keys: %w", err)
	}
	fmt.Printf("VAPID_PUBLIC_KEY=%s\nVAPID_PRIVATE_KEY=%s\n", publicKey, privateKey)
	return nil
}

func (s ServeCmd) Run() error {
	cfg, err := config.Load(s.Config)
	if err != nil {
		return err
	}
	if s.Port != 0 {
		cfg.Server.Port = s.Port
	}
	if s.Debug {
		cfg.Log.Debug = true
	}

	if err := logger.Init(logger.Config{Debug: cfg.Log.Debug, Dir: cfg.Log.Dir}); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	store, db, err := openStore(cfg.Storage)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	if cfg.Push.PublicKey == "" || cfg.Push.PrivateKey == "" {
		privateKey, publicKey, err := webpush.GenerateVAPIDKeys()
		if err != nil {
			return fmt.Errorf("failed to generate VAPID keys: %w", err)
		}
		cfg.Push.PublicKey, cfg.Push.PrivateKey = publicKey, privateKey
		logger.Warn("VAPID keys not set, using an ephemeral pair. Clients must re-subscribe after restart. Set VAPID_PUBLIC_KEY and VAPID_PRIVATE_KEY for production.")
	}

	clk := clock.New()
	subscriptions := push.NewMemoryStore()
	sender := push.NewSender(subscriptions, push.VAPID{
		Subject:    cfg.Push.Subject,
		PublicKey:  cfg.Push.PublicKey,
		PrivateKey: cfg.Push.PrivateKey,
		TTL:        cfg.Push.TTL,
	})

	eng := engine.New(clk, store, sender)
	eng.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Workers.Enabled {
		go worker.Run(ctx, eng, cfg.Workers.Interval)
	} else {
		logger.Info("Background workers disabled (set ENABLE_WORKERS=true to enable)")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ErrorHandler: api.ErrorHandler,
	})

	app.Use(fiberlogger.New())
	logger.Info("CORS configured", "origins", cfg.Server.AllowedOrigins)
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Server.AllowedOrigins,
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))

	api.SetupRoutes(app, api.Services{
		Engine:        eng,
		Clock:         clk,
		Subscriptions: subscriptions,
		Sender:        sender,
		App:           cfg.App,
	})

	go func() {
		<-ctx.Done()
		logger.Info("Shutting down")
		if err := app.Shutdown(); err != nil {
			logger.Error("Shutdown failed", "error", err)
		}
	}()

	logger.Info(cfg.App.Name+" serving", "addr", cfg.Addr(), "description", cfg.App.Description)
	return app.Listen(cfg.Addr())
}

func openStore(cfg config.Storage) (engine.Store, *sql.DB, error) {
	if cfg.Driver == config.DriverFile {
		logger.Info("Using JSON file storage", "path", cfg.Path)
		return database.NewFileStore(cfg.Path), nil, nil
	}

	db, err := database.Initialize(cfg.Path, cfg.EncryptionKey)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	logger.Info("Using sqlite storage", "path", cfg.Path)
	return database.NewSQLiteStore(db), db, nil
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("hypersonic"),
		kong.Description("Self-discipline tracker with a fixed UTC+6 daily reset and web push reminders."),
		kong.UsageOnError(),
	)
	if err := ctx.Run(); err != nil {
		logger.Error("Command failed", "error", err)
		ctx.FatalIfErrorf(err)
	}
}
