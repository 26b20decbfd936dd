package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/theleywin/vibora/src/lib"
	"github.com/theleywin/vibora/src/repository"
	"github.com/theleywin/vibora/src/server"
)

func main() {
	cfg, err := lib.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger, err := lib.NewLogger(cfg.LogLevel, cfg.Environment)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	store, ping, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to open store", zap.String("driver", cfg.Database.Driver), zap.Error(err))
	}
	defer closeStore()

	app := server.New(server.Deps{Config: cfg, Store: store, Logger: logger, Ping: ping})

	go func() {
		logger.Info("server is running", zap.String("port", cfg.Port), zap.String("driver", cfg.Database.Driver))
		if err := app.Listen(":" + cfg.Port); err != nil {
			logger.Fatal("server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Error("shutdown failed", zap.Error(err))
	}
}

// openStore connects the configured backend and prepares its schema
func openStore(ctx context.Context, cfg *lib.Config) (*repository.Store, func(context.Context) error, func(), error) {
	switch cfg.Database.Driver {
	case lib.DriverSQLite:
		db, err := lib.ConnectSQLite(cfg.Database.SQLitePath)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := repository.AutoMigrate(db); err != nil {
			return nil, nil, nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, nil, nil, err
		}
		return repository.NewSQLiteStore(db), sqlDB.PingContext, func() { _ = sqlDB.Close() }, nil

	default:
		client, db, err := lib.ConnectMongo(ctx, cfg.Database.MongoURI, cfg.Database.MongoDatabase)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := repository.EnsureMongoIndexes(ctx, db); err != nil {
			_ = client.Disconnect(ctx)
			return nil, nil, nil, err
		}
		ping := func(ctx context.Context) error { return client.Ping(ctx, nil) }
		return repository.NewMongoStore(db), ping, func() { _ = client.Disconnect(context.Background()) }, nil
	}
}
