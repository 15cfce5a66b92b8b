package main

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"storefront/internal/account"
	"storefront/internal/app"
	"storefront/internal/auth"
	"storefront/internal/catalog"
	"storefront/internal/config"
	"storefront/internal/images"
	"storefront/internal/mongodb"
	"storefront/pkg/kit"
)

const service = "storefront"

func main() {
	log := kit.NewLogger(service)
	defer func() { _ = log.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config", zap.Error(err))
	}

	// An unreachable store is fatal: the original served traffic against a
	// dead database and that behavior is not reproduced.
	client, err := mongodb.Connect(context.Background(), cfg.MongoURI)
	if err != nil {
		log.Fatal("mongodb connect", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(ctx)
	}()

	db := client.Database(cfg.MongoDB)
	if err := mongodb.EnsureIndexes(context.Background(), db); err != nil {
		log.Fatal("mongodb indexes", zap.Error(err))
	}

	imgStore, err := images.NewStore(cfg.ImageDir, cfg.ImageBaseURL)
	if err != nil {
		log.Fatal("image store", zap.Error(err))
	}

	h := app.NewHandler(app.Deps{
		Log:            log,
		Service:        service,
		Registry:       prometheus.NewRegistry(),
		MetricsEnabled: cfg.MetricsEnabled,
		MetricsToken:   cfg.MetricsToken,

		Accounts: account.NewMongoStore(db.Collection(mongodb.AccountsCollection)),
		Catalog:  catalog.NewMongoStore(db.Collection(mongodb.ProductsCollection)),
		Images:   imgStore,
		Tokens:   auth.NewTokenMaker(cfg.JWTSecret),
	})

	if err := kit.RunHTTPServer(":"+cfg.Port, h, log); err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
}
