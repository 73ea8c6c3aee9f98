package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/angelmondragon/storefront-backend/api/controllers"
	"github.com/angelmondragon/storefront-backend/api/routes"
	"github.com/angelmondragon/storefront-backend/internal/cart"
	"github.com/angelmondragon/storefront-backend/internal/catalog"
	"github.com/angelmondragon/storefront-backend/internal/checkout"
	"github.com/angelmondragon/storefront-backend/internal/sessions"
	"github.com/angelmondragon/storefront-backend/internal/storefront"
	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/angelmondragon/storefront-backend/pkg/db"
	"github.com/angelmondragon/storefront-backend/pkg/instance"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/metrics"
	"github.com/angelmondragon/storefront-backend/pkg/migrate"
	"github.com/angelmondragon/storefront-backend/pkg/money"
	"github.com/angelmondragon/storefront-backend/pkg/pubsub"
	"github.com/angelmondragon/storefront-backend/pkg/redis"
)

const sessionSweepInterval = 5 * time.Minute

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Format:      cfg.App.LogFormat,
	})

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var closers []func() error
	closeAll := func() {
		var errs error
		for i := len(closers) - 1; i >= 0; i-- {
			errs = multierr.Append(errs, closers[i]())
		}
		if errs != nil {
			logg.Error(context.Background(), "error releasing resources", errs)
		}
	}
	defer closeAll()

	readiness := map[string]controllers.Pinger{}

	var productCatalog catalog.Catalog = catalog.NewStatic(catalog.DefaultProducts())
	if cfg.Catalog.UsesDatabase() {
		dbClient, err := db.New(runCtx, cfg.DB, logg)
		if err != nil {
			logg.Error(runCtx, "failed to bootstrap database", err)
			os.Exit(1)
		}
		closers = append(closers, dbClient.Close)
		readiness["database"] = dbClient

		if err := migrate.MaybeRun(runCtx, cfg, logg, dbClient); err != nil {
			logg.Error(runCtx, "failed to run migrations", err)
			os.Exit(1)
		}
		productCatalog = catalog.NewRepository(dbClient.DB())
	}

	var (
		sessionStore sessions.Store
		orderIDs     checkout.IDGenerator = checkout.UUIDGenerator{}
	)
	if cfg.Session.UsesRedis() {
		redisClient, err := redis.New(runCtx, cfg.Redis, logg)
		if err != nil {
			logg.Error(runCtx, "failed to bootstrap redis", err)
			os.Exit(1)
		}
		closers = append(closers, redisClient.Close)
		readiness["redis"] = redisClient

		store, err := sessions.NewRedisStore(redisClient, cfg.Session.TTL)
		if err != nil {
			logg.Error(runCtx, "failed to create redis session store", err)
			os.Exit(1)
		}
		sessionStore = store
		orderIDs = sessions.NewCounterIDs(redisClient)
	} else {
		store := sessions.NewMemoryStore(cfg.Session.TTL)
		sessionStore = store
		go sweepSessions(runCtx, logg, store)
	}

	var events pubsub.EventPublisher = pubsub.NoopPublisher{}
	if cfg.PubSub.Enabled {
		psClient, err := pubsub.NewClient(runCtx, cfg.GCP, cfg.PubSub, logg)
		if err != nil {
			logg.Error(runCtx, "failed to bootstrap pubsub", err)
			os.Exit(1)
		}
		closers = append(closers, psClient.Close)
		readiness["pubsub"] = psClient

		publisher, err := pubsub.NewTopicPublisher(psClient.OrdersPublisher())
		if err != nil {
			logg.Error(runCtx, "failed to create orders publisher", err)
			os.Exit(1)
		}
		closers = append(closers, func() error {
			publisher.Stop()
			return nil
		})
		events = publisher
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	storefrontService, err := storefront.NewService(storefront.Deps{
		Catalog: productCatalog,
		Store:   sessionStore,
		IDs:     orderIDs,
		Events:  events,
		Metrics: metrics.NewStorefrontMetrics(registry),
		Logger:  logg,
		Shipping: cart.ShippingPolicy{
			FlatFee:       cfg.Shipping.FlatFee,
			FreeThreshold: cfg.Shipping.FreeThreshold,
		},
		Money: money.NewFormatter(cfg.Currency),
	})
	if err != nil {
		logg.Error(runCtx, "failed to create storefront service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(runCtx, map[string]any{
		"env":           cfg.App.Env,
		"addr":          addr,
		"instance":      instance.GetID(),
		"catalog":       cfg.Catalog.Source,
		"session_store": cfg.Session.Store,
		"pubsub":        cfg.PubSub.Enabled,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(cfg, logg, registry, readiness, storefrontService),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			closeAll()
			os.Exit(1)
		}
	case <-runCtx.Done():
		logg.Info(ctx, "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "api server shutdown failed", err)
		}
	}
}

func sweepSessions(ctx context.Context, logg *logger.Logger, store *sessions.MemoryStore) {
	ticker := time.NewTicker(sessionSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := store.Sweep(); removed > 0 {
				logg.Debug(logg.WithField(ctx, "removed", removed), "session.sweep")
			}
		}
	}
}
