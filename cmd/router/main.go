package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"infinite-experiment/router/dashboard/ui"
	"infinite-experiment/router/internal/common"
	"infinite-experiment/router/internal/config"
	"infinite-experiment/router/internal/db"
	"infinite-experiment/router/internal/db/repositories"
	"infinite-experiment/router/internal/discover"
	"infinite-experiment/router/internal/logging"
	"infinite-experiment/router/internal/metrics"
	"infinite-experiment/router/internal/router"
	"infinite-experiment/router/internal/routes"
	"infinite-experiment/router/internal/routing"
	"infinite-experiment/router/internal/services"
	"infinite-experiment/router/internal/workers"
)

const shutdownTimeout = 10 * time.Second

func main() {
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	params, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	if err := logging.Init(params.AppEnv); err != nil {
		log.Fatalf("❌ Failed to initialize logger: %v", err)
	}
	defer logging.Close()

	logging.Info("Router starting up",
		"environment", params.AppEnv,
		"timestamp", time.Now().Format(time.RFC3339),
	)

	if err := run(params); err != nil {
		logging.Error("Router stopped with error", "error", err.Error())
		logging.Close()
		os.Exit(1)
	}
	logging.Info("Router stopped")
}

func run(params *config.Params) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gdb, err := db.Open(params.DBDriver, params.DBDSN)
	if err != nil {
		return err
	}
	logging.Info("Connected to database (GORM)", "driver", params.DBDriver)

	sqlxDB, err := db.SQLX(gdb, params.DBDriver)
	if err != nil {
		return err
	}
	defer sqlxDB.Close()

	metricsReg := metrics.NewMetricsRegistry()
	repo := repositories.NewRouteRepository(gdb, sqlxDB)
	routeCache := routing.New()
	routeService := services.NewRouteService(routeCache, repo, metricsReg)

	if err := routeService.Load(ctx); err != nil {
		return err
	}
	if stats, err := repo.Stats(ctx); err == nil {
		logging.Info("Stored routes", "stats", stats)
	}

	cache, err := newCache(ctx, params)
	if err != nil {
		return err
	}
	defer cache.Close()

	sources := discover.ConnectDocker(ctx, params.Sockets())
	defer func() {
		for _, src := range sources {
			if c, ok := src.(io.Closer); ok {
				_ = c.Close()
			}
		}
	}()
	hosts := discover.NewAutocomplete(sources, cache, params.DiscoveryTTLDuration(), metricsReg)

	pages, err := ui.ParsePages()
	if err != nil {
		return err
	}

	admin := &http.Server{
		Addr: fmt.Sprintf(":%d", params.AdminPort),
		Handler: routes.RegisterRoutes(routes.Dependencies{
			Routes:         routeService,
			Store:          repo,
			Hosts:          hosts,
			Metrics:        metricsReg,
			Pages:          pages,
			UpSince:        time.Now(),
			AllowedOrigins: params.Origins(),
			RateLimit:      params.RateLimit,
			RateBurst:      params.RateBurst,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	routed := &http.Server{
		Addr:              fmt.Sprintf(":%d", params.Port),
		Handler:           router.NewServer(routeCache, router.NewTransport(params.ProxyTimeoutDuration()), metricsReg).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, srv := range []*http.Server{admin, routed} {
		srv := srv
		g.Go(func() error {
			logging.Info("Server starting", "addr", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server %s: %w", srv.Addr, err)
			}
			return nil
		})
	}

	if len(sources) > 0 {
		g.Go(func() error {
			workers.StartHostCacheFiller(gctx, hosts, params.DiscoveryTTLDuration())
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		logging.Info("Shutting down servers")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		return errors.Join(admin.Shutdown(shutdownCtx), routed.Shutdown(shutdownCtx))
	})

	err = g.Wait()

	// Pending route writes must reach the database before it closes.
	routeService.Wait()
	return err
}

func newCache(ctx context.Context, params *config.Params) (common.CacheInterface, error) {
	if params.CacheBackend == config.CacheRedis {
		cache, err := common.NewRedisCacheService(ctx, common.NewRedisClient(params.RedisAddr, params.RedisPassword), "router:")
		if err != nil {
			return nil, fmt.Errorf("error connecting to redis: %w", err)
		}
		logging.Info("Connected to Redis", "addr", params.RedisAddr)
		return cache, nil
	}
	return common.NewCacheService(params.DiscoveryTTLDuration(), 2*params.DiscoveryTTLDuration()), nil
}
