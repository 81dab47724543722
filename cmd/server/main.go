package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"buurtmarkt/internal/api"
	"buurtmarkt/internal/api/handlers"
	"buurtmarkt/internal/api/middleware"
	"buurtmarkt/internal/config"
	"buurtmarkt/internal/discovery"
	"buurtmarkt/internal/geo"
	"buurtmarkt/internal/geocode"
	"buurtmarkt/internal/location"
	"buurtmarkt/internal/logger"
	"buurtmarkt/internal/metrics"
	"buurtmarkt/internal/repository/memory"
	"buurtmarkt/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	defer log.Sync()

	m := metrics.New(prometheus.DefaultRegisterer)

	// Geocoding: PDOK client behind a process cache, optionally shared
	// through Redis.
	client := geocode.NewPDOKClient(cfg.Geocoder.BaseURL, cfg.Geocoder.Timeout, log)
	var cache geocode.Cache = geocode.NewMemoryCache(cfg.Cache.MaxEntries)
	if cfg.Cache.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Cache.RedisAddr})
		defer rdb.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			log.Warn("redis not reachable, geocode cache stays process-local",
				zap.String("addr", cfg.Cache.RedisAddr), zap.Error(err))
		}
		cancel()
		cache = geocode.NewTieredCache(cache, geocode.NewRedisCache(rdb, cfg.Cache.RedisTTL, log))
	}

	// Initialize repositories
	sessionRepo := memory.NewSessionRepository(cfg.Session.TTL, cfg.Session.SweepInterval)
	defer sessionRepo.Stop()
	profileRepo := memory.NewProfileRepository()
	listingRepo := memory.NewListingRepository()
	personRepo := memory.NewPersonRepository()

	if cfg.Server.SeedDemoData {
		if err := seedDemoData(context.Background(), profileRepo, listingRepo, personRepo); err != nil {
			log.Fatal("failed to seed demo data", zap.Error(err))
		}
		log.Info("demo data loaded")
	}

	// Initialize services
	locationService := services.NewLocationService(sessionRepo, profileRepo, func() *location.Resolver {
		return location.NewResolver(client, cache,
			location.WithDeviceTimeout(cfg.Location.DeviceTimeout),
			location.WithMetrics(m),
			location.WithLogger(log),
		)
	}, log)
	sessionRepo.OnExpire(locationService.HandleExpired)

	policy := geo.NewRadiusPolicy(geo.DefaultCategoryRadiiKm, cfg.Discovery.DefaultRadiusKm, geo.DefaultUnlimitedRegions)
	pipeline := discovery.NewPipeline(policy, discovery.Config{
		ParallelThreshold: cfg.Discovery.ParallelThreshold,
		Workers:           cfg.Discovery.Workers,
	}, m, log)
	discoveryService := services.NewDiscoveryService(listingRepo, personRepo, locationService, pipeline)

	// Initialize handlers
	sessionHandler := handlers.NewSessionHandler(locationService)
	locationHandler := handlers.NewLocationHandler(locationService)
	discoveryHandler := handlers.NewDiscoveryHandler(discoveryService)

	// Setup router
	router := api.NewRouter(sessionHandler, locationHandler, discoveryHandler, promhttp.Handler())

	engine := gin.New()
	engine.Use(gin.Recovery(), middleware.RequestID(), middleware.RequestLogger(log, m))
	router.Setup(engine)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info("starting buurtmarkt discovery server", zap.String("addr", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("forced shutdown", zap.Error(err))
	}
}
