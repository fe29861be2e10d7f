package app

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"armario-outfits/app/controller"
	"armario-outfits/app/router"
	"armario-outfits/config"
	"armario-outfits/db"
	"armario-outfits/outfit"
	"armario-outfits/repository"
	"armario-outfits/service"
)

// App is the initialized service
type App struct {
	Handler http.Handler
	redis   *redis.Client
}

// Close releases the connections opened by Initialize
func (a *App) Close() {
	if a.redis != nil {
		a.redis.Close()
	}
	db.CloseDB()
}

// Initialize initializes the application
func Initialize(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, error) {
	dsn, err := cfg.DSN()
	if err != nil {
		return nil, err
	}

	// Initialize database connection
	if err := db.InitDB(cfg.DBDriver, dsn); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	log.Info("✓ Database connection established successfully", zap.String("driver", cfg.DBDriver))
	if cfg.AutoMigrate {
		if err := db.Migrate(ctx, db.DB); err != nil {
			db.CloseDB()
			return nil, err
		}
		log.Info("✓ Catalog schema applied")
	}

	rules, err := outfit.LoadRuleBook(cfg.RulesPath)
	if err != nil {
		db.CloseDB()
		return nil, err
	}

	metrics := outfit.NewMetrics()
	metrics.Register(prometheus.DefaultRegisterer)

	// Initialize repositories
	catalogRepo := repository.NewCatalogRepository(db.DB, repository.DialectFor(cfg.DBDriver), log.Named("catalog"))

	a := &App{}
	var sessions repository.SessionRepositoryInterface
	if cfg.RedisAddr != "" {
		client, err := repository.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, log)
		if err != nil {
			db.CloseDB()
			return nil, err
		}
		a.redis = client
		sessions = repository.NewSessionRepository(client, cfg.SessionTTL, log.Named("sessions"))
	} else {
		log.Info("Redis not configured, shuffle sessions are client-side only")
	}

	engine := outfit.NewEngine(catalogRepo, rules,
		outfit.Config{PoolSize: cfg.PoolSize, Timeout: cfg.ComposeTimeout},
		log.Named("outfit"), metrics,
		outfit.NewRanked(cfg.RankedPerSlot, cfg.RankedMaxItems),
		outfit.NewSampled(cfg.SampledPerRole, rand.New(rand.NewSource(time.Now().UnixNano()))),
	)

	// Initialize services
	outfitService := service.NewOutfitService(engine, catalogRepo, sessions, log.Named("service"))
	lookboardService := service.NewLookboardService(catalogRepo, &http.Client{Timeout: cfg.ImageFetchTimeout}, cfg.LookboardCacheDir, log.Named("lookboard"))

	// Create controllers
	controllers := &router.Controllers{
		Outfit: controller.NewOutfitController(outfitService, lookboardService, log.Named("http")),
	}

	a.Handler = router.SetupRoutes(controllers, log, prometheus.DefaultGatherer)
	return a, nil
}
