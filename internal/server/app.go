package server

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/noah-isme/openlearn-hub-api/internal/models"
	"github.com/noah-isme/openlearn-hub-api/internal/repository"
	"github.com/noah-isme/openlearn-hub-api/internal/service"
	"github.com/noah-isme/openlearn-hub-api/pkg/cache"
	"github.com/noah-isme/openlearn-hub-api/pkg/config"
	"github.com/noah-isme/openlearn-hub-api/pkg/jobs"
	"github.com/noah-isme/openlearn-hub-api/pkg/middleware/ratelimit"
)

const cacheNamespace = "openlearn"

// App holds the wired service graph shared by the HTTP server.
type App struct {
	Config      *config.Config
	Logger      *zap.Logger
	Catalog     *repository.CatalogRepository
	Metrics     *service.MetricsService
	Resources   *service.ResourceService
	Submissions *service.SubmissionService
	Intake      *jobs.Queue[models.SubmissionReceipt]
	Limiter     *ratelimit.Limiter
	Validator   *validator.Validate

	redis *redis.Client
}

// Build loads the catalog and wires services. Redis is optional: when it is
// disabled the result cache always misses.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	catalog, err := repository.LoadCatalog(cfg.Catalog.Path, logger)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	redisClient, err := cache.NewRedis(ctx, cfg.Redis, cfg.Cache.Enabled)
	if err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}

	metrics := service.NewMetricsService()
	cacheRepo := repository.NewCacheRepository(redisClient, cacheNamespace, logger)
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Cache.TTL, logger, cfg.Cache.Enabled)

	resources := service.NewResourceService(catalog, cacheSvc, metrics, service.ResourceServiceConfig{
		FeaturedLimit: cfg.Catalog.FeaturedLimit,
		CacheTTL:      cfg.Cache.TTL,
	}, logger)

	var intake *jobs.Queue[models.SubmissionReceipt]
	handler := service.NewReviewHandler(cfg.Submissions.ReviewDelay, func() jobs.Stats { return intake.Stats() }, metrics, logger.Named("intake"))
	intake = jobs.NewQueue("submission-intake", handler, jobs.QueueConfig{
		Workers:    cfg.Submissions.Workers,
		MaxRetries: cfg.Submissions.Retries,
		Logger:     logger,
	})

	submissions := service.NewSubmissionService(intake, metrics, service.SubmissionServiceConfig{
		MaxSizeMB:          cfg.Uploads.MaxSizeMB,
		AcceptedExtensions: cfg.Uploads.AcceptedExtensions,
	}, logger)

	return &App{
		Config:      cfg,
		Logger:      logger,
		Catalog:     catalog,
		Metrics:     metrics,
		Resources:   resources,
		Submissions: submissions,
		Intake:      intake,
		Limiter:     ratelimit.New(cfg.RateLimit.RPS, cfg.RateLimit.Burst),
		Validator:   validator.New(),
		redis:       redisClient,
	}, nil
}

// Start launches background workers. They stop when ctx is cancelled or Close is called.
func (a *App) Start(ctx context.Context) {
	a.Intake.Start(ctx)
	go a.Limiter.Run(ctx)
}

// Close drains the intake queue and releases Redis.
func (a *App) Close() error {
	a.Intake.Stop()
	if a.redis != nil {
		return a.redis.Close()
	}
	return nil
}
