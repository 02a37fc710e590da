package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/openlearn-hub-api/internal/models"
	"github.com/noah-isme/openlearn-hub-api/internal/repository"
	appErrors "github.com/noah-isme/openlearn-hub-api/pkg/errors"
	"github.com/noah-isme/openlearn-hub-api/pkg/export"
)

// CatalogRepository describes the read-only catalog store required by ResourceService.
type CatalogRepository interface {
	All(ctx context.Context) ([]models.Resource, error)
	FindByID(ctx context.Context, id string) (*models.Resource, error)
	Count() int
	Taxonomy() models.Taxonomy
}

// Export formats.
const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
)

const (
	defaultFeaturedLimit  = 6
	defaultRelatedLimit   = 3
	reportAcknowledgement = "Thank you for reporting. We will review this resource."
)

type renderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
	ContentType() string
}

// ResourceServiceConfig tunes catalog reads.
type ResourceServiceConfig struct {
	FeaturedLimit int
	CacheTTL      time.Duration
}

// ExportResult is a rendered catalog listing.
type ExportResult struct {
	Filename    string
	ContentType string
	Body        []byte
	Count       int
}

// ResourceService serves catalog reads on top of the filter engine.
type ResourceService struct {
	repo      CatalogRepository
	cache     *CacheService
	metrics   *MetricsService
	logger    *zap.Logger
	cfg       ResourceServiceConfig
	renderers map[string]renderer
	now       func() time.Time
}

// NewResourceService constructs a resource service. cache and metrics may be nil.
func NewResourceService(repo CatalogRepository, cache *CacheService, metrics *MetricsService, cfg ResourceServiceConfig, logger *zap.Logger) *ResourceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.FeaturedLimit <= 0 {
		cfg.FeaturedLimit = defaultFeaturedLimit
	}
	return &ResourceService{
		repo:    repo,
		cache:   cache,
		metrics: metrics,
		logger:  logger,
		cfg:     cfg,
		renderers: map[string]renderer{
			ExportFormatCSV: export.NewCSVExporter(),
			ExportFormatPDF: export.NewPDFExporter(),
		},
		now: time.Now,
	}
}

// List returns the catalog filtered by criteria. The boolean reports a cache hit.
// Cache failures degrade to a direct evaluation.
func (s *ResourceService) List(ctx context.Context, criteria models.FilterCriteria) ([]models.Resource, bool, error) {
	criteria = criteria.Normalize()
	key := ListCacheKey(criteria)

	if s.cache.Enabled() {
		var cached []models.Resource
		hit, err := s.cache.Get(ctx, key, &cached)
		if err == nil && hit {
			return cached, true, nil
		}
	}

	catalog, err := s.repo.All(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("load catalog: %w", err)
	}

	start := time.Now()
	result := FilterResources(catalog, criteria)
	s.metrics.ObserveFilter(time.Since(start), len(result))

	if s.cache.Enabled() {
		_ = s.cache.Set(ctx, key, result, s.cfg.CacheTTL)
	}
	return result, false, nil
}

// Get returns a single resource or ErrNotFound.
func (s *ResourceService) Get(ctx context.Context, id string) (*models.Resource, error) {
	res, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrResourceNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "resource not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load resource")
	}
	return res, nil
}

// Featured returns the first FeaturedLimit resources in catalog order.
func (s *ResourceService) Featured(ctx context.Context) ([]models.Resource, error) {
	catalog, err := s.repo.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	if len(catalog) > s.cfg.FeaturedLimit {
		catalog = catalog[:s.cfg.FeaturedLimit]
	}
	return catalog, nil
}

// Related returns up to limit other resources sharing the category of id, in catalog order.
func (s *ResourceService) Related(ctx context.Context, id string, limit int) ([]models.Resource, error) {
	if limit <= 0 {
		limit = defaultRelatedLimit
	}
	target, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	catalog, err := s.repo.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	siblings := FilterResources(catalog, models.FilterCriteria{Category: string(target.Category)})
	out := make([]models.Resource, 0, limit)
	for _, res := range siblings {
		if res.ID == target.ID {
			continue
		}
		out = append(out, res)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

// Taxonomy returns the lookup tables with resource counts per entry.
func (s *ResourceService) Taxonomy(ctx context.Context) (models.Taxonomy, error) {
	catalog, err := s.repo.All(ctx)
	if err != nil {
		return models.Taxonomy{}, fmt.Errorf("load catalog: %w", err)
	}
	byCategory := map[string]int{}
	byLevel := map[string]int{}
	byType := map[string]int{}
	for _, res := range catalog {
		byCategory[string(res.Category)]++
		byLevel[string(res.Level)]++
		byType[string(res.Type)]++
	}

	tax := s.repo.Taxonomy()
	applyCounts(tax.Categories, byCategory)
	applyCounts(tax.Levels, byLevel)
	applyCounts(tax.Types, byType)
	return tax, nil
}

func applyCounts(entries []models.TaxonomyEntry, counts map[string]int) {
	for i := range entries {
		entries[i].Count = counts[entries[i].ID]
	}
}

// Report acknowledges a viewer report about a resource. Reports are logged, not stored.
func (s *ResourceService) Report(ctx context.Context, id, reason string) (*models.ResourceReport, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	report := &models.ResourceReport{
		ResourceID: id,
		Reason:     strings.TrimSpace(reason),
		Message:    reportAcknowledgement,
		ReportedAt: s.now().UTC(),
	}
	s.logger.Info("resource reported", zap.String("resource_id", id), zap.String("reason", report.Reason))
	return report, nil
}

// Export renders the filtered catalog as CSV or PDF.
func (s *ResourceService) Export(ctx context.Context, criteria models.FilterCriteria, format string) (*ExportResult, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = ExportFormatCSV
	}
	r, ok := s.renderers[format]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrUnsupportedFormat, fmt.Sprintf("unsupported export format %q", format))
	}

	resources, _, err := s.List(ctx, criteria)
	if err != nil {
		return nil, err
	}

	body, err := r.Render(resourceDataset(resources), "OpenLearn Hub resources: "+SummarizeCount(len(resources)))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}
	return &ExportResult{
		Filename:    fmt.Sprintf("resources-%s.%s", s.now().UTC().Format("20060102-150405"), format),
		ContentType: r.ContentType(),
		Body:        body,
		Count:       len(resources),
	}, nil
}

// SummarizeCount renders the human result count, e.g. "1 resource found".
func SummarizeCount(n int) string {
	if n == 1 {
		return "1 resource found"
	}
	return fmt.Sprintf("%d resources found", n)
}

func resourceDataset(resources []models.Resource) export.Dataset {
	ds := export.Dataset{
		Columns: []export.Column{
			{Key: "id", Title: "ID", Width: 0.6},
			{Key: "title", Title: "Title", Width: 3},
			{Key: "category", Title: "Category", Width: 1.2},
			{Key: "level", Title: "Level", Width: 1.2},
			{Key: "type", Title: "Type", Width: 1},
			{Key: "url", Title: "URL", Width: 3},
			{Key: "tags", Title: "Tags", Width: 2},
			{Key: "views", Title: "Views", Width: 0.8},
		},
		Rows: make([]map[string]string, 0, len(resources)),
	}
	for _, res := range resources {
		views := ""
		if res.Views != nil {
			views = strconv.Itoa(*res.Views)
		}
		ds.Rows = append(ds.Rows, map[string]string{
			"id":       res.ID,
			"title":    res.Title,
			"category": string(res.Category),
			"level":    string(res.Level),
			"type":     string(res.Type),
			"url":      res.URL,
			"tags":     strings.Join(res.Tags, ";"),
			"views":    views,
		})
	}
	return ds
}

// CatalogSize returns the number of catalog entries.
func (s *ResourceService) CatalogSize() int {
	return s.repo.Count()
}
