package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/openlearn-hub-api/internal/models"
	"github.com/noah-isme/openlearn-hub-api/internal/repository"
	appErrors "github.com/noah-isme/openlearn-hub-api/pkg/errors"
)

type memoryCacheRepo struct {
	store map[string][]byte
	gets  int
	err   error
}

func (m *memoryCacheRepo) Get(_ context.Context, key string, dest interface{}) error {
	m.gets++
	if m.err != nil {
		return m.err
	}
	payload, ok := m.store[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(payload, dest)
}

func (m *memoryCacheRepo) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	if m.store == nil {
		m.store = make(map[string][]byte)
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.store[key] = payload
	return nil
}

func (m *memoryCacheRepo) DeleteByPattern(_ context.Context, _ string) error {
	m.store = nil
	return nil
}

type countingCatalog struct {
	*repository.CatalogRepository
	allCalls int
}

func (c *countingCatalog) All(ctx context.Context) ([]models.Resource, error) {
	c.allCalls++
	return c.CatalogRepository.All(ctx)
}

func newCatalog(t *testing.T) *countingCatalog {
	t.Helper()
	repo, err := repository.NewCatalogRepository(fixtureCatalog(), zap.NewNop())
	require.NoError(t, err)
	return &countingCatalog{CatalogRepository: repo}
}

func TestResourceServiceListUsesCache(t *testing.T) {
	catalog := newCatalog(t)
	metrics := NewMetricsService()
	cache := NewCacheService(&memoryCacheRepo{}, metrics, time.Minute, zap.NewNop(), true)
	svc := NewResourceService(catalog, cache, metrics, ResourceServiceConfig{}, zap.NewNop())
	ctx := context.Background()
	criteria := models.FilterCriteria{Category: "technology"}

	first, hit, err := svc.List(ctx, criteria)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, []string{"1", "4"}, ids(first))

	second, hit, err := svc.List(ctx, criteria)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, ids(first), ids(second))
	assert.Equal(t, 1, catalog.allCalls)

	stats := metrics.Snapshot()
	assert.Equal(t, uint64(1), stats.CacheHits)
	assert.Equal(t, uint64(1), stats.FilterEvaluations)
}

func TestResourceServiceListDegradesOnCacheFailure(t *testing.T) {
	catalog := newCatalog(t)
	cache := NewCacheService(&memoryCacheRepo{err: assert.AnError}, nil, time.Minute, zap.NewNop(), true)
	svc := NewResourceService(catalog, cache, nil, ResourceServiceConfig{}, nil)

	got, hit, err := svc.List(context.Background(), models.DefaultCriteria())
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Len(t, got, len(fixtureCatalog()))
}

func TestResourceServiceListWithoutCache(t *testing.T) {
	svc := NewResourceService(newCatalog(t), nil, nil, ResourceServiceConfig{}, nil)
	got, hit, err := svc.List(context.Background(), models.FilterCriteria{Search: "FIRST"})
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, []string{"3"}, ids(got))
}

func TestResourceServiceGet(t *testing.T) {
	svc := NewResourceService(newCatalog(t), nil, nil, ResourceServiceConfig{}, nil)

	res, err := svc.Get(context.Background(), "3")
	require.NoError(t, err)
	assert.Equal(t, "First Aid", res.Title)

	_, err = svc.Get(context.Background(), "404")
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
	assert.Equal(t, "resource not found", appErrors.FromError(err).Message)
}

func TestResourceServiceFeatured(t *testing.T) {
	svc := NewResourceService(newCatalog(t), nil, nil, ResourceServiceConfig{FeaturedLimit: 2}, nil)
	got, err := svc.Featured(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2"}, ids(got))

	svc = NewResourceService(newCatalog(t), nil, nil, ResourceServiceConfig{}, nil)
	got, err = svc.Featured(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, len(fixtureCatalog()))
}

func TestResourceServiceRelated(t *testing.T) {
	svc := NewResourceService(newCatalog(t), nil, nil, ResourceServiceConfig{}, nil)
	got, err := svc.Related(context.Background(), "1", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"4"}, ids(got))

	_, err = svc.Related(context.Background(), "missing", 3)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestResourceServiceTaxonomyCounts(t *testing.T) {
	svc := NewResourceService(newCatalog(t), nil, nil, ResourceServiceConfig{}, nil)
	tax, err := svc.Taxonomy(context.Background())
	require.NoError(t, err)

	counts := map[string]int{}
	for _, entry := range tax.Categories {
		counts[entry.ID] = entry.Count
	}
	assert.Equal(t, 2, counts["technology"])
	assert.Equal(t, 1, counts["exams"])
	assert.Equal(t, 0, counts["community"])
}

func TestResourceServiceReport(t *testing.T) {
	svc := NewResourceService(newCatalog(t), nil, nil, ResourceServiceConfig{}, nil)
	report, err := svc.Report(context.Background(), "2", "  broken link ")
	require.NoError(t, err)
	assert.Equal(t, "broken link", report.Reason)
	assert.Equal(t, "Thank you for reporting. We will review this resource.", report.Message)

	_, err = svc.Report(context.Background(), "nope", "")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestResourceServiceExport(t *testing.T) {
	svc := NewResourceService(newCatalog(t), nil, nil, ResourceServiceConfig{}, nil)
	ctx := context.Background()

	out, err := svc.Export(ctx, models.FilterCriteria{Category: "technology"}, "CSV")
	require.NoError(t, err)
	assert.Equal(t, 2, out.Count)
	assert.Contains(t, out.ContentType, "text/csv")
	assert.Contains(t, out.Filename, ".csv")
	records, err := csv.NewReader(bytes.NewReader(out.Body)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "Python for Beginners", records[1][1])

	pdf, err := svc.Export(ctx, models.DefaultCriteria(), "pdf")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", pdf.ContentType)

	_, err = svc.Export(ctx, models.DefaultCriteria(), "xlsx")
	assert.ErrorIs(t, err, appErrors.ErrUnsupportedFormat)
}

func TestSummarizeCount(t *testing.T) {
	assert.Equal(t, "0 resources found", SummarizeCount(0))
	assert.Equal(t, "1 resource found", SummarizeCount(1))
	assert.Equal(t, "3 resources found", SummarizeCount(3))
}

func TestListCacheKeyDistinguishesSearch(t *testing.T) {
	assert.NotEqual(t, ListCacheKey(models.FilterCriteria{Search: "go"}), ListCacheKey(models.FilterCriteria{Search: "go "}))
	assert.Equal(t, ListCacheKey(models.FilterCriteria{}), ListCacheKey(models.DefaultCriteria()))
}
