package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/noah-isme/openlearn-hub-api/internal/models"
)

func TestLoadCatalogSeed(t *testing.T) {
	repo, err := LoadCatalog("", zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 12, repo.Count())

	all, err := repo.All(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "1", all[0].ID)
	assert.Equal(t, "12", all[len(all)-1].ID)
	for _, res := range all {
		assert.True(t, res.Category.Valid(), res.ID)
		assert.True(t, res.Level.Valid(), res.ID)
		assert.True(t, res.Type.Valid(), res.ID)
	}
}

func TestLoadCatalogJSONFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.json")
	doc := `{"resources":[{"id":"a","title":"Go by Example","description":"Hands-on intro","category":"technology","level":"beginner","type":"website","url":"https://gobyexample.com","tags":["go"],"createdAt":"2024-05-01","views":3}]}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	repo, err := LoadCatalog(path, nil)
	require.NoError(t, err)
	res, err := repo.FindByID(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, "Go by Example", res.Title)
	require.NotNil(t, res.Views)
	assert.Equal(t, 3, *res.Views)
}

func TestLoadCatalogRejectsUnknownExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.txt")
	require.NoError(t, os.WriteFile(path, []byte("resources: []"), 0o644))

	_, err := LoadCatalog(path, nil)
	assert.Error(t, err)
}

func TestParseCatalogSchemaViolation(t *testing.T) {
	_, err := ParseCatalog([]byte(`
resources:
  - id: "x"
    title: "Missing fields"
    views: -1
`), FormatYAML)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema validation failed")
}

func TestNewCatalogRepositoryRejectsDuplicates(t *testing.T) {
	_, err := NewCatalogRepository([]models.Resource{
		{ID: "1", Title: "One"},
		{ID: "1", Title: "Again"},
	}, nil)
	assert.Error(t, err)
}

func TestNewCatalogRepositoryKeepsUnknownEnumValues(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	repo, err := NewCatalogRepository([]models.Resource{
		{ID: "1", Title: "Odd", Category: "astronomy", Level: models.LevelBeginner, Type: models.TypeVideo},
	}, zap.New(core))
	require.NoError(t, err)
	assert.Equal(t, 1, repo.Count())
	assert.Equal(t, 1, logs.Len())
}

func TestAllReturnsCopies(t *testing.T) {
	repo, err := NewCatalogRepository([]models.Resource{
		{ID: "1", Title: "One", Tags: []string{"go"}},
	}, nil)
	require.NoError(t, err)

	first, err := repo.All(context.Background())
	require.NoError(t, err)
	first[0].Tags[0] = "mutated"
	first[0].Title = "mutated"

	again, err := repo.All(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "go", again[0].Tags[0])
	assert.Equal(t, "One", again[0].Title)
}

func TestFindByIDNotFound(t *testing.T) {
	repo, err := NewCatalogRepository(nil, nil)
	require.NoError(t, err)
	_, err = repo.FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrResourceNotFound)
}

func TestTaxonomyCoversEnumerations(t *testing.T) {
	repo, err := NewCatalogRepository(nil, nil)
	require.NoError(t, err)
	tax := repo.Taxonomy()
	assert.Len(t, tax.Categories, len(models.Categories()))
	assert.Len(t, tax.Levels, len(models.Levels()))
	assert.Len(t, tax.Types, len(models.ResourceTypes()))
}
