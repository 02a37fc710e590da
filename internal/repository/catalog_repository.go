package repository

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/noah-isme/openlearn-hub-api/internal/models"
)

//go:embed seed/catalog.yaml seed/catalog.schema.json
var seedFS embed.FS

// ErrResourceNotFound is returned when no catalog entry has the requested id.
var ErrResourceNotFound = errors.New("catalog: resource not found")

// Catalog document formats.
const (
	FormatYAML = "yaml"
	FormatJSON = "json"
)

type catalogDocument struct {
	Resources []models.Resource `json:"resources" yaml:"resources"`
}

// CatalogRepository is a read-only in-memory catalog fixed at construction.
type CatalogRepository struct {
	resources []models.Resource
	index     map[string]int
	logger    *zap.Logger
}

// NewCatalogRepository builds a repository over resources. Ids must be unique and non-empty.
// Unknown enumeration values are kept and only logged.
func NewCatalogRepository(resources []models.Resource, logger *zap.Logger) (*CatalogRepository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	repo := &CatalogRepository{
		resources: make([]models.Resource, 0, len(resources)),
		index:     make(map[string]int, len(resources)),
		logger:    logger,
	}
	for i, res := range resources {
		if strings.TrimSpace(res.ID) == "" {
			return nil, fmt.Errorf("catalog entry %d: empty id", i)
		}
		if strings.TrimSpace(res.Title) == "" {
			return nil, fmt.Errorf("catalog entry %q: empty title", res.ID)
		}
		if _, dup := repo.index[res.ID]; dup {
			return nil, fmt.Errorf("catalog entry %q: duplicate id", res.ID)
		}
		if !res.Category.Valid() || !res.Level.Valid() || !res.Type.Valid() {
			logger.Warn("catalog entry has unrecognised enumeration value",
				zap.String("id", res.ID),
				zap.String("category", string(res.Category)),
				zap.String("level", string(res.Level)),
				zap.String("type", string(res.Type)),
			)
		}
		if res.Tags == nil {
			res.Tags = []string{}
		}
		repo.index[res.ID] = len(repo.resources)
		repo.resources = append(repo.resources, res.Clone())
	}
	return repo, nil
}

// LoadCatalog reads the catalog at path, or the embedded seed catalog when path is empty.
func LoadCatalog(path string, logger *zap.Logger) (*CatalogRepository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var (
		data   []byte
		format = FormatYAML
		err    error
	)
	if path == "" {
		data, err = seedFS.ReadFile("seed/catalog.yaml")
		if err != nil {
			return nil, fmt.Errorf("read seed catalog: %w", err)
		}
	} else {
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", path, err)
		}
		format, err = formatFromPath(path)
		if err != nil {
			return nil, err
		}
	}

	resources, err := ParseCatalog(data, format)
	if err != nil {
		return nil, err
	}
	repo, err := NewCatalogRepository(resources, logger)
	if err != nil {
		return nil, err
	}
	source := path
	if source == "" {
		source = "embedded seed"
	}
	logger.Info("catalog loaded", zap.String("source", source), zap.Int("resources", repo.Count()))
	return repo, nil
}

// ParseCatalog decodes a catalog document and checks it against the catalog JSON Schema.
func ParseCatalog(data []byte, format string) ([]models.Resource, error) {
	var generic interface{}
	var doc catalogDocument

	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &generic); err != nil {
			return nil, fmt.Errorf("decode catalog yaml: %w", err)
		}
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decode catalog yaml: %w", err)
		}
	case FormatJSON:
		if err := json.Unmarshal(data, &generic); err != nil {
			return nil, fmt.Errorf("decode catalog json: %w", err)
		}
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decode catalog json: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported catalog format %q", format)
	}

	if err := validateDocument(generic); err != nil {
		return nil, err
	}
	return doc.Resources, nil
}

func validateDocument(doc interface{}) error {
	schema, err := seedFS.ReadFile("seed/catalog.schema.json")
	if err != nil {
		return fmt.Errorf("read catalog schema: %w", err)
	}

	result, err := gojsonschema.Validate(gojsonschema.NewBytesLoader(schema), gojsonschema.NewGoLoader(doc))
	if err != nil {
		return fmt.Errorf("validate catalog: %w", err)
	}
	if result.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("catalog schema validation failed: %s", strings.Join(msgs, "; "))
}

func formatFromPath(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("catalog %s: expected .yaml, .yml or .json", path)
	}
}

// All returns the whole catalog in its original order. Callers receive copies.
func (r *CatalogRepository) All(ctx context.Context) ([]models.Resource, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]models.Resource, len(r.resources))
	for i, res := range r.resources {
		out[i] = res.Clone()
	}
	return out, nil
}

// FindByID returns the resource with id.
func (r *CatalogRepository) FindByID(ctx context.Context, id string) (*models.Resource, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	i, ok := r.index[id]
	if !ok {
		return nil, ErrResourceNotFound
	}
	res := r.resources[i].Clone()
	return &res, nil
}

// Count returns the number of catalog entries.
func (r *CatalogRepository) Count() int {
	return len(r.resources)
}

// Taxonomy returns the static lookup tables. Counts are left at zero.
func (r *CatalogRepository) Taxonomy() models.Taxonomy {
	return models.Taxonomy{
		Categories: []models.TaxonomyEntry{
			{ID: string(models.CategoryTechnology), Label: "Technology", Description: "Programming, computer science and digital skills", Icon: "Code"},
			{ID: string(models.CategoryExams), Label: "Exam Prep", Description: "Practice material for school, university and language exams", Icon: "GraduationCap"},
			{ID: string(models.CategoryHealth), Label: "Health & Wellness", Description: "First aid, nutrition and mental health", Icon: "Heart"},
			{ID: string(models.CategorySkills), Label: "Life Skills", Description: "Communication, finance and career readiness", Icon: "Lightbulb"},
			{ID: string(models.CategoryCommunity), Label: "Community", Description: "Peer learning, volunteering and open collaboration", Icon: "Users"},
		},
		Levels: []models.TaxonomyEntry{
			{ID: string(models.LevelBeginner), Label: "Beginner"},
			{ID: string(models.LevelIntermediate), Label: "Intermediate"},
			{ID: string(models.LevelAdvanced), Label: "Advanced"},
		},
		Types: []models.TaxonomyEntry{
			{ID: string(models.TypeVideo), Label: "Video", Icon: "Play"},
			{ID: string(models.TypePDF), Label: "PDF", Icon: "FileText"},
			{ID: string(models.TypeWebsite), Label: "Website", Icon: "Globe"},
			{ID: string(models.TypeArticle), Label: "Article", Icon: "BookOpen"},
			{ID: string(models.TypeCourse), Label: "Course", Icon: "GraduationCap"},
		},
	}
}
