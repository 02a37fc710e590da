package models

// Category groups resources by subject area.
type Category string

const (
	CategoryTechnology Category = "technology"
	CategoryExams      Category = "exams"
	CategoryHealth     Category = "health"
	CategorySkills     Category = "skills"
	CategoryCommunity  Category = "community"
)

// Level is the expected learner proficiency.
type Level string

const (
	LevelBeginner     Level = "beginner"
	LevelIntermediate Level = "intermediate"
	LevelAdvanced     Level = "advanced"
)

// ResourceType is the medium of a resource.
type ResourceType string

const (
	TypeVideo   ResourceType = "video"
	TypePDF     ResourceType = "pdf"
	TypeWebsite ResourceType = "website"
	TypeArticle ResourceType = "article"
	TypeCourse  ResourceType = "course"
)

// FilterAll matches every value of a criteria field.
const FilterAll = "all"

var (
	categories = []Category{CategoryTechnology, CategoryExams, CategoryHealth, CategorySkills, CategoryCommunity}
	levels     = []Level{LevelBeginner, LevelIntermediate, LevelAdvanced}
	types      = []ResourceType{TypeVideo, TypePDF, TypeWebsite, TypeArticle, TypeCourse}
)

// Categories returns the closed category enumeration in display order.
func Categories() []Category { return append([]Category(nil), categories...) }

// Levels returns the closed level enumeration in display order.
func Levels() []Level { return append([]Level(nil), levels...) }

// ResourceTypes returns the closed type enumeration in display order.
func ResourceTypes() []ResourceType { return append([]ResourceType(nil), types...) }

// Valid reports enumeration membership.
func (c Category) Valid() bool {
	for _, v := range categories {
		if v == c {
			return true
		}
	}
	return false
}

// Valid reports enumeration membership.
func (l Level) Valid() bool {
	for _, v := range levels {
		if v == l {
			return true
		}
	}
	return false
}

// Valid reports enumeration membership.
func (t ResourceType) Valid() bool {
	for _, v := range types {
		if v == t {
			return true
		}
	}
	return false
}

// Resource is an immutable catalog entry.
type Resource struct {
	ID          string       `json:"id" yaml:"id"`
	Title       string       `json:"title" yaml:"title"`
	Description string       `json:"description" yaml:"description"`
	Category    Category     `json:"category" yaml:"category"`
	Level       Level        `json:"level" yaml:"level"`
	Type        ResourceType `json:"type" yaml:"type"`
	URL         string       `json:"url" yaml:"url"`
	Tags        []string     `json:"tags" yaml:"tags"`
	Contributor *string      `json:"contributor,omitempty" yaml:"contributor,omitempty"`
	CreatedAt   string       `json:"createdAt" yaml:"createdAt"`
	Views       *int         `json:"views,omitempty" yaml:"views,omitempty"`
}

// Clone returns a copy that shares no mutable state with r.
func (r Resource) Clone() Resource {
	out := r
	if r.Tags != nil {
		out.Tags = append([]string(nil), r.Tags...)
	}
	if r.Contributor != nil {
		c := *r.Contributor
		out.Contributor = &c
	}
	if r.Views != nil {
		v := *r.Views
		out.Views = &v
	}
	return out
}

// FilterCriteria is the viewer's current selection. Empty enumeration fields mean "all".
type FilterCriteria struct {
	Category string `json:"category" form:"category" validate:"omitempty,oneof=all technology exams health skills community"`
	Level    string `json:"level" form:"level" validate:"omitempty,oneof=all beginner intermediate advanced"`
	Type     string `json:"type" form:"type" validate:"omitempty,oneof=all video pdf website article course"`
	Search   string `json:"search" form:"search" validate:"max=200"`
}

// DefaultCriteria selects the whole catalog.
func DefaultCriteria() FilterCriteria {
	return FilterCriteria{Category: FilterAll, Level: FilterAll, Type: FilterAll}
}

// Normalize maps empty enumeration fields to FilterAll.
func (f FilterCriteria) Normalize() FilterCriteria {
	if f.Category == "" {
		f.Category = FilterAll
	}
	if f.Level == "" {
		f.Level = FilterAll
	}
	if f.Type == "" {
		f.Type = FilterAll
	}
	return f
}

// Reset clears every selection.
func (f *FilterCriteria) Reset() {
	*f = DefaultCriteria()
}

// HasActiveFilters reports whether any field narrows the catalog.
func (f FilterCriteria) HasActiveFilters() bool {
	n := f.Normalize()
	return n.Category != FilterAll || n.Level != FilterAll || n.Type != FilterAll || n.Search != ""
}

// TaxonomyEntry describes one value of a closed enumeration for display.
type TaxonomyEntry struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
	Icon        string `json:"icon,omitempty"`
	Count       int    `json:"count"`
}

// Taxonomy bundles the lookup tables for categories, levels and types.
type Taxonomy struct {
	Categories []TaxonomyEntry `json:"categories"`
	Levels     []TaxonomyEntry `json:"levels"`
	Types      []TaxonomyEntry `json:"types"`
}
