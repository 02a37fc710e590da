package service

import (
	"sync"
	"time"

	"github.com/noah-isme/openlearn-hub-api/internal/models"
	"github.com/noah-isme/openlearn-hub-api/pkg/debounce"
)

// DefaultSearchDebounce is the settle window for typed search terms.
const DefaultSearchDebounce = 300 * time.Millisecond

// ResultsFunc receives every recomputed result set together with the criteria that produced it.
type ResultsFunc func(criteria models.FilterCriteria, results []models.Resource)

// SearchSession drives the filter engine from interactive input.
// Typed search terms are debounced; selection changes apply immediately.
// Only settled search terms ever reach FilterResources.
type SearchSession struct {
	catalog []models.Resource
	deliver ResultsFunc
	metrics *MetricsService
	search  *debounce.Value[string]

	mu       sync.Mutex
	typed    string
	criteria models.FilterCriteria
	results  []models.Resource
}

// NewSearchSession binds a session to an immutable catalog snapshot.
func NewSearchSession(catalog []models.Resource, delay time.Duration, metrics *MetricsService, deliver ResultsFunc) *SearchSession {
	if delay <= 0 {
		delay = DefaultSearchDebounce
	}
	s := &SearchSession{
		catalog:  catalog,
		deliver:  deliver,
		metrics:  metrics,
		criteria: models.DefaultCriteria(),
	}
	s.search = debounce.NewValue(delay, s.settleSearch)
	s.mu.Lock()
	s.recomputeLocked()
	s.mu.Unlock()
	return s
}

// Input records the raw search box contents and restarts the settle window.
func (s *SearchSession) Input(term string) {
	s.mu.Lock()
	s.typed = term
	s.mu.Unlock()
	s.search.Set(term)
}

// Typed returns the latest raw input, which may not have settled yet.
func (s *SearchSession) Typed() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.typed
}

// Flush settles the pending search term immediately.
func (s *SearchSession) Flush() {
	s.search.Flush()
}

// SetCategory changes the category selection and recomputes.
func (s *SearchSession) SetCategory(category string) {
	s.update(func(c *models.FilterCriteria) { c.Category = category })
}

// SetLevel changes the level selection and recomputes.
func (s *SearchSession) SetLevel(level string) {
	s.update(func(c *models.FilterCriteria) { c.Level = level })
}

// SetType changes the type selection and recomputes.
func (s *SearchSession) SetType(resourceType string) {
	s.update(func(c *models.FilterCriteria) { c.Type = resourceType })
}

// Select applies the category, level and type of criteria in one recomputation.
// The search term is left untouched.
func (s *SearchSession) Select(criteria models.FilterCriteria) {
	s.update(func(c *models.FilterCriteria) {
		c.Category = criteria.Category
		c.Level = criteria.Level
		c.Type = criteria.Type
	})
}

// Reset clears every selection and the search term, dropping any pending input.
func (s *SearchSession) Reset() {
	s.search.Cancel()
	s.mu.Lock()
	s.typed = ""
	s.mu.Unlock()
	s.update(func(c *models.FilterCriteria) { c.Reset() })
}

// Criteria returns the criteria behind the current results.
func (s *SearchSession) Criteria() models.FilterCriteria {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.criteria
}

// Results returns the current result set.
func (s *SearchSession) Results() []models.Resource {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Resource(nil), s.results...)
}

// Close drops pending input. The session delivers nothing afterwards.
func (s *SearchSession) Close() {
	s.search.Cancel()
}

func (s *SearchSession) settleSearch(term string) {
	s.update(func(c *models.FilterCriteria) { c.Search = term })
}

func (s *SearchSession) update(mutate func(*models.FilterCriteria)) {
	s.mu.Lock()
	mutate(&s.criteria)
	s.criteria = s.criteria.Normalize()
	criteria, results := s.recomputeLocked()
	s.mu.Unlock()

	if s.deliver != nil {
		s.deliver(criteria, results)
	}
}

func (s *SearchSession) recomputeLocked() (models.FilterCriteria, []models.Resource) {
	start := time.Now()
	s.results = FilterResources(s.catalog, s.criteria)
	s.metrics.ObserveFilter(time.Since(start), len(s.results))
	return s.criteria, append([]models.Resource(nil), s.results...)
}
