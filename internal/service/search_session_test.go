package service

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/openlearn-hub-api/internal/models"
)

type recordedResults struct {
	mu    sync.Mutex
	calls []models.FilterCriteria
	ch    chan []models.Resource
}

func newRecorder() *recordedResults {
	return &recordedResults{ch: make(chan []models.Resource, 16)}
}

func (r *recordedResults) deliver(criteria models.FilterCriteria, results []models.Resource) {
	r.mu.Lock()
	r.calls = append(r.calls, criteria)
	r.mu.Unlock()
	r.ch <- results
}

func (r *recordedResults) searches() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.calls))
	for _, c := range r.calls {
		out = append(out, c.Search)
	}
	return out
}

func TestSearchSessionStartsWithWholeCatalog(t *testing.T) {
	session := NewSearchSession(fixtureCatalog(), time.Minute, nil, nil)
	defer session.Close()

	assert.Len(t, session.Results(), len(fixtureCatalog()))
	assert.False(t, session.Criteria().HasActiveFilters())
}

func TestSearchSessionDebouncesTyping(t *testing.T) {
	rec := newRecorder()
	session := NewSearchSession(fixtureCatalog(), 40*time.Millisecond, nil, rec.deliver)
	defer session.Close()

	session.Input("p")
	session.Input("py")
	session.Input("pyt")
	assert.Equal(t, "pyt", session.Typed())
	assert.Equal(t, "", session.Criteria().Search)

	select {
	case results := <-rec.ch:
		assert.Equal(t, []string{"1", "2", "4"}, ids(results))
	case <-time.After(2 * time.Second):
		t.Fatal("search never settled")
	}

	assert.Equal(t, []string{"pyt"}, rec.searches())
	assert.Equal(t, "pyt", session.Criteria().Search)
}

func TestSearchSessionSelectionsApplyImmediately(t *testing.T) {
	rec := newRecorder()
	session := NewSearchSession(fixtureCatalog(), time.Minute, nil, rec.deliver)
	defer session.Close()

	session.SetCategory("technology")
	require.Len(t, rec.ch, 1)
	assert.Equal(t, []string{"1", "4"}, ids(<-rec.ch))

	session.SetLevel("advanced")
	assert.Equal(t, []string{"4"}, ids(<-rec.ch))

	session.SetType("course")
	assert.Empty(t, <-rec.ch)
}

func TestSearchSessionFlushAndReset(t *testing.T) {
	rec := newRecorder()
	session := NewSearchSession(fixtureCatalog(), time.Minute, nil, rec.deliver)
	defer session.Close()

	session.Input("first")
	session.Flush()
	assert.Equal(t, []string{"3"}, ids(<-rec.ch))

	session.SetCategory("health")
	<-rec.ch
	session.Input("pending")
	session.Reset()
	assert.Len(t, <-rec.ch, len(fixtureCatalog()))
	assert.Equal(t, models.DefaultCriteria(), session.Criteria())
	assert.Empty(t, session.Typed())
}
