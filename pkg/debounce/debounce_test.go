package debounce

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestDebouncerSingleCall(t *testing.T) {
	var called int32
	d := New(30 * time.Millisecond)

	d.Debounce(func() { atomic.AddInt32(&called, 1) })
	assert.True(t, d.Pending())

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(1), atomic.LoadInt32(&called))
	assert.False(t, d.Pending())
}

func TestDebouncerRapidCallsLastWins(t *testing.T) {
	var called, last int32
	d := New(50 * time.Millisecond)

	for i := 1; i <= 10; i++ {
		value := int32(i)
		d.Debounce(func() {
			atomic.StoreInt32(&last, value)
			atomic.AddInt32(&called, 1)
		})
		time.Sleep(5 * time.Millisecond)
	}

	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, int32(1), atomic.LoadInt32(&called))
	assert.Equal(t, int32(10), atomic.LoadInt32(&last))
}

func TestDebouncerCancel(t *testing.T) {
	var called int32
	d := New(30 * time.Millisecond)

	d.Debounce(func() { atomic.AddInt32(&called, 1) })
	d.Cancel()

	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, int32(0), atomic.LoadInt32(&called))
}

func TestDebouncerImmediate(t *testing.T) {
	var called int32
	d := New(30 * time.Millisecond)

	d.Debounce(func() { atomic.AddInt32(&called, 1) })
	d.Immediate(func() { atomic.AddInt32(&called, 10) })

	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, int32(10), atomic.LoadInt32(&called))
}

func TestValueDeliversOnlySettledTerm(t *testing.T) {
	var mu sync.Mutex
	var delivered []string
	v := NewValue(60*time.Millisecond, func(term string) {
		mu.Lock()
		delivered = append(delivered, term)
		mu.Unlock()
	})

	for _, term := range []string{"p", "py", "pyt"} {
		v.Set(term)
		time.Sleep(5 * time.Millisecond)
	}

	time.Sleep(200 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"pyt"}, delivered)
	assert.Equal(t, "pyt", v.Settled())
}

func TestValueSeparatedBursts(t *testing.T) {
	var count int32
	v := NewValue(20*time.Millisecond, func(int) { atomic.AddInt32(&count, 1) })

	v.Set(1)
	time.Sleep(80 * time.Millisecond)
	v.Set(2)
	time.Sleep(80 * time.Millisecond)

	assert.Equal(t, int32(2), atomic.LoadInt32(&count))
	assert.Equal(t, 2, v.Settled())
}

func TestValueFlushAndCancel(t *testing.T) {
	var got int32
	v := NewValue(time.Hour, func(n int32) { atomic.StoreInt32(&got, n) })

	v.Set(7)
	v.Flush()
	assert.Equal(t, int32(7), atomic.LoadInt32(&got))

	v.Set(9)
	v.Cancel()
	assert.Equal(t, int32(7), v.Settled())
}

func TestValueFlushAfterSettleDeliversNothing(t *testing.T) {
	var mu sync.Mutex
	var delivered []string
	v := NewValue(10*time.Millisecond, func(term string) {
		mu.Lock()
		delivered = append(delivered, term)
		mu.Unlock()
	})

	v.Set("pyt")
	assert.Eventually(t, func() bool { return v.Settled() == "pyt" }, time.Second, 5*time.Millisecond)
	v.Flush()
	time.Sleep(30 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"pyt"}, delivered)
}

func TestValueSupersededScheduleDeliversNothing(t *testing.T) {
	var delivered []string
	v := NewValue(time.Hour, func(term string) { delivered = append(delivered, term) })

	v.Set("py")
	v.mu.Lock()
	stale := v.generation
	v.mu.Unlock()
	v.Set("pyt")

	v.deliver(stale)
	assert.Empty(t, delivered)

	v.Flush()
	v.Flush()
	assert.Equal(t, []string{"pyt"}, delivered)
}
