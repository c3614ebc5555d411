package storefront

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDebouncerFiresOnce(t *testing.T) {
	var fired int32
	d := NewDebouncer(20*time.Millisecond, func() { atomic.AddInt32(&fired, 1) })

	d.Reset()
	d.Reset()
	d.Reset()

	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&fired) == 1
	}, time.Second, 5*time.Millisecond)

	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, int32(1), atomic.LoadInt32(&fired))
}

func TestDebouncerCancel(t *testing.T) {
	var fired int32
	d := NewDebouncer(20*time.Millisecond, func() { atomic.AddInt32(&fired, 1) })

	d.Reset()
	d.Cancel()
	time.Sleep(40 * time.Millisecond)
	assert.Zero(t, atomic.LoadInt32(&fired))
}

func TestDebouncerFlush(t *testing.T) {
	var fired int32
	d := NewDebouncer(time.Hour, func() { atomic.AddInt32(&fired, 1) })

	d.Reset()
	d.Flush()
	assert.Equal(t, int32(1), atomic.LoadInt32(&fired))
}

func TestSentinelEdges(t *testing.T) {
	count := 0
	s := NewSentinel(func() { count++ })

	s.Intersect(false)
	assert.Zero(t, count)

	s.Intersect(true)
	s.Intersect(true)
	assert.Equal(t, 2, count)

	s.Close()
	s.Intersect(true)
	assert.Equal(t, 2, count)
}
