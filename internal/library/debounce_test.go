package library

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDebouncerSingleCallRuns(t *testing.T) {
	d := NewDebouncer(10 * time.Millisecond)
	assert.True(t, d.Wait(context.Background()))
}

func TestDebouncerLatestWins(t *testing.T) {
	d := NewDebouncer(50 * time.Millisecond)

	results := make([]bool, 3)
	var wg sync.WaitGroup
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = d.Wait(context.Background())
		}()
		// each keystroke lands inside the previous quiet period
		time.Sleep(10 * time.Millisecond)
	}
	wg.Wait()

	assert.Equal(t, []bool{false, false, true}, results)
}

func TestDebouncerSupersededReturnsEarly(t *testing.T) {
	d := NewDebouncer(time.Second)

	done := make(chan time.Duration)
	go func() {
		start := time.Now()
		d.Wait(context.Background())
		done <- time.Since(start)
	}()
	time.Sleep(20 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.False(t, d.Wait(ctx))

	select {
	case elapsed := <-done:
		assert.Less(t, elapsed, time.Second)
	case <-time.After(500 * time.Millisecond):
		t.Fatal("superseded wait did not return")
	}
}

func TestDebouncerSeparatePauses(t *testing.T) {
	d := NewDebouncer(5 * time.Millisecond)
	assert.True(t, d.Wait(context.Background()))
	assert.True(t, d.Wait(context.Background()))
}
