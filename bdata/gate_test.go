package bdata

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/52Jolynn/bindb/mod"
)

func TestGate_Transitions(t *testing.T) {
	tests := []struct {
		name      string
		result    LoadResult
		wantState State
		wantErr   error
	}{
		{
			name:      "ready",
			result:    LoadResult{Index: NewIndex([]mod.Record{record("411111", "VISA", "US")})},
			wantState: StateReady,
		},
		{
			name:      "failed",
			result:    LoadResult{Err: &LoadError{Op: "open", Err: errors.New("boom")}},
			wantState: StateFailed,
			wantErr:   ErrUnavailable,
		},
		{
			name:      "no index",
			result:    LoadResult{},
			wantState: StateFailed,
			wantErr:   ErrUnavailable,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var g Gate
			assert.Equal(t, StateLoading, g.State())
			_, err := g.Index()
			assert.Equal(t, ErrNotReady, err)

			require.True(t, g.Publish(tt.result))
			assert.Equal(t, tt.wantState, g.State())
			_, err = g.Index()
			assert.Equal(t, tt.wantErr, err)
		})
	}
}

func TestGate_PublishOnce(t *testing.T) {
	var g Gate
	require.True(t, g.Publish(LoadResult{Err: errors.New("missing")}))
	assert.False(t, g.Publish(LoadResult{Index: NewIndex(nil)}))

	assert.Equal(t, StateFailed, g.State())
	assert.EqualError(t, g.Err(), "missing")
}

func TestGate_ConcurrentReaders(t *testing.T) {
	var g Gate
	idx := NewIndex([]mod.Record{record("411111", "VISA", "US")})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				got, err := g.Index()
				if err == nil {
					assert.Equal(t, 1, got.Len())
					return
				}
				assert.Equal(t, ErrNotReady, err)
			}
		}()
	}
	g.Publish(LoadResult{Index: idx})
	wg.Wait()
}
