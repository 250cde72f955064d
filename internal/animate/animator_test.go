package animate

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coddify/pkg/tutortypes"
)

func TestAnimator_RevealPrefixGrowth(t *testing.T) {
	a := NewAnimator(0)
	var prefixes []string

	final := a.Reveal(context.Background(), "Hi!", func(prefix string) {
		prefixes = append(prefixes, prefix)
	})

	assert.Equal(t, "Hi!", final)
	assert.Equal(t, []string{"H", "Hi", "Hi!"}, prefixes)
}

func TestAnimator_RevealCancellation(t *testing.T) {
	a := NewAnimator(5 * time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())

	var steps int
	done := make(chan string, 1)
	go func() {
		done <- a.Reveal(ctx, "a long text to reveal slowly", func(string) { steps++ })
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()
	partial := <-done

	// No error raised, callbacks simply stop, partial prefix returned
	assert.Less(t, len(partial), len("a long text to reveal slowly"))
	settled := steps
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, settled, steps)
}

func TestAnimator_RevealChunks(t *testing.T) {
	a := NewAnimator(0)
	chunks := make(chan tutortypes.StreamChunk, 3)
	chunks <- tutortypes.StreamChunk{Content: "Hel"}
	chunks <- tutortypes.StreamChunk{Content: "lo!"}
	chunks <- tutortypes.StreamChunk{Done: true}
	close(chunks)

	firstFired := false
	var prefixes []string
	final, err := a.RevealChunks(context.Background(), chunks,
		func() { firstFired = true },
		func(prefix string) { prefixes = append(prefixes, prefix) },
	)

	require.NoError(t, err)
	assert.True(t, firstFired)
	assert.Equal(t, "Hello!", final)
	require.Len(t, prefixes, 6)
	for i, prefix := range prefixes {
		assert.Equal(t, "Hello!"[:i+1], prefix, "prefixes must grow strictly")
	}
}

func TestAnimator_RevealChunksError(t *testing.T) {
	a := NewAnimator(0)
	chunks := make(chan tutortypes.StreamChunk, 2)
	chunks <- tutortypes.StreamChunk{Content: "par"}
	chunks <- tutortypes.StreamChunk{Done: true, Error: assert.AnError}
	close(chunks)

	accumulated, err := a.RevealChunks(context.Background(), chunks, nil, func(string) {})

	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, "par", accumulated)
}

func TestAnimator_RevealChunksEmptyStream(t *testing.T) {
	a := NewAnimator(0)
	chunks := make(chan tutortypes.StreamChunk, 1)
	chunks <- tutortypes.StreamChunk{Done: true}
	close(chunks)

	firstFired := false
	final, err := a.RevealChunks(context.Background(), chunks, func() { firstFired = true }, func(string) {})

	require.NoError(t, err)
	assert.Empty(t, final)
	assert.False(t, firstFired, "onFirst must not fire without content")
}

func TestLoadingTicker_CycleAndReset(t *testing.T) {
	ticker := NewLoadingTicker(5 * time.Millisecond)

	suffixes := make(chan string, 64)
	require.NoError(t, ticker.Start(func(suffix string) {
		select {
		case suffixes <- suffix:
		default:
		}
	}))

	time.Sleep(40 * time.Millisecond)
	ticker.Stop()

	var seen []string
	deadline := time.After(50 * time.Millisecond)
collect:
	for {
		select {
		case s := <-suffixes:
			seen = append(seen, s)
			if s == "" && len(seen) > 1 {
				break collect
			}
		case <-deadline:
			break collect
		}
	}

	require.NotEmpty(t, seen)
	for _, s := range seen {
		assert.LessOrEqual(t, len(s), 3, "suffix is bounded at three markers")
	}
	assert.Equal(t, "", seen[len(seen)-1], "stop resets the suffix to empty")
}

func TestLoadingTicker_DoubleStart(t *testing.T) {
	ticker := NewLoadingTicker(time.Hour)
	require.NoError(t, ticker.Start(func(string) {}))
	defer ticker.Stop()

	assert.Error(t, ticker.Start(func(string) {}))
}

func TestLoadingTicker_StopIdempotent(t *testing.T) {
	ticker := NewLoadingTicker(time.Hour)
	require.NoError(t, ticker.Start(func(string) {}))

	ticker.Stop()
	ticker.Stop()
}
