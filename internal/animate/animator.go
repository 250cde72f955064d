// Package animate provides the streaming-reveal scheduler: it discloses text
// one character at a time at a fixed delay, both for pre-fetched strings
// (the greeting) and for chunks arriving from a live generation stream.
// Cancellation stops further callbacks without raising an error.
package animate

import (
	"context"
	"strings"
	"time"

	"coddify/pkg/tutortypes"
)

// Animator reveals text progressively. A zero delay reveals immediately,
// which tests rely on.
type Animator struct {
	delay time.Duration
}

// NewAnimator creates an animator with the given inter-character delay.
func NewAnimator(delay time.Duration) *Animator {
	return &Animator{delay: delay}
}

// Reveal discloses text one rune at a time, invoking onStep with each grown
// prefix. It returns the revealed prefix; when ctx is canceled mid-reveal no
// further callbacks fire and the partial prefix is returned.
func (a *Animator) Reveal(ctx context.Context, text string, onStep func(prefix string)) string {
	var prefix strings.Builder
	for _, r := range text {
		if !a.step(ctx) {
			return prefix.String()
		}
		prefix.WriteRune(r)
		onStep(prefix.String())
	}
	return prefix.String()
}

// RevealChunks consumes a streamed chunk sequence, revealing each chunk's
// runes at the configured delay and accumulating monotonically. It returns
// the full accumulated text and the stream error, if any. onFirst fires once
// before the first revealed character, letting the caller clear a pending
// placeholder.
func (a *Animator) RevealChunks(ctx context.Context, chunks <-chan tutortypes.StreamChunk, onFirst func(), onStep func(prefix string)) (string, error) {
	var accumulated strings.Builder
	first := true

	for {
		select {
		case <-ctx.Done():
			return accumulated.String(), nil
		case chunk, ok := <-chunks:
			if !ok {
				return accumulated.String(), nil
			}
			if chunk.Error != nil {
				return accumulated.String(), chunk.Error
			}
			if chunk.Content != "" && first {
				first = false
				if onFirst != nil {
					onFirst()
				}
			}
			for _, r := range chunk.Content {
				if !a.step(ctx) {
					return accumulated.String(), nil
				}
				accumulated.WriteRune(r)
				onStep(accumulated.String())
			}
			if chunk.Done {
				return accumulated.String(), nil
			}
		}
	}
}

// step waits one inter-character delay. It reports false when ctx was
// canceled before the delay elapsed.
func (a *Animator) step(ctx context.Context) bool {
	if a.delay <= 0 {
		select {
		case <-ctx.Done():
			return false
		default:
			return true
		}
	}
	timer := time.NewTimer(a.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
