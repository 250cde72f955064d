package animate

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// LoadingTicker cycles a bounded-length suffix of repeated marker characters
// (empty through three dots) on a fixed period while a response is pending,
// and resets to empty the moment it stops. Each ticker owns one goroutine
// and a stop channel.
type LoadingTicker struct {
	period time.Duration
	marker string

	mu      sync.Mutex
	stopCh  chan struct{}
	running bool
}

// NewLoadingTicker creates a ticker with the given period. The marker
// character is a dot.
func NewLoadingTicker(period time.Duration) *LoadingTicker {
	return &LoadingTicker{period: period, marker: "."}
}

// Start begins cycling the suffix and invokes onTick with each new value,
// starting from a single marker. Starting an already running ticker is an
// error.
func (t *LoadingTicker) Start(onTick func(suffix string)) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running {
		return fmt.Errorf("loading ticker already running")
	}
	t.stopCh = make(chan struct{})
	t.running = true

	go t.run(t.stopCh, onTick)
	return nil
}

// Stop halts the cycle and resets the suffix to empty via one final onTick
// from the ticker goroutine. Stopping a stopped ticker is a no-op.
func (t *LoadingTicker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.running {
		return
	}
	close(t.stopCh)
	t.running = false
}

func (t *LoadingTicker) run(stopCh chan struct{}, onTick func(suffix string)) {
	ticker := time.NewTicker(t.period)
	defer ticker.Stop()

	count := 0
	for {
		select {
		case <-stopCh:
			onTick("")
			return
		case <-ticker.C:
			count = (count + 1) % 4
			onTick(strings.Repeat(t.marker, count))
		}
	}
}
