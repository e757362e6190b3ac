package cache

import (
	"sort"
	"sync"
	"time"

	"DineCast/internal/domain/models"
	"DineCast/internal/domain/service"
)

// TrainedState is one immutable generation of trained models, their metrics
// and the spike analysis they were trained alongside. Readers always see a
// consistent generation, never a mix of two training cycles.
type TrainedState struct {
	Models    map[string]service.DemandModel
	Metrics   map[string]models.ModelMetrics
	Spikes    *models.SpikeAnalysis
	TrainedAt time.Time
}

// Products returns the trained product names, sorted.
func (s *TrainedState) Products() []string {
	out := make([]string, 0, len(s.Models))
	for p := range s.Models {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// ModelCache holds the live TrainedState. Training is the single writer and
// replaces the whole state atomically; forecast and profit requests are
// concurrent readers of the snapshot they grabbed.
type ModelCache struct {
	mu    sync.RWMutex
	state *TrainedState
}

func NewModelCache() *ModelCache {
	return &ModelCache{}
}

// Replace atomically swaps in a full new generation. A failed training run
// never calls Replace, so the previous generation stays in effect.
func (c *ModelCache) Replace(state *TrainedState) {
	c.mu.Lock()
	c.state = state
	c.mu.Unlock()
}

// Snapshot returns the current generation, or nil before the first
// successful training run. The returned state must be treated as read-only.
func (c *ModelCache) Snapshot() *TrainedState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Generation identifies the current state for response-cache keying; 0 when
// nothing is trained yet.
func (c *ModelCache) Generation() int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.state == nil {
		return 0
	}
	return c.state.TrainedAt.UnixNano()
}
