package cache

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"DineCast/internal/domain/models"
	"DineCast/internal/domain/service"
)

type stubModel struct{}

func (stubModel) Fit([]models.FeatureRow) error { return nil }
func (stubModel) Predict([]models.FeatureRow) ([]service.Prediction, error) {
	return nil, nil
}

func newState(products ...string) *TrainedState {
	s := &TrainedState{
		Models:    make(map[string]service.DemandModel),
		Metrics:   make(map[string]models.ModelMetrics),
		TrainedAt: time.Now().UTC(),
	}
	for _, p := range products {
		s.Models[p] = stubModel{}
	}
	return s
}

func TestSnapshotNilBeforeTraining(t *testing.T) {
	c := NewModelCache()
	assert.Nil(t, c.Snapshot())
	assert.Equal(t, int64(0), c.Generation())
}

func TestReplaceSwapsWholeState(t *testing.T) {
	c := NewModelCache()

	first := newState("Burgers", "Fries")
	c.Replace(first)
	require.Same(t, first, c.Snapshot())
	assert.Equal(t, []string{"Burgers", "Fries"}, c.Snapshot().Products())

	second := newState("Beverages")
	c.Replace(second)
	assert.Same(t, second, c.Snapshot())
	assert.NotEqual(t, first.TrainedAt.UnixNano(), 0)
}

func TestSnapshotStableUnderConcurrentReplace(t *testing.T) {
	c := NewModelCache()
	c.Replace(newState("Burgers"))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				s := c.Snapshot()
				if assert.NotNil(t, s) {
					assert.NotEmpty(t, s.Models)
				}
			}
		}()
	}
	for i := 0; i < 50; i++ {
		c.Replace(newState("Burgers", "Fries"))
	}
	wg.Wait()
}
