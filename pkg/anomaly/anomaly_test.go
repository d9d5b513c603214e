package anomaly_test

import (
	"sync"
	"testing"

	"github.com/gnames/gnpia/pkg/anomaly"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector(t *testing.T) {
	c := anomaly.New()
	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Add(anomaly.MissingPSMSet, "no PSM set for key %d", i)
		}()
	}
	wg.Wait()
	c.Add(anomaly.DuplicateProtein, "protein %d", 3)

	assert.Equal(t, 50, c.Count(anomaly.MissingPSMSet))
	assert.Equal(t, 51, c.Total())

	sums := c.Summaries()
	require.Len(t, sums, 2)
	assert.Equal(t, anomaly.DuplicateProtein, sums[0].Kind)
	assert.Equal(t, []string{"protein 3"}, sums[0].Examples)
	assert.Len(t, sums[1].Examples, anomaly.MaxExamples)
}

func TestNilCollector(t *testing.T) {
	var c *anomaly.Collector
	c.Add(anomaly.BadRecord, "only logged")
	assert.Equal(t, 0, c.Total())
	assert.Nil(t, c.Summaries())
}
