package stats

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thushan/ollafree/internal/logger"
)

func TestCollector_RecordAttempt(t *testing.T) {
	c := NewCollector(logger.NewDiscard())

	c.RecordAttempt("llama3.2:3b", "192.0.2.1:11434", false, 30*time.Millisecond)
	c.RecordAttempt("llama3.2:3b", "192.0.2.2:11434", true, 100*time.Millisecond)
	c.RecordAttempt("llama3.2:3b", "192.0.2.2:11434", true, 300*time.Millisecond)

	stats := c.GetDispatchStats()
	assert.Equal(t, int64(3), stats.TotalAttempts)
	assert.Equal(t, int64(2), stats.TotalSuccesses)
	assert.Equal(t, int64(1), stats.TotalFailures)
	assert.Equal(t, int64(200), stats.AverageLatencyMs, "failures excluded from latency")

	require.Len(t, stats.Servers, 2)
	failed := stats.Servers["192.0.2.1:11434"]
	assert.Equal(t, int64(1), failed.Failures)
	assert.Equal(t, int64(0), failed.AverageLatencyMs)

	ok := stats.Servers["192.0.2.2:11434"]
	assert.Equal(t, "192.0.2.2:11434", ok.Address)
	assert.Equal(t, int64(2), ok.Successes)
	assert.Equal(t, int64(200), ok.AverageLatencyMs)

	assert.Equal(t, []string{"192.0.2.1:11434", "192.0.2.2:11434"}, c.ServerAddresses())
}

func TestCollector_RecordExhausted(t *testing.T) {
	c := NewCollector(nil)
	c.RecordExhausted("m")
	c.RecordExhausted("m")

	stats := c.GetDispatchStats()
	assert.Equal(t, int64(2), stats.TotalExhausted)
	assert.Empty(t, stats.Servers)
	assert.Equal(t, int64(0), stats.AverageLatencyMs)
}

func TestCollector_Concurrent(t *testing.T) {
	c := NewCollector(nil)

	var wg sync.WaitGroup
	for i := range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range 100 {
				c.RecordAttempt("m", "192.0.2.1:11434", (i+j)%2 == 0, time.Millisecond)
			}
		}()
	}
	wg.Wait()

	stats := c.GetDispatchStats()
	assert.Equal(t, int64(1000), stats.TotalAttempts)
	assert.Equal(t, stats.TotalAttempts, stats.TotalSuccesses+stats.TotalFailures)
	assert.Equal(t, int64(1000), stats.Servers["192.0.2.1:11434"].Attempts)
}
