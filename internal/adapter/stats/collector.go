package stats

/*
				ollafree Stats Collector - Dispatch Stats
	Collector counts dispatch attempts per server so callers (and the CLI)
	can see which public servers actually answered. It is reporting only;
	nothing reads it back to pick servers, every call still shuffles from
	scratch.

	Counters are xsync so concurrent Chat/StreamChat calls never contend
	on a single lock.
*/

import (
	"sort"
	"time"

	"github.com/puzpuzpuz/xsync/v4"

	"github.com/thushan/ollafree/internal/core/ports"
	"github.com/thushan/ollafree/internal/logger"
)

type Collector struct {
	logger  logger.StyledLogger
	servers *xsync.Map[string, *serverData]

	totalAttempts  *xsync.Counter
	totalSuccesses *xsync.Counter
	totalFailures  *xsync.Counter
	totalExhausted *xsync.Counter
	totalLatency   *xsync.Counter
}

type serverData struct {
	attempts     *xsync.Counter
	successes    *xsync.Counter
	failures     *xsync.Counter
	totalLatency *xsync.Counter
}

func NewCollector(log logger.StyledLogger) *Collector {
	if log == nil {
		log = logger.NewDiscard()
	}
	return &Collector{
		logger:         log,
		servers:        xsync.NewMap[string, *serverData](),
		totalAttempts:  xsync.NewCounter(),
		totalSuccesses: xsync.NewCounter(),
		totalFailures:  xsync.NewCounter(),
		totalExhausted: xsync.NewCounter(),
		totalLatency:   xsync.NewCounter(),
	}
}

// RecordAttempt counts one call against one server. Latency only feeds
// the averages for successful attempts.
func (c *Collector) RecordAttempt(model, address string, success bool, latency time.Duration) {
	data := c.getOrInitServer(address)
	latencyMs := latency.Milliseconds()

	c.totalAttempts.Inc()
	data.attempts.Inc()

	if success {
		c.totalSuccesses.Inc()
		c.totalLatency.Add(latencyMs)
		data.successes.Inc()
		data.totalLatency.Add(latencyMs)
	} else {
		c.totalFailures.Inc()
		data.failures.Inc()
	}

	c.logger.Debug("Dispatch attempt recorded", "model", model, "server", address, "success", success, "latency_ms", latencyMs)
}

func (c *Collector) RecordExhausted(model string) {
	c.totalExhausted.Inc()
	c.logger.Debug("Dispatch exhausted all servers", "model", model)
}

func (c *Collector) GetDispatchStats() ports.DispatchStats {
	out := ports.DispatchStats{
		Servers:        make(map[string]ports.ServerStats),
		TotalAttempts:  c.totalAttempts.Value(),
		TotalSuccesses: c.totalSuccesses.Value(),
		TotalFailures:  c.totalFailures.Value(),
		TotalExhausted: c.totalExhausted.Value(),
	}
	out.AverageLatencyMs = average(c.totalLatency.Value(), out.TotalSuccesses)

	c.servers.Range(func(address string, data *serverData) bool {
		successes := data.successes.Value()
		out.Servers[address] = ports.ServerStats{
			Address:          address,
			Attempts:         data.attempts.Value(),
			Successes:        successes,
			Failures:         data.failures.Value(),
			AverageLatencyMs: average(data.totalLatency.Value(), successes),
		}
		return true
	})
	return out
}

// ServerAddresses returns the addresses seen so far, sorted.
func (c *Collector) ServerAddresses() []string {
	addresses := make([]string, 0, c.servers.Size())
	c.servers.Range(func(address string, _ *serverData) bool {
		addresses = append(addresses, address)
		return true
	})
	sort.Strings(addresses)
	return addresses
}

func (c *Collector) getOrInitServer(address string) *serverData {
	data, _ := c.servers.LoadOrCompute(address, func() (*serverData, bool) {
		return &serverData{
			attempts:     xsync.NewCounter(),
			successes:    xsync.NewCounter(),
			failures:     xsync.NewCounter(),
			totalLatency: xsync.NewCounter(),
		}, false
	})
	return data
}

func average(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}
