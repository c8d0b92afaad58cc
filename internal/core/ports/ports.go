package ports

import (
	"context"
	"time"

	"github.com/ollama/ollama/api"

	"github.com/thushan/ollafree/internal/core/domain"
)

// ModelDirectory is the read-only query surface over the bundled metadata
type ModelDirectory interface {
	ListFamilies() []string
	ListModels(family string) []string
	GetModelInfo(name string) (domain.ModelRecord, error)
	GetModelServers(name string) []domain.ServerDescriptor
	GetServerInfo(name, address string) (domain.ServerDescriptor, error)
}

// GenerateClient is the slice of the Ollama client the dispatcher needs.
// *api.Client satisfies it.
type GenerateClient interface {
	Generate(ctx context.Context, req *api.GenerateRequest, fn api.GenerateResponseFunc) error
}

// ClientFactory hands out a client bound to one server address.
type ClientFactory interface {
	ForServer(address string) (GenerateClient, error)
}

// CandidateOrderer decides the order servers are attempted in.
type CandidateOrderer interface {
	Name() string
	Order(servers []domain.ServerDescriptor) []domain.ServerDescriptor
}

// StatsCollector records dispatch attempts. It is reporting only, nothing
// reads it back to influence server selection.
type StatsCollector interface {
	RecordAttempt(model, address string, success bool, latency time.Duration)
	RecordExhausted(model string)
	GetDispatchStats() DispatchStats
}

type DispatchStats struct {
	Servers          map[string]ServerStats `json:"servers" yaml:"servers"`
	TotalAttempts    int64                  `json:"total_attempts" yaml:"total_attempts"`
	TotalSuccesses   int64                  `json:"total_successes" yaml:"total_successes"`
	TotalFailures    int64                  `json:"total_failures" yaml:"total_failures"`
	TotalExhausted   int64                  `json:"total_exhausted" yaml:"total_exhausted"`
	AverageLatencyMs int64                  `json:"average_latency_ms" yaml:"average_latency_ms"`
}

type ServerStats struct {
	Address          string `json:"address" yaml:"address"`
	Attempts         int64  `json:"attempts" yaml:"attempts"`
	Successes        int64  `json:"successes" yaml:"successes"`
	Failures         int64  `json:"failures" yaml:"failures"`
	AverageLatencyMs int64  `json:"average_latency_ms" yaml:"average_latency_ms"`
}
