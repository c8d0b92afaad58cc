package balancer

import (
	"github.com/thushan/ollafree/internal/core/domain"
)

// SequentialOrderer keeps metadata order. Useful when debugging a specific
// server or for deterministic runs.
type SequentialOrderer struct{}

func NewSequentialOrderer() *SequentialOrderer {
	return &SequentialOrderer{}
}

func (s *SequentialOrderer) Name() string {
	return DefaultOrdererSequential
}

func (s *SequentialOrderer) Order(servers []domain.ServerDescriptor) []domain.ServerDescriptor {
	out := make([]domain.ServerDescriptor, len(servers))
	copy(out, servers)
	return out
}
