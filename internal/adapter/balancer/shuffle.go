package balancer

import (
	"math/rand/v2"
	"sync"

	"github.com/thushan/ollafree/internal/core/domain"
)

// ShuffleOrderer returns a uniformly random permutation of the candidates
// on every call. It keeps no state between calls.
type ShuffleOrderer struct {
	rng *rand.Rand
	mu  sync.Mutex
}

// NewShuffleOrderer uses rng when given, otherwise the runtime's global
// source. A seeded rng makes the order reproducible in tests.
func NewShuffleOrderer(rng *rand.Rand) *ShuffleOrderer {
	return &ShuffleOrderer{rng: rng}
}

func (s *ShuffleOrderer) Name() string {
	return DefaultOrdererShuffle
}

// Order never modifies servers.
func (s *ShuffleOrderer) Order(servers []domain.ServerDescriptor) []domain.ServerDescriptor {
	out := make([]domain.ServerDescriptor, len(servers))
	copy(out, servers)

	swap := func(i, j int) { out[i], out[j] = out[j], out[i] }
	if s.rng == nil {
		rand.Shuffle(len(out), swap)
		return out
	}

	// *rand.Rand is not safe for concurrent use
	s.mu.Lock()
	s.rng.Shuffle(len(out), swap)
	s.mu.Unlock()
	return out
}
