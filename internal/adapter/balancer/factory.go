package balancer

import (
	"fmt"
	"sort"
	"sync"

	"github.com/thushan/ollafree/internal/core/ports"
)

const DefaultOrdererShuffle = "shuffle"
const DefaultOrdererSequential = "sequential"

type Factory struct {
	creators map[string]func() ports.CandidateOrderer
	mu       sync.RWMutex
}

func NewFactory() *Factory {
	factory := &Factory{
		creators: make(map[string]func() ports.CandidateOrderer),
	}

	factory.Register(DefaultOrdererShuffle, func() ports.CandidateOrderer {
		return NewShuffleOrderer(nil)
	})
	factory.Register(DefaultOrdererSequential, func() ports.CandidateOrderer {
		return NewSequentialOrderer()
	})

	return factory
}

func (f *Factory) Register(name string, creator func() ports.CandidateOrderer) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creators[name] = creator
}

func (f *Factory) Create(name string) (ports.CandidateOrderer, error) {
	f.mu.RLock()
	creator, exists := f.creators[name]
	f.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("unknown dispatch strategy: %s", name)
	}

	return creator(), nil
}

func (f *Factory) GetAvailableStrategies() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()

	strategies := make([]string, 0, len(f.creators))
	for name := range f.creators {
		strategies = append(strategies, name)
	}
	sort.Strings(strategies)
	return strategies
}
