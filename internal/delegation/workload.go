// Why this file: ./internal/delegation/workload.go
// This abstracts handler workload so the should-delegate heuristic can consult
// live figures from a real scheduler. The default is static simulation.
package delegation

import (
	"sync"

	"github.com/yourusername/coachflow/models"
)

// WorkloadProvider reports a handler's current load and capacity.
type WorkloadProvider interface {
	Workload(handler models.HandlerID) (load, capacity int)
}

// SimulatedWorkload is the default static provider.
type SimulatedWorkload struct {
	mu       sync.RWMutex
	loads    map[models.HandlerID]int
	capacity int
}

// StaticWorkload returns the default simulated provider: every handler has
// capacity 10 and a light load unless set otherwise.
func StaticWorkload() *SimulatedWorkload {
	return &SimulatedWorkload{
		loads:    map[models.HandlerID]int{},
		capacity: 10,
	}
}

func (s *SimulatedWorkload) Workload(handler models.HandlerID) (int, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	load, ok := s.loads[handler]
	if !ok {
		load = 3
	}
	return load, s.capacity
}

// SetLoad fixes a handler's simulated load. Used by tests and demos.
func (s *SimulatedWorkload) SetLoad(handler models.HandlerID, load int) {
	s.mu.Lock()
	s.loads[handler] = load
	s.mu.Unlock()
}
