// Why this file: ./internal/delegation/monitor.go
// This implements the periodic delegation-deadline sweep. Records past their
// deadline transition to timeout and trigger the escalation hook. The default
// hook re-routes the task once to the persona's analyst; a second timeout is final.
package delegation

import (
	"sync"
	"time"

	"github.com/yourusername/coachflow/internal/agents"
	"github.com/yourusername/coachflow/internal/logger"
	"github.com/yourusername/coachflow/models"
)

// EscalationFunc is invoked for every delegation the monitor times out.
type EscalationFunc func(timedOut models.Delegation)

// Monitor periodically sweeps non-terminal delegations for missed deadlines.
type Monitor struct {
	delegator *Delegator
	interval  time.Duration
	escalate  EscalationFunc
	log       logger.Logger

	startOnce sync.Once
	stopOnce  sync.Once
	stop      chan struct{}
	done      chan struct{}
}

// NewMonitor creates a monitor. A nil escalate hook means timeouts are
// recorded but not re-routed.
func NewMonitor(delegator *Delegator, interval time.Duration,
	escalate EscalationFunc, log logger.Logger) *Monitor {

	if log == nil {
		log = logger.NewNop()
	}
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Monitor{
		delegator: delegator,
		interval:  interval,
		escalate:  escalate,
		log:       log,
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// Start launches the periodic sweep.
func (m *Monitor) Start() {
	m.startOnce.Do(func() {
		go func() {
			defer close(m.done)
			ticker := time.NewTicker(m.interval)
			defer ticker.Stop()
			for {
				select {
				case <-m.stop:
					return
				case <-ticker.C:
					m.Sweep()
				}
			}
		}()
	})
}

// Stop halts the sweep and waits for the loop to exit.
func (m *Monitor) Stop() {
	m.stopOnce.Do(func() { close(m.stop) })
	<-m.done
}

// Sweep times out every non-terminal delegation past its deadline and
// returns how many transitioned. Exported so hosts and tests can force a pass.
func (m *Monitor) Sweep() int {
	now := m.delegator.now()
	count := 0
	for _, record := range m.delegator.Pending() {
		if !record.Deadline.Before(now) {
			continue
		}
		snapshot, ok := m.delegator.markTimeout(record.ID)
		if !ok {
			continue
		}
		count++
		m.log.Warn("delegation timed out",
			"id", snapshot.ID, "from", snapshot.From, "to", snapshot.To,
			"deadline", snapshot.Deadline)
		if m.escalate != nil {
			m.escalate(snapshot)
		}
	}
	return count
}

// ReassignOnTimeout is the default escalation policy: the timed-out task is
// re-delegated once to the persona's designated analyst, carrying a
// reassigned_from marker. A delegation that already carries the marker is
// not retried again; the timeout stands.
func ReassignOnTimeout(delegator *Delegator, registry *agents.Registry, log logger.Logger) EscalationFunc {
	if log == nil {
		log = logger.NewNop()
	}
	return func(timedOut models.Delegation) {
		if _, already := timedOut.Metadata["reassigned_from"]; already {
			log.Warn("delegation timed out after reassignment, giving up",
				"id", timedOut.ID, "task", timedOut.Task)
			return
		}

		persona := models.PersonaEntrepreneur
		if ctx, ok := timedOut.Metadata["context"].(map[string]interface{}); ok {
			persona = personaFrom(ctx)
		}

		target := registry.AnalystHandler(persona)
		if target == timedOut.To {
			target = agents.HandlerResearchScout
		}

		result, err := delegator.Delegate(timedOut.From, target, timedOut.Task, nil, timedOut.Urgency)
		if err != nil {
			log.Error("reassignment failed", "id", timedOut.ID, "error", err)
			return
		}

		delegator.setMetadata(result.ID, "reassigned_from", timedOut.ID)

		log.Info("delegation reassigned after timeout",
			"id", timedOut.ID, "replacement", result.ID, "target", target)
	}
}
