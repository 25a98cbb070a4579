package delegation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/coachflow/internal/agents"
	"github.com/yourusername/coachflow/internal/logger"
	"github.com/yourusername/coachflow/models"
)

func TestSweepTimesOutOverdueDelegations(t *testing.T) {
	current := fixedNow
	d := New(agents.NewRegistry(), logger.NewNop(),
		WithClock(func() time.Time { return current }))

	overdue, err := d.Delegate("a", "b", "urgent task", nil, models.UrgencyHigh)
	require.NoError(t, err)
	fresh, err := d.Delegate("a", "b", "slow task", nil, models.UrgencyLow)
	require.NoError(t, err)

	var escalated []models.Delegation
	m := NewMonitor(d, time.Minute, func(timedOut models.Delegation) {
		escalated = append(escalated, timedOut)
	}, logger.NewNop())

	// Nothing is overdue yet.
	assert.Zero(t, m.Sweep())

	current = fixedNow.Add(6 * time.Minute)
	assert.Equal(t, 1, m.Sweep())

	record, _ := d.Status(overdue.ID)
	assert.Equal(t, models.DelegationTimeout, record.Status)
	record, _ = d.Status(fresh.ID)
	assert.Equal(t, models.DelegationPending, record.Status)

	require.Len(t, escalated, 1)
	assert.Equal(t, overdue.ID, escalated[0].ID)

	// Terminal records are not swept twice.
	assert.Zero(t, m.Sweep())
}

func TestSweepIsIdempotentOnTerminalStates(t *testing.T) {
	current := fixedNow
	d := New(agents.NewRegistry(), logger.NewNop(),
		WithClock(func() time.Time { return current }))

	result, err := d.Delegate("a", agents.HandlerResearchScout, "task", nil, models.UrgencyHigh)
	require.NoError(t, err)
	_, err = d.Handoff(result.ID, nil, "a", agents.HandlerResearchScout)
	require.NoError(t, err)

	current = fixedNow.Add(time.Hour)
	m := NewMonitor(d, time.Minute, nil, logger.NewNop())
	assert.Zero(t, m.Sweep())

	record, _ := d.Status(result.ID)
	assert.Equal(t, models.DelegationCompleted, record.Status)
}

func TestReassignOnTimeoutCreatesReplacementOnce(t *testing.T) {
	current := fixedNow
	registry := agents.NewRegistry()
	d := New(registry, logger.NewNop(),
		WithClock(func() time.Time { return current }))

	_, err := d.Delegate(agents.HandlerVentureCoach, agents.HandlerTechSpecialist,
		"debug the webhook", nil, models.UrgencyHigh)
	require.NoError(t, err)

	m := NewMonitor(d, time.Minute, ReassignOnTimeout(d, registry, logger.NewNop()), logger.NewNop())

	current = current.Add(6 * time.Minute)
	assert.Equal(t, 1, m.Sweep())

	pending := d.Pending()
	require.Len(t, pending, 1)
	replacement := pending[0]
	assert.Equal(t, agents.HandlerBusinessAdvisor, replacement.To)
	assert.Equal(t, "debug the webhook", replacement.Task)
	assert.NotEmpty(t, replacement.Metadata["reassigned_from"])

	// The replacement times out too; no third delegation is created.
	current = current.Add(6 * time.Minute)
	assert.Equal(t, 1, m.Sweep())
	assert.Empty(t, d.Pending())
}

func TestReassignAvoidsSameTarget(t *testing.T) {
	current := fixedNow
	registry := agents.NewRegistry()
	d := New(registry, logger.NewNop(),
		WithClock(func() time.Time { return current }))

	// Delegated to the analyst already; the replacement must go elsewhere.
	_, err := d.Delegate(agents.HandlerVentureCoach, agents.HandlerBusinessAdvisor,
		"model the raise", nil, models.UrgencyHigh)
	require.NoError(t, err)

	m := NewMonitor(d, time.Minute, ReassignOnTimeout(d, registry, logger.NewNop()), logger.NewNop())
	current = current.Add(6 * time.Minute)
	m.Sweep()

	pending := d.Pending()
	require.Len(t, pending, 1)
	assert.Equal(t, agents.HandlerResearchScout, pending[0].To)
}

func TestMonitorStartStop(t *testing.T) {
	d := New(agents.NewRegistry(), logger.NewNop())
	m := NewMonitor(d, 5*time.Millisecond, nil, logger.NewNop())

	m.Start()
	time.Sleep(20 * time.Millisecond)
	m.Stop()
}
