package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/coachflow/internal/logger"
	"github.com/yourusername/coachflow/models"
)

func newTestStore(t *testing.T) *AuditStore {
	t.Helper()
	store, err := NewAuditStore(filepath.Join(t.TempDir(), "audit.db"), logger.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestAuditRoundTrip(t *testing.T) {
	store := newTestStore(t)

	d := models.Delegation{
		ID:       "d-1",
		From:     "venture-coach",
		To:       "tech-specialist",
		Task:     "debug the webhook",
		Urgency:  models.UrgencyHigh,
		Deadline: time.Now().Add(5 * time.Minute),
		Status:   models.DelegationPending,
	}

	store.DelegationCreated(d)
	d.Status = models.DelegationCompleted
	store.DelegationUpdated(d)
	store.HandoffCompleted("d-1", d.From, d.To, "found the flag")

	events, err := store.EventsFor("d-1")
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, EventDelegationCreated, events[0].Event)
	assert.Equal(t, EventDelegationUpdated, events[1].Event)
	assert.Equal(t, EventHandoffCompleted, events[2].Event)
	assert.Equal(t, "venture-coach", events[0].FromHandler)
	assert.Contains(t, events[2].Payload, "found the flag")
}

func TestRecentEventsNewestFirst(t *testing.T) {
	store := newTestStore(t)

	for _, id := range []string{"a", "b", "c"} {
		store.DelegationCreated(models.Delegation{ID: id, From: "x", To: "y"})
	}

	events, err := store.RecentEvents(2)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "c", events[0].DelegationID)
	assert.Equal(t, "b", events[1].DelegationID)
}

func TestRecentEventsEmptyStore(t *testing.T) {
	store := newTestStore(t)

	events, err := store.RecentEvents(10)
	require.NoError(t, err)
	assert.Empty(t, events)
}
