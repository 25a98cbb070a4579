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

var fixedNow = time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)

func newDelegator(opts ...Option) *Delegator {
	base := []Option{WithClock(func() time.Time { return fixedNow })}
	return New(agents.NewRegistry(), logger.NewNop(), append(base, opts...)...)
}

func TestDelegateDeadlines(t *testing.T) {
	d := newDelegator()

	tests := []struct {
		urgency models.Urgency
		offset  time.Duration
	}{
		{models.UrgencyHigh, 5 * time.Minute},
		{models.UrgencyMedium, 30 * time.Minute},
		{models.UrgencyLow, 2 * time.Hour},
		{models.Urgency("unspecified"), 2 * time.Hour},
	}
	for _, tt := range tests {
		result, err := d.Delegate(agents.HandlerVentureCoach, agents.HandlerBusinessAdvisor,
			"model the expansion", nil, tt.urgency)
		require.NoError(t, err, "urgency=%s", tt.urgency)

		record, ok := d.Status(result.ID)
		require.True(t, ok)
		assert.Equal(t, fixedNow, record.CreatedAt, "urgency=%s", tt.urgency)
		assert.Equal(t, fixedNow.Add(tt.offset), record.Deadline, "urgency=%s", tt.urgency)
		assert.Equal(t, int(tt.offset.Minutes()), result.EstimatedMinutes)
	}
}

func TestDelegateRecordShape(t *testing.T) {
	d := newDelegator()

	result, err := d.Delegate(agents.HandlerVentureCoach, agents.HandlerTechSpecialist,
		"debug the webhook", nil, models.UrgencyHigh)
	require.NoError(t, err)

	assert.Equal(t, models.DelegationPending, result.Status)
	assert.NotEmpty(t, result.ID)
	assert.Contains(t, result.TrackingInfo, result.ID)

	record, ok := d.Status(result.ID)
	require.True(t, ok)
	assert.Equal(t, "immediate", record.Expectations["response_time"])
	assert.Equal(t, "summary", record.Expectations["detail_level"])
	assert.Equal(t, true, record.Expectations["include_recommendations"])
	assert.Equal(t, true, record.Expectations["include_sources"])
}

func TestExpectationsVaryByUrgency(t *testing.T) {
	d := newDelegator()

	medium, err := d.Delegate("a", "b", "task", nil, models.UrgencyMedium)
	require.NoError(t, err)
	rec, _ := d.Status(medium.ID)
	assert.Equal(t, "standard", rec.Expectations["response_time"])
	assert.Equal(t, "comprehensive", rec.Expectations["detail_level"])

	low, err := d.Delegate("a", "b", "task", nil, models.UrgencyLow)
	require.NoError(t, err)
	rec, _ = d.Status(low.ID)
	assert.Equal(t, "when_available", rec.Expectations["response_time"])
	assert.Equal(t, "thorough", rec.Expectations["detail_level"])
}

func TestDelegateRejectsEmptyTask(t *testing.T) {
	d := newDelegator()

	_, err := d.Delegate("a", "b", "", nil, models.UrgencyLow)
	require.Error(t, err)
}

func TestDelegateHandoffRoundTrip(t *testing.T) {
	d := newDelegator()

	result, err := d.Delegate(agents.HandlerVentureCoach, agents.HandlerBusinessAdvisor,
		"compare the two expansion options", nil, models.UrgencyMedium)
	require.NoError(t, err)

	handoff, err := d.Handoff(result.ID, map[string]interface{}{
		"summary":         "Option A wins on margin; option B wins on speed.",
		"recommendations": []string{"Model cash impact", "Talk to two customers", "Decide by Friday", "Extra item"},
		"confidence":      0.92,
	}, agents.HandlerVentureCoach, agents.HandlerBusinessAdvisor)
	require.NoError(t, err)

	assert.True(t, handoff.Success)
	assert.NotEmpty(t, handoff.SynthesizedResponse)
	assert.Contains(t, handoff.SynthesizedResponse, "Business Advisor")
	assert.Contains(t, handoff.SynthesizedResponse, "Option A wins")
	assert.Len(t, handoff.ActionItems, 3)
	assert.InDelta(t, 0.92, handoff.Confidence, 1e-9)
	assert.NotEmpty(t, handoff.FollowUpSuggestions)

	record, ok := d.Status(result.ID)
	require.True(t, ok)
	assert.Equal(t, models.DelegationCompleted, record.Status)
}

func TestHandoffUsesVoiceForRelationshipTier(t *testing.T) {
	voiced := func(content string, from, to models.HandlerID) string {
		return "voiced(" + content + ")"
	}
	d := newDelegator(WithVoice(voiced))

	result, err := d.Delegate(agents.HandlerVentureCoach, agents.HandlerBusinessAdvisor,
		"compare the two expansion options", nil, models.UrgencyMedium)
	require.NoError(t, err)

	handoff, err := d.Handoff(result.ID, map[string]interface{}{
		"summary": "Option A wins on margin.",
	}, agents.HandlerVentureCoach, agents.HandlerBusinessAdvisor)
	require.NoError(t, err)
	assert.Equal(t, "voiced(Option A wins on margin.)", handoff.SynthesizedResponse)
}

func TestHandoffSkipsVoiceForFunctionalTier(t *testing.T) {
	voiced := func(content string, from, to models.HandlerID) string {
		return "voiced(" + content + ")"
	}
	d := newDelegator(WithVoice(voiced))

	result, err := d.Delegate(agents.HandlerCreditDesk, agents.HandlerCreditAnalyst,
		"review the covenant terms", nil, models.UrgencyMedium)
	require.NoError(t, err)

	// A functional-tier delegator keeps the plain package format.
	handoff, err := d.Handoff(result.ID, map[string]interface{}{
		"summary": "Covenants hold.",
	}, agents.HandlerCreditDesk, agents.HandlerCreditAnalyst)
	require.NoError(t, err)
	assert.NotContains(t, handoff.SynthesizedResponse, "voiced(")
	assert.Contains(t, handoff.SynthesizedResponse, "I brought in Credit Analyst on this.")
}

func TestHandoffDefaultsConfidence(t *testing.T) {
	d := newDelegator()

	result, err := d.Delegate("a", agents.HandlerResearchScout, "scan the market", nil, models.UrgencyLow)
	require.NoError(t, err)

	handoff, err := d.Handoff(result.ID, nil, "a", agents.HandlerResearchScout)
	require.NoError(t, err)
	assert.True(t, handoff.Success)
	assert.InDelta(t, 0.8, handoff.Confidence, 1e-9)
	assert.Contains(t, handoff.SynthesizedResponse, "Research Scout")
}

func TestHandoffUnknownAndTerminal(t *testing.T) {
	d := newDelegator()

	_, err := d.Handoff("no-such-id", nil, "a", "b")
	require.Error(t, err)

	result, err := d.Delegate("a", "b", "task", nil, models.UrgencyLow)
	require.NoError(t, err)
	_, err = d.Handoff(result.ID, nil, "a", "b")
	require.NoError(t, err)

	// Completed is terminal; a second handoff must fail.
	_, err = d.Handoff(result.ID, nil, "a", "b")
	require.Error(t, err)
}

func TestShouldDelegateTechnicalComplexity(t *testing.T) {
	d := newDelegator()

	check := d.ShouldDelegate(agents.HandlerVentureCoach,
		"fix the api integration error in the billing database", nil)
	assert.True(t, check.ShouldDelegate)
	assert.Equal(t, agents.HandlerTechSpecialist, check.RecommendedHandler)
	assert.Greater(t, check.Confidence, 0.7)
}

func TestShouldDelegateAnalyticalComplexity(t *testing.T) {
	d := newDelegator()

	// Two analytical families match (0.9 > 0.8) with no technical vocabulary.
	check := d.ShouldDelegate(agents.HandlerVentureCoach,
		"analyze the cohort metrics and forecast next quarter", nil)
	assert.True(t, check.ShouldDelegate)
	assert.Equal(t, agents.HandlerBusinessAdvisor, check.RecommendedHandler)
}

func TestShouldDelegateRespectsPersonaContext(t *testing.T) {
	d := newDelegator()

	check := d.ShouldDelegate(agents.HandlerPortfolioPartner,
		"analyze the valuation model and compare trends",
		map[string]interface{}{"persona": "investor"})
	assert.True(t, check.ShouldDelegate)
	assert.Equal(t, agents.HandlerInvestmentAnalyst, check.RecommendedHandler)
}

func TestShouldNotDelegateSimpleTask(t *testing.T) {
	d := newDelegator()

	check := d.ShouldDelegate(agents.HandlerVentureCoach, "let's talk about my week", nil)
	assert.False(t, check.ShouldDelegate)
	assert.NotEmpty(t, check.Reason)
}

func TestFunctionalHandlerIgnoresComplexityThresholds(t *testing.T) {
	d := newDelegator()

	// A functional handler keeps complex work unless overloaded.
	check := d.ShouldDelegate(agents.HandlerTechSpecialist,
		"fix the api integration error in the billing database", nil)
	assert.False(t, check.ShouldDelegate)
}

func TestShouldDelegateOnOverload(t *testing.T) {
	workload := StaticWorkload()
	workload.SetLoad(agents.HandlerTechSpecialist, 10)
	d := newDelegator(WithWorkload(workload))

	check := d.ShouldDelegate(agents.HandlerTechSpecialist, "simple chat", nil)
	assert.True(t, check.ShouldDelegate)
	assert.Contains(t, check.Reason, "capacity")
}

func TestEstimateComplexityScores(t *testing.T) {
	est := EstimateComplexity("brainstorm campaign ideas")
	assert.InDelta(t, 0.9, est.Creative, 1e-9)
	assert.InDelta(t, 0.2, est.Technical, 1e-9)

	est = EstimateComplexity("deploy the server")
	assert.InDelta(t, 0.8, est.Technical, 1e-9)

	est = EstimateComplexity("hello")
	assert.InDelta(t, 0.2, est.Technical, 1e-9)
	assert.InDelta(t, 0.2, est.Analytical, 1e-9)
	assert.InDelta(t, 0.2, est.Creative, 1e-9)
}
