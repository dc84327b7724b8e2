package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pilotlife/pilotlife-backend/internal/config"
	"github.com/pilotlife/pilotlife-backend/internal/models"
	"github.com/pilotlife/pilotlife-backend/internal/storage"
)

func newReputationFixture(t *testing.T, score float64) (*ReputationService, *storage.MemoryStore) {
	t.Helper()
	store := storage.NewMemoryStore()
	store.AddPlayerWorld(&models.PlayerWorld{
		ID:              "pw-1",
		UserID:          "user-1",
		WorldID:         "world-1",
		ReputationScore: score,
		IsActive:        true,
	})
	return NewReputationService(store, config.LoadReputationConfig()), store
}

func landedFlight(rate float64) *models.TrackedFlight {
	return &models.TrackedFlight{
		ID:          "flight-1",
		UserID:      "user-1",
		State:       models.FlightStateShutdown,
		ArrivalIcao: "KBOS",
		LandingRate: &rate,
	}
}

func eventTypes(events []*models.ReputationEvent) []models.ReputationEventType {
	types := make([]models.ReputationEventType, 0, len(events))
	for _, e := range events {
		types = append(types, e.EventType)
	}
	return types
}

func TestAddReputationEvent_AppliesConfiguredWeight(t *testing.T) {
	svc, store := newReputationFixture(t, 3.0)

	result, err := svc.AddReputationEvent("pw-1", models.ReputationJobCompletedOnTime, "", nil, nil)
	require.NoError(t, err)
	require.True(t, result.Success)
	assert.InDelta(t, 3.1, result.NewScore, 1e-9)
	assert.InDelta(t, 0.1, result.PointChange, 1e-9)

	pw, _ := store.GetPlayerWorld("pw-1")
	assert.InDelta(t, 3.1, pw.ReputationScore, 1e-9)
	assert.Equal(t, 1, pw.OnTimeDeliveries)

	events, _ := store.GetReputationEvents("pw-1", 10)
	require.Len(t, events, 1)
	assert.Equal(t, "Job completed on time", events[0].Description)
	assert.InDelta(t, 3.1, events[0].ResultingScore, 1e-9)
}

func TestAddReputationEvent_UnknownPlayerWorld(t *testing.T) {
	svc, _ := newReputationFixture(t, 3.0)

	result, err := svc.AddReputationEvent("missing", models.ReputationAccident, "", nil, nil)
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "Player world not found", result.Message)
}

func TestAddReputationEvent_ScoreClamping(t *testing.T) {
	svc, store := newReputationFixture(t, 0.3)

	// Repeated penalties never drive the score below the minimum
	for i := 0; i < 5; i++ {
		_, err := svc.AddReputationEvent("pw-1", models.ReputationAccident, "", nil, nil)
		require.NoError(t, err)
	}
	pw, _ := store.GetPlayerWorld("pw-1")
	assert.Equal(t, 0.0, pw.ReputationScore)

	// Repeated bonuses never exceed the maximum
	for i := 0; i < 60; i++ {
		_, err := svc.AddReputationEvent("pw-1", models.ReputationJobCompletedEarly, "", nil, nil)
		require.NoError(t, err)
	}
	pw, _ = store.GetPlayerWorld("pw-1")
	assert.InDelta(t, 5.0, pw.ReputationScore, 1e-9)
}

func TestAddReputationEvent_LevelChangeNotification(t *testing.T) {
	svc, _ := newReputationFixture(t, 2.95)

	result, err := svc.AddReputationEvent("pw-1", models.ReputationJobCompletedOnTime, "", nil, nil)
	require.NoError(t, err)
	assert.True(t, result.LevelChanged)
	assert.Equal(t, 4, result.NewLevel)
	assert.Contains(t, result.Message, "Level up")
	assert.Contains(t, result.Message, "Trusted")

	down, err := svc.AddReputationEvent("pw-1", models.ReputationJobFailed, "", nil, nil)
	require.NoError(t, err)
	assert.True(t, down.LevelChanged)
	assert.Equal(t, 3, down.NewLevel)
	assert.Contains(t, down.Message, "Level down")
}

func TestProcessFlightCompleted_LandingBands(t *testing.T) {
	tests := []struct {
		name string
		rate float64
		want []models.ReputationEventType
	}{
		{"smooth landing", -80, []models.ReputationEventType{models.ReputationSmoothLanding}},
		{"good landing", -150, []models.ReputationEventType{models.ReputationGoodLanding}},
		{"dead zone lower", -250, nil},
		{"dead zone upper", -599, nil},
		{"hard landing", -700, []models.ReputationEventType{models.ReputationHardLanding}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store := newReputationFixture(t, 3.0)

			err := svc.ProcessFlightCompleted("pw-1", landedFlight(tt.rate))
			require.NoError(t, err)

			events, _ := store.GetReputationEvents("pw-1", 10)
			assert.ElementsMatch(t, tt.want, eventTypes(events))
		})
	}
}

func TestProcessFlightCompleted_SafetyEventsFireOncePerFlight(t *testing.T) {
	svc, store := newReputationFixture(t, 3.0)

	flight := landedFlight(-120)
	flight.OverspeedCount = 7
	flight.StallWarningCount = 3

	require.NoError(t, svc.ProcessFlightCompleted("pw-1", flight))

	events, _ := store.GetReputationEvents("pw-1", 10)
	assert.ElementsMatch(t, []models.ReputationEventType{
		models.ReputationGoodLanding,
		models.ReputationOverspeedViolation,
		models.ReputationStallWarning,
	}, eventTypes(events))
}

func TestProcessFlightCompleted_Accident(t *testing.T) {
	svc, store := newReputationFixture(t, 3.0)

	flight := landedFlight(-900)
	flight.State = models.FlightStateFailed

	require.NoError(t, svc.ProcessFlightCompleted("pw-1", flight))

	events, _ := store.GetReputationEvents("pw-1", 10)
	assert.ElementsMatch(t, []models.ReputationEventType{
		models.ReputationHardLanding,
		models.ReputationAccident,
	}, eventTypes(events))
}

func TestProcessFlightCompleted_NoLandingRateNoLandingEvent(t *testing.T) {
	svc, store := newReputationFixture(t, 3.0)

	flight := landedFlight(0)
	flight.LandingRate = nil

	require.NoError(t, svc.ProcessFlightCompleted("pw-1", flight))

	events, _ := store.GetReputationEvents("pw-1", 10)
	assert.Empty(t, events)
}

func TestProcessJobCompleted_TimingPrecedence(t *testing.T) {
	tests := []struct {
		name      string
		wasOnTime bool
		wasEarly  bool
		want      models.ReputationEventType
	}{
		{"early wins over on-time", true, true, models.ReputationJobCompletedEarly},
		{"on time", true, false, models.ReputationJobCompletedOnTime},
		{"late", false, false, models.ReputationJobCompletedLate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store := newReputationFixture(t, 3.0)
			job := &models.Job{ID: "job-1", Title: "Cargo run", RiskLevel: 2}

			require.NoError(t, svc.ProcessJobCompleted("pw-1", job, tt.wasOnTime, tt.wasEarly))

			events, _ := store.GetReputationEvents("pw-1", 10)
			assert.ElementsMatch(t, []models.ReputationEventType{tt.want}, eventTypes(events))
		})
	}
}

func TestProcessJobCompleted_FailedShortCircuits(t *testing.T) {
	svc, store := newReputationFixture(t, 3.0)
	job := &models.Job{ID: "job-1", Title: "Cargo run", RiskLevel: 5, IsFailed: true}

	require.NoError(t, svc.ProcessJobCompleted("pw-1", job, true, true))

	events, _ := store.GetReputationEvents("pw-1", 10)
	assert.ElementsMatch(t, []models.ReputationEventType{models.ReputationJobFailed}, eventTypes(events))

	pw, _ := store.GetPlayerWorld("pw-1")
	assert.Equal(t, 1, pw.FailedDeliveries)
}

func TestProcessJobCompleted_HighRiskBonusStacks(t *testing.T) {
	svc, store := newReputationFixture(t, 3.0)
	job := &models.Job{ID: "job-1", Title: "Hazmat haul", RiskLevel: 4}

	require.NoError(t, svc.ProcessJobCompleted("pw-1", job, true, false))

	events, _ := store.GetReputationEvents("pw-1", 10)
	assert.ElementsMatch(t, []models.ReputationEventType{
		models.ReputationJobCompletedOnTime,
		models.ReputationHighRiskJobCompleted,
	}, eventTypes(events))
}

func TestReputationLevelsAndPayoutBonus(t *testing.T) {
	tests := []struct {
		score     float64
		level     int
		levelName string
		bonus     float64
	}{
		{0.5, 1, "Unreliable", 0},
		{1.5, 2, "Novice", 0},
		{2.5, 3, "Standard", 0},
		{3.5, 4, "Trusted", 10},
		{4.5, 5, "Elite", 20},
	}

	for _, tt := range tests {
		svc, _ := newReputationFixture(t, tt.score)

		status, err := svc.GetReputationStatus("pw-1")
		require.NoError(t, err)
		assert.Equal(t, tt.level, status.Level, "score %.1f", tt.score)
		assert.Equal(t, tt.levelName, status.LevelName)
		assert.Equal(t, tt.bonus, status.PayoutBonus)

		bonus, err := svc.GetPayoutBonus("pw-1")
		require.NoError(t, err)
		assert.Equal(t, tt.bonus, bonus)
	}
}

func TestGetReputationStatus_Progress(t *testing.T) {
	svc, _ := newReputationFixture(t, 3.5)

	status, err := svc.GetReputationStatus("pw-1")
	require.NoError(t, err)
	// Halfway from the level 4 threshold (3.0) to level 5 (4.0)
	assert.InDelta(t, 50.0, status.ProgressToNextLevel, 1e-9)
	assert.Len(t, status.Benefits, 5)

	elite, _ := newReputationFixture(t, 4.8)
	eliteStatus, err := elite.GetReputationStatus("pw-1")
	require.NoError(t, err)
	assert.Equal(t, 100.0, eliteStatus.ProgressToNextLevel)
}

func TestGetReputationHistory_NewestFirstAndLimited(t *testing.T) {
	svc, _ := newReputationFixture(t, 3.0)

	for i := 0; i < 5; i++ {
		_, err := svc.AddReputationEvent("pw-1", models.ReputationSmoothLanding, "", nil, nil)
		require.NoError(t, err)
	}

	events, err := svc.GetReputationHistory("pw-1", 3)
	require.NoError(t, err)
	assert.Len(t, events, 3)
	for i := 1; i < len(events); i++ {
		assert.False(t, events[i].OccurredAt.After(events[i-1].OccurredAt))
	}
}
