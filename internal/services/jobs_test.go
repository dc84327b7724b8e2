package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pilotlife/pilotlife-backend/internal/config"
	"github.com/pilotlife/pilotlife-backend/internal/models"
	"github.com/pilotlife/pilotlife-backend/internal/storage"
)

func newJobFixture(t *testing.T, reputationScore float64) (*JobService, *storage.MemoryStore) {
	t.Helper()
	store := storage.NewMemoryStore()
	store.AddWorld(&models.World{ID: "world-1", CreditRecoveryMultiplier: 1.0})
	store.AddPlayerWorld(&models.PlayerWorld{
		ID:              "pw-1",
		UserID:          "user-1",
		WorldID:         "world-1",
		ReputationScore: reputationScore,
		CreditScore:     650,
		IsActive:        true,
	})

	reputation := NewReputationService(store, config.LoadReputationConfig())
	credit := NewCreditScoreService(store)
	return NewJobService(store, reputation, credit), store
}

func deadlineJob(deadline *time.Time) *models.Job {
	return &models.Job{
		ID:            "job-1",
		WorldID:       "world-1",
		Title:         "Cargo to Boston",
		DepartureIcao: "KJFK",
		ArrivalIcao:   "KBOS",
		Payout:        1200,
		RiskLevel:     2,
		Deadline:      deadline,
	}
}

func TestCompleteJob_OnTime(t *testing.T) {
	svc, store := newJobFixture(t, 3.0)
	deadline := time.Now().UTC().Add(time.Hour)
	store.AddJob(deadlineJob(&deadline))

	result, err := svc.CompleteJob("pw-1", "job-1", false)
	require.NoError(t, err)
	require.True(t, result.Success)
	assert.True(t, result.WasOnTime)
	assert.False(t, result.WasEarly, "within the early margin counts as merely on time")
	assert.Equal(t, 1200.0, result.Payout)
	assert.Equal(t, 0.0, result.PayoutBonus)

	job, _ := store.GetJob("job-1")
	assert.True(t, job.IsCompleted)
	assert.False(t, job.IsFailed)
	require.NotNil(t, job.CompletedAt)

	pw, _ := store.GetPlayerWorld("pw-1")
	assert.Equal(t, 1, pw.OnTimeDeliveries)
	assert.Equal(t, 652, pw.CreditScore)
}

func TestCompleteJob_Early(t *testing.T) {
	svc, store := newJobFixture(t, 3.0)
	deadline := time.Now().UTC().Add(5 * time.Hour)
	store.AddJob(deadlineJob(&deadline))

	result, err := svc.CompleteJob("pw-1", "job-1", false)
	require.NoError(t, err)
	assert.True(t, result.WasOnTime)
	assert.True(t, result.WasEarly)

	events, _ := store.GetReputationEvents("pw-1", 10)
	require.Len(t, events, 1)
	assert.Equal(t, models.ReputationJobCompletedEarly, events[0].EventType)
}

func TestCompleteJob_Late(t *testing.T) {
	svc, store := newJobFixture(t, 3.0)
	deadline := time.Now().UTC().Add(-time.Hour)
	store.AddJob(deadlineJob(&deadline))

	result, err := svc.CompleteJob("pw-1", "job-1", false)
	require.NoError(t, err)
	require.True(t, result.Success)
	assert.False(t, result.WasOnTime)
	assert.False(t, result.WasEarly)

	pw, _ := store.GetPlayerWorld("pw-1")
	assert.Equal(t, 1, pw.LateDeliveries)
}

func TestCompleteJob_NoDeadlineCountsOnTime(t *testing.T) {
	svc, store := newJobFixture(t, 3.0)
	store.AddJob(deadlineJob(nil))

	result, err := svc.CompleteJob("pw-1", "job-1", false)
	require.NoError(t, err)
	assert.True(t, result.WasOnTime)
	assert.False(t, result.WasEarly)
}

func TestCompleteJob_PayoutBonusByReputationLevel(t *testing.T) {
	tests := []struct {
		name       string
		score      float64
		wantBonus  float64
		wantPayout float64
	}{
		{"standard pays base", 2.5, 0, 1200},
		{"trusted pays 10 percent more", 3.5, 10, 1320},
		{"elite pays 20 percent more", 4.5, 20, 1440},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store := newJobFixture(t, tt.score)
			deadline := time.Now().UTC().Add(time.Hour)
			store.AddJob(deadlineJob(&deadline))

			result, err := svc.CompleteJob("pw-1", "job-1", false)
			require.NoError(t, err)
			assert.Equal(t, tt.wantBonus, result.PayoutBonus)
			assert.InDelta(t, tt.wantPayout, result.Payout, 1e-9)
		})
	}
}

func TestCompleteJob_Failed(t *testing.T) {
	svc, store := newJobFixture(t, 3.0)
	deadline := time.Now().UTC().Add(time.Hour)
	store.AddJob(deadlineJob(&deadline))

	result, err := svc.CompleteJob("pw-1", "job-1", true)
	require.NoError(t, err)
	require.True(t, result.Success)
	assert.Zero(t, result.Payout)
	assert.Equal(t, "Job marked as failed", result.Message)

	job, _ := store.GetJob("job-1")
	assert.True(t, job.IsCompleted)
	assert.True(t, job.IsFailed)

	pw, _ := store.GetPlayerWorld("pw-1")
	assert.Equal(t, 1, pw.FailedDeliveries)
	assert.Equal(t, 640, pw.CreditScore)

	events, _ := store.GetReputationEvents("pw-1", 10)
	require.Len(t, events, 1)
	assert.Equal(t, models.ReputationJobFailed, events[0].EventType)
}

func TestCompleteJob_UnknownJob(t *testing.T) {
	svc, _ := newJobFixture(t, 3.0)

	result, err := svc.CompleteJob("pw-1", "missing", false)
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "Job not found", result.Message)
}

func TestCompleteJob_AlreadyCompleted(t *testing.T) {
	svc, store := newJobFixture(t, 3.0)
	deadline := time.Now().UTC().Add(time.Hour)
	store.AddJob(deadlineJob(&deadline))

	_, err := svc.CompleteJob("pw-1", "job-1", false)
	require.NoError(t, err)

	result, err := svc.CompleteJob("pw-1", "job-1", false)
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "Job already completed", result.Message)

	// The second attempt must not double-count the delivery
	pw, _ := store.GetPlayerWorld("pw-1")
	assert.Equal(t, 1, pw.OnTimeDeliveries)
}
