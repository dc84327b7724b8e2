package services

import (
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/pilotlife/pilotlife-backend/internal/storage"
)

// earlyDeliveryMargin is how far ahead of the deadline a delivery counts as
// early rather than merely on time.
const earlyDeliveryMargin = 2 * time.Hour

// JobCompletionResult is the structured outcome of completing a job.
type JobCompletionResult struct {
	Success     bool    `json:"success"`
	JobID       string  `json:"job_id,omitempty"`
	Payout      float64 `json:"payout,omitempty"`
	PayoutBonus float64 `json:"payout_bonus,omitempty"` // percent applied
	WasOnTime   bool    `json:"was_on_time"`
	WasEarly    bool    `json:"was_early"`
	Message     string  `json:"message,omitempty"`
}

// JobService drives the job completion path: delivery timing against the
// deadline, payout scaling by reputation level, and the reputation and credit
// feedback events.
type JobService struct {
	store      storage.Store
	reputation *ReputationService
	credit     *CreditScoreService
}

func NewJobService(store storage.Store, reputation *ReputationService, credit *CreditScoreService) *JobService {
	return &JobService{
		store:      store,
		reputation: reputation,
		credit:     credit,
	}
}

// CompleteJob marks a job completed (or failed), derives the delivery timing
// from the deadline, and feeds the outcome into the reputation and credit
// ledgers. The payout is scaled by the player's current reputation bonus.
func (s *JobService) CompleteJob(playerWorldID, jobID string, failed bool) (*JobCompletionResult, error) {
	job, err := s.store.GetJob(jobID)
	if err != nil {
		return &JobCompletionResult{Success: false, Message: "Job not found"}, nil
	}
	if job.IsCompleted {
		return &JobCompletionResult{Success: false, JobID: job.ID, Message: "Job already completed"}, nil
	}

	now := time.Now().UTC()
	job.IsCompleted = true
	job.IsFailed = failed
	job.CompletedAt = &now

	wasOnTime := true
	wasEarly := false
	if job.Deadline != nil {
		wasOnTime = !now.After(*job.Deadline)
		wasEarly = wasOnTime && job.Deadline.Sub(now) >= earlyDeliveryMargin
	}

	if err := s.store.UpdateJob(job); err != nil {
		return nil, err
	}

	if err := s.reputation.ProcessJobCompleted(playerWorldID, job, wasOnTime, wasEarly); err != nil {
		return nil, err
	}

	if failed {
		if err := s.credit.RecordJobFailed(playerWorldID, job.ID); err != nil {
			return nil, err
		}
		return &JobCompletionResult{
			Success: true,
			JobID:   job.ID,
			Message: "Job marked as failed",
		}, nil
	}

	if err := s.credit.RecordJobCompleted(playerWorldID, job.ID); err != nil {
		return nil, err
	}

	bonus, err := s.reputation.GetPayoutBonus(playerWorldID)
	if err != nil {
		return nil, err
	}
	payout := job.Payout * (1 + bonus/100)

	log.WithFields(log.Fields{
		"job_id":       job.ID,
		"payout":       payout,
		"payout_bonus": bonus,
		"on_time":      wasOnTime,
		"early":        wasEarly,
	}).Info("Job completed")

	return &JobCompletionResult{
		Success:     true,
		JobID:       job.ID,
		Payout:      payout,
		PayoutBonus: bonus,
		WasOnTime:   wasOnTime,
		WasEarly:    wasEarly,
		Message:     "Job completed",
	}, nil
}
