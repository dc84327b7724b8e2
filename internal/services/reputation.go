package services

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/pilotlife/pilotlife-backend/internal/config"
	"github.com/pilotlife/pilotlife-backend/internal/models"
	"github.com/pilotlife/pilotlife-backend/internal/storage"
)

// ReputationService maintains the per-world reputation score: an append-only
// event ledger over a clamped continuous score, with five ordinal levels
// derived from configured thresholds. All point weights come from the
// configuration, never from call sites.
type ReputationService struct {
	store  storage.Store
	config *config.ReputationConfig
}

func NewReputationService(store storage.Store, cfg *config.ReputationConfig) *ReputationService {
	return &ReputationService{
		store:  store,
		config: cfg,
	}
}

// AddReputationEvent applies one event: computes the weighted point change,
// clamps the new score, appends the ledger row, bumps delivery counters for
// job-related events, and reports a level change when one happened.
func (s *ReputationService) AddReputationEvent(
	playerWorldID string,
	eventType models.ReputationEventType,
	description string,
	relatedJobID, relatedFlightID *string,
) (*models.ReputationResult, error) {
	playerWorld, err := s.store.GetPlayerWorld(playerWorldID)
	if err != nil {
		return &models.ReputationResult{
			Success: false,
			Message: "Player world not found",
		}, nil
	}

	oldLevel := s.Level(playerWorld.ReputationScore)
	pointChange := s.pointChangeFor(eventType)
	newScore := clamp(playerWorld.ReputationScore+pointChange, s.config.MinScore, s.config.MaxScore)

	if description == "" {
		description = defaultDescription(eventType)
	}

	event := &models.ReputationEvent{
		ID:              uuid.New().String(),
		PlayerWorldID:   playerWorldID,
		EventType:       eventType,
		PointChange:     pointChange,
		ResultingScore:  newScore,
		Description:     description,
		RelatedJobID:    relatedJobID,
		RelatedFlightID: relatedFlightID,
		OccurredAt:      time.Now().UTC(),
	}
	if err := s.store.CreateReputationEvent(event); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	playerWorld.ReputationScore = newScore
	playerWorld.LastActiveAt = &now
	updateDeliveryStats(playerWorld, eventType)

	if err := s.store.UpdatePlayerWorld(playerWorld); err != nil {
		return nil, err
	}

	newLevel := s.Level(newScore)
	levelChanged := newLevel != oldLevel

	result := &models.ReputationResult{
		Success:      true,
		NewScore:     newScore,
		PointChange:  pointChange,
		NewLevel:     newLevel,
		LevelChanged: levelChanged,
	}
	if levelChanged {
		direction := "up"
		if newLevel < oldLevel {
			direction = "down"
		}
		result.Message = fmt.Sprintf("Level %s! You are now %s", direction, LevelName(newLevel))
		log.WithFields(log.Fields{
			"player_world_id": playerWorldID,
			"old_level":       oldLevel,
			"new_level":       newLevel,
		}).Info("Reputation level changed")
	}

	return result, nil
}

// ProcessFlightCompleted derives reputation events from a completed flight.
// The checks are independent, not mutually exclusive: a flight can earn a
// landing bonus and still collect overspeed and stall penalties.
func (s *ReputationService) ProcessFlightCompleted(playerWorldID string, flight *models.TrackedFlight) error {
	// Landing quality bands; the 200-600 fpm range deliberately produces
	// no event.
	if flight.LandingRate != nil {
		landingRate := math.Abs(*flight.LandingRate)

		switch {
		case landingRate < 100:
			if _, err := s.AddReputationEvent(playerWorldID, models.ReputationSmoothLanding,
				fmt.Sprintf("Smooth landing at %s (%.0f fpm)", flight.ArrivalIcao, landingRate),
				nil, &flight.ID); err != nil {
				return err
			}
		case landingRate < 200:
			if _, err := s.AddReputationEvent(playerWorldID, models.ReputationGoodLanding,
				fmt.Sprintf("Good landing at %s (%.0f fpm)", flight.ArrivalIcao, landingRate),
				nil, &flight.ID); err != nil {
				return err
			}
		case landingRate > 600:
			if _, err := s.AddReputationEvent(playerWorldID, models.ReputationHardLanding,
				fmt.Sprintf("Hard landing at %s (%.0f fpm)", flight.ArrivalIcao, landingRate),
				nil, &flight.ID); err != nil {
				return err
			}
		}
	}

	// One event per flight regardless of how many occurrences
	if flight.OverspeedCount > 0 {
		if _, err := s.AddReputationEvent(playerWorldID, models.ReputationOverspeedViolation,
			fmt.Sprintf("Overspeed violation during flight (%d events)", flight.OverspeedCount),
			nil, &flight.ID); err != nil {
			return err
		}
	}

	if flight.StallWarningCount > 0 {
		if _, err := s.AddReputationEvent(playerWorldID, models.ReputationStallWarning,
			fmt.Sprintf("Stall warning during flight (%d events)", flight.StallWarningCount),
			nil, &flight.ID); err != nil {
			return err
		}
	}

	if flight.State == models.FlightStateFailed {
		if _, err := s.AddReputationEvent(playerWorldID, models.ReputationAccident,
			"Flight ended in accident", nil, &flight.ID); err != nil {
			return err
		}
	}

	return nil
}

// ProcessJobCompleted derives reputation events from a job outcome. A failed
// job short-circuits with a single failure event; otherwise exactly one of
// early/on-time/late fires (early wins over on-time), plus a stacking
// high-risk bonus for risk level 4 and above.
func (s *ReputationService) ProcessJobCompleted(playerWorldID string, job *models.Job, wasOnTime, wasEarly bool) error {
	if job.IsFailed {
		_, err := s.AddReputationEvent(playerWorldID, models.ReputationJobFailed,
			fmt.Sprintf("Failed to complete job: %s", job.Title), &job.ID, nil)
		return err
	}

	var eventType models.ReputationEventType
	var description string

	switch {
	case wasEarly:
		eventType = models.ReputationJobCompletedEarly
		description = fmt.Sprintf("Delivered early: %s", job.Title)
	case wasOnTime:
		eventType = models.ReputationJobCompletedOnTime
		description = fmt.Sprintf("Delivered on time: %s", job.Title)
	default:
		eventType = models.ReputationJobCompletedLate
		description = fmt.Sprintf("Delivered late: %s", job.Title)
	}

	if _, err := s.AddReputationEvent(playerWorldID, eventType, description, &job.ID, nil); err != nil {
		return err
	}

	if job.RiskLevel >= 4 {
		if _, err := s.AddReputationEvent(playerWorldID, models.ReputationHighRiskJobCompleted,
			fmt.Sprintf("Completed high-risk job: %s", job.Title), &job.ID, nil); err != nil {
			return err
		}
	}

	return nil
}

// GetReputationStatus returns the full player-facing summary.
func (s *ReputationService) GetReputationStatus(playerWorldID string) (*models.ReputationStatus, error) {
	playerWorld, err := s.store.GetPlayerWorld(playerWorldID)
	if err != nil {
		return nil, err
	}

	level := s.Level(playerWorld.ReputationScore)
	return &models.ReputationStatus{
		PlayerWorldID:       playerWorldID,
		Score:               playerWorld.ReputationScore,
		Level:               level,
		LevelName:           LevelName(level),
		ProgressToNextLevel: s.progressToNextLevel(playerWorld.ReputationScore),
		OnTimeDeliveries:    playerWorld.OnTimeDeliveries,
		LateDeliveries:      playerWorld.LateDeliveries,
		FailedDeliveries:    playerWorld.FailedDeliveries,
		PayoutBonus:         s.payoutBonusForLevel(level),
		Benefits:            benefitsForLevel(level),
	}, nil
}

// GetReputationHistory returns the newest ledger entries, most recent first.
func (s *ReputationService) GetReputationHistory(playerWorldID string, limit int) ([]*models.ReputationEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.store.GetReputationEvents(playerWorldID, limit)
}

// GetPayoutBonus returns the flat percentage bonus applied to job payouts for
// the player's current level.
func (s *ReputationService) GetPayoutBonus(playerWorldID string) (float64, error) {
	playerWorld, err := s.store.GetPlayerWorld(playerWorldID)
	if err != nil {
		return 0, nil
	}
	return s.payoutBonusForLevel(s.Level(playerWorld.ReputationScore)), nil
}

// Level maps a score onto the ordinal 1-5 tier using configured thresholds.
func (s *ReputationService) Level(score float64) int {
	switch {
	case score < s.config.Level2Threshold:
		return 1
	case score < s.config.Level3Threshold:
		return 2
	case score < s.config.Level4Threshold:
		return 3
	case score < s.config.Level5Threshold:
		return 4
	default:
		return 5
	}
}

// LevelName returns the display name for a reputation level.
func LevelName(level int) string {
	switch level {
	case 1:
		return "Unreliable"
	case 2:
		return "Novice"
	case 3:
		return "Standard"
	case 4:
		return "Trusted"
	case 5:
		return "Elite"
	default:
		return "Unknown"
	}
}

func (s *ReputationService) pointChangeFor(eventType models.ReputationEventType) float64 {
	switch eventType {
	case models.ReputationJobCompletedOnTime:
		return s.config.JobOnTimeBonus
	case models.ReputationJobCompletedEarly:
		return s.config.JobEarlyBonus
	case models.ReputationJobCompletedLate:
		return s.config.JobLatePenalty
	case models.ReputationJobFailed:
		return s.config.JobFailedPenalty
	case models.ReputationJobCancelled:
		return s.config.JobCancelledPenalty
	case models.ReputationSmoothLanding:
		return s.config.SmoothLandingBonus
	case models.ReputationGoodLanding:
		return s.config.GoodLandingBonus
	case models.ReputationHardLanding:
		return s.config.HardLandingPenalty
	case models.ReputationOverspeedViolation:
		return s.config.OverspeedPenalty
	case models.ReputationStallWarning:
		return s.config.StallWarningPenalty
	case models.ReputationAccident:
		return s.config.AccidentPenalty
	case models.ReputationHighRiskJobCompleted:
		return s.config.HighRiskJobBonus
	case models.ReputationVipJobCompleted:
		return s.config.VipJobBonus
	case models.ReputationInactivityDecay:
		return -s.config.DecayRatePerDay
	default:
		return 0
	}
}

func (s *ReputationService) progressToNextLevel(score float64) float64 {
	level := s.Level(score)
	if level >= 5 {
		return 100
	}

	var currentThreshold, nextThreshold float64
	switch level {
	case 1:
		currentThreshold, nextThreshold = s.config.MinScore, s.config.Level2Threshold
	case 2:
		currentThreshold, nextThreshold = s.config.Level2Threshold, s.config.Level3Threshold
	case 3:
		currentThreshold, nextThreshold = s.config.Level3Threshold, s.config.Level4Threshold
	case 4:
		currentThreshold, nextThreshold = s.config.Level4Threshold, s.config.Level5Threshold
	}

	progress := (score - currentThreshold) / (nextThreshold - currentThreshold) * 100
	return clamp(progress, 0, 100)
}

func (s *ReputationService) payoutBonusForLevel(level int) float64 {
	switch level {
	case 4:
		return s.config.TrustedPayoutBonus
	case 5:
		return s.config.ElitePayoutBonus
	default:
		return 0
	}
}

func benefitsForLevel(currentLevel int) []models.ReputationBenefit {
	return []models.ReputationBenefit{
		{
			Name:          "Basic Jobs",
			Description:   "Access to standard cargo and passenger jobs",
			IsUnlocked:    currentLevel >= 2,
			RequiredLevel: 2,
		},
		{
			Name:          "Priority Jobs",
			Description:   "Access to priority and time-sensitive jobs",
			IsUnlocked:    currentLevel >= 3,
			RequiredLevel: 3,
		},
		{
			Name:          "10% Payout Bonus",
			Description:   "Earn 10% more on all jobs",
			IsUnlocked:    currentLevel >= 4,
			RequiredLevel: 4,
		},
		{
			Name:          "VIP Jobs",
			Description:   "Access to VIP and exclusive jobs",
			IsUnlocked:    currentLevel >= 5,
			RequiredLevel: 5,
		},
		{
			Name:          "20% Payout Bonus",
			Description:   "Earn 20% more on all jobs",
			IsUnlocked:    currentLevel >= 5,
			RequiredLevel: 5,
		},
	}
}

func updateDeliveryStats(playerWorld *models.PlayerWorld, eventType models.ReputationEventType) {
	switch eventType {
	case models.ReputationJobCompletedOnTime, models.ReputationJobCompletedEarly:
		playerWorld.OnTimeDeliveries++
	case models.ReputationJobCompletedLate:
		playerWorld.LateDeliveries++
	case models.ReputationJobFailed:
		playerWorld.FailedDeliveries++
	}
}

func defaultDescription(eventType models.ReputationEventType) string {
	switch eventType {
	case models.ReputationJobCompletedOnTime:
		return "Job completed on time"
	case models.ReputationJobCompletedEarly:
		return "Job completed early"
	case models.ReputationJobCompletedLate:
		return "Job completed late"
	case models.ReputationJobFailed:
		return "Job failed"
	case models.ReputationJobCancelled:
		return "Job cancelled"
	case models.ReputationSmoothLanding:
		return "Smooth landing"
	case models.ReputationGoodLanding:
		return "Good landing"
	case models.ReputationHardLanding:
		return "Hard landing"
	case models.ReputationOverspeedViolation:
		return "Overspeed violation"
	case models.ReputationStallWarning:
		return "Stall warning"
	case models.ReputationAccident:
		return "Accident"
	case models.ReputationHighRiskJobCompleted:
		return "High-risk job completed"
	case models.ReputationVipJobCompleted:
		return "VIP job completed"
	case models.ReputationInactivityDecay:
		return "Inactivity decay"
	default:
		return "Reputation event"
	}
}

func clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
