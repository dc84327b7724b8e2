package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/pilotlife/pilotlife-backend/internal/models"
	"github.com/pilotlife/pilotlife-backend/internal/storage"
)

// Credit score constants
const (
	CreditMinScore     = 300
	CreditMaxScore     = 850
	CreditInitialScore = 650
	creditRecoveryCap  = 650 // natural recovery never exceeds this

	onTimePaymentPoints  = 5
	latePaymentPenalty   = 15
	missedPaymentPenalty = 50
	loanPaidOffBonus     = 25
	loanDefaultedPenalty = 150
	loanOpenedPenalty    = 5 // taking on new debt
	jobCompletedPoints   = 2
	jobFailedPenalty     = 10
	timeRecoveryPoints   = 1
)

// CreditScoreService records score-affecting events against the player's
// credit score, bounded to [300, 850]. Every change appends an immutable
// CreditScoreEvent row.
type CreditScoreService struct {
	store storage.Store
}

func NewCreditScoreService(store storage.Store) *CreditScoreService {
	return &CreditScoreService{store: store}
}

// GetCreditScore returns the current score, or the initial score when the
// player world is unknown.
func (s *CreditScoreService) GetCreditScore(playerWorldID string) (int, error) {
	playerWorld, err := s.store.GetPlayerWorld(playerWorldID)
	if err != nil {
		return CreditInitialScore, nil
	}
	return playerWorld.CreditScore, nil
}

// GetCreditHistory returns the newest ledger entries, most recent first.
func (s *CreditScoreService) GetCreditHistory(playerWorldID string, limit int) ([]*models.CreditScoreEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.store.GetCreditScoreEvents(playerWorldID, limit)
}

// InitializeCreditScore sets a new player's score and records the initial
// ledger entry.
func (s *CreditScoreService) InitializeCreditScore(playerWorldID string) error {
	playerWorld, err := s.store.GetPlayerWorld(playerWorldID)
	if err != nil {
		return nil
	}

	playerWorld.CreditScore = CreditInitialScore
	if err := s.store.UpdatePlayerWorld(playerWorld); err != nil {
		return err
	}

	event := &models.CreditScoreEvent{
		ID:            uuid.New().String(),
		PlayerWorldID: playerWorldID,
		WorldID:       playerWorld.WorldID,
		EventType:     models.CreditInitial,
		ScoreBefore:   CreditInitialScore,
		ScoreAfter:    CreditInitialScore,
		ScoreChange:   0,
		Description:   "Initial credit score",
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.store.CreateCreditScoreEvent(event); err != nil {
		return err
	}

	log.WithFields(log.Fields{"player_world_id": playerWorldID, "score": CreditInitialScore}).
		Info("Initialized credit score")
	return nil
}

func (s *CreditScoreService) RecordLoanOpened(playerWorldID, loanID string) error {
	return s.recordEvent(playerWorldID, models.CreditLoanOpened, -loanOpenedPenalty,
		"New loan opened", &loanID, nil)
}

func (s *CreditScoreService) RecordOnTimePayment(playerWorldID, loanID string) error {
	return s.recordEvent(playerWorldID, models.CreditPaymentOnTime, onTimePaymentPoints,
		"On-time loan payment", &loanID, nil)
}

// RecordLatePayment scales the penalty with how late the payment was.
func (s *CreditScoreService) RecordLatePayment(playerWorldID, loanID string, daysLate int) error {
	penalty := latePaymentPenalty + daysLate*2
	return s.recordEvent(playerWorldID, models.CreditPaymentLate, -penalty,
		fmt.Sprintf("Late loan payment (%d days late)", daysLate), &loanID, nil)
}

func (s *CreditScoreService) RecordMissedPayment(playerWorldID, loanID string) error {
	return s.recordEvent(playerWorldID, models.CreditPaymentMissed, -missedPaymentPenalty,
		"Missed loan payment", &loanID, nil)
}

func (s *CreditScoreService) RecordLoanPaidOff(playerWorldID, loanID string) error {
	return s.recordEvent(playerWorldID, models.CreditLoanPaidOff, loanPaidOffBonus,
		"Loan fully paid off", &loanID, nil)
}

func (s *CreditScoreService) RecordLoanDefaulted(playerWorldID, loanID string) error {
	return s.recordEvent(playerWorldID, models.CreditLoanDefaulted, -loanDefaultedPenalty,
		"Loan defaulted", &loanID, nil)
}

func (s *CreditScoreService) RecordJobCompleted(playerWorldID, jobID string) error {
	return s.recordEvent(playerWorldID, models.CreditJobCompleted, jobCompletedPoints,
		"Job completed successfully", nil, &jobID)
}

func (s *CreditScoreService) RecordJobFailed(playerWorldID, jobID string) error {
	return s.recordEvent(playerWorldID, models.CreditJobFailed, -jobFailedPenalty,
		"Job failed or abandoned", nil, &jobID)
}

// ProcessTimeRecovery sweeps active players below the recovery cap and grants
// them recovery points scaled by the world's multiplier.
func (s *CreditScoreService) ProcessTimeRecovery(worldID string) error {
	world, err := s.store.GetWorld(worldID)
	if err != nil {
		return nil
	}

	players, err := s.store.GetActivePlayersBelowCredit(worldID, creditRecoveryCap)
	if err != nil {
		return err
	}

	for _, playerWorld := range players {
		recoveryPoints := int(timeRecoveryPoints * world.CreditRecoveryMultiplier)
		scoreBefore := playerWorld.CreditScore
		scoreAfter := scoreBefore + recoveryPoints
		if scoreAfter > creditRecoveryCap {
			scoreAfter = creditRecoveryCap
		}
		if scoreAfter <= scoreBefore {
			continue
		}

		playerWorld.CreditScore = scoreAfter
		if err := s.store.UpdatePlayerWorld(playerWorld); err != nil {
			return err
		}

		event := &models.CreditScoreEvent{
			ID:            uuid.New().String(),
			PlayerWorldID: playerWorld.ID,
			WorldID:       worldID,
			EventType:     models.CreditTimeRecovery,
			ScoreBefore:   scoreBefore,
			ScoreAfter:    scoreAfter,
			ScoreChange:   scoreAfter - scoreBefore,
			Description:   "Time-based credit recovery",
			CreatedAt:     time.Now().UTC(),
		}
		if err := s.store.CreateCreditScoreEvent(event); err != nil {
			return err
		}
	}

	if len(players) > 0 {
		log.WithFields(log.Fields{"count": len(players), "world_id": worldID}).
			Debug("Processed time-based credit recovery")
	}
	return nil
}

// GetCreditBreakdown summarises the player's standing from recent ledger
// entries.
func (s *CreditScoreService) GetCreditBreakdown(playerWorldID string) (*models.CreditScoreBreakdown, error) {
	playerWorld, err := s.store.GetPlayerWorld(playerWorldID)
	if err != nil {
		return &models.CreditScoreBreakdown{
			CurrentScore: CreditInitialScore,
			MinPossible:  CreditMinScore,
			MaxPossible:  CreditMaxScore,
		}, nil
	}

	recentEvents, err := s.store.GetCreditScoreEvents(playerWorldID, 100)
	if err != nil {
		return nil, err
	}

	totalPayments := 0
	onTimePayments := 0
	positive := 0
	negative := 0
	for _, e := range recentEvents {
		if e.EventType == models.CreditPaymentOnTime || e.EventType == models.CreditPaymentLate {
			totalPayments++
		}
		if e.EventType == models.CreditPaymentOnTime {
			onTimePayments++
		}
		if e.ScoreChange > 0 {
			positive += e.ScoreChange
		} else {
			negative += -e.ScoreChange
		}
	}

	paymentHistoryPercent := 100.0
	if totalPayments > 0 {
		paymentHistoryPercent = float64(onTimePayments) / float64(totalPayments) * 100
	}

	lastUpdated := playerWorld.JoinedAt
	if len(recentEvents) > 0 {
		lastUpdated = recentEvents[0].CreatedAt
	}

	return &models.CreditScoreBreakdown{
		CurrentScore:          playerWorld.CreditScore,
		Rating:                creditRating(playerWorld.CreditScore),
		MinPossible:           CreditMinScore,
		MaxPossible:           CreditMaxScore,
		OnTimePaymentPercent:  paymentHistoryPercent,
		RecentPositiveChanges: positive,
		RecentNegativeChanges: negative,
		LastUpdated:           lastUpdated,
	}, nil
}

// recordEvent applies a point change clamped to the score bounds and appends
// the ledger row.
func (s *CreditScoreService) recordEvent(
	playerWorldID string,
	eventType models.CreditScoreEventType,
	pointChange int,
	description string,
	loanID, jobID *string,
) error {
	playerWorld, err := s.store.GetPlayerWorld(playerWorldID)
	if err != nil {
		return nil
	}

	scoreBefore := playerWorld.CreditScore
	scoreAfter := scoreBefore + pointChange
	if scoreAfter < CreditMinScore {
		scoreAfter = CreditMinScore
	}
	if scoreAfter > CreditMaxScore {
		scoreAfter = CreditMaxScore
	}

	playerWorld.CreditScore = scoreAfter
	if err := s.store.UpdatePlayerWorld(playerWorld); err != nil {
		return err
	}

	event := &models.CreditScoreEvent{
		ID:            uuid.New().String(),
		PlayerWorldID: playerWorldID,
		WorldID:       playerWorld.WorldID,
		EventType:     eventType,
		ScoreBefore:   scoreBefore,
		ScoreAfter:    scoreAfter,
		ScoreChange:   scoreAfter - scoreBefore,
		Description:   description,
		RelatedLoanID: loanID,
		RelatedJobID:  jobID,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.store.CreateCreditScoreEvent(event); err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"player_world_id": playerWorldID,
		"before":          scoreBefore,
		"after":           scoreAfter,
		"event":           eventType,
	}).Debug("Credit score changed")
	return nil
}

func creditRating(score int) string {
	switch {
	case score >= 800:
		return "Excellent"
	case score >= 740:
		return "Very Good"
	case score >= 670:
		return "Good"
	case score >= 580:
		return "Fair"
	default:
		return "Poor"
	}
}
