package models

import "time"

// CreditScoreEventType identifies what caused a credit score change.
type CreditScoreEventType string

const (
	CreditInitial         CreditScoreEventType = "Initial"
	CreditPaymentOnTime   CreditScoreEventType = "PaymentOnTime"
	CreditPaymentLate     CreditScoreEventType = "PaymentLate"
	CreditPaymentMissed   CreditScoreEventType = "PaymentMissed"
	CreditLoanPaidOff     CreditScoreEventType = "LoanPaidOff"
	CreditLoanDefaulted   CreditScoreEventType = "LoanDefaulted"
	CreditLoanOpened      CreditScoreEventType = "LoanOpened"
	CreditJobCompleted    CreditScoreEventType = "JobCompleted"
	CreditJobFailed       CreditScoreEventType = "JobFailed"
	CreditTimeRecovery    CreditScoreEventType = "TimeRecovery"
	CreditAdminAdjustment CreditScoreEventType = "AdminAdjustment"
)

// CreditScoreEvent is an append-only ledger entry recording one credit score
// change and the reason for it.
type CreditScoreEvent struct {
	ID            string               `json:"id" gorm:"primaryKey"`
	PlayerWorldID string               `json:"player_world_id" gorm:"index"`
	WorldID       string               `json:"world_id"`
	EventType     CreditScoreEventType `json:"event_type"`

	ScoreBefore int    `json:"score_before"`
	ScoreAfter  int    `json:"score_after"`
	ScoreChange int    `json:"score_change"`
	Description string `json:"description"`

	RelatedLoanID *string `json:"related_loan_id"`
	RelatedJobID  *string `json:"related_job_id"`

	CreatedAt time.Time `json:"created_at" gorm:"index"`
}

// CreditScoreBreakdown summarises a player's credit standing.
type CreditScoreBreakdown struct {
	CurrentScore          int       `json:"current_score"`
	Rating                string    `json:"rating"`
	MinPossible           int       `json:"min_possible"`
	MaxPossible           int       `json:"max_possible"`
	OnTimePaymentPercent  float64   `json:"on_time_payment_percent"`
	RecentPositiveChanges int       `json:"recent_positive_changes"`
	RecentNegativeChanges int       `json:"recent_negative_changes"`
	LastUpdated           time.Time `json:"last_updated"`
}
