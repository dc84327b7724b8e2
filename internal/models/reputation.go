package models

import "time"

// ReputationEventType identifies what caused a reputation change. The string
// values are persisted, so they must stay stable.
type ReputationEventType string

const (
	// Job-related events
	ReputationJobCompletedOnTime ReputationEventType = "JobCompletedOnTime"
	ReputationJobCompletedEarly  ReputationEventType = "JobCompletedEarly"
	ReputationJobCompletedLate   ReputationEventType = "JobCompletedLate"
	ReputationJobFailed          ReputationEventType = "JobFailed"
	ReputationJobCancelled       ReputationEventType = "JobCancelled"

	// Landing quality
	ReputationSmoothLanding ReputationEventType = "SmoothLanding"
	ReputationGoodLanding   ReputationEventType = "GoodLanding"
	ReputationHardLanding   ReputationEventType = "HardLanding"

	// Safety violations
	ReputationOverspeedViolation ReputationEventType = "OverspeedViolation"
	ReputationStallWarning       ReputationEventType = "StallWarning"
	ReputationAccident           ReputationEventType = "Accident"

	// Special bonuses
	ReputationHighRiskJobCompleted ReputationEventType = "HighRiskJobCompleted"
	ReputationVipJobCompleted      ReputationEventType = "VipJobCompleted"

	// Administrative
	ReputationInactivityDecay ReputationEventType = "InactivityDecay"
)

// ReputationEvent is an append-only ledger entry. Rows are never updated or
// deleted after creation.
type ReputationEvent struct {
	ID            string              `json:"id" gorm:"primaryKey"`
	PlayerWorldID string              `json:"player_world_id" gorm:"index"`
	EventType     ReputationEventType `json:"event_type"`

	PointChange    float64 `json:"point_change"`
	ResultingScore float64 `json:"resulting_score"`
	Description    string  `json:"description"`

	RelatedJobID    *string `json:"related_job_id"`
	RelatedFlightID *string `json:"related_flight_id"`

	OccurredAt time.Time `json:"occurred_at" gorm:"index"`
}

// ReputationResult is returned by AddReputationEvent so callers can surface
// level changes to the player.
type ReputationResult struct {
	Success      bool    `json:"success"`
	NewScore     float64 `json:"new_score"`
	PointChange  float64 `json:"point_change"`
	NewLevel     int     `json:"new_level"`
	LevelChanged bool    `json:"level_changed"`
	Message      string  `json:"message,omitempty"`
}

// ReputationBenefit describes a perk unlocked at a reputation level.
type ReputationBenefit struct {
	Name          string `json:"name"`
	Description   string `json:"description"`
	IsUnlocked    bool   `json:"is_unlocked"`
	RequiredLevel int    `json:"required_level"`
}

// ReputationStatus is the full player-facing reputation summary.
type ReputationStatus struct {
	PlayerWorldID       string              `json:"player_world_id"`
	Score               float64             `json:"score"`
	Level               int                 `json:"level"`
	LevelName           string              `json:"level_name"`
	ProgressToNextLevel float64             `json:"progress_to_next_level"` // percent
	OnTimeDeliveries    int                 `json:"on_time_deliveries"`
	LateDeliveries      int                 `json:"late_deliveries"`
	FailedDeliveries    int                 `json:"failed_deliveries"`
	PayoutBonus         float64             `json:"payout_bonus"` // percent
	Benefits            []ReputationBenefit `json:"benefits"`
}
