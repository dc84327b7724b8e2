package models

import "time"

// Job is a cargo or passenger job offered in a world.
type Job struct {
	ID      string `json:"id" gorm:"primaryKey"`
	WorldID string `json:"world_id" gorm:"index"`
	Title   string `json:"title"`

	DepartureIcao string `json:"departure_icao"`
	ArrivalIcao   string `json:"arrival_icao"`

	CargoWeightLbs float64 `json:"cargo_weight_lbs"`
	Payout         float64 `json:"payout"`
	RiskLevel      int     `json:"risk_level"` // 1 (routine) to 5 (hazardous)

	Deadline         *time.Time `json:"deadline"`
	AssignedToUserID *string    `json:"assigned_to_user_id" gorm:"index"`

	IsCompleted bool       `json:"is_completed"`
	IsFailed    bool       `json:"is_failed"`
	CompletedAt *time.Time `json:"completed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
