package models

import "time"

// User is a registered pilot. Authentication and password handling live in the
// auth layer; this model only carries the fields the tracking core touches.
type User struct {
	ID       string `json:"id" gorm:"primaryKey"`
	Username string `json:"username" gorm:"uniqueIndex"`
	Email    string `json:"email"`

	CurrentAirportID   *string `json:"current_airport_id"`
	TotalFlightMinutes int     `json:"total_flight_minutes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// World is a persistent game world players join.
type World struct {
	ID   string `json:"id" gorm:"primaryKey"`
	Name string `json:"name"`

	// Multiplier applied to time-based credit recovery sweeps
	CreditRecoveryMultiplier float64 `json:"credit_recovery_multiplier"`

	CreatedAt time.Time `json:"created_at"`
}

// PlayerWorld is the per-world player aggregate carrying the running
// reputation and credit totals.
type PlayerWorld struct {
	ID      string `json:"id" gorm:"primaryKey"`
	UserID  string `json:"user_id" gorm:"index"`
	WorldID string `json:"world_id" gorm:"index"`

	ReputationScore float64 `json:"reputation_score"`
	CreditScore     int     `json:"credit_score"`

	OnTimeDeliveries int `json:"on_time_deliveries"`
	LateDeliveries   int `json:"late_deliveries"`
	FailedDeliveries int `json:"failed_deliveries"`

	IsActive     bool       `json:"is_active"`
	JoinedAt     time.Time  `json:"joined_at"`
	LastActiveAt *time.Time `json:"last_active_at"`
}
