// Package config holds tunable game-balance values loaded from the
// environment. Point weights and thresholds are data, not business rules:
// operators adjust them per deployment without code changes.
package config

import (
	"os"
	"strconv"
)

// ReputationConfig carries the point weights and level thresholds for the
// reputation system.
type ReputationConfig struct {
	// Score bounds
	BaseScore float64
	MinScore  float64
	MaxScore  float64

	// Job-related weights
	JobOnTimeBonus      float64
	JobEarlyBonus       float64
	JobLatePenalty      float64
	JobFailedPenalty    float64
	JobCancelledPenalty float64

	// Landing quality weights
	SmoothLandingBonus float64
	GoodLandingBonus   float64
	HardLandingPenalty float64

	// Safety weights
	OverspeedPenalty    float64
	StallWarningPenalty float64
	AccidentPenalty     float64

	// Special bonuses
	HighRiskJobBonus float64
	VipJobBonus      float64

	// Inactivity decay
	DecayRatePerDay      float64
	DecayGracePeriodDays int

	// Level thresholds (score required to reach levels 2-5)
	Level2Threshold float64
	Level3Threshold float64
	Level4Threshold float64
	Level5Threshold float64

	// Payout bonuses (percent)
	TrustedPayoutBonus float64
	ElitePayoutBonus   float64
}

// LoadReputationConfig returns the reference configuration with any
// REPUTATION_* environment overrides applied.
func LoadReputationConfig() *ReputationConfig {
	return &ReputationConfig{
		BaseScore: envFloat("REPUTATION_BASE_SCORE", 3.0),
		MinScore:  envFloat("REPUTATION_MIN_SCORE", 0.0),
		MaxScore:  envFloat("REPUTATION_MAX_SCORE", 5.0),

		JobOnTimeBonus:      envFloat("REPUTATION_JOB_ON_TIME_BONUS", 0.1),
		JobEarlyBonus:       envFloat("REPUTATION_JOB_EARLY_BONUS", 0.15),
		JobLatePenalty:      envFloat("REPUTATION_JOB_LATE_PENALTY", -0.1),
		JobFailedPenalty:    envFloat("REPUTATION_JOB_FAILED_PENALTY", -0.3),
		JobCancelledPenalty: envFloat("REPUTATION_JOB_CANCELLED_PENALTY", -0.15),

		SmoothLandingBonus: envFloat("REPUTATION_SMOOTH_LANDING_BONUS", 0.02),
		GoodLandingBonus:   envFloat("REPUTATION_GOOD_LANDING_BONUS", 0.01),
		HardLandingPenalty: envFloat("REPUTATION_HARD_LANDING_PENALTY", -0.05),

		OverspeedPenalty:    envFloat("REPUTATION_OVERSPEED_PENALTY", -0.03),
		StallWarningPenalty: envFloat("REPUTATION_STALL_WARNING_PENALTY", -0.02),
		AccidentPenalty:     envFloat("REPUTATION_ACCIDENT_PENALTY", -0.5),

		HighRiskJobBonus: envFloat("REPUTATION_HIGH_RISK_JOB_BONUS", 0.05),
		VipJobBonus:      envFloat("REPUTATION_VIP_JOB_BONUS", 0.1),

		DecayRatePerDay:      envFloat("REPUTATION_DECAY_RATE_PER_DAY", 0.01),
		DecayGracePeriodDays: envInt("REPUTATION_DECAY_GRACE_PERIOD_DAYS", 7),

		Level2Threshold: envFloat("REPUTATION_LEVEL2_THRESHOLD", 1.0),
		Level3Threshold: envFloat("REPUTATION_LEVEL3_THRESHOLD", 2.0),
		Level4Threshold: envFloat("REPUTATION_LEVEL4_THRESHOLD", 3.0),
		Level5Threshold: envFloat("REPUTATION_LEVEL5_THRESHOLD", 4.0),

		TrustedPayoutBonus: envFloat("REPUTATION_TRUSTED_PAYOUT_BONUS", 10),
		ElitePayoutBonus:   envFloat("REPUTATION_ELITE_PAYOUT_BONUS", 20),
	}
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
