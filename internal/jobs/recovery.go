package jobs

import (
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/pilotlife/pilotlife-backend/internal/config"
	"github.com/pilotlife/pilotlife-backend/internal/models"
	"github.com/pilotlife/pilotlife-backend/internal/services"
	"github.com/pilotlife/pilotlife-backend/internal/storage"
)

// RecoveryJob runs the periodic score maintenance sweeps: time-based credit
// recovery per world and reputation decay for inactive players.
type RecoveryJob struct {
	store      storage.Store
	credit     *services.CreditScoreService
	reputation *services.ReputationService
	repConfig  *config.ReputationConfig
	isRunning  bool
}

// NewRecoveryJob creates a new recovery job scheduler
func NewRecoveryJob(
	store storage.Store,
	credit *services.CreditScoreService,
	reputation *services.ReputationService,
	repConfig *config.ReputationConfig,
) *RecoveryJob {
	return &RecoveryJob{
		store:      store,
		credit:     credit,
		reputation: reputation,
		repConfig:  repConfig,
		isRunning:  false,
	}
}

// Start begins the scheduled sweeps
func (j *RecoveryJob) Start() {
	if j.isRunning {
		log.Info("Recovery jobs already running")
		return
	}

	j.isRunning = true
	log.Info("Starting scheduled recovery jobs")

	go j.scheduleCreditRecovery()
	go j.scheduleReputationDecay()
}

// Stop halts all scheduled jobs
func (j *RecoveryJob) Stop() {
	j.isRunning = false
	log.Info("Stopping scheduled recovery jobs")
}

// Credit recovery runs once a day per world.
func (j *RecoveryJob) scheduleCreditRecovery() {
	for j.isRunning {
		time.Sleep(24 * time.Hour)
		if !j.isRunning {
			break
		}
		j.runCreditRecovery()
	}
}

func (j *RecoveryJob) runCreditRecovery() {
	worlds, err := j.store.GetWorlds()
	if err != nil {
		log.WithError(err).Error("Failed to list worlds for credit recovery")
		return
	}

	for _, world := range worlds {
		if err := j.credit.ProcessTimeRecovery(world.ID); err != nil {
			log.WithError(err).WithField("world_id", world.ID).Error("Credit recovery sweep failed")
		}
	}
}

// Reputation decay runs once a day for players idle past the grace period.
func (j *RecoveryJob) scheduleReputationDecay() {
	for j.isRunning {
		time.Sleep(24 * time.Hour)
		if !j.isRunning {
			break
		}
		j.runReputationDecay()
	}
}

func (j *RecoveryJob) runReputationDecay() {
	cutoff := time.Now().UTC().AddDate(0, 0, -j.repConfig.DecayGracePeriodDays)
	players, err := j.store.GetInactivePlayerWorlds(cutoff)
	if err != nil {
		log.WithError(err).Error("Failed to list inactive players for reputation decay")
		return
	}

	for _, playerWorld := range players {
		// Decay pulls towards the base score, never past it
		if playerWorld.ReputationScore <= j.repConfig.BaseScore {
			continue
		}
		if _, err := j.reputation.AddReputationEvent(
			playerWorld.ID, models.ReputationInactivityDecay, "", nil, nil); err != nil {
			log.WithError(err).WithField("player_world_id", playerWorld.ID).
				Error("Reputation decay failed")
		}
	}

	if len(players) > 0 {
		log.WithField("count", len(players)).Debug("Processed reputation decay")
	}
}
