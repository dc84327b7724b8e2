package storage

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/pilotlife/pilotlife-backend/internal/geo"
	"github.com/pilotlife/pilotlife-backend/internal/models"
)

// DatabaseStore is the GORM-backed Store implementation.
type DatabaseStore struct {
	db *gorm.DB
}

func NewDatabaseStore(db *gorm.DB) *DatabaseStore {
	return &DatabaseStore{db: db}
}

// notFoundAsNil maps gorm.ErrRecordNotFound to (nil, nil) for lookups where
// absence is a normal business outcome.
func notFoundAsNil(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	return err
}

// Flight operations

func (s *DatabaseStore) CreateFlight(flight *models.TrackedFlight) error {
	err := s.db.Create(flight).Error
	if err != nil && strings.Contains(err.Error(), "idx_one_active_flight") {
		return ErrAlreadyActive
	}
	return err
}

func (s *DatabaseStore) GetFlight(id string) (*models.TrackedFlight, error) {
	var flight models.TrackedFlight
	if err := s.db.First(&flight, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &flight, nil
}

func (s *DatabaseStore) GetActiveFlightByUser(userID string) (*models.TrackedFlight, error) {
	var flight models.TrackedFlight
	err := s.db.
		Where("user_id = ? AND state NOT IN ?", userID,
			[]models.FlightState{models.FlightStateShutdown, models.FlightStateCancelled, models.FlightStateFailed}).
		First(&flight).Error
	if err != nil {
		return nil, notFoundAsNil(err)
	}
	return &flight, nil
}

func (s *DatabaseStore) GetFlightBySession(sessionID string) (*models.TrackedFlight, error) {
	var flight models.TrackedFlight
	err := s.db.Where("connector_session_id = ?", sessionID).First(&flight).Error
	if err != nil {
		return nil, notFoundAsNil(err)
	}
	return &flight, nil
}

func (s *DatabaseStore) UpdateFlight(flight *models.TrackedFlight) error {
	return s.db.Save(flight).Error
}

func (s *DatabaseStore) CreateFlightJob(flightJob *models.FlightJob) error {
	return s.db.Create(flightJob).Error
}

func (s *DatabaseStore) GetFlightJobs(flightID string) ([]*models.FlightJob, error) {
	var flightJobs []*models.FlightJob
	err := s.db.Where("tracked_flight_id = ?", flightID).Find(&flightJobs).Error
	return flightJobs, err
}

// Airport operations

func (s *DatabaseStore) GetAirportByIdent(ident string) (*models.Airport, error) {
	var airport models.Airport
	err := s.db.Where("ident = ?", ident).First(&airport).Error
	if err != nil {
		return nil, notFoundAsNil(err)
	}
	return &airport, nil
}

func (s *DatabaseStore) GetAirportsInBox(box geo.BoundingBox) ([]*models.Airport, error) {
	var airports []*models.Airport
	err := s.db.
		Where("latitude >= ? AND latitude <= ? AND longitude >= ? AND longitude <= ?",
			box.MinLat, box.MaxLat, box.MinLon, box.MaxLon).
		Find(&airports).Error
	return airports, err
}

// Aircraft operations

func (s *DatabaseStore) GetApprovedAircraftByTitle(title string) (*models.Aircraft, error) {
	var aircraft models.Aircraft
	err := s.db.Where("title = ? AND is_approved = ?", title, true).First(&aircraft).Error
	if err != nil {
		return nil, notFoundAsNil(err)
	}
	return &aircraft, nil
}

// Job operations

func (s *DatabaseStore) GetJob(id string) (*models.Job, error) {
	var job models.Job
	if err := s.db.First(&job, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &job, nil
}

func (s *DatabaseStore) GetAssignableJobs(ids []string) ([]*models.Job, error) {
	var jobs []*models.Job
	err := s.db.Where("id IN ? AND is_completed = ?", ids, false).Find(&jobs).Error
	return jobs, err
}

func (s *DatabaseStore) UpdateJob(job *models.Job) error {
	return s.db.Save(job).Error
}

// User operations

func (s *DatabaseStore) GetUser(id string) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *DatabaseStore) UpdateUser(user *models.User) error {
	return s.db.Save(user).Error
}

// World operations

func (s *DatabaseStore) GetWorld(id string) (*models.World, error) {
	var world models.World
	if err := s.db.First(&world, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &world, nil
}

func (s *DatabaseStore) GetWorlds() ([]*models.World, error) {
	var worlds []*models.World
	err := s.db.Find(&worlds).Error
	return worlds, err
}

func (s *DatabaseStore) GetPlayerWorld(id string) (*models.PlayerWorld, error) {
	var pw models.PlayerWorld
	if err := s.db.First(&pw, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &pw, nil
}

func (s *DatabaseStore) GetActivePlayerWorldByUser(userID string) (*models.PlayerWorld, error) {
	var pw models.PlayerWorld
	err := s.db.Where("user_id = ? AND is_active = ?", userID, true).First(&pw).Error
	if err != nil {
		return nil, notFoundAsNil(err)
	}
	return &pw, nil
}

func (s *DatabaseStore) UpdatePlayerWorld(playerWorld *models.PlayerWorld) error {
	return s.db.Save(playerWorld).Error
}

func (s *DatabaseStore) GetActivePlayersBelowCredit(worldID string, scoreCap int) ([]*models.PlayerWorld, error) {
	var players []*models.PlayerWorld
	err := s.db.
		Where("world_id = ? AND is_active = ? AND credit_score < ?", worldID, true, scoreCap).
		Find(&players).Error
	return players, err
}

func (s *DatabaseStore) GetInactivePlayerWorlds(inactiveSince time.Time) ([]*models.PlayerWorld, error) {
	var players []*models.PlayerWorld
	err := s.db.
		Where("is_active = ? AND last_active_at < ?", true, inactiveSince).
		Find(&players).Error
	return players, err
}

// Ledger operations

func (s *DatabaseStore) CreateReputationEvent(event *models.ReputationEvent) error {
	return s.db.Create(event).Error
}

func (s *DatabaseStore) GetReputationEvents(playerWorldID string, limit int) ([]*models.ReputationEvent, error) {
	var events []*models.ReputationEvent
	err := s.db.
		Where("player_world_id = ?", playerWorldID).
		Order("occurred_at DESC").
		Limit(limit).
		Find(&events).Error
	return events, err
}

func (s *DatabaseStore) CreateCreditScoreEvent(event *models.CreditScoreEvent) error {
	return s.db.Create(event).Error
}

func (s *DatabaseStore) GetCreditScoreEvents(playerWorldID string, limit int) ([]*models.CreditScoreEvent, error) {
	var events []*models.CreditScoreEvent
	err := s.db.
		Where("player_world_id = ?", playerWorldID).
		Order("created_at DESC").
		Limit(limit).
		Find(&events).Error
	return events, err
}
