package storage

import (
	"errors"
	"sync"
	"time"

	"github.com/pilotlife/pilotlife-backend/internal/geo"
	"github.com/pilotlife/pilotlife-backend/internal/models"
)

var (
	storeInstance Store
	storeOnce     sync.Once
)

// SetStore sets the global store instance (call from main.go)
func SetStore(s Store) {
	storeInstance = s
}

// GetStore returns the global store instance
func GetStore() Store {
	return storeInstance
}

// ErrAlreadyActive is returned by CreateFlight when the user already has a
// non-terminal flight. The database store maps the partial unique index
// violation to this error; the memory store checks directly.
var ErrAlreadyActive = errors.New("user already has an active flight")

// Store defines the interface for storage operations
type Store interface {
	// Flight operations
	CreateFlight(flight *models.TrackedFlight) error
	GetFlight(id string) (*models.TrackedFlight, error)
	GetActiveFlightByUser(userID string) (*models.TrackedFlight, error)
	GetFlightBySession(sessionID string) (*models.TrackedFlight, error)
	UpdateFlight(flight *models.TrackedFlight) error
	CreateFlightJob(flightJob *models.FlightJob) error
	GetFlightJobs(flightID string) ([]*models.FlightJob, error)

	// Airport operations
	GetAirportByIdent(ident string) (*models.Airport, error)
	GetAirportsInBox(box geo.BoundingBox) ([]*models.Airport, error)

	// Aircraft operations
	GetApprovedAircraftByTitle(title string) (*models.Aircraft, error)

	// Job operations
	GetJob(id string) (*models.Job, error)
	GetAssignableJobs(ids []string) ([]*models.Job, error)
	UpdateJob(job *models.Job) error

	// User operations
	GetUser(id string) (*models.User, error)
	UpdateUser(user *models.User) error

	// World operations
	GetWorld(id string) (*models.World, error)
	GetWorlds() ([]*models.World, error)
	GetPlayerWorld(id string) (*models.PlayerWorld, error)
	GetActivePlayerWorldByUser(userID string) (*models.PlayerWorld, error)
	UpdatePlayerWorld(playerWorld *models.PlayerWorld) error
	GetActivePlayersBelowCredit(worldID string, scoreCap int) ([]*models.PlayerWorld, error)
	GetInactivePlayerWorlds(inactiveSince time.Time) ([]*models.PlayerWorld, error)

	// Reputation ledger
	CreateReputationEvent(event *models.ReputationEvent) error
	GetReputationEvents(playerWorldID string, limit int) ([]*models.ReputationEvent, error)

	// Credit ledger
	CreateCreditScoreEvent(event *models.CreditScoreEvent) error
	GetCreditScoreEvents(playerWorldID string, limit int) ([]*models.CreditScoreEvent, error)
}
