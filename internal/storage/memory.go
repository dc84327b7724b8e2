package storage

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/pilotlife/pilotlife-backend/internal/geo"
	"github.com/pilotlife/pilotlife-backend/internal/models"
)

// MemoryStore is an in-memory Store implementation used for tests and local
// development (USE_MEMORY_STORE=true). Lookup methods whose absence is a
// normal business outcome (active flight, session, nearest airport) return
// (nil, nil) when nothing matches, mirroring the database store.
type MemoryStore struct {
	flightMu     sync.RWMutex
	flights      map[string]*models.TrackedFlight
	flightJobs   map[string]*models.FlightJob
	airportMu    sync.RWMutex
	airports     map[string]*models.Airport
	aircraftMu   sync.RWMutex
	aircraft     map[string]*models.Aircraft
	jobMu        sync.RWMutex
	jobs         map[string]*models.Job
	userMu       sync.RWMutex
	users        map[string]*models.User
	worldMu      sync.RWMutex
	worlds       map[string]*models.World
	playerWorlds map[string]*models.PlayerWorld
	ledgerMu     sync.RWMutex
	repEvents    []*models.ReputationEvent
	creditEvents []*models.CreditScoreEvent
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		flights:      make(map[string]*models.TrackedFlight),
		flightJobs:   make(map[string]*models.FlightJob),
		airports:     make(map[string]*models.Airport),
		aircraft:     make(map[string]*models.Aircraft),
		jobs:         make(map[string]*models.Job),
		users:        make(map[string]*models.User),
		worlds:       make(map[string]*models.World),
		playerWorlds: make(map[string]*models.PlayerWorld),
	}
}

// Flight operations

func (m *MemoryStore) CreateFlight(flight *models.TrackedFlight) error {
	m.flightMu.Lock()
	defer m.flightMu.Unlock()

	// Enforce the one-active-flight-per-user invariant the same way the
	// partial unique index does in Postgres.
	for _, f := range m.flights {
		if f.UserID == flight.UserID && !f.State.IsTerminal() {
			return ErrAlreadyActive
		}
	}

	m.flights[flight.ID] = flight
	return nil
}

func (m *MemoryStore) GetFlight(id string) (*models.TrackedFlight, error) {
	m.flightMu.RLock()
	defer m.flightMu.RUnlock()

	flight, exists := m.flights[id]
	if !exists {
		return nil, fmt.Errorf("flight not found")
	}
	return flight, nil
}

func (m *MemoryStore) GetActiveFlightByUser(userID string) (*models.TrackedFlight, error) {
	m.flightMu.RLock()
	defer m.flightMu.RUnlock()

	for _, f := range m.flights {
		if f.UserID == userID && !f.State.IsTerminal() {
			return f, nil
		}
	}
	return nil, nil
}

func (m *MemoryStore) GetFlightBySession(sessionID string) (*models.TrackedFlight, error) {
	m.flightMu.RLock()
	defer m.flightMu.RUnlock()

	for _, f := range m.flights {
		if f.ConnectorSessionID == sessionID {
			return f, nil
		}
	}
	return nil, nil
}

func (m *MemoryStore) UpdateFlight(flight *models.TrackedFlight) error {
	m.flightMu.Lock()
	defer m.flightMu.Unlock()

	if _, exists := m.flights[flight.ID]; !exists {
		return fmt.Errorf("flight not found")
	}
	m.flights[flight.ID] = flight
	return nil
}

func (m *MemoryStore) CreateFlightJob(flightJob *models.FlightJob) error {
	m.flightMu.Lock()
	defer m.flightMu.Unlock()

	m.flightJobs[flightJob.ID] = flightJob
	return nil
}

func (m *MemoryStore) GetFlightJobs(flightID string) ([]*models.FlightJob, error) {
	m.flightMu.RLock()
	defer m.flightMu.RUnlock()

	var result []*models.FlightJob
	for _, fj := range m.flightJobs {
		if fj.TrackedFlightID == flightID {
			result = append(result, fj)
		}
	}
	return result, nil
}

// Airport operations

func (m *MemoryStore) AddAirport(airport *models.Airport) {
	m.airportMu.Lock()
	defer m.airportMu.Unlock()

	m.airports[airport.ID] = airport
}

func (m *MemoryStore) GetAirportByIdent(ident string) (*models.Airport, error) {
	m.airportMu.RLock()
	defer m.airportMu.RUnlock()

	for _, a := range m.airports {
		if a.Ident == ident {
			return a, nil
		}
	}
	return nil, nil
}

func (m *MemoryStore) GetAirportsInBox(box geo.BoundingBox) ([]*models.Airport, error) {
	m.airportMu.RLock()
	defer m.airportMu.RUnlock()

	var result []*models.Airport
	for _, a := range m.airports {
		if a.Latitude >= box.MinLat && a.Latitude <= box.MaxLat &&
			a.Longitude >= box.MinLon && a.Longitude <= box.MaxLon {
			result = append(result, a)
		}
	}
	return result, nil
}

// Aircraft operations

func (m *MemoryStore) AddAircraft(aircraft *models.Aircraft) {
	m.aircraftMu.Lock()
	defer m.aircraftMu.Unlock()

	m.aircraft[aircraft.ID] = aircraft
}

func (m *MemoryStore) GetApprovedAircraftByTitle(title string) (*models.Aircraft, error) {
	m.aircraftMu.RLock()
	defer m.aircraftMu.RUnlock()

	for _, a := range m.aircraft {
		if a.Title == title && a.IsApproved {
			return a, nil
		}
	}
	return nil, nil
}

// Job operations

func (m *MemoryStore) AddJob(job *models.Job) {
	m.jobMu.Lock()
	defer m.jobMu.Unlock()

	m.jobs[job.ID] = job
}

func (m *MemoryStore) GetJob(id string) (*models.Job, error) {
	m.jobMu.RLock()
	defer m.jobMu.RUnlock()

	job, exists := m.jobs[id]
	if !exists {
		return nil, fmt.Errorf("job not found")
	}
	return job, nil
}

func (m *MemoryStore) GetAssignableJobs(ids []string) ([]*models.Job, error) {
	m.jobMu.RLock()
	defer m.jobMu.RUnlock()

	var result []*models.Job
	for _, id := range ids {
		if job, exists := m.jobs[id]; exists && !job.IsCompleted {
			result = append(result, job)
		}
	}
	return result, nil
}

func (m *MemoryStore) UpdateJob(job *models.Job) error {
	m.jobMu.Lock()
	defer m.jobMu.Unlock()

	if _, exists := m.jobs[job.ID]; !exists {
		return fmt.Errorf("job not found")
	}
	m.jobs[job.ID] = job
	return nil
}

// User operations

func (m *MemoryStore) AddUser(user *models.User) {
	m.userMu.Lock()
	defer m.userMu.Unlock()

	m.users[user.ID] = user
}

func (m *MemoryStore) GetUser(id string) (*models.User, error) {
	m.userMu.RLock()
	defer m.userMu.RUnlock()

	user, exists := m.users[id]
	if !exists {
		return nil, fmt.Errorf("user not found")
	}
	return user, nil
}

func (m *MemoryStore) UpdateUser(user *models.User) error {
	m.userMu.Lock()
	defer m.userMu.Unlock()

	if _, exists := m.users[user.ID]; !exists {
		return fmt.Errorf("user not found")
	}
	m.users[user.ID] = user
	return nil
}

// World operations

func (m *MemoryStore) AddWorld(world *models.World) {
	m.worldMu.Lock()
	defer m.worldMu.Unlock()

	m.worlds[world.ID] = world
}

func (m *MemoryStore) GetWorld(id string) (*models.World, error) {
	m.worldMu.RLock()
	defer m.worldMu.RUnlock()

	world, exists := m.worlds[id]
	if !exists {
		return nil, fmt.Errorf("world not found")
	}
	return world, nil
}

func (m *MemoryStore) GetWorlds() ([]*models.World, error) {
	m.worldMu.RLock()
	defer m.worldMu.RUnlock()

	var result []*models.World
	for _, w := range m.worlds {
		result = append(result, w)
	}
	return result, nil
}

func (m *MemoryStore) AddPlayerWorld(playerWorld *models.PlayerWorld) {
	m.worldMu.Lock()
	defer m.worldMu.Unlock()

	m.playerWorlds[playerWorld.ID] = playerWorld
}

func (m *MemoryStore) GetPlayerWorld(id string) (*models.PlayerWorld, error) {
	m.worldMu.RLock()
	defer m.worldMu.RUnlock()

	pw, exists := m.playerWorlds[id]
	if !exists {
		return nil, fmt.Errorf("player world not found")
	}
	return pw, nil
}

func (m *MemoryStore) GetActivePlayerWorldByUser(userID string) (*models.PlayerWorld, error) {
	m.worldMu.RLock()
	defer m.worldMu.RUnlock()

	for _, pw := range m.playerWorlds {
		if pw.UserID == userID && pw.IsActive {
			return pw, nil
		}
	}
	return nil, nil
}

func (m *MemoryStore) UpdatePlayerWorld(playerWorld *models.PlayerWorld) error {
	m.worldMu.Lock()
	defer m.worldMu.Unlock()

	if _, exists := m.playerWorlds[playerWorld.ID]; !exists {
		return fmt.Errorf("player world not found")
	}
	m.playerWorlds[playerWorld.ID] = playerWorld
	return nil
}

func (m *MemoryStore) GetActivePlayersBelowCredit(worldID string, scoreCap int) ([]*models.PlayerWorld, error) {
	m.worldMu.RLock()
	defer m.worldMu.RUnlock()

	var result []*models.PlayerWorld
	for _, pw := range m.playerWorlds {
		if pw.WorldID == worldID && pw.IsActive && pw.CreditScore < scoreCap {
			result = append(result, pw)
		}
	}
	return result, nil
}

func (m *MemoryStore) GetInactivePlayerWorlds(inactiveSince time.Time) ([]*models.PlayerWorld, error) {
	m.worldMu.RLock()
	defer m.worldMu.RUnlock()

	var result []*models.PlayerWorld
	for _, pw := range m.playerWorlds {
		if pw.IsActive && pw.LastActiveAt != nil && pw.LastActiveAt.Before(inactiveSince) {
			result = append(result, pw)
		}
	}
	return result, nil
}

// Ledger operations

func (m *MemoryStore) CreateReputationEvent(event *models.ReputationEvent) error {
	m.ledgerMu.Lock()
	defer m.ledgerMu.Unlock()

	m.repEvents = append(m.repEvents, event)
	return nil
}

func (m *MemoryStore) GetReputationEvents(playerWorldID string, limit int) ([]*models.ReputationEvent, error) {
	m.ledgerMu.RLock()
	defer m.ledgerMu.RUnlock()

	var result []*models.ReputationEvent
	for _, e := range m.repEvents {
		if e.PlayerWorldID == playerWorldID {
			result = append(result, e)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].OccurredAt.After(result[j].OccurredAt)
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (m *MemoryStore) CreateCreditScoreEvent(event *models.CreditScoreEvent) error {
	m.ledgerMu.Lock()
	defer m.ledgerMu.Unlock()

	m.creditEvents = append(m.creditEvents, event)
	return nil
}

func (m *MemoryStore) GetCreditScoreEvents(playerWorldID string, limit int) ([]*models.CreditScoreEvent, error) {
	m.ledgerMu.RLock()
	defer m.ledgerMu.RUnlock()

	var result []*models.CreditScoreEvent
	for _, e := range m.creditEvents {
		if e.PlayerWorldID == playerWorldID {
			result = append(result, e)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}
