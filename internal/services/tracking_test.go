package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pilotlife/pilotlife-backend/internal/config"
	"github.com/pilotlife/pilotlife-backend/internal/models"
	"github.com/pilotlife/pilotlife-backend/internal/storage"
)

func newTrackingFixture(t *testing.T) (*FlightTrackingService, *storage.MemoryStore) {
	t.Helper()
	store := storage.NewMemoryStore()

	store.AddAirport(&models.Airport{
		ID:        "apt-jfk",
		Ident:     "KJFK",
		Name:      "John F Kennedy Intl",
		Latitude:  40.6413,
		Longitude: -73.7781,
	})
	store.AddAirport(&models.Airport{
		ID:        "apt-bos",
		Ident:     "KBOS",
		Name:      "Boston Logan Intl",
		Latitude:  42.3656,
		Longitude: -71.0096,
	})
	store.AddAircraft(&models.Aircraft{
		ID:         "ac-c172",
		Title:      "Cessna 172 Skyhawk",
		IcaoType:   "C172",
		IsApproved: true,
	})
	store.AddUser(&models.User{ID: "user-1", Username: "pilot1"})

	reputation := NewReputationService(store, config.LoadReputationConfig())
	return NewFlightTrackingService(store, reputation), store
}

func startData(sessionID string) *models.FlightStartData {
	return &models.FlightStartData{
		SessionID:     sessionID,
		AircraftTitle: "Cessna 172 Skyhawk",
		Latitude:      40.64,
		Longitude:     -73.78,
		Altitude:      13,
		FuelGallons:   40,
	}
}

func TestStartFlight_CreatesPreFlightWithResolvedAirport(t *testing.T) {
	svc, store := newTrackingFixture(t)

	resp, err := svc.StartFlight("user-1", startData("sess-1"))
	require.NoError(t, err)
	require.True(t, resp.Success)
	assert.Equal(t, string(models.FlightStatePreFlight), resp.State)

	flight, err := store.GetFlight(resp.FlightID)
	require.NoError(t, err)
	assert.Equal(t, "KJFK", flight.DepartureIcao)
	require.NotNil(t, flight.AircraftID)
	assert.Equal(t, "ac-c172", *flight.AircraftID)
	assert.Equal(t, 0, flight.OverspeedCount)
	assert.Equal(t, 0.0, flight.MaxAltitude)
}

func TestStartFlight_ExplicitIcaoWinsOverNearest(t *testing.T) {
	svc, store := newTrackingFixture(t)

	data := startData("sess-1")
	data.NearestAirportIcao = "KBOS"
	resp, err := svc.StartFlight("user-1", data)
	require.NoError(t, err)
	require.True(t, resp.Success)

	flight, _ := store.GetFlight(resp.FlightID)
	assert.Equal(t, "KBOS", flight.DepartureIcao)
}

func TestStartFlight_RejectsSecondActiveFlight(t *testing.T) {
	svc, _ := newTrackingFixture(t)

	first, err := svc.StartFlight("user-1", startData("sess-1"))
	require.NoError(t, err)
	require.True(t, first.Success)

	second, err := svc.StartFlight("user-1", startData("sess-2"))
	require.NoError(t, err)
	assert.False(t, second.Success)
	assert.Contains(t, second.Message, "already has an active flight")
	assert.Equal(t, first.FlightID, second.FlightID)
}

func TestUpdateFlight_UnknownSession(t *testing.T) {
	svc, _ := newTrackingFixture(t)

	resp, err := svc.UpdateFlight("user-1", sample(true, 0, 0, 0, true))
	require.NoError(t, err)
	assert.False(t, resp.Success)
	assert.Equal(t, "No active flight found for this session", resp.Message)
}

func TestUpdateFlight_WrongOwner(t *testing.T) {
	svc, store := newTrackingFixture(t)
	store.AddUser(&models.User{ID: "user-2", Username: "pilot2"})

	_, err := svc.StartFlight("user-1", startData("sess-1"))
	require.NoError(t, err)

	update := sample(true, 10, 0, 0, true)
	update.SessionID = "sess-1"
	resp, err := svc.UpdateFlight("user-2", update)
	require.NoError(t, err)
	assert.False(t, resp.Success)
	assert.Equal(t, "Flight does not belong to this user", resp.Message)
}

func TestUpdateFlight_TracksStatisticsAndIncidents(t *testing.T) {
	svc, store := newTrackingFixture(t)

	resp, err := svc.StartFlight("user-1", startData("sess-1"))
	require.NoError(t, err)

	update := sample(false, 150, 4500, 600, true)
	update.SessionID = "sess-1"
	update.Overspeed = true
	update.StallWarning = true
	_, err = svc.UpdateFlight("user-1", update)
	require.NoError(t, err)

	// Lower sample must not reduce the high-water marks
	update2 := sample(false, 120, 3200, 0, true)
	update2.SessionID = "sess-1"
	_, err = svc.UpdateFlight("user-1", update2)
	require.NoError(t, err)

	flight, _ := store.GetFlight(resp.FlightID)
	assert.Equal(t, 4500.0, flight.MaxAltitude)
	assert.Equal(t, 150.0, flight.MaxGroundSpeed)
	assert.Equal(t, 1, flight.OverspeedCount)
	assert.Equal(t, 1, flight.StallWarningCount)
	assert.Equal(t, models.FlightStateEnRoute, flight.State)
}

func TestUpdateFlight_StampsDepartureTimeOnFirstTaxi(t *testing.T) {
	svc, store := newTrackingFixture(t)

	resp, err := svc.StartFlight("user-1", startData("sess-1"))
	require.NoError(t, err)

	// PreFlight holds at slow taxi, so push through a takeoff roll and an
	// aborted takeoff to enter Taxiing
	roll := sample(true, 40, 0, 0, true)
	roll.SessionID = "sess-1"
	_, err = svc.UpdateFlight("user-1", roll)
	require.NoError(t, err)

	abort := sample(true, 15, 0, 0, true)
	abort.SessionID = "sess-1"
	_, err = svc.UpdateFlight("user-1", abort)
	require.NoError(t, err)

	flight, _ := store.GetFlight(resp.FlightID)
	require.Equal(t, models.FlightStateTaxiing, flight.State)
	require.NotNil(t, flight.DepartureTime)
	stamped := *flight.DepartureTime

	// A second Taxiing entry must not restamp
	_, err = svc.UpdateFlight("user-1", roll)
	require.NoError(t, err)
	_, err = svc.UpdateFlight("user-1", abort)
	require.NoError(t, err)

	flight, _ = store.GetFlight(resp.FlightID)
	assert.Equal(t, stamped, *flight.DepartureTime)
}

func TestEndFlight_ComputesDerivedFields(t *testing.T) {
	svc, store := newTrackingFixture(t)

	resp, err := svc.StartFlight("user-1", startData("sess-1"))
	require.NoError(t, err)

	// Force a departure time so flight time is computed
	flight, _ := store.GetFlight(resp.FlightID)
	departed := time.Now().UTC().Add(-90 * time.Minute)
	flight.DepartureTime = &departed
	require.NoError(t, store.UpdateFlight(flight))

	landingRate := -150.0
	endResp, err := svc.EndFlight("user-1", &models.FlightEndData{
		SessionID:   "sess-1",
		Latitude:    42.36,
		Longitude:   -71.01,
		FuelGallons: 25,
		LandingRate: &landingRate,
	})
	require.NoError(t, err)
	require.True(t, endResp.Success)
	assert.Equal(t, string(models.FlightStateShutdown), endResp.State)

	flight, _ = store.GetFlight(resp.FlightID)
	assert.Equal(t, "KBOS", flight.ArrivalIcao)
	require.NotNil(t, flight.FuelUsedGallons)
	assert.InDelta(t, 15.0, *flight.FuelUsedGallons, 1e-9)
	assert.InDelta(t, 90, float64(flight.FlightTimeMinutes), 1)
	assert.InDelta(t, 161, flight.DistanceNm, 5) // KJFK-KBOS great circle
	assert.Equal(t, 0, flight.HardLandingCount)

	// Pilot moved to the arrival airport with rolled-up minutes
	user, _ := store.GetUser("user-1")
	require.NotNil(t, user.CurrentAirportID)
	assert.Equal(t, "apt-bos", *user.CurrentAirportID)
	assert.Equal(t, flight.FlightTimeMinutes, user.TotalFlightMinutes)
}

func TestEndFlight_HardLandingAndCrash(t *testing.T) {
	svc, store := newTrackingFixture(t)

	resp, err := svc.StartFlight("user-1", startData("sess-1"))
	require.NoError(t, err)

	landingRate := -750.0
	endResp, err := svc.EndFlight("user-1", &models.FlightEndData{
		SessionID:   "sess-1",
		Latitude:    40.64,
		Longitude:   -73.78,
		FuelGallons: 30,
		LandingRate: &landingRate,
		WasCrash:    true,
	})
	require.NoError(t, err)
	require.True(t, endResp.Success)
	assert.Equal(t, string(models.FlightStateFailed), endResp.State)
	assert.Equal(t, "Flight ended (crash)", endResp.Message)

	flight, _ := store.GetFlight(resp.FlightID)
	assert.Equal(t, 1, flight.HardLandingCount)
}

func TestEndFlight_AllowsNewFlightAfterwards(t *testing.T) {
	svc, _ := newTrackingFixture(t)

	_, err := svc.StartFlight("user-1", startData("sess-1"))
	require.NoError(t, err)

	_, err = svc.EndFlight("user-1", &models.FlightEndData{
		SessionID:   "sess-1",
		Latitude:    40.64,
		Longitude:   -73.78,
		FuelGallons: 30,
	})
	require.NoError(t, err)

	resp, err := svc.StartFlight("user-1", startData("sess-2"))
	require.NoError(t, err)
	assert.True(t, resp.Success)
}

func TestCancelFlight(t *testing.T) {
	svc, store := newTrackingFixture(t)

	resp, err := svc.StartFlight("user-1", startData("sess-1"))
	require.NoError(t, err)

	ok, err := svc.CancelFlight(resp.FlightID, "connector disconnected")
	require.NoError(t, err)
	assert.True(t, ok)

	flight, _ := store.GetFlight(resp.FlightID)
	assert.Equal(t, models.FlightStateCancelled, flight.State)
	assert.Equal(t, "connector disconnected", flight.Notes)
	assert.NotNil(t, flight.CompletedAt)

	// Cancelling a terminal flight is a no-op failure
	ok, err = svc.CancelFlight(resp.FlightID, "again")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAssignJobsToFlight(t *testing.T) {
	svc, store := newTrackingFixture(t)
	store.AddJob(&models.Job{ID: "job-1", Title: "Cargo run"})
	store.AddJob(&models.Job{ID: "job-2", Title: "Done already", IsCompleted: true})

	resp, err := svc.StartFlight("user-1", startData("sess-1"))
	require.NoError(t, err)

	ok, err := svc.AssignJobsToFlight(resp.FlightID, []string{"job-1", "job-2"})
	require.NoError(t, err)
	assert.True(t, ok)

	flightJobs, _ := store.GetFlightJobs(resp.FlightID)
	require.Len(t, flightJobs, 1)
	assert.Equal(t, "job-1", flightJobs[0].JobID)

	job, _ := store.GetJob("job-1")
	require.NotNil(t, job.AssignedToUserID)
	assert.Equal(t, "user-1", *job.AssignedToUserID)

	// Terminal flight rejects assignment
	_, err = svc.CancelFlight(resp.FlightID, "")
	require.NoError(t, err)
	ok, err = svc.AssignJobsToFlight(resp.FlightID, []string{"job-1"})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFindNearestAirport(t *testing.T) {
	svc, _ := newTrackingFixture(t)

	airport, err := svc.FindNearestAirport(40.64, -73.78, 10)
	require.NoError(t, err)
	require.NotNil(t, airport)
	assert.Equal(t, "KJFK", airport.Ident)

	// Nothing within range in the middle of the Atlantic
	airport, err = svc.FindNearestAirport(45.0, -40.0, 10)
	require.NoError(t, err)
	assert.Nil(t, airport)
}
