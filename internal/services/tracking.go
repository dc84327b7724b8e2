package services

import (
	"errors"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/pilotlife/pilotlife-backend/internal/geo"
	"github.com/pilotlife/pilotlife-backend/internal/models"
	"github.com/pilotlife/pilotlife-backend/internal/storage"
)

// FlightTrackingService owns the lifecycle of tracked flights: start, periodic
// telemetry updates, end/cancel, and job assignment. Expected business
// failures (already-active flight, unknown session, wrong owner) come back in
// the FlightUpdateResponse, never as an error.
type FlightTrackingService struct {
	store      storage.Store
	reputation *ReputationService
}

func NewFlightTrackingService(store storage.Store, reputation *ReputationService) *FlightTrackingService {
	return &FlightTrackingService{
		store:      store,
		reputation: reputation,
	}
}

// StartFlight creates a new tracked flight in PreFlight state with zeroed
// statistics. The departure airport is resolved by exact ICAO match when the
// connector supplied one, otherwise by nearest-airport lookup within 10 nm.
func (s *FlightTrackingService) StartFlight(userID string, data *models.FlightStartData) (*models.FlightUpdateResponse, error) {
	existing, err := s.store.GetActiveFlightByUser(userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		log.WithFields(log.Fields{"user_id": userID, "flight_id": existing.ID}).
			Warn("User already has an active flight")
		return &models.FlightUpdateResponse{
			Success:  false,
			FlightID: existing.ID,
			State:    string(existing.State),
			Message:  "User already has an active flight",
		}, nil
	}

	// Best-effort aircraft match; nil is fine
	aircraft, err := s.store.GetApprovedAircraftByTitle(data.AircraftTitle)
	if err != nil {
		return nil, err
	}

	departureAirport, err := s.resolveAirport(data.NearestAirportIcao, data.Latitude, data.Longitude)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	flight := &models.TrackedFlight{
		ID:                 uuid.New().String(),
		UserID:             userID,
		State:              models.FlightStatePreFlight,
		AircraftTitle:      data.AircraftTitle,
		AircraftIcaoType:   data.AircraftIcaoType,
		CurrentLatitude:    data.Latitude,
		CurrentLongitude:   data.Longitude,
		CurrentAltitude:    data.Altitude,
		CurrentHeading:     data.Heading,
		CurrentGroundSpeed: 0,
		LastPositionUpdate: &now,
		StartFuelGallons:   &data.FuelGallons,
		PayloadWeightLbs:   data.PayloadWeightLbs,
		TotalWeightLbs:     data.TotalWeightLbs,
		ConnectorSessionID: data.SessionID,
	}
	if aircraft != nil {
		flight.AircraftID = &aircraft.ID
	}
	if departureAirport != nil {
		flight.DepartureAirportID = &departureAirport.ID
		flight.DepartureIcao = departureAirport.Ident
	} else {
		flight.DepartureIcao = data.NearestAirportIcao
	}

	if err := s.store.CreateFlight(flight); err != nil {
		// The unique index can still fire under concurrent starts even
		// though the pre-check passed.
		if errors.Is(err, storage.ErrAlreadyActive) {
			return &models.FlightUpdateResponse{
				Success: false,
				Message: "User already has an active flight",
			}, nil
		}
		return nil, err
	}

	log.WithFields(log.Fields{
		"flight_id": flight.ID,
		"user_id":   userID,
		"airport":   flight.DepartureIcao,
	}).Info("Started flight")

	return &models.FlightUpdateResponse{
		Success:  true,
		FlightID: flight.ID,
		State:    string(flight.State),
		Message:  "Flight started",
	}, nil
}

// UpdateFlight applies one telemetry sample: position, high-water marks,
// incident counters, and the state machine. The flight is looked up by the
// connector session ID.
func (s *FlightTrackingService) UpdateFlight(userID string, update *models.FlightStateUpdate) (*models.FlightUpdateResponse, error) {
	flight, err := s.store.GetFlightBySession(update.SessionID)
	if err != nil {
		return nil, err
	}
	if flight == nil {
		log.WithField("session_id", update.SessionID).Warn("No flight found for session")
		return &models.FlightUpdateResponse{
			Success: false,
			Message: "No active flight found for this session",
		}, nil
	}

	if flight.UserID != userID {
		log.WithFields(log.Fields{
			"user_id":   userID,
			"flight_id": flight.ID,
			"owner_id":  flight.UserID,
		}).Warn("User attempted to update a flight they do not own")
		return &models.FlightUpdateResponse{
			Success: false,
			Message: "Flight does not belong to this user",
		}, nil
	}

	now := time.Now().UTC()
	flight.CurrentLatitude = update.Position.Latitude
	flight.CurrentLongitude = update.Position.Longitude
	flight.CurrentAltitude = update.Position.Altitude
	flight.CurrentHeading = update.Position.Heading
	flight.CurrentGroundSpeed = update.Position.GroundSpeed
	flight.LastPositionUpdate = &now

	if update.Position.Altitude > flight.MaxAltitude {
		flight.MaxAltitude = update.Position.Altitude
	}
	if update.Position.GroundSpeed > flight.MaxGroundSpeed {
		flight.MaxGroundSpeed = update.Position.GroundSpeed
	}

	if update.Overspeed {
		flight.OverspeedCount++
	}
	if update.StallWarning {
		flight.StallWarningCount++
	}

	newState := DetermineFlightState(update, flight.State)
	if newState != flight.State {
		log.WithFields(log.Fields{
			"flight_id": flight.ID,
			"old_state": flight.State,
			"new_state": newState,
		}).Info("Flight state changed")
		flight.State = newState

		// Stamp departure time on the first Taxiing entry
		if newState == models.FlightStateTaxiing && flight.DepartureTime == nil {
			flight.DepartureTime = &now
		}
	}

	if err := s.store.UpdateFlight(flight); err != nil {
		return nil, err
	}

	return &models.FlightUpdateResponse{
		Success:  true,
		FlightID: flight.ID,
		State:    string(flight.State),
		Message:  "Flight updated",
	}, nil
}

// EndFlight finalizes the flight: resolves the arrival airport, computes fuel
// used, flight time, and great-circle distance, records the landing rate, and
// moves the flight to its terminal state. The completed flight is then fed to
// the reputation pipeline.
func (s *FlightTrackingService) EndFlight(userID string, data *models.FlightEndData) (*models.FlightUpdateResponse, error) {
	flight, err := s.store.GetFlightBySession(data.SessionID)
	if err != nil {
		return nil, err
	}
	if flight == nil {
		log.WithField("session_id", data.SessionID).Warn("No flight found for session")
		return &models.FlightUpdateResponse{
			Success: false,
			Message: "No active flight found for this session",
		}, nil
	}

	if flight.UserID != userID {
		return &models.FlightUpdateResponse{
			Success: false,
			Message: "Flight does not belong to this user",
		}, nil
	}

	flight.CurrentLatitude = data.Latitude
	flight.CurrentLongitude = data.Longitude

	arrivalAirport, err := s.resolveAirport(data.NearestAirportIcao, data.Latitude, data.Longitude)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if arrivalAirport != nil {
		flight.ArrivalAirportID = &arrivalAirport.ID
		flight.ArrivalIcao = arrivalAirport.Ident
	} else {
		flight.ArrivalIcao = data.NearestAirportIcao
	}
	flight.ArrivalTime = &now
	flight.CompletedAt = &now

	flight.EndFuelGallons = &data.FuelGallons
	if flight.StartFuelGallons != nil {
		used := *flight.StartFuelGallons - data.FuelGallons
		flight.FuelUsedGallons = &used
	}

	flight.LandingRate = data.LandingRate
	if data.LandingRate != nil && *data.LandingRate < -600 {
		flight.HardLandingCount++
	}

	if flight.DepartureTime != nil {
		flight.FlightTimeMinutes = int(now.Sub(*flight.DepartureTime).Minutes())
	}

	if flight.DepartureAirportID != nil && arrivalAirport != nil {
		if departureAirport, err := s.store.GetAirportByIdent(flight.DepartureIcao); err == nil && departureAirport != nil {
			flight.DistanceNm = geo.DistanceNm(
				departureAirport.Latitude, departureAirport.Longitude,
				arrivalAirport.Latitude, arrivalAirport.Longitude)
		}
	}

	if data.WasCrash {
		flight.State = models.FlightStateFailed
	} else {
		flight.State = models.FlightStateShutdown
	}

	if err := s.store.UpdateFlight(flight); err != nil {
		return nil, err
	}

	// Move the pilot to the arrival airport and roll up flight time
	if user, err := s.store.GetUser(userID); err == nil && arrivalAirport != nil {
		user.CurrentAirportID = &arrivalAirport.ID
		user.TotalFlightMinutes += flight.FlightTimeMinutes
		if err := s.store.UpdateUser(user); err != nil {
			log.WithError(err).WithField("user_id", userID).Error("Failed to update user after flight")
		}
	}

	// Feed the completed flight into the reputation pipeline
	if s.reputation != nil {
		if pw, err := s.store.GetActivePlayerWorldByUser(userID); err == nil && pw != nil {
			if err := s.reputation.ProcessFlightCompleted(pw.ID, flight); err != nil {
				log.WithError(err).WithField("flight_id", flight.ID).Error("Failed to process flight reputation")
			}
		}
	}

	log.WithFields(log.Fields{
		"flight_id": flight.ID,
		"state":     flight.State,
		"airport":   flight.ArrivalIcao,
		"minutes":   flight.FlightTimeMinutes,
	}).Info("Flight ended")

	message := "Flight completed successfully"
	if data.WasCrash {
		message = "Flight ended (crash)"
	}

	return &models.FlightUpdateResponse{
		Success:  true,
		FlightID: flight.ID,
		State:    string(flight.State),
		Message:  message,
	}, nil
}

// GetActiveFlight returns the user's single non-terminal flight, or nil.
func (s *FlightTrackingService) GetActiveFlight(userID string) (*models.TrackedFlight, error) {
	return s.store.GetActiveFlightByUser(userID)
}

// CancelFlight moves any non-terminal flight to Cancelled. Returns false when
// the flight is unknown or already terminal.
func (s *FlightTrackingService) CancelFlight(flightID, reason string) (bool, error) {
	flight, err := s.store.GetFlight(flightID)
	if err != nil || flight == nil {
		return false, nil
	}
	if flight.State.IsTerminal() {
		return false, nil
	}

	now := time.Now().UTC()
	flight.State = models.FlightStateCancelled
	flight.CompletedAt = &now
	flight.Notes = reason

	if err := s.store.UpdateFlight(flight); err != nil {
		return false, err
	}

	log.WithFields(log.Fields{"flight_id": flightID, "reason": reason}).Info("Flight cancelled")
	return true, nil
}

// AssignJobsToFlight creates join rows for each assignable job and marks the
// job as assigned to the flight's pilot. Jobs already completed are skipped
// silently. Fails when the flight is unknown or terminal.
func (s *FlightTrackingService) AssignJobsToFlight(flightID string, jobIDs []string) (bool, error) {
	flight, err := s.store.GetFlight(flightID)
	if err != nil || flight == nil {
		return false, nil
	}
	if flight.State.IsTerminal() {
		return false, nil
	}

	jobs, err := s.store.GetAssignableJobs(jobIDs)
	if err != nil {
		return false, err
	}

	for _, job := range jobs {
		flightJob := &models.FlightJob{
			ID:              uuid.New().String(),
			TrackedFlightID: flightID,
			JobID:           job.ID,
			CreatedAt:       time.Now().UTC(),
		}
		if err := s.store.CreateFlightJob(flightJob); err != nil {
			return false, err
		}

		job.AssignedToUserID = &flight.UserID
		if err := s.store.UpdateJob(job); err != nil {
			return false, err
		}
	}

	log.WithFields(log.Fields{"count": len(jobs), "flight_id": flightID}).Info("Assigned jobs to flight")
	return true, nil
}

// FindNearestAirport returns the closest airport within maxDistanceNm of the
// coordinates, or nil. Candidates come from a bounding-box pre-filter, then
// the exact haversine distance decides.
func (s *FlightTrackingService) FindNearestAirport(latitude, longitude, maxDistanceNm float64) (*models.Airport, error) {
	candidates, err := s.store.GetAirportsInBox(geo.BoxAround(latitude, longitude, maxDistanceNm))
	if err != nil {
		return nil, err
	}

	var nearest *models.Airport
	minDistance := maxDistanceNm
	for _, airport := range candidates {
		distance := geo.DistanceNm(latitude, longitude, airport.Latitude, airport.Longitude)
		if distance <= minDistance {
			minDistance = distance
			nearest = airport
		}
	}
	return nearest, nil
}

// resolveAirport prefers an exact ICAO match, then falls back to the nearest
// airport within 10 nm.
func (s *FlightTrackingService) resolveAirport(icao string, latitude, longitude float64) (*models.Airport, error) {
	if icao != "" {
		airport, err := s.store.GetAirportByIdent(icao)
		if err != nil {
			return nil, err
		}
		if airport != nil {
			return airport, nil
		}
	}
	return s.FindNearestAirport(latitude, longitude, 10)
}
