package services

import "github.com/pilotlife/pilotlife-backend/internal/models"

// Thresholds for flight state determination
const (
	TaxiSpeedKts       = 30.0
	ClimbAltitudeFt    = 1000.0
	ApproachAltitudeFt = 3000.0
)

// DetermineFlightState maps one telemetry sample onto the next flight phase.
// It is a pure function of the sample and the previous state: the previous
// state disambiguates symmetric telemetry (high speed on the ground is either
// a takeoff roll or a landing roll) and keeps the machine from flapping
// between adjacent phases near threshold boundaries. The rule order matters;
// reordering changes observable transitions.
func DetermineFlightState(update *models.FlightStateUpdate, currentState models.FlightState) models.FlightState {
	// Terminal states never transition
	if currentState.IsTerminal() {
		return currentState
	}

	onGround := update.OnGround
	speed := update.Position.GroundSpeed
	altitude := update.Position.Altitude
	engineRunning := update.EngineRunning

	// Engine off on ground = PreFlight or Shutdown
	if !engineRunning && onGround {
		if currentState == models.FlightStatePending {
			return models.FlightStatePreFlight
		}
		return models.FlightStateShutdown
	}

	// On ground with engine running
	if onGround {
		if speed < TaxiSpeedKts {
			// Just landed or taxiing slowly
			if currentState == models.FlightStateArriving || currentState == models.FlightStateArrived {
				return models.FlightStateArrived
			}
			if currentState == models.FlightStatePreFlight {
				return models.FlightStatePreFlight
			}
			return models.FlightStateTaxiing
		}
		// High speed on ground = takeoff or landing roll
		if currentState == models.FlightStateArriving || currentState == models.FlightStateEnRoute {
			return models.FlightStateArriving // landing roll
		}
		return models.FlightStateDeparting // takeoff roll
	}

	// In the air
	if altitude < ClimbAltitudeFt {
		if currentState == models.FlightStateEnRoute || currentState == models.FlightStateArriving {
			return models.FlightStateArriving // final descent
		}
		return models.FlightStateDeparting // initial climb
	}

	if altitude < ApproachAltitudeFt {
		if currentState == models.FlightStateEnRoute && update.Position.VerticalSpeed < -200 {
			return models.FlightStateArriving // descent initiated
		}
		if currentState == models.FlightStateDeparting {
			return models.FlightStateDeparting
		}
		return models.FlightStateEnRoute
	}

	// High altitude = en route
	return models.FlightStateEnRoute
}
