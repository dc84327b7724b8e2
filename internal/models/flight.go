package models

import "time"

// FlightState is the lifecycle phase of a tracked flight. The string values
// are persisted and sent over the wire, so they must stay stable.
type FlightState string

const (
	FlightStatePending   FlightState = "Pending"
	FlightStatePreFlight FlightState = "PreFlight"
	FlightStateTaxiing   FlightState = "Taxiing"
	FlightStateDeparting FlightState = "Departing"
	FlightStateEnRoute   FlightState = "EnRoute"
	FlightStateArriving  FlightState = "Arriving"
	FlightStateArrived   FlightState = "Arrived"
	FlightStateShutdown  FlightState = "Shutdown"
	FlightStateCancelled FlightState = "Cancelled"
	FlightStateFailed    FlightState = "Failed"
)

// IsTerminal reports whether no further transitions are possible.
func (s FlightState) IsTerminal() bool {
	return s == FlightStateShutdown || s == FlightStateCancelled || s == FlightStateFailed
}

// TrackedFlight represents a flight being tracked by the simulator connector.
// At most one non-terminal flight may exist per user; the partial unique index
// on user_id enforces that at the database level.
type TrackedFlight struct {
	ID     string      `json:"id" gorm:"primaryKey"`
	UserID string      `json:"user_id" gorm:"index;uniqueIndex:idx_one_active_flight,where:state NOT IN ('Shutdown','Cancelled','Failed')"`
	State  FlightState `json:"state"`

	// Aircraft as reported by the simulator
	AircraftID       *string `json:"aircraft_id"`
	AircraftTitle    string  `json:"aircraft_title"`
	AircraftIcaoType string  `json:"aircraft_icao_type"`

	// Departure
	DepartureAirportID *string    `json:"departure_airport_id"`
	DepartureIcao      string     `json:"departure_icao"`
	DepartureTime      *time.Time `json:"departure_time"`

	// Arrival
	ArrivalAirportID *string    `json:"arrival_airport_id"`
	ArrivalIcao      string     `json:"arrival_icao"`
	ArrivalTime      *time.Time `json:"arrival_time"`

	// Current position (updated on every connector push)
	CurrentLatitude    float64    `json:"current_latitude"`
	CurrentLongitude   float64    `json:"current_longitude"`
	CurrentAltitude    float64    `json:"current_altitude"`
	CurrentHeading     float64    `json:"current_heading"`
	CurrentGroundSpeed float64    `json:"current_ground_speed"`
	LastPositionUpdate *time.Time `json:"last_position_update"`

	// Cumulative statistics
	FlightTimeMinutes int     `json:"flight_time_minutes"`
	DistanceNm        float64 `json:"distance_nm"`
	MaxAltitude       float64 `json:"max_altitude"`
	MaxGroundSpeed    float64 `json:"max_ground_speed"`

	// Flight quality metrics
	HardLandingCount  int      `json:"hard_landing_count"`
	OverspeedCount    int      `json:"overspeed_count"`
	StallWarningCount int      `json:"stall_warning_count"`
	LandingRate       *float64 `json:"landing_rate"` // fpm, negative = descent

	// Fuel tracking
	StartFuelGallons *float64 `json:"start_fuel_gallons"`
	EndFuelGallons   *float64 `json:"end_fuel_gallons"`
	FuelUsedGallons  *float64 `json:"fuel_used_gallons"`

	// Payload tracking
	PayloadWeightLbs float64 `json:"payload_weight_lbs"`
	TotalWeightLbs   float64 `json:"total_weight_lbs"`

	CompletedAt *time.Time `json:"completed_at"`
	Notes       string     `json:"notes"`

	// Session ID from the connector for correlation
	ConnectorSessionID string `json:"connector_session_id" gorm:"index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FlightJob links a job to the flight carrying it.
type FlightJob struct {
	ID              string    `json:"id" gorm:"primaryKey"`
	TrackedFlightID string    `json:"tracked_flight_id" gorm:"index"`
	JobID           string    `json:"job_id" gorm:"index"`
	CreatedAt       time.Time `json:"created_at"`
}
