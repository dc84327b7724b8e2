package models

// Payloads exchanged with the simulator connector. The connector only knows
// its own session ID, never the flight ID, so every request carries the
// session for correlation.

// PositionReport is one telemetry sample.
type PositionReport struct {
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	Altitude      float64 `json:"altitude"`       // ft
	Heading       float64 `json:"heading"`        // degrees
	GroundSpeed   float64 `json:"ground_speed"`   // kts
	VerticalSpeed float64 `json:"vertical_speed"` // fpm
}

// FlightStartData is sent when a simulator session begins.
type FlightStartData struct {
	SessionID          string  `json:"session_id"`
	AircraftTitle      string  `json:"aircraft_title"`
	AircraftIcaoType   string  `json:"aircraft_icao_type"`
	Latitude           float64 `json:"latitude"`
	Longitude          float64 `json:"longitude"`
	Altitude           float64 `json:"altitude"`
	Heading            float64 `json:"heading"`
	FuelGallons        float64 `json:"fuel_gallons"`
	PayloadWeightLbs   float64 `json:"payload_weight_lbs"`
	TotalWeightLbs     float64 `json:"total_weight_lbs"`
	NearestAirportIcao string  `json:"nearest_airport_icao,omitempty"`
}

// FlightStateUpdate is pushed periodically during flight.
type FlightStateUpdate struct {
	SessionID     string         `json:"session_id"`
	Position      PositionReport `json:"position"`
	OnGround      bool           `json:"on_ground"`
	EngineRunning bool           `json:"engine_running"`
	Overspeed     bool           `json:"overspeed"`
	StallWarning  bool           `json:"stall_warning"`
}

// FlightEndData is sent when the flight ends or the connector disconnects.
type FlightEndData struct {
	SessionID          string   `json:"session_id"`
	Latitude           float64  `json:"latitude"`
	Longitude          float64  `json:"longitude"`
	FuelGallons        float64  `json:"fuel_gallons"`
	LandingRate        *float64 `json:"landing_rate,omitempty"` // fpm, negative = descent
	WasCrash           bool     `json:"was_crash"`
	NearestAirportIcao string   `json:"nearest_airport_icao,omitempty"`
}

// FlightUpdateResponse is the structured result of every connector operation.
// Expected business failures come back as Success=false with a message, never
// as an error.
type FlightUpdateResponse struct {
	Success  bool   `json:"success"`
	FlightID string `json:"flight_id,omitempty"`
	State    string `json:"state,omitempty"`
	Message  string `json:"message,omitempty"`
}
