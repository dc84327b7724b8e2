package models

// Airport is a row from the imported airport database.
type Airport struct {
	ID          string  `json:"id" gorm:"primaryKey"`
	Ident       string  `json:"ident" gorm:"uniqueIndex"` // ICAO identifier
	Name        string  `json:"name"`
	Latitude    float64 `json:"latitude" gorm:"index"`
	Longitude   float64 `json:"longitude" gorm:"index"`
	ElevationFt float64 `json:"elevation_ft"`
	Type        string  `json:"type"` // "small_airport", "large_airport", ...
	Country     string  `json:"country"`
}

// Aircraft is an approved aircraft template players can fly.
type Aircraft struct {
	ID         string `json:"id" gorm:"primaryKey"`
	Title      string `json:"title" gorm:"index"` // title as reported by the simulator
	IcaoType   string `json:"icao_type"`
	IsApproved bool   `json:"is_approved"`
}
