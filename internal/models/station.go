package models

import (
	"fmt"
	"time"
)

// StationType is the charging technology offered by a station.
type StationType int

const (
	StationTypeAC   StationType = 1
	StationTypeDC   StationType = 2
	StationTypeACDC StationType = 3
)

// String returns the display label.
func (t StationType) String() string {
	switch t {
	case StationTypeAC:
		return "AC"
	case StationTypeDC:
		return "DC"
	case StationTypeACDC:
		return "AC/DC"
	default:
		return "Unknown"
	}
}

// Valid reports whether the type is a known code.
func (t StationType) Valid() bool {
	return t >= StationTypeAC && t <= StationTypeACDC
}

// Location is the geographic placement of a station.
type Location struct {
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	Address  string  `json:"address"`
	City     string  `json:"city"`
	Province string  `json:"province"`
}

// OperatingHours describes when a station accepts bookings.
type OperatingHours struct {
	Open  string   `json:"open"`
	Close string   `json:"close"`
	Days  []string `json:"days"`
}

// ChargingStation mirrors the backend station record. AvailableSlots is a
// simple counter bounded by TotalSlots, not an individually tracked resource.
type ChargingStation struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Location       Location       `json:"location"`
	Type           StationType    `json:"type"`
	TotalSlots     int            `json:"totalSlots"`
	AvailableSlots int            `json:"availableSlots"`
	PricePerHour   float64        `json:"pricePerHour"`
	OperatingHours OperatingHours `json:"operatingHours"`
	Amenities      []string       `json:"amenities"`
	OperatorIDs    []string       `json:"operatorIds"`
	IsActive       bool           `json:"isActive"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

// ValidateSlotCount checks the available-slot counter against the station bound.
func ValidateSlotCount(available, total int) error {
	if total <= 0 {
		return fmt.Errorf("station: total slots must be positive, got %d", total)
	}
	if available < 0 || available > total {
		return fmt.Errorf("station: available slots %d outside [0, %d]", available, total)
	}
	return nil
}
