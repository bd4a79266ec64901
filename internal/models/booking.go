package models

import "time"

// BookingStatus drives badge display and which actions a dashboard offers.
type BookingStatus int

const (
	BookingPending    BookingStatus = 1
	BookingApproved   BookingStatus = 2
	BookingInProgress BookingStatus = 3
	BookingCompleted  BookingStatus = 4
	BookingCancelled  BookingStatus = 5
	BookingNoShow     BookingStatus = 6
)

// String returns the display label.
func (s BookingStatus) String() string {
	switch s {
	case BookingPending:
		return "Pending"
	case BookingApproved:
		return "Approved"
	case BookingInProgress:
		return "In Progress"
	case BookingCompleted:
		return "Completed"
	case BookingCancelled:
		return "Cancelled"
	case BookingNoShow:
		return "No Show"
	default:
		return "Unknown"
	}
}

// Cancellable reports whether a booking in this status may still be cancelled.
// Only pending bookings are.
func (s BookingStatus) Cancellable() bool {
	return s == BookingPending
}

// Booking mirrors the backend reservation record.
type Booking struct {
	ID                  string        `json:"id"`
	EVOwnerNIC          string        `json:"evOwnerNic"`
	ChargingStationID   string        `json:"chargingStationId"`
	ChargingStationName string        `json:"chargingStationName"`
	ReservationDateTime time.Time     `json:"reservationDateTime"`
	DurationMinutes     int           `json:"durationMinutes"`
	Status              BookingStatus `json:"status"`
	TotalAmount         float64       `json:"totalAmount"`
	QRCode              string        `json:"qrCode,omitempty"`
	CreatedAt           time.Time     `json:"createdAt"`
	UpdatedAt           time.Time     `json:"updatedAt"`
}
