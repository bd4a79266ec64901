package models

import "time"

// Vehicle is embedded in an EVOwner record; it has no identity of its own.
type Vehicle struct {
	Make         string `json:"make"`
	Model        string `json:"model"`
	LicensePlate string `json:"licensePlate"`
	Year         int    `json:"year"`
}

// EVOwner is a registered electric-vehicle owner, keyed by national identity card number.
type EVOwner struct {
	NIC            string     `json:"nic"`
	FirstName      string     `json:"firstName"`
	LastName       string     `json:"lastName"`
	Email          string     `json:"email"`
	PhoneNumber    string     `json:"phoneNumber"`
	IsActive       bool       `json:"isActive"`
	VehicleDetails []Vehicle  `json:"vehicleDetails"`
	LastLogin      *time.Time `json:"lastLogin,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// FullName joins first and last name for display.
func (o EVOwner) FullName() string {
	if o.FirstName == "" {
		return o.LastName
	}
	if o.LastName == "" {
		return o.FirstName
	}
	return o.FirstName + " " + o.LastName
}
