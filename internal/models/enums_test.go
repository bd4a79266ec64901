package models

import "testing"

func TestParseRole(t *testing.T) {
	tests := []struct {
		in   string
		want Role
	}{
		{"1", RoleBackOffice},
		{"2", RoleStationOperator},
		{"3", RoleEVOwner},
		{"BackOffice", RoleBackOffice},
		{"admin", RoleBackOffice},
		{"StationOperator", RoleStationOperator},
		{"operator", RoleStationOperator},
		{"EVOwner", RoleEVOwner},
		{"owner", RoleEVOwner},
	}
	for _, tc := range tests {
		got, err := ParseRole(tc.in)
		if err != nil {
			t.Fatalf("ParseRole(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseRole(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}

	for _, bad := range []string{"", "0", "4", "superuser"} {
		if _, err := ParseRole(bad); err == nil {
			t.Fatalf("ParseRole(%q) should fail", bad)
		}
	}
}

func TestBookingStatusCancellable(t *testing.T) {
	if !BookingPending.Cancellable() {
		t.Fatalf("pending bookings must be cancellable")
	}
	for _, status := range []BookingStatus{
		BookingApproved, BookingInProgress, BookingCompleted, BookingCancelled, BookingNoShow,
	} {
		if status.Cancellable() {
			t.Fatalf("%s must not be cancellable", status)
		}
	}
}

func TestValidateSlotCount(t *testing.T) {
	if err := ValidateSlotCount(3, 5); err != nil {
		t.Fatalf("valid count rejected: %v", err)
	}
	if err := ValidateSlotCount(0, 5); err != nil {
		t.Fatalf("zero available is allowed: %v", err)
	}
	if err := ValidateSlotCount(5, 5); err != nil {
		t.Fatalf("full availability is allowed: %v", err)
	}
	if err := ValidateSlotCount(6, 5); err == nil {
		t.Fatalf("available above total must fail")
	}
	if err := ValidateSlotCount(-1, 5); err == nil {
		t.Fatalf("negative available must fail")
	}
	if err := ValidateSlotCount(0, 0); err == nil {
		t.Fatalf("zero total must fail")
	}
}
