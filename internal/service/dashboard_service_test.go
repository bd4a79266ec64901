package service

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"chargebook/internal/clients"
	"chargebook/internal/models"
)

func TestAdminSummaryKeepsPartialResults(t *testing.T) {
	users := &stubUsersAPI{callErr: &clients.APIError{Status: 502, Message: "users backend down"}}
	owners := &stubOwnersAPI{owners: []models.EVOwner{
		{NIC: "1", IsActive: true},
		{NIC: "2", IsActive: false},
	}}
	stations := &stubStationsAPI{stations: []models.ChargingStation{
		{ID: "st-1", IsActive: true, AvailableSlots: 2, TotalSlots: 4},
		{ID: "st-2", IsActive: false, AvailableSlots: 0, TotalSlots: 6},
	}}
	bookings := &stubBookingsAPI{bookings: []models.Booking{
		{ID: "b-1", Status: models.BookingPending},
		{ID: "b-2", Status: models.BookingApproved},
	}}

	svc := NewDashboardService(users, owners, stations, bookings, zap.NewNop())
	summary := svc.Admin(context.Background(), testSession(models.RoleBackOffice))

	if summary.Users.Error == "" {
		t.Fatalf("users panel should carry the fetch error")
	}
	if summary.Owners.Error != "" || summary.Owners.Data.Total != 2 || summary.Owners.Data.Active != 1 {
		t.Fatalf("owners panel lost data: %+v", summary.Owners)
	}
	if summary.Stations.Data.AvailableSlots != 2 || summary.Stations.Data.TotalSlots != 10 {
		t.Fatalf("stations panel wrong: %+v", summary.Stations)
	}
	if summary.Bookings.Data.Pending != 1 || summary.Bookings.Data.Approved != 1 {
		t.Fatalf("bookings panel wrong: %+v", summary.Bookings)
	}
}

func TestOperatorSummaryScopesBookingsToAssignedStations(t *testing.T) {
	stations := &stubStationsAPI{stations: []models.ChargingStation{
		{ID: "st-1", OperatorIDs: []string{"user-1"}},
		{ID: "st-2", OperatorIDs: []string{"someone-else"}},
	}}
	bookings := &stubBookingsAPI{bookings: []models.Booking{
		{ID: "b-1", Status: models.BookingPending},
	}}

	svc := NewDashboardService(&stubUsersAPI{}, &stubOwnersAPI{}, stations, bookings, zap.NewNop())
	summary := svc.Operator(context.Background(), testSession(models.RoleStationOperator))

	if len(summary.Stations.Data) != 1 || summary.Stations.Data[0].ID != "st-1" {
		t.Fatalf("operator station scoping failed: %+v", summary.Stations)
	}
	if summary.Bookings.Data.Pending != 1 {
		t.Fatalf("bookings panel wrong: %+v", summary.Bookings)
	}
}

func TestOwnerSummaryUpcomingSorted(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	bookings := &stubBookingsAPI{bookings: []models.Booking{
		{ID: "later", EVOwnerNIC: "user-1", Status: models.BookingApproved, ReservationDateTime: now.Add(48 * time.Hour)},
		{ID: "sooner", EVOwnerNIC: "user-1", Status: models.BookingPending, ReservationDateTime: now.Add(2 * time.Hour)},
		{ID: "past", EVOwnerNIC: "user-1", Status: models.BookingCompleted, ReservationDateTime: now.Add(-time.Hour)},
	}}

	svc := NewDashboardService(&stubUsersAPI{}, &stubOwnersAPI{}, &stubStationsAPI{}, bookings, zap.NewNop())
	svc.now = func() time.Time { return now }

	summary := svc.Owner(context.Background(), testSession(models.RoleEVOwner))

	upcoming := summary.Upcoming.Data
	if len(upcoming) != 2 {
		t.Fatalf("expected two upcoming bookings, got %v", upcoming)
	}
	if upcoming[0].ID != "sooner" || upcoming[1].ID != "later" {
		t.Fatalf("upcoming bookings not sorted by time: %v", upcoming)
	}
}
