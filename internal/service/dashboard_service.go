package service

import (
	"context"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"

	"chargebook/internal/models"
	"chargebook/internal/session"
)

// Panel holds one dashboard tile's outcome. Panels resolve independently: a
// failed fetch marks only its own panel, successful siblings are kept.
type Panel[T any] struct {
	Data  T      `json:"data"`
	Error string `json:"error,omitempty"`
}

// AdminSummary is the back-office dashboard payload.
type AdminSummary struct {
	Users    Panel[UserStats]    `json:"users"`
	Owners   Panel[OwnerStats]   `json:"owners"`
	Stations Panel[StationStats] `json:"stations"`
	Bookings Panel[BookingStats] `json:"bookings"`
}

// UserStats summarises staff accounts.
type UserStats struct {
	Total     int `json:"total"`
	Active    int `json:"active"`
	Operators int `json:"operators"`
}

// OwnerStats summarises EV owners.
type OwnerStats struct {
	Total  int `json:"total"`
	Active int `json:"active"`
}

// StationStats summarises stations.
type StationStats struct {
	Total          int `json:"total"`
	Active         int `json:"active"`
	AvailableSlots int `json:"availableSlots"`
	TotalSlots     int `json:"totalSlots"`
}

// BookingStats summarises bookings.
type BookingStats struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	Approved   int `json:"approved"`
	InProgress int `json:"inProgress"`
	Today      int `json:"today"`
}

// OperatorSummary is the station-operator dashboard payload.
type OperatorSummary struct {
	Stations Panel[[]models.ChargingStation] `json:"stations"`
	Bookings Panel[BookingStats]             `json:"bookings"`
}

// OwnerSummary is the EV-owner dashboard payload.
type OwnerSummary struct {
	Bookings Panel[BookingStats]    `json:"bookings"`
	Upcoming Panel[[]models.Booking] `json:"upcoming"`
	Stations Panel[StationStats]    `json:"stations"`
}

// DashboardService aggregates per-role summaries with parallel backend calls.
type DashboardService struct {
	users    UsersAPI
	owners   OwnersAPI
	stations StationsAPI
	bookings BookingsAPI
	logger   *zap.Logger
	now      func() time.Time
}

// NewDashboardService builds the service.
func NewDashboardService(users UsersAPI, owners OwnersAPI, stations StationsAPI, bookings BookingsAPI, logger *zap.Logger) *DashboardService {
	return &DashboardService{
		users:    users,
		owners:   owners,
		stations: stations,
		bookings: bookings,
		logger:   logger,
		now:      time.Now,
	}
}

// fill resolves one panel, recording the error in place of the data on failure.
func fill[T any](panel *Panel[T], fetch func() (T, error)) {
	data, err := fetch()
	if err != nil {
		panel.Error = err.Error()
		return
	}
	panel.Data = data
}

// Admin assembles the back-office dashboard. All four panels are fetched in
// parallel; a failing panel carries its error, the rest keep their data.
func (s *DashboardService) Admin(ctx context.Context, sess *session.Session) *AdminSummary {
	summary := &AdminSummary{}
	var wg sync.WaitGroup
	wg.Add(4)

	go func() {
		defer wg.Done()
		fill(&summary.Users, func() (UserStats, error) {
			users, err := s.users.List(ctx, sess.AuthToken)
			return summariseUsers(users), err
		})
	}()
	go func() {
		defer wg.Done()
		fill(&summary.Owners, func() (OwnerStats, error) {
			owners, err := s.owners.List(ctx, sess.AuthToken)
			return summariseOwners(owners), err
		})
	}()
	go func() {
		defer wg.Done()
		fill(&summary.Stations, func() (StationStats, error) {
			stations, err := s.stations.List(ctx, sess.AuthToken)
			return summariseStations(stations), err
		})
	}()
	go func() {
		defer wg.Done()
		fill(&summary.Bookings, func() (BookingStats, error) {
			bookings, err := s.bookings.List(ctx, sess.AuthToken)
			return s.summariseBookings(bookings), err
		})
	}()

	wg.Wait()
	return summary
}

// Operator assembles the station-operator dashboard from the operator's
// assigned stations and their bookings.
func (s *DashboardService) Operator(ctx context.Context, sess *session.Session) *OperatorSummary {
	summary := &OperatorSummary{}

	fill(&summary.Stations, func() ([]models.ChargingStation, error) {
		stations, err := s.stations.List(ctx, sess.AuthToken)
		if err != nil {
			return nil, err
		}
		assigned := make([]models.ChargingStation, 0, len(stations))
		for _, st := range stations {
			if slices.Contains(st.OperatorIDs, sess.UserID) {
				assigned = append(assigned, st)
			}
		}
		return assigned, nil
	})

	// Booking stats depend on the station list; fetch per assigned station.
	fill(&summary.Bookings, func() (BookingStats, error) {
		var all []models.Booking
		for _, st := range summary.Stations.Data {
			bookings, err := s.bookings.ListByStation(ctx, sess.AuthToken, st.ID)
			if err != nil {
				return BookingStats{}, err
			}
			all = append(all, bookings...)
		}
		return s.summariseBookings(all), nil
	})

	return summary
}

// Owner assembles the EV-owner dashboard.
func (s *DashboardService) Owner(ctx context.Context, sess *session.Session) *OwnerSummary {
	summary := &OwnerSummary{}
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		bookings, err := s.bookings.ListByOwner(ctx, sess.AuthToken, sess.UserID)
		fill(&summary.Bookings, func() (BookingStats, error) {
			return s.summariseBookings(bookings), err
		})
		fill(&summary.Upcoming, func() ([]models.Booking, error) {
			return upcomingBookings(bookings, s.now()), err
		})
	}()
	go func() {
		defer wg.Done()
		fill(&summary.Stations, func() (StationStats, error) {
			stations, err := s.stations.List(ctx, sess.AuthToken)
			return summariseStations(stations), err
		})
	}()

	wg.Wait()
	return summary
}

func summariseUsers(users []models.User) UserStats {
	stats := UserStats{Total: len(users)}
	for _, u := range users {
		if u.IsActive {
			stats.Active++
		}
		if u.Role == models.RoleStationOperator {
			stats.Operators++
		}
	}
	return stats
}

func summariseOwners(owners []models.EVOwner) OwnerStats {
	stats := OwnerStats{Total: len(owners)}
	for _, o := range owners {
		if o.IsActive {
			stats.Active++
		}
	}
	return stats
}

func summariseStations(stations []models.ChargingStation) StationStats {
	stats := StationStats{Total: len(stations)}
	for _, st := range stations {
		if st.IsActive {
			stats.Active++
		}
		stats.AvailableSlots += st.AvailableSlots
		stats.TotalSlots += st.TotalSlots
	}
	return stats
}

func (s *DashboardService) summariseBookings(bookings []models.Booking) BookingStats {
	stats := BookingStats{Total: len(bookings)}
	today := s.now().Truncate(24 * time.Hour)
	for _, b := range bookings {
		switch b.Status {
		case models.BookingPending:
			stats.Pending++
		case models.BookingApproved:
			stats.Approved++
		case models.BookingInProgress:
			stats.InProgress++
		}
		if b.ReservationDateTime.Truncate(24 * time.Hour).Equal(today) {
			stats.Today++
		}
	}
	return stats
}

func upcomingBookings(bookings []models.Booking, now time.Time) []models.Booking {
	out := make([]models.Booking, 0, len(bookings))
	for _, b := range bookings {
		if b.ReservationDateTime.After(now) &&
			(b.Status == models.BookingPending || b.Status == models.BookingApproved) {
			out = append(out, b)
		}
	}
	slices.SortFunc(out, func(a, b models.Booking) int {
		return a.ReservationDateTime.Compare(b.ReservationDateTime)
	})
	return out
}
