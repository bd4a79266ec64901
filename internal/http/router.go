package httpserver

import (
	"net/http"

	"github.com/gorilla/mux"

	"chargebook/internal/http/handlers"
	"chargebook/internal/http/middleware"
	"chargebook/internal/models"
)

// RouterDeps collects handler dependencies.
type RouterDeps struct {
	Auth      *handlers.AuthHandlers
	Users     *handlers.UsersHandlers
	Owners    *handlers.OwnersHandlers
	Stations  *handlers.StationsHandlers
	Bookings  *handlers.BookingsHandlers
	Dashboard *handlers.DashboardHandlers
	Audit     *handlers.AuditHandlers
	Live      http.HandlerFunc
	Health    http.HandlerFunc
	Sessions  middleware.SessionReader
}

// NewRouter wires the role-scoped route trees.
func NewRouter(deps RouterDeps) http.Handler {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(handlers.NotFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(handlers.NotFound)

	r.HandleFunc("/health", deps.Health).Methods(http.MethodGet)
	r.HandleFunc("/api/unauthorized", handlers.Unauthorized)

	// Unauthenticated auth flows.
	auth := r.PathPrefix("/api/auth").Subrouter()
	auth.HandleFunc("/login", deps.Auth.Login).Methods(http.MethodPost)
	auth.HandleFunc("/register", deps.Auth.RegisterOwner).Methods(http.MethodPost)
	auth.HandleFunc("/register-user", deps.Auth.RegisterUser).Methods(http.MethodPost)
	auth.HandleFunc("/forgot-password", deps.Auth.ForgotPassword).Methods(http.MethodPost)
	auth.HandleFunc("/verify-otp", deps.Auth.VerifyOTP).Methods(http.MethodPost)
	auth.HandleFunc("/logout", deps.Auth.Logout).Methods(http.MethodPost)

	// Everything below requires a live session.
	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.SessionAuth(deps.Sessions))

	api.HandleFunc("/me", deps.Auth.Me).Methods(http.MethodGet)
	api.HandleFunc("/session/refresh", deps.Auth.Refresh).Methods(http.MethodPost)
	api.HandleFunc("/live/stations", deps.Live).Methods(http.MethodGet)

	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.RequireRole(models.RoleBackOffice))
	admin.HandleFunc("/dashboard", deps.Dashboard.Admin).Methods(http.MethodGet)
	admin.HandleFunc("/audit", deps.Audit.List).Methods(http.MethodGet)

	admin.HandleFunc("/users", deps.Users.List).Methods(http.MethodGet)
	admin.HandleFunc("/users", deps.Users.Create).Methods(http.MethodPost)
	admin.HandleFunc("/users/{id}", deps.Users.Get).Methods(http.MethodGet)
	admin.HandleFunc("/users/{id}", deps.Users.Update).Methods(http.MethodPut)
	admin.HandleFunc("/users/{id}", deps.Users.Delete).Methods(http.MethodDelete)
	admin.HandleFunc("/users/{id}/active", deps.Users.SetActive).Methods(http.MethodPatch)

	admin.HandleFunc("/owners", deps.Owners.List).Methods(http.MethodGet)
	admin.HandleFunc("/owners", deps.Owners.Create).Methods(http.MethodPost)
	admin.HandleFunc("/owners/{nic}", deps.Owners.Get).Methods(http.MethodGet)
	admin.HandleFunc("/owners/{nic}", deps.Owners.Update).Methods(http.MethodPut)
	admin.HandleFunc("/owners/{nic}", deps.Owners.Delete).Methods(http.MethodDelete)
	admin.HandleFunc("/owners/{nic}/active", deps.Owners.SetActive).Methods(http.MethodPatch)
	admin.HandleFunc("/owners/{nic}/reactivate", deps.Owners.Reactivate).Methods(http.MethodPost)

	admin.HandleFunc("/stations", deps.Stations.List).Methods(http.MethodGet)
	admin.HandleFunc("/stations", deps.Stations.Create).Methods(http.MethodPost)
	admin.HandleFunc("/stations/{id}", deps.Stations.Get).Methods(http.MethodGet)
	admin.HandleFunc("/stations/{id}", deps.Stations.Update).Methods(http.MethodPut)
	admin.HandleFunc("/stations/{id}", deps.Stations.Delete).Methods(http.MethodDelete)
	admin.HandleFunc("/stations/{id}/active", deps.Stations.SetActive).Methods(http.MethodPatch)
	admin.HandleFunc("/stations/{id}/slots", deps.Stations.UpdateSlots).Methods(http.MethodPatch)
	admin.HandleFunc("/stations/{id}/operators", deps.Stations.AssignOperator).Methods(http.MethodPost)
	admin.HandleFunc("/stations/{id}/operators/{userId}", deps.Stations.RevokeOperator).Methods(http.MethodDelete)

	admin.HandleFunc("/bookings", deps.Bookings.List).Methods(http.MethodGet)
	admin.HandleFunc("/bookings", deps.Bookings.Create).Methods(http.MethodPost)
	admin.HandleFunc("/bookings/{id}", deps.Bookings.Get).Methods(http.MethodGet)
	admin.HandleFunc("/bookings/{id}", deps.Bookings.Update).Methods(http.MethodPut)
	admin.HandleFunc("/bookings/{id}/cancel", deps.Bookings.Cancel).Methods(http.MethodPost)
	admin.HandleFunc("/bookings/{id}/approve", deps.Bookings.Approve).Methods(http.MethodPost)

	operator := api.PathPrefix("/operator").Subrouter()
	operator.Use(middleware.RequireRole(models.RoleStationOperator))
	operator.HandleFunc("/dashboard", deps.Dashboard.Operator).Methods(http.MethodGet)
	operator.HandleFunc("/stations", deps.Stations.ListMine).Methods(http.MethodGet)
	operator.HandleFunc("/stations/{id}", deps.Stations.Get).Methods(http.MethodGet)
	operator.HandleFunc("/stations/{id}/slots", deps.Stations.UpdateSlots).Methods(http.MethodPatch)
	operator.HandleFunc("/stations/{id}/bookings", deps.Bookings.ListByStation).Methods(http.MethodGet)
	operator.HandleFunc("/bookings/{id}", deps.Bookings.Get).Methods(http.MethodGet)
	operator.HandleFunc("/bookings/{id}/approve", deps.Bookings.Approve).Methods(http.MethodPost)
	operator.HandleFunc("/bookings/{id}/start", deps.Bookings.Start).Methods(http.MethodPost)
	operator.HandleFunc("/bookings/{id}/complete", deps.Bookings.Complete).Methods(http.MethodPost)
	operator.HandleFunc("/bookings/verify-qr", deps.Bookings.VerifyQR).Methods(http.MethodPost)

	owner := api.PathPrefix("/owner").Subrouter()
	owner.Use(middleware.RequireRole(models.RoleEVOwner))
	owner.HandleFunc("/dashboard", deps.Dashboard.Owner).Methods(http.MethodGet)
	owner.HandleFunc("/profile", deps.Owners.Self).Methods(http.MethodGet)
	owner.HandleFunc("/profile", deps.Owners.UpdateSelf).Methods(http.MethodPut)
	owner.HandleFunc("/profile/deactivate", deps.Owners.DeactivateSelf).Methods(http.MethodPost)
	owner.HandleFunc("/stations", deps.Stations.List).Methods(http.MethodGet)
	owner.HandleFunc("/stations/nearby", deps.Stations.Nearby).Methods(http.MethodGet)
	owner.HandleFunc("/stations/{id}", deps.Stations.Get).Methods(http.MethodGet)
	owner.HandleFunc("/bookings", deps.Bookings.ListMine).Methods(http.MethodGet)
	owner.HandleFunc("/bookings", deps.Bookings.Create).Methods(http.MethodPost)
	owner.HandleFunc("/bookings/{id}", deps.Bookings.Get).Methods(http.MethodGet)
	owner.HandleFunc("/bookings/{id}", deps.Bookings.Update).Methods(http.MethodPut)
	owner.HandleFunc("/bookings/{id}/cancel", deps.Bookings.Cancel).Methods(http.MethodPost)

	return r
}
