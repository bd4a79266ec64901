package clients

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestCallDecodesEnvelopeData(t *testing.T) {
	var gotAuth, gotAccept, gotContentType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotAccept = r.Header.Get("Accept")
		gotContentType = r.Header.Get("Content-Type")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"message":"ok","data":{"token":"abc","refreshToken":"def"}}`))
	}))
	defer server.Close()

	client := NewBaseClient(server.URL, NewDefaultHTTPClient(time.Second))

	var tokens AuthTokens
	err := client.Call(context.Background(), http.MethodPost, "/api/Auth/login", "bearer-token",
		LoginRequest{Username: "admin", Password: "secret"}, &tokens)
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	if tokens.Token != "abc" || tokens.RefreshToken != "def" {
		t.Fatalf("unexpected tokens: %+v", tokens)
	}
	if gotAuth != "Bearer bearer-token" {
		t.Fatalf("expected bearer header, got %q", gotAuth)
	}
	if gotAccept != "application/json" || gotContentType != "application/json" {
		t.Fatalf("unexpected headers: accept=%q content-type=%q", gotAccept, gotContentType)
	}
}

func TestCallOmitsBearerWithoutToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"success":true}`))
	}))
	defer server.Close()

	client := NewBaseClient(server.URL, NewDefaultHTTPClient(time.Second))
	if err := client.Call(context.Background(), http.MethodGet, "/api/ChargingStations", "", nil, nil); err != nil {
		t.Fatalf("call: %v", err)
	}
	if gotAuth != "" {
		t.Fatalf("expected no authorization header, got %q", gotAuth)
	}
}

func TestCallEnvelopeFailureBecomesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"success":false,"message":"NIC already registered","errors":["nic taken"]}`))
	}))
	defer server.Close()

	client := NewBaseClient(server.URL, NewDefaultHTTPClient(time.Second))
	err := client.Call(context.Background(), http.MethodPost, "/api/EVOwners", "tok", map[string]string{}, nil)

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Status != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", apiErr.Status)
	}
	if apiErr.Message != "NIC already registered" {
		t.Fatalf("unexpected message: %q", apiErr.Message)
	}
	if len(apiErr.Errors) != 1 || apiErr.Errors[0] != "nic taken" {
		t.Fatalf("unexpected errors: %v", apiErr.Errors)
	}
}

func TestCallSuccessFalseWith200IsStillAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false,"message":"slot already taken"}`))
	}))
	defer server.Close()

	client := NewBaseClient(server.URL, NewDefaultHTTPClient(time.Second))
	err := client.Call(context.Background(), http.MethodPost, "/api/Bookings", "tok", map[string]string{}, nil)

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Message != "slot already taken" {
		t.Fatalf("unexpected message: %q", apiErr.Message)
	}
}

func TestCallMapsAuthStatuses(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		sentinel error
	}{
		{"unauthorized", http.StatusUnauthorized, ErrUnauthorized},
		{"forbidden", http.StatusForbidden, ErrForbidden},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte(`{"success":false,"message":"denied"}`))
			}))
			defer server.Close()

			client := NewBaseClient(server.URL, NewDefaultHTTPClient(time.Second))
			err := client.Call(context.Background(), http.MethodGet, "/api/Users", "expired", nil, nil)
			if !errors.Is(err, tc.sentinel) {
				t.Fatalf("expected %v, got %v", tc.sentinel, err)
			}
		})
	}
}

func TestCallTransportFailureIsUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewBaseClient(server.URL, NewDefaultHTTPClient(time.Second))
	err := client.Call(context.Background(), http.MethodGet, "/api/Users", "tok", nil, nil)
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestCallNonEnvelopeErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`<html>upstream down</html>`))
	}))
	defer server.Close()

	client := NewBaseClient(server.URL, NewDefaultHTTPClient(time.Second))
	err := client.Call(context.Background(), http.MethodGet, "/api/Bookings", "tok", nil, nil)

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Status != http.StatusBadGateway {
		t.Fatalf("expected status 502, got %d", apiErr.Status)
	}
}

func TestBuildURLJoinsCleanly(t *testing.T) {
	client := NewBaseClient("http://backend:5000/", nil)
	if got := client.buildURL("api/Users"); got != "http://backend:5000/api/Users" {
		t.Fatalf("unexpected url: %q", got)
	}
	if got := client.buildURL("/api/Users"); got != "http://backend:5000/api/Users" {
		t.Fatalf("unexpected url: %q", got)
	}
}
