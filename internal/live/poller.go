package live

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"chargebook/internal/models"
)

// StationLister is the backend surface the poller reads from.
type StationLister interface {
	List(ctx context.Context, token string) ([]models.ChargingStation, error)
}

// Broadcaster fans a payload out to subscribers.
type Broadcaster interface {
	Broadcast(msg []byte)
	Count() int
}

// Update is one station's availability delta.
type Update struct {
	StationID      string `json:"stationId"`
	AvailableSlots int    `json:"availableSlots"`
	IsActive       bool   `json:"isActive"`
}

// Message is the frame pushed to subscribers.
type Message struct {
	Type    string   `json:"type"`
	Updates []Update `json:"updates"`
}

const messageType = "stations.availability"

type stationState struct {
	available int
	active    bool
}

// Poller fetches the station list on an interval with the gateway's service
// token and broadcasts per-station availability deltas.
type Poller struct {
	stations StationLister
	sink     Broadcaster
	token    string
	interval time.Duration
	logger   *zap.Logger

	seen map[string]stationState
}

// NewPoller builds the poller.
func NewPoller(stations StationLister, sink Broadcaster, serviceToken string, interval time.Duration, logger *zap.Logger) *Poller {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	return &Poller{
		stations: stations,
		sink:     sink,
		token:    serviceToken,
		interval: interval,
		logger:   logger,
		seen:     make(map[string]stationState),
	}
}

// Run polls until the context is cancelled.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if p.sink.Count() == 0 && len(p.seen) > 0 {
				continue
			}
			p.poll(ctx)
		}
	}
}

func (p *Poller) poll(ctx context.Context) {
	stations, err := p.stations.List(ctx, p.token)
	if err != nil {
		p.logger.Warn("availability poll failed", zap.Error(err))
		return
	}

	updates := p.diff(stations)
	if len(updates) == 0 {
		return
	}

	payload, err := json.Marshal(Message{Type: messageType, Updates: updates})
	if err != nil {
		p.logger.Error("availability encode failed", zap.Error(err))
		return
	}
	p.sink.Broadcast(payload)
}

// diff updates the seen map and returns the stations whose availability or
// active flag changed. The first observation of a station seeds state without
// emitting an update; dashboards load initial state over REST.
func (p *Poller) diff(stations []models.ChargingStation) []Update {
	var updates []Update
	for _, st := range stations {
		next := stationState{available: st.AvailableSlots, active: st.IsActive}
		prev, known := p.seen[st.ID]
		p.seen[st.ID] = next
		if known && prev != next {
			updates = append(updates, Update{
				StationID:      st.ID,
				AvailableSlots: st.AvailableSlots,
				IsActive:       st.IsActive,
			})
		}
	}
	return updates
}
