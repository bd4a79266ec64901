package live

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// NewHandler upgrades an authenticated dashboard request to the availability
// feed. Session auth runs in the surrounding middleware; origin checking is
// the CORS layer's job, the upgrader accepts what reached it.
func NewHandler(manager *Manager, logger *zap.Logger) http.HandlerFunc {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     func(r *http.Request) bool { return true },
	}

	return func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Warn("websocket upgrade failed", zap.Error(err))
			return
		}

		conn := NewConnection(uuid.NewString(), ws, 10*time.Second, logger, manager.Remove)
		manager.Add(conn)
		conn.Start(r.Context())
	}
}
