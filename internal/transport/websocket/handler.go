package websocket

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/hashicorp/go-hclog"
	"github.com/kahvecikaan/stockroom/internal/events"
)

const writeWait = 10 * time.Second

type Handler struct {
	Upgrader websocket.Upgrader
	Log      hclog.Logger
	EventBus *events.EventBus[any]
}

type Message struct {
	EventType string      `json:"event-type"`
	Data      interface{} `json:"data"`
}

// NewHandler accepts connections from the given origins; "*" allows any.
// Requests without an Origin header (non-browser clients) are always accepted.
func NewHandler(log hclog.Logger, eventBus *events.EventBus[any], allowedOrigins []string) *Handler {
	return &Handler{
		Upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				for _, allowed := range allowedOrigins {
					if allowed == "*" || allowed == origin {
						return true
					}
				}
				return false
			},
		},
		Log:      log,
		EventBus: eventBus,
	}
}

// NewMessage wraps a dashboard event for the wire. Unknown events return false.
func NewMessage(event any) (Message, bool) {
	switch e := event.(type) {
	case events.ProductsRefreshed:
		return Message{EventType: "products_refreshed", Data: e}, true
	case events.ProductChanged:
		return Message{EventType: "product_changed", Data: e}, true
	case events.BonSubmitted:
		return Message{EventType: "bon_submitted", Data: e}, true
	}
	return Message{}, false
}

func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.Log.Error("Unable to upgrade to WebSocket", "error", err)
		return
	}
	defer conn.Close()

	subscriber := h.EventBus.Subscribe()
	defer h.EventBus.Unsubscribe(subscriber)

	done := make(chan struct{})
	go h.readPump(conn, done)

	for {
		select {
		case event, ok := <-subscriber:
			if !ok {
				return
			}
			message, known := NewMessage(event)
			if !known {
				h.Log.Warn("Unknown event type", "event", event)
				continue
			}

			payload, err := json.Marshal(message)
			if err != nil {
				h.Log.Error("Error marshalling message", "error", err)
				continue
			}

			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				h.Log.Error("Error writing message to WebSocket", "error", err)
				return
			}
		case <-done:
			h.Log.Info("WebSocket connection closed by the client")
			return
		}
	}
}

func (h *Handler) readPump(conn *websocket.Conn, done chan struct{}) {
	defer close(done)
	for {
		_, _, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.Log.Error("Error reading message", "error", err)
			}
			break
		}
	}
}
