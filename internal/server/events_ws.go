package server

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/equitylens/equitylens/internal/events"
)

// streamedEventTypes are the event types forwarded to WebSocket clients
var streamedEventTypes = []events.EventType{
	events.AnalysisCompleted,
	events.BatchCompleted,
	events.ScoreUpdated,
	events.TickerTracked,
	events.TickerUntracked,
	events.SystemStatusChanged,
	events.BackupCompleted,
	events.ErrorOccurred,
}

// EventsWSHandler streams bus events to WebSocket clients. It subscribes to
// the bus once and fans events out to every connected client; a slow client
// drops events rather than blocking the emitters.
type EventsWSHandler struct {
	log zerolog.Logger

	mu      sync.Mutex
	clients map[chan *events.Event]struct{}
}

// NewEventsWSHandler creates the handler and wires it to the bus
func NewEventsWSHandler(bus *events.Bus, log zerolog.Logger) *EventsWSHandler {
	h := &EventsWSHandler{
		log:     log.With().Str("handler", "events_ws").Logger(),
		clients: make(map[chan *events.Event]struct{}),
	}

	for _, eventType := range streamedEventTypes {
		bus.Subscribe(eventType, h.broadcast)
	}

	return h
}

// broadcast fans one event out to all connected clients
func (h *EventsWSHandler) broadcast(event *events.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for ch := range h.clients {
		select {
		case ch <- event:
		default:
			// Client buffer full, drop the event for this client
		}
	}
}

// ServeHTTP upgrades the connection and streams events until the client
// disconnects
// GET /api/events/ws
func (h *EventsWSHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		h.log.Warn().Err(err).Msg("WebSocket accept failed")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "connection closed")

	ch := make(chan *events.Event, 64)
	h.addClient(ch)
	defer h.removeClient(ch)

	h.log.Debug().Str("remote", r.RemoteAddr).Msg("Events client connected")

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			conn.Close(websocket.StatusNormalClosure, "")
			return
		case event := <-ch:
			writeCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			err := wsjson.Write(writeCtx, conn, event)
			cancel()
			if err != nil {
				status := websocket.CloseStatus(err)
				if status != websocket.StatusNormalClosure && status != websocket.StatusGoingAway {
					h.log.Debug().Err(err).Msg("Events client write failed")
				}
				return
			}
		}
	}
}

func (h *EventsWSHandler) addClient(ch chan *events.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[ch] = struct{}{}
}

func (h *EventsWSHandler) removeClient(ch chan *events.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, ch)
}

// ClientCount returns the number of connected clients
func (h *EventsWSHandler) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}
