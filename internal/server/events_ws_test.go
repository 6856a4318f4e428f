package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/equitylens/equitylens/internal/events"
	"github.com/equitylens/equitylens/pkg/logger"
)

func newTestEventsWS(t *testing.T) (*EventsWSHandler, *events.Bus) {
	t.Helper()
	bus := events.NewBus()
	return NewEventsWSHandler(bus, logger.New(logger.Config{Level: "disabled"})), bus
}

func TestEventsWS_BroadcastReachesClients(t *testing.T) {
	h, bus := newTestEventsWS(t)

	ch := make(chan *events.Event, 4)
	h.addClient(ch)
	defer h.removeClient(ch)

	bus.Emit(events.ScoreUpdated, "analysis", map[string]interface{}{"ticker": "AAPL"})

	require.Len(t, ch, 1)
	event := <-ch
	assert.Equal(t, events.ScoreUpdated, event.Type)
	assert.Equal(t, "AAPL", event.Data["ticker"])
}

func TestEventsWS_SlowClientDropsEvents(t *testing.T) {
	h, bus := newTestEventsWS(t)

	ch := make(chan *events.Event, 1)
	h.addClient(ch)
	defer h.removeClient(ch)

	bus.Emit(events.AnalysisCompleted, "analysis", nil)
	bus.Emit(events.AnalysisCompleted, "analysis", nil)

	// Second emit does not block; the full buffer drops it.
	assert.Len(t, ch, 1)
}

func TestEventsWS_ClientCount(t *testing.T) {
	h, _ := newTestEventsWS(t)
	assert.Equal(t, 0, h.ClientCount())

	ch := make(chan *events.Event, 1)
	h.addClient(ch)
	assert.Equal(t, 1, h.ClientCount())

	h.removeClient(ch)
	assert.Equal(t, 0, h.ClientCount())
}
