package events

import (
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/equitylens/equitylens/internal/domain"
)

func TestEventDataTypes(t *testing.T) {
	tests := []struct {
		name     string
		data     EventData
		expected EventType
	}{
		{"analysis completed", &AnalysisCompletedData{Ticker: "AAPL"}, AnalysisCompleted},
		{"batch completed", &BatchCompletedData{Tickers: 5}, BatchCompleted},
		{"score updated", &ScoreUpdatedData{Ticker: "AAPL", TotalScore: 85}, ScoreUpdated},
		{"ticker tracked", &TickerTrackedData{Ticker: "AAPL"}, TickerTracked},
		{"backup completed", &BackupCompletedData{Key: "backups/x.tar.gz"}, BackupCompleted},
		{"error occurred", &ErrorEventData{Error: "boom"}, ErrorOccurred},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.data.EventType())
		})
	}
}

func TestBus_SubscribeAndEmit(t *testing.T) {
	bus := NewBus()

	var received []*Event
	bus.Subscribe(ScoreUpdated, func(e *Event) {
		received = append(received, e)
	})

	bus.Emit(ScoreUpdated, "analysis", map[string]interface{}{"ticker": "AAPL", "total_score": 85})
	bus.Emit(TickerTracked, "analysis", map[string]interface{}{"ticker": "MSFT"}) // Not subscribed

	require.Len(t, received, 1)
	assert.Equal(t, ScoreUpdated, received[0].Type)
	assert.Equal(t, "analysis", received[0].Module)
	assert.Equal(t, "AAPL", received[0].Data["ticker"])
	assert.False(t, received[0].Timestamp.IsZero())
}

func TestBus_MultipleSubscribers(t *testing.T) {
	bus := NewBus()

	count := 0
	bus.Subscribe(AnalysisCompleted, func(e *Event) { count++ })
	bus.Subscribe(AnalysisCompleted, func(e *Event) { count++ })

	bus.Emit(AnalysisCompleted, "analysis", nil)
	assert.Equal(t, 2, count)
}

func TestBus_ConcurrentEmit(t *testing.T) {
	bus := NewBus()

	var mu sync.Mutex
	count := 0
	bus.Subscribe(ScoreUpdated, func(e *Event) {
		mu.Lock()
		count++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			bus.Emit(ScoreUpdated, "analysis", nil)
		}()
	}
	wg.Wait()

	assert.Equal(t, 20, count)
}

func TestManager_EmitTyped(t *testing.T) {
	bus := NewBus()
	manager := NewManager(bus, zerolog.Nop())

	var received *Event
	bus.Subscribe(AnalysisCompleted, func(e *Event) { received = e })

	manager.EmitTyped(AnalysisCompleted, "analysis", &AnalysisCompletedData{
		Ticker:         "AAPL",
		IntrinsicValue: domain.Float64Ptr(210.5),
		Recommendation: "BUY",
	})

	require.NotNil(t, received)
	assert.Equal(t, "AAPL", received.Data["ticker"])
	assert.Equal(t, "BUY", received.Data["recommendation"])
	assert.InDelta(t, 210.5, received.Data["intrinsic_value"].(float64), 1e-9)
}

func TestManager_EmitError(t *testing.T) {
	bus := NewBus()
	manager := NewManager(bus, zerolog.Nop())

	var received *Event
	bus.Subscribe(ErrorOccurred, func(e *Event) { received = e })

	manager.EmitError("yahoo", errors.New("fetch failed"), map[string]interface{}{"ticker": "AAPL"})

	require.NotNil(t, received)
	assert.Equal(t, "fetch failed", received.Data["error"])
}
