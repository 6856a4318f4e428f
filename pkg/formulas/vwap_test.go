package formulas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateVWAP(t *testing.T) {
	highs := []float64{11, 21}
	lows := []float64{9, 19}
	closes := []float64{10, 20}
	volumes := []int64{100, 300}

	vwap := CalculateVWAP(highs, lows, closes, volumes)
	require.NotNil(t, vwap)
	// (10×100 + 20×300) / 400
	assert.InDelta(t, 17.5, *vwap, 1e-9)
}

func TestCalculateVWAP_NoVolume(t *testing.T) {
	vwap := CalculateVWAP([]float64{11}, []float64{9}, []float64{10}, []int64{0})
	assert.Nil(t, vwap)
}

func TestCalculateVWAP_MismatchedLengths(t *testing.T) {
	vwap := CalculateVWAP([]float64{11}, []float64{9, 8}, []float64{10}, []int64{100})
	assert.Nil(t, vwap)
}

func TestVWAPSeries_CumulativeWeighting(t *testing.T) {
	highs := []float64{10, 10, 10}
	lows := []float64{10, 10, 10}
	closes := []float64{10, 10, 10}
	volumes := []int64{1, 1, 1}

	series := VWAPSeries(highs, lows, closes, volumes)
	require.Len(t, series, 3)
	for _, v := range series {
		assert.InDelta(t, 10, v, 1e-9)
	}
}

func TestSupportResistance(t *testing.T) {
	highs := []float64{12, 15, 13, 14, 16, 13}
	lows := []float64{8, 9, 7, 10, 11, 9}

	support, resistance := SupportResistance(highs, lows, 3)
	require.NotNil(t, support)
	require.NotNil(t, resistance)
	assert.InDelta(t, 7, *support, 1e-9)
	assert.InDelta(t, 16, *resistance, 1e-9)
}

func TestSupportResistance_TooShort(t *testing.T) {
	support, resistance := SupportResistance([]float64{12, 15}, []float64{8, 9}, 5)
	assert.Nil(t, support)
	assert.Nil(t, resistance)
}
