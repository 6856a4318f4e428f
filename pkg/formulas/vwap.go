package formulas

// VWAPSeries calculates the Volume Weighted Average Price series.
//
// Formula: cumulative(typical price × volume) / cumulative(volume)
// where typical price = (high + low + close) / 3
func VWAPSeries(highs, lows, closes []float64, volumes []int64) []float64 {
	n := len(closes)
	if n == 0 || len(highs) != n || len(lows) != n || len(volumes) != n {
		return nil
	}

	vwap := make([]float64, n)
	var cumPV, cumVol float64
	for i := 0; i < n; i++ {
		typical := (highs[i] + lows[i] + closes[i]) / 3
		cumPV += typical * float64(volumes[i])
		cumVol += float64(volumes[i])
		if cumVol == 0 {
			vwap[i] = typical
			continue
		}
		vwap[i] = cumPV / cumVol
	}

	return vwap
}

// CalculateVWAP returns the current VWAP value or nil when there is no volume data
func CalculateVWAP(highs, lows, closes []float64, volumes []int64) *float64 {
	series := VWAPSeries(highs, lows, closes, volumes)
	if len(series) == 0 {
		return nil
	}

	var totalVol int64
	for _, v := range volumes {
		totalVol += v
	}
	if totalVol == 0 {
		return nil
	}

	result := series[len(series)-1]
	return &result
}

// SupportResistance calculates support and resistance levels from rolling
// window extremes: support is the minimum of the rolling N-bar lows,
// resistance the maximum of the rolling N-bar highs.
func SupportResistance(highs, lows []float64, window int) (support, resistance *float64) {
	if len(highs) < window || len(lows) < window || window <= 0 {
		return nil, nil
	}

	var minLow, maxHigh float64
	for i := window - 1; i < len(lows); i++ {
		windowLow := lows[i]
		windowHigh := highs[i]
		for j := i - window + 1; j < i; j++ {
			if lows[j] < windowLow {
				windowLow = lows[j]
			}
			if highs[j] > windowHigh {
				windowHigh = highs[j]
			}
		}
		if i == window-1 || windowLow < minLow {
			minLow = windowLow
		}
		if i == window-1 || windowHigh > maxHigh {
			maxHigh = windowHigh
		}
	}

	return &minLow, &maxHigh
}
