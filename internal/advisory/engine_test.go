package advisory

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// calm sits inside the ideal band.
func calm() Snapshot {
	return Snapshot{TemperatureC: 25, HumidityPct: 60, WindKph: 5, Condition: "Clear"}
}

// body strips the guidelines footer.
func body(t *testing.T, r Result) []string {
	t.Helper()
	require.GreaterOrEqual(t, len(r.Lines), len(footerBlock))
	return r.Lines[:len(r.Lines)-len(footerBlock)]
}

func TestComputeRainIsAlwaysCritical(t *testing.T) {
	tests := []struct {
		name string
		snap Snapshot
	}{
		{"rain volume", Snapshot{TemperatureC: 25, HumidityPct: 60, WindKph: 5, Condition: "Clouds", RainMm: 0.2}},
		{"lowercase condition", Snapshot{TemperatureC: 25, HumidityPct: 60, Condition: "rain"}},
		{"mixed case condition", Snapshot{TemperatureC: 12, HumidityPct: 90, Condition: "Light RaIn"}},
		{"rain with extreme heat", Snapshot{TemperatureC: 40, HumidityPct: 20, WindKph: 40, Condition: "Rain"}},
		{"rain with frost", Snapshot{TemperatureC: 2, HumidityPct: 95, WindKph: 25, Condition: "Clear", RainMm: 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compute(tt.snap)
			assert.Equal(t, PriorityCritical, got.Priority)
			require.GreaterOrEqual(t, len(got.Lines), len(rainBlock))
			assert.Equal(t, rainBlock, got.Lines[:len(rainBlock)])
			assert.Equal(t, "precipitation", got.Triggers[0])
		})
	}
}

func TestComputeIdealConditions(t *testing.T) {
	got := Compute(Snapshot{TemperatureC: 25, HumidityPct: 60, WindKph: 5, Condition: "Clear", RainMm: 0})

	assert.Equal(t, PriorityLow, got.Priority)
	assert.True(t, strings.HasPrefix(got.Advice, "✅ PERFECT FARMING CONDITIONS"))
	assert.Equal(t, perfectBlock, body(t, got))
	assert.Len(t, perfectBlock, 7)
	assert.Equal(t, footerBlock, got.Lines[len(perfectBlock):])
	assert.Equal(t, []string{"ideal"}, got.Triggers)
}

func TestComputeIdealBoundsAreInclusive(t *testing.T) {
	for _, snap := range []Snapshot{
		{TemperatureC: 20, HumidityPct: 50, WindKph: 15, Condition: "Clouds"},
		{TemperatureC: 30, HumidityPct: 70, WindKph: 0, Condition: "Haze"},
	} {
		got := Compute(snap)
		assert.Equal(t, PriorityLow, got.Priority)
		assert.Equal(t, perfectBlock, body(t, got))
	}
}

func TestComputeExtremeHeatScenario(t *testing.T) {
	got := Compute(Snapshot{TemperatureC: 39, HumidityPct: 40, WindKph: 10, Condition: "Clear"})

	assert.Equal(t, PriorityHigh, got.Priority)
	assert.Contains(t, got.Advice, "🔥 EXTREME HEAT ALERT!")
	assert.NotContains(t, got.Advice, rainBlock[0])
	assert.NotContains(t, got.Advice, highTemperatureBlock[0])
	assert.Contains(t, got.Advice, "📋 General Guidelines:")
	assert.Equal(t, []string{"heat", "humidity-low"}, got.Triggers)
}

func TestComputeHighButNotCriticalWithoutRain(t *testing.T) {
	got := Compute(Snapshot{TemperatureC: 5, HumidityPct: 90, WindKph: 35, Condition: "Clear"})

	assert.Equal(t, PriorityHigh, got.Priority)
	assert.Equal(t, []string{"cold", "humidity-high", "wind"}, got.Triggers)
	assert.Contains(t, got.Advice, frostBlock[0])
	assert.Contains(t, got.Advice, veryHighHumidityBlock[0])
	assert.Contains(t, got.Advice, strongWindBlock[0])
}

func TestComputeNormalCandidatesNeverDowngrade(t *testing.T) {
	// Frost raises to high; the very-low-humidity tier proposes normal afterwards.
	got := Compute(Snapshot{TemperatureC: 5, HumidityPct: 20, WindKph: 5, Condition: "Clear"})
	assert.Equal(t, PriorityHigh, got.Priority)
	assert.Equal(t, []string{"cold", "humidity-low"}, got.Triggers)

	// Rain is critical; the cold tier proposes normal afterwards.
	got = Compute(Snapshot{TemperatureC: 12, HumidityPct: 60, WindKph: 5, Condition: "Rain"})
	assert.Equal(t, PriorityCritical, got.Priority)

	got = Compute(Snapshot{TemperatureC: 12, HumidityPct: 20, WindKph: 5, Condition: "Clear"})
	assert.Equal(t, PriorityNormal, got.Priority)
}

func TestComputeEvaluationOrder(t *testing.T) {
	got := Compute(Snapshot{TemperatureC: 37, HumidityPct: 75, WindKph: 25, Condition: "Rain", RainMm: 1})

	assert.Equal(t, PriorityCritical, got.Priority)
	assert.Equal(t, []string{"precipitation", "heat", "humidity-high", "wind"}, got.Triggers)

	idx := func(s string) int { return strings.Index(got.Advice, s) }
	assert.Less(t, idx(rainBlock[0]), idx(highTemperatureBlock[0]))
	assert.Less(t, idx(highTemperatureBlock[0]), idx(highHumidityBlock[0]))
	assert.Less(t, idx(highHumidityBlock[0]), idx(moderateWindBlock[0]))
	assert.Less(t, idx(moderateWindBlock[0]), idx(footerBlock[1]))
}

func TestComputeBoundaries(t *testing.T) {
	tests := []struct {
		name     string
		snap     Snapshot
		triggers []string
		priority Priority
	}{
		{"exactly 38 is high temperature", Snapshot{TemperatureC: 38, HumidityPct: 60}, []string{"heat"}, PriorityHigh},
		{"exactly 35 is warm", Snapshot{TemperatureC: 35, HumidityPct: 60}, []string{"heat"}, PriorityNormal},
		{"exactly 30 with dry air is not warm", Snapshot{TemperatureC: 30, HumidityPct: 45, WindKph: 5, Condition: "Clear"}, []string{"humidity-low", "good"}, PriorityNormal},
		{"exactly 10 is cold not frost", Snapshot{TemperatureC: 10, HumidityPct: 60}, []string{"cold"}, PriorityNormal},
		{"exactly 15 is not cold", Snapshot{TemperatureC: 15, HumidityPct: 60, WindKph: 16}, nil, PriorityNormal},
		{"exactly 85 humidity is moderate", Snapshot{TemperatureC: 33, HumidityPct: 85, WindKph: 16}, []string{"heat", "humidity-high"}, PriorityNormal},
		{"exactly 30 humidity is mild dry", Snapshot{TemperatureC: 33, HumidityPct: 30, WindKph: 16}, []string{"heat", "humidity-low"}, PriorityNormal},
		{"exactly 30 kph is moderate wind", Snapshot{TemperatureC: 33, HumidityPct: 60, WindKph: 30}, []string{"heat", "wind"}, PriorityNormal},
		{"exactly 20 kph is calm", Snapshot{TemperatureC: 33, HumidityPct: 60, WindKph: 20}, []string{"heat"}, PriorityNormal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compute(tt.snap)
			assert.Equal(t, tt.priority, got.Priority)
			assert.Equal(t, tt.triggers, got.Triggers)
		})
	}
}

func TestComputeGoodFallback(t *testing.T) {
	// Inside the good band but humidity outside the ideal band.
	got := Compute(Snapshot{TemperatureC: 26, HumidityPct: 75, WindKph: 10, Condition: "Clouds"})

	assert.Equal(t, PriorityNormal, got.Priority)
	assert.Equal(t, []string{"humidity-high", "good"}, got.Triggers)
	assert.Equal(t, goodBlock, body(t, got)[len(highHumidityBlock):])
}

func TestComputeNoAdviceNoFooter(t *testing.T) {
	// 16°C, 60%, 16 kph: too cool for good, too windy for ideal, nothing else trips.
	got := Compute(Snapshot{TemperatureC: 16, HumidityPct: 60, WindKph: 16, Condition: "Clear"})

	assert.Equal(t, PriorityNormal, got.Priority)
	assert.Empty(t, got.Lines)
	assert.Empty(t, got.Advice)
}

func TestComputeMonotonicInTemperature(t *testing.T) {
	base := calm()
	prev := 0
	for temp := 25.0; temp <= 40.0; temp += 0.5 {
		s := base
		s.TemperatureC = temp
		rank := Compute(s).Priority.Rank()
		assert.GreaterOrEqual(t, rank, prev, "priority dropped at %.1f°C", temp)
		prev = rank
	}
}

func TestComputeAdviceJoinsLines(t *testing.T) {
	got := Compute(Snapshot{TemperatureC: 31, HumidityPct: 60, WindKph: 5, Condition: "Clear"})
	assert.Equal(t, strings.Join(got.Lines, "\n"), got.Advice)
	assert.Contains(t, got.Advice, "\n\n📋 General Guidelines:")
}

func TestRaise(t *testing.T) {
	assert.Equal(t, PriorityHigh, raise(PriorityNormal, PriorityHigh))
	assert.Equal(t, PriorityHigh, raise(PriorityHigh, PriorityNormal))
	assert.Equal(t, PriorityCritical, raise(PriorityCritical, PriorityHigh))
	assert.Equal(t, PriorityCritical, raise(PriorityHigh, PriorityCritical))
	assert.Equal(t, PriorityNormal, raise(PriorityNormal, ""))
	assert.Less(t, PriorityLow.Rank(), PriorityNormal.Rank())
	assert.Less(t, PriorityNormal.Rank(), PriorityHigh.Rank())
	assert.Less(t, PriorityHigh.Rank(), PriorityCritical.Rank())
}
