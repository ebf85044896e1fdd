// Package advisory turns a weather snapshot into prioritized farming advice.
//
// Compute is a pure function: it folds the snapshot over a fixed, ordered table
// of tiered rules, then applies the ideal-conditions override, the
// good-conditions fallback and the general guidelines footer. Priority only
// ratchets upward during the fold; the ideal-conditions override is the one
// rule allowed to reset it.
package advisory

import (
	"strings"

	"github.com/agrosense/agrosense-backend/internal/common"
)

// Priority summarizes how urgently a farmer must act.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityNormal   Priority = "normal"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// Rank orders priorities low < normal < high < critical. Unknown values rank lowest.
func (p Priority) Rank() int {
	switch p {
	case PriorityLow:
		return 1
	case PriorityNormal:
		return 2
	case PriorityHigh:
		return 3
	case PriorityCritical:
		return 4
	default:
		return 0
	}
}

// raise applies the ratchet: a critical candidate always wins, any other
// candidate only replaces a lower-ranked priority.
func raise(current, candidate Priority) Priority {
	if candidate == "" {
		return current
	}
	if candidate == PriorityCritical || current.Rank() < candidate.Rank() {
		return candidate
	}
	return current
}

// Snapshot is the engine input: one point-in-time set of readings.
type Snapshot struct {
	TemperatureC float64 `json:"temperatureC"`
	FeelsLikeC   float64 `json:"feelsLikeC"`
	HumidityPct  int     `json:"humidityPct"`
	WindKph      float64 `json:"windKph"`
	Condition    string  `json:"condition"`
	RainMm       float64 `json:"rainMm"`
}

func (s Snapshot) mentionsRain() bool {
	return common.ContainsFold(s.Condition, "rain")
}

// Result is the engine output. Advice is Lines joined with newlines;
// Triggers names the rules that fired, in evaluation order.
type Result struct {
	Priority Priority `json:"priority"`
	Advice   string   `json:"advice"`
	Lines    []string `json:"-"`
	Triggers []string `json:"-"`
}

// tier is one band of a rule. Escalate is empty when the band only advises.
type tier struct {
	when     func(Snapshot) bool
	block    []string
	escalate Priority
}

// rule fires at most one tier: the first whose predicate holds.
type rule struct {
	name  string
	tiers []tier
}

var rules = []rule{
	{
		name: "precipitation",
		tiers: []tier{
			{when: func(s Snapshot) bool { return s.RainMm > 0 || s.mentionsRain() }, block: rainBlock, escalate: PriorityCritical},
		},
	},
	{
		name: "heat",
		tiers: []tier{
			{when: func(s Snapshot) bool { return s.TemperatureC > 38 }, block: extremeHeatBlock, escalate: PriorityHigh},
			{when: func(s Snapshot) bool { return s.TemperatureC > 35 }, block: highTemperatureBlock, escalate: PriorityHigh},
			{when: func(s Snapshot) bool { return s.TemperatureC > 30 && s.TemperatureC <= 35 }, block: warmBlock},
		},
	},
	{
		name: "cold",
		tiers: []tier{
			{when: func(s Snapshot) bool { return s.TemperatureC < 10 }, block: frostBlock, escalate: PriorityHigh},
			{when: func(s Snapshot) bool { return s.TemperatureC < 15 }, block: coldBlock, escalate: PriorityNormal},
		},
	},
	{
		name: "humidity-high",
		tiers: []tier{
			{when: func(s Snapshot) bool { return s.HumidityPct > 85 }, block: veryHighHumidityBlock, escalate: PriorityHigh},
			{when: func(s Snapshot) bool { return s.HumidityPct > 70 }, block: highHumidityBlock},
		},
	},
	{
		name: "humidity-low",
		tiers: []tier{
			{when: func(s Snapshot) bool { return s.HumidityPct < 30 }, block: veryLowHumidityBlock, escalate: PriorityNormal},
			{when: func(s Snapshot) bool { return s.HumidityPct < 50 }, block: lowHumidityBlock},
		},
	},
	{
		name: "wind",
		tiers: []tier{
			{when: func(s Snapshot) bool { return s.WindKph > 30 }, block: strongWindBlock, escalate: PriorityHigh},
			{when: func(s Snapshot) bool { return s.WindKph > 20 }, block: moderateWindBlock},
		},
	},
}

// Compute evaluates every rule against the snapshot.
func Compute(s Snapshot) Result {
	priority := PriorityNormal
	var lines, triggers []string

	for _, r := range rules {
		for _, t := range r.tiers {
			if !t.when(s) {
				continue
			}
			lines = append(lines, t.block...)
			triggers = append(triggers, r.name)
			priority = raise(priority, t.escalate)
			break
		}
	}

	switch {
	case isIdeal(s):
		lines = append([]string(nil), perfectBlock...)
		triggers = []string{"ideal"}
		priority = PriorityLow
	case isGood(s):
		lines = append(lines, goodBlock...)
		triggers = append(triggers, "good")
	}

	if len(lines) > 0 {
		lines = append(lines, footerBlock...)
	}

	return Result{
		Priority: priority,
		Advice:   strings.Join(lines, "\n"),
		Lines:    lines,
		Triggers: triggers,
	}
}

func isIdeal(s Snapshot) bool {
	return s.TemperatureC >= 20 && s.TemperatureC <= 30 &&
		s.HumidityPct >= 50 && s.HumidityPct <= 70 &&
		s.WindKph <= 15 &&
		!s.mentionsRain() &&
		s.RainMm == 0
}

func isGood(s Snapshot) bool {
	return s.TemperatureC >= 18 && s.TemperatureC <= 32 &&
		s.WindKph <= 15 &&
		!s.mentionsRain()
}
