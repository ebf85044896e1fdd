package weather

import (
	"math"
	"slices"
	"time"
)

// MaxForecastDays caps the daily outlook.
const MaxForecastDays = 3

// AggregateForecast groups samples by calendar day in zone (UTC when nil) and
// summarizes the first MaxForecastDays days in first-seen order.
// Temperatures are averaged and rounded half away from zero; condition and
// icon are chosen by MajorityVote.
func AggregateForecast(samples []ForecastSample, zone *time.Location) []DaySummary {
	if zone == nil {
		zone = time.UTC
	}

	type dayBucket struct {
		date       time.Time
		temps      []float64
		conditions []string
		icons      []string
	}

	var (
		order   []string
		buckets = make(map[string]*dayBucket)
	)

	for _, s := range samples {
		local := s.Timestamp.In(zone)
		key := local.Format("2006-01-02")

		b, ok := buckets[key]
		if !ok {
			b = &dayBucket{date: local}
			buckets[key] = b
			order = append(order, key)
		}
		b.temps = append(b.temps, s.TemperatureC)
		b.conditions = append(b.conditions, s.Condition)
		b.icons = append(b.icons, s.Icon)
	}

	if len(order) > MaxForecastDays {
		order = order[:MaxForecastDays]
	}

	days := make([]DaySummary, 0, len(order))
	for i, key := range order {
		b := buckets[key]
		days = append(days, DaySummary{
			Day:       dayLabel(i, b.date),
			Temp:      int(math.Round(mean(b.temps))),
			Condition: MajorityVote(b.conditions),
			Icon:      MajorityVote(b.icons),
			Date:      b.date.Format("Jan 2"),
		})
	}
	return days
}

// MajorityVote returns the most frequent value. Values are stable-sorted by
// ascending frequency and the last element wins, so among equally frequent
// values the one whose final occurrence comes latest is chosen.
func MajorityVote(values []string) string {
	if len(values) == 0 {
		return ""
	}

	counts := make(map[string]int, len(values))
	for _, v := range values {
		counts[v]++
	}

	sorted := slices.Clone(values)
	slices.SortStableFunc(sorted, func(a, b string) int {
		return counts[a] - counts[b]
	})
	return sorted[len(sorted)-1]
}

func dayLabel(index int, date time.Time) string {
	switch index {
	case 0:
		return "Today"
	case 1:
		return "Tomorrow"
	default:
		return date.Format("Mon")
	}
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
