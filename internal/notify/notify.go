// Package notify broadcasts watch-list advisories.
package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/agrosense/agrosense-backend/internal/advisory"
	"github.com/agrosense/agrosense-backend/internal/logger"
	"github.com/agrosense/agrosense-backend/internal/weather"
)

// Publisher delivers a report's advisory somewhere outside the process.
type Publisher interface {
	Publish(ctx context.Context, report weather.Report) error
	Close()
}

// Message is the broadcast payload.
type Message struct {
	ReportID     string            `json:"reportId"`
	Location     string            `json:"location"`
	GeneratedAt  time.Time         `json:"generatedAt"`
	Priority     advisory.Priority `json:"priority"`
	Advice       string            `json:"advice"`
	TemperatureC float64           `json:"temperature"`
	Condition    string            `json:"condition"`
}

// NewMessage extracts the broadcast payload from a report.
func NewMessage(r weather.Report) Message {
	return Message{
		ReportID:     r.ID,
		Location:     r.Weather.Current.Location,
		GeneratedAt:  r.GeneratedAt,
		Priority:     r.Advisory.Priority,
		Advice:       r.Advisory.Advice,
		TemperatureC: r.Weather.Current.Temperature,
		Condition:    r.Weather.Current.Condition,
	}
}

// TopicSegment renders a location as a single MQTT topic level,
// e.g. "pune-in" or "18.5200_73.8500".
func TopicSegment(loc weather.Location) string {
	if loc.HasCoordinates() {
		return fmt.Sprintf("%.4f_%.4f", *loc.Lat, *loc.Lon)
	}

	parts := []string{loc.City}
	if loc.Country != "" {
		parts = append(parts, loc.Country)
	}
	seg := strings.ToLower(strings.Join(parts, " "))
	seg = strings.Join(strings.Fields(seg), "-")
	// Wildcards and level separators are not allowed inside a level.
	return strings.NewReplacer("/", "-", "+", "-", "#", "-").Replace(seg)
}

// LogPublisher writes advisories to the service log. It is used when no
// broker is configured.
type LogPublisher struct{}

func (LogPublisher) Publish(_ context.Context, report weather.Report) error {
	msg := NewMessage(report)
	logger.GetLogger().Infow("Advisory",
		"location", msg.Location,
		"priority", msg.Priority,
		"temperature", msg.TemperatureC,
		"condition", msg.Condition)
	return nil
}

func (LogPublisher) Close() {}
