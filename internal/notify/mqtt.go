package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/agrosense/agrosense-backend/internal/logger"
	"github.com/agrosense/agrosense-backend/internal/weather"
)

const (
	publishQoS     = 1
	publishTimeout = 10 * time.Second
)

// MQTTConfig holds broker connection settings.
type MQTTConfig struct {
	Broker   string
	ClientID string
	Username string
	Password string
	// Topic is a pattern containing "{location}".
	Topic string
}

// tokenPublisher is the part of mqtt.Client the publisher needs.
type tokenPublisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

// MQTTPublisher publishes advisories as retained JSON messages, one topic per location.
type MQTTPublisher struct {
	client tokenPublisher
	closer func()
	topic  string
}

// NewMQTTPublisher connects to the broker.
func NewMQTTPublisher(cfg MQTTConfig) (*MQTTPublisher, error) {
	log := logger.GetLogger()

	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)
	opts.SetUsername(cfg.Username)
	opts.SetPassword(cfg.Password)
	opts.SetAutoReconnect(true)
	opts.SetKeepAlive(60 * time.Second)
	opts.SetPingTimeout(10 * time.Second)
	opts.SetOnConnectHandler(func(mqtt.Client) {
		log.Infow("MQTT connection established", "broker", cfg.Broker)
	})
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		log.Warnw("MQTT connection lost", "broker", cfg.Broker, "error", err)
	})

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}

	return &MQTTPublisher{
		client: client,
		closer: func() { client.Disconnect(250) },
		topic:  cfg.Topic,
	}, nil
}

func (p *MQTTPublisher) Publish(ctx context.Context, report weather.Report) error {
	payload, err := json.Marshal(NewMessage(report))
	if err != nil {
		return fmt.Errorf("failed to marshal advisory: %w", err)
	}

	topic := formatTopic(p.topic, report.Location)
	token := p.client.Publish(topic, publishQoS, true, payload)

	select {
	case <-token.Done():
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(publishTimeout):
		return fmt.Errorf("publish to %s timed out", topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("failed to publish advisory: %w", err)
	}

	logger.GetLogger().Debugw("Published advisory", "topic", topic, "priority", report.Advisory.Priority)
	return nil
}

func (p *MQTTPublisher) Close() {
	if p.closer != nil {
		p.closer()
	}
}

// formatTopic replaces the {location} placeholder with the location's topic segment.
func formatTopic(pattern string, loc weather.Location) string {
	return strings.ReplaceAll(pattern, "{location}", TopicSegment(loc))
}
