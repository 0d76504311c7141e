package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/oredata/minetel/internal/infrastructure/logging"
	"github.com/oredata/minetel/internal/infrastructure/mqtt"
	"github.com/oredata/minetel/internal/reading"
)

// defaultInsertTimeout bounds each store insert triggered by a message.
const defaultInsertTimeout = 5 * time.Second

// ErrInvalidPayload is returned when a message cannot be decoded into a reading.
var ErrInvalidPayload = errors.New("ingest: invalid payload")

// Ingestor subscribes to a readings topic and persists incoming messages.
type Ingestor struct {
	readings reading.Repository
	logger   *logging.Logger
	topic    string
	qos      byte
}

// New creates an Ingestor for the given topic.
func New(repo reading.Repository, logger *logging.Logger, topic string, qos byte) (*Ingestor, error) {
	if repo == nil {
		return nil, errors.New("ingest: repository is required")
	}
	if logger == nil {
		return nil, errors.New("ingest: logger is required")
	}
	if topic == "" {
		return nil, errors.New("ingest: topic is required")
	}

	return &Ingestor{
		readings: repo,
		logger:   logger,
		topic:    topic,
		qos:      qos,
	}, nil
}

// Start subscribes the ingestor's handler on the MQTT client.
// The client logs and drops handler errors, so a bad message never
// tears down the subscription.
func (i *Ingestor) Start(client *mqtt.Client) error {
	if client == nil {
		return errors.New("ingest: mqtt client is required")
	}

	if err := client.Subscribe(i.topic, i.qos, i.Handle); err != nil {
		return fmt.Errorf("ingest: subscribe %s: %w", i.topic, err)
	}

	i.logger.Info("ingestion started", "topic", i.topic, "qos", i.qos)
	return nil
}

// readingMessage mirrors the HTTP create payload. Raw fields keep absent
// and null distinguishable.
type readingMessage struct {
	Type      string          `json:"type"`
	Value     json.RawMessage `json:"value"`
	Timestamp json.RawMessage `json:"timestamp"`
}

// Handle decodes a single message and inserts it as a reading.
// It is safe to call directly in tests without a broker.
func (i *Ingestor) Handle(topic string, payload []byte) error {
	rec, err := decodeReading(payload)
	if err != nil {
		i.logger.Warn("dropping malformed reading message",
			"topic", topic,
			"error", err,
		)
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultInsertTimeout)
	defer cancel()

	created, err := i.readings.Create(ctx, rec)
	if err != nil {
		i.logger.Error("failed to store reading from broker",
			"topic", topic,
			"type", rec.Type,
			"error", err,
		)
		return fmt.Errorf("ingest: store reading: %w", err)
	}

	i.logger.Debug("reading ingested",
		"id", created.ID,
		"type", created.Type,
	)
	return nil
}

// decodeReading parses a message payload into a reading.
// All fields are required; a null value coerces to the empty textual variant.
func decodeReading(payload []byte) (*reading.Reading, error) {
	var msg readingMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}

	if msg.Type == "" {
		return nil, fmt.Errorf("%w: type is required", ErrInvalidPayload)
	}
	if len(msg.Value) == 0 {
		return nil, fmt.Errorf("%w: value is required", ErrInvalidPayload)
	}
	if len(msg.Timestamp) == 0 {
		return nil, fmt.Errorf("%w: timestamp is required", ErrInvalidPayload)
	}

	var value reading.Value
	if err := json.Unmarshal(msg.Value, &value); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}

	var timestamp reading.Timestamp
	if err := json.Unmarshal(msg.Timestamp, &timestamp); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}

	return &reading.Reading{
		Type:      msg.Type,
		Value:     value,
		Timestamp: timestamp,
	}, nil
}
