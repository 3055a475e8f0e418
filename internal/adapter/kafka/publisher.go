// Package kafka publishes completed evaluation ticks to the sink topic
// for downstream consumers (alerting, long-term storage).
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/geosentinal/slope-risk-service/internal/config"
	"github.com/geosentinal/slope-risk-service/internal/domain"
	"github.com/geosentinal/slope-risk-service/internal/engine"
	"github.com/geosentinal/slope-risk-service/internal/observability"
)

// Publisher produces one message per bench result to the sink topic.
// It implements engine.Sink.
type Publisher struct {
	writer  *kafkago.Writer
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewPublisher creates a Kafka producer for the configured sink topic.
func NewPublisher(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSinkTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Publisher{writer: w, logger: logger, metrics: metrics}
}

// PublishTick serializes a tick's bench results and writes them in a
// single WriteMessages call for efficiency.
func (p *Publisher) PublishTick(ctx context.Context, tick engine.TickResult) error {
	if len(tick.Results) == 0 {
		return nil
	}

	msgs := make([]kafkago.Message, len(tick.Results))
	for i, r := range tick.Results {
		msg, err := serializeResult(tick, r)
		if err != nil {
			p.metrics.PublishErrors.Inc()
			return err
		}
		msgs[i] = msg
	}

	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		p.metrics.PublishErrors.Inc()
		return fmt.Errorf("publish tick %s: %w", tick.TickID, err)
	}

	p.metrics.TicksPublished.Inc()
	p.logger.Debug("tick published", "tick_id", tick.TickID, "messages", len(msgs))
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// benchRiskMessage is the wire form of one bench's result.
type benchRiskMessage struct {
	TickID string      `json:"tick_id"`
	At     time.Time   `json:"at"`
	Mode   engine.Mode `json:"mode"`
	domain.RiskResult
}

// serializeResult marshals one bench result into a Kafka message keyed
// by bench id, so each bench's results land on one partition in order.
func serializeResult(tick engine.TickResult, r domain.RiskResult) (kafkago.Message, error) {
	data, err := json.Marshal(benchRiskMessage{
		TickID:     tick.TickID,
		At:         tick.At,
		Mode:       tick.Mode,
		RiskResult: r,
	})
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize bench result: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(r.BenchID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "tick_id", Value: []byte(tick.TickID)},
			{Key: "mode", Value: []byte(tick.Mode)},
			{Key: "classification", Value: []byte(r.Classification)},
		},
	}, nil
}
