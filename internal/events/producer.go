package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Producer publishes activity and risk events for downstream consumers
// (analytics, webhooks).
type Producer struct {
	activityWriter *kafka.Writer
	riskWriter     *kafka.Writer
	logger         *zap.SugaredLogger
}

func NewProducer(brokers []string, activityTopic, riskTopic string, logger *zap.SugaredLogger) *Producer {
	return &Producer{
		activityWriter: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    activityTopic,
			Balancer: &kafka.LeastBytes{},
		},
		riskWriter: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    riskTopic,
			Balancer: &kafka.LeastBytes{},
		},
		logger: logger,
	}
}

// ActivityEvent mirrors a row of the activity feed on the wire.
type ActivityEvent struct {
	OrgID      int64     `json:"org_id"`
	ActorID    int64     `json:"actor_id"`
	EntityType string    `json:"entity_type"`
	EntityID   int64     `json:"entity_id"`
	Action     string    `json:"action"`
	OccurredAt time.Time `json:"occurred_at"`
}

// RiskEvent is emitted whenever a show's risk level changes.
type RiskEvent struct {
	OrgID          int64     `json:"org_id"`
	ShowID         int64     `json:"show_id"`
	PreviousLevel  string    `json:"previous_level"`
	Level          string    `json:"level"`
	Score          float64   `json:"score"`
	SellThroughPct float64   `json:"sell_through_pct"`
	DaysUntilShow  int       `json:"days_until_show"`
	OccurredAt     time.Time `json:"occurred_at"`
}

func (p *Producer) SendActivity(ctx context.Context, key string, event ActivityEvent) error {
	if err := p.send(ctx, p.activityWriter, key, event); err != nil {
		return err
	}
	p.logger.Infow("published activity event", "key", key, "action", event.Action)
	return nil
}

func (p *Producer) SendRisk(ctx context.Context, key string, event RiskEvent) error {
	if err := p.send(ctx, p.riskWriter, key, event); err != nil {
		return err
	}
	p.logger.Infow("published risk event", "key", key, "level", event.Level)
	return nil
}

func (p *Producer) send(ctx context.Context, w *kafka.Writer, key string, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return w.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: data,
	})
}

func (p *Producer) Close() error {
	if err := p.activityWriter.Close(); err != nil {
		return err
	}
	return p.riskWriter.Close()
}
