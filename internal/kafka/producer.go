package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// ReservationEvent is published whenever a reservation is created or
// deleted; the worker turns notification-topic events into emails.
type ReservationEvent struct {
	Type          string    `json:"type"`
	ReservationID int64     `json:"reservation_id"`
	FlightID      int64     `json:"flight_id"`
	Seat          string    `json:"seat"`
	Class         string    `json:"class"`
	Email         string    `json:"email"`
	OccurredAt    time.Time `json:"occurred_at"`
}

const (
	EventReservationCreated = "reservation_created"
	EventReservationDeleted = "reservation_deleted"
)

type Producer struct {
	writer *kafka.Writer
}

func NewProducer(brokers []string) *Producer {
	return &Producer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Balancer:     &kafka.LeastBytes{},
			BatchTimeout: 50 * time.Millisecond,
			RequiredAcks: kafka.RequireOne,
		},
	}
}

func (p *Producer) Publish(ctx context.Context, topic, key string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: data,
		Time:  time.Now(),
	})
}

func (p *Producer) Close() error {
	if p.writer != nil {
		return p.writer.Close()
	}
	return nil
}
