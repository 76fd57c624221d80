package email

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/tmarkov/flightdesk/internal/kafka"
)

// Sender delivers reservation notifications. Delivery is currently a
// structured log entry; the SMTP integration hangs off this type.
type Sender struct {
	log zerolog.Logger
}

func NewSender(log zerolog.Logger) *Sender {
	return &Sender{log: log.With().Str("component", "email").Logger()}
}

func (s *Sender) Send(ctx context.Context, event kafka.ReservationEvent) error {
	s.log.Info().
		Str("to", event.Email).
		Str("event", event.Type).
		Int64("flight_id", event.FlightID).
		Str("seat", event.Seat).
		Msg("sending reservation notification")
	return nil
}
