// The worker consumes reservation notification events and periodically
// sweeps expired refresh tokens.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/tmarkov/flightdesk/config"
	"github.com/tmarkov/flightdesk/internal/database"
	"github.com/tmarkov/flightdesk/internal/email"
	"github.com/tmarkov/flightdesk/internal/kafka"
	"github.com/tmarkov/flightdesk/internal/repository"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the config file")
	flag.Parse()

	_ = godotenv.Load()

	log := zerolog.New(os.Stdout).With().Timestamp().Str("service", "worker").Logger()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := database.Connect(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("connect to database")
	}
	defer pool.Close()

	tokenRepo := repository.NewRefreshTokenRepository(pool)
	sender := email.NewSender(log)

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic)
	defer consumer.Close()

	go func() {
		err := consumer.Consume(ctx, func(ctx context.Context, msg kafkago.Message) error {
			var event kafka.ReservationEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				log.Warn().Err(err).Msg("malformed reservation event")
				return nil
			}
			if event.Email == "" {
				return nil
			}
			return sender.Send(ctx, event)
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("consumer stopped")
		}
	}()

	sweep := time.NewTicker(time.Duration(cfg.Worker.TokenSweepMinutes) * time.Minute)
	defer sweep.Stop()

	log.Info().Msg("worker started")
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("worker stopped")
			return
		case <-sweep.C:
			removed, err := tokenRepo.DeleteExpired(ctx)
			if err != nil {
				log.Error().Err(err).Msg("sweep expired refresh tokens")
				continue
			}
			if removed > 0 {
				log.Info().Int64("removed", removed).Msg("swept expired refresh tokens")
			}
		}
	}
}
