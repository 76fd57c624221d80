package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/tmarkov/flightdesk/api"
	"github.com/tmarkov/flightdesk/config"
	"github.com/tmarkov/flightdesk/internal/bootstrap"
	"github.com/tmarkov/flightdesk/internal/cache"
	"github.com/tmarkov/flightdesk/internal/database"
	"github.com/tmarkov/flightdesk/internal/kafka"
	"github.com/tmarkov/flightdesk/internal/repository"
	"github.com/tmarkov/flightdesk/internal/service/airlines"
	"github.com/tmarkov/flightdesk/internal/service/airports"
	"github.com/tmarkov/flightdesk/internal/service/auth"
	"github.com/tmarkov/flightdesk/internal/service/flights"
	"github.com/tmarkov/flightdesk/internal/service/planes"
	"github.com/tmarkov/flightdesk/internal/service/reservations"
	"github.com/tmarkov/flightdesk/internal/service/stats"
	"github.com/tmarkov/flightdesk/internal/service/users"
	"github.com/tmarkov/flightdesk/internal/storage"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the config file")
	flag.Parse()

	_ = godotenv.Load()

	log := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	if cfg.Auth.Secret == "" {
		log.Fatal().Msg("SECRET_KEY must be set")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := database.Migrate(cfg.Database.URL()); err != nil {
		log.Fatal().Err(err).Msg("run migrations")
	}

	pool, err := database.Connect(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("connect to database")
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Cache.AirportsTTL)*time.Second)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	airlineRepo := repository.NewAirlineRepository(pool)
	airportRepo := repository.NewAirportRepository(pool)
	planeRepo := repository.NewPlaneRepository(pool)
	flightRepo := repository.NewFlightRepository(pool)
	reservationRepo := repository.NewReservationRepository(pool)
	userRepo := repository.NewUserRepository(pool)
	roleRepo := repository.NewRoleRepository(pool)
	tokenRepo := repository.NewRefreshTokenRepository(pool)

	issuer := auth.NewTokenService(cfg.Auth.Secret,
		time.Duration(cfg.Auth.AccessTokenTTL)*time.Second,
		time.Duration(cfg.Auth.RefreshTokenTTL)*time.Second)
	authSvc := auth.NewService(userRepo, tokenRepo, issuer, auth.WithLogger(log))

	if err := authSvc.EnsureAdmin(ctx); err != nil {
		log.Fatal().Err(err).Msg("seed admin account")
	}

	logos := storage.NewLogoStore(cfg.Uploads.Dir)
	airlineSvc := airlines.NewService(airlineRepo, logos, airlines.WithLogger(log))
	airportSvc := airports.NewService(airportRepo, airports.WithCache(redisCache), airports.WithLogger(log))
	planeSvc := planes.NewService(planeRepo, planes.WithLogger(log))
	flightSvc := flights.NewService(flightRepo, planeRepo, airportRepo, reservationRepo, flights.WithLogger(log))
	reservationSvc := reservations.NewService(reservationRepo, flightRepo, planeRepo, userRepo, flightSvc, redisCache,
		reservations.WithLogger(log),
		reservations.WithEvents(producer, cfg.Kafka.NotificationsTopic),
		reservations.WithLockTTL(time.Duration(cfg.Cache.SeatLockTTL)*time.Second))
	userSvc := users.NewService(userRepo, roleRepo, users.WithLogger(log))
	statsSvc := stats.NewService(reservationRepo, flightSvc)

	authMW := api.NewAuthMiddleware(authSvc)
	server := bootstrap.NewServer(cfg.HTTP, authMW, bootstrap.Handlers{
		Auth:         api.NewAuthHandler(authSvc),
		Airlines:     api.NewAirlineHandler(airlineSvc),
		Airports:     api.NewAirportHandler(airportSvc),
		Flights:      api.NewFlightHandler(flightSvc),
		Planes:       api.NewPlaneHandler(planeSvc),
		Reservations: api.NewReservationHandler(reservationSvc),
		Users:        api.NewUserHandler(userSvc),
		Statistics:   api.NewStatisticsHandler(statsSvc),
	}, log)

	if err := server.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("http server")
	}
	log.Info().Msg("server stopped")
}
