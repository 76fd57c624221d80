// Package bootstrap assembles the gin engine and runs the HTTP server with
// graceful shutdown.
package bootstrap

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/tmarkov/flightdesk/api"
	"github.com/tmarkov/flightdesk/config"
	"github.com/tmarkov/flightdesk/internal/domain"
)

const shutdownTimeout = 10 * time.Second

// Handlers collects the resource handlers the router mounts.
type Handlers struct {
	Auth         *api.AuthHandler
	Airlines     *api.AirlineHandler
	Airports     *api.AirportHandler
	Flights      *api.FlightHandler
	Planes       *api.PlaneHandler
	Reservations *api.ReservationHandler
	Users        *api.UserHandler
	Statistics   *api.StatisticsHandler
}

type Server struct {
	http *http.Server
	log  zerolog.Logger
}

func NewServer(cfg config.HTTPConfig, authMW *api.AuthMiddleware, handlers Handlers, log zerolog.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery(), api.RequestLogger(log), api.CORS(cfg.FrontendOrigin))

	group := router.Group("/api")
	manager := api.RequireLevel(domain.LevelFlightManager)
	admin := api.RequireLevel(domain.LevelAdmin)

	handlers.Auth.Register(group)
	handlers.Airlines.Register(group, authMW, manager)
	handlers.Airports.Register(group)
	handlers.Flights.Register(group, authMW, manager)
	handlers.Planes.Register(group, authMW, manager)
	handlers.Reservations.Register(group, authMW)
	handlers.Users.Register(group, authMW, admin)
	handlers.Statistics.Register(group, authMW)

	if cfg.SwaggerDir != "" {
		router.StaticFile("/swagger/openapi.json", filepath.Join(cfg.SwaggerDir, "openapi.json"))
		router.GET("/docs/*any", gin.WrapH(httpSwagger.Handler(
			httpSwagger.URL("/swagger/openapi.json"),
		)))
	}

	return &Server{
		http: &http.Server{
			Addr:              cfg.Address,
			Handler:           router,
			ReadHeaderTimeout: 5 * time.Second,
		},
		log: log.With().Str("component", "http").Logger(),
	}
}

// Run serves until the context is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.http.Addr).Msg("http server listening")
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info().Msg("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.http.Shutdown(shutdownCtx)
}
