package server

import (
	"context"

	"route-diary/internal/auth"
	"route-diary/internal/config"
	"route-diary/internal/db"
	"route-diary/internal/engine"
	"route-diary/internal/metrics"
	"route-diary/internal/place"
	"route-diary/internal/publisher"
	"route-diary/internal/queue"
	"route-diary/internal/sensor"
	"route-diary/internal/stream"
	"route-diary/internal/tracking"
	"route-diary/internal/trips"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type Server struct {
	App       *fiber.App
	Cfg       config.Config
	DB        *pgxpool.Pool
	Redis     *redis.Client
	Stream    *stream.Hub
	Metrics   *metrics.Collector
	Manager   *engine.Manager
	Publisher *publisher.NATSPublisher
}

func NewServer(cfg config.Config, db *pgxpool.Pool, redisClient *redis.Client, pub *publisher.NATSPublisher) *Server {
	app := fiber.New()
	app.Use(recover.New())
	app.Use(logger.New())

	s := &Server{
		App:       app,
		Cfg:       cfg,
		DB:        db,
		Redis:     redisClient,
		Stream:    stream.NewHub(redisClient),
		Metrics:   metrics.NewCollector(),
		Publisher: pub,
	}
	s.Manager = engine.NewManager(s.buildSession)

	registerRoutes(s)
	return s
}

// buildSession assembles one user's detection pipeline: feeds for their
// device samples, the engine, and a gateway persisting through postgres
// with a redis-backed pending queue for failed inserts.
func (s *Server) buildSession(userID string) *engine.Session {
	geo := sensor.NewGeoFeed(true)
	mot := sensor.NewMotionFeed(true)

	holder := auth.NewPrincipalHolder(userID)
	gateway := trips.NewGateway(holder, trips.NewStore(s.querier()), queue.NewRedisStorage(s.Redis, userID), s.Metrics)

	opts := s.engineOptions()
	if s.DB != nil {
		places := place.NewService(s.querier())
		opts.NamePlace = func(lat, lng float64) string {
			name, err := places.NearestName(context.Background(), userID, lat, lng)
			if err != nil {
				return ""
			}
			return name
		}
	}

	eng := engine.New(geo, mot, gateway, s.Metrics, opts)
	eng.OnPositionUpdate(func(sample sensor.GeoSample) {
		s.Stream.Broadcast(userID, stream.PositionEvent(sample))
	})
	eng.OnTripDetected(func(trip trips.DetectedTrip) {
		s.Stream.Broadcast(userID, stream.TripEvent(trip))
		s.Publisher.PublishTrip(userID, trip)
	})

	s.Metrics.ActiveSessions.Inc()
	return &engine.Session{UserID: userID, Engine: eng, Geo: geo, Motion: mot}
}

// querier avoids wrapping a nil pool in a non-nil interface: without
// Postgres the trip store must see a nil Querier and fail writes with
// ErrStoreUnavailable so trips land in the pending queue.
func (s *Server) querier() db.Querier {
	if s.DB == nil {
		return nil
	}
	return s.DB
}

func (s *Server) engineOptions() engine.Options {
	opts := engine.DefaultOptions()
	if s.Cfg.TripStartDistanceM > 0 {
		opts.Thresholds.StartDistanceM = s.Cfg.TripStartDistanceM
	}
	if s.Cfg.TripEndDistanceM > 0 {
		opts.Thresholds.EndDistanceM = s.Cfg.TripEndDistanceM
	}
	if s.Cfg.TripEndDwellSec > 0 {
		opts.Thresholds.EndDwell = s.Cfg.TripEndDwell()
	}
	if s.Cfg.MotionWindowSize > 0 {
		opts.WindowSize = s.Cfg.MotionWindowSize
	}
	if s.Cfg.MotionMinSamples > 0 {
		opts.MinMotionSamples = s.Cfg.MotionMinSamples
	}
	return opts
}

func registerRoutes(s *Server) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	s.App.Get("/metrics", adaptor.HTTPHandler(s.Metrics.Handler()))

	authSvc := auth.NewService(s.Cfg.JWTSecret, s.querier())
	requireUser := auth.RequireUser(authSvc)

	auth.RegisterRoutes(s.App.Group("/auth"), authSvc)
	trips.RegisterRoutes(s.App.Group("/trips"), trips.NewStore(s.querier()), requireUser)
	place.RegisterRoutes(s.App.Group("/places"), place.NewService(s.querier()), requireUser)
	tracking.RegisterRoutes(s.App.Group("/tracking"), tracking.NewService(s.Manager), requireUser)
	stream.RegisterRoutes(s.App.Group("/stream"), s.Stream)
}
