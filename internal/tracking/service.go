package tracking

import (
	"context"
	"errors"

	"route-diary/internal/engine"
	"route-diary/internal/sensor"
)

// ErrNotTracking is returned for samples pushed outside a session.
var ErrNotTracking = errors.New("tracking: no active session")

// Service maps authenticated users onto their engine sessions.
type Service struct {
	manager *engine.Manager
}

func NewService(manager *engine.Manager) *Service {
	return &Service{manager: manager}
}

// Start begins tracking for the user, creating their session on first
// use. A start while already tracking is a no-op.
func (s *Service) Start(ctx context.Context, userID string) error {
	return s.manager.Get(userID).Engine.StartTracking(ctx)
}

// Stop ends the user's session if one exists. Any trip in progress is
// discarded, matching the device behavior of switching tracking off.
func (s *Service) Stop(userID string) {
	if sess, ok := s.manager.Peek(userID); ok {
		sess.Engine.StopTracking()
	}
}

// Sync flushes the user's pending trip queue.
func (s *Service) Sync(ctx context.Context, userID string) {
	s.manager.Get(userID).Engine.SyncPending(ctx)
}

// Tracking reports session state without creating a session.
func (s *Service) Tracking(userID string) bool {
	sess, ok := s.manager.Peek(userID)
	return ok && sess.Engine.Tracking()
}

// PushGeo relays one position sample into the user's geo feed.
func (s *Service) PushGeo(userID string, p sensor.GeoSample) error {
	sess, ok := s.manager.Peek(userID)
	if !ok || !sess.Engine.Tracking() {
		return ErrNotTracking
	}
	sess.Geo.Push(p)
	return nil
}

// PushGeoError relays a transient location-provider failure. It is
// reported and logged but never ends a trip.
func (s *Service) PushGeoError(userID string, err error) error {
	sess, ok := s.manager.Peek(userID)
	if !ok || !sess.Engine.Tracking() {
		return ErrNotTracking
	}
	sess.Geo.PushError(err)
	return nil
}

// PushMotion relays a batch of inertial samples.
func (s *Service) PushMotion(userID string, samples []sensor.MotionSample) error {
	sess, ok := s.manager.Peek(userID)
	if !ok || !sess.Engine.Tracking() {
		return ErrNotTracking
	}
	for _, m := range samples {
		sess.Motion.Push(m)
	}
	return nil
}
