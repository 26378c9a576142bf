package engine

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"route-diary/internal/classify"
	"route-diary/internal/motion"
	"route-diary/internal/segment"
	"route-diary/internal/sensor"
	"route-diary/internal/trips"

	"github.com/google/uuid"
)

// ErrPermissionDenied means the location permission was refused; tracking
// cannot start without it. A refused motion permission only degrades
// classification and never fails StartTracking.
var ErrPermissionDenied = errors.New("engine: location permission denied")

// Persistence is the gateway a detected trip is handed to.
type Persistence interface {
	Record(ctx context.Context, trip trips.DetectedTrip)
	SyncPending(ctx context.Context)
}

// Metrics receives engine-level counts. All methods must be cheap.
type Metrics interface {
	GeoSampleSeen()
	MotionSampleSeen()
	TripDetected(mode string)
}

type Options struct {
	Thresholds       segment.Thresholds
	WindowSize       int
	MinMotionSamples int
	Watch            sensor.WatchOptions

	// NamePlace resolves a label for a coordinate, "" when unknown. Trip
	// endpoints fall back to formatted coordinates.
	NamePlace func(lat, lng float64) string
}

func DefaultOptions() Options {
	return Options{
		Thresholds:       segment.DefaultThresholds(),
		WindowSize:       motion.DefaultWindowSize,
		MinMotionSamples: motion.DefaultMinSamples,
		Watch:            sensor.DefaultWatchOptions(),
	}
}

// Engine wires the sample sources into the segmentation machine and hands
// finished trips to classification and persistence. One Engine owns one
// tracking session; all sample handling runs on a single goroutine, so the
// machine and window never see concurrent access.
type Engine struct {
	geoSrc    sensor.GeoSource
	motionSrc sensor.MotionSource
	persist   Persistence
	metrics   Metrics
	opts      Options

	window  *motion.Window
	machine *segment.Machine

	mu       sync.Mutex
	tracking bool
	cancel   context.CancelFunc
	done     chan struct{}
	onTrip   func(trips.DetectedTrip)
	onPos    func(sensor.GeoSample)
}

func New(geoSrc sensor.GeoSource, motionSrc sensor.MotionSource, persist Persistence, m Metrics, opts Options) *Engine {
	// Each field falls back on its own so a caller setting only some of
	// the options keeps the rest. NewMachine normalizes zero thresholds.
	if opts.WindowSize <= 0 {
		opts.WindowSize = motion.DefaultWindowSize
	}
	if opts.MinMotionSamples <= 0 {
		opts.MinMotionSamples = motion.DefaultMinSamples
	}
	if opts.Watch.Timeout <= 0 {
		opts.Watch = sensor.DefaultWatchOptions()
	}
	return &Engine{
		geoSrc:    geoSrc,
		motionSrc: motionSrc,
		persist:   persist,
		metrics:   m,
		opts:      opts,
		window:    motion.NewWindow(opts.WindowSize),
		machine:   segment.NewMachine(opts.Thresholds),
	}
}

// StartTracking acquires permissions, subscribes both sources and starts
// the run loop. Calling it while already tracking is a no-op.
func (e *Engine) StartTracking(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.tracking {
		return nil
	}

	if err := e.geoSrc.RequestPermission(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrPermissionDenied, err)
	}

	runCtx, cancel := context.WithCancel(context.Background())
	geoCh, errCh, err := e.geoSrc.Watch(runCtx, e.opts.Watch)
	if err != nil {
		cancel()
		return fmt.Errorf("%w: %v", ErrPermissionDenied, err)
	}

	var motionCh <-chan sensor.MotionSample
	if err := e.motionSrc.RequestPermission(ctx); err != nil {
		log.Printf("motion permission unavailable, falling back to speed-only classification: %v", err)
	} else if ch, err := e.motionSrc.Subscribe(runCtx); err != nil {
		log.Printf("motion subscribe failed, falling back to speed-only classification: %v", err)
	} else {
		motionCh = ch
	}

	done := make(chan struct{})
	e.cancel = cancel
	e.done = done
	e.tracking = true
	go e.run(runCtx, done, geoCh, motionCh, errCh)
	return nil
}

// StopTracking halts sample delivery, discards any trip in progress and
// clears the motion window. Idempotent. An in-flight persistence call for
// an already-closed trip is left to finish on its own.
func (e *Engine) StopTracking() {
	e.mu.Lock()
	if !e.tracking {
		e.mu.Unlock()
		return
	}
	e.tracking = false
	cancel, done := e.cancel, e.done
	e.cancel, e.done = nil, nil
	e.mu.Unlock()

	cancel()
	<-done

	e.machine.Reset()
	e.window.Clear()
}

// Tracking reports whether a session is active.
func (e *Engine) Tracking() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tracking
}

// OnTripDetected registers the trip callback. A second registration
// replaces the first.
func (e *Engine) OnTripDetected(cb func(trips.DetectedTrip)) {
	e.mu.Lock()
	e.onTrip = cb
	e.mu.Unlock()
}

// OnPositionUpdate registers the position callback, replacing any
// previous one.
func (e *Engine) OnPositionUpdate(cb func(sensor.GeoSample)) {
	e.mu.Lock()
	e.onPos = cb
	e.mu.Unlock()
}

// SyncPending flushes the pending trip queue through the gateway.
func (e *Engine) SyncPending(ctx context.Context) {
	e.persist.SyncPending(ctx)
}

func (e *Engine) run(ctx context.Context, done chan struct{}, geoCh <-chan sensor.GeoSample, motionCh <-chan sensor.MotionSample, errCh <-chan error) {
	defer close(done)
	for {
		select {
		case <-ctx.Done():
			return
		case s := <-geoCh:
			e.handleGeo(s)
		case m := <-motionCh: // nil without motion permission, blocks forever
			e.window.Append(m)
			if e.metrics != nil {
				e.metrics.MotionSampleSeen()
			}
		case err := <-errCh:
			// Transient by contract: a lost fix or timeout never closes
			// an open draft, only the dwell rule does.
			log.Printf("location source error: %v", err)
		}
	}
}

func (e *Engine) handleGeo(s sensor.GeoSample) {
	if e.metrics != nil {
		e.metrics.GeoSampleSeen()
	}

	res := e.machine.Advance(s)

	e.mu.Lock()
	onPos := e.onPos
	e.mu.Unlock()
	if onPos != nil {
		onPos(s)
	}

	if res == nil {
		return
	}

	feats := e.window.Extract(e.opts.MinMotionSamples)
	mode := classify.Classify(res.DistanceKm*1000, res.EndTime.Sub(res.StartTime), feats)

	origin := trips.PlaceAt(res.Origin.Lat, res.Origin.Lng)
	destination := trips.PlaceAt(res.Destination.Lat, res.Destination.Lng)
	if e.opts.NamePlace != nil {
		if n := e.opts.NamePlace(origin.Lat, origin.Lng); n != "" {
			origin.Name = n
		}
		if n := e.opts.NamePlace(destination.Lat, destination.Lng); n != "" {
			destination.Name = n
		}
	}

	trip := trips.DetectedTrip{
		ID:          uuid.NewString(),
		Origin:      origin,
		Destination: destination,
		StartTime:   res.StartTime,
		EndTime:     res.EndTime,
		DistanceKm:  res.DistanceKm,
		Mode:        mode,
		Path:        res.Path,
	}

	if e.metrics != nil {
		e.metrics.TripDetected(string(mode))
	}

	// Fire and forget: persistence may outlive the session and must never
	// block or fail sample handling.
	go e.persist.Record(context.Background(), trip)

	e.mu.Lock()
	onTrip := e.onTrip
	e.mu.Unlock()
	if onTrip != nil {
		onTrip(trip)
	}
}
