package sensor

import (
	"context"
	"sync"
)

// GeoFeed is a GeoSource fed externally, typically from an HTTP ingest
// endpoint relaying a device's location callbacks. Samples pushed while no
// watch is active are dropped.
type GeoFeed struct {
	mu      sync.Mutex
	granted bool
	samples chan GeoSample
	errs    chan error
}

func NewGeoFeed(granted bool) *GeoFeed {
	return &GeoFeed{granted: granted}
}

func (f *GeoFeed) SetPermission(granted bool) {
	f.mu.Lock()
	f.granted = granted
	f.mu.Unlock()
}

func (f *GeoFeed) RequestPermission(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.granted {
		return ErrPermissionDenied
	}
	return nil
}

func (f *GeoFeed) Watch(ctx context.Context, _ WatchOptions) (<-chan GeoSample, <-chan error, error) {
	if err := f.RequestPermission(ctx); err != nil {
		return nil, nil, err
	}

	f.mu.Lock()
	f.samples = make(chan GeoSample, 64)
	f.errs = make(chan error, 8)
	samples, errs := f.samples, f.errs
	f.mu.Unlock()

	go func() {
		<-ctx.Done()
		f.mu.Lock()
		if f.samples == samples {
			f.samples = nil
			f.errs = nil
		}
		f.mu.Unlock()
	}()

	return samples, errs, nil
}

// Push delivers one sample to the active watch, dropping it when no watch
// is active or the consumer is behind.
func (f *GeoFeed) Push(sample GeoSample) {
	f.mu.Lock()
	samples := f.samples
	f.mu.Unlock()
	if samples == nil {
		return
	}
	select {
	case samples <- sample:
	default:
	}
}

// PushError reports a transient provider error (timeout, fix unavailable).
func (f *GeoFeed) PushError(err error) {
	f.mu.Lock()
	errs := f.errs
	f.mu.Unlock()
	if errs == nil {
		return
	}
	select {
	case errs <- err:
	default:
	}
}

// MotionFeed is the inertial counterpart of GeoFeed.
type MotionFeed struct {
	mu      sync.Mutex
	granted bool
	samples chan MotionSample
}

func NewMotionFeed(granted bool) *MotionFeed {
	return &MotionFeed{granted: granted}
}

func (f *MotionFeed) SetPermission(granted bool) {
	f.mu.Lock()
	f.granted = granted
	f.mu.Unlock()
}

func (f *MotionFeed) RequestPermission(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.granted {
		return ErrPermissionDenied
	}
	return nil
}

func (f *MotionFeed) Subscribe(ctx context.Context) (<-chan MotionSample, error) {
	if err := f.RequestPermission(ctx); err != nil {
		return nil, err
	}

	f.mu.Lock()
	f.samples = make(chan MotionSample, 256)
	samples := f.samples
	f.mu.Unlock()

	go func() {
		<-ctx.Done()
		f.mu.Lock()
		if f.samples == samples {
			f.samples = nil
		}
		f.mu.Unlock()
	}()

	return samples, nil
}

func (f *MotionFeed) Push(sample MotionSample) {
	f.mu.Lock()
	samples := f.samples
	f.mu.Unlock()
	if samples == nil {
		return
	}
	select {
	case samples <- sample:
	default:
	}
}
