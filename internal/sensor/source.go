package sensor

import (
	"context"
	"errors"
)

// ErrPermissionDenied is returned when a source's permission request is
// refused. For the geo source this aborts tracking; for the motion source
// the engine degrades to speed-only classification.
var ErrPermissionDenied = errors.New("sensor: permission denied")

// GeoSource delivers a stream of position samples. The sample channel stays
// open until ctx is cancelled; transient delivery problems arrive on the
// error channel without closing the stream.
type GeoSource interface {
	RequestPermission(ctx context.Context) error
	Watch(ctx context.Context, opts WatchOptions) (<-chan GeoSample, <-chan error, error)
}

// MotionSource delivers inertial samples at device-native rate.
type MotionSource interface {
	RequestPermission(ctx context.Context) error
	Subscribe(ctx context.Context) (<-chan MotionSample, error)
}
