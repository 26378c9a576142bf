package trips

import (
	"context"
	"errors"
	"log"
	"sync"
)

// ErrNoPrincipal is reported by an Identity when nobody is signed in.
var ErrNoPrincipal = errors.New("trips: no authenticated principal")

// Identity resolves the principal that owns newly detected trips.
type Identity interface {
	CurrentPrincipal(ctx context.Context) (string, error)
}

// Inserter is the remote trip store as the gateway sees it.
type Inserter interface {
	Insert(ctx context.Context, userID string, trip DetectedTrip) (Record, error)
}

// QueueStorage is the durable local buffer for trips that could not be
// written remotely. Load must treat unreadable state as an empty queue.
type QueueStorage interface {
	Load(ctx context.Context) ([]DetectedTrip, error)
	Save(ctx context.Context, pending []DetectedTrip) error
}

// GatewayMetrics receives persistence outcome counts. Nil-safe via the
// gateway's checks.
type GatewayMetrics interface {
	TripStored()
	TripQueued()
	TripSynced()
}

// Gateway records detected trips, falling back to the pending queue when
// there is no principal or the remote write fails. A trip handed to Record
// is never lost and Record never reports an error to the caller.
type Gateway struct {
	identity Identity
	store    Inserter
	queue    QueueStorage
	metrics  GatewayMetrics

	mu     sync.Mutex // serializes all queue storage access
	syncMu sync.Mutex // held for the duration of one drain
}

func NewGateway(identity Identity, store Inserter, queue QueueStorage, m GatewayMetrics) *Gateway {
	return &Gateway{identity: identity, store: store, queue: queue, metrics: m}
}

// Record persists one trip, best effort.
func (g *Gateway) Record(ctx context.Context, trip DetectedTrip) {
	userID, err := g.identity.CurrentPrincipal(ctx)
	if err != nil {
		log.Printf("trip %s: no principal, queuing locally", trip.ID)
		g.enqueue(ctx, trip)
		return
	}

	if _, err := g.store.Insert(ctx, userID, trip); err != nil {
		log.Printf("trip %s: remote write failed, queuing locally: %v", trip.ID, err)
		g.enqueue(ctx, trip)
		return
	}
	if g.metrics != nil {
		g.metrics.TripStored()
	}
}

// SyncPending drains the queue in FIFO order, stopping at the first
// failed write so order is preserved for the next attempt. A call that
// overlaps an in-flight drain returns immediately.
func (g *Gateway) SyncPending(ctx context.Context) {
	if !g.syncMu.TryLock() {
		return
	}
	defer g.syncMu.Unlock()

	userID, err := g.identity.CurrentPrincipal(ctx)
	if err != nil {
		return
	}

	for {
		g.mu.Lock()
		pending, err := g.queue.Load(ctx)
		if err != nil || len(pending) == 0 {
			g.mu.Unlock()
			return
		}

		head := pending[0]
		if _, err := g.store.Insert(ctx, userID, head); err != nil {
			g.mu.Unlock()
			log.Printf("sync stopped, %d trips still pending: %v", len(pending), err)
			return
		}
		if err := g.queue.Save(ctx, pending[1:]); err != nil {
			g.mu.Unlock()
			log.Printf("sync: failed to shorten queue: %v", err)
			return
		}
		g.mu.Unlock()

		if g.metrics != nil {
			g.metrics.TripSynced()
		}
	}
}

func (g *Gateway) enqueue(ctx context.Context, trip DetectedTrip) {
	g.mu.Lock()
	defer g.mu.Unlock()

	pending, err := g.queue.Load(ctx)
	if err != nil {
		pending = nil
	}
	pending = append(pending, trip)
	if err := g.queue.Save(ctx, pending); err != nil {
		log.Printf("trip %s: local queue write failed: %v", trip.ID, err)
		return
	}
	if g.metrics != nil {
		g.metrics.TripQueued()
	}
}
