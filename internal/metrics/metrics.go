package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector bundles the engine's counters behind one registry. It
// satisfies both the engine's and the gateway's metrics interfaces.
type Collector struct {
	reg *prometheus.Registry

	GeoSamples    prometheus.Counter
	MotionSamples prometheus.Counter

	TripsDetected *prometheus.CounterVec // mode label
	TripsStored   prometheus.Counter
	TripsQueued   prometheus.Counter
	TripsSynced   prometheus.Counter

	ActiveSessions prometheus.Gauge
}

func NewCollector() *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		reg: reg,
		GeoSamples: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "routediary_geo_samples_total",
			Help: "Total position samples ingested.",
		}),
		MotionSamples: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "routediary_motion_samples_total",
			Help: "Total inertial samples ingested.",
		}),
		TripsDetected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "routediary_trips_detected_total",
			Help: "Total trips detected, by classified mode.",
		}, []string{"mode"}),
		TripsStored: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "routediary_trips_stored_total",
			Help: "Total trips written directly to the remote store.",
		}),
		TripsQueued: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "routediary_trips_queued_total",
			Help: "Total trips buffered in the local pending queue.",
		}),
		TripsSynced: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "routediary_trips_synced_total",
			Help: "Total pending trips flushed to the remote store.",
		}),
		ActiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "routediary_active_sessions",
			Help: "Number of per-user engine sessions held in memory.",
		}),
	}

	reg.MustRegister(
		c.GeoSamples, c.MotionSamples,
		c.TripsDetected, c.TripsStored, c.TripsQueued, c.TripsSynced,
		c.ActiveSessions,
	)
	return c
}

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{})
}

// Engine metrics hooks.

func (c *Collector) GeoSampleSeen()    { c.GeoSamples.Inc() }
func (c *Collector) MotionSampleSeen() { c.MotionSamples.Inc() }
func (c *Collector) TripDetected(mode string) {
	c.TripsDetected.WithLabelValues(mode).Inc()
}

// Gateway metrics hooks.

func (c *Collector) TripStored() { c.TripsStored.Inc() }
func (c *Collector) TripQueued() { c.TripsQueued.Inc() }
func (c *Collector) TripSynced() { c.TripsSynced.Inc() }
