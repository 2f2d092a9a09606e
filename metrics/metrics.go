// Package metrics exposes Prometheus instrumentation for the feed watcher.
package metrics

import (
	"encoding/json"
	"log"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Collector struct {
	reg *prometheus.Registry

	Refreshes     prometheus.Counter
	RefreshErrors prometheus.Counter

	Trips         prometheus.Gauge
	TripsUnderway prometheus.Gauge
	TripsDelayed  prometheus.Gauge

	FetchDuration prometheus.Histogram
	FeedTimestamp prometheus.Gauge

	latestEpoch atomic.Int64
}

func NewCollector() *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		reg: reg,
		Refreshes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "feed_refreshes_total",
			Help: "Total feed refreshes attempted.",
		}),
		RefreshErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "feed_refresh_errors_total",
			Help: "Total feed refreshes that failed to fetch or decode.",
		}),
		Trips: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "feed_trips",
			Help: "Trips in the latest decoded feed.",
		}),
		TripsUnderway: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "feed_trips_underway",
			Help: "Trips underway in the latest decoded feed.",
		}),
		TripsDelayed: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "feed_trips_delayed",
			Help: "Trips with a delay alert in the latest decoded feed.",
		}),
		FetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "feed_fetch_duration_seconds",
			Help:    "Duration of feed fetch and decode.",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		}),
		FeedTimestamp: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "feed_generated_timestamp_seconds",
			Help: "Generation time of the latest decoded feed as a Unix epoch.",
		}),
	}

	reg.MustRegister(
		c.Refreshes, c.RefreshErrors,
		c.Trips, c.TripsUnderway, c.TripsDelayed,
		c.FetchDuration, c.FeedTimestamp,
	)

	return c
}

// RecordFeed updates the per-feed gauges after a successful refresh.
func (c *Collector) RecordFeed(generated time.Time, trips, underway, delayed int) {
	c.Trips.Set(float64(trips))
	c.TripsUnderway.Set(float64(underway))
	c.TripsDelayed.Set(float64(delayed))
	c.FeedTimestamp.Set(float64(generated.Unix()))
	c.latestEpoch.Store(generated.Unix())
}

// LatestFeedEpoch returns the generation time of the last recorded feed.
func (c *Collector) LatestFeedEpoch() int64 { return c.latestEpoch.Load() }

func (c *Collector) Handler() http.Handler { return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{}) }

type healthResponse struct {
	Status          string `json:"status"`
	LatestFeedEpoch int64  `json:"latest_feed_epoch"`
}

func (c *Collector) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	resp := healthResponse{
		Status:          "ok",
		LatestFeedEpoch: c.latestEpoch.Load(),
	}
	_ = json.NewEncoder(w).Encode(resp)
}

// Serve starts an HTTP server exposing /metrics and /healthz on the given
// address.
func (c *Collector) Serve(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())
	mux.HandleFunc("/healthz", c.handleHealth)
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("metrics server error: %v", err)
		}
	}()
	log.Printf("metrics listening on %s", addr)
	return srv
}
