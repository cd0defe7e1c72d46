// Package prometheus provides Prometheus instrumentation for photo fetches.
package prometheus

import (
	"context"
	"time"

	"github.com/fwojciec/fpx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "fpx"

// Status label value for successful operations. Failures use the error code.
const statusOK = "ok"

// Metrics holds the collectors shared by the instrumented services.
type Metrics struct {
	FetchTotal    *prometheus.CounterVec
	FetchDuration *prometheus.HistogramVec
	PhotosFetched *prometheus.CounterVec
	FindTotal     *prometheus.CounterVec
	FindDuration  prometheus.Histogram

	registry *prometheus.Registry
}

// NewMetrics creates the collectors and registers them with reg.
// Pass nil to use a fresh private registry.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)

	return &Metrics{
		FetchTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "page_fetch_total",
				Help:      "Total number of feed page fetches",
			},
			[]string{"feed", "status"},
		),
		FetchDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "page_fetch_duration_seconds",
				Help:      "Duration of feed page fetches in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"feed"},
		),
		PhotosFetched: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "photos_fetched_total",
				Help:      "Total number of photos received in feed pages",
			},
			[]string{"feed"},
		),
		FindTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "photo_find_total",
				Help:      "Total number of single photo lookups",
			},
			[]string{"status"},
		),
		FindDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "photo_find_duration_seconds",
				Help:      "Duration of single photo lookups in seconds",
				Buckets:   prometheus.DefBuckets,
			},
		),
		registry: reg,
	}
}

// WriteTextfile writes every registered metric to path in the text
// exposition format, for collection by a node exporter.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}

// Registry returns the registry the collectors are registered with.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func status(err error) string {
	if err == nil {
		return statusOK
	}
	return fpx.ErrorCode(err)
}

// Ensure the instrumented services implement their interfaces.
var (
	_ fpx.PhotoFetcher = (*PhotoFetcher)(nil)
	_ fpx.PhotoFinder  = (*PhotoFinder)(nil)
)

// PhotoFetcher records page fetch counts, durations and photo totals.
type PhotoFetcher struct {
	next    fpx.PhotoFetcher
	metrics *Metrics
}

// NewPhotoFetcher wraps next with instrumentation.
func NewPhotoFetcher(next fpx.PhotoFetcher, m *Metrics) *PhotoFetcher {
	return &PhotoFetcher{next: next, metrics: m}
}

// FetchPage delegates to the wrapped fetcher and records the outcome.
func (f *PhotoFetcher) FetchPage(ctx context.Context, feed string, page, pageSize int) (result *fpx.PhotoPage, err error) {
	defer func(begin time.Time) {
		f.metrics.FetchTotal.WithLabelValues(feed, status(err)).Inc()
		f.metrics.FetchDuration.WithLabelValues(feed).Observe(time.Since(begin).Seconds())
		if result != nil {
			f.metrics.PhotosFetched.WithLabelValues(feed).Add(float64(len(result.Photos)))
		}
	}(time.Now())
	return f.next.FetchPage(ctx, feed, page, pageSize)
}

// InvalidateFeed forwards to the wrapped fetcher when it keeps per-feed state.
func (f *PhotoFetcher) InvalidateFeed(ctx context.Context, feed string) error {
	if inv, ok := f.next.(fpx.FeedInvalidator); ok {
		return inv.InvalidateFeed(ctx, feed)
	}
	return nil
}

// PhotoFinder records single photo lookup counts and durations.
type PhotoFinder struct {
	next    fpx.PhotoFinder
	metrics *Metrics
}

// NewPhotoFinder wraps next with instrumentation.
func NewPhotoFinder(next fpx.PhotoFinder, m *Metrics) *PhotoFinder {
	return &PhotoFinder{next: next, metrics: m}
}

// FindPhotoByID delegates to the wrapped finder and records the outcome.
func (f *PhotoFinder) FindPhotoByID(ctx context.Context, id int64) (photo *fpx.Photo, err error) {
	defer func(begin time.Time) {
		f.metrics.FindTotal.WithLabelValues(status(err)).Inc()
		f.metrics.FindDuration.Observe(time.Since(begin).Seconds())
	}(time.Now())
	return f.next.FindPhotoByID(ctx, id)
}
