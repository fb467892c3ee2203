package obs

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Domain metrics cover quote computation and booking lifecycle events.
var (
	domainOnce sync.Once

	quoteComputeTotal  *prometheus.CounterVec
	bookingsExpired    prometheus.Counter
	bookingsConfirmed  *prometheus.CounterVec
	catalogCacheEvents *prometheus.CounterVec
)

// MustRegisterDomainMetrics registers business-level collectors. Safe to call once
// at startup; subsequent calls are no-ops.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	domainOnce.Do(func() {
		quoteComputeTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quote_compute_total",
			Help:      "Total quote calculations grouped by pricing mode and result.",
		}, []string{"mode", "result"})
		bookingsExpired = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_expired_total",
			Help:      "Total booking drafts transitioned to expired.",
		})
		bookingsConfirmed = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_confirmed_total",
			Help:      "Total bookings confirmed grouped by pricing mode.",
		}, []string{"mode"})
		catalogCacheEvents = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_cache_events_total",
			Help:      "Catalog cache hits and misses.",
		}, []string{"event"})
		reg.MustRegister(quoteComputeTotal, bookingsExpired, bookingsConfirmed, catalogCacheEvents)
	})
}

// RecordQuoteCompute counts one quote calculation.
func RecordQuoteCompute(mode, result string) {
	if quoteComputeTotal == nil {
		return
	}
	quoteComputeTotal.WithLabelValues(mode, result).Inc()
}

// RecordBookingExpired counts expired booking drafts.
func RecordBookingExpired(n int64) {
	if bookingsExpired == nil || n <= 0 {
		return
	}
	bookingsExpired.Add(float64(n))
}

// RecordBookingConfirmed counts one confirmed booking.
func RecordBookingConfirmed(mode string) {
	if bookingsConfirmed == nil {
		return
	}
	bookingsConfirmed.WithLabelValues(mode).Inc()
}

// RecordCatalogCache counts a catalog cache hit or miss.
func RecordCatalogCache(event string) {
	if catalogCacheEvents == nil {
		return
	}
	catalogCacheEvents.WithLabelValues(event).Inc()
}
