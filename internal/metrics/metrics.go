package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "devtracker"

// Slot query results.
const (
	SlotsComputed = "computed"
	SlotsCached   = "cached"
	SlotsEmpty    = "empty"
)

var (
	once sync.Once

	slotQueries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "slot_queries_total",
			Help:      "Count of slot queries by result.",
		},
		[]string{"result"},
	)

	slotComputation = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "slot_computation_seconds",
			Help:      "Time spent loading inputs and generating slots.",
			Buckets:   prometheus.DefBuckets,
		},
	)

	remindersSent = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reminders_sent_total",
			Help:      "Count of appointment reminders flagged as sent.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Count of HTTP requests by route, method and status.",
		},
		[]string{"route", "method", "status"},
	)
)

// Register registers collectors with the default registry (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(slotQueries, slotComputation, remindersSent, httpRequests)
	})
}

func Handler() http.Handler {
	return promhttp.Handler()
}

func IncSlotQuery(result string) {
	slotQueries.WithLabelValues(result).Inc()
}

func ObserveSlotComputation(d time.Duration) {
	slotComputation.Observe(d.Seconds())
}

func IncReminderSent() {
	remindersSent.Inc()
}

func IncHTTPRequest(route, method string, status int) {
	httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
}
