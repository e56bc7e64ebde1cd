package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RemoteFetchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bookshelf_remote_fetch_total",
		Help: "Page fetches against the remote books API by outcome",
	}, []string{"outcome"})

	RemoteFetchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "bookshelf_remote_fetch_duration_seconds",
		Help:    "Duration of page fetches against the remote books API",
		Buckets: prometheus.DefBuckets,
	})

	PageCacheTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bookshelf_page_cache_total",
		Help: "Page cache lookups by result",
	}, []string{"result"})

	CommandsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bookshelf_commands_total",
		Help: "Dispatched session commands by command and outcome",
	}, []string{"command", "outcome"})

	SessionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "bookshelf_sessions_active",
		Help: "Estimated number of live browsing sessions",
	})
)

const (
	OutcomeOK        = "ok"
	OutcomeBadStatus = "bad_status"
	OutcomeMalformed = "malformed"
	OutcomeError     = "error"
)
