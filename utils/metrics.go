package utils

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// WhoisQueries counts single WHOIS round-trips by server and result.
	WhoisQueries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "whois_queries_total",
		Help: "WHOIS round-trips by server and result.",
	}, []string{"server", "result"})

	// WhoisQueryDuration observes the duration of single WHOIS round-trips.
	WhoisQueryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "whois_query_duration_seconds",
		Help:    "Duration of WHOIS round-trips.",
		Buckets: prometheus.DefBuckets,
	}, []string{"server"})

	// Lookups counts resolver lookups by adapter and result.
	Lookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "whois_lookups_total",
		Help: "Resolver lookups by adapter and result.",
	}, []string{"adapter", "result"})

	// Referrals counts referral hops that were followed.
	Referrals = promauto.NewCounter(prometheus.CounterOpts{
		Name: "whois_referrals_total",
		Help: "Referral hops followed by adapters.",
	})

	// CacheRequests counts cache lookups by backend and outcome.
	CacheRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "whois_cache_requests_total",
		Help: "Cache lookups by backend and outcome.",
	}, []string{"backend", "outcome"})
)
