package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var lookups = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "cache_lookups_total",
		Help: "Cache lookups by cache name and result (hit, miss, error)",
	},
	[]string{"cache", "result"},
)

func observe(cache string, hit bool, err error) {
	switch {
	case err != nil:
		lookups.WithLabelValues(cache, "error").Inc()
	case hit:
		lookups.WithLabelValues(cache, "hit").Inc()
	default:
		lookups.WithLabelValues(cache, "miss").Inc()
	}
}
