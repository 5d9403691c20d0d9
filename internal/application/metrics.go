package application

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	settlementsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "settlements_total",
			Help: "Settlement attempts by outcome",
		},
		[]string{"outcome"},
	)

	imagesGenerated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "images_generated_total",
			Help: "Images generated and charged",
		},
	)
)
