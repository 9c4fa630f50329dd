package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ListingQueriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "eventmatch_listing_queries_total",
		Help: "Paginated listing reads by listing and outcome.",
	}, []string{"listing", "outcome"})

	ListingQueryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "eventmatch_listing_query_duration_seconds",
		Help:    "Time to read the count and the page of a listing.",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	}, []string{"listing"})

	LikeTogglesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "eventmatch_like_toggles_total",
		Help: "Event like toggles by resulting action.",
	}, []string{"action"})

	FriendshipTransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "eventmatch_friendship_transitions_total",
		Help: "Friendship state changes.",
	}, []string{"transition"})

	ImagesStoredTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "eventmatch_images_stored_total",
		Help: "Images resized and uploaded to the bucket, by owner kind.",
	}, []string{"owner"})
)
