// Package metrics объявляет метрики Prometheus сервисов Jam.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// GateDecisions считает решения Session Gate по маршрутам.
	GateDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "jam",
		Name:      "session_gate_decisions_total",
		Help:      "Session gate routing decisions.",
	}, []string{"route"})

	// UsernameConflicts считает отказы при резервировании занятого имени.
	UsernameConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "jam",
		Name:      "username_conflicts_total",
		Help:      "Username reservations rejected because the name is taken.",
	})

	// CommentsCreated считает добавленные комментарии.
	CommentsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "jam",
		Name:      "comments_created_total",
		Help:      "Comments appended to song-of-the-day feeds.",
	})

	// SongsSelected считает выборы песни дня.
	SongsSelected = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "jam",
		Name:      "songs_selected_total",
		Help:      "Song of the day selections.",
	})

	// MailsPublished считает сообщения, отправленные в очередь писем.
	MailsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "jam",
		Name:      "mails_published_total",
		Help:      "Mail messages published to the broker.",
	}, []string{"kind"})

	// HTTPRequestDuration - длительность HTTP-запросов.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "jam",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)
