package http

import (
	"net/http"

	"github.com/mauv0809/shuttle-draw/internal/config"
	"github.com/mauv0809/shuttle-draw/internal/matchmaking"
	"github.com/mauv0809/shuttle-draw/internal/metrics"
	"github.com/mauv0809/shuttle-draw/internal/notifier"
	"github.com/mauv0809/shuttle-draw/internal/processor"
	"github.com/mauv0809/shuttle-draw/internal/pubsub"
)

type Server struct {
	Draw           matchmaking.DrawService
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Cfg            config.Config
	Notifier       notifier.Notifier
	Processor      *processor.Processor
	Router         *http.ServeMux
	pubsub         pubsub.PubSubClient
}
