package http

import (
	"net/http"

	"github.com/mauv0809/shuttle-draw/internal/config"
	"github.com/mauv0809/shuttle-draw/internal/http/handlers"
	"github.com/mauv0809/shuttle-draw/internal/matchmaking"
	"github.com/mauv0809/shuttle-draw/internal/metrics"
	"github.com/mauv0809/shuttle-draw/internal/notifier"
	"github.com/mauv0809/shuttle-draw/internal/processor"
	"github.com/mauv0809/shuttle-draw/internal/pubsub"
)

func NewServer(draw matchmaking.DrawService, metricsSvc metrics.Metrics, metricsHandler http.Handler, cfg config.Config, notifier notifier.Notifier, processor *processor.Processor, pubsub pubsub.PubSubClient) *Server {
	server := &Server{
		Draw:           draw,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		Notifier:       notifier,
		Processor:      processor,
		Router:         http.NewServeMux(),
		pubsub:         pubsub,
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	// e.g. Chain(s.MyHandler(), paramsMiddleware, authMiddleware)
	slackAuth := slackVerificationMiddleware(s.Cfg.Slack.SigningSecret)

	s.Router.Handle("GET /metrics", s.MetricsHandler)
	s.Router.Handle("GET /health", Chain(handlers.HealthCheckHandler(), paramsMiddleware))
	s.Router.Handle("GET /members", Chain(handlers.ListMembersHandler(s.Draw), paramsMiddleware))

	s.Router.Handle("GET /session", Chain(handlers.GetSessionHandler(s.Draw), paramsMiddleware))
	s.Router.Handle("POST /session/members", Chain(handlers.AddMemberHandler(s.Draw), paramsMiddleware))
	s.Router.Handle("POST /session/guests", Chain(handlers.AddGuestHandler(s.Draw), paramsMiddleware))
	s.Router.Handle("DELETE /session/attendees/{id}", Chain(handlers.RemoveAttendeeHandler(s.Draw), paramsMiddleware))
	s.Router.Handle("PUT /session/attendees/{id}/rank", Chain(handlers.SetRankHandler(s.Draw), paramsMiddleware))
	s.Router.Handle("POST /session/attendees/{id}/move", Chain(handlers.MoveRankHandler(s.Draw), paramsMiddleware))
	s.Router.Handle("PUT /session/attendees/{id}/late", Chain(handlers.SetLateHandler(s.Draw), paramsMiddleware))
	s.Router.Handle("DELETE /session/attendees/{id}/late", Chain(handlers.ClearLateHandler(s.Draw), paramsMiddleware))
	s.Router.Handle("PUT /session/courts", Chain(handlers.SetCourtsHandler(s.Draw), paramsMiddleware))
	s.Router.Handle("POST /session/rounds", Chain(handlers.GenerateRoundHandler(s.Draw), paramsMiddleware))
	s.Router.Handle("POST /session/reset", Chain(handlers.ResetHandler(s.Draw), paramsMiddleware))

	s.Router.Handle("POST /pubsub/round-generated", Chain(handlers.RoundGeneratedHandler(s.Processor, s.pubsub), paramsMiddleware))
	s.Router.Handle("POST /slack/command/draw", Chain(handlers.DrawCommandHandler(s.Draw, s.Notifier), paramsMiddleware, slackAuth))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
