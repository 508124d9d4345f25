package http

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/club-ladder/internal/config"
	"github.com/mauv0809/club-ladder/internal/http/handlers"
	"github.com/mauv0809/club-ladder/internal/inngest"
	"github.com/mauv0809/club-ladder/internal/notifier"
	"github.com/mauv0809/club-ladder/internal/playtomic"
	"github.com/mauv0809/club-ladder/internal/processor"
	"github.com/mauv0809/club-ladder/internal/pubsub"
)

func NewServer(metricsHandler http.Handler, cfg config.Config, playtomicClient playtomic.PlaytomicClient, notifier notifier.Notifier, processor *processor.Processor, pubsub pubsub.PubSubClient, inngestClient inngest.InngestClient) *Server {
	server := &Server{
		MetricsHandler:  metricsHandler,
		Cfg:             cfg,
		PlaytomicClient: playtomicClient,
		Notifier:        notifier,
		Processor:       processor,
		InngestClient:   inngestClient,
		Router:          http.NewServeMux(),
		pubsub:          pubsub,
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	// e.g. Chain(handler, paramsMiddleware, slackVerificationMiddleware(secret))
	p := s.Processor
	s.Router.Handle("GET /metrics", s.MetricsHandler)
	s.Router.Handle("GET /health", Chain(handlers.HealthCheckHandler(), paramsMiddleware))

	s.Router.Handle("GET /api/players", Chain(handlers.ListPlayersHandler(p), paramsMiddleware))
	s.Router.Handle("GET /api/players/{id}/challengeable", Chain(handlers.ChallengeablePlayersHandler(p), paramsMiddleware))
	s.Router.Handle("GET /api/challenges/active", Chain(handlers.ActiveChallengesHandler(p), paramsMiddleware))
	s.Router.Handle("POST /api/challenges", Chain(handlers.InitiateChallengeHandler(p), paramsMiddleware))
	s.Router.Handle("POST /api/challenges/{id}/respond", Chain(handlers.RespondToChallengeHandler(p), paramsMiddleware))
	s.Router.Handle("POST /api/challenges/{id}/complete", Chain(handlers.CompleteMatchHandler(p), paramsMiddleware))
	s.Router.Handle("GET /api/matches/recent", Chain(handlers.RecentMatchesHandler(p), paramsMiddleware))
	s.Router.Handle("GET /api/notifications", Chain(handlers.NotificationsHandler(p), paramsMiddleware))

	s.Router.Handle("GET /api/session", Chain(handlers.GetSessionHandler(p), paramsMiddleware))
	s.Router.Handle("POST /api/session/login", Chain(handlers.LoginHandler(p), paramsMiddleware))
	s.Router.Handle("POST /api/session/authenticate", Chain(handlers.AuthenticateHandler(p), paramsMiddleware))
	s.Router.Handle("POST /api/session/cancel", Chain(handlers.CancelHandler(p), paramsMiddleware))
	s.Router.Handle("POST /api/session/logout", Chain(handlers.LogoutHandler(p), paramsMiddleware))

	s.Router.Handle("POST /pubsub/changes", Chain(handlers.ChangesHandler(p, s.pubsub), paramsMiddleware))
	s.Router.Handle("POST /tasks/sweep", Chain(handlers.SweepHandler(p), paramsMiddleware))
	s.Router.Handle("POST /tasks/refresh-ranks", Chain(handlers.RefreshRanksHandler(p, s.Cfg, s.PlaytomicClient), paramsMiddleware))

	if secret := s.Cfg.Slack.SigningSecret; secret != "" {
		s.Router.Handle("POST /slack/command/ladder", Chain(handlers.LadderCommandHandler(p, s.Notifier), paramsMiddleware, slackVerificationMiddleware(secret)))
	} else {
		log.Warn("SLACK_SIGNING_SECRET not set, slash commands are disabled")
	}
	if s.InngestClient != nil {
		s.Router.Handle("/api/inngest", s.InngestClient.Serve())
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
