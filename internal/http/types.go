package http

import (
	"net/http"

	"github.com/mauv0809/club-ladder/internal/config"
	"github.com/mauv0809/club-ladder/internal/inngest"
	"github.com/mauv0809/club-ladder/internal/notifier"
	"github.com/mauv0809/club-ladder/internal/playtomic"
	"github.com/mauv0809/club-ladder/internal/processor"
	"github.com/mauv0809/club-ladder/internal/pubsub"
)

type Server struct {
	MetricsHandler  http.Handler
	Cfg             config.Config
	PlaytomicClient playtomic.PlaytomicClient
	Notifier        notifier.Notifier
	Processor       *processor.Processor
	// InngestClient is nil when Inngest is not configured.
	InngestClient inngest.InngestClient
	Router        *http.ServeMux
	pubsub        pubsub.PubSubClient
}
