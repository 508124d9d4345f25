package handlers

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/club-ladder/internal/processor"
	"github.com/mauv0809/club-ladder/internal/pubsub"
)

// ChangesHandler receives change messages pushed by Pub/Sub and reconciles
// the named collection. A non-2xx answer makes Pub/Sub redeliver.
func ChangesHandler(processor *processor.Processor, pubsubClient pubsub.PubSubClient) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		envelope, rawData, err := pubsub.DecodePush(r.Body)
		if err != nil {
			log.Error("Failed to decode push message", "error", err)
			http.Error(w, "Invalid push message", http.StatusBadRequest)
			return
		}
		log.Debug("Received change message", "subscription", envelope.Subscription)

		var msg pubsub.ChangeMessage
		if err := pubsubClient.ProcessMessage(rawData, &msg); err != nil {
			http.Error(w, "Invalid message data", http.StatusBadRequest)
			return
		}
		if IsDryRunFromContext(r) {
			log.Info("[Dry Run] Would reconcile change", "topic", msg.Topic, "ids", msg.IDs)
			w.Write([]byte("OK"))
			return
		}
		if err := processor.HandleChange(r.Context(), msg); err != nil {
			log.Error("Failed to reconcile change", "error", err, "topic", msg.Topic)
			http.Error(w, "Failed to reconcile change", http.StatusInternalServerError)
			return
		}
		w.Write([]byte("OK"))
	}
}
