package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/clubhouse/internal/apperr"
	"github.com/mauv0809/clubhouse/internal/match"
	"github.com/mauv0809/clubhouse/internal/processor"
	"github.com/mauv0809/clubhouse/internal/pubsub"
)

// MatchEventsHandler receives lifecycle events from the Pub/Sub push
// subscription. A non-2xx answer makes Pub/Sub redeliver, so malformed
// messages are acknowledged and dropped while read failures are not.
func MatchEventsHandler(proc *processor.Processor, pubsubClient pubsub.PubSubClient) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bodyBytes, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
		if err != nil {
			log.Error("Failed to read request body", "error", err)
			http.Error(w, "Failed to read request body", http.StatusInternalServerError)
			return
		}
		log.Debug("Received match event", "body", string(bodyBytes))

		var envelope pubsub.PushEnvelope
		if err := json.Unmarshal(bodyBytes, &envelope); err != nil {
			log.Error("Failed to unmarshal push envelope", "error", err)
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}

		var evt match.LifecycleEvent
		if err := pubsubClient.ProcessMessage(envelope.Message.Data, &evt); err != nil {
			log.Error("Dropping undecodable match event", "message_id", envelope.Message.ID, "error", err)
			w.WriteHeader(http.StatusNoContent)
			return
		}
		if evt.Type == "" {
			evt.Type = envelope.Message.Attributes[pubsub.AttrEventType]
		}

		err = proc.HandleEvent(r.Context(), evt, IsDryRunFromContext(r))
		switch {
		case err == nil:
			w.Write([]byte("OK"))
		case errors.Is(err, apperr.ErrValidation), errors.Is(err, apperr.ErrNotFound):
			log.Warn("Dropping match event", "message_id", envelope.Message.ID, "type", evt.Type, "error", err)
			w.WriteHeader(http.StatusNoContent)
		default:
			log.Error("Failed to process match event", "message_id", envelope.Message.ID, "type", evt.Type, "error", err)
			http.Error(w, "Failed to process event", http.StatusInternalServerError)
		}
	}
}
