package handlers

import (
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/shuttle-draw/internal/processor"
	"github.com/mauv0809/shuttle-draw/internal/pubsub"
)

// decodePushMessage unwraps the JSON envelope of a Pub/Sub push request and
// returns the raw MessagePack payload.
func decodePushMessage(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	bodyBytes, err := io.ReadAll(r.Body)
	if err != nil {
		log.Error("Failed to read request body", "error", err)
		http.Error(w, "Failed to read request body", http.StatusInternalServerError)
		return nil, false
	}
	log.Debug("Received pubsub message", "body", string(bodyBytes))

	var pubsubMsg struct {
		Subscription string `json:"subscription"`
		Message      struct {
			Data string `json:"data"`
		} `json:"message"`
	}

	if err := json.Unmarshal(bodyBytes, &pubsubMsg); err != nil {
		log.Error("Failed to unmarshal wrapper JSON", "error", err)
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return nil, false
	}

	rawData, err := base64.StdEncoding.DecodeString(pubsubMsg.Message.Data)
	if err != nil {
		log.Error("Failed to decode base64 data", "error", err)
		http.Error(w, "Invalid base64 data", http.StatusBadRequest)
		return nil, false
	}
	return rawData, true
}

func RoundGeneratedHandler(processor *processor.Processor, pubsubClient pubsub.PubSubClient) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rawData, ok := decodePushMessage(w, r)
		if !ok {
			return
		}
		event := pubsub.RoundGeneratedEvent{}
		if err := pubsubClient.ProcessMessage(rawData, &event); err != nil {
			http.Error(w, "Invalid message payload", http.StatusBadRequest)
			return
		}
		isDryRun := IsDryRunFromContext(r)
		if err := processor.ProcessRoundEvent(&event, isDryRun); err != nil {
			log.Error("Failed to process round event", "error", err)
			http.Error(w, "Failed to announce round", http.StatusInternalServerError)
			return
		}
		w.Write([]byte("OK"))
	}
}
