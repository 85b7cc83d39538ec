package processor

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/shuttle-draw/internal/pubsub"
)

// New creates a new Processor.
func New(notifier Notifier, pubsub pubsub.PubSubClient) *Processor {
	return &Processor{
		pubsub:    pubsub,
		notifier:  notifier,
		announced: make(map[roundKey]bool),
	}
}

// ProcessRoundEvent announces a committed round. Pub/Sub delivers at least
// once, so a round that was already announced is skipped.
func (p *Processor) ProcessRoundEvent(event *pubsub.RoundGeneratedEvent, dryRun bool) error {
	log.Info("Processing round event", "date", event.Date, "round", event.Round, "matches", len(event.Matches))
	if len(event.Matches) == 0 {
		log.Warn("Round event without matches, nothing to announce", "date", event.Date, "round", event.Round)
		return nil
	}

	key := roundKey{event.Date, event.Round}
	p.mu.Lock()
	if p.announced[key] {
		p.mu.Unlock()
		log.Info("Round already announced, skipping", "date", event.Date, "round", event.Round)
		return nil
	}
	p.mu.Unlock()

	if err := p.notifier.SendRoundNotification(event.Date, event.Round, event.Matches, dryRun); err != nil {
		log.Error("Failed to announce round", "error", err, "date", event.Date, "round", event.Round)
		return fmt.Errorf("failed to announce round %d: %w", event.Round, err)
	}

	if !dryRun {
		p.mu.Lock()
		p.announced[key] = true
		p.mu.Unlock()
	}
	log.Info("Announced round", "date", event.Date, "round", event.Round)
	return nil
}

// HandleMessage decodes a raw message for topic and dispatches it. It is the
// handler of the in-process publisher.
func (p *Processor) HandleMessage(topic pubsub.EventType, data []byte) error {
	switch topic {
	case pubsub.EventRoundGenerated:
		var event pubsub.RoundGeneratedEvent
		if err := p.pubsub.ProcessMessage(data, &event); err != nil {
			return fmt.Errorf("failed to decode %s event: %w", topic, err)
		}
		return p.ProcessRoundEvent(&event, false)
	default:
		log.Warn("Ignoring message for unknown topic", "topic", topic)
		return nil
	}
}
