package pubsub

import (
	"cloud.google.com/go/pubsub"
	"github.com/mauv0809/shuttle-draw/internal/draw"
)

type client struct {
	client   *pubsub.Client
	teardown func()
}

// localClient hands messages to an in-process handler instead of Google Pub/Sub.
type localClient struct {
	handler LocalHandler
}

// LocalHandler receives the encoded payload of a message sent through a local client.
type LocalHandler func(topic EventType, data []byte) error

// EventType represents the type of event/message sent via pubsub.
type EventType string

const (
	EventRoundGenerated EventType = "round-generated"
)

// RoundGeneratedEvent is published after a round has been committed.
type RoundGeneratedEvent struct {
	Date    string                `msgpack:"date"`
	Round   int                   `msgpack:"round"`
	Matches []draw.GeneratedMatch `msgpack:"matches"`
}
