package processor

import (
	"sync"

	"github.com/mauv0809/shuttle-draw/internal/pubsub"
)

// Processor consumes draw events and turns them into announcements.
type Processor struct {
	pubsub   pubsub.PubSubClient
	notifier Notifier

	mu        sync.Mutex
	announced map[roundKey]bool
}

type roundKey struct {
	date  string
	round int
}
