package session

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/shuttle-draw/internal/draw"
	"github.com/mauv0809/shuttle-draw/internal/metrics"
)

// Autosaver writes sessions to a Store in the background. Only the latest
// session per date is kept while a save is outstanding.
type Autosaver struct {
	store   Store
	metrics metrics.Metrics
	timeout time.Duration

	mu      sync.Mutex
	pending map[string]draw.Session
	status  map[string]SaveStatus
	closed  bool

	signal    chan struct{}
	quit      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// NewAutosaver starts the background worker. Call Close to flush and stop it.
func NewAutosaver(store Store, m metrics.Metrics, timeout time.Duration) *Autosaver {
	a := &Autosaver{
		store:   store,
		metrics: m,
		timeout: timeout,
		pending: make(map[string]draw.Session),
		status:  make(map[string]SaveStatus),
		signal:  make(chan struct{}, 1),
		quit:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	go a.run()
	return a
}

// Notify queues s for saving and returns immediately.
func (a *Autosaver) Notify(s draw.Session) {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		log.Warn("Autosaver closed, dropping session save", "date", s.Date)
		return
	}
	a.pending[s.Date] = s.Clone()
	st := a.status[s.Date]
	st.Pending = true
	a.status[s.Date] = st
	a.mu.Unlock()

	select {
	case a.signal <- struct{}{}:
	default:
	}
}

// Status reports the last save outcome for date.
func (a *Autosaver) Status(date string) SaveStatus {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.status[date]
}

// Close stops accepting sessions, saves whatever is still pending and waits
// for the worker to exit or ctx to expire.
func (a *Autosaver) Close(ctx context.Context) error {
	a.closeOnce.Do(func() {
		a.mu.Lock()
		a.closed = true
		a.mu.Unlock()
		close(a.quit)
	})
	select {
	case <-a.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (a *Autosaver) run() {
	defer close(a.done)
	for {
		select {
		case <-a.signal:
			a.flush()
		case <-a.quit:
			a.flush()
			return
		}
	}
}

func (a *Autosaver) flush() {
	a.mu.Lock()
	batch := a.pending
	a.pending = make(map[string]draw.Session)
	a.mu.Unlock()

	for date, s := range batch {
		start := time.Now()
		ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
		err := a.store.SaveSession(ctx, s)
		cancel()
		a.metrics.ObserveSaveDuration(time.Since(start).Seconds())

		a.mu.Lock()
		st := a.status[date]
		_, newer := a.pending[date]
		if err != nil {
			log.Error("Failed to save session", "date", date, "error", err)
			a.metrics.IncSaveFailures()
			st.LastError = err.Error()
			// Keep it for the next mutation unless a newer session already replaced it.
			if !newer {
				a.pending[date] = s
			}
			st.Pending = true
		} else {
			st.LastSavedAt = time.Now()
			st.LastError = ""
			st.Pending = newer
		}
		a.status[date] = st
		a.mu.Unlock()
	}
}
