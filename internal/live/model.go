// Package live holds the one current library snapshot for the whole process.
package live

import (
	"sync"
	"sync/atomic"

	"github.com/DoyleJ11/library-dashboard/pkg/types"
	"go.uber.org/zap"
)

// Update is what observers receive: the snapshot and the version it was
// installed as. Version 0 is the empty snapshot the model starts with.
type Update struct {
	Version  int
	Snapshot types.Snapshot
}

// Model is written by a single refresher and read by any number of
// goroutines. Reads never block and always see one whole Update.
type Model struct {
	current atomic.Pointer[Update]

	mu        sync.Mutex // serialises Replace with subscriber bookkeeping
	observers map[string]chan Update
	closed    bool
	log       *zap.Logger
}

func New(log *zap.Logger) *Model {
	if log == nil {
		log = zap.NewNop()
	}
	m := &Model{
		observers: make(map[string]chan Update),
		log:       log,
	}
	m.current.Store(&Update{Version: 0, Snapshot: types.EmptySnapshot()})
	return m
}

// Replace installs s wholesale and notifies observers. s must not be modified
// afterwards. Returns the new version.
func (m *Model) Replace(s types.Snapshot) int {
	if s.Library == nil {
		s = types.EmptySnapshot()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	next := &Update{Version: m.current.Load().Version + 1, Snapshot: s}
	m.current.Store(next)
	m.broadcast(*next)
	return next.Version
}

func (m *Model) Current() types.Snapshot {
	return m.current.Load().Snapshot
}

func (m *Model) Latest() Update {
	return *m.current.Load()
}

// Subscribe registers outbox and sends it the current value straight away.
// The model closes outbox on Unsubscribe, on Close, or when the subscriber
// falls behind.
func (m *Model) Subscribe(id string, outbox chan Update) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		close(outbox)
		return
	}
	if prev, ok := m.observers[id]; ok && prev != outbox {
		close(prev)
	}
	m.observers[id] = outbox

	select {
	case outbox <- *m.current.Load():
	default:
		// Unbuffered or already full: nothing useful we can do for it.
		m.drop(id)
	}
}

func (m *Model) Unsubscribe(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if ch, ok := m.observers[id]; ok {
		close(ch)
		delete(m.observers, id)
	}
}

func (m *Model) Subscribers() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.observers)
}

// Close releases every observer. Replace keeps working afterwards; it just
// has nobody to tell.
func (m *Model) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id := range m.observers {
		close(m.observers[id])
		delete(m.observers, id)
	}
	m.closed = true
}

func (m *Model) broadcast(u Update) {
	for id, ch := range m.observers {
		select {
		case ch <- u:
			// ok
		default:
			// Subscriber is slow/full - drop it.
			m.drop(id)
		}
	}
}

func (m *Model) drop(id string) {
	close(m.observers[id])
	delete(m.observers, id)
	m.log.Debug("dropped slow observer", zap.String("observer", id))
}
