// Package transport links a grid view to a synchronizer, either in the same
// process or over a websocket. Intents flow one way and grid updates the
// other; each direction keeps its order, and a slow view only ever sees the
// newest pending update.
package transport

import (
	"context"
	"sync"

	"github.com/iw2rmb/csvi/docsync"
	"github.com/iw2rmb/csvi/protocol"
)

// Mailbox holds at most one pending grid update. Put replaces whatever the
// reader has not taken yet and drops updates older than the newest it has
// accepted, so pushes that race each other cannot leave a stale grid behind.
type Mailbox struct {
	mu      sync.Mutex
	pending protocol.GridUpdate
	has     bool
	last    uint64
	seen    bool
	signal  chan struct{}
}

func NewMailbox() *Mailbox {
	return &Mailbox{signal: make(chan struct{}, 1)}
}

// Update implements docsync.View.
func (m *Mailbox) Update(u protocol.GridUpdate) { m.Put(u) }

// Put reports whether u was accepted. An update with the same version as
// the newest one is accepted again.
func (m *Mailbox) Put(u protocol.GridUpdate) bool {
	m.mu.Lock()
	if m.seen && u.Version < m.last {
		m.mu.Unlock()
		return false
	}
	m.pending = u
	m.has = true
	m.last = u.Version
	m.seen = true
	m.mu.Unlock()

	select {
	case m.signal <- struct{}{}:
	default:
	}
	return true
}

// Take returns the pending update without waiting.
func (m *Mailbox) Take() (protocol.GridUpdate, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.has {
		return protocol.GridUpdate{}, false
	}
	u := m.pending
	m.pending = protocol.GridUpdate{}
	m.has = false
	return u, true
}

// Next waits for an update or for ctx to be done.
func (m *Mailbox) Next(ctx context.Context) (protocol.GridUpdate, error) {
	for {
		if u, ok := m.Take(); ok {
			return u, nil
		}
		select {
		case <-ctx.Done():
			return protocol.GridUpdate{}, ctx.Err()
		case <-m.signal:
		}
	}
}

// Link is the view side of a connection to a synchronizer.
type Link interface {
	Send(protocol.Intent)
	Updates() *Mailbox
}

// Local links a view to a synchronizer in the same process.
type Local struct {
	sync   *docsync.Synchronizer
	box    *Mailbox
	detach func()
}

// NewLocal attaches a new view to s. The current grid is already waiting in
// Updates when NewLocal returns.
func NewLocal(s *docsync.Synchronizer) *Local {
	box := NewMailbox()
	_, detach := s.Attach(box)
	return &Local{sync: s, box: box, detach: detach}
}

func (l *Local) Send(in protocol.Intent) { l.sync.Send(in) }

func (l *Local) Updates() *Mailbox { return l.box }

// Close detaches the view.
func (l *Local) Close() error {
	l.detach()
	return nil
}
