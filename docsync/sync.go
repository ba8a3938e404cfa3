package docsync

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/iw2rmb/csvi/buffer"
	"github.com/iw2rmb/csvi/protocol"
)

// View receives grid updates. Update is called from the synchronizer loop
// (or from Attach) and must not block; the grid it receives is shared and
// must not be modified.
type View interface {
	Update(protocol.GridUpdate)
}

// ViewFunc adapts a function to View.
type ViewFunc func(protocol.GridUpdate)

func (f ViewFunc) Update(u protocol.GridUpdate) { f(u) }

type Options struct {
	// Logger receives intent failures at debug level. Nil discards.
	Logger *log.Logger
	// InboxSize bounds intents queued ahead of Run. Default 64.
	InboxSize int
}

// Synchronizer translates intents into document edits and pushes the derived
// grid to attached views after every document change.
type Synchronizer struct {
	doc *buffer.Buffer
	log *log.Logger

	inbox   chan protocol.Intent
	changed chan struct{}
	done    chan struct{}
	runOnce sync.Once

	mu    sync.Mutex
	views map[uuid.UUID]View
	order []uuid.UUID
}

func New(doc *buffer.Buffer, opts Options) *Synchronizer {
	if opts.InboxSize <= 0 {
		opts.InboxSize = 64
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Synchronizer{
		doc:     doc,
		log:     logger.With("component", "docsync"),
		inbox:   make(chan protocol.Intent, opts.InboxSize),
		changed: make(chan struct{}, 1),
		done:    make(chan struct{}),
		views:   make(map[uuid.UUID]View),
	}
}

// Document returns the synchronized buffer.
func (s *Synchronizer) Document() *buffer.Buffer { return s.doc }

// Grid returns the grid derived from the current document text.
func (s *Synchronizer) Grid() protocol.GridUpdate {
	text, version := s.doc.Snapshot()
	return protocol.GridUpdate{Data: Split(text, s.doc.EOL()), Version: version}
}

// Send queues an intent for Run. It blocks only while the inbox is full and
// drops the intent once Run has returned.
func (s *Synchronizer) Send(in protocol.Intent) {
	select {
	case s.inbox <- in:
	case <-s.done:
		s.log.Debug("intent dropped, synchronizer stopped", "intent", in.Kind)
	}
}

// Handle applies one intent to the document.
func (s *Synchronizer) Handle(in protocol.Intent) error {
	switch p := in.Payload.(type) {
	case protocol.UpdateCell:
		return s.UpdateCell(p.Row, p.Column, p.Value)
	case protocol.AddColumn:
		return s.InsertColumn(p.Column, p.IsBefore)
	case protocol.DeleteColumn:
		return s.DeleteColumn(p.Column)
	case protocol.AddRow:
		return s.AddRow(p.Row, p.IsBefore)
	case protocol.DeleteRow:
		return s.DeleteRow(p.Row)
	default:
		return fmt.Errorf("intent %s with payload %T: %w", in.Kind, in.Payload, protocol.ErrMalformed)
	}
}

// Run consumes intents and document changes until ctx is done. Changes that
// arrive while a push is pending are folded into one push of the newest
// text. Run may be called once.
func (s *Synchronizer) Run(ctx context.Context) error {
	started := false
	s.runOnce.Do(func() { started = true })
	if !started {
		return fmt.Errorf("docsync: Run called twice")
	}
	defer close(s.done)

	cancel := s.doc.Subscribe(func(buffer.Change) { s.markChanged() })
	defer cancel()
	// Catch up with changes made before the subscription.
	s.markChanged()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case in := <-s.inbox:
			if err := s.Handle(in); err != nil {
				s.log.Debug("intent failed", "intent", in.Kind, "err", err)
			}
		case <-s.changed:
			s.push()
		}
	}
}

func (s *Synchronizer) markChanged() {
	select {
	case s.changed <- struct{}{}:
	default:
	}
}

func (s *Synchronizer) push() {
	u := s.Grid()
	for _, v := range s.snapshotViews() {
		v.Update(u)
	}
}

// Attach registers v and immediately sends it the current grid. The
// returned func detaches it.
func (s *Synchronizer) Attach(v View) (uuid.UUID, func()) {
	id := uuid.New()

	s.mu.Lock()
	s.views[id] = v
	s.order = append(s.order, id)
	s.mu.Unlock()

	s.log.Debug("view attached", "view", id)
	v.Update(s.Grid())

	var once sync.Once
	return id, func() {
		once.Do(func() { s.detach(id) })
	}
}

func (s *Synchronizer) detach(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.views, id)
	for i, vid := range s.order {
		if vid == id {
			s.order = append(s.order[:i:i], s.order[i+1:]...)
			break
		}
	}
	s.log.Debug("view detached", "view", id)
}

// Views returns the number of attached views.
func (s *Synchronizer) Views() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.views)
}

func (s *Synchronizer) snapshotViews() []View {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]View, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.views[id])
	}
	return out
}
