package transport

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"nhooyr.io/websocket"

	"github.com/iw2rmb/csvi/docsync"
	"github.com/iw2rmb/csvi/protocol"
)

const (
	intentReadLimit = 1 << 20
	gridReadLimit   = 64 << 20
	writeTimeout    = 10 * time.Second
)

// Server exposes a synchronizer to remote views. Every websocket connection
// is one attached view.
type Server struct {
	sync *docsync.Synchronizer
	log  *log.Logger
}

func NewServer(s *docsync.Synchronizer, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Server{sync: s, log: logger.With("component", "transport")}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		s.log.Warn("websocket accept failed", "remote", r.RemoteAddr, "err", err)
		return
	}
	conn.SetReadLimit(intentReadLimit)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	box := NewMailbox()
	id, detach := s.sync.Attach(box)
	defer detach()

	logger := s.log.With("view", id.String(), "remote", r.RemoteAddr)
	logger.Info("view attached")

	go func() {
		defer cancel()
		if err := writeUpdates(ctx, conn, box); err != nil && ctx.Err() == nil {
			logger.Debug("write loop ended", "err", err)
		}
	}()

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) != websocket.StatusNormalClosure && ctx.Err() == nil {
				logger.Debug("read loop ended", "err", err)
			}
			break
		}
		in, err := protocol.DecodeIntent(data)
		if err != nil {
			logger.Debug("dropping message", "err", err)
			continue
		}
		s.sync.Send(in)
	}

	_ = conn.Close(websocket.StatusNormalClosure, "")
	logger.Info("view detached")
}

func writeUpdates(ctx context.Context, conn *websocket.Conn, box *Mailbox) error {
	for {
		u, err := box.Next(ctx)
		if err != nil {
			return err
		}
		data, err := protocol.EncodeGridUpdate(u)
		if err != nil {
			return err
		}
		wctx, cancel := context.WithTimeout(ctx, writeTimeout)
		err = conn.Write(wctx, websocket.MessageText, data)
		cancel()
		if err != nil {
			return err
		}
	}
}

// ListenAndServe serves websocket views on addr until ctx is done. ready, if
// not nil, receives the bound address once listening.
func (s *Server) ListenAndServe(ctx context.Context, addr string, ready func(net.Addr)) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	srv := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	if ready != nil {
		ready(ln.Addr())
	}
	s.log.Info("listening", "addr", ln.Addr().String())

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
