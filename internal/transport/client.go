package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"
	"nhooyr.io/websocket"

	"github.com/iw2rmb/csvi/protocol"
)

const outboxSize = 64

// Client is a remote view's link to a Server.
type Client struct {
	conn *websocket.Conn
	log  *log.Logger
	box  *Mailbox

	outbox    chan protocol.Intent
	done      chan struct{}
	closeOnce sync.Once
}

// Dial connects to a Server at url (ws:// or wss://). Call Run to start
// exchanging messages.
func Dial(ctx context.Context, url string, logger *log.Logger) (*Client, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	conn.SetReadLimit(gridReadLimit)
	return &Client{
		conn:   conn,
		log:    logger.With("component", "transport", "url", url),
		box:    NewMailbox(),
		outbox: make(chan protocol.Intent, outboxSize),
		done:   make(chan struct{}),
	}, nil
}

func (c *Client) Updates() *Mailbox { return c.box }

// Send queues an intent for the server. Intents sent after Close are
// dropped.
func (c *Client) Send(in protocol.Intent) {
	select {
	case <-c.done:
		return
	default:
	}
	select {
	case c.outbox <- in:
	case <-c.done:
	}
}

// Run moves messages until ctx is done, the server closes the connection or
// Close is called. A normal closure returns nil.
func (c *Client) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		select {
		case <-ctx.Done():
		case <-c.done:
			cancel()
		}
	}()
	go c.writeIntents(ctx)

	for {
		_, data, err := c.conn.Read(ctx)
		if err != nil {
			select {
			case <-c.done:
				return nil
			default:
			}
			if websocket.CloseStatus(err) == websocket.StatusNormalClosure {
				return nil
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("read update: %w", err)
		}
		u, err := protocol.DecodeGridUpdate(data)
		if err != nil {
			c.log.Debug("dropping message", "err", err)
			continue
		}
		c.box.Put(u)
	}
}

func (c *Client) writeIntents(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case in := <-c.outbox:
			data, err := protocol.EncodeIntent(in)
			if err != nil {
				c.log.Debug("dropping intent", "kind", in.Kind, "err", err)
				continue
			}
			wctx, cancel := context.WithTimeout(ctx, writeTimeout)
			err = c.conn.Write(wctx, websocket.MessageText, data)
			cancel()
			if err != nil {
				if !errors.Is(err, context.Canceled) {
					c.log.Debug("write intent failed", "err", err)
				}
				return
			}
		}
	}
}

// Close ends the connection with a normal closure.
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.done)
		err = c.conn.Close(websocket.StatusNormalClosure, "")
	})
	return err
}
