// Package network implements the dispatcher: a socket.io client that
// forwards events and session commands to a relay and delivers inbound
// events back to the agent. Sends are fire-and-forget; back-pressure and
// retries are the transport's problem, never the capture core's.
package network

import (
	"encoding/json"
	"fmt"
	"sync"

	socketio "github.com/zishang520/socket.io/clients/socket/v3"
	"github.com/zishang520/socket.io/v3/pkg/types"

	"github.com/hotwinter/IDArl1ng/internal/session"
	"github.com/hotwinter/IDArl1ng/pkg/logger"
	"github.com/hotwinter/IDArl1ng/wire"
)

// decodeAny re-marshals a decoded socket.io value into a typed struct.
func decodeAny(input any, out any) error {
	raw, err := json.Marshal(input)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

// EventHandler receives one inbound event with the tick the relay stored
// it under.
type EventHandler func(ev wire.Event, tick uint64)

// Client is the socket.io dispatcher. It stamps outgoing events with the
// next tick, persists the stamp through the session manager, and feeds
// connection notifications back into it.
type Client struct {
	session *session.Manager
	onEvent EventHandler

	mu        sync.RWMutex
	socket    *socketio.Socket
	host      string
	port      int
	connected bool
}

// NewClient returns a disconnected client. onEvent may be nil when the
// caller has no use for inbound events.
func NewClient(sess *session.Manager, onEvent EventHandler) *Client {
	return &Client{session: sess, onEvent: onEvent}
}

// Connect establishes a socket.io connection to the relay at host:port.
func (c *Client) Connect(host string, port int) error {
	opts := socketio.DefaultOptions()
	opts.SetPath("/socket.io/")
	opts.SetTransports(types.NewSet(socketio.Polling, socketio.WebSocket))

	url := fmt.Sprintf("http://%s:%d", host, port)
	logger.Infof("connecting to relay %s", url)

	sock, err := socketio.Connect(url, opts)
	if err != nil {
		return fmt.Errorf("connect to %s: %w", url, err)
	}

	c.mu.Lock()
	c.socket = sock
	c.host = host
	c.port = port
	c.mu.Unlock()

	sock.On(types.EventName("connect"), func(args ...any) {
		c.mu.Lock()
		c.connected = true
		c.mu.Unlock()
		logger.Infof("relay connected (id %s)", sock.Id())
		c.session.Connected()
	})

	sock.On(types.EventName("disconnect"), func(args ...any) {
		c.mu.Lock()
		c.connected = false
		c.mu.Unlock()
		reason := ""
		if len(args) > 0 {
			if r, ok := args[0].(string); ok {
				reason = r
			}
		}
		logger.Warnf("relay disconnected: %s", reason)
	})

	sock.On(types.EventName("connect_error"), func(args ...any) {
		if len(args) > 0 {
			logger.Warnf("relay connection error: %v", args[0])
		}
	})

	sock.On(types.EventName(wire.MsgEvent), func(args ...any) {
		if len(args) == 0 {
			return
		}
		c.handleInbound(args[0])
	})

	return nil
}

func (c *Client) handleInbound(payload any) {
	env, err := wire.ParseEnvelope(payload)
	if err != nil {
		logger.Warnf("inbound event: %v", err)
		return
	}
	ev, err := env.Event()
	if err != nil {
		logger.Warnf("inbound event: %v", err)
		return
	}

	// Track the relay's position so a reconnect resumes past this event.
	if env.Tick > c.session.Tick() {
		if err := c.session.SetTick(env.Tick); err != nil {
			logger.Warnf("persist tick %d: %v", env.Tick, err)
		}
	}
	logger.Tracef("inbound %s at tick %d", ev.Kind(), env.Tick)
	if c.onEvent != nil {
		c.onEvent(ev, env.Tick)
	}
}

// SendEvent stamps ev with the next tick and emits it. Disconnected sends
// and stamping failures are logged, never surfaced: once the mutation has
// happened locally the capture core has done its part.
func (c *Client) SendEvent(ev wire.Event) {
	c.mu.RLock()
	sock, connected := c.socket, c.connected
	c.mu.RUnlock()

	if sock == nil || !connected {
		logger.Debugf("dropping %s event: not connected", ev.Kind())
		return
	}

	tick := c.session.Tick() + 1
	if err := c.session.SetTick(tick); err != nil {
		logger.Warnf("persist tick %d: %v", tick, err)
	}

	env, err := wire.NewEnvelope(ev, tick)
	if err != nil {
		logger.Errorf("send event: %v", err)
		return
	}
	sock.Emit(wire.MsgEvent, env)
}

// SendCommand maps session commands onto their socket.io messages.
func (c *Client) SendCommand(cmd wire.Command) {
	c.mu.RLock()
	sock, connected := c.socket, c.connected
	c.mu.RUnlock()

	if sock == nil || !connected {
		logger.Debugf("dropping %s command: not connected", cmd.Kind())
		return
	}

	switch cmd := cmd.(type) {
	case wire.SubscribeCommand:
		sock.Emit(wire.MsgJoin, cmd, func(args []any, err error) {
			if err != nil {
				logger.Warnf("join ack: %v", err)
				return
			}
			var ack wire.SessionAck
			if len(args) > 0 {
				if e := decodeAny(args[0], &ack); e != nil {
					logger.Warnf("join ack decode: %v", e)
					return
				}
			}
			logger.Debugf("joined %s/%s, relay at tick %d", cmd.Repo, cmd.Branch, ack.Tick)
		})
	case wire.UnsubscribeCommand:
		sock.Emit(wire.MsgLeave)
	default:
		logger.Warnf("unknown command kind %q", cmd.Kind())
	}
}

// Connected reports whether the socket is currently connected.
func (c *Client) Connected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.connected {
		return true
	}
	return c.socket != nil && c.socket.Connected()
}

// Endpoint returns the host and port of the last Connect call.
func (c *Client) Endpoint() (string, int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.host, c.port
}

// Close tears the connection down.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.socket != nil {
		c.socket.Disconnect()
		c.socket = nil
	}
	c.connected = false
}
