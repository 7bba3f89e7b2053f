package relay

import (
	"encoding/json"
	"sync"

	"github.com/gin-gonic/gin"
	socket "github.com/zishang520/socket.io/servers/socket/v3"
	sockettypes "github.com/zishang520/socket.io/v3/pkg/types"

	"github.com/hotwinter/IDArl1ng/pkg/logger"
	"github.com/hotwinter/IDArl1ng/wire"
)

// member records which session a socket has joined.
type member struct {
	repo   string
	branch string
	socket *socket.Socket
}

// SocketServer is the live-session endpoint. Joined sockets form one room
// per (repo, branch); events from one member are logged and fanned out to
// the others.
type SocketServer struct {
	store  *Store
	feed   *FeedHub
	server *socket.Server

	mu      sync.Mutex
	members map[string]*member // socket id -> membership
}

// NewSocketServer creates the socket.io server over store, mirroring
// ingested events into feed.
func NewSocketServer(store *Store, feed *FeedHub) *SocketServer {
	opts := socket.DefaultServerOptions()
	opts.SetCors(&sockettypes.Cors{Origin: "*", Credentials: false})
	opts.SetPath("/socket.io/")

	s := &SocketServer{
		store:   store,
		feed:    feed,
		server:  socket.NewServer(nil, opts),
		members: make(map[string]*member),
	}

	s.server.On("connection", func(clients ...any) {
		client := clients[0].(*socket.Socket)
		s.handleConnection(client)
	})

	return s
}

func (s *SocketServer) handleConnection(client *socket.Socket) {
	socketID := string(client.Id())
	logger.Debugf("socket %s connected", socketID)

	client.On(wire.MsgJoin, func(data ...any) {
		raw, ack := firstWithAck(data)

		var cmd wire.SubscribeCommand
		if err := decodeAny(raw, &cmd); err != nil || cmd.Repo == "" || cmd.Branch == "" {
			logger.Warnf("socket %s: bad join payload: %v", socketID, err)
			ackWith(ack, wire.SessionAck{Result: "error", Message: "bad join payload"})
			return
		}

		last, err := s.store.LastTick(cmd.Repo, cmd.Branch)
		if err != nil {
			logger.Errorf("socket %s: join %s/%s: %v", socketID, cmd.Repo, cmd.Branch, err)
			ackWith(ack, wire.SessionAck{Result: "error", Message: "session lookup failed"})
			return
		}

		s.mu.Lock()
		s.members[socketID] = &member{repo: cmd.Repo, branch: cmd.Branch, socket: client}
		s.mu.Unlock()

		logger.Infof("socket %s joined %s/%s at tick %d (relay at %d)",
			socketID, cmd.Repo, cmd.Branch, cmd.Tick, last)
		ackWith(ack, wire.SessionAck{Result: "success", Tick: last})

		// Replay what the joiner missed, oldest first, as ordinary events.
		missed, err := s.store.EventsAfter(cmd.Repo, cmd.Branch, cmd.Tick)
		if err != nil {
			logger.Errorf("socket %s: replay %s/%s: %v", socketID, cmd.Repo, cmd.Branch, err)
			return
		}
		for _, env := range missed {
			client.Emit(wire.MsgEvent, env)
		}
	})

	client.On(wire.MsgLeave, func(data ...any) {
		s.mu.Lock()
		delete(s.members, socketID)
		s.mu.Unlock()
		logger.Debugf("socket %s left its session", socketID)
	})

	client.On(wire.MsgEvent, func(data ...any) {
		if len(data) == 0 {
			return
		}
		s.handleEvent(socketID, data[0])
	})

	client.On("disconnect", func(data ...any) {
		s.mu.Lock()
		delete(s.members, socketID)
		s.mu.Unlock()
		logger.Debugf("socket %s disconnected", socketID)
	})
}

func (s *SocketServer) handleEvent(socketID string, payload any) {
	s.mu.Lock()
	sender, ok := s.members[socketID]
	s.mu.Unlock()
	if !ok {
		logger.Warnf("socket %s sent an event without joining a session", socketID)
		return
	}

	env, err := wire.ParseEnvelope(payload)
	if err != nil {
		logger.Warnf("socket %s: %v", socketID, err)
		return
	}

	stored, err := s.store.IngestEvent(sender.repo, sender.branch, env)
	if err != nil {
		logger.Errorf("socket %s: ingest %s: %v", socketID, env.T, err)
		return
	}
	if stored.Tick != env.Tick {
		logger.Debugf("socket %s was de-synchronized: tick %d bumped to %d",
			socketID, env.Tick, stored.Tick)
	}

	s.broadcast(sender.repo, sender.branch, socketID, stored)
	s.feed.Publish(sender.repo, sender.branch, stored)
}

// broadcast forwards an envelope to every other member of a session.
func (s *SocketServer) broadcast(repo, branch, skipSocketID string, env wire.Envelope) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, m := range s.members {
		if id == skipSocketID || m.repo != repo || m.branch != branch {
			continue
		}
		logger.Tracef("forwarding %s at tick %d to socket %s", env.T, env.Tick, id)
		m.socket.Emit(wire.MsgEvent, env)
	}
}

// Handler returns the gin handler serving the socket.io endpoint.
func (s *SocketServer) Handler() gin.HandlerFunc {
	return gin.WrapH(s.server.ServeHandler(nil))
}

// Close shuts the socket.io server down.
func (s *SocketServer) Close() {
	s.server.Close(nil)
}

// decodeAny re-marshals a decoded socket.io value into a typed struct.
func decodeAny(input any, out any) error {
	raw, err := json.Marshal(input)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

// firstWithAck splits handler args into the payload and a trailing ack
// callback, when one is present.
func firstWithAck(data []any) (any, func(...any)) {
	var ack func(...any)
	if len(data) == 0 {
		return nil, nil
	}
	if cb, ok := data[len(data)-1].(func(...any)); ok {
		ack = cb
		data = data[:len(data)-1]
	} else if cb, ok := data[len(data)-1].(socket.Ack); ok {
		ack = func(args ...any) {
			cb(args, nil)
		}
		data = data[:len(data)-1]
	}
	if len(data) == 0 {
		return nil, ack
	}
	return data[0], ack
}

func ackWith(ack func(...any), payload wire.SessionAck) {
	if ack != nil {
		ack(payload)
	}
}
