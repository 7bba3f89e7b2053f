package relay

import (
	"net/http"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/hotwinter/IDArl1ng/pkg/logger"
	"github.com/hotwinter/IDArl1ng/wire"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// FeedHub fans ingested events out to read-only websocket subscribers.
// Headless listeners (bots, audit loggers) use the feed instead of joining
// the session as a socket.io member.
type FeedHub struct {
	mu   sync.Mutex
	subs map[string]map[chan wire.Envelope]struct{} // "repo/branch" -> subscribers
}

// NewFeedHub returns an empty hub.
func NewFeedHub() *FeedHub {
	return &FeedHub{subs: make(map[string]map[chan wire.Envelope]struct{})}
}

func sessionKey(repo, branch string) string {
	return repo + "/" + branch
}

// Publish delivers an envelope to every subscriber of a session. Slow
// subscribers are skipped rather than blocked on; they can reconnect with
// a tick cursor and catch up from the log.
func (h *FeedHub) Publish(repo, branch string, env wire.Envelope) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs[sessionKey(repo, branch)] {
		select {
		case ch <- env:
		default:
			logger.Warnf("feed subscriber of %s/%s is lagging, dropping tick %d", repo, branch, env.Tick)
		}
	}
}

func (h *FeedHub) subscribe(repo, branch string) chan wire.Envelope {
	ch := make(chan wire.Envelope, 256)
	key := sessionKey(repo, branch)
	h.mu.Lock()
	if h.subs[key] == nil {
		h.subs[key] = make(map[chan wire.Envelope]struct{})
	}
	h.subs[key][ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

func (h *FeedHub) unsubscribe(repo, branch string, ch chan wire.Envelope) {
	key := sessionKey(repo, branch)
	h.mu.Lock()
	if set := h.subs[key]; set != nil {
		delete(set, ch)
		if len(set) == 0 {
			delete(h.subs, key)
		}
	}
	h.mu.Unlock()
}

// FeedHandler handles GET /v1/feed?repo=&branch=&tick=. The connection is
// upgraded, stored events after tick are replayed, and new events stream
// until the peer closes.
type FeedHandler struct {
	store *Store
	hub   *FeedHub
}

// NewFeedHandler returns the feed endpoint over store and hub.
func NewFeedHandler(store *Store, hub *FeedHub) *FeedHandler {
	return &FeedHandler{store: store, hub: hub}
}

// Serve handles one feed connection.
func (f *FeedHandler) Serve(c *gin.Context) {
	repo := c.Query("repo")
	branch := c.Query("branch")
	if repo == "" || branch == "" {
		c.JSON(http.StatusBadRequest, wire.ErrorResponse{Error: "repo and branch are required"})
		return
	}
	var after uint64
	if tickStr := c.Query("tick"); tickStr != "" {
		t, err := strconv.ParseUint(tickStr, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, wire.ErrorResponse{Error: "invalid tick"})
			return
		}
		after = t
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warnf("feed upgrade: %v", err)
		return
	}
	defer conn.Close()

	// Subscribe before replaying so nothing falls between the two.
	ch := f.hub.subscribe(repo, branch)
	defer f.hub.unsubscribe(repo, branch, ch)

	missed, err := f.store.EventsAfter(repo, branch, after)
	if err != nil {
		logger.Errorf("feed replay %s/%s: %v", repo, branch, err)
		return
	}
	cursor := after
	for _, env := range missed {
		if err := conn.WriteJSON(env); err != nil {
			return
		}
		cursor = env.Tick
	}

	// Drain reads so pings and the close handshake are processed.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	logger.Debugf("feed subscriber attached to %s/%s after tick %d", repo, branch, cursor)
	for {
		select {
		case env := <-ch:
			if env.Tick <= cursor {
				continue // already replayed from the log
			}
			if err := conn.WriteJSON(env); err != nil {
				return
			}
			cursor = env.Tick
		case <-done:
			return
		}
	}
}
