// Package discovery implements the UDP beacon protocol agents use to
// locate relays on the local network. Clients broadcast a request
// datagram; every relay answers with its announce address.
package discovery

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/hotwinter/IDArl1ng/internal/storage"
	"github.com/hotwinter/IDArl1ng/pkg/logger"
)

// Port is the UDP port the beacon protocol runs on.
const Port = 31013

const (
	request     = "IDARL1NG_DISCOVERY_REQUEST"
	replyPrefix = "IDARL1NG_DISCOVERY_REPLY"
)

// formatReply builds the reply datagram for an announce address.
func formatReply(host string, port int) string {
	return fmt.Sprintf("%s;%s;%d", replyPrefix, host, port)
}

// parseReply extracts the announce address from a reply datagram. ok is
// false for anything malformed; stray datagrams on the port are expected
// and ignored.
func parseReply(msg string) (string, int, bool) {
	parts := strings.Split(strings.TrimSpace(msg), ";")
	if len(parts) != 3 || parts[0] != replyPrefix || parts[1] == "" {
		return "", 0, false
	}
	port, err := strconv.Atoi(parts[2])
	if err != nil || port <= 0 || port > 65535 {
		return "", 0, false
	}
	return parts[1], port, true
}

// Responder answers discovery requests with a fixed announce address.
type Responder struct {
	announceHost string
	announcePort int
	conn         *net.UDPConn
}

// NewResponder binds the beacon port and returns a responder advertising
// host:port.
func NewResponder(host string, port int) (*Responder, error) {
	conn, err := net.ListenUDP("udp", &net.UDPAddr{Port: Port})
	if err != nil {
		return nil, fmt.Errorf("bind discovery port %d: %w", Port, err)
	}
	return &Responder{announceHost: host, announcePort: port, conn: conn}, nil
}

// Run answers requests until the responder is closed. It owns the socket;
// run it on its own goroutine.
func (r *Responder) Run() {
	reply := []byte(formatReply(r.announceHost, r.announcePort))
	buf := make([]byte, 256)
	for {
		n, addr, err := r.conn.ReadFromUDP(buf)
		if err != nil {
			return // closed
		}
		if strings.TrimSpace(string(buf[:n])) != request {
			continue
		}
		logger.Debugf("discovery request from %s", addr)
		if _, err := r.conn.WriteToUDP(reply, addr); err != nil {
			logger.Warnf("discovery reply to %s: %v", addr, err)
		}
	}
}

// Close releases the beacon socket, stopping Run.
func (r *Responder) Close() error {
	return r.conn.Close()
}

// Discover broadcasts a request and collects replies for the given
// window, returning the deduplicated servers that answered.
func Discover(window time.Duration) ([]storage.Server, error) {
	conn, err := net.ListenUDP("udp", &net.UDPAddr{})
	if err != nil {
		return nil, fmt.Errorf("open discovery socket: %w", err)
	}
	defer conn.Close()

	bcast := &net.UDPAddr{IP: net.IPv4bcast, Port: Port}
	if _, err := conn.WriteToUDP([]byte(request), bcast); err != nil {
		return nil, fmt.Errorf("broadcast discovery request: %w", err)
	}

	if err := conn.SetReadDeadline(time.Now().Add(window)); err != nil {
		return nil, err
	}

	var servers []storage.Server
	seen := make(map[string]struct{})
	buf := make([]byte, 256)
	for {
		n, _, err := conn.ReadFromUDP(buf)
		if err != nil {
			break // deadline or closed: collection window over
		}
		host, port, ok := parseReply(string(buf[:n]))
		if !ok {
			continue
		}
		key := fmt.Sprintf("%s:%d", host, port)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		servers = append(servers, storage.Server{Host: host, Port: port})
	}
	return servers, nil
}
