package wire

// Socket.IO message names shared by the agent and the relay.
const (
	// MsgEvent carries one event Envelope in either direction.
	MsgEvent = "event"
	// MsgJoin subscribes the connection to a session. The payload is a
	// SubscribeCommand; the ack is a SessionAck.
	MsgJoin = "session:join"
	// MsgLeave unsubscribes the connection from its session.
	MsgLeave = "session:leave"
)

// Command is a session control message sent to the relay.
type Command interface {
	// Kind returns the wire discriminator for the command.
	Kind() string

	isCommand()
}

// SubscribeCommand subscribes the caller to a session, requesting replay
// of every event after Tick.
type SubscribeCommand struct {
	// Repo is the repository name.
	Repo string `json:"repo"`
	// Branch is the branch name.
	Branch string `json:"branch"`
	// Tick is the caller's last-known position in the event history.
	Tick uint64 `json:"tick"`
}

func (SubscribeCommand) isCommand() {}

// Kind implements Command.
func (SubscribeCommand) Kind() string { return "subscribe" }

// UnsubscribeCommand unsubscribes the caller from its current session.
type UnsubscribeCommand struct{}

func (UnsubscribeCommand) isCommand() {}

// Kind implements Command.
func (UnsubscribeCommand) Kind() string { return "unsubscribe" }

// SessionAck is the ack payload for MsgJoin.
type SessionAck struct {
	// Result is "success" or "error".
	Result string `json:"result"`
	// Tick is the last stored tick for the session on success.
	Tick uint64 `json:"tick,omitempty"`
	// Message is an optional error annotation.
	Message string `json:"message,omitempty"`
}
