package websocket

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionPing Action = "ping"
)

// RequestEnvelope is used to peek at the action before full parsing.
type RequestEnvelope struct {
	Action Action `json:"action"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventSessions Event = "sessions"
	EventPong     Event = "pong"
)

// SessionView is one live session as pushed over the stream.
type SessionView struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Status   string `json:"status"`
	Joinable bool   `json:"joinable"`
	JoinURL  string `json:"join_url,omitempty"`
	StartsIn string `json:"starts_in,omitempty"`
}

// SessionsResponse carries the full resolved session list. It is sent on
// connect and whenever any session changes status.
type SessionsResponse struct {
	Event    Event         `json:"event"`
	Sessions []SessionView `json:"sessions"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
