package ws

// Message types exchanged over the live channel. Mutation events are
// produced server-side and share the envelope's Type field.
const (
	TypeJoinRun  = "join_run"
	TypeLeaveRun = "leave_run"
	TypeJoined   = "joined"
	TypeLeft     = "left"
	TypeError    = "error"
)

// Error codes.
const (
	ErrorCodeInvalidMessage = "INVALID_MESSAGE"
	ErrorCodeRunNotFound    = "RUN_NOT_FOUND"
)

// BaseMessage carries the fields every inbound message shares.
type BaseMessage struct {
	Type string `json:"type"`
}

// JoinRunMessage subscribes the connection to one run's channel.
// Either a run id or a spectator id identifies the run; a spectator id
// grants read-only viewing.
type JoinRunMessage struct {
	BaseMessage
	RunID       string `json:"run_id,omitempty"`
	SpectatorID string `json:"spectator_id,omitempty"`
}

// JoinedMessage acknowledges a successful subscription.
type JoinedMessage struct {
	BaseMessage
	RunID string `json:"run_id"`
}

// LeftMessage acknowledges leaving the current channel.
type LeftMessage struct {
	BaseMessage
}

// ErrorMessage reports a protocol-level failure to one connection.
type ErrorMessage struct {
	BaseMessage
	Code    string `json:"code"`
	Message string `json:"message"`
}
