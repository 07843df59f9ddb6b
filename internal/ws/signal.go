package ws

import "encoding/json"

// Signaling event names. These are wire-level and shared with the browser
// clients; renaming any of them breaks call setup.
const (
	EventRegister     = "register"
	EventCallUser     = "call-user"
	EventIncomingCall = "incoming-call"
	EventAnswerCall   = "answer-call"
	EventCallAccepted = "call-accepted"
	EventEndCall      = "end-call"
	EventCallEnded    = "call-ended"
	EventICECandidate = "ice-candidate"
	EventUserOffline  = "user-offline"
)

// SignalMessage is the transient envelope exchanged over the signaling
// socket. Signal and Candidate are opaque blobs (session descriptions and
// connectivity candidates) that the server never inspects.
type SignalMessage struct {
	Type           string          `json:"type"`
	From           uint            `json:"from,omitempty"`
	To             uint            `json:"to,omitempty"`
	UserID         uint            `json:"userId,omitempty"`
	Signal         json.RawMessage `json:"signal,omitempty"`
	Candidate      json.RawMessage `json:"candidate,omitempty"`
	CallerName     string          `json:"callerName,omitempty"`
	ConsultationID uint            `json:"consultationId,omitempty"`
}
