package ws

import (
	"encoding/json"
	"log"
)

// MissedCallNotifier pushes an out-of-band alert when a call-user event
// targets a user with no live connection, so the callee's device can still
// ring. Implemented by the notification service; nil disables the push.
type MissedCallNotifier interface {
	NotifyMissedCall(calleeID, callerID uint, callerName string, consultationID uint)
}

// Relay routes signaling events between connected clients. It is stateless:
// every message is resolved against the registry and forwarded verbatim,
// with the sender's identity injected from the connection the event arrived
// on; the client-supplied "from" is never trusted. No retries: the
// transport is an already-open ordered channel, so an absent registration
// is the only failure mode and it surfaces as a user-offline event back to
// the sender.
type Relay struct {
	registry Registry
	notifier MissedCallNotifier
}

func NewRelay(registry Registry, notifier MissedCallNotifier) *Relay {
	return &Relay{registry: registry, notifier: notifier}
}

// HandleMessage parses one inbound frame and routes it. Malformed frames
// are dropped.
func (r *Relay) HandleMessage(sender *Client, raw []byte) {
	var msg SignalMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		log.Printf("[signal] bad frame from user %d: %v", sender.UserID, err)
		return
	}
	r.Route(sender, msg)
}

// Route dispatches a single signaling event.
func (r *Relay) Route(sender *Client, msg SignalMessage) {
	switch msg.Type {
	case EventRegister:
		// Identity comes from the authenticated connection; the userId
		// field in the frame is ignored.
		r.registry.Register(sender.UserID, sender)
	case EventCallUser:
		target, ok := r.registry.Resolve(msg.To)
		if !ok {
			r.miss(sender, msg.To)
			if r.notifier != nil {
				r.notifier.NotifyMissedCall(msg.To, sender.UserID, msg.CallerName, msg.ConsultationID)
			}
			return
		}
		target.Deliver(SignalMessage{
			Type:           EventIncomingCall,
			From:           sender.UserID,
			Signal:         msg.Signal,
			CallerName:     msg.CallerName,
			ConsultationID: msg.ConsultationID,
		})
	case EventAnswerCall:
		target, ok := r.registry.Resolve(msg.To)
		if !ok {
			r.miss(sender, msg.To)
			return
		}
		target.Deliver(SignalMessage{
			Type:   EventCallAccepted,
			From:   sender.UserID,
			Signal: msg.Signal,
		})
	case EventICECandidate:
		target, ok := r.registry.Resolve(msg.To)
		if !ok {
			r.miss(sender, msg.To)
			return
		}
		target.Deliver(SignalMessage{
			Type:      EventICECandidate,
			From:      sender.UserID,
			Candidate: msg.Candidate,
		})
	case EventEndCall:
		// Advisory only: ending the consultation record is a separate,
		// explicit call to the lifecycle API.
		target, ok := r.registry.Resolve(msg.To)
		if !ok {
			r.miss(sender, msg.To)
			return
		}
		target.Deliver(SignalMessage{
			Type: EventCallEnded,
			From: sender.UserID,
		})
	default:
		log.Printf("[signal] unknown event %q from user %d", msg.Type, sender.UserID)
	}
}

// miss tells the sender the target is unreachable. This is a normal,
// expected outcome, not an error: the caller UI shows "user offline"
// instead of ringing forever.
func (r *Relay) miss(sender *Client, targetID uint) {
	sender.Deliver(SignalMessage{
		Type:   EventUserOffline,
		UserID: targetID,
	})
}
