package ws

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

type missedCall struct {
	calleeID       uint
	callerID       uint
	callerName     string
	consultationID uint
}

type fakeNotifier struct {
	calls []missedCall
}

func (f *fakeNotifier) NotifyMissedCall(calleeID, callerID uint, callerName string, consultationID uint) {
	f.calls = append(f.calls, missedCall{calleeID, callerID, callerName, consultationID})
}

func recv(t *testing.T, c *Client) SignalMessage {
	t.Helper()
	select {
	case raw := <-c.Send:
		var msg SignalMessage
		require.NoError(t, json.Unmarshal(raw, &msg))
		return msg
	default:
		t.Fatal("no message queued")
		return SignalMessage{}
	}
}

func requireEmpty(t *testing.T, c *Client) {
	t.Helper()
	select {
	case raw := <-c.Send:
		t.Fatalf("unexpected message: %s", raw)
	default:
	}
}

func TestRelayCallUserForwardsAsIncomingCall(t *testing.T) {
	reg := NewMemoryRegistry(nil)
	relay := NewRelay(reg, nil)
	caller := NewClient(1, "DOCTOR")
	callee := NewClient(2, "PATIENT")
	reg.Register(1, caller)
	reg.Register(2, callee)

	offer := json.RawMessage(`{"type":"offer","sdp":"v=0"}`)
	relay.Route(caller, SignalMessage{
		Type:           EventCallUser,
		To:             2,
		Signal:         offer,
		CallerName:     "Dr. Achieng",
		ConsultationID: 42,
	})

	msg := recv(t, callee)
	require.Equal(t, EventIncomingCall, msg.Type)
	require.Equal(t, uint(1), msg.From)
	require.JSONEq(t, string(offer), string(msg.Signal))
	require.Equal(t, "Dr. Achieng", msg.CallerName)
	require.Equal(t, uint(42), msg.ConsultationID)
	requireEmpty(t, caller)
}

func TestRelayInjectsSenderIdentity(t *testing.T) {
	reg := NewMemoryRegistry(nil)
	relay := NewRelay(reg, nil)
	caller := NewClient(1, "DOCTOR")
	callee := NewClient(2, "PATIENT")
	reg.Register(1, caller)
	reg.Register(2, callee)

	// A forged from field must be overwritten with the authenticated sender.
	relay.Route(caller, SignalMessage{
		Type: EventCallUser,
		From: 999,
		To:   2,
	})
	msg := recv(t, callee)
	require.Equal(t, uint(1), msg.From)
}

func TestRelayRegisterIgnoresFrameUserID(t *testing.T) {
	reg := NewMemoryRegistry(nil)
	relay := NewRelay(reg, nil)
	c := NewClient(5, "PATIENT")

	relay.HandleMessage(c, []byte(`{"type":"register","userId":999}`))
	require.True(t, reg.IsOnline(5))
	require.False(t, reg.IsOnline(999))
}

func TestRelayOfflineTargetNotifiesSenderOnly(t *testing.T) {
	reg := NewMemoryRegistry(nil)
	notifier := &fakeNotifier{}
	relay := NewRelay(reg, notifier)
	caller := NewClient(1, "PATIENT")
	reg.Register(1, caller)

	relay.Route(caller, SignalMessage{
		Type:           EventCallUser,
		To:             2,
		CallerName:     "Jane",
		ConsultationID: 7,
	})

	msg := recv(t, caller)
	require.Equal(t, EventUserOffline, msg.Type)
	require.Equal(t, uint(2), msg.UserID)

	require.Len(t, notifier.calls, 1)
	require.Equal(t, missedCall{calleeID: 2, callerID: 1, callerName: "Jane", consultationID: 7}, notifier.calls[0])
}

func TestRelayAnswerAndCandidateAndEnd(t *testing.T) {
	reg := NewMemoryRegistry(nil)
	relay := NewRelay(reg, nil)
	doctor := NewClient(1, "DOCTOR")
	patient := NewClient(2, "PATIENT")
	reg.Register(1, doctor)
	reg.Register(2, patient)

	answer := json.RawMessage(`{"type":"answer","sdp":"v=0"}`)
	relay.Route(patient, SignalMessage{Type: EventAnswerCall, To: 1, Signal: answer})
	msg := recv(t, doctor)
	require.Equal(t, EventCallAccepted, msg.Type)
	require.Equal(t, uint(2), msg.From)
	require.JSONEq(t, string(answer), string(msg.Signal))

	cand := json.RawMessage(`{"candidate":"candidate:1 1 udp 2130706431 10.0.0.1 54321 typ host"}`)
	relay.Route(doctor, SignalMessage{Type: EventICECandidate, To: 2, Candidate: cand})
	msg = recv(t, patient)
	require.Equal(t, EventICECandidate, msg.Type)
	require.Equal(t, uint(1), msg.From)
	require.JSONEq(t, string(cand), string(msg.Candidate))

	relay.Route(doctor, SignalMessage{Type: EventEndCall, To: 2})
	msg = recv(t, patient)
	require.Equal(t, EventCallEnded, msg.Type)
	require.Equal(t, uint(1), msg.From)
}

func TestRelayDropsMalformedAndUnknownFrames(t *testing.T) {
	reg := NewMemoryRegistry(nil)
	relay := NewRelay(reg, nil)
	c := NewClient(1, "PATIENT")
	reg.Register(1, c)

	relay.HandleMessage(c, []byte(`{not json`))
	relay.HandleMessage(c, []byte(`{"type":"mystery","to":1}`))
	requireEmpty(t, c)
}

func TestClientDeliverAfterCloseDoesNotPanic(t *testing.T) {
	c := NewClient(1, "PATIENT")
	c.Close()
	c.Close()
	c.Deliver(SignalMessage{Type: EventCallEnded, From: 2})
}
