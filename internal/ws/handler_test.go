package ws

import (
	"testing"

	"github.com/classmate-labs/debate-live-backend/internal/session"
	"github.com/classmate-labs/debate-live-backend/internal/types"
)

func TestToSessionEvent(t *testing.T) {
	out := make(chan types.ServerMessage, 1)

	msg, ok := toSessionEvent(types.ClientMessage{
		Type: types.EvtSubmitContribution, AuthorID: "u1", AuthorName: "Ana",
		Side: "For", Content: "hello",
	}, "conn-1", out)
	if !ok {
		t.Fatalf("submitContribution should translate")
	}
	ev, ok := msg.(session.SubmitContribution)
	if !ok || ev.From != "conn-1" || ev.Side != "For" || ev.Content != "hello" {
		t.Fatalf("bad translation: %+v", msg)
	}

	if _, ok := toSessionEvent(types.ClientMessage{Type: types.EvtReactContribution, ContributionID: "c1", Reaction: "like"}, "conn-1", out); !ok {
		t.Fatalf("reactToContribution should translate")
	}
	if _, ok := toSessionEvent(types.ClientMessage{Type: types.EvtClearRaiseHand, RaiseHandID: "r1"}, "conn-1", out); !ok {
		t.Fatalf("clearRaiseHand should translate")
	}

	if _, ok := toSessionEvent(types.ClientMessage{Type: "Dance"}, "conn-1", out); ok {
		t.Fatalf("unknown types must not translate")
	}
	// join is membership, not a session event
	if _, ok := toSessionEvent(types.ClientMessage{Type: types.EvtJoin, DebateID: "d1"}, "conn-1", out); ok {
		t.Fatalf("join is handled by the connection, not the actor")
	}
}
