package hub

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/classmate-labs/debate-live-backend/internal/session"
	"github.com/classmate-labs/debate-live-backend/internal/store"
)

func seedDebate(t *testing.T, mem *store.Memory) string {
	t.Helper()
	d := &store.Debate{
		Name:  "Homework",
		Sides: []string{"For", "Against"},
	}
	if err := mem.CreateDebate(context.Background(), d); err != nil {
		t.Fatalf("seed debate: %v", err)
	}
	return d.ID
}

func ensure(t *testing.T, h *Hub, id string) *session.Session {
	t.Helper()
	reply := make(chan *session.Session, 1)
	h.Inbox() <- EnsureSession{DebateID: id, Reply: reply}
	select {
	case s := <-reply:
		return s
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for session")
		return nil // unreachable
	}
}

func TestHub_Ensure_Get_SamePointer(t *testing.T) {
	mem := store.NewMemory()
	id := seedDebate(t, mem)
	h := NewHub(context.Background(), mem, zap.NewNop())

	s1 := ensure(t, h, id)
	if s1 == nil {
		t.Fatalf("expected a session for an existing debate")
	}
	s2 := ensure(t, h, id)

	reply := make(chan *session.Session, 1)
	h.Inbox() <- GetSession{DebateID: id, Reply: reply}
	s3 := <-reply

	if s1 != s2 || s1 != s3 {
		t.Fatalf("expected the same session pointer for one debate")
	}
}

func TestHub_Ensure_UnknownDebateRepliesNil(t *testing.T) {
	h := NewHub(context.Background(), store.NewMemory(), zap.NewNop())
	if s := ensure(t, h, "no-such-debate"); s != nil {
		t.Fatalf("expected nil for an unknown debate")
	}
}

func TestHub_RemoveSession_ForgetsIt(t *testing.T) {
	mem := store.NewMemory()
	id := seedDebate(t, mem)
	h := NewHub(context.Background(), mem, zap.NewNop())

	_ = ensure(t, h, id)
	h.Inbox() <- RemoveSession{DebateID: id}

	reply := make(chan *session.Session, 1)
	h.Inbox() <- GetSession{DebateID: id, Reply: reply}
	if s := <-reply; s != nil {
		t.Fatalf("expected session to be removed")
	}
}
