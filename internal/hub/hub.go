// Package hub owns the map of live debate sessions. A single goroutine
// serializes map access, so sessions are created exactly once per
// debate no matter how many connections race to join.
package hub

import (
	"context"

	"go.uber.org/zap"

	"github.com/classmate-labs/debate-live-backend/internal/session"
	"github.com/classmate-labs/debate-live-backend/internal/store"
)

type HubMsg interface{ isHubMsg() }

// EnsureSession replies with the live session for a debate, starting
// one (hydrated from the store) if none is running. Replies nil when
// the debate does not exist.
type EnsureSession struct {
	DebateID string
	Reply    chan *session.Session
}

// GetSession replies with the running session or nil; it never starts
// one.
type GetSession struct {
	DebateID string
	Reply    chan *session.Session
}

// RemoveSession shuts the session down and forgets it. Used when a
// debate is deleted.
type RemoveSession struct {
	DebateID string
}

type ShutdownHub struct{}

func (EnsureSession) isHubMsg() {}
func (GetSession) isHubMsg()    {}
func (RemoveSession) isHubMsg() {}
func (ShutdownHub) isHubMsg()   {}

type Hub struct {
	inbox    chan HubMsg
	sessions map[string]*session.Session
	st       store.Store
	log      *zap.Logger
	ctx      context.Context
	cancel   context.CancelFunc
}

func NewHub(parent context.Context, st store.Store, log *zap.Logger) *Hub {
	ctx, cancel := context.WithCancel(parent)
	h := &Hub{
		inbox:    make(chan HubMsg, 64),
		sessions: make(map[string]*session.Session),
		st:       st,
		log:      log.Named("hub"),
		ctx:      ctx,
		cancel:   cancel,
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- HubMsg { return h.inbox }

func (h *Hub) loop() {
	for {
		select {
		case <-h.ctx.Done():
			h.shutdown()
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case EnsureSession:
				if s := h.sessions[msg.DebateID]; s != nil {
					msg.Reply <- s
					break
				}
				debate, err := h.st.GetDebate(h.ctx, msg.DebateID, true)
				if err != nil {
					h.log.Warn("hydrate debate failed",
						zap.String("debateId", msg.DebateID), zap.Error(err))
					msg.Reply <- nil
					break
				}
				s := session.New(h.ctx, h.st, debate, h.log)
				h.sessions[msg.DebateID] = s
				h.log.Info("session started", zap.String("debateId", msg.DebateID))
				msg.Reply <- s

			case GetSession:
				msg.Reply <- h.sessions[msg.DebateID] // may be nil

			case RemoveSession:
				if s := h.sessions[msg.DebateID]; s != nil {
					s.Inbox() <- session.Shutdown{}
					delete(h.sessions, msg.DebateID)
					h.log.Info("session removed", zap.String("debateId", msg.DebateID))
				}

			case ShutdownHub:
				h.shutdown()
				return
			}
		}
	}
}

func (h *Hub) shutdown() {
	for _, s := range h.sessions {
		s.Inbox() <- session.Shutdown{}
	}
	clear(h.sessions)
	h.cancel()
}
