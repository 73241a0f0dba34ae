// Package ws bridges websocket connections to debate session actors.
// A connection has no debate until it sends a join event; disconnect
// always leaves whatever room it was in.
package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/classmate-labs/debate-live-backend/internal/hub"
	"github.com/classmate-labs/debate-live-backend/internal/session"
	"github.com/classmate-labs/debate-live-backend/internal/types"
)

const writeTimeout = 3 * time.Second

func Handler(h *hub.Hub, log *zap.Logger) http.HandlerFunc {
	log = log.Named("ws")

	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		connID := uuid.NewString()
		out := make(chan types.ServerMessage, 16)

		var cur *session.Session
		var curDebateID string
		defer func() {
			if cur != nil {
				cur.Inbox() <- session.Leave{ConnID: connID}
			}
		}()

		// Writer goroutine: acks and broadcasts share the outbox so
		// per-connection delivery stays ordered.
		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go func() {
			for {
				select {
				case <-writeCtx.Done():
					return
				case msg := <-out:
					payload, err := json.Marshal(msg)
					if err != nil {
						continue
					}
					ctx, cancel := context.WithTimeout(writeCtx, writeTimeout)
					_ = conn.Write(ctx, websocket.MessageText, payload)
					cancel()
				}
			}
		}()

		// Reader loop
		for {
			_, data, err := conn.Read(r.Context())
			if err != nil {
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
					return
				}
				return
			}

			var cm types.ClientMessage
			if err := json.Unmarshal(data, &cm); err != nil {
				send(out, types.ServerMessage{Type: types.MsgError, Error: "bad json"})
				continue
			}

			if cm.Type == types.EvtJoin {
				if cm.DebateID == "" {
					send(out, types.ServerMessage{Type: types.MsgError, Error: "missing debateId"})
					continue
				}
				if cur != nil && curDebateID != cm.DebateID {
					send(out, types.ServerMessage{Type: types.MsgError, Error: "already joined another debate"})
					continue
				}
				if cur == nil {
					reply := make(chan *session.Session, 1)
					h.Inbox() <- hub.EnsureSession{DebateID: cm.DebateID, Reply: reply}
					s := <-reply
					if s == nil {
						send(out, types.ServerMessage{Type: types.MsgError, Error: "debate not found"})
						continue
					}
					cur = s
					curDebateID = cm.DebateID
					log.Info("joined debate",
						zap.String("connId", connID), zap.String("debateId", cm.DebateID))
				}
				cur.Inbox() <- session.Join{ConnID: connID, Outbox: out}
				continue
			}

			if cur == nil {
				send(out, types.ServerMessage{Type: types.MsgError, Error: "join a debate first"})
				continue
			}

			msg, ok := toSessionEvent(cm, connID, out)
			if !ok {
				send(out, types.ServerMessage{Type: types.MsgError, Error: "unknown type"})
				continue
			}
			cur.Inbox() <- msg
		}
	}
}

func toSessionEvent(m types.ClientMessage, connID string, out chan types.ServerMessage) (session.Msg, bool) {
	switch m.Type {
	case types.EvtSubmitContribution:
		return session.SubmitContribution{
			From: connID, AuthorID: m.AuthorID, AuthorName: m.AuthorName,
			Side: m.Side, Content: m.Content, ReplyTo: out,
		}, true
	case types.EvtReactContribution:
		return session.ReactToContribution{
			From: connID, ContributionID: m.ContributionID, Reaction: m.Reaction, ReplyTo: out,
		}, true
	case types.EvtAwardContribution:
		return session.AwardContribution{
			From: connID, ContributionID: m.ContributionID, Award: m.Award, ReplyTo: out,
		}, true
	case types.EvtRemoveUser:
		return session.RemoveUser{From: connID, UserID: m.UserID, ReplyTo: out}, true
	case types.EvtRaiseHand:
		return session.RaiseHand{From: connID, AuthorID: m.AuthorID, ReplyTo: out}, true
	case types.EvtApproveSpeak:
		return session.ApproveSpeak{From: connID, RaiseHandID: m.RaiseHandID, ReplyTo: out}, true
	case types.EvtClearRaiseHand:
		return session.ClearRaiseHand{From: connID, RaiseHandID: m.RaiseHandID, ReplyTo: out}, true
	default:
		return nil, false
	}
}

func send(out chan types.ServerMessage, msg types.ServerMessage) {
	select {
	case out <- msg:
	default:
	}
}
