// Package session runs one goroutine per live debate. All mutations for
// a debate flow through its inbox, which serializes them and fixes the
// broadcast order; debates never block each other.
package session

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/classmate-labs/debate-live-backend/internal/store"
	"github.com/classmate-labs/debate-live-backend/internal/types"
)

// Session owns the authoritative in-memory state of one debate and the
// set of connections subscribed to it. State is mirrored to the store
// before any broadcast, so subscribers only ever see persisted
// mutations. Records held in the maps are treated as immutable;
// mutations install a fresh copy.
type Session struct {
	inbox         chan Msg
	debate        store.Debate
	contributions map[string]*store.Contribution
	order         []string // contribution ids, creation order
	raiseHands    map[string]*store.RaiseHand
	subscribers   map[string]chan types.ServerMessage
	st            store.Store
	log           *zap.Logger
	ctx           context.Context
	cancel        context.CancelFunc
}

// New starts the actor. debate must be hydrated with its related
// records (the store's include-related read).
func New(parent context.Context, st store.Store, debate *store.Debate, log *zap.Logger) *Session {
	ctx, cancel := context.WithCancel(parent)

	s := &Session{
		inbox:         make(chan Msg, 64),
		contributions: make(map[string]*store.Contribution),
		raiseHands:    make(map[string]*store.RaiseHand),
		subscribers:   make(map[string]chan types.ServerMessage),
		st:            st,
		log:           log.With(zap.String("debateId", debate.ID)),
		ctx:           ctx,
		cancel:        cancel,
	}

	s.debate = *debate
	s.debate.Contributions = nil
	s.debate.Participants = nil
	s.debate.RaiseHands = nil

	cs := slices.Clone(debate.Contributions)
	slices.SortFunc(cs, func(a, b store.Contribution) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	for i := range cs {
		c := cs[i]
		s.contributions[c.ID] = &c
		s.order = append(s.order, c.ID)
	}
	for i := range debate.RaiseHands {
		r := debate.RaiseHands[i]
		s.raiseHands[r.ID] = &r
	}

	go s.loop()
	return s
}

// Inbox exposes the actor's mailbox to the ws layer and tests.
func (s *Session) Inbox() chan<- Msg { return s.inbox }

func (s *Session) loop() {
	for {
		select {
		case <-s.ctx.Done():
			s.shutdown()
			return

		case m := <-s.inbox:
			switch msg := m.(type) {
			case Join:
				s.subscribers[msg.ConnID] = msg.Outbox
				s.send(msg.Outbox, types.ServerMessage{Type: types.MsgDebateState, State: s.snapshot()})

			case Leave:
				delete(s.subscribers, msg.ConnID)

			case GetState:
				msg.Reply <- View{
					Debate:         s.debate,
					Contributions:  s.contributionList(),
					RaiseHands:     s.raiseHandList(),
					NumSubscribers: len(s.subscribers),
				}

			case Shutdown:
				s.shutdown()
				return

			case Event:
				s.dispatch(msg)
			}
		}
	}
}

// dispatch runs one client event. A panicking handler must not take the
// actor down or leave the sender without a reply.
func (s *Session) dispatch(ev Event) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("event handler panicked", zap.String("event", ev.event()), zap.Any("panic", r))
			s.send(ev.reply(), types.ServerMessage{
				Type: types.MsgAck, Event: ev.event(), Status: types.StatusError, Error: "internal error",
			})
		}
	}()

	switch m := ev.(type) {
	case SubmitContribution:
		s.handleSubmit(m)
	case ReactToContribution:
		s.handleReact(m)
	case AwardContribution:
		s.handleAward(m)
	case RemoveUser:
		s.handleRemoveUser(m)
	case RaiseHand:
		s.handleRaiseHand(m)
	case ApproveSpeak:
		s.handleApproveSpeak(m)
	case ClearRaiseHand:
		s.handleClearRaiseHand(m)
	}
}

func (s *Session) handleSubmit(m SubmitContribution) {
	if m.Content == "" {
		s.send(m.ReplyTo, types.AckError(m.event(), store.ErrEmptyContent))
		return
	}
	if !slices.Contains(s.debate.Sides, m.Side) {
		s.send(m.ReplyTo, types.AckError(m.event(), store.ErrInvalidSide))
		return
	}

	c := &store.Contribution{
		ID:         uuid.NewString(),
		DebateID:   s.debate.ID,
		AuthorID:   m.AuthorID,
		AuthorName: m.AuthorName,
		Side:       m.Side,
		Content:    m.Content,
		Awards:     []string{},
		CreatedAt:  time.Now(),
	}
	if err := s.st.CreateContribution(s.ctx, c); err != nil {
		s.fail(m.ReplyTo, m.event(), "create contribution", err)
		return
	}
	s.contributions[c.ID] = c
	s.order = append(s.order, c.ID)

	ack := types.Ack(m.event(), types.StatusOK)
	ack.Contribution = c
	s.send(m.ReplyTo, ack)
	s.broadcast(types.ServerMessage{Type: types.MsgNewContribution, Contribution: c}, "")
}

func (s *Session) handleReact(m ReactToContribution) {
	cur, ok := s.contributions[m.ContributionID]
	if !ok {
		s.send(m.ReplyTo, types.AckError(m.event(), store.ErrNotFound))
		return
	}

	next := *cur
	next.Awards = slices.Clone(cur.Awards)
	switch m.Reaction {
	case "like":
		next.Likes++
	case "dislike":
		next.Dislikes++
	default:
		s.send(m.ReplyTo, types.AckError(m.event(), store.ErrInvalidReaction))
		return
	}

	if err := s.st.UpdateContribution(s.ctx, &next); err != nil {
		s.fail(m.ReplyTo, m.event(), "update reaction", err)
		return
	}
	s.contributions[next.ID] = &next

	ack := types.Ack(m.event(), types.StatusOK)
	ack.Contribution = &next
	s.send(m.ReplyTo, ack)
	s.broadcast(types.ServerMessage{Type: types.MsgUpdateContribution, Contribution: &next}, "")
}

func (s *Session) handleAward(m AwardContribution) {
	cur, ok := s.contributions[m.ContributionID]
	if !ok {
		s.send(m.ReplyTo, types.AckError(m.event(), store.ErrNotFound))
		return
	}

	next := *cur
	next.Awards = append(slices.Clone(cur.Awards), m.Award)

	if err := s.st.UpdateContribution(s.ctx, &next); err != nil {
		s.fail(m.ReplyTo, m.event(), "award contribution", err)
		return
	}
	s.contributions[next.ID] = &next

	ack := types.Ack(m.event(), types.StatusOK)
	ack.Contribution = &next
	s.send(m.ReplyTo, ack)
	s.broadcast(types.ServerMessage{Type: types.MsgUpdateContribution, Contribution: &next}, "")
}

func (s *Session) handleRemoveUser(m RemoveUser) {
	if !slices.Contains(s.debate.RemoveUsers, m.UserID) {
		next := s.debate
		next.RemoveUsers = append(slices.Clone(s.debate.RemoveUsers), m.UserID)
		if err := s.st.UpdateDebate(s.ctx, &next); err != nil {
			s.fail(m.ReplyTo, m.event(), "remove user", err)
			return
		}
		s.debate = next
	}

	// Full projection for UI refresh, participants included.
	updated, err := s.st.GetDebate(s.ctx, s.debate.ID, true)
	if err != nil {
		s.fail(m.ReplyTo, m.event(), "load updated debate", err)
		return
	}

	ack := types.Ack(m.event(), types.StatusOK)
	ack.Debate = updated
	s.send(m.ReplyTo, ack)
	s.broadcast(types.ServerMessage{Type: types.MsgUpdateDebate, Debate: updated}, "")
}

func (s *Session) handleRaiseHand(m RaiseHand) {
	for _, r := range s.raiseHands {
		if r.AuthorID == m.AuthorID {
			ack := types.Ack(m.event(), types.StatusAlreadyRaised)
			ack.RaiseHand = r
			s.send(m.ReplyTo, ack)
			return
		}
	}

	r := &store.RaiseHand{
		ID:        uuid.NewString(),
		DebateID:  s.debate.ID,
		AuthorID:  m.AuthorID,
		CreatedAt: time.Now(),
	}
	if err := s.st.CreateRaiseHand(s.ctx, r); err != nil {
		s.fail(m.ReplyTo, m.event(), "raise hand", err)
		return
	}
	s.raiseHands[r.ID] = r

	ack := types.Ack(m.event(), types.StatusOK)
	ack.RaiseHand = r
	s.send(m.ReplyTo, ack)
	s.broadcast(types.ServerMessage{Type: types.MsgNewRaiseHand, RaiseHand: r}, "")
}

func (s *Session) handleApproveSpeak(m ApproveSpeak) {
	cur, ok := s.raiseHands[m.RaiseHandID]
	if !ok {
		s.send(m.ReplyTo, types.AckError(m.event(), store.ErrNotFound))
		return
	}

	next := *cur
	next.IsSelected = true
	if err := s.st.UpdateRaiseHand(s.ctx, &next); err != nil {
		s.fail(m.ReplyTo, m.event(), "approve speak", err)
		return
	}
	s.raiseHands[next.ID] = &next

	ack := types.Ack(m.event(), types.StatusOK)
	ack.RaiseHand = &next
	s.send(m.ReplyTo, ack)
	s.broadcast(types.ServerMessage{Type: types.MsgUpdateRaiseHand, RaiseHand: &next}, "")
}

func (s *Session) handleClearRaiseHand(m ClearRaiseHand) {
	if _, ok := s.raiseHands[m.RaiseHandID]; !ok {
		// Already cleared reads as not-found; callers treat it as done.
		s.send(m.ReplyTo, types.AckError(m.event(), store.ErrNotFound))
		return
	}
	if err := s.st.DeleteRaiseHand(s.ctx, m.RaiseHandID); err != nil && !errors.Is(err, store.ErrNotFound) {
		s.fail(m.ReplyTo, m.event(), "clear raise hand", err)
		return
	}
	delete(s.raiseHands, m.RaiseHandID)

	s.send(m.ReplyTo, types.Ack(m.event(), types.StatusOK))
	s.broadcast(types.ServerMessage{Type: types.MsgRemoveRaiseHand, RaiseHandID: m.RaiseHandID}, "")
}

func (s *Session) fail(to chan<- types.ServerMessage, event, op string, err error) {
	s.log.Warn(op+" failed", zap.String("event", event), zap.Error(err))
	s.send(to, types.AckError(event, err))
}

// send delivers to one channel without blocking the actor; a full
// channel just loses this message.
func (s *Session) send(ch chan<- types.ServerMessage, msg types.ServerMessage) {
	if ch == nil {
		return
	}
	select {
	case ch <- msg:
	default:
	}
}

// broadcast fans msg out to every subscriber except the one named by
// except (empty means nobody). Slow or dead subscribers are dropped
// from the room; they recover state on the next join. Channels are
// owned by the connection side and are never closed here.
func (s *Session) broadcast(msg types.ServerMessage, except string) {
	for id, ch := range s.subscribers {
		if id == except {
			continue
		}
		select {
		case ch <- msg:
		default:
			delete(s.subscribers, id)
		}
	}
}

func (s *Session) snapshot() *types.DebateState {
	return &types.DebateState{
		Debate:        s.debate,
		Contributions: s.contributionList(),
		RaiseHands:    s.raiseHandList(),
	}
}

func (s *Session) contributionList() []store.Contribution {
	out := make([]store.Contribution, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.contributions[id])
	}
	return out
}

func (s *Session) raiseHandList() []store.RaiseHand {
	out := make([]store.RaiseHand, 0, len(s.raiseHands))
	for _, r := range s.raiseHands {
		out = append(out, *r)
	}
	slices.SortFunc(out, func(a, b store.RaiseHand) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return out
}

func (s *Session) shutdown() {
	clear(s.subscribers)
	s.cancel()
}
