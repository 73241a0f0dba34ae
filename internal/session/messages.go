package session

import (
	"github.com/classmate-labs/debate-live-backend/internal/store"
	"github.com/classmate-labs/debate-live-backend/internal/types"
)

type Msg interface{ isSessionMsg() }

// Join subscribes a connection to this debate's broadcasts. The current
// full state is sent to Outbox immediately. Re-joining with the same
// ConnID just refreshes the subscription.
type Join struct {
	ConnID string
	Outbox chan types.ServerMessage
}

func (Join) isSessionMsg() {}

type Leave struct{ ConnID string }

func (Leave) isSessionMsg() {}

type Shutdown struct{}

func (Shutdown) isSessionMsg() {}

// GetState reflects internal state without data races; used by tests.
type GetState struct {
	Reply chan View
}

func (GetState) isSessionMsg() {}

type View struct {
	Debate         store.Debate
	Contributions  []store.Contribution
	RaiseHands     []store.RaiseHand
	NumSubscribers int
}

// Event is a client-originated mutation. Every event names itself and
// carries a reply channel so the actor can always acknowledge the
// sender, even when the handler fails.
type Event interface {
	Msg
	event() string
	reply() chan<- types.ServerMessage
}

type SubmitContribution struct {
	From       string
	AuthorID   string
	AuthorName string
	Side       string
	Content    string
	ReplyTo    chan<- types.ServerMessage
}

func (SubmitContribution) isSessionMsg() {}
func (SubmitContribution) event() string { return types.EvtSubmitContribution }
func (m SubmitContribution) reply() chan<- types.ServerMessage { return m.ReplyTo }

type ReactToContribution struct {
	From           string
	ContributionID string
	Reaction       string // "like" | "dislike"
	ReplyTo        chan<- types.ServerMessage
}

func (ReactToContribution) isSessionMsg() {}
func (ReactToContribution) event() string { return types.EvtReactContribution }
func (m ReactToContribution) reply() chan<- types.ServerMessage { return m.ReplyTo }

type AwardContribution struct {
	From           string
	ContributionID string
	Award          string
	ReplyTo        chan<- types.ServerMessage
}

func (AwardContribution) isSessionMsg() {}
func (AwardContribution) event() string { return types.EvtAwardContribution }
func (m AwardContribution) reply() chan<- types.ServerMessage { return m.ReplyTo }

type RemoveUser struct {
	From    string
	UserID  string
	ReplyTo chan<- types.ServerMessage
}

func (RemoveUser) isSessionMsg() {}
func (RemoveUser) event() string { return types.EvtRemoveUser }
func (m RemoveUser) reply() chan<- types.ServerMessage { return m.ReplyTo }

type RaiseHand struct {
	From     string
	AuthorID string
	ReplyTo  chan<- types.ServerMessage
}

func (RaiseHand) isSessionMsg() {}
func (RaiseHand) event() string { return types.EvtRaiseHand }
func (m RaiseHand) reply() chan<- types.ServerMessage { return m.ReplyTo }

type ApproveSpeak struct {
	From        string
	RaiseHandID string
	ReplyTo     chan<- types.ServerMessage
}

func (ApproveSpeak) isSessionMsg() {}
func (ApproveSpeak) event() string { return types.EvtApproveSpeak }
func (m ApproveSpeak) reply() chan<- types.ServerMessage { return m.ReplyTo }

type ClearRaiseHand struct {
	From        string
	RaiseHandID string
	ReplyTo     chan<- types.ServerMessage
}

func (ClearRaiseHand) isSessionMsg() {}
func (ClearRaiseHand) event() string { return types.EvtClearRaiseHand }
func (m ClearRaiseHand) reply() chan<- types.ServerMessage { return m.ReplyTo }
