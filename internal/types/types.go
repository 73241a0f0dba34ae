package types

import "github.com/classmate-labs/debate-live-backend/internal/store"

// ClientMessage is the single client→server envelope. Type selects the
// event; the remaining fields are populated per event (see pkg/types
// for the full protocol).
type ClientMessage struct {
	Type           string `json:"type"`
	DebateID       string `json:"debateId,omitempty"`
	AuthorID       string `json:"authorId,omitempty"`
	AuthorName     string `json:"authorName,omitempty"`
	Side           string `json:"side,omitempty"`
	Content        string `json:"content,omitempty"`
	ContributionID string `json:"contributionId,omitempty"`
	Reaction       string `json:"reaction,omitempty"`
	Award          string `json:"award,omitempty"`
	UserID         string `json:"userId,omitempty"`
	RaiseHandID    string `json:"raiseHandId,omitempty"`
}

// Client event names.
const (
	EvtJoin               = "join"
	EvtSubmitContribution = "submitContribution"
	EvtReactContribution  = "reactToContribution"
	EvtAwardContribution  = "awardContribution"
	EvtRemoveUser         = "removeUser"
	EvtRaiseHand          = "raiseHand"
	EvtApproveSpeak       = "approveSpeak"
	EvtClearRaiseHand     = "clearRaiseHand"
)

// Server→client message types.
const (
	MsgAck                = "ack"
	MsgDebateState        = "debateState"
	MsgNewContribution    = "newContribution"
	MsgUpdateContribution = "updateContribution"
	MsgUpdateDebate       = "updateDebate"
	MsgNewRaiseHand       = "newRaiseHand"
	MsgUpdateRaiseHand    = "updateRaiseHand"
	MsgRemoveRaiseHand    = "removeRaiseHand"
	MsgError              = "error"
)

// Ack statuses.
const (
	StatusOK            = "ok"
	StatusError         = "error"
	StatusAlreadyRaised = "alreadyRaised"
)

// ServerMessage is the single server→client envelope, covering both
// broadcasts and acks. Exactly one payload field is set per Type; acks
// carry Event (the client event being acknowledged) and Status.
type ServerMessage struct {
	Type         string              `json:"type"`
	Event        string              `json:"event,omitempty"`
	Status       string              `json:"status,omitempty"`
	Error        string              `json:"error,omitempty"`
	Contribution *store.Contribution `json:"contribution,omitempty"`
	Debate       *store.Debate       `json:"debate,omitempty"`
	RaiseHand    *store.RaiseHand    `json:"raiseHand,omitempty"`
	RaiseHandID  string              `json:"raiseHandId,omitempty"`
	State        *DebateState        `json:"state,omitempty"`
}

// DebateState is the full snapshot sent to a connection on join; the
// client rebuilds from it after a reconnect since missed broadcasts are
// not replayed.
type DebateState struct {
	Debate        store.Debate         `json:"debate"`
	Contributions []store.Contribution `json:"contributions"`
	RaiseHands    []store.RaiseHand    `json:"raiseHands"`
}

func Ack(event, status string) ServerMessage {
	return ServerMessage{Type: MsgAck, Event: event, Status: status}
}

func AckError(event string, err error) ServerMessage {
	return ServerMessage{Type: MsgAck, Event: event, Status: StatusError, Error: err.Error()}
}
