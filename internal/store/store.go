package store

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("record not found")
var ErrInvalidSide = errors.New("side is not one of the debate's sides")
var ErrEmptyContent = errors.New("content must not be empty")
var ErrInvalidReaction = errors.New("invalid reaction")
var ErrEmailTaken = errors.New("email already registered")
var ErrUserNameTaken = errors.New("username already taken in this debate")

// Store is the durable collaborator behind the live session engine and
// the one-shot HTTP API. Get* return ErrNotFound for unknown ids; Find*
// return (nil, nil) when nothing matches, since absence is an expected
// answer there.
type Store interface {
	CreateUser(ctx context.Context, u *User) error
	GetUser(ctx context.Context, id string) (*User, error)
	FindUserByEmail(ctx context.Context, email string) (*User, error)

	CreateDebate(ctx context.Context, d *Debate) error
	// GetDebate loads one debate; withRelated also loads its
	// contributions, participants and raise hands.
	GetDebate(ctx context.Context, id string, withRelated bool) (*Debate, error)
	ListDebatesByOwner(ctx context.Context, userID string) ([]Debate, error)
	UpdateDebate(ctx context.Context, d *Debate) error
	// DeleteDebate removes the debate and every dependent record.
	DeleteDebate(ctx context.Context, id string) error

	CreateParticipant(ctx context.Context, p *Participant) error
	FindParticipant(ctx context.Context, debateID, userName string) (*Participant, error)

	CreateContribution(ctx context.Context, c *Contribution) error
	GetContribution(ctx context.Context, id string) (*Contribution, error)
	UpdateContribution(ctx context.Context, c *Contribution) error

	CreateRaiseHand(ctx context.Context, r *RaiseHand) error
	GetRaiseHand(ctx context.Context, id string) (*RaiseHand, error)
	FindRaiseHandByAuthor(ctx context.Context, debateID, authorID string) (*RaiseHand, error)
	UpdateRaiseHand(ctx context.Context, r *RaiseHand) error
	DeleteRaiseHand(ctx context.Context, id string) error
}
