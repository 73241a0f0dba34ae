package store

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Memory is a map-backed Store used by tests and local development. It
// copies records on the way in and out so callers never share memory
// with it.
type Memory struct {
	mu            sync.Mutex
	users         map[string]User
	debates       map[string]Debate
	participants  map[string]Participant
	contributions map[string]Contribution
	raiseHands    map[string]RaiseHand
}

func NewMemory() *Memory {
	return &Memory{
		users:         make(map[string]User),
		debates:       make(map[string]Debate),
		participants:  make(map[string]Participant),
		contributions: make(map[string]Contribution),
		raiseHands:    make(map[string]RaiseHand),
	}
}

func (m *Memory) CreateUser(ctx context.Context, u *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	m.users[u.ID] = *u
	return nil
}

func (m *Memory) GetUser(ctx context.Context, id string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (m *Memory) FindUserByEmail(ctx context.Context, email string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

func (m *Memory) CreateDebate(ctx context.Context, d *Debate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now()
	}
	m.debates[d.ID] = copyDebate(*d)
	return nil
}

func (m *Memory) GetDebate(ctx context.Context, id string, withRelated bool) (*Debate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.debates[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := copyDebate(d)
	if withRelated {
		for _, c := range m.contributions {
			if c.DebateID == id {
				out.Contributions = append(out.Contributions, copyContribution(c))
			}
		}
		slices.SortFunc(out.Contributions, func(a, b Contribution) int {
			return a.CreatedAt.Compare(b.CreatedAt)
		})
		for _, p := range m.participants {
			if p.DebateID == id {
				out.Participants = append(out.Participants, p)
			}
		}
		for _, r := range m.raiseHands {
			if r.DebateID == id {
				out.RaiseHands = append(out.RaiseHands, r)
			}
		}
	}
	return &out, nil
}

func (m *Memory) ListDebatesByOwner(ctx context.Context, userID string) ([]Debate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ds []Debate
	for _, d := range m.debates {
		if d.UserID == userID {
			ds = append(ds, copyDebate(d))
		}
	}
	slices.SortFunc(ds, func(a, b Debate) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return ds, nil
}

func (m *Memory) UpdateDebate(ctx context.Context, d *Debate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.debates[d.ID]; !ok {
		return ErrNotFound
	}
	m.debates[d.ID] = copyDebate(*d)
	return nil
}

func (m *Memory) DeleteDebate(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.debates[id]; !ok {
		return ErrNotFound
	}
	delete(m.debates, id)
	for pid, p := range m.participants {
		if p.DebateID == id {
			delete(m.participants, pid)
		}
	}
	for cid, c := range m.contributions {
		if c.DebateID == id {
			delete(m.contributions, cid)
		}
	}
	for rid, r := range m.raiseHands {
		if r.DebateID == id {
			delete(m.raiseHands, rid)
		}
	}
	return nil
}

func (m *Memory) CreateParticipant(ctx context.Context, p *Participant) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	m.participants[p.ID] = *p
	return nil
}

func (m *Memory) FindParticipant(ctx context.Context, debateID, userName string) (*Participant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.participants {
		if p.DebateID == debateID && p.UserName == userName {
			p := p
			return &p, nil
		}
	}
	return nil, nil
}

func (m *Memory) CreateContribution(ctx context.Context, c *Contribution) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	m.contributions[c.ID] = copyContribution(*c)
	return nil
}

func (m *Memory) GetContribution(ctx context.Context, id string) (*Contribution, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.contributions[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := copyContribution(c)
	return &out, nil
}

func (m *Memory) UpdateContribution(ctx context.Context, c *Contribution) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.contributions[c.ID]; !ok {
		return ErrNotFound
	}
	m.contributions[c.ID] = copyContribution(*c)
	return nil
}

func (m *Memory) CreateRaiseHand(ctx context.Context, r *RaiseHand) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	m.raiseHands[r.ID] = *r
	return nil
}

func (m *Memory) GetRaiseHand(ctx context.Context, id string) (*RaiseHand, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.raiseHands[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &r, nil
}

func (m *Memory) FindRaiseHandByAuthor(ctx context.Context, debateID, authorID string) (*RaiseHand, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.raiseHands {
		if r.DebateID == debateID && r.AuthorID == authorID {
			r := r
			return &r, nil
		}
	}
	return nil, nil
}

func (m *Memory) UpdateRaiseHand(ctx context.Context, r *RaiseHand) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.raiseHands[r.ID]; !ok {
		return ErrNotFound
	}
	m.raiseHands[r.ID] = *r
	return nil
}

func (m *Memory) DeleteRaiseHand(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.raiseHands[id]; !ok {
		return ErrNotFound
	}
	delete(m.raiseHands, id)
	return nil
}

func copyDebate(d Debate) Debate {
	d.Sides = slices.Clone(d.Sides)
	d.RemoveUsers = slices.Clone(d.RemoveUsers)
	d.Contributions = nil
	d.Participants = nil
	d.RaiseHands = nil
	return d
}

func copyContribution(c Contribution) Contribution {
	c.Awards = slices.Clone(c.Awards)
	return c
}
