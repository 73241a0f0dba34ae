package store

import "time"

// User is an authenticated identity. Password holds the bcrypt hash and
// is never serialized.
type User struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	Name      string    `json:"name"`
	Email     string    `gorm:"uniqueIndex" json:"email"`
	Password  string    `json:"-"`
	UserType  string    `json:"userType"` // "TEACHER" | "STUDENT"
	CreatedAt time.Time `json:"createdAt"`
}

// Debate is one moderated discussion with fixed named sides. RemoveUsers
// is append-only: once a user id lands there it stays for the life of
// the debate.
type Debate struct {
	ID            string         `gorm:"primaryKey" json:"id"`
	Name          string         `json:"name"`
	Description   string         `json:"description"`
	UserID        string         `gorm:"index" json:"userId"`
	Sides         []string       `gorm:"serializer:json" json:"sides"`
	Status        string         `json:"status"` // "active" | "completed" | "draft"
	RemoveUsers   []string       `gorm:"serializer:json" json:"removeUsers"`
	CreatedAt     time.Time      `json:"createdAt"`
	Contributions []Contribution `gorm:"foreignKey:DebateID" json:"contributions,omitempty"`
	Participants  []Participant  `gorm:"foreignKey:DebateID" json:"participants,omitempty"`
	RaiseHands    []RaiseHand    `gorm:"foreignKey:DebateID" json:"raiseHands,omitempty"`
}

const (
	StatusActive    = "active"
	StatusCompleted = "completed"
	StatusDraft     = "draft"
)

// Participant joins a debate on one side. UserName is generated on join
// and is unique within the debate.
type Participant struct {
	ID           string    `gorm:"primaryKey" json:"id"`
	DebateID     string    `gorm:"index" json:"debateId"`
	UserName     string    `json:"userName"`
	Name         string    `json:"name"`
	Side         string    `json:"side"`
	FirstThought string    `json:"firstThought"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Contribution is a single posted message. Likes and Dislikes only ever
// grow; Awards is append-only with no dedup.
type Contribution struct {
	ID         string    `gorm:"primaryKey" json:"id"`
	DebateID   string    `gorm:"index" json:"debateId"`
	AuthorID   string    `json:"authorId"`
	AuthorName string    `json:"authorName"`
	Side       string    `json:"side"`
	Content    string    `json:"content"`
	Likes      int       `json:"likes"`
	Dislikes   int       `json:"dislikes"`
	Awards     []string  `gorm:"serializer:json" json:"awards"`
	CreatedAt  time.Time `json:"createdAt"`
}

// RaiseHand is a pending speaking-turn request. At most one exists per
// (debate, author) while outstanding; clearing deletes the record.
type RaiseHand struct {
	ID         string    `gorm:"primaryKey" json:"id"`
	DebateID   string    `gorm:"index" json:"debateId"`
	AuthorID   string    `json:"authorId"`
	IsSelected bool      `json:"isSelected"`
	CreatedAt  time.Time `json:"createdAt"`
}
