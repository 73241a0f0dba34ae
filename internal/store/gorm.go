package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB is the postgres-backed Store.
type DB struct {
	db *gorm.DB
}

func Open(dsn string) (*DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	return &DB{db: db}, nil
}

func (s *DB) AutoMigrate() error {
	return s.db.AutoMigrate(&User{}, &Debate{}, &Participant{}, &Contribution{}, &RaiseHand{})
}

func (s *DB) CreateUser(ctx context.Context, u *User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return s.db.WithContext(ctx).Create(u).Error
}

func (s *DB) GetUser(ctx context.Context, id string) (*User, error) {
	var u User
	if err := s.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, mapErr(err)
	}
	return &u, nil
}

func (s *DB) FindUserByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := s.db.WithContext(ctx).First(&u, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *DB) CreateDebate(ctx context.Context, d *Debate) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return s.db.WithContext(ctx).Create(d).Error
}

func (s *DB) GetDebate(ctx context.Context, id string, withRelated bool) (*Debate, error) {
	var d Debate
	q := s.db.WithContext(ctx)
	if withRelated {
		q = q.Preload("Contributions").Preload("Participants").Preload("RaiseHands")
	}
	if err := q.First(&d, "id = ?", id).Error; err != nil {
		return nil, mapErr(err)
	}
	return &d, nil
}

func (s *DB) ListDebatesByOwner(ctx context.Context, userID string) ([]Debate, error) {
	var ds []Debate
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at desc").Find(&ds).Error; err != nil {
		return nil, err
	}
	return ds, nil
}

func (s *DB) UpdateDebate(ctx context.Context, d *Debate) error {
	res := s.db.WithContext(ctx).Omit("Contributions", "Participants", "RaiseHands").Save(d)
	return res.Error
}

func (s *DB) DeleteDebate(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&Participant{}, "debate_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&Contribution{}, "debate_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&RaiseHand{}, "debate_id = ?", id).Error; err != nil {
			return err
		}
		res := tx.Delete(&Debate{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (s *DB) CreateParticipant(ctx context.Context, p *Participant) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return s.db.WithContext(ctx).Create(p).Error
}

func (s *DB) FindParticipant(ctx context.Context, debateID, userName string) (*Participant, error) {
	var p Participant
	err := s.db.WithContext(ctx).First(&p, "debate_id = ? AND user_name = ?", debateID, userName).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *DB) CreateContribution(ctx context.Context, c *Contribution) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return s.db.WithContext(ctx).Create(c).Error
}

func (s *DB) GetContribution(ctx context.Context, id string) (*Contribution, error) {
	var c Contribution
	if err := s.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, mapErr(err)
	}
	return &c, nil
}

func (s *DB) UpdateContribution(ctx context.Context, c *Contribution) error {
	return s.db.WithContext(ctx).Save(c).Error
}

func (s *DB) CreateRaiseHand(ctx context.Context, r *RaiseHand) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return s.db.WithContext(ctx).Create(r).Error
}

func (s *DB) GetRaiseHand(ctx context.Context, id string) (*RaiseHand, error) {
	var r RaiseHand
	if err := s.db.WithContext(ctx).First(&r, "id = ?", id).Error; err != nil {
		return nil, mapErr(err)
	}
	return &r, nil
}

func (s *DB) FindRaiseHandByAuthor(ctx context.Context, debateID, authorID string) (*RaiseHand, error) {
	var r RaiseHand
	err := s.db.WithContext(ctx).First(&r, "debate_id = ? AND author_id = ?", debateID, authorID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *DB) UpdateRaiseHand(ctx context.Context, r *RaiseHand) error {
	return s.db.WithContext(ctx).Save(r).Error
}

func (s *DB) DeleteRaiseHand(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&RaiseHand{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func mapErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
