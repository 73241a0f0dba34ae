// Package auth resolves bearer credentials to an identity and role.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/classmate-labs/debate-live-backend/internal/store"
)

var ErrInvalidToken = errors.New("invalid token")
var ErrInvalidCredentials = errors.New("invalid email or password")

const (
	RoleTeacher = "TEACHER"
	RoleStudent = "STUDENT"
)

// Identity is what a verified credential resolves to.
type Identity struct {
	ID    string
	Email string
	Role  string
}

type Service struct {
	secret []byte
	ttl    time.Duration
}

func NewService(secret string) *Service {
	return &Service{secret: []byte(secret), ttl: 24 * time.Hour}
}

func HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func CheckPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

type claims struct {
	Email string `json:"email"`
	Role  string `json:"userType"`
	jwt.RegisteredClaims
}

func (s *Service) IssueToken(u *store.User) (string, error) {
	now := time.Now()
	c := claims{
		Email: u.Email,
		Role:  u.UserType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.secret)
}

func (s *Service) Verify(token string) (Identity, error) {
	var c claims
	parsed, err := jwt.ParseWithClaims(token, &c, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return Identity{}, ErrInvalidToken
	}
	return Identity{ID: c.Subject, Email: c.Email, Role: c.Role}, nil
}
