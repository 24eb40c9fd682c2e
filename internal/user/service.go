package user

import (
	"context"
	"errors"
	"time"

	"bookseller/internal/entity"
	"bookseller/internal/platform/crypto"
)

type Service struct {
	repo   Repository
	secret string
	ttl    time.Duration
}

func NewService(repo Repository, secret string, ttl time.Duration) *Service {
	return &Service{repo: repo, secret: secret, ttl: ttl}
}

// Credentials is the register and login body.
type Credentials struct {
	UserName string `json:"userName" validate:"notblank,min=3,max=50"`
	Password string `json:"password" validate:"required"`
}

// Register stores a new user and signs them in.
func (s *Service) Register(ctx context.Context, c Credentials) (crypto.Token, error) {
	if err := entity.Validate(c); err != nil {
		return crypto.Token{}, err
	}
	if err := ValidatePasswordStrength(c.Password); err != nil {
		return crypto.Token{}, entity.Invalid("password", "%v", err)
	}

	_, err := s.repo.GetByUserName(ctx, c.UserName)
	if err == nil {
		return crypto.Token{}, ErrUserNameTaken
	}
	if !errors.Is(err, ErrNotFound) {
		return crypto.Token{}, err
	}

	hash, err := HashPassword(c.Password)
	if err != nil {
		return crypto.Token{}, err
	}
	u := &entity.User{UserName: c.UserName, PasswordHash: hash}
	if err := s.repo.Create(ctx, u); err != nil {
		return crypto.Token{}, err
	}
	return crypto.GenerateToken(s.secret, u.UserName, s.ttl)
}

// Login checks the password and issues a token.
func (s *Service) Login(ctx context.Context, c Credentials) (crypto.Token, error) {
	u, err := s.repo.GetByUserName(ctx, c.UserName)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return crypto.Token{}, ErrInvalidCredentials
		}
		return crypto.Token{}, err
	}
	if !VerifyPassword(u.PasswordHash, c.Password) {
		return crypto.Token{}, ErrInvalidCredentials
	}
	return crypto.GenerateToken(s.secret, u.UserName, s.ttl)
}
