package user

import (
	"context"

	"bookseller/internal/entity"
)

//go:generate mockgen -source=ports.go -destination=mock_repository.go -package=user

type Repository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByUserName(ctx context.Context, userName string) (entity.User, error)
}
