package port

import (
	"context"

	"todoservice/internal/core/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user domain.User) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
}

type UserService interface {
	Create(ctx context.Context, username, email, password string) (domain.User, error)
}
