package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"todoservice/internal/core/domain"
	"todoservice/internal/core/port"
	tel "todoservice/internal/core/telemetry"
	"todoservice/internal/core/util"
)

type UserService struct {
	repo      port.UserRepository
	telemetry port.Telemetry
}

func NewUserService(repo port.UserRepository, telemetry port.Telemetry) *UserService {
	if telemetry == nil {
		telemetry = tel.NewNoOpProbe()
	}

	return &UserService{repo: repo, telemetry: telemetry}
}

func (us *UserService) Create(ctx context.Context, username, email, password string) (domain.User, error) {
	ctx, span := us.telemetry.StartServiceSpan(ctx, "user", "Create", nil)
	defer span.End()

	email = strings.ToLower(strings.TrimSpace(email))

	_, err := us.repo.GetByEmail(ctx, email)

	switch {
	case err == nil:
		return domain.User{}, domain.ErrUserAlreadyExists
	case !errors.Is(err, domain.ErrUserNotFound):
		span.RecordError(err)
		return domain.User{}, err
	}

	hashed, err := util.HashPassword(password)

	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}

	user, err := us.repo.Create(ctx, domain.User{
		ID:                uuid.New(),
		Username:          username,
		Email:             email,
		EncryptedPassword: hashed,
		CreatedAt:         time.Now().UTC(),
	})

	if err != nil {
		span.RecordError(err)
		return domain.User{}, err
	}

	us.telemetry.RecordBusinessEvent(ctx, "created", "user", user.ID.String(), map[string]interface{}{
		"username": user.Username,
	})

	return user, nil
}
