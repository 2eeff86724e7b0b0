package users

import (
	"context"
	"fmt"
	"strings"

	"github.com/chamber122/chamber122-backend/internal/repo"
	"github.com/chamber122/chamber122-backend/pkg/db/models"
	pkgerrors "github.com/chamber122/chamber122-backend/pkg/errors"
)

type userRepository interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// Service answers account lookups for admin tooling.
type Service interface {
	FindByID(ctx context.Context, id string) (*UserDTO, error)
}

type service struct {
	users userRepository
}

// NewService builds a user service.
func NewService(users userRepository) (Service, error) {
	if users == nil {
		return nil, fmt.Errorf("users repository required")
	}
	return &service{users: users}, nil
}

func (s *service) FindByID(ctx context.Context, id string) (*UserDTO, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, repo.Translate(err, "User not found", "load user")
	}
	return FromModel(user), nil
}
