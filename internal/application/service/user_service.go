package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/pos-backoffice/internal/domain/entity"
	"github.com/sangkips/pos-backoffice/internal/domain/enum"
	"github.com/sangkips/pos-backoffice/internal/domain/repository"
	"github.com/sangkips/pos-backoffice/pkg/apperror"
	"github.com/sangkips/pos-backoffice/pkg/pagination"
	"github.com/sangkips/pos-backoffice/pkg/utils"
)

// UserService manages the staff accounts of a store.
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new user service
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// ListUsers returns a page of the store's accounts.
func (s *UserService) ListUsers(ctx context.Context, params pagination.Params) (*pagination.Page[entity.User], error) {
	params.Normalize()
	users, total, err := s.userRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}
	return pagination.NewPage(users, params, total), nil
}

// CreateUserInput represents the create user input
type CreateUserInput struct {
	Name     string
	Email    string
	Password string
	Role     enum.Role
}

// CreateUser provisions an account in the caller's store.
func (s *UserService) CreateUser(ctx context.Context, input *CreateUserInput) (*entity.User, error) {
	tenantID, err := requireTenant(ctx)
	if err != nil {
		return nil, err
	}
	if !input.Role.Valid() {
		return nil, apperror.NewFieldError("role", "must be one of: admin manager cashier")
	}

	existing, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("Email already registered")
	}

	hashedPassword, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		TenantID: tenantID,
		Name:     strings.TrimSpace(input.Name),
		Email:    input.Email,
		Password: hashedPassword,
		Role:     input.Role,
		IsActive: true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateUserInput represents the update user input
type UpdateUserInput struct {
	ID       uuid.UUID
	ActorID  uuid.UUID
	Name     *string
	Role     *enum.Role
	IsActive *bool
}

// UpdateUser changes an account's name, role or active flag. Users cannot
// demote or disable themselves.
func (s *UserService) UpdateUser(ctx context.Context, input *UpdateUserInput) (*entity.User, error) {
	user, err := s.getInTenant(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		user.Name = strings.TrimSpace(*input.Name)
	}
	if input.Role != nil {
		if !input.Role.Valid() {
			return nil, apperror.NewFieldError("role", "must be one of: admin manager cashier")
		}
		if user.ID == input.ActorID && *input.Role != user.Role {
			return nil, apperror.NewBadRequestError("You cannot change your own role")
		}
		user.Role = *input.Role
	}
	if input.IsActive != nil {
		if user.ID == input.ActorID && !*input.IsActive {
			return nil, apperror.NewBadRequestError("You cannot disable your own account")
		}
		user.IsActive = *input.IsActive
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) getInTenant(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	tenantID, err := requireTenant(ctx)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil || user.TenantID != tenantID {
		return nil, apperror.NewNotFoundError("User")
	}
	return user, nil
}
