package staff

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mazaohq/mazao-pos-backend/pkg/config"
	"github.com/mazaohq/mazao-pos-backend/pkg/db"
	"github.com/mazaohq/mazao-pos-backend/pkg/db/models"
	"github.com/mazaohq/mazao-pos-backend/pkg/enums"
	pkgerrors "github.com/mazaohq/mazao-pos-backend/pkg/errors"
	"github.com/mazaohq/mazao-pos-backend/pkg/security"
)

type staffRepository interface {
	Create(ctx context.Context, dto CreateStaffDTO) (*models.StaffUser, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.StaffUser, error)
	ListByShop(ctx context.Context, shopID uuid.UUID) ([]models.StaffUser, error)
	SetPIN(ctx context.Context, id uuid.UUID, pin *string) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
}

// CreateStaffInput is the admin-facing request to add a staff member.
type CreateStaffInput struct {
	Email    string          `json:"email" validate:"required,email"`
	Password string          `json:"password" validate:"required,min=8"`
	FullName string          `json:"full_name" validate:"required"`
	Phone    *string         `json:"phone,omitempty"`
	Role     enums.StaffRole `json:"role" validate:"required"`
	PIN      *string         `json:"pin,omitempty"`
}

// Service covers admin staff management for one shop.
type Service interface {
	Create(ctx context.Context, shopID uuid.UUID, input CreateStaffInput) (*StaffDTO, error)
	List(ctx context.Context, shopID uuid.UUID) ([]StaffDTO, error)
	SetPIN(ctx context.Context, shopID, staffID uuid.UUID, pin *string) (*StaffDTO, error)
	SetActive(ctx context.Context, shopID, staffID uuid.UUID, active bool) (*StaffDTO, error)
}

type service struct {
	repo        staffRepository
	passwordCfg config.PasswordConfig
}

// NewService builds the staff management service.
func NewService(repo staffRepository, passwordCfg config.PasswordConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("staff repository required")
	}
	return &service{repo: repo, passwordCfg: passwordCfg}, nil
}

func (s *service) Create(ctx context.Context, shopID uuid.UUID, input CreateStaffInput) (*StaffDTO, error) {
	if strings.TrimSpace(input.Email) == "" || strings.TrimSpace(input.FullName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email and full name are required")
	}
	if !input.Role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid role")
	}
	if len(input.Password) < 8 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "password must be at least 8 characters")
	}
	if input.PIN != nil {
		if err := security.ValidatePINFormat(*input.PIN); err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
		}
	}

	hash, err := security.HashPassword(input.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user, err := s.repo.Create(ctx, CreateStaffDTO{
		Email:        input.Email,
		PasswordHash: hash,
		FullName:     strings.TrimSpace(input.FullName),
		Phone:        input.Phone,
		ShopID:       shopID,
		Role:         input.Role,
		PIN:          input.PIN,
	})
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create staff user")
	}
	return FromModel(user), nil
}

func (s *service) List(ctx context.Context, shopID uuid.UUID) ([]StaffDTO, error) {
	users, err := s.repo.ListByShop(ctx, shopID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list staff")
	}
	out := make([]StaffDTO, 0, len(users))
	for i := range users {
		out = append(out, *FromModel(&users[i]))
	}
	return out, nil
}

func (s *service) SetPIN(ctx context.Context, shopID, staffID uuid.UUID, pin *string) (*StaffDTO, error) {
	if pin != nil {
		if err := security.ValidatePINFormat(*pin); err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
		}
	}
	user, err := s.findOwned(ctx, shopID, staffID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SetPIN(ctx, staffID, pin); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "set pin")
	}
	user.PIN = pin
	return FromModel(user), nil
}

func (s *service) SetActive(ctx context.Context, shopID, staffID uuid.UUID, active bool) (*StaffDTO, error) {
	user, err := s.findOwned(ctx, shopID, staffID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SetActive(ctx, staffID, active); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "set active flag")
	}
	user.IsActive = active
	return FromModel(user), nil
}

func (s *service) findOwned(ctx context.Context, shopID, staffID uuid.UUID) (*models.StaffUser, error) {
	user, err := s.repo.FindByID(ctx, staffID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "staff member not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load staff member")
	}
	if user.ShopID != shopID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "staff member not found")
	}
	return user, nil
}
