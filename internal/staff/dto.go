package staff

import (
	"time"

	"github.com/google/uuid"

	"github.com/mazaohq/mazao-pos-backend/pkg/db/models"
	"github.com/mazaohq/mazao-pos-backend/pkg/enums"
)

// StaffDTO is the transport shape that omits credentials and the PIN.
type StaffDTO struct {
	ID          uuid.UUID       `json:"id"`
	Email       string          `json:"email"`
	FullName    string          `json:"full_name"`
	Phone       *string         `json:"phone,omitempty"`
	ShopID      uuid.UUID       `json:"shop_id"`
	Role        enums.StaffRole `json:"role"`
	IsActive    bool            `json:"is_active"`
	HasPIN      bool            `json:"has_pin"`
	LastLoginAt *time.Time      `json:"last_login_at,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// CreateStaffDTO holds the data required by the repo to persist a new staff user.
type CreateStaffDTO struct {
	Email        string
	PasswordHash string
	FullName     string
	Phone        *string
	ShopID       uuid.UUID
	Role         enums.StaffRole
	PIN          *string
	IsActive     *bool
}

func FromModel(u *models.StaffUser) *StaffDTO {
	if u == nil {
		return nil
	}
	return &StaffDTO{
		ID:          u.ID,
		Email:       u.Email,
		FullName:    u.FullName,
		Phone:       u.Phone,
		ShopID:      u.ShopID,
		Role:        u.Role,
		IsActive:    u.IsActive,
		HasPIN:      u.PIN != nil && *u.PIN != "",
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

func (c CreateStaffDTO) ToModel() *models.StaffUser {
	isActive := true
	if c.IsActive != nil {
		isActive = *c.IsActive
	}
	return &models.StaffUser{
		Email:        c.Email,
		PasswordHash: c.PasswordHash,
		FullName:     c.FullName,
		Phone:        c.Phone,
		ShopID:       c.ShopID,
		Role:         c.Role,
		PIN:          c.PIN,
		IsActive:     isActive,
	}
}
