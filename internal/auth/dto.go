package auth

import (
	"time"

	"github.com/google/uuid"

	"github.com/mazaohq/mazao-pos-backend/internal/session"
	"github.com/mazaohq/mazao-pos-backend/pkg/enums"
)

// LoginRequest captures the credentials sent to the password login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// StaffLoginRequest captures the shop code and PIN for a till login.
type StaffLoginRequest struct {
	ShopCode string `json:"shop_code" validate:"required"`
	PIN      string `json:"pin" validate:"required,len=4,numeric"`
}

// UnlockRequest carries the PIN for a quick-unlock attempt.
type UnlockRequest struct {
	PIN string `json:"pin" validate:"required,len=4,numeric"`
}

// UserView is the session user shape returned to clients. The stored PIN
// never leaves the server.
type UserView struct {
	ID          uuid.UUID       `json:"id"`
	Email       string          `json:"email"`
	FullName    string          `json:"full_name"`
	Phone       *string         `json:"phone,omitempty"`
	ShopID      uuid.UUID       `json:"shop_id"`
	Role        enums.StaffRole `json:"role"`
	LastLoginAt *time.Time      `json:"last_login_at,omitempty"`
}

// ShopView is the session shop shape returned to clients.
type ShopView struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	LogoURL       *string   `json:"logo_url,omitempty"`
	Address       *string   `json:"address,omitempty"`
	Phone         *string   `json:"phone,omitempty"`
	Email         *string   `json:"email,omitempty"`
	Currency      string    `json:"currency"`
	ReceiptFooter *string   `json:"receipt_footer,omitempty"`
	ShopCode      *string   `json:"shop_code,omitempty"`
}

// LoginResponse contains the access token and the bound identity.
type LoginResponse struct {
	AccessToken      string    `json:"access_token"`
	ExpiresInMinutes int       `json:"expires_in_minutes"`
	User             *UserView `json:"user"`
	Shop             *ShopView `json:"shop"`
}

// UnlockResponse reports a PIN unlock attempt to the client.
type UnlockResponse struct {
	Unlocked     bool `json:"unlocked"`
	AttemptsLeft int  `json:"attempts_left"`
	LoggedOut    bool `json:"logged_out"`
}

// SessionView is the current session snapshot returned by the session endpoint.
type SessionView struct {
	Authenticated bool      `json:"authenticated"`
	Locked        bool      `json:"locked"`
	User          *UserView `json:"user,omitempty"`
	Shop          *ShopView `json:"shop,omitempty"`
}

func userView(a *session.Account) *UserView {
	if a == nil {
		return nil
	}
	return &UserView{
		ID:          a.ID,
		Email:       a.Email,
		FullName:    a.FullName,
		Phone:       a.Phone,
		ShopID:      a.ShopID,
		Role:        a.Role,
		LastLoginAt: a.LastLoginAt,
	}
}

func shopView(s *session.Shop) *ShopView {
	if s == nil {
		return nil
	}
	return &ShopView{
		ID:            s.ID,
		Name:          s.Name,
		LogoURL:       s.LogoURL,
		Address:       s.Address,
		Phone:         s.Phone,
		Email:         s.Email,
		Currency:      s.Currency,
		ReceiptFooter: s.ReceiptFooter,
		ShopCode:      s.ShopCode,
	}
}
