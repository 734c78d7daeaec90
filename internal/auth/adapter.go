package auth

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mazaohq/mazao-pos-backend/internal/session"
	"github.com/mazaohq/mazao-pos-backend/pkg/db/models"
	"github.com/mazaohq/mazao-pos-backend/pkg/security"
)

type staffRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.StaffUser, error)
	ListByShop(ctx context.Context, shopID uuid.UUID) ([]models.StaffUser, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

type shopRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Shop, error)
	FindByCode(ctx context.Context, code string) (*models.Shop, error)
}

// storeAdapter exposes the staff and shop repositories through the session
// manager's AccountStore surface.
type storeAdapter struct {
	staff staffRepository
	shops shopRepository
}

func newStoreAdapter(staff staffRepository, shops shopRepository) *storeAdapter {
	return &storeAdapter{staff: staff, shops: shops}
}

func (a *storeAdapter) FindByEmail(ctx context.Context, email string) (*session.Account, error) {
	user, err := a.staff.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return accountFromModel(user), nil
}

func (a *storeAdapter) FindShop(ctx context.Context, id uuid.UUID) (*session.Shop, error) {
	shop, err := a.shops.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return shopFromModel(shop), nil
}

func (a *storeAdapter) FindShopByCode(ctx context.Context, code string) (*session.Shop, error) {
	shop, err := a.shops.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	return shopFromModel(shop), nil
}

func (a *storeAdapter) ListStaff(ctx context.Context, shopID uuid.UUID) ([]session.Account, error) {
	rows, err := a.staff.ListByShop(ctx, shopID)
	if err != nil {
		return nil, err
	}
	accounts := make([]session.Account, 0, len(rows))
	for i := range rows {
		accounts = append(accounts, *accountFromModel(&rows[i]))
	}
	return accounts, nil
}

func (a *storeAdapter) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return a.staff.UpdateLastLogin(ctx, id, at)
}

func accountFromModel(u *models.StaffUser) *session.Account {
	if u == nil {
		return nil
	}
	pin := ""
	if u.PIN != nil {
		pin = *u.PIN
	}
	return &session.Account{
		ID:          u.ID,
		Email:       u.Email,
		FullName:    u.FullName,
		Phone:       u.Phone,
		ShopID:      u.ShopID,
		Role:        u.Role,
		IsActive:    u.IsActive,
		PIN:         pin,
		LastLoginAt: u.LastLoginAt,
	}
}

func shopFromModel(m *models.Shop) *session.Shop {
	if m == nil {
		return nil
	}
	return &session.Shop{
		ID:            m.ID,
		Name:          m.Name,
		LogoURL:       m.LogoURL,
		Address:       m.Address,
		Phone:         m.Phone,
		Email:         m.Email,
		TaxID:         m.TaxID,
		Currency:      m.Currency,
		ReceiptFooter: m.ReceiptFooter,
		ShopCode:      m.ShopCode,
	}
}

// dbVerifier checks credentials against the staff table. Each session
// manager owns one verifier, so the signed-in email is per-session state.
type dbVerifier struct {
	mu    sync.Mutex
	staff staffRepository
	email string
}

func newDBVerifier(staff staffRepository) *dbVerifier {
	return &dbVerifier{staff: staff}
}

func (v *dbVerifier) SignInWithPassword(ctx context.Context, email, password string) error {
	user, err := v.staff.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("unknown account")
		}
		return err
	}
	ok, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil || !ok {
		return errors.New("password mismatch")
	}

	v.mu.Lock()
	v.email = strings.ToLower(user.Email)
	v.mu.Unlock()
	return nil
}

func (v *dbVerifier) SignOut(_ context.Context) error {
	v.mu.Lock()
	v.email = ""
	v.mu.Unlock()
	return nil
}

func (v *dbVerifier) CurrentSession(_ context.Context) (string, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.email == "" {
		return "", session.ErrNoSession
	}
	return v.email, nil
}

// MarkSignedIn binds the verifier to an email without a password check, used
// by staff PIN logins where the password path never runs.
func (v *dbVerifier) MarkSignedIn(email string) {
	v.mu.Lock()
	v.email = strings.ToLower(email)
	v.mu.Unlock()
}
