package session

import (
	"time"

	"github.com/google/uuid"

	"github.com/mazaohq/mazao-pos-backend/pkg/enums"
)

// Account is the in-session view of a staff member. PIN is carried so
// quick-unlock can compare without a round trip.
type Account struct {
	ID          uuid.UUID       `json:"id"`
	Email       string          `json:"email"`
	FullName    string          `json:"full_name"`
	Phone       *string         `json:"phone,omitempty"`
	ShopID      uuid.UUID       `json:"shop_id"`
	Role        enums.StaffRole `json:"role"`
	IsActive    bool            `json:"is_active"`
	PIN         string          `json:"pin,omitempty"`
	LastLoginAt *time.Time      `json:"last_login_at,omitempty"`
}

// Shop is the in-session view of the tenant record.
type Shop struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	LogoURL       *string   `json:"logo_url,omitempty"`
	Address       *string   `json:"address,omitempty"`
	Phone         *string   `json:"phone,omitempty"`
	Email         *string   `json:"email,omitempty"`
	TaxID         *string   `json:"tax_id,omitempty"`
	Currency      string    `json:"currency"`
	ReceiptFooter *string   `json:"receipt_footer,omitempty"`
	ShopCode      *string   `json:"shop_code,omitempty"`
}

// State is the full session snapshot. IsLocked is orthogonal to
// authentication: a locked session still has a user, it just needs a PIN
// before the till resumes.
type State struct {
	User      *Account
	Shop      *Shop
	IsLoading bool
	IsLocked  bool
}

// IsAuthenticated reports whether a user is bound to the session.
func (s State) IsAuthenticated() bool {
	return s.User != nil
}

type event interface {
	isEvent()
}

// eventHydrated carries the optimistic cache snapshot applied at startup.
type eventHydrated struct {
	user *Account
	shop *Shop
}

// eventReconciled carries canonical rows fetched from the store. It always
// overwrites whatever hydration put in place.
type eventReconciled struct {
	user *Account
	shop *Shop
}

// eventSignedIn is emitted by password and staff-PIN logins.
type eventSignedIn struct {
	user *Account
	shop *Shop
}

type eventLoadingDone struct{}

type eventLocked struct{}

type eventUnlocked struct{}

type eventSignedOut struct{}

func (eventHydrated) isEvent()    {}
func (eventReconciled) isEvent()  {}
func (eventSignedIn) isEvent()    {}
func (eventLoadingDone) isEvent() {}
func (eventLocked) isEvent()      {}
func (eventUnlocked) isEvent()    {}
func (eventSignedOut) isEvent()   {}

// apply is the pure transition function. It never performs I/O and never
// mutates its input.
func apply(s State, ev event) State {
	switch e := ev.(type) {
	case eventHydrated:
		s.User = e.user
		s.Shop = e.shop
		return s

	case eventReconciled:
		s.User = e.user
		s.Shop = e.shop
		if e.user == nil {
			s.IsLocked = false
		}
		return s

	case eventSignedIn:
		s.User = e.user
		s.Shop = e.shop
		s.IsLoading = false
		s.IsLocked = false
		return s

	case eventLoadingDone:
		s.IsLoading = false
		return s

	case eventLocked:
		if s.User != nil {
			s.IsLocked = true
		}
		return s

	case eventUnlocked:
		s.IsLocked = false
		return s

	case eventSignedOut:
		return State{}

	default:
		return s
	}
}
