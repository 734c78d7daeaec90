package session

import (
	"testing"

	"github.com/google/uuid"

	"github.com/mazaohq/mazao-pos-backend/pkg/enums"
)

func TestApplyIsPure(t *testing.T) {
	user := &Account{ID: uuid.New(), Role: enums.StaffRoleCashier}
	original := State{IsLoading: true}

	next := apply(original, eventSignedIn{user: user, shop: &Shop{Name: "A"}})

	if original.User != nil || !original.IsLoading {
		t.Fatalf("apply mutated its input: %+v", original)
	}
	if next.User == nil || next.IsLoading || next.IsLocked {
		t.Fatalf("unexpected post-login state: %+v", next)
	}
}

func TestApplyLockRequiresUser(t *testing.T) {
	next := apply(State{}, eventLocked{})
	if next.IsLocked {
		t.Fatalf("lock should be a no-op without a user")
	}

	next = apply(State{User: &Account{}}, eventLocked{})
	if !next.IsLocked {
		t.Fatalf("expected locked state")
	}
}

func TestApplyReconcileWins(t *testing.T) {
	stale := &Account{ID: uuid.New(), Email: "stale@x.test"}
	state := apply(State{}, eventHydrated{user: stale, shop: &Shop{Name: "Stale"}})

	fresh := &Account{ID: uuid.New(), Email: "fresh@x.test"}
	state = apply(state, eventReconciled{user: fresh, shop: &Shop{Name: "Fresh"}})

	if state.User.Email != "fresh@x.test" || state.Shop.Name != "Fresh" {
		t.Fatalf("reconcile must overwrite hydration: %+v", state)
	}

	// Reconcile with no remote session clears the optimistic identity.
	state = apply(state, eventReconciled{})
	if state.User != nil || state.Shop != nil || state.IsLocked {
		t.Fatalf("expected cleared state: %+v", state)
	}
}

func TestApplySignedOutResetsEverything(t *testing.T) {
	state := State{User: &Account{}, Shop: &Shop{}, IsLocked: true}
	next := apply(state, eventSignedOut{})
	if next.User != nil || next.Shop != nil || next.IsLocked || next.IsLoading {
		t.Fatalf("expected zero state, got %+v", next)
	}
	if next.IsAuthenticated() {
		t.Fatalf("signed-out state must be unauthenticated")
	}
}
