package store

import (
	"emart-storefront/internal/domain"
)

type Phase string

const (
	PhaseAnonymous      Phase = "anonymous"
	PhaseAuthenticating Phase = "authenticating"
	PhaseAuthenticated  Phase = "authenticated"
)

// State is a point-in-time copy of the store. Mutating it has no effect on
// the store.
type State struct {
	Phase         Phase
	User          *domain.User
	Cart          []domain.CartItem
	Wishlist      []domain.Product
	IsLoading     bool
	IsAuthChecked bool
	Error         string
}

func (s State) IsLoggedIn() bool {
	return s.Phase == PhaseAuthenticated && s.User != nil
}

func (s State) CartTotal() domain.Price {
	return domain.CartTotal(s.Cart)
}

func (s State) clone() State {
	out := s
	out.Cart = append([]domain.CartItem(nil), s.Cart...)
	out.Wishlist = append([]domain.Product(nil), s.Wishlist...)
	if s.User != nil {
		u := *s.User
		out.User = &u
	}
	return out
}

// Snapshot is the persisted subset of State.
type Snapshot struct {
	Cart       []domain.CartItem `json:"cart"`
	Wishlist   []domain.Product  `json:"wishlist"`
	User       *domain.User      `json:"user"`
	IsLoggedIn bool              `json:"isLoggedIn"`
}

type OutcomeKind int

const (
	// Applied: local-only mutation (anonymous session).
	Applied OutcomeKind = iota
	// Reconciled: the server snapshot replaced local state.
	Reconciled
	// Failed: the server call failed; the optimistic local state stands.
	Failed
	// Stale: the server answered, but a newer snapshot was already applied
	// (or the session ended), so this one was discarded.
	Stale
)

func (k OutcomeKind) String() string {
	switch k {
	case Applied:
		return "applied"
	case Reconciled:
		return "reconciled"
	case Failed:
		return "failed"
	case Stale:
		return "stale"
	default:
		return "unknown"
	}
}

// Outcome reports how a cart or wishlist mutation settled.
type Outcome struct {
	Kind OutcomeKind
	Err  error
}
