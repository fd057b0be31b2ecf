// Package store holds the storefront session: authenticated user, cart and
// wishlist. Mutations apply locally first; authenticated sessions then
// reconcile against the server, whose snapshot replaces local state.
package store

import (
	"context"
	"sync"

	"emart-storefront/internal/domain"
	"emart-storefront/pkg/logger"
)

// API is the remote surface the store drives. *gateway.Client satisfies it.
type API interface {
	IsAuthenticated() bool

	Login(ctx context.Context, email, password string) domain.Response[domain.AuthResponse]
	Signup(ctx context.Context, req domain.SignupRequest) domain.Response[domain.AuthResponse]
	Logout(ctx context.Context) domain.Response[struct{}]
	Me(ctx context.Context) domain.Response[domain.User]
	UpdateProfile(ctx context.Context, update domain.ProfileUpdate) domain.Response[domain.User]

	CartGet(ctx context.Context, cartCode string) domain.Response[domain.Cart]
	CartAdd(ctx context.Context, cartCode string, productID, quantity int) domain.Response[domain.Cart]
	CartUpdate(ctx context.Context, cartCode string, productID, quantity int) domain.Response[domain.Cart]
	CartRemove(ctx context.Context, cartCode string, productID int) domain.Response[domain.Cart]
	CartClear(ctx context.Context, cartCode string) domain.Response[domain.Cart]

	WishlistGet(ctx context.Context) domain.Response[domain.Wishlist]
	WishlistAdd(ctx context.Context, productID int) domain.Response[domain.Wishlist]
	WishlistRemove(ctx context.Context, productID int) domain.Response[domain.Wishlist]
}

// CartCodes yields the anonymous cart identifier, generating it lazily.
type CartCodes interface {
	Get() (string, error)
}

// Persister saves and restores the persisted subset of the state.
type Persister interface {
	Load() (Snapshot, bool, error)
	Save(Snapshot) error
}

type Option func(*Store)

func WithPersister(p Persister) Option {
	return func(s *Store) { s.persist = p }
}

// WithMaxQuantity caps the quantity of a single cart item. Zero or less
// leaves quantities uncapped, the default.
func WithMaxQuantity(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.maxQty = n
		}
	}
}

type Store struct {
	api     API
	codes   CartCodes
	persist Persister
	maxQty  int

	mu    sync.Mutex
	state State

	// Sequence guards: a server snapshot is applied only if it answers a
	// request issued after the last applied one.
	cartSeq, cartApplied     uint64
	wishSeq, wishlistApplied uint64

	// version orders persisted snapshots so a slow Save never overwrites
	// a newer one.
	version   uint64
	persistMu sync.Mutex
	persisted uint64

	subMu   sync.Mutex
	subs    map[int]func(State)
	nextSub int
}

func New(api API, codes CartCodes, opts ...Option) *Store {
	s := &Store{
		api:   api,
		codes: codes,
		state: State{Phase: PhaseAnonymous},
		subs:  map[int]func(State){},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.restore()
	return s
}

func (s *Store) restore() {
	if s.persist == nil {
		return
	}
	snap, ok, err := s.persist.Load()
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to restore store snapshot, starting empty")
		return
	}
	if !ok {
		return
	}
	s.state.Cart = normalizeCart(snap.Cart, s.maxQty)
	s.state.Wishlist = dedupeProducts(snap.Wishlist)
	if snap.IsLoggedIn && snap.User != nil {
		u := *snap.User
		s.state.User = &u
		s.state.Phase = PhaseAuthenticated
	}
}

// State returns a copy of the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

func (s *Store) Cart() []domain.CartItem {
	return s.State().Cart
}

func (s *Store) CartTotal() domain.Price {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.CartTotal(s.state.Cart)
}

func (s *Store) CartCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.CartCount(s.state.Cart)
}

func (s *Store) Wishlist() []domain.Product {
	return s.State().Wishlist
}

func (s *Store) IsInWishlist(productID int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return indexOfProduct(s.state.Wishlist, productID) >= 0
}

func (s *Store) ClearError() {
	s.update(func(st *State) { st.Error = "" })
}

// Subscribe registers fn to receive a state copy after every change. The
// returned func unsubscribes.
func (s *Store) Subscribe(fn func(State)) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}

// update mutates state under the lock, then persists and notifies.
func (s *Store) update(fn func(st *State)) {
	s.mu.Lock()
	fn(&s.state)
	snap, v := s.commitLocked()
	s.mu.Unlock()
	s.changed(snap, v)
}

// commitLocked stamps a new version and copies the state. Callers hold mu.
func (s *Store) commitLocked() (State, uint64) {
	s.version++
	return s.state.clone(), s.version
}

func (s *Store) changed(snap State, v uint64) {
	if s.persist != nil {
		s.persistMu.Lock()
		if v > s.persisted {
			err := s.persist.Save(Snapshot{
				Cart:       snap.Cart,
				Wishlist:   snap.Wishlist,
				User:       snap.User,
				IsLoggedIn: snap.IsLoggedIn(),
			})
			if err != nil {
				logger.Warn().Err(err).Msg("Failed to persist store snapshot")
			}
			s.persisted = v
		}
		s.persistMu.Unlock()
	}

	s.subMu.Lock()
	subs := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.subMu.Unlock()
	for _, fn := range subs {
		fn(snap.clone())
	}
}
