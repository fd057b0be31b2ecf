package store

import (
	"context"
	"net/http"
	"sync"

	"emart-storefront/internal/domain"
)

var (
	networkErr = &domain.APIError{Kind: domain.KindNetwork, Message: "connection refused"}
	authErr    = &domain.APIError{Kind: domain.KindUnauthorized, Status: http.StatusUnauthorized, Message: "Given token not valid for any token type"}
)

func failed[T any](err *domain.APIError) domain.Response[T] {
	return domain.Response[T]{Status: err.Status, Err: err}
}

func ok[T any](v T) domain.Response[T] {
	return domain.Response[T]{Success: true, Status: http.StatusOK, Data: v}
}

// fakeAPI keeps a server-side cart and wishlist in memory.
type fakeAPI struct {
	mu sync.Mutex

	authed   bool
	user     domain.User
	password string
	loginErr *domain.APIError
	meErr    *domain.APIError

	cart     []domain.CartItem
	wishlist []domain.Product
	cartErr  *domain.APIError
	wishErr  *domain.APIError

	calls []string
	// beforeReply runs after a response is built and before it is returned.
	beforeReply func(op string)
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		user:     domain.User{ID: "1", Email: "ada@example.com", FirstName: "Ada", LastName: "Lovelace", Role: domain.RoleCustomer},
		password: "secret123",
	}
}

func (f *fakeAPI) record(op string) {
	f.mu.Lock()
	f.calls = append(f.calls, op)
	f.mu.Unlock()
}

func (f *fakeAPI) callCount(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == op {
			n++
		}
	}
	return n
}

func (f *fakeAPI) reply(op string) {
	f.mu.Lock()
	hook := f.beforeReply
	f.mu.Unlock()
	if hook != nil {
		hook(op)
	}
}

func (f *fakeAPI) IsAuthenticated() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.authed
}

func (f *fakeAPI) Login(_ context.Context, email, password string) domain.Response[domain.AuthResponse] {
	f.record("login")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loginErr != nil {
		return failed[domain.AuthResponse](f.loginErr)
	}
	if email != f.user.Email || password != f.password {
		return failed[domain.AuthResponse](&domain.APIError{Kind: domain.KindUnauthorized, Status: http.StatusUnauthorized, Message: "Invalid email or password"})
	}
	f.authed = true
	return ok(domain.AuthResponse{Access: "access-1", Refresh: "refresh-1", User: f.user})
}

func (f *fakeAPI) Signup(_ context.Context, req domain.SignupRequest) domain.Response[domain.AuthResponse] {
	f.record("signup")
	f.mu.Lock()
	defer f.mu.Unlock()
	if req.Email == f.user.Email {
		return failed[domain.AuthResponse](&domain.APIError{
			Kind: domain.KindValidation, Status: http.StatusBadRequest,
			Message: "email: user with this email already exists.",
			Fields:  map[string][]string{"email": {"user with this email already exists."}},
		})
	}
	f.authed = true
	f.user = domain.User{ID: "2", Email: req.Email, FirstName: req.FirstName, LastName: req.LastName, Role: domain.RoleCustomer}
	return ok(domain.AuthResponse{Access: "access-2", Refresh: "refresh-2", User: f.user})
}

func (f *fakeAPI) Logout(context.Context) domain.Response[struct{}] {
	f.record("logout")
	f.mu.Lock()
	defer f.mu.Unlock()
	f.authed = false
	return ok(struct{}{})
}

func (f *fakeAPI) Me(context.Context) domain.Response[domain.User] {
	f.record("me")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.meErr != nil {
		return failed[domain.User](f.meErr)
	}
	return ok(f.user)
}

func (f *fakeAPI) UpdateProfile(_ context.Context, update domain.ProfileUpdate) domain.Response[domain.User] {
	f.record("profile")
	f.mu.Lock()
	defer f.mu.Unlock()
	if update.FirstName != nil {
		f.user.FirstName = *update.FirstName
	}
	if update.LastName != nil {
		f.user.LastName = *update.LastName
	}
	return ok(f.user)
}

// cartOp applies mutate to the server cart and returns its snapshot.
func (f *fakeAPI) cartOp(op, code string, mutate func()) domain.Response[domain.Cart] {
	f.record("cart." + op)
	f.mu.Lock()
	var resp domain.Response[domain.Cart]
	if f.cartErr != nil {
		resp = failed[domain.Cart](f.cartErr)
	} else {
		mutate()
		items := append([]domain.CartItem(nil), f.cart...)
		resp = ok(domain.Cart{CartCode: code, Items: items, CartTotal: domain.CartTotal(items)})
	}
	f.mu.Unlock()
	f.reply("cart." + op)
	return resp
}

func (f *fakeAPI) CartGet(_ context.Context, code string) domain.Response[domain.Cart] {
	return f.cartOp("get", code, func() {})
}

func (f *fakeAPI) CartAdd(_ context.Context, code string, productID, quantity int) domain.Response[domain.Cart] {
	return f.cartOp("add", code, func() {
		for i := range f.cart {
			if f.cart[i].Product.ID == productID {
				f.cart[i].Quantity += quantity
				return
			}
		}
		f.cart = append(f.cart, domain.CartItem{Product: catalog[productID], Quantity: quantity})
	})
}

func (f *fakeAPI) CartUpdate(_ context.Context, code string, productID, quantity int) domain.Response[domain.Cart] {
	return f.cartOp("update", code, func() {
		for i := range f.cart {
			if f.cart[i].Product.ID == productID {
				f.cart[i].Quantity = quantity
			}
		}
	})
}

func (f *fakeAPI) CartRemove(_ context.Context, code string, productID int) domain.Response[domain.Cart] {
	return f.cartOp("remove", code, func() {
		out := f.cart[:0]
		for _, item := range f.cart {
			if item.Product.ID != productID {
				out = append(out, item)
			}
		}
		f.cart = out
	})
}

func (f *fakeAPI) CartClear(_ context.Context, code string) domain.Response[domain.Cart] {
	return f.cartOp("clear", code, func() { f.cart = nil })
}

func (f *fakeAPI) wishOp(op string, mutate func()) domain.Response[domain.Wishlist] {
	f.record("wishlist." + op)
	f.mu.Lock()
	var resp domain.Response[domain.Wishlist]
	if f.wishErr != nil {
		resp = failed[domain.Wishlist](f.wishErr)
	} else {
		mutate()
		var w domain.Wishlist
		for _, p := range f.wishlist {
			w.Items = append(w.Items, domain.WishlistEntry{Product: p})
		}
		resp = ok(w)
	}
	f.mu.Unlock()
	f.reply("wishlist." + op)
	return resp
}

func (f *fakeAPI) WishlistGet(context.Context) domain.Response[domain.Wishlist] {
	return f.wishOp("get", func() {})
}

func (f *fakeAPI) WishlistAdd(_ context.Context, productID int) domain.Response[domain.Wishlist] {
	return f.wishOp("add", func() {
		for _, p := range f.wishlist {
			if p.ID == productID {
				return
			}
		}
		f.wishlist = append(f.wishlist, catalog[productID])
	})
}

func (f *fakeAPI) WishlistRemove(_ context.Context, productID int) domain.Response[domain.Wishlist] {
	return f.wishOp("remove", func() {
		out := f.wishlist[:0]
		for _, p := range f.wishlist {
			if p.ID != productID {
				out = append(out, p)
			}
		}
		f.wishlist = out
	})
}

type fixedCodes struct {
	mu    sync.Mutex
	code  string
	err   error
	calls int
}

func (c *fixedCodes) Get() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	return c.code, c.err
}

func (c *fixedCodes) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

var catalog = map[int]domain.Product{
	3: {ID: 3, Name: "Desk Lamp", Slug: "desk-lamp", Price: 25},
	5: {ID: 5, Name: "Cotton Tee", Slug: "cotton-tee", Price: 10},
	7: {ID: 7, Name: "Canvas Tote", Slug: "canvas-tote", Price: 6, SalePrice: 4.5},
}
