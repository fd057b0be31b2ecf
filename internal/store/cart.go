package store

import (
	"context"

	"emart-storefront/internal/domain"
	"emart-storefront/pkg/logger"
)

// AddToCart merges quantity into the product's line, creating it if absent.
// Quantities below one count as one.
func (s *Store) AddToCart(ctx context.Context, product domain.Product, quantity int) Outcome {
	if quantity < 1 {
		quantity = 1
	}
	quantity = clampQty(quantity, s.maxQty)
	code := s.cartCode(ctx)

	s.mu.Lock()
	s.state.Cart = addItem(s.state.Cart, product, quantity, s.maxQty)
	seq, authed := s.nextCartSeqLocked()
	snap, v := s.commitLocked()
	s.mu.Unlock()
	s.changed(snap, v)

	if !authed {
		return Outcome{Kind: Applied}
	}
	if code == "" {
		return cartCodeMissing()
	}
	return s.reconcileCart(ctx, seq, "add", s.api.CartAdd(ctx, code, product.ID, quantity))
}

// RemoveFromCart drops the product's line. Removing an absent product
// leaves the cart untouched.
func (s *Store) RemoveFromCart(ctx context.Context, productID int) Outcome {
	s.mu.Lock()
	idx := indexOfItem(s.state.Cart, productID)
	authed := s.state.IsLoggedIn()
	if idx < 0 && !authed {
		s.mu.Unlock()
		return Outcome{Kind: Applied}
	}
	s.mu.Unlock()

	code := s.cartCode(ctx)

	s.mu.Lock()
	if idx = indexOfItem(s.state.Cart, productID); idx >= 0 {
		s.state.Cart = append(s.state.Cart[:idx:idx], s.state.Cart[idx+1:]...)
	}
	seq, authed := s.nextCartSeqLocked()
	snap, v := s.commitLocked()
	s.mu.Unlock()
	s.changed(snap, v)

	if !authed {
		return Outcome{Kind: Applied}
	}
	if code == "" {
		return cartCodeMissing()
	}
	return s.reconcileCart(ctx, seq, "remove", s.api.CartRemove(ctx, code, productID))
}

// UpdateCartQuantity sets the product's quantity. Zero or less removes the
// line; quantities above the cap, when one is set, are clamped.
func (s *Store) UpdateCartQuantity(ctx context.Context, productID, quantity int) Outcome {
	if quantity < 1 {
		return s.RemoveFromCart(ctx, productID)
	}
	quantity = clampQty(quantity, s.maxQty)

	s.mu.Lock()
	idx := indexOfItem(s.state.Cart, productID)
	authed := s.state.IsLoggedIn()
	s.mu.Unlock()
	if idx < 0 && !authed {
		return Outcome{Kind: Applied}
	}

	code := s.cartCode(ctx)

	s.mu.Lock()
	if idx = indexOfItem(s.state.Cart, productID); idx >= 0 {
		cart := append([]domain.CartItem(nil), s.state.Cart...)
		cart[idx].Quantity = quantity
		s.state.Cart = cart
	}
	seq, authed := s.nextCartSeqLocked()
	snap, v := s.commitLocked()
	s.mu.Unlock()
	s.changed(snap, v)

	if !authed {
		return Outcome{Kind: Applied}
	}
	if code == "" {
		return cartCodeMissing()
	}
	return s.reconcileCart(ctx, seq, "update", s.api.CartUpdate(ctx, code, productID, quantity))
}

// ClearCart empties the cart locally and, when signed in, on the server.
func (s *Store) ClearCart(ctx context.Context) Outcome {
	code := s.cartCode(ctx)

	s.mu.Lock()
	s.state.Cart = nil
	seq, authed := s.nextCartSeqLocked()
	snap, v := s.commitLocked()
	s.mu.Unlock()
	s.changed(snap, v)

	if !authed {
		return Outcome{Kind: Applied}
	}
	if code == "" {
		return cartCodeMissing()
	}
	return s.reconcileCart(ctx, seq, "clear", s.api.CartClear(ctx, code))
}

// cartCode returns the anonymous cart identifier, generating it on first use.
// On failure the mutation still applies locally.
func (s *Store) cartCode(ctx context.Context) string {
	code, err := s.codes.Get()
	if err != nil {
		logger.WithContext(ctx).Warn().Err(err).Msg("Cart code unavailable, cart change kept local")
		return ""
	}
	return code
}

func cartCodeMissing() Outcome {
	return Outcome{Kind: Failed, Err: &domain.APIError{Kind: domain.KindUnknown, Message: "Cart identifier unavailable"}}
}

// nextCartSeqLocked issues a sequence number for a server call when the
// session is authenticated. Callers hold mu.
func (s *Store) nextCartSeqLocked() (uint64, bool) {
	if !s.state.IsLoggedIn() {
		return 0, false
	}
	s.cartSeq++
	return s.cartSeq, true
}

// reconcileCart applies a server cart snapshot unless it fails, answers an
// older request than the last applied one, or the session ended meanwhile.
func (s *Store) reconcileCart(ctx context.Context, seq uint64, op string, resp domain.Response[domain.Cart]) Outcome {
	if !resp.Success {
		err := resp.Failure()
		logger.WithContext(ctx).Warn().Err(err).Str("op", op).Msg("Cart sync failed, keeping local cart")
		s.expireIfRevoked(resp.Err)
		return Outcome{Kind: Failed, Err: err}
	}

	s.mu.Lock()
	if seq <= s.cartApplied || !s.state.IsLoggedIn() {
		s.mu.Unlock()
		logger.WithContext(ctx).Debug().Str("op", op).Uint64("seq", seq).Msg("Discarded stale cart snapshot")
		return Outcome{Kind: Stale}
	}
	s.cartApplied = seq
	s.state.Cart = normalizeCart(resp.Data.Items, s.maxQty)
	snap, v := s.commitLocked()
	s.mu.Unlock()
	s.changed(snap, v)
	return Outcome{Kind: Reconciled}
}

func addItem(cart []domain.CartItem, product domain.Product, quantity, maxQty int) []domain.CartItem {
	out := append([]domain.CartItem(nil), cart...)
	if idx := indexOfItem(out, product.ID); idx >= 0 {
		q := clampQty(out[idx].Quantity+quantity, maxQty)
		out[idx] = domain.CartItem{Product: product, Quantity: q}
		return out
	}
	return append(out, domain.CartItem{Product: product, Quantity: clampQty(quantity, maxQty)})
}

// clampQty caps q at maxQty; a maxQty below one means no cap.
func clampQty(q, maxQty int) int {
	if maxQty > 0 && q > maxQty {
		return maxQty
	}
	return q
}

// normalizeCart merges duplicate lines by product id, drops lines below one
// and applies the quantity cap, keeping first-seen order.
func normalizeCart(items []domain.CartItem, maxQty int) []domain.CartItem {
	out := make([]domain.CartItem, 0, len(items))
	for _, item := range items {
		if item.Quantity < 1 {
			continue
		}
		if idx := indexOfItem(out, item.Product.ID); idx >= 0 {
			out[idx].Quantity += item.Quantity
		} else {
			out = append(out, item)
		}
	}
	for i := range out {
		out[i].Quantity = clampQty(out[i].Quantity, maxQty)
	}
	return out
}

func indexOfItem(cart []domain.CartItem, productID int) int {
	for i, item := range cart {
		if item.Product.ID == productID {
			return i
		}
	}
	return -1
}
