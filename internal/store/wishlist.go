package store

import (
	"context"

	"emart-storefront/internal/domain"
	"emart-storefront/pkg/logger"
)

// AddToWishlist adds the product once; adding it again changes nothing
// locally.
func (s *Store) AddToWishlist(ctx context.Context, product domain.Product) Outcome {
	s.mu.Lock()
	present := indexOfProduct(s.state.Wishlist, product.ID) >= 0
	if !present {
		s.state.Wishlist = append(append([]domain.Product(nil), s.state.Wishlist...), product)
	}
	seq, authed := s.nextWishSeqLocked()
	if present && !authed {
		s.mu.Unlock()
		return Outcome{Kind: Applied}
	}
	snap, v := s.commitLocked()
	s.mu.Unlock()
	s.changed(snap, v)

	if !authed {
		return Outcome{Kind: Applied}
	}
	return s.reconcileWishlist(ctx, seq, "add", s.api.WishlistAdd(ctx, product.ID))
}

func (s *Store) RemoveFromWishlist(ctx context.Context, productID int) Outcome {
	s.mu.Lock()
	idx := indexOfProduct(s.state.Wishlist, productID)
	if idx >= 0 {
		s.state.Wishlist = append(s.state.Wishlist[:idx:idx], s.state.Wishlist[idx+1:]...)
	}
	seq, authed := s.nextWishSeqLocked()
	if idx < 0 && !authed {
		s.mu.Unlock()
		return Outcome{Kind: Applied}
	}
	snap, v := s.commitLocked()
	s.mu.Unlock()
	s.changed(snap, v)

	if !authed {
		return Outcome{Kind: Applied}
	}
	return s.reconcileWishlist(ctx, seq, "remove", s.api.WishlistRemove(ctx, productID))
}

// ToggleWishlist removes the product when present, otherwise adds it.
func (s *Store) ToggleWishlist(ctx context.Context, product domain.Product) Outcome {
	if s.IsInWishlist(product.ID) {
		return s.RemoveFromWishlist(ctx, product.ID)
	}
	return s.AddToWishlist(ctx, product)
}

func (s *Store) nextWishSeqLocked() (uint64, bool) {
	if !s.state.IsLoggedIn() {
		return 0, false
	}
	s.wishSeq++
	return s.wishSeq, true
}

func (s *Store) reconcileWishlist(ctx context.Context, seq uint64, op string, resp domain.Response[domain.Wishlist]) Outcome {
	if !resp.Success {
		err := resp.Failure()
		logger.WithContext(ctx).Warn().Err(err).Str("op", op).Msg("Wishlist sync failed, keeping local wishlist")
		s.expireIfRevoked(resp.Err)
		return Outcome{Kind: Failed, Err: err}
	}

	s.mu.Lock()
	if seq <= s.wishlistApplied || !s.state.IsLoggedIn() {
		s.mu.Unlock()
		logger.WithContext(ctx).Debug().Str("op", op).Uint64("seq", seq).Msg("Discarded stale wishlist snapshot")
		return Outcome{Kind: Stale}
	}
	s.wishlistApplied = seq
	s.state.Wishlist = dedupeProducts(resp.Data.Products())
	snap, v := s.commitLocked()
	s.mu.Unlock()
	s.changed(snap, v)
	return Outcome{Kind: Reconciled}
}

func dedupeProducts(products []domain.Product) []domain.Product {
	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if indexOfProduct(out, p.ID) < 0 {
			out = append(out, p)
		}
	}
	return out
}

func indexOfProduct(products []domain.Product, id int) int {
	for i, p := range products {
		if p.ID == id {
			return i
		}
	}
	return -1
}
