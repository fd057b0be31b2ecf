package store

import (
	"context"
	"errors"

	"emart-storefront/internal/domain"
	"emart-storefront/pkg/logger"
)

const (
	msgLoginFailed    = "Invalid credentials. Please try again."
	msgSignupFailed   = "Failed to create account. Please try again."
	msgNetwork        = "Network error. Please check your connection."
	msgSessionExpired = "Your session has expired. Please sign in again."
)

// Login validates the form, authenticates and reconciles the session. Form
// errors are returned without touching state.
func (s *Store) Login(ctx context.Context, email, password string) error {
	if err := validateLogin(email, password); err != nil {
		return err
	}
	prev := s.beginAuth()
	resp := s.api.Login(ctx, email, password)
	if !resp.Success {
		return s.failAuth(ctx, prev, resp.Err, msgLoginFailed)
	}
	s.completeAuth(ctx, resp.Data.User)
	return nil
}

// Signup validates the form, creates the account and reconciles the session.
func (s *Store) Signup(ctx context.Context, req domain.SignupRequest) error {
	if err := validateSignup(req); err != nil {
		return err
	}
	prev := s.beginAuth()
	resp := s.api.Signup(ctx, req)
	if !resp.Success {
		return s.failAuth(ctx, prev, resp.Err, msgSignupFailed)
	}
	s.completeAuth(ctx, resp.Data.User)
	return nil
}

// Logout ends the session and clears credentials. The cart and wishlist are
// kept as last known.
func (s *Store) Logout(ctx context.Context) {
	resp := s.api.Logout(ctx)
	if !resp.Success {
		logger.WithContext(ctx).Warn().Err(resp.Failure()).Msg("Server logout failed, credentials cleared locally")
	}
	s.endSession("")
}

// InitializeAuth resolves the session from stored credentials. Without
// credentials, or when the server rejects them, the session is anonymous.
func (s *Store) InitializeAuth(ctx context.Context) {
	if !s.api.IsAuthenticated() {
		s.update(func(st *State) {
			st.Phase = PhaseAnonymous
			st.User = nil
			st.IsAuthChecked = true
		})
		return
	}

	s.update(func(st *State) { st.IsLoading = true })
	resp := s.api.Me(ctx)
	if !resp.Success {
		if resp.Err.IsNetwork() && s.api.IsAuthenticated() {
			// Offline with credentials: keep a restored session as is.
			logger.WithContext(ctx).Warn().Err(resp.Failure()).Msg("Could not verify session, keeping stored state")
			s.update(func(st *State) {
				st.IsLoading = false
				st.IsAuthChecked = true
			})
			return
		}
		logger.WithContext(ctx).Info().Err(resp.Failure()).Msg("Stored session rejected")
		s.update(func(st *State) {
			st.Phase = PhaseAnonymous
			st.User = nil
			st.IsLoading = false
			st.IsAuthChecked = true
		})
		return
	}
	s.completeAuth(ctx, resp.Data)
}

// UpdateProfile patches the signed-in user's profile.
func (s *Store) UpdateProfile(ctx context.Context, update domain.ProfileUpdate) error {
	if !s.State().IsLoggedIn() {
		return domain.ErrNoCredentials
	}
	resp := s.api.UpdateProfile(ctx, update)
	if !resp.Success {
		s.expireIfRevoked(resp.Err)
		return resp.Failure()
	}
	user := resp.Data
	s.update(func(st *State) {
		if st.IsLoggedIn() {
			st.User = &user
		}
	})
	return nil
}

// authSession is the phase and user in place before an auth attempt.
type authSession struct {
	phase Phase
	user  *domain.User
}

func (s *Store) beginAuth() authSession {
	var prev authSession
	s.update(func(st *State) {
		prev = authSession{phase: st.Phase, user: st.User}
		st.Phase = PhaseAuthenticating
		st.IsLoading = true
		st.Error = ""
	})
	return prev
}

// failAuth reports a failed attempt and puts back the session that was in
// place before it, unless the session changed meanwhile.
func (s *Store) failAuth(ctx context.Context, prev authSession, apiErr *domain.APIError, fallback string) error {
	msg := fallback
	switch {
	case apiErr.IsNetwork():
		msg = msgNetwork
	case apiErr != nil && apiErr.Message != "":
		msg = apiErr.Message
	}
	logger.WithContext(ctx).Info().Str("reason", msg).Msg("Authentication failed")
	s.update(func(st *State) {
		if st.Phase == PhaseAuthenticating {
			st.Phase = prev.phase
			st.User = prev.user
		}
		if st.Phase == PhaseAuthenticating {
			st.Phase = PhaseAnonymous
		}
		st.IsLoading = false
		st.Error = msg
	})
	if apiErr == nil {
		return errors.New(msg)
	}
	return apiErr
}

// completeAuth enters the authenticated phase and runs the one-time
// reconciliation against the server cart and wishlist.
func (s *Store) completeAuth(ctx context.Context, user domain.User) {
	s.update(func(st *State) {
		st.Phase = PhaseAuthenticated
		st.User = &user
		st.IsLoading = false
		st.IsAuthChecked = true
		st.Error = ""
	})
	s.reconcileSession(ctx)
}

// reconcileSession replaces local cart and wishlist with the server's, each
// only when its fetch succeeds. The cart is addressed by the anonymous cart
// identifier so a guest cart is adopted.
func (s *Store) reconcileSession(ctx context.Context) {
	l := logger.WithContext(ctx)

	if code := s.cartCode(ctx); code != "" {
		s.mu.Lock()
		seq, ok := s.nextCartSeqLocked()
		s.mu.Unlock()
		if ok {
			out := s.reconcileCart(ctx, seq, "fetch", s.api.CartGet(ctx, code))
			l.Debug().Str("outcome", out.Kind.String()).Msg("Cart reconciled on sign-in")
		}
	}

	s.mu.Lock()
	seq, ok := s.nextWishSeqLocked()
	s.mu.Unlock()
	if ok {
		out := s.reconcileWishlist(ctx, seq, "fetch", s.api.WishlistGet(ctx))
		l.Debug().Str("outcome", out.Kind.String()).Msg("Wishlist reconciled on sign-in")
	}
}

// expireIfRevoked ends the session when a call failed on authorization and
// the gateway has dropped the credentials after a failed refresh.
func (s *Store) expireIfRevoked(apiErr *domain.APIError) {
	if !apiErr.IsAuth() || s.api.IsAuthenticated() {
		return
	}
	if !s.State().IsLoggedIn() {
		return
	}
	logger.Info().Msg("Refresh token exhausted, session ended")
	s.endSession(msgSessionExpired)
}

// endSession drops to anonymous. Pending server snapshots become stale.
func (s *Store) endSession(msg string) {
	s.update(func(st *State) {
		st.Phase = PhaseAnonymous
		st.User = nil
		st.IsLoading = false
		st.Error = msg
		s.cartApplied = s.cartSeq
		s.wishlistApplied = s.wishSeq
	})
}
