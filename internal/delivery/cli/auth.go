package cli

import (
	"errors"
	"fmt"
	"time"

	"emart-storefront/internal/domain"
	"emart-storefront/internal/tokenstore"

	"github.com/spf13/cobra"
)

func newLoginCmd(app *App) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and sync your cart and wishlist",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Store.Login(cmd.Context(), email, password); err != nil {
				return err
			}
			st := app.Store.State()
			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s (%d items in cart)\n", st.User.Email, len(st.Cart))
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	return cmd
}

func newSignupCmd(app *App) *cobra.Command {
	var req domain.SignupRequest
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Store.Signup(cmd.Context(), req); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Welcome, %s!\n", app.Store.State().User.FullName())
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&req.FirstName, "first-name", "", "first name")
	f.StringVar(&req.LastName, "last-name", "", "last name")
	f.StringVar(&req.Email, "email", "", "account email")
	f.StringVar(&req.Password, "password", "", "password (at least 6 characters)")
	f.StringVar(&req.PasswordConfirm, "password-confirm", "", "repeat the password")
	return cmd
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out; the cart stays on this device",
		RunE: func(cmd *cobra.Command, args []string) error {
			app.Store.Logout(cmd.Context())
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
			return nil
		},
	}
}

func newWhoamiCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			st := app.resume(cmd.Context())
			out := cmd.OutOrStdout()
			if !st.IsLoggedIn() {
				fmt.Fprintln(out, "Not signed in")
				return nil
			}
			fmt.Fprintf(out, "%s <%s>\nrole: %s\n", st.User.FullName(), st.User.Email, st.User.Role)

			creds, _ := app.Tokens.Get()
			exp, err := tokenstore.AccessExpiry(creds.Access)
			switch {
			case errors.Is(err, domain.ErrNoCredentials):
			case err != nil:
				fmt.Fprintln(out, "access token: opaque")
			default:
				fmt.Fprintf(out, "access token expires: %s\n", exp.Local().Format(time.RFC1123))
			}
			return nil
		},
	}
}
