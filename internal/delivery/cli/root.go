// Package cli is the command-line storefront: cobra commands over the
// session store and the catalog service.
package cli

import (
	"context"
	"fmt"
	"io"

	"emart-storefront/internal/domain"
	"emart-storefront/internal/store"
	"emart-storefront/internal/tokenstore"

	"github.com/spf13/cobra"
)

// Catalog is the read side of the product catalog.
type Catalog interface {
	GetCategories(ctx context.Context) ([]domain.Category, error)
	GetCategory(ctx context.Context, slug string) (*domain.Category, error)
	ListProducts(ctx context.Context, filter domain.ProductFilter) (*domain.Page[domain.Product], error)
	GetProductDetails(ctx context.Context, slug string) (*domain.ProductDetail, error)
	InvalidateProduct(slug string)
}

// CartCodes exposes the anonymous cart identifier without generating one.
type CartCodes interface {
	Peek() (string, error)
}

type App struct {
	Store   *store.Store
	Catalog Catalog
	Tokens  tokenstore.Store
	Codes   CartCodes
}

func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "emart",
		Short:         "E-Mart storefront on the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newLoginCmd(app),
		newSignupCmd(app),
		newLogoutCmd(app),
		newWhoamiCmd(app),
		newCategoriesCmd(app),
		newCategoryCmd(app),
		newProductsCmd(app),
		newProductCmd(app),
		newCartCmd(app),
		newWishlistCmd(app),
	)
	return root
}

// resume restores the session from stored credentials before commands that
// act on the user's cart, wishlist or profile.
func (a *App) resume(ctx context.Context) store.State {
	a.Store.InitializeAuth(ctx)
	return a.Store.State()
}

// report prints how a cart or wishlist change settled. A failed sync is
// not a command failure: the change is kept locally.
func report(w io.Writer, out store.Outcome) {
	switch out.Kind {
	case store.Failed:
		fmt.Fprintf(w, "warning: saved locally, server sync failed: %v\n", out.Err)
	case store.Stale:
		fmt.Fprintln(w, "note: a newer server cart was already applied")
	}
}
