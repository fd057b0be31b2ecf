package cli

import (
	"fmt"

	"emart-storefront/internal/domain"
	"emart-storefront/pkg/utils"

	"github.com/spf13/cobra"
)

func newCartCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Show and change your cart",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "Show the cart",
			RunE: func(cmd *cobra.Command, args []string) error {
				st := app.resume(cmd.Context())
				return printCart(cmd, app, st.Cart)
			},
		},
		newCartAddCmd(app),
		&cobra.Command{
			Use:   "update <product-id> <quantity>",
			Short: "Set a product's quantity; 0 removes it",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseProductID(args[0])
				if err != nil {
					return err
				}
				qty := utils.ParseInt(args[1], -1)
				if qty < 0 {
					return &domain.FormError{Field: "quantity", Message: fmt.Sprintf("invalid quantity %q", args[1])}
				}
				st := app.resume(cmd.Context())
				if !hasItem(st.Cart, id) && !st.IsLoggedIn() {
					return fmt.Errorf("product %d is not in your cart", id)
				}
				report(cmd.ErrOrStderr(), app.Store.UpdateCartQuantity(cmd.Context(), id, qty))
				return printCart(cmd, app, app.Store.Cart())
			},
		},
		&cobra.Command{
			Use:   "remove <product-id>",
			Short: "Remove a product from the cart",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseProductID(args[0])
				if err != nil {
					return err
				}
				app.resume(cmd.Context())
				report(cmd.ErrOrStderr(), app.Store.RemoveFromCart(cmd.Context(), id))
				return printCart(cmd, app, app.Store.Cart())
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Empty the cart",
			RunE: func(cmd *cobra.Command, args []string) error {
				app.resume(cmd.Context())
				report(cmd.ErrOrStderr(), app.Store.ClearCart(cmd.Context()))
				fmt.Fprintln(cmd.OutOrStdout(), "Cart cleared")
				return nil
			},
		},
	)
	return cmd
}

func newCartAddCmd(app *App) *cobra.Command {
	var qty int
	cmd := &cobra.Command{
		Use:   "add <slug>",
		Short: "Add a product to the cart",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			detail, err := app.Catalog.GetProductDetails(cmd.Context(), slugArg(args))
			if err != nil {
				return err
			}
			app.resume(cmd.Context())
			report(cmd.ErrOrStderr(), app.Store.AddToCart(cmd.Context(), detail.Product, qty))
			return printCart(cmd, app, app.Store.Cart())
		},
	}
	cmd.Flags().IntVarP(&qty, "quantity", "q", 1, "quantity to add")
	return cmd
}

func printCart(cmd *cobra.Command, app *App, items []domain.CartItem) error {
	out := cmd.OutOrStdout()
	if len(items) == 0 {
		fmt.Fprintln(out, "Your cart is empty")
		return nil
	}
	tw := newTable(out, "ID", "PRODUCT", "QTY", "UNIT", "SUBTOTAL")
	for _, it := range items {
		tw.row(fmt.Sprint(it.Product.ID), it.Product.Name, fmt.Sprint(it.Quantity),
			fmt.Sprintf("%.2f", it.Product.EffectivePrice()), fmt.Sprintf("%.2f", it.SubTotal()))
	}
	if err := tw.flush(); err != nil {
		return err
	}
	fmt.Fprintf(out, "Total: %.2f (%d items)\n", domain.CartTotal(items), domain.CartCount(items))
	if app.Codes != nil {
		if code, err := app.Codes.Peek(); err == nil && code != "" {
			fmt.Fprintf(out, "Cart code: %s\n", code)
		}
	}
	return nil
}

func parseProductID(raw string) (int, error) {
	id := utils.ParseInt(raw, 0)
	if id <= 0 {
		return 0, &domain.FormError{Field: "product_id", Message: fmt.Sprintf("invalid product id %q", raw)}
	}
	return id, nil
}

func hasItem(items []domain.CartItem, id int) bool {
	for _, it := range items {
		if it.Product.ID == id {
			return true
		}
	}
	return false
}
