package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newWishlistCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wishlist",
		Short: "Show and change your wishlist",
	}
	list := func(cmd *cobra.Command) error {
		products := app.Store.Wishlist()
		out := cmd.OutOrStdout()
		if len(products) == 0 {
			fmt.Fprintln(out, "Your wishlist is empty")
			return nil
		}
		tw := newTable(out, "ID", "SLUG", "NAME", "PRICE")
		for _, p := range products {
			tw.row(fmt.Sprint(p.ID), p.Slug, p.Name, formatPrice(p))
		}
		return tw.flush()
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "Show the wishlist",
			RunE: func(cmd *cobra.Command, args []string) error {
				app.resume(cmd.Context())
				return list(cmd)
			},
		},
		&cobra.Command{
			Use:   "add <slug>",
			Short: "Save a product to the wishlist",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				detail, err := app.Catalog.GetProductDetails(cmd.Context(), slugArg(args))
				if err != nil {
					return err
				}
				app.resume(cmd.Context())
				report(cmd.ErrOrStderr(), app.Store.AddToWishlist(cmd.Context(), detail.Product))
				return list(cmd)
			},
		},
		&cobra.Command{
			Use:   "toggle <slug>",
			Short: "Save a product, or remove it if already saved",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				detail, err := app.Catalog.GetProductDetails(cmd.Context(), slugArg(args))
				if err != nil {
					return err
				}
				app.resume(cmd.Context())
				report(cmd.ErrOrStderr(), app.Store.ToggleWishlist(cmd.Context(), detail.Product))
				return list(cmd)
			},
		},
		&cobra.Command{
			Use:   "remove <product-id>",
			Short: "Remove a product from the wishlist",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseProductID(args[0])
				if err != nil {
					return err
				}
				app.resume(cmd.Context())
				report(cmd.ErrOrStderr(), app.Store.RemoveFromWishlist(cmd.Context(), id))
				return list(cmd)
			},
		},
	)
	return cmd
}
