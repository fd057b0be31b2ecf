package cli

import (
	"fmt"
	"strconv"
	"strings"

	"emart-storefront/internal/domain"
	"emart-storefront/pkg/utils"

	"github.com/spf13/cobra"
)

func newCategoriesCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List product categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			cats, err := app.Catalog.GetCategories(cmd.Context())
			if err != nil {
				return err
			}
			tw := newTable(cmd.OutOrStdout(), "SLUG", "NAME")
			for _, c := range cats {
				tw.row(c.Slug, c.Name)
			}
			return tw.flush()
		},
	}
}

func newCategoryCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "category <slug>",
		Short: "Show one category and its products",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.Catalog.GetCategory(cmd.Context(), slugArg(args))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (%s)\n", c.Name, c.Slug)
			if len(c.Products) == 0 {
				fmt.Fprintln(out, "No products in this category")
				return nil
			}
			tw := newTable(out, "ID", "SLUG", "NAME", "PRICE")
			for _, p := range c.Products {
				tw.row(fmt.Sprint(p.ID), p.Slug, p.Name, formatPrice(p))
			}
			return tw.flush()
		},
	}
}

func newProductsCmd(app *App) *cobra.Command {
	var (
		filter             domain.ProductFilter
		minPrice, maxPrice string
	)
	cmd := &cobra.Command{
		Use:   "products",
		Short: "Browse products",
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if filter.MinPrice, err = optionalPrice("min-price", minPrice); err != nil {
				return err
			}
			if filter.MaxPrice, err = optionalPrice("max-price", maxPrice); err != nil {
				return err
			}
			page, err := app.Catalog.ListProducts(cmd.Context(), filter)
			if err != nil {
				return err
			}
			tw := newTable(cmd.OutOrStdout(), "ID", "SLUG", "NAME", "PRICE", "RATING")
			for _, p := range page.Results {
				tw.row(fmt.Sprint(p.ID), p.Slug, p.Name, formatPrice(p), fmt.Sprintf("%.1f (%d)", p.Rating, p.ReviewsCount))
			}
			if err := tw.flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d of %d products\n", len(page.Results), page.Count)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&filter.Category, "category", "", "category slug")
	f.StringVar(&filter.Search, "search", "", "search text")
	f.StringVar(&minPrice, "min-price", "", "minimum price")
	f.StringVar(&maxPrice, "max-price", "", "maximum price")
	f.StringVar(&filter.Ordering, "ordering", "", "sort order, e.g. price or -created_at")
	f.IntVar(&filter.Page, "page", 0, "result page")
	return cmd
}

func newProductCmd(app *App) *cobra.Command {
	var refresh bool
	cmd := &cobra.Command{
		Use:   "product <slug>",
		Short: "Show one product",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			slug := slugArg(args)
			if refresh {
				app.Catalog.InvalidateProduct(slug)
			}
			p, err := app.Catalog.GetProductDetails(cmd.Context(), slug)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (#%d)\n", p.Name, p.ID)
			fmt.Fprintf(out, "price: %s\n", formatPrice(p.Product))
			if p.Category != nil {
				fmt.Fprintf(out, "category: %s\n", p.Category.Name)
			}
			fmt.Fprintf(out, "in stock: %d\n", p.Stock)
			if p.Description != "" {
				fmt.Fprintf(out, "\n%s\n", p.Description)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass the cached product")
	return cmd
}

// slugArg accepts either a slug or a name split across args.
func slugArg(args []string) string {
	return utils.GenerateSlug(strings.Join(args, " "))
}

func optionalPrice(flag, raw string) (*float64, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		return nil, &domain.FormError{Field: flag, Message: fmt.Sprintf("invalid %s %q", flag, raw)}
	}
	return &v, nil
}

func formatPrice(p domain.Product) string {
	if p.SalePrice > 0 && p.SalePrice < p.Price {
		return fmt.Sprintf("%.2f (was %.2f)", p.SalePrice, p.Price)
	}
	return fmt.Sprintf("%.2f", p.Price)
}
