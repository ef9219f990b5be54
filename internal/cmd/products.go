package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vxhub/vxhub-cli/internal/api"
	"github.com/vxhub/vxhub-cli/internal/cache"
	"github.com/vxhub/vxhub-cli/internal/outfmt"
	"github.com/vxhub/vxhub-cli/internal/resolve"
)

func newProductsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "products",
		Aliases: []string{"prod"},
		Short:   "Browse the hub's product catalog",
	}

	cmd.AddCommand(newProductsListCmd())
	cmd.AddCommand(newProductsShowCmd())

	return cmd
}

// productsStore returns the response cache for the product catalog, which
// changes rarely and is fetched on almost every command.
func productsStore(baseURL, hubID string) cache.Store {
	dir, err := cache.DefaultDir()
	if err != nil {
		dir = ""
	}
	return cache.NewStore(dir, "products", baseURL, hubID)
}

func fetchProducts(cmd *cobra.Command, noCache bool) ([]api.Product, error) {
	client, account, err := newClientFactory().hub()
	if err != nil {
		return nil, err
	}

	store := productsStore(account.BaseURL, account.HubID)
	if !noCache {
		var cached []api.Product
		if store.Get(&cached) {
			return cached, nil
		}
	}

	list, err := client.Products().List(cmd.Context())
	if err != nil {
		return nil, err
	}
	store.Put(list.Products)
	return list.Products, nil
}

func newProductsListCmd() *cobra.Command {
	var noCache bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List purchasable products",
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			products, err := fetchProducts(cmd, noCache)
			if err != nil {
				return err
			}

			f := outfmt.NewFormatter(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr())
			if outfmt.IsJSON(cmd.Context()) {
				return f.Output(products)
			}
			if len(products) == 0 {
				f.Empty("No products available")
				return nil
			}
			f.StartTable([]string{"SKU", "NAME", "PRICE", "PERIOD"})
			for _, p := range products {
				price := fmt.Sprintf("%.2f %s", float64(p.Price), p.Currency)
				f.Row(p.SKU, p.Name, price, p.Period)
			}
			return f.EndTable()
		}),
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "Bypass the local product cache")

	return cmd
}

func newProductsShowCmd() *cobra.Command {
	var noCache bool

	cmd := &cobra.Command{
		Use:   "show NAME_OR_SKU",
		Short: "Show one product, resolving fuzzy names to SKUs",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			products, err := fetchProducts(cmd, noCache)
			if err != nil {
				return err
			}

			named := make([]resolve.Named, len(products))
			for i, p := range products {
				named[i] = resolve.Named{Key: p.SKU, Name: p.Name}
			}
			sku, err := resolve.FuzzyMatch(args[0], named)
			if err != nil {
				return err
			}

			var product *api.Product
			for i := range products {
				if products[i].SKU == sku {
					product = &products[i]
					break
				}
			}
			if product == nil {
				return fmt.Errorf("product %q not found", sku)
			}

			f := outfmt.NewFormatter(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr())
			if outfmt.IsJSON(cmd.Context()) {
				return f.Output(product)
			}
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "SKU:    %s\n", product.SKU)
			_, _ = fmt.Fprintf(out, "Name:   %s\n", product.Name)
			_, _ = fmt.Fprintf(out, "Price:  %.2f %s\n", float64(product.Price), product.Currency)
			if product.Period != "" {
				_, _ = fmt.Fprintf(out, "Period: %s\n", product.Period)
			}
			return nil
		}),
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "Bypass the local product cache")

	return cmd
}
