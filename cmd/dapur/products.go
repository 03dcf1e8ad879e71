package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nursyahid/dapur-ledger/internal/cli"
	"github.com/nursyahid/dapur-ledger/internal/model"
	"github.com/nursyahid/dapur-ledger/internal/resolve"
)

func productsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "products",
		Short: "Inspect the master catalog",
	}

	cmd.AddCommand(productsSearchCmd())
	cmd.AddCommand(productsMatchCmd())

	return cmd
}

func productsSearchCmd() *cobra.Command {
	var supplierID string

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search catalog products by name",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			query := ""
			if len(args) > 0 {
				query = args[0]
			}

			client, err := newLedgerClient()
			if err != nil {
				return err
			}

			products, err := client.SearchProducts(ctx, query, supplierID)
			if err != nil {
				return fmt.Errorf("failed to search products: %w", err)
			}

			if len(products) == 0 {
				fmt.Println(cli.FormatWarning("No products found."))
				return nil
			}

			printProducts(products)
			return nil
		},
	}

	cmd.Flags().StringVar(&supplierID, "supplier", "", "restrict to one trading unit ID")

	return cmd
}

// productsMatchCmd shows how a raw spreadsheet name would resolve, including
// the substring candidates, so ambiguous matches can be inspected.
func productsMatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "match <name>",
		Short: "Show how a raw name resolves against the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			client, err := newLedgerClient()
			if err != nil {
				return err
			}

			catalog, err := client.SearchProducts(ctx, "", "")
			if err != nil {
				return fmt.Errorf("failed to load catalog: %w", err)
			}

			match := resolve.Product(args[0], catalog)
			if match != nil {
				fmt.Println(cli.FormatSuccess(fmt.Sprintf("Resolved to %s (%s)", match.Name, match.ID)))
			} else {
				fmt.Println(cli.FormatWarning("No match."))
			}

			candidates := resolve.ProductCandidates(args[0], catalog)
			if len(candidates) > 1 {
				fmt.Println(cli.SubtleStyle.Render("Other containment candidates:"))
				for _, c := range candidates {
					fmt.Printf("  %s (%s)\n", c.Name, c.ID)
				}
			}
			return nil
		},
	}
}

func printProducts(products []model.Product) {
	fmt.Println(cli.FormatTitle(fmt.Sprintf("Products (%d)", len(products))))
	header := fmt.Sprintf("%-36s  %-30s  %-8s  %12s  %12s", "ID", "Name", "Unit", "Sell", "Cost")
	fmt.Println(cli.TableHeaderStyle.Render(header))
	for _, p := range products {
		fmt.Printf("%-36s  %-30s  %-8s  %12.2f  %12.2f\n", p.ID, p.Name, p.Unit, p.SellPrice, p.CostPrice)
	}
}
