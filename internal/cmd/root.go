package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "bakery",
	Short: "Bakery - storefront backend",
	Long: `Bakery is the transactional backend for the bakery storefront:
accounts, catalog, carts, coupons, orders and reviews over a REST API.

Run the server with "bakery run"; load reference data (roles, categories,
order statuses, payment methods) with "bakery seed".`,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
