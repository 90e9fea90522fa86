package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/stackgen-labs/stackgen/internal/catalog"
)

func init() {
	rootCmd.AddCommand(templatesCmd)
}

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List the template catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := catalog.Default()
		if err != nil {
			return fmt.Errorf("loading template catalog: %w", err)
		}

		fmt.Printf("Catalog version %s\n", cat.Version)
		for _, id := range cat.IDs() {
			fmt.Printf("  %s\n", id)
		}
		return nil
	},
}
