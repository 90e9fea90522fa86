package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/stackgen-labs/stackgen/internal/apply"
	"github.com/stackgen-labs/stackgen/internal/branding"
	"github.com/stackgen-labs/stackgen/internal/catalog"
	"github.com/stackgen-labs/stackgen/internal/plan"
	"github.com/stackgen-labs/stackgen/internal/ports"
)

var (
	newFirstService string
	newTargetDir    string
	newBasePort     int
)

func init() {
	newCmd.Flags().StringVar(&newFirstService, "service", "api", "Name of the initial backend service")
	newCmd.Flags().StringVar(&newTargetDir, "root", ".", "Directory to create the solution under")
	newCmd.Flags().IntVar(&newBasePort, "base-port", 0, "Lowest port to allocate from (default: configured range)")
	rootCmd.AddCommand(newCmd)
}

var newCmd = &cobra.Command{
	Use:   "new <solution>",
	Short: "Scaffold a new solution",
	Long: `Scaffold a complete solution: workspace manifest, orchestrator, web
frontend, and one initial backend service, each with a freshly allocated
port pair.

Example:
  stackgen new Acme --service orders`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]

		cat, err := catalog.Default()
		if err != nil {
			return fmt.Errorf("loading template catalog: %w", err)
		}

		alloc := rebaseAllocator(allocatorFromConfig(), newBasePort)

		p, err := plan.NewSolution(cat, plan.SolutionDescriptor{
			Name:         name,
			TargetDir:    newTargetDir,
			FirstService: newFirstService,
		}, alloc)
		if err != nil {
			return err
		}

		result, err := apply.Execute(p)
		if err != nil {
			return err
		}

		fmt.Printf("Created solution %s at %s\n", name, p.SolutionRoot)
		printResult(result, p.Notes)

		fmt.Println("\nNext steps:")
		fmt.Printf("  1. cd %s/orchestrator && go run .\n", p.SolutionRoot)
		fmt.Printf("  2. Add more services with '%s add service <name>'\n", branding.CLIName())
		return nil
	},
}

// rebaseAllocator moves the allocator's range to start at base, keeping the
// configured span, so a high base port does not invert the range into an
// immediately exhausted one. A non-positive base leaves the range alone.
func rebaseAllocator(alloc ports.Allocator, base int) ports.Allocator {
	if base <= 0 {
		return alloc
	}
	span := alloc.Max - alloc.Min
	alloc.Min = base
	alloc.Max = base + span
	return alloc
}
