package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/stackgen-labs/stackgen/internal/apply"
	"github.com/stackgen-labs/stackgen/internal/catalog"
	"github.com/stackgen-labs/stackgen/internal/plan"
	"github.com/stackgen-labs/stackgen/internal/solution"
)

var addRoot string

func init() {
	addCmd.PersistentFlags().StringVar(&addRoot, "root", ".", "Solution root directory")
	addCmd.AddCommand(addServiceCmd)
	rootCmd.AddCommand(addCmd)
}

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Graft a new unit into an existing solution",
}

var addServiceCmd = &cobra.Command{
	Use:   "service <name>",
	Short: "Add a backend service to an existing solution",
	Long: `Scaffold a new backend service under services/<name>/, add it to the
workspace manifest, and register it with the orchestrator. The solution
must have been generated by this tool; the service name must not collide
(case-insensitively) with any existing unit.

Example:
  stackgen add service billing`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]

		manifest, err := solution.ReadManifest(addRoot)
		if err != nil {
			return fmt.Errorf("not a solution root: %w", err)
		}

		units, err := solution.Scan(addRoot)
		if err != nil {
			return fmt.Errorf("scanning solution: %w", err)
		}

		cat, err := catalog.Default()
		if err != nil {
			return fmt.Errorf("loading template catalog: %w", err)
		}

		p, err := plan.AddUnit(cat, plan.UnitDescriptor{
			SolutionRoot: addRoot,
			SolutionName: manifest.Name,
			Name:         name,
		}, units, allocatorFromConfig())
		if err != nil {
			return err
		}

		result, err := apply.Execute(p)
		if err != nil {
			return err
		}

		fmt.Printf("Added service %s to %s\n", name, manifest.Name)
		printResult(result, p.Notes)
		return nil
	},
}
