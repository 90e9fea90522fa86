package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/stackgen-labs/stackgen/internal/apply"
	"github.com/stackgen-labs/stackgen/internal/branding"
	"github.com/stackgen-labs/stackgen/internal/config"
	"github.com/stackgen-labs/stackgen/internal/ports"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` scaffolds a multi-project Go solution (an orchestrator, a web
frontend, and backend services) from a fixed template catalog, and can graft
new services into a solution it generated earlier.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.Load()
	},
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date
	return rootCmd.Execute()
}

// allocatorFromConfig builds the port allocator from user settings.
func allocatorFromConfig() ports.Allocator {
	return ports.Allocator{
		Min:         config.GetInt(config.KeyPortMin),
		Max:         config.GetInt(config.KeyPortMax),
		Stride:      config.GetInt(config.KeyPortStride),
		TLSOffset:   config.GetInt(config.KeyPortTLSOffset),
		MaxAttempts: config.GetInt(config.KeyPortMaxAttempts),
	}
}

// printResult reports everything a batch wrote or mutated, plus any
// planner notes and executor warnings.
func printResult(result *apply.Result, notes []string) {
	for _, path := range result.Written {
		fmt.Printf("  created  %s\n", path)
	}
	for _, path := range result.Mutated {
		fmt.Printf("  updated  %s\n", path)
	}
	for _, note := range notes {
		fmt.Printf("  note: %s\n", note)
	}
	if len(result.Warnings) > 0 {
		fmt.Println("\nWarnings:")
		for _, w := range result.Warnings {
			fmt.Printf("  - %s\n", w)
		}
	}
}
