package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/stackgen-labs/stackgen/internal/solution"
)

var (
	listRoot string
	listJSON bool
)

func init() {
	listCmd.Flags().StringVar(&listRoot, "root", ".", "Solution root directory")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(listCmd)
}

// listEntry represents one unit for display. The solution root itself has
// no ports, so they are omitted from JSON when zero.
type listEntry struct {
	Kind string `json:"kind"`
	Name string `json:"name"`
	HTTP int    `json:"http_port,omitempty"`
	TLS  int    `json:"tls_port,omitempty"`
}

// entriesForSolution derives the display list: the manifest-backed root
// first, then every unit found by scanning the tree.
func entriesForSolution(root string) ([]listEntry, error) {
	manifest, err := solution.ReadManifest(root)
	if err != nil {
		return nil, err
	}
	units, err := solution.Scan(root)
	if err != nil {
		return nil, err
	}

	entries := make([]listEntry, 0, len(units)+1)
	entries = append(entries, listEntry{
		Kind: string(solution.KindSolutionRoot),
		Name: manifest.Name,
	})
	for _, u := range units {
		entries = append(entries, listEntry{
			Kind: string(u.Kind),
			Name: u.Name,
			HTTP: u.HTTPPort,
			TLS:  u.TLSPort,
		})
	}
	return entries, nil
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the units of a solution",
	Long:  `List every unit of a generated solution with its recorded ports, derived by scanning the solution tree.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		entries, err := entriesForSolution(listRoot)
		if err != nil {
			return err
		}

		if listJSON {
			out, err := json.MarshalIndent(entries, "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling unit list: %w", err)
			}
			fmt.Println(string(out))
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "KIND\tNAME\tHTTP\tTLS")
		for _, e := range entries {
			if e.HTTP == 0 {
				fmt.Fprintf(w, "%s\t%s\t-\t-\n", e.Kind, e.Name)
				continue
			}
			fmt.Fprintf(w, "%s\t%s\t%d\t%d\n", e.Kind, e.Name, e.HTTP, e.TLS)
		}
		return w.Flush()
	},
}
