package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed <fixture.yaml>",
	Short: "Import a workspace catalog for an org",
	Long: `Creates or updates processes, roles, systems and actions from a YAML
fixture. Entities are matched by slug, so re-running a seed is safe. Cached
searches for the org are invalidated.

Examples:
  opsmapctl seed --org acme examples/agency/workspace.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireOrg(); err != nil {
			return err
		}

		data, err := os.ReadFile(filepath.Clean(args[0]))
		if err != nil {
			return fmt.Errorf("read fixture: %w", err)
		}

		client, err := openClient(cmd.Context())
		if err != nil {
			return err
		}
		defer client.Close()

		stats, err := client.Import(cmd.Context(), orgFlag, data)
		if err != nil {
			return err //nolint:wrapcheck // already prefixed by the client
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Imported into %s: %d processes, %d roles, %d systems, %d actions\n",
			orgFlag, stats.Processes, stats.Roles, stats.Systems, stats.Actions)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
