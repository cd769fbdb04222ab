package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var searchLimit int

var searchCmd = &cobra.Command{
	Use:   "search <query...>",
	Short: "Search an org's catalog and print JSON results",
	Long: `Runs the same search as GET /api/v1/orgs/{org}/search and prints the
response as JSON.

Examples:
  opsmapctl search --org acme onboarding
  opsmapctl search --org acme --limit 5 "send invoice"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireOrg(); err != nil {
			return err
		}

		client, err := openClient(cmd.Context())
		if err != nil {
			return err
		}
		defer client.Close()

		resp, err := client.Search(cmd.Context(), orgFlag, strings.Join(args, " "), searchLimit)
		if err != nil {
			return err //nolint:wrapcheck // already prefixed by the client
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(resp); err != nil {
			return fmt.Errorf("encode response: %w", err)
		}
		return nil
	},
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 0, "Maximum results (default 20, max 50)")
	rootCmd.AddCommand(searchCmd)
}
