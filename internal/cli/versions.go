package cli

import (
	"fmt"
	"strings"

	"github.com/nluyan/pkgpad/internal/registry"
	"github.com/spf13/cobra"
)

var versionsJSON bool

var versionsCmd = &cobra.Command{
	Use:   "versions <package-id>",
	Short: "List the published versions of a package",
	Long: `List every version of a package published by the first source that has it,
latest stable version first, then all versions in descending order.`,
	Args: cobra.ExactArgs(1),
	RunE: runVersions,
}

func init() {
	versionsCmd.Flags().BoolVar(&versionsJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(versionsCmd)
}

func runVersions(cmd *cobra.Command, args []string) error {
	id := strings.TrimSpace(args[0])
	a := newApp()

	results, err := a.aggregator.Search(cmd.Context(), registry.SearchRequest{
		Term:              id,
		IncludePrerelease: true,
		ExactMatch:        true,
	})
	if err != nil {
		return err
	}
	if len(results) == 0 {
		return fmt.Errorf("package %q not found in any source", id)
	}

	versions, err := a.aggregator.ResolveVersions(cmd.Context(), results[0])
	if err != nil {
		return err
	}

	if versionsJSON {
		return printJSON(cmd, map[string]any{
			"id":       results[0].Identity.ID,
			"source":   results[0].Source.Name,
			"versions": versions,
		})
	}
	for _, v := range versions {
		fmt.Fprintln(cmd.OutOrStdout(), v)
	}
	return nil
}
