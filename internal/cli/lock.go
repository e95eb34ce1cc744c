package cli

import (
	"fmt"

	"github.com/nluyan/pkgpad/internal/lockfile"
	"github.com/spf13/cobra"
)

func init() {
	lockCmd.AddCommand(lockValidateCmd)
	rootCmd.AddCommand(lockCmd)
}

var lockCmd = &cobra.Command{
	Use:   "lock",
	Short: "Inspect lock manifests",
}

var lockValidateCmd = &cobra.Command{
	Use:   "validate <project.assets.json>",
	Short: "Check a lock manifest against its schema",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := lockfile.ValidateFile(args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if result.Valid {
			fmt.Fprintf(out, "%s: valid\n", args[0])
			return nil
		}

		fmt.Fprintf(out, "%s: %d issue(s)\n", args[0], len(result.Issues))
		for _, issue := range result.Issues {
			path := issue.Path
			if path == "" {
				path = "/"
			}
			fmt.Fprintf(out, "  %s: %s (%s)\n", path, issue.Message, issue.Keyword)
		}
		return fmt.Errorf("%s is not a valid lock manifest", args[0])
	},
}
