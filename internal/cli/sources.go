package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var sourcesJSON bool

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List configured package sources in priority order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a := newApp()
		s, err := a.settings.Get()
		if err != nil {
			return err
		}

		type sourceEntry struct {
			Name    string `json:"name"`
			URL     string `json:"url"`
			Enabled bool   `json:"enabled"`
		}
		entries := make([]sourceEntry, len(s.Sources))
		for i, src := range s.Sources {
			entries[i] = sourceEntry{Name: src.Name, URL: src.URL, Enabled: src.IsEnabled()}
		}

		if sourcesJSON {
			return printJSON(cmd, entries)
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "#\tNAME\tURL\tENABLED")
		for i, e := range entries {
			fmt.Fprintf(w, "%d\t%s\t%s\t%t\n", i+1, e.Name, e.URL, e.Enabled)
		}
		return w.Flush()
	},
}

func init() {
	sourcesCmd.Flags().BoolVar(&sourcesJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(sourcesCmd)
}
