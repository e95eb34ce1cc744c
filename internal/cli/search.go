package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/nluyan/pkgpad/internal/registry"
	"github.com/spf13/cobra"
)

var (
	searchPrerelease bool
	searchExact      bool
	searchTake       int
	searchJSON       bool
)

var searchCmd = &cobra.Command{
	Use:   "search <term>",
	Short: "Search the configured package sources",
	Long: `Search the configured package sources in priority order.

Results come from the first source that has any; sources are not merged.
A source that cannot be reached is skipped. Use --exact to keep only the
package whose ID equals the term (case-insensitive).`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().BoolVar(&searchPrerelease, "prerelease", false, "Include prerelease versions")
	searchCmd.Flags().BoolVar(&searchExact, "exact", false, "Only return the package whose ID equals the term")
	searchCmd.Flags().IntVar(&searchTake, "take", 0, "Maximum number of results (default from config)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(searchCmd)
}

// searchEntry represents a search result for display.
type searchEntry struct {
	ID          string   `json:"id"`
	Version     string   `json:"version"`
	Description string   `json:"description,omitempty"`
	Authors     []string `json:"authors,omitempty"`
	Downloads   int64    `json:"downloads"`
	Source      string   `json:"source"`
	Versions    []string `json:"versions"`
	Reference   string   `json:"reference"`
}

func runSearch(cmd *cobra.Command, args []string) error {
	term := strings.TrimSpace(args[0])
	if term == "" {
		return fmt.Errorf("search term is empty")
	}

	results, err := newApp().aggregator.Search(cmd.Context(), registry.SearchRequest{
		Term:              term,
		IncludePrerelease: searchPrerelease,
		ExactMatch:        searchExact,
		MaxResults:        searchTake,
	})
	if err != nil {
		return err
	}

	if len(results) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No packages found matching %q\n", term)
		return nil
	}

	entries := make([]searchEntry, len(results))
	for i, r := range results {
		entries[i] = newSearchEntry(r)
	}
	if searchJSON {
		return printJSON(cmd, entries)
	}
	return printSearchTable(cmd, entries)
}

func newSearchEntry(r registry.PackageResult) searchEntry {
	return searchEntry{
		ID:          r.Identity.ID,
		Version:     r.Identity.Version.String(),
		Description: r.Description,
		Authors:     r.Authors,
		Downloads:   r.Downloads,
		Source:      r.Source.Name,
		Versions:    r.Versions(),
		Reference:   registry.Reference(r),
	}
}

func printSearchTable(cmd *cobra.Command, entries []searchEntry) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tVERSION\tDOWNLOADS\tSOURCE\tDESCRIPTION")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n", e.ID, e.Version, e.Downloads, e.Source, truncate(firstLine(e.Description), 60))
	}
	return w.Flush()
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, "\r\n"); i >= 0 {
		return s[:i]
	}
	return s
}
