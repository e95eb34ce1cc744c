package cli

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nluyan/pkgpad/internal/registry"
	"github.com/nluyan/pkgpad/internal/session"
	"github.com/nluyan/pkgpad/internal/telemetry"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	interactiveScript     string
	interactivePrerelease bool
	interactiveExact      bool
)

var interactiveCmd = &cobra.Command{
	Use:     "interactive",
	Aliases: []string{"i"},
	Short:   "Search packages line by line",
	Long: `Read search terms from standard input, one per line. Each line replaces the
current search; a search still running is cancelled.

Commands:
  :pre         toggle prerelease results
  :exact       toggle exact ID matching
  :install N   reference result N (prints the directive, or inserts it into --script)
  :quit        leave`,
	Args: cobra.NoArgs,
	RunE: runInteractive,
}

func init() {
	interactiveCmd.Flags().StringVar(&interactiveScript, "script", "", "Script file that :install inserts directives into")
	interactiveCmd.Flags().BoolVar(&interactivePrerelease, "prerelease", false, "Start with prerelease results enabled")
	interactiveCmd.Flags().BoolVar(&interactiveExact, "exact", false, "Start with exact matching enabled")
	rootCmd.AddCommand(interactiveCmd)
}

func runInteractive(cmd *cobra.Command, args []string) error {
	a := newApp()
	if _, err := a.settings.Get(); err != nil {
		return err
	}

	ctrl := session.New(a.aggregator, telemetry.NewLogReporter(zap.L()), session.WithContext(cmd.Context()))
	defer ctrl.Close()

	out := cmd.OutOrStdout()
	ctrl.OnInstall(func(r registry.PackageResult) {
		if err := emitDirective(cmd, r, interactiveScript); err != nil {
			printError(cmd, err)
		}
	})
	ctrl.SetExactMatch(interactiveExact)
	ctrl.SetPrerelease(interactivePrerelease)

	return interact(cmd.Context().Done(), cmd.InOrStdin(), out, ctrl)
}

// interact feeds input lines to ctrl until EOF, :quit or done is closed.
// After each search it prints the settled state.
func interact(done <-chan struct{}, in io.Reader, out io.Writer, ctrl *session.Controller) error {
	scanner := bufio.NewScanner(in)
	fmt.Fprint(out, "> ")
	for scanner.Scan() {
		if closed(done) {
			return nil
		}

		line := strings.TrimSpace(scanner.Text())
		cmd, arg, _ := strings.Cut(line, " ")
		switch cmd {
		case ":quit", ":q":
			return nil
		case ":pre":
			ctrl.SetPrerelease(!ctrl.State().Prerelease)
			ctrl.Wait()
			fmt.Fprintf(out, "prerelease: %t\n", ctrl.State().Prerelease)
			printSnapshot(out, ctrl.State())
		case ":exact":
			ctrl.SetExactMatch(!ctrl.State().ExactMatch)
			fmt.Fprintf(out, "exact match: %t (applies to the next search)\n", ctrl.State().ExactMatch)
		case ":install":
			n, err := strconv.Atoi(strings.TrimSpace(arg))
			packages := ctrl.State().Packages
			if err != nil || n < 1 || n > len(packages) {
				fmt.Fprintf(out, "usage: :install N (1-%d)\n", len(packages))
				break
			}
			ctrl.RequestInstall(packages[n-1])
		default:
			ctrl.SetSearchTerm(line)
			ctrl.Wait()
			if closed(done) {
				return nil
			}
			printSnapshot(out, ctrl.State())
		}
		fmt.Fprint(out, "> ")
	}
	return scanner.Err()
}

func closed(done <-chan struct{}) bool {
	select {
	case <-done:
		return true
	default:
		return false
	}
}

func printSnapshot(out io.Writer, s session.Snapshot) {
	switch s.Status {
	case session.Idle:
		if strings.TrimSpace(s.Term) != "" {
			fmt.Fprintln(out, "search failed")
		}
	case session.ResultsReady:
		if !s.MenuOpen {
			fmt.Fprintf(out, "no packages matching %q\n", strings.TrimSpace(s.Term))
			return
		}
		for i, p := range s.Packages {
			fmt.Fprintf(out, "%3d  %s %s  [%s]\n", i+1, p.Identity.ID, p.Identity.Version, p.Source.Name)
			if desc := firstLine(p.Description); desc != "" {
				fmt.Fprintf(out, "     %s\n", truncate(desc, 72))
			}
		}
	}
}
