package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/nluyan/pkgpad/internal/registry"
	"github.com/spf13/cobra"
)

var (
	installVersion    string
	installPrerelease bool
	installScript     string
)

var installCmd = &cobra.Command{
	Use:   "install <package-id>",
	Short: "Reference a package from a script",
	Long: `Look up a package and emit the #r "nuget:Id/Version" directive that references it.

With --script the directive is inserted at the top of the given script file;
otherwise it is printed. Packages are not downloaded.`,
	Args: cobra.ExactArgs(1),
	RunE: runInstall,
}

func init() {
	installCmd.Flags().StringVar(&installVersion, "version", "", "Version to reference (default: the version the source reports)")
	installCmd.Flags().BoolVar(&installPrerelease, "prerelease", false, "Consider prerelease versions")
	installCmd.Flags().StringVar(&installScript, "script", "", "Script file to insert the directive into")
	rootCmd.AddCommand(installCmd)
}

func runInstall(cmd *cobra.Command, args []string) error {
	id := strings.TrimSpace(args[0])

	results, err := newApp().aggregator.Search(cmd.Context(), registry.SearchRequest{
		Term:              id,
		IncludePrerelease: installPrerelease || installVersion != "",
		ExactMatch:        true,
	})
	if err != nil {
		return err
	}
	if len(results) == 0 {
		return fmt.Errorf("package %q not found in any source", id)
	}

	r, err := pickVersion(results[0], installVersion)
	if err != nil {
		return err
	}
	return emitDirective(cmd, r, installScript)
}

// pickVersion returns r pinned to version, which must be one the source
// publishes. An empty version keeps r as is.
func pickVersion(r registry.PackageResult, version string) (registry.PackageResult, error) {
	if version == "" {
		return r, nil
	}
	want, err := registry.ParseVersion(version)
	if err != nil {
		return r, err
	}
	for _, v := range r.OtherVersions {
		if v.Equal(want) {
			r.Identity.Version = v
			return r, nil
		}
	}
	return r, fmt.Errorf("%s has no version %s (available: %s)", r.Identity.ID, version, strings.Join(r.Versions(), ", "))
}

// emitDirective prints the directive for r, or inserts it at the top of
// script when one is given.
func emitDirective(cmd *cobra.Command, r registry.PackageResult, script string) error {
	directive := registry.Directive(r)
	if script == "" {
		fmt.Fprintln(cmd.OutOrStdout(), directive)
		return nil
	}

	inserted, err := insertDirective(script, directive)
	if err != nil {
		return err
	}
	if inserted {
		fmt.Fprintf(cmd.OutOrStdout(), "Added %s to %s\n", directive, script)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "%s already references %s\n", script, registry.Reference(r))
	}
	return nil
}

// insertDirective prepends directive to the file at path, creating it when
// missing. It reports false when the file already has the directive.
func insertDirective(path, directive string) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return false, fmt.Errorf("reading script %s: %w", path, err)
	}

	for _, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) == directive {
			return false, nil
		}
	}

	content := directive + "\n" + string(data)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return false, fmt.Errorf("writing script %s: %w", path, err)
	}
	return true, nil
}
