package cli

import (
	"fmt"

	"github.com/nluyan/pkgpad/internal/config"
	"github.com/nluyan/pkgpad/internal/lockfile"
	"github.com/spf13/cobra"
)

var (
	assetsFramework string
	assetsPackages  string
	assetsJSON      bool
)

var assetsCmd = &cobra.Command{
	Use:   "assets <project.assets.json>",
	Short: "Resolve the assets of a restored project for one framework",
	Long: `Resolve the compile, runtime and analyzer assets listed in a lock manifest
(project.assets.json) for one target framework.

Paths are rooted at the global packages folder (--packages, the
globalPackagesFolder setting, $NUGET_PACKAGES or ~/.nuget/packages).
Without --framework the frameworks present in the manifest are listed.`,
	Args: cobra.ExactArgs(1),
	RunE: runAssets,
}

func init() {
	assetsCmd.Flags().StringVarP(&assetsFramework, "framework", "f", "", "Target framework (e.g. net8.0)")
	assetsCmd.Flags().StringVar(&assetsPackages, "packages", "", "Packages root directory")
	assetsCmd.Flags().BoolVar(&assetsJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(assetsCmd)
}

// assetsOutput is the JSON shape of a resolved asset set.
type assetsOutput struct {
	Framework string   `json:"framework"`
	Packages  string   `json:"packages"`
	Compile   []string `json:"compile"`
	Runtime   []string `json:"runtime"`
	Analyzers []string `json:"analyzers"`
}

func runAssets(cmd *cobra.Command, args []string) error {
	m, err := lockfile.Load(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if assetsFramework == "" {
		frameworks := lockfile.Frameworks(m)
		if assetsJSON {
			return printJSON(cmd, frameworks)
		}
		if len(frameworks) == 0 {
			fmt.Fprintln(out, "No target frameworks in manifest")
			return nil
		}
		for _, fw := range frameworks {
			fmt.Fprintln(out, fw)
		}
		return nil
	}

	packagesDir, err := packagesRoot()
	if err != nil {
		return err
	}

	set, err := lockfile.ResolveAssets(m, packagesDir, assetsFramework)
	if err != nil {
		return err
	}

	if assetsJSON {
		return printJSON(cmd, assetsOutput{
			Framework: assetsFramework,
			Packages:  packagesDir,
			Compile:   set.Compile,
			Runtime:   set.Runtime,
			Analyzers: set.Analyzers,
		})
	}

	for _, group := range []struct {
		name  string
		paths []string
	}{
		{"Compile", set.Compile},
		{"Runtime", set.Runtime},
		{"Analyzers", set.Analyzers},
	} {
		fmt.Fprintf(out, "%s (%d):\n", group.name, len(group.paths))
		for _, p := range group.paths {
			fmt.Fprintf(out, "  %s\n", p)
		}
	}
	return nil
}

// packagesRoot returns --packages, falling back to the configured global
// packages folder.
func packagesRoot() (string, error) {
	if assetsPackages != "" {
		return assetsPackages, nil
	}
	s, err := config.LoadSettings(rootConfig).Get()
	if err != nil {
		return "", fmt.Errorf("resolving packages folder (pass --packages): %w", err)
	}
	return s.GlobalPackagesFolder, nil
}
