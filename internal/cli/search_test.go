package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nluyan/pkgpad/internal/registry"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{"short", "Json.NET", 60, "Json.NET"},
		{"exact", "abcdef", 6, "abcdef"},
		{"cut", "abcdefghij", 8, "abcde..."},
		{"tiny limit", "abcdef", 2, "ab"},
		{"runes", "äöüäöüäöü", 5, "äö..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := truncate(tt.in, tt.n); got != tt.want {
				t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
			}
		})
	}
}

func TestFirstLine(t *testing.T) {
	if got := firstLine("  Popular JSON framework\r\nfor .NET"); got != "Popular JSON framework" {
		t.Errorf("firstLine() = %q", got)
	}
	if got := firstLine(""); got != "" {
		t.Errorf("firstLine(\"\") = %q", got)
	}
}

func testResult() registry.PackageResult {
	return registry.NewPackageResult(
		registry.PackageIdentity{ID: "Serilog", Version: registry.MustParseVersion("3.1.1")},
		registry.Source{Name: "nuget.org"},
		[]registry.Version{
			registry.MustParseVersion("2.12.0"),
			registry.MustParseVersion("3.1.1"),
			registry.MustParseVersion("4.0.0-dev-02108"),
		},
	)
}

func TestPickVersion(t *testing.T) {
	tests := []struct {
		name    string
		version string
		want    string
		wantErr bool
	}{
		{"default", "", "3.1.1", false},
		{"older", "2.12.0", "2.12.0", false},
		{"prerelease", "4.0.0-dev-02108", "4.0.0-dev-02108", false},
		{"unknown", "1.0.0", "", true},
		{"unparseable", "latest", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := pickVersion(testResult(), tt.version)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error, got %s", r.Identity)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := r.Identity.Version.String(); got != tt.want {
				t.Errorf("version = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestInsertDirective(t *testing.T) {
	path := filepath.Join(t.TempDir(), "script.csx")
	if err := os.WriteFile(path, []byte("Console.WriteLine(1);\n"), 0644); err != nil {
		t.Fatal(err)
	}

	directive := `#r "nuget:Serilog/3.1.1"`
	inserted, err := insertDirective(path, directive)
	if err != nil {
		t.Fatalf("insertDirective() error: %v", err)
	}
	if !inserted {
		t.Fatal("insertDirective() = false on first insert")
	}

	inserted, err = insertDirective(path, directive)
	if err != nil {
		t.Fatalf("insertDirective() error: %v", err)
	}
	if inserted {
		t.Error("insertDirective() inserted a duplicate directive")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := directive + "\nConsole.WriteLine(1);\n"
	if string(data) != want {
		t.Errorf("script = %q, want %q", data, want)
	}
}

func TestInsertDirectiveCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "new.csx")

	if _, err := insertDirective(path, `#r "nuget:X/1.0.0"`); err != nil {
		t.Fatalf("insertDirective() error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), `#r "nuget:X/1.0.0"`) {
		t.Errorf("script = %q", data)
	}
}
