package lockfile

import (
	"errors"
	"slices"
	"strings"
	"testing"
)

func TestParse_Shape(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"empty", ""},
		{"array", `[]`},
		{"scalar", `"targets"`},
		{"missing targets", `{"libraries": {}}`},
		{"missing libraries", `{"targets": {}}`},
		{"targets not an object", `{"targets": [], "libraries": {}}`},
		{"libraries not an object", `{"targets": {}, "libraries": "x"}`},
		{"not json", `{"targets": {`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.doc))
			if !errors.Is(err, ErrMalformedManifest) {
				t.Errorf("Parse() error = %v, want ErrMalformedManifest", err)
			}
		})
	}
}

func TestFrameworksKeepDocumentOrder(t *testing.T) {
	m := mustParse(t, `{"targets": {"net8.0": {}, "net6.0": {}, "netstandard2.0": {}}, "libraries": {}}`)

	want := []string{"net8.0", "net6.0", "netstandard2.0"}
	if got := Frameworks(m); !slices.Equal(got, want) {
		t.Errorf("Frameworks() = %v, want %v", got, want)
	}
}

func TestLibraries(t *testing.T) {
	m, err := Load(testPath("project.assets.json"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	libs, err := Libraries(m)
	if err != nil {
		t.Fatalf("Libraries() error: %v", err)
	}
	var keys []string
	for _, l := range libs {
		keys = append(keys, l.Key)
	}
	want := []string{"Microsoft.CSharp/4.7.0", "Newtonsoft.Json/13.0.3", "Serilog/3.1.1", "StyleCop.Analyzers/1.1.118"}
	if !slices.Equal(keys, want) {
		t.Errorf("keys = %v, want %v", keys, want)
	}
	if libs[1].Path != "newtonsoft.json/13.0.3" {
		t.Errorf("Path = %q", libs[1].Path)
	}
	if len(libs[1].Files) != 4 {
		t.Errorf("Files = %v, want 4 entries", libs[1].Files)
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	if _, err := Load(testPath("nonexistent.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
