//go:build integration

package integration_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// testEnv holds paths to isolated test directories.
type testEnv struct {
	HomeDir     string // HOME; holds ~/.pkgpad
	PackagesDir string // NUGET_PACKAGES; the global packages folder
	ConfigPath  string // config file listing the test sources
}

// setupTestEnv creates isolated temp directories and sets environment variables
// so all pkgpad operations are sandboxed. The env vars are restored after the test.
func setupTestEnv(t *testing.T, sources ...string) *testEnv {
	t.Helper()

	env := &testEnv{
		HomeDir:     t.TempDir(),
		PackagesDir: t.TempDir(),
	}
	t.Setenv("HOME", env.HomeDir)
	t.Setenv("NUGET_PACKAGES", env.PackagesDir)

	var b strings.Builder
	b.WriteString("sources:\n")
	for i, url := range sources {
		fmt.Fprintf(&b, "  - name: source%d\n    url: %s\n", i+1, url)
	}
	env.ConfigPath = filepath.Join(env.HomeDir, ".pkgpad", "config.yaml")
	writeFile(t, env.ConfigPath, b.String())

	return env
}

// testFeed is a NuGet V3 feed backed by an in-memory package table.
type testFeed struct {
	server   *httptest.Server
	packages map[string][]string // lower-case id -> versions, oldest first
	delay    time.Duration
}

func newTestFeed(t *testing.T, packages map[string][]string) *testFeed {
	t.Helper()
	f := &testFeed{packages: packages}
	mux := http.NewServeMux()
	mux.HandleFunc("/v3/index.json", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"version":"3.0.0","resources":[
			{"@id":"%[1]s/query","@type":"SearchQueryService/3.5.0"},
			{"@id":"%[1]s/v3-flatcontainer/","@type":"PackageBaseAddress/3.0.0"}]}`, f.server.URL)
	})
	mux.HandleFunc("/query", func(w http.ResponseWriter, r *http.Request) {
		if f.delay > 0 {
			select {
			case <-time.After(f.delay):
			case <-r.Context().Done():
				return
			}
		}
		q := strings.ToLower(r.URL.Query().Get("q"))
		var hits []string
		for id, versions := range f.packages {
			if strings.Contains(id, q) {
				hits = append(hits, fmt.Sprintf(`{"id":%q,"version":%q,"description":"test package","authors":["tests"],"totalDownloads":1}`,
					displayID(id), versions[len(versions)-1]))
			}
		}
		fmt.Fprintf(w, `{"totalHits":%d,"data":[%s]}`, len(hits), strings.Join(hits, ","))
	})
	mux.HandleFunc("/v3-flatcontainer/", func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/v3-flatcontainer/"), "/index.json")
		versions, ok := f.packages[id]
		if !ok {
			http.NotFound(w, r)
			return
		}
		quoted := make([]string, len(versions))
		for i, v := range versions {
			quoted[i] = fmt.Sprintf("%q", v)
		}
		fmt.Fprintf(w, `{"versions":[%s]}`, strings.Join(quoted, ","))
	})
	f.server = httptest.NewServer(mux)
	t.Cleanup(f.server.Close)
	return f
}

func (f *testFeed) indexURL() string { return f.server.URL + "/v3/index.json" }

// newBrokenFeed returns the index URL of a feed that always answers 503.
func newBrokenFeed(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "maintenance", http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)
	return srv.URL + "/v3/index.json"
}

// displayID restores the casing feeds report for the test package IDs.
func displayID(lower string) string {
	parts := strings.Split(lower, ".")
	for i, p := range parts {
		if p != "" {
			parts[i] = strings.ToUpper(p[:1]) + p[1:]
		}
	}
	return strings.Join(parts, ".")
}

// writeFile creates a file at the given path with the given content.
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("creating dir %s: %v", dir, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

// assertFileExists fails the test if the file does not exist.
func assertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file to exist: %s (error: %v)", path, err)
	}
}

// assertFileContains fails if the file doesn't exist or doesn't contain substr.
func assertFileContains(t *testing.T, path, substr string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Errorf("reading %s: %v", path, err)
		return
	}
	if !strings.Contains(string(data), substr) {
		t.Errorf("file %s does not contain %q.\nContents:\n%s", path, substr, string(data))
	}
}
