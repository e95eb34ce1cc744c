package session

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/nluyan/pkgpad/internal/config"
	"github.com/nluyan/pkgpad/internal/protocol"
	"github.com/nluyan/pkgpad/internal/registry"
	"github.com/nluyan/pkgpad/internal/telemetry"
)

// newSlowFeed serves a feed whose search answers at once and whose version
// listing takes delay.
func newSlowFeed(t *testing.T, delay time.Duration) *httptest.Server {
	t.Helper()
	var srv *httptest.Server
	mux := http.NewServeMux()
	mux.HandleFunc("/v3/index.json", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"version":"3.0.0","resources":[
			{"@id":"%[1]s/query","@type":"SearchQueryService/3.5.0"},
			{"@id":"%[1]s/flat/","@type":"PackageBaseAddress/3.0.0"}]}`, srv.URL)
	})
	mux.HandleFunc("/query", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"totalHits":1,"data":[{"id":"Slow.Package","version":"1.0.0"}]}`)
	})
	mux.HandleFunc("/flat/slow.package/index.json", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(delay):
		case <-r.Context().Done():
			return
		}
		fmt.Fprint(w, `{"versions":["1.0.0"]}`)
	})
	srv = httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestRequestTimeoutIsReported(t *testing.T) {
	feed := newSlowFeed(t, 2*time.Second)
	settings := &config.Settings{
		Sources:    []config.SourceConfig{{Name: "slow", URL: feed.URL + "/v3/index.json"}},
		MaxResults: 10,
		Timeout:    200 * time.Millisecond,
	}
	client := protocol.New(protocol.WithTimeout(settings.Timeout))
	agg := registry.NewAggregator(config.Loaded(settings), registry.NewEndpointCache(registry.Connect(client)))

	rec := &telemetry.Recorder{}
	c := New(agg, rec)
	c.SetSearchTerm("slow")
	c.Wait()

	s := c.State()
	if s.Status != Idle || s.Searching {
		t.Errorf("status=%v searching=%v, want idle", s.Status, s.Searching)
	}
	errs := rec.Errors()
	if len(errs) != 1 {
		t.Fatalf("reported %d errors, want 1", len(errs))
	}
	if !errors.Is(errs[0], registry.ErrFatalSearch) {
		t.Errorf("reported %v, want ErrFatalSearch", errs[0])
	}
	if registry.IsCanceled(errs[0]) {
		t.Errorf("timeout %v classified as cancellation", errs[0])
	}
}
