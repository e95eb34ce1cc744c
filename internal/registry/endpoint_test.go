package registry

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestEndpointCacheGetOrCreateConcurrent(t *testing.T) {
	var built atomic.Int32
	cache := NewEndpointCache(func(src Source) *Endpoint {
		built.Add(1)
		return NewEndpoint(src, newFakeSearcher())
	})

	src := Source{Name: "nuget.org", URL: "https://api.nuget.org/v3/index.json", Enabled: true}

	const callers = 32
	got := make([]*Endpoint, callers)
	var wg sync.WaitGroup
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got[i] = cache.GetOrCreate(src)
		}()
	}
	wg.Wait()

	if n := built.Load(); n != 1 {
		t.Errorf("factory ran %d times, want 1", n)
	}
	for i, ep := range got {
		if ep != got[0] {
			t.Fatalf("caller %d got a different endpoint", i)
		}
	}
	if cache.Len() != 1 {
		t.Errorf("Len() = %d, want 1", cache.Len())
	}
}

func TestEndpointCacheDistinctSources(t *testing.T) {
	cache := NewEndpointCache(Connect(newFakeSearcher()))

	a := cache.GetOrCreate(Source{Name: "a", URL: "https://a.example/index.json", Enabled: true})
	b := cache.GetOrCreate(Source{Name: "b", URL: "https://b.example/index.json", Enabled: true})

	if a == b {
		t.Fatal("distinct sources share an endpoint")
	}
	if a.Source().Name != "a" || b.Source().Name != "b" {
		t.Errorf("endpoints bound to wrong sources: %q, %q", a.Source().Name, b.Source().Name)
	}
	if again := cache.GetOrCreate(Source{Name: "a", URL: "https://a.example/index.json", Enabled: true}); again != a {
		t.Error("equal source value did not hit the cache")
	}
	if cache.Len() != 2 {
		t.Errorf("Len() = %d, want 2", cache.Len())
	}
}
