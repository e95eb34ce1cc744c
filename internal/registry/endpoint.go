package registry

import (
	"context"
	"sync"

	"github.com/nluyan/pkgpad/internal/protocol"
)

// Searcher is the registry protocol client an Endpoint talks through.
// *protocol.Client satisfies it.
type Searcher interface {
	Search(ctx context.Context, indexURL string, q protocol.Query) ([]protocol.Hit, error)
	Versions(ctx context.Context, indexURL, id string) ([]string, error)
}

// Endpoint is a live handle on one Source.
type Endpoint struct {
	source Source
	client Searcher
}

// NewEndpoint binds client to src.
func NewEndpoint(src Source, client Searcher) *Endpoint {
	return &Endpoint{source: src, client: client}
}

// Source returns the source this endpoint is bound to.
func (e *Endpoint) Source() Source { return e.source }

// Search returns at most take hits for term.
func (e *Endpoint) Search(ctx context.Context, term string, prerelease bool, take int) ([]protocol.Hit, error) {
	return e.client.Search(ctx, e.source.URL, protocol.Query{
		Term:       term,
		Prerelease: prerelease,
		Take:       take,
	})
}

// Versions lists the published versions of id on this source.
func (e *Endpoint) Versions(ctx context.Context, id string) ([]string, error) {
	return e.client.Versions(ctx, e.source.URL, id)
}

// EndpointFactory builds the Endpoint for a Source.
type EndpointFactory func(Source) *Endpoint

// Connect returns a factory that binds every source to client.
func Connect(client Searcher) EndpointFactory {
	return func(src Source) *Endpoint { return NewEndpoint(src, client) }
}

// EndpointCache holds one Endpoint per Source for as long as the cache
// lives. Entries are never evicted. It is safe for concurrent use.
type EndpointCache struct {
	newEndpoint EndpointFactory

	mu        sync.Mutex
	endpoints map[Source]*Endpoint
}

// NewEndpointCache returns an empty cache that builds endpoints with factory.
func NewEndpointCache(factory EndpointFactory) *EndpointCache {
	return &EndpointCache{
		newEndpoint: factory,
		endpoints:   make(map[Source]*Endpoint),
	}
}

// GetOrCreate returns the endpoint for src, building it on first use. The
// factory runs at most once per source; every caller gets the same endpoint.
func (c *EndpointCache) GetOrCreate(src Source) *Endpoint {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ep, ok := c.endpoints[src]; ok {
		return ep
	}
	ep := c.newEndpoint(src)
	c.endpoints[src] = ep
	return ep
}

// Len returns the number of cached endpoints.
func (c *EndpointCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.endpoints)
}
