package protocol

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Resource types looked up in a service index, most preferred first.
var (
	searchResourceTypes = []string{
		"SearchQueryService/3.5.0",
		"SearchQueryService/3.0.0-rc",
		"SearchQueryService/3.0.0-beta",
		"SearchQueryService",
	}
	packageBaseResourceTypes = []string{
		"PackageBaseAddress/3.0.0",
	}
)

// Resource is one entry of a service index.
type Resource struct {
	ID   string `json:"@id"`
	Type string `json:"@type"`
}

// ServiceIndex is the entry point document of a NuGet V3 feed.
type ServiceIndex struct {
	Version   string     `json:"version"`
	Resources []Resource `json:"resources"`
}

// find returns the URL of the first resource matching the preferred types.
func (s *ServiceIndex) find(types []string) (string, bool) {
	for _, want := range types {
		for _, r := range s.Resources {
			if r.Type == want && r.ID != "" {
				return r.ID, true
			}
		}
	}
	return "", false
}

// SearchURL returns the search query service URL.
func (s *ServiceIndex) SearchURL() (string, bool) {
	return s.find(searchResourceTypes)
}

// PackageBaseURL returns the flat container base URL, with a trailing slash.
func (s *ServiceIndex) PackageBaseURL() (string, bool) {
	u, ok := s.find(packageBaseResourceTypes)
	if !ok {
		return "", false
	}
	if !strings.HasSuffix(u, "/") {
		u += "/"
	}
	return u, true
}

// ServiceIndex returns the service index of the feed at indexURL. Indexes
// are kept in memory for the life of the Client and, when a cache directory
// is configured, on disk until they are older than the cache max age.
// Concurrent callers for the same feed share one request; each caller still
// returns as soon as its own ctx is done.
func (c *Client) ServiceIndex(ctx context.Context, indexURL string) (*ServiceIndex, error) {
	c.mu.RLock()
	idx, ok := c.indexes[indexURL]
	c.mu.RUnlock()
	if ok {
		return idx, nil
	}

	ch := c.group.DoChan(indexURL, func() (any, error) {
		// The shared fetch must not die with the first caller's ctx.
		return c.loadServiceIndex(context.WithoutCancel(ctx), indexURL)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*ServiceIndex), nil
	}
}

func (c *Client) loadServiceIndex(ctx context.Context, indexURL string) (*ServiceIndex, error) {
	logger := zap.L().Sugar()

	c.mu.RLock()
	known, ok := c.indexes[indexURL]
	c.mu.RUnlock()
	if ok {
		return known, nil
	}

	if c.cacheDir != "" {
		cached, err := loadCache(c.cacheDir, indexURL)
		if err != nil {
			logger.Debugf("ignoring service index cache for %s: %v", indexURL, err)
		} else if !isCacheStale(cached, c.cacheAge) {
			c.remember(indexURL, cached.Index)
			return cached.Index, nil
		}
	}

	var idx ServiceIndex
	if err := c.getJSON(ctx, indexURL, indexURL, &idx); err != nil {
		if errors.Is(err, errNotFound) {
			return nil, &FeedError{Source: indexURL, StatusCode: 404, Err: errors.New("service index not found")}
		}
		return nil, err
	}
	if !strings.HasPrefix(idx.Version, "3.") {
		return nil, &FeedError{Source: indexURL, Err: fmt.Errorf("unsupported service index version %q", idx.Version)}
	}

	logger.Debugf("resolved service index %s (%d resources)", indexURL, len(idx.Resources))
	c.remember(indexURL, &idx)

	if c.cacheDir != "" {
		if err := saveCache(c.cacheDir, indexURL, &idx); err != nil {
			logger.Debugf("writing service index cache: %v", err)
		}
	}
	return &idx, nil
}

func (c *Client) remember(indexURL string, idx *ServiceIndex) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.indexes[indexURL] = idx
}
