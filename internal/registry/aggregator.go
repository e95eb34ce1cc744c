package registry

import (
	"context"
	"fmt"
	"strings"

	"github.com/nluyan/pkgpad/internal/config"
	"github.com/nluyan/pkgpad/internal/protocol"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// SearchRequest describes one aggregated search.
type SearchRequest struct {
	Term              string
	IncludePrerelease bool
	ExactMatch        bool
	MaxResults        int // 0 uses the configured maximum
}

// Aggregator searches the configured sources in priority order.
type Aggregator struct {
	init  config.Result
	cache *EndpointCache
}

// NewAggregator returns an Aggregator over the sources in init. A failed
// init is not reported here; it is returned by the first Search or
// ResolveVersions call.
func NewAggregator(init config.Result, cache *EndpointCache) *Aggregator {
	return &Aggregator{init: init, cache: cache}
}

// Sources returns the enabled sources in priority order.
func (a *Aggregator) Sources() ([]Source, error) {
	settings, err := a.init.Get()
	if err != nil {
		return nil, err
	}
	return SourcesFromSettings(settings), nil
}

// Search returns the hits of the first source, in priority order, that
// yields at least one result. Results from different sources are never
// merged. A source that fails with a recoverable protocol error is skipped;
// any other failure aborts the search. With ExactMatch only the hit whose ID
// equals the term (ignoring case) is kept. Every returned result already
// carries its ordered OtherVersions.
func (a *Aggregator) Search(ctx context.Context, req SearchRequest) ([]PackageResult, error) {
	settings, err := a.init.Get()
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, canceled(err)
	}

	take := req.MaxResults
	if take <= 0 {
		take = settings.MaxResults
	}

	logger := zap.L().Sugar()
	for _, src := range SourcesFromSettings(settings) {
		ep := a.cache.GetOrCreate(src)

		hits, err := ep.Search(ctx, req.Term, req.IncludePrerelease, take)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, canceled(ctxErr)
			}
			if IsRecoverable(err) {
				logger.Debugf("skipping source %s: %v", src.Name, err)
				continue
			}
			return nil, fmt.Errorf("%w: source %s: %w", ErrFatalSearch, src.Name, err)
		}

		if req.ExactMatch {
			hits = exactMatch(hits, req.Term)
		}
		usable := parseHits(hits, src.Name)
		if len(usable) == 0 {
			continue
		}

		logger.Debugf("source %s returned %d hits for %q", src.Name, len(usable), req.Term)
		return a.withVersions(ctx, ep, usable)
	}

	return []PackageResult{}, nil
}

// exactMatch keeps the first hit whose ID equals term, ignoring case.
func exactMatch(hits []protocol.Hit, term string) []protocol.Hit {
	for _, h := range hits {
		if strings.EqualFold(h.ID, term) {
			return []protocol.Hit{h}
		}
	}
	return nil
}

// parsedHit is a search hit whose version parsed.
type parsedHit struct {
	protocol.Hit
	version Version
}

// parseHits drops hits whose version does not parse.
func parseHits(hits []protocol.Hit, source string) []parsedHit {
	out := make([]parsedHit, 0, len(hits))
	for _, hit := range hits {
		version, err := ParseVersion(hit.Version)
		if err != nil {
			zap.L().Sugar().Debugf("skipping %s from %s: %v", hit.ID, source, err)
			continue
		}
		out = append(out, parsedHit{Hit: hit, version: version})
	}
	return out
}

// withVersions resolves the versions of every hit concurrently and returns
// once all of them are done.
func (a *Aggregator) withVersions(ctx context.Context, ep *Endpoint, hits []parsedHit) ([]PackageResult, error) {
	results := make([]PackageResult, len(hits))
	g, gctx := errgroup.WithContext(ctx)
	for i, hit := range hits {
		g.Go(func() error {
			versions, err := fetchVersions(gctx, ep, hit.ID)
			if err != nil {
				return err
			}
			r := NewPackageResult(PackageIdentity{ID: hit.ID, Version: hit.version}, ep.Source(), versions)
			r.Description = hit.Description
			r.Authors = hit.Authors
			r.Downloads = hit.TotalDownloads
			results[i] = r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, canceled(ctxErr)
		}
		return nil, fmt.Errorf("%w: resolving versions on %s: %w", ErrFatalSearch, ep.Source().Name, err)
	}
	return results, nil
}

// ResolveVersions fetches every known version of r's package from the source
// r came from, ordered latest stable first, then descending, without
// duplicates.
func (a *Aggregator) ResolveVersions(ctx context.Context, r PackageResult) ([]string, error) {
	if _, err := a.init.Get(); err != nil {
		return nil, err
	}

	ep := a.cache.GetOrCreate(r.Source)
	versions, err := fetchVersions(ctx, ep, r.Identity.ID)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, canceled(ctxErr)
		}
		return nil, err
	}

	ordered := OrderVersions(versions)
	out := make([]string, len(ordered))
	for i, v := range ordered {
		out[i] = v.String()
	}
	return out, nil
}

// fetchVersions lists and parses the versions of id on ep. Versions that do
// not parse are dropped.
func fetchVersions(ctx context.Context, ep *Endpoint, id string) ([]Version, error) {
	raw, err := ep.Versions(ctx, id)
	if err != nil {
		return nil, err
	}

	versions := make([]Version, 0, len(raw))
	for _, s := range raw {
		v, err := ParseVersion(s)
		if err != nil {
			zap.L().Sugar().Debugf("ignoring version of %s: %v", id, err)
			continue
		}
		versions = append(versions, v)
	}
	return versions, nil
}
