package protocol

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strconv"
	"strings"
)

// Query describes one search request.
type Query struct {
	Term       string
	Prerelease bool
	Skip       int
	Take       int
}

// Hit is one package returned by a search.
type Hit struct {
	ID             string   `json:"id"`
	Version        string   `json:"version"`
	Description    string   `json:"description"`
	Authors        Authors  `json:"authors"`
	TotalDownloads int64    `json:"totalDownloads"`
	Verified       bool     `json:"verified"`
	Tags           []string `json:"tags"`
}

// Authors accepts both the string and the string-array form used by feeds.
type Authors []string

// UnmarshalJSON implements json.Unmarshaler.
func (a *Authors) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if strings.HasPrefix(s, "[") {
		var list []string
		if err := json.Unmarshal(data, &list); err != nil {
			return err
		}
		*a = list
		return nil
	}
	var one string
	if err := json.Unmarshal(data, &one); err != nil {
		return err
	}
	if one != "" {
		*a = Authors{one}
	}
	return nil
}

type searchResponse struct {
	TotalHits int   `json:"totalHits"`
	Data      []Hit `json:"data"`
}

type versionsResponse struct {
	Versions []string `json:"versions"`
}

// Search runs q against the feed at indexURL.
func (c *Client) Search(ctx context.Context, indexURL string, q Query) ([]Hit, error) {
	idx, err := c.ServiceIndex(ctx, indexURL)
	if err != nil {
		return nil, err
	}
	base, ok := idx.SearchURL()
	if !ok {
		return nil, &FeedError{Source: indexURL, Err: errors.New("feed has no search resource")}
	}

	params := url.Values{}
	params.Set("q", q.Term)
	params.Set("prerelease", strconv.FormatBool(q.Prerelease))
	params.Set("semVerLevel", "2.0.0")
	if q.Skip > 0 {
		params.Set("skip", strconv.Itoa(q.Skip))
	}
	if q.Take > 0 {
		params.Set("take", strconv.Itoa(q.Take))
	}

	var resp searchResponse
	if err := c.getJSON(ctx, indexURL, base+"?"+params.Encode(), &resp); err != nil {
		if errors.Is(err, errNotFound) {
			return nil, &FeedError{Source: indexURL, StatusCode: 404, Err: errors.New("search resource not found")}
		}
		return nil, err
	}

	hits := resp.Data
	if q.Take > 0 && len(hits) > q.Take {
		hits = hits[:q.Take]
	}
	return hits, nil
}

// Versions lists every published version of the package id, in the order
// the feed returns them. An unknown package yields an empty list.
func (c *Client) Versions(ctx context.Context, indexURL, id string) ([]string, error) {
	idx, err := c.ServiceIndex(ctx, indexURL)
	if err != nil {
		return nil, err
	}
	base, ok := idx.PackageBaseURL()
	if !ok {
		return nil, &FeedError{Source: indexURL, Err: errors.New("feed has no package base address resource")}
	}

	lower := strings.ToLower(id)
	var resp versionsResponse
	if err := c.getJSON(ctx, indexURL, base+url.PathEscape(lower)+"/index.json", &resp); err != nil {
		if errors.Is(err, errNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return resp.Versions, nil
}
