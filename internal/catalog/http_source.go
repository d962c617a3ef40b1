package catalog

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"
)

// HTTPSource reads categories from the portal's public REST endpoint.
type HTTPSource struct {
	client *resty.Client
	path   string
}

// NewHTTPSource wraps a configured client. path defaults to the portal's
// public listing.
func NewHTTPSource(client *resty.Client, path string) *HTTPSource {
	if client == nil {
		panic("catalog: http client required")
	}
	if path == "" {
		path = "/api/v1/categories/public"
	}
	return &HTTPSource{client: client, path: path}
}

// Tree fetches the listing and returns the subtree rooted at id.
func (s *HTTPSource) Tree(ctx context.Context, id ID) (*Category, error) {
	var roots []*Category
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParam("limit", "1000").
		SetResult(&roots).
		Get(s.path)
	if err != nil {
		return nil, fmt.Errorf("catalog: fetch categories: %w: %v", ErrSourceUnavailable, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("catalog: fetch categories: %w: status %d", ErrSourceUnavailable, resp.StatusCode())
	}

	if found := FindIn(roots, id); found != nil {
		return found, nil
	}
	return nil, ErrCategoryNotFound
}
