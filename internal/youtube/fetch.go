package youtube

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Asset is a downloaded banner or video. The caller closes Body.
type Asset struct {
	Body        io.ReadCloser
	ContentType string
}

// AssetFetcher downloads provisioning assets by URL.
type AssetFetcher interface {
	Fetch(ctx context.Context, url string) (*Asset, error)
}

// HTTPFetcher fetches assets with a plain GET.
type HTTPFetcher struct {
	Client *http.Client
}

func NewHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	return &HTTPFetcher{Client: &http.Client{Timeout: timeout}}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (*Asset, error) {
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid asset url %q: %w", url, err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", url, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, fmt.Errorf("failed to download %s: status %d", url, resp.StatusCode)
	}
	return &Asset{Body: resp.Body, ContentType: resp.Header.Get("Content-Type")}, nil
}
