package engine

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// maxBodyBytes caps fetched page bodies at 2 MB.
const maxBodyBytes = 2 << 20

// FetchPage GETs a URL with the shared client and desktop UA.
// Transport errors and transient statuses (429, 5xx) are retried with
// exponential backoff; a 404 job page returns immediately.
func FetchPage(ctx context.Context, rawURL string) ([]byte, error) {
	metrics.FetchRequests.Add(1)

	if cfg.FetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.FetchTimeout)
		defer cancel()
	}

	resp, err := RetryHTTP(ctx, DefaultRetryConfig, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", UserAgentDesktop)
		req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
		req.Header.Set("Accept-Language", "en-US,en;q=0.9")
		return cfg.HTTPClient.Do(req)
	})
	if err != nil {
		metrics.FetchErrors.Add(1)
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.FetchErrors.Add(1)
		return nil, fmt.Errorf("fetch %s: status %d", rawURL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		metrics.FetchErrors.Add(1)
		return nil, fmt.Errorf("fetch %s: read body: %w", rawURL, err)
	}
	return body, nil
}
