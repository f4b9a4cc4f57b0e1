package loader

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

const acceptDefinitions = "application/json, application/yaml;q=0.9"

// openURL issues a GET for a definition and hands back the response body.
// Non-2xx responses are closed here and reported with their status line.
func openURL(ctx context.Context, client *http.Client, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("formdef loader: build request: %w", err)
	}
	req.Header.Set("Accept", acceptDefinitions)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("formdef loader: fetch %s: %w", url, err)
	}
	if resp.StatusCode/100 != 2 {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("formdef loader: fetch %s: unexpected status %s", url, resp.Status)
	}
	return resp.Body, nil
}
