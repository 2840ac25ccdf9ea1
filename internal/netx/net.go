// Package netx holds small HTTP helpers shared by the cloud adapters.
package netx

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// CheckEndpoint probes url with a GET and reports whether it answered with
// a non-server-error status. It is a reachability check, not an auth check:
// 401 from a health endpoint still means the service is there.
func CheckEndpoint(ctx context.Context, client *http.Client, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("endpoint %s is unreachable: %w", url, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("endpoint %s answered %s", url, resp.Status)
	}
	return nil
}
