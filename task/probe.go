package task

import (
	"context"
	"fmt"
	"net/http"
)

// probeOne issues a HEAD request against url, returning an error on any
// non-2xx/3xx response or transport failure (spec §4.7 step 7 "optional URL
// probing", §7 NetworkError policy: reachability issues are logged, never
// fatal).
func probeOne(ctx context.Context, url string) error {
	if url == "" {
		return nil
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	return nil
}
