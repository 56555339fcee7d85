// Package http provides the HTTP client used for all dataset transfers.
//
// This package handles:
//   - Streaming GET requests for large tile archives
//   - Basic auth for servers that require registration
//   - A proxy override applied to plain-HTTP requests only
//   - Retry with exponential backoff on connection errors and 5xx
//
// # Usage
//
//	client, err := http.NewClient(http.DefaultOptions())
//
//	resp, err := client.Get(ctx, url, &http.BasicAuth{Username: u, Password: p})
//	if resp.StatusCode != 200 {
//	    // report, resp.Body is nil
//	}
//	defer resp.Body.Close()
package http
