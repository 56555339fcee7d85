package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	rabprohttp "github.com/tzussman/rabpro/internal/http"
)

// URL is the upstream catalog document.
const URL = "https://raw.githubusercontent.com/jonschwenk/rabpro/main/Data/gee_datasets.json"

// DefaultTTL is how long a cached catalog stays fresh.
const DefaultTTL = 24 * time.Hour

// Status classifies the outcome of a refresh attempt.
type Status int

const (
	// StatusRefreshed means the cache file was rewritten from upstream.
	StatusRefreshed Status = iota
	// StatusFresh means the cache was younger than the TTL; nothing fetched.
	StatusFresh
	// StatusFailed means the fetch or write failed; any prior cache file
	// is untouched.
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusRefreshed:
		return "refreshed"
	case StatusFresh:
		return "fresh"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Result is the outcome of Refresh. Err is set only for StatusFailed and
// is informational; refresh failure is never fatal to the caller.
type Result struct {
	Status Status
	Err    error
}

// Cache manages one on-disk catalog file.
type Cache struct {
	client *rabprohttp.Client
	url    string
	path   string

	// now is swappable for staleness tests.
	now func() time.Time
}

// New creates a Cache writing to path, fetching from the fixed upstream
// URL.
func New(client *rabprohttp.Client, path string) *Cache {
	return &Cache{
		client: client,
		url:    URL,
		path:   path,
		now:    time.Now,
	}
}

// Refresh fetches the catalog when the cached copy is absent or older
// than ttl. It never returns an error; inspect the Result.
func (c *Cache) Refresh(ctx context.Context, ttl time.Duration) Result {
	if fi, err := os.Stat(c.path); err == nil {
		if c.now().Sub(fi.ModTime()) <= ttl {
			return Result{Status: StatusFresh}
		}
	}

	resp, err := c.client.Get(ctx, c.url, nil)
	if err != nil {
		return Result{Status: StatusFailed, Err: fmt.Errorf("fetch catalog: %w", err)}
	}

	if resp.StatusCode != 200 {
		return Result{
			Status: StatusFailed,
			Err: fmt.Errorf("%s returned status code %d; download manually into %s",
				c.url, resp.StatusCode, c.path),
		}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{Status: StatusFailed, Err: fmt.Errorf("read catalog body: %w", err)}
	}

	// Parse and re-marshal: validates the payload and normalizes the
	// file to pretty-printed JSON.
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return Result{Status: StatusFailed, Err: fmt.Errorf("parse catalog: %w", err)}
	}

	pretty, err := json.MarshalIndent(doc, "", "    ")
	if err != nil {
		return Result{Status: StatusFailed, Err: fmt.Errorf("encode catalog: %w", err)}
	}
	pretty = append(pretty, '\n')

	if err := writeAtomic(c.path, pretty); err != nil {
		return Result{Status: StatusFailed, Err: fmt.Errorf("write catalog: %w", err)}
	}

	return Result{Status: StatusRefreshed}
}

// Path returns the on-disk location of the cache file.
func (c *Cache) Path() string {
	return c.path
}

// writeAtomic writes data to path via a temp file and rename so a crash
// never leaves a truncated catalog.
func writeAtomic(path string, data []byte) error {
	tmp := path + ".part"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}
