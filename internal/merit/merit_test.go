package merit

import (
	"archive/tar"
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tzussman/rabpro/internal/fetch"
	"github.com/tzussman/rabpro/internal/paths"
)

// staticLister serves a fixed listing without any network access.
type staticLister struct {
	entries []Entry
	err     error
}

func (s *staticLister) List(ctx context.Context, url string) ([]Entry, error) {
	return s.entries, s.err
}

// tileTar builds a tar archive named like a tile, containing one raster
// file inside a directory matching the archive's base name.
func tileTar(t *testing.T, base string) []byte {
	t.Helper()

	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	if err := tw.WriteHeader(&tar.Header{Name: base + "/", Typeflag: tar.TypeDir, Mode: 0755}); err != nil {
		t.Fatalf("write dir header: %v", err)
	}
	content := "raster " + base
	if err := tw.WriteHeader(&tar.Header{Name: base + "/" + base + ".tif", Mode: 0644, Size: int64(len(content))}); err != nil {
		t.Fatalf("write header: %v", err)
	}
	if _, err := tw.Write([]byte(content)); err != nil {
		t.Fatalf("write member: %v", err)
	}
	if err := tw.Close(); err != nil {
		t.Fatalf("close tar: %v", err)
	}
	return buf.Bytes()
}

func newTestMerit(t *testing.T, lister Lister, serverURL string) (*Fetcher, paths.Table) {
	t.Helper()

	_, table, err := paths.Resolve(t.TempDir(), t.TempDir())
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	client := newTestClient(t)

	var out bytes.Buffer
	m := New(lister, fetch.New(client, fetch.Options{Output: &out}), table)
	if serverURL != "" {
		m.baseURL = serverURL + "/"
	}
	return m, table
}

func TestFetchTilesClassification(t *testing.T) {
	var requested []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimPrefix(r.URL.Path, "/")
		requested = append(requested, name)
		w.Write(tileTar(t, strings.TrimSuffix(name, ".tar")))
	}))
	defer server.Close()

	lister := &staticLister{entries: []Entry{
		{Name: "elv_tile.tar", Href: "./elv_tile.tar"},
		{Name: "dir_tile.tar", Href: "./dir_tile.tar"},
		{Name: "xyz_tile.tar", Href: "./xyz_tile.tar"},
	}}

	m, table := newTestMerit(t, lister, server.URL)

	if err := m.FetchTiles(context.Background(), "tile", "user", "pass", true); err != nil {
		t.Fatalf("FetchTiles: %v", err)
	}

	// Exactly two downloads: elv and dir; xyz has no known prefix.
	if len(requested) != 2 {
		t.Fatalf("expected 2 downloads, got %d: %v", len(requested), requested)
	}
	for _, name := range requested {
		if name != "elv_tile.tar" && name != "dir_tile.tar" {
			t.Errorf("unexpected download: %s", name)
		}
	}

	// Extracted and flattened into the classified product directories.
	elvDir := filepath.Dir(table.DEMElevHP)
	if _, err := os.Stat(filepath.Join(elvDir, "elv_tile.tif")); err != nil {
		t.Errorf("elv raster missing from %s: %v", elvDir, err)
	}
	dirDir := filepath.Dir(table.DEMFlowDir)
	if _, err := os.Stat(filepath.Join(dirDir, "dir_tile.tif")); err != nil {
		t.Errorf("dir raster missing from %s: %v", dirDir, err)
	}

	// clean=true removes the raw archives.
	if _, err := os.Stat(filepath.Join(elvDir, "elv_tile.tar")); !os.IsNotExist(err) {
		t.Error("archive should be removed with clean=true")
	}
}

func TestFetchTilesNoMatch(t *testing.T) {
	lister := &staticLister{entries: []Entry{
		{Name: "elv_n30w120.tar", Href: "./elv_n30w120.tar"},
	}}

	m, _ := newTestMerit(t, lister, "")

	err := m.FetchTiles(context.Background(), "n45e005", "user", "pass", true)
	if err == nil {
		t.Fatal("expected error for unmatched pattern")
	}
	if !strings.Contains(err.Error(), "n45e005") {
		t.Errorf("expected pattern in error, got: %v", err)
	}
}

func TestFetchTilesInvalidPattern(t *testing.T) {
	m, _ := newTestMerit(t, &staticLister{}, "")

	if err := m.FetchTiles(context.Background(), "(unclosed", "user", "pass", true); err == nil {
		t.Error("expected error for invalid pattern")
	}
}

func TestFetchTilesAuthAndSkip(t *testing.T) {
	var authed bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		authed = ok && user == "merit-user" && pass == "merit-pass"
		name := strings.TrimPrefix(r.URL.Path, "/")
		w.Write(tileTar(t, strings.TrimSuffix(name, ".tar")))
	}))
	defer server.Close()

	lister := &staticLister{entries: []Entry{
		{Name: "upa_n00e000.tar", Href: "./upa_n00e000.tar"},
	}}

	m, table := newTestMerit(t, lister, server.URL)

	if err := m.FetchTiles(context.Background(), "n00e000", "merit-user", "merit-pass", false); err != nil {
		t.Fatalf("FetchTiles: %v", err)
	}
	if !authed {
		t.Error("expected basic auth credentials on tile request")
	}

	// clean=false keeps the raw archive next to the extracted raster.
	upaDir := filepath.Dir(table.DEMUpArea)
	if _, err := os.Stat(filepath.Join(upaDir, "upa_n00e000.tar")); err != nil {
		t.Errorf("archive should remain with clean=false: %v", err)
	}
	if _, err := os.Stat(filepath.Join(upaDir, "upa_n00e000.tif")); err != nil {
		t.Errorf("extracted raster missing: %v", err)
	}
}

func TestFetchTilesSkipExistingDoesNotReExtract(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		name := strings.TrimPrefix(r.URL.Path, "/")
		w.Write(tileTar(t, strings.TrimSuffix(name, ".tar")))
	}))
	defer server.Close()

	lister := &staticLister{entries: []Entry{
		{Name: "wth_n30w120.tar", Href: "./wth_n30w120.tar"},
	}}

	m, table := newTestMerit(t, lister, server.URL)

	// Pre-place the archive: with clean=false it must be skipped whole.
	wthDir := filepath.Dir(table.DEMWidth)
	if err := os.MkdirAll(wthDir, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(wthDir, "wth_n30w120.tar"), tileTar(t, "wth_n30w120"), 0644); err != nil {
		t.Fatalf("seed archive: %v", err)
	}

	if err := m.FetchTiles(context.Background(), "n30w120", "u", "p", false); err != nil {
		t.Fatalf("FetchTiles: %v", err)
	}
	if calls != 0 {
		t.Errorf("expected no downloads for existing tile, server saw %d", calls)
	}
	// No extraction happened for the skipped tile.
	if _, err := os.Stat(filepath.Join(wthDir, "wth_n30w120.tif")); !os.IsNotExist(err) {
		t.Error("skipped tile must not be extracted")
	}
}
