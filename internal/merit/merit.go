package merit

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/tzussman/rabpro/internal/archive"
	"github.com/tzussman/rabpro/internal/fetch"
	rabprohttp "github.com/tzussman/rabpro/internal/http"
	"github.com/tzussman/rabpro/internal/paths"
)

// BaseURL is the MERIT Hydro tile index. Plain HTTP; the upstream
// server has no TLS endpoint.
const BaseURL = "http://hydro.iis.u-tokyo.ac.jp/~yamadai/MERIT_Hydro/"

// ErrNoMatch is returned when a tile pattern matches nothing in the
// server listing.
var ErrNoMatch = errors.New("no matching tile")

// Fetcher discovers and downloads MERIT Hydro tiles.
type Fetcher struct {
	lister  Lister
	fetcher *fetch.Fetcher
	table   paths.Table

	// baseURL is swappable for tests.
	baseURL string
}

// New creates a Fetcher resolving destinations through table.
func New(lister Lister, f *fetch.Fetcher, table paths.Table) *Fetcher {
	return &Fetcher{
		lister:  lister,
		fetcher: f,
		table:   table,
		baseURL: BaseURL,
	}
}

// productDir maps a tile archive's three-character product prefix to
// its destination directory, derived from the virtual-raster paths.
func (m *Fetcher) productDir(prefix string) (string, bool) {
	switch prefix {
	case "elv":
		return filepath.Dir(m.table.DEMElevHP), true
	case "dir":
		return filepath.Dir(m.table.DEMFlowDir), true
	case "upa":
		return filepath.Dir(m.table.DEMUpArea), true
	case "wth":
		return filepath.Dir(m.table.DEMWidth), true
	default:
		return "", false
	}
}

// FetchTiles downloads every tile whose listing name matches pattern.
// Credentials come from MERIT Hydro registration. With clean set, tiles
// are re-downloaded and raw artifacts removed after extraction;
// otherwise tiles already on disk are skipped and artifacts kept.
//
// A pattern matching no listing entry returns ErrNoMatch. Tiles with an
// unrecognized product prefix are silently skipped. The first failed
// download halts the remaining tiles.
func (m *Fetcher) FetchTiles(ctx context.Context, pattern, username, password string, clean bool) error {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return fmt.Errorf("invalid tile pattern %q: %w", pattern, err)
	}

	entries, err := m.lister.List(ctx, m.baseURL)
	if err != nil {
		return err
	}

	var matched []string
	for _, e := range entries {
		if e.Href == "" || !re.MatchString(e.Name) {
			continue
		}
		// Hrefs are relative ("./elv_n30w120.tar"); keep the bare name.
		matched = append(matched, path.Base(strings.TrimPrefix(e.Href, "./")))
	}

	if len(matched) == 0 {
		return fmt.Errorf("%w for pattern %q", ErrNoMatch, pattern)
	}

	auth := &rabprohttp.BasicAuth{Username: username, Password: password}

	for _, name := range matched {
		if len(name) < 3 {
			continue
		}
		destDir, ok := m.productDir(name[:3])
		if !ok {
			continue
		}

		if err := os.MkdirAll(destDir, 0755); err != nil {
			return fmt.Errorf("create %s: %w", destDir, err)
		}

		dest := filepath.Join(destDir, name)
		outcome, err := m.fetcher.Download(ctx, fetch.Task{
			URL:          m.baseURL + name,
			Dest:         dest,
			Auth:         auth,
			SkipIfExists: !clean,
		})
		if err != nil {
			return fmt.Errorf("download tile %s: %w", name, err)
		}
		switch outcome {
		case fetch.Failed:
			return fmt.Errorf("download tile %s failed; remaining tiles not fetched", name)
		case fetch.Skipped:
			continue
		}

		if err := archive.ExtractAndFlatten(dest, clean); err != nil {
			return fmt.Errorf("extract tile %s: %w", name, err)
		}
	}

	return nil
}
