// Package hydrobasins fetches the level-1 HydroBasins basin-boundary
// shapefile from its shared-drive export endpoint.
//
// A shapefile is five sibling files sharing one base name; each
// component has its own drive resource id. Files land in the level-1
// logical directory, created on demand.
package hydrobasins

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tzussman/rabpro/internal/fetch"
	"github.com/tzussman/rabpro/internal/paths"
)

const (
	urlBase  = "https://drive.google.com/uc?export=download&id="
	fileBase = "hybas_all_lev01_v1c."
)

// driveIDs maps each shapefile component extension to its drive
// resource id.
var driveIDs = map[string]string{
	"dbf": "1duRlrrHTciKn7gM4qogumZ4OhqrB0Ggq",
	"prj": "1fSAUKiFbfYb8-rLqiG1Epo3dMNLBOMHh",
	"qpj": "1ZMCrzYUJuxORxNwkQjL1qvFHODS64WBu",
	"shp": "1ev5Md5d2RwzpTRfpJ6SmCkYPf_7821b2",
	"shx": "15-fa27DPnioY9kDzgKHQdaSxingSGhCJ",
}

// extensions is the fixed download order; deterministic for reporting
// and tests.
var extensions = []string{"dbf", "prj", "qpj", "shp", "shx"}

// Fetcher downloads the level-1 shapefile components.
type Fetcher struct {
	fetcher *fetch.Fetcher
	table   paths.Table

	// urlBase is swappable for tests.
	urlBase string
}

// New creates a Fetcher writing into the resolved level-1 directory.
func New(f *fetch.Fetcher, table paths.Table) *Fetcher {
	return &Fetcher{fetcher: f, table: table, urlBase: urlBase}
}

// FetchLevel1 downloads the five shapefile components. With clean set,
// every component is re-downloaded; otherwise components already on
// disk are skipped individually. The first failed download halts the
// remainder; completed files are kept.
func (h *Fetcher) FetchLevel1(ctx context.Context, clean bool) error {
	destDir := h.table.HydroBasins1
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return fmt.Errorf("create %s: %w", destDir, err)
	}

	for _, ext := range extensions {
		task := fetch.Task{
			URL:          h.urlBase + driveIDs[ext],
			Dest:         filepath.Join(destDir, fileBase+ext),
			SkipIfExists: !clean,
		}

		outcome, err := h.fetcher.Download(ctx, task)
		if err != nil {
			return fmt.Errorf("download %s component: %w", ext, err)
		}
		if outcome == fetch.Failed {
			return fmt.Errorf("download %s component failed; remaining components not fetched", ext)
		}
	}

	return nil
}
