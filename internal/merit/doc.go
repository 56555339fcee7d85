// Package merit acquires MERIT Hydro raster tiles.
//
// The upstream server exposes a plain HTML index of tar archives, one
// per 30x30 degree tile per product. Tiles are discovered by scraping
// that index through the Lister interface, so the parsing strategy can
// change without touching fetch logic. Each matched archive is
// classified by its three-character product prefix, downloaded with the
// registered MERIT credentials, and extracted into the matching DEM
// product directory.
package merit
