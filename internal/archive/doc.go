// Package archive expands downloaded tar archives into the flat on-disk
// layout the dataset consumers expect.
//
// Tile archives from the MERIT server contain a single top-level
// directory named after the archive. ExtractAndFlatten unpacks the
// archive next to itself, then moves every entry of that directory up
// one level so the raster files sit directly beside the .vrt index.
package archive
