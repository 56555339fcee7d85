// Package catalog maintains the locally cached dataset catalog.
//
// The catalog is a JSON document fetched from a fixed upstream URL and
// stored under the data root. A refresh happens only when the cached
// copy is missing or older than the TTL (default one day). Refresh
// failures never propagate as errors; the caller receives an explicit
// Result and decides what to report.
package catalog
