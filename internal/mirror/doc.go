// Package mirror copies the materialized data tree to and from an
// object-store bucket.
//
// A full MERIT tile cache runs to tens of gigabytes; mirroring lets a
// team pull a colleague's cache from shared storage instead of every
// machine downloading from the upstream tile server. Keys in the bucket
// are the files' slash-separated paths relative to the data root,
// optionally under a prefix. Files whose size already matches the other
// side are skipped.
//
// Buckets are opened by URL (s3://, gs://, file://, mem://) via
// gocloud.dev; drivers are registered by the importing command.
package mirror
