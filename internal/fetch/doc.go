// Package fetch streams single remote files onto the local disk.
//
// One Task describes one transfer: source URL, destination path,
// optional credentials, and whether an existing destination short-cuts
// the transfer. Transfers are sequential and blocking; bytes stream
// through a temporary file that is renamed into place only on success,
// so an interrupted download never leaves a truncated file at the final
// path.
//
// Parent directory creation is the caller's responsibility.
package fetch
