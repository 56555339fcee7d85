// Package progress provides progress reporting for downloads.
//
// This package outputs human-readable progress information to stderr,
// including completion percentage, transfer speed, and ETA when the
// total size is known from content-length.
//
// # Usage
//
//	reporter := progress.NewReporter(Options{
//	    TotalSize: contentLength,
//	    Label:     filename,
//	})
//
//	reporter.Start()
//	// per 4 KiB chunk written
//	reporter.Add(n)
//	reporter.Finish()
//
// # Output Format
//
//	[rabpro] Downloading: elv_n30w120.tar (4.31 GB)
//	[rabpro] Progress: 45.2% | 1.95 GB / 4.31 GB | Speed: 12.4 MB/s | ETA: 3m 12s
//	[rabpro] Done: 4.31 GB in 6m 2s (12.2 MB/s)
package progress
