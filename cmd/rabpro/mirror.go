package main

import (
	"flag"
	"fmt"
	"os"

	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/gcsblob"
	_ "gocloud.dev/blob/memblob"
	_ "gocloud.dev/blob/s3blob"

	"github.com/tzussman/rabpro/internal/config"
	"github.com/tzussman/rabpro/internal/mirror"
)

func runMirror(args []string) int {
	fs := flag.NewFlagSet("mirror", flag.ExitOnError)

	bucketURL := fs.String("bucket", "", "Bucket URL, e.g. s3://team-bucket or file:///mnt/share (required)")
	prefix := fs.String("prefix", "", "Key prefix inside the bucket")
	configFile := fs.String("config", "", "YAML config file")
	data := fs.String("data", "", "Data root override")

	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, `Usage: rabpro mirror <push|pull> -bucket <url> [options]

Synchronize the local data tree with a bucket. Push uploads files that
are missing or differ in size; pull downloads the same way. Supported
schemes: s3://, gs://, file://, mem://.

Options:`)
		fs.PrintDefaults()
	}

	if len(args) == 0 {
		fs.Usage()
		return ExitInvalidArgs
	}
	direction := args[0]
	if direction != "push" && direction != "pull" {
		fmt.Fprintf(os.Stderr, "Unknown mirror direction: %s\n", direction)
		fs.Usage()
		return ExitInvalidArgs
	}

	if err := fs.Parse(args[1:]); err != nil {
		return ExitInvalidArgs
	}

	if *bucketURL == "" {
		fmt.Fprintln(os.Stderr, "Error: -bucket is required")
		fs.Usage()
		return ExitInvalidArgs
	}

	cfg, err := loadConfig(*configFile, config.Config{DataRoot: *data})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitGeneralError
	}

	pathCfg, _, err := resolvePaths(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitGeneralError
	}

	ctx, cancel := signalContext()
	defer cancel()

	bucket, err := blob.OpenBucket(ctx, *bucketURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to open bucket %s: %v\n", *bucketURL, err)
		return ExitStorageError
	}
	defer bucket.Close()

	opts := mirror.Options{Prefix: *prefix}

	var count int
	switch direction {
	case "push":
		count, err = mirror.Push(ctx, bucket, pathCfg.DataRoot, opts)
	case "pull":
		count, err = mirror.Pull(ctx, bucket, pathCfg.DataRoot, opts)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitStorageError
	}

	fmt.Fprintf(os.Stderr, "[rabpro] Mirror %s complete: %d file(s) transferred\n", direction, count)
	return ExitSuccess
}
