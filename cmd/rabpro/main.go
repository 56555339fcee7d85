package main

import (
	"fmt"
	"os"
)

// Exit codes
const (
	ExitSuccess      = 0
	ExitGeneralError = 1
	ExitInvalidArgs  = 2
	ExitFetchFailed  = 3
	ExitNoMatch      = 4
	ExitStorageError = 5
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return ExitInvalidArgs
	}

	command := args[0]
	cmdArgs := args[1:]

	switch command {
	case "paths":
		return runPaths(cmdArgs)
	case "catalog":
		return runCatalog(cmdArgs)
	case "hydrobasins":
		return runHydroBasins(cmdArgs)
	case "merit":
		return runMerit(cmdArgs)
	case "mirror":
		return runMirror(cmdArgs)
	case "help", "-h", "--help":
		printUsage()
		return ExitSuccess
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		return ExitInvalidArgs
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `Usage: rabpro <command> [options]

Commands:
  paths        Print the resolved data/config roots and dataset paths
  catalog      Refresh the cached dataset catalog when stale
  hydrobasins  Download the level-1 HydroBasins shapefile
  merit        Download MERIT Hydro tiles matching a pattern
  mirror       Push or pull the local data tree to/from a bucket

Run 'rabpro <command> -h' for command-specific help.`)
}
