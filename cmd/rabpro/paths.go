package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/tzussman/rabpro/internal/config"
)

func runPaths(args []string) int {
	fs := flag.NewFlagSet("paths", flag.ExitOnError)

	configFile := fs.String("config", "", "YAML config file")
	data := fs.String("data", "", "Data root override")
	configRoot := fs.String("configroot", "", "Config root override")

	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, `Usage: rabpro paths [options]

Print the resolved data and config roots and every logical dataset path.

Options:`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return ExitInvalidArgs
	}

	cfg, err := loadConfig(*configFile, config.Config{DataRoot: *data, ConfigRoot: *configRoot})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitGeneralError
	}

	pathCfg, table, err := resolvePaths(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitGeneralError
	}

	fmt.Printf("data root:        %s\n", pathCfg.DataRoot)
	fmt.Printf("config root:      %s\n", pathCfg.ConfigRoot)
	fmt.Printf("hydrobasins L1:   %s\n", table.HydroBasins1)
	fmt.Printf("hydrobasins L12:  %s\n", table.HydroBasins12)
	fmt.Printf("DEM flow dir:     %s\n", table.DEMFlowDir)
	fmt.Printf("DEM drainage:     %s\n", table.DEMUpArea)
	fmt.Printf("DEM elevation:    %s\n", table.DEMElevHP)
	fmt.Printf("DEM width:        %s\n", table.DEMWidth)
	fmt.Printf("catalog:          %s\n", table.Catalog)
	if table.UserCatalog != "" {
		fmt.Printf("user catalog:     %s\n", table.UserCatalog)
	} else {
		fmt.Printf("user catalog:     (none)\n")
	}

	return ExitSuccess
}
