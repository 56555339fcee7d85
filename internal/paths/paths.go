package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// Environment variables overriding the resolved roots.
const (
	EnvData   = "RABPRO_DATA"
	EnvConfig = "RABPRO_CONFIG"
)

// appName is the per-user directory both roots are namespaced under.
const appName = "rabpro"

// Catalog file names.
const (
	CatalogFile     = "gee_datasets.json"
	UserCatalogFile = "user_gee_datasets.json"
)

// Config holds the two resolved roots. It is immutable after Resolve;
// every component receives it explicitly.
type Config struct {
	DataRoot   string
	ConfigRoot string
}

// Table maps logical dataset keys to absolute paths under the data root.
// UserCatalog is empty when no user catalog file exists at resolution
// time, meaning "use the default catalog only".
type Table struct {
	HydroBasins1  string // level-1 basin boundaries directory
	HydroBasins12 string // level-12 basin boundaries directory
	DEMFlowDir    string // MERIT flow-direction virtual raster
	DEMUpArea     string // MERIT drainage-area virtual raster
	DEMElevHP     string // MERIT elevation virtual raster
	DEMWidth      string // MERIT river-width virtual raster
	Catalog       string // cached dataset catalog
	UserCatalog   string // user catalog override, or ""
}

// Fixed relative layout under the data root.
const (
	relHydroBasins1  = "HydroBasins/level_one"
	relHydroBasins12 = "HydroBasins/level_twelve"
	relDEMFlowDir    = "DEM/MERIT_FDR/MERIT_FDR.vrt"
	relDEMUpArea     = "DEM/MERIT_UDA/MERIT_UDA.vrt"
	relDEMElevHP     = "DEM/MERIT_ELEV_HP/MERIT_ELEV_HP.vrt"
	relDEMWidth      = "DEM/MERIT_WTH/MERIT_WTH.vrt"
)

// Resolve determines the data and config roots and derives the logical
// path table. Explicit overrides win over environment variables, which
// win over the platform defaults.
func Resolve(dataOverride, configOverride string) (Config, Table, error) {
	dataRoot := dataOverride
	if dataRoot == "" {
		dataRoot = os.Getenv(EnvData)
	}
	if dataRoot == "" {
		dir, err := userDataDir()
		if err != nil {
			return Config{}, Table{}, fmt.Errorf("resolve data dir: %w", err)
		}
		dataRoot = filepath.Join(dir, appName)
	}

	configRoot := configOverride
	if configRoot == "" {
		configRoot = os.Getenv(EnvConfig)
	}
	if configRoot == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return Config{}, Table{}, fmt.Errorf("resolve config dir: %w", err)
		}
		configRoot = filepath.Join(dir, appName)
	}

	cfg := Config{DataRoot: dataRoot, ConfigRoot: configRoot}

	table := Table{
		HydroBasins1:  filepath.Join(dataRoot, filepath.FromSlash(relHydroBasins1)),
		HydroBasins12: filepath.Join(dataRoot, filepath.FromSlash(relHydroBasins12)),
		DEMFlowDir:    filepath.Join(dataRoot, filepath.FromSlash(relDEMFlowDir)),
		DEMUpArea:     filepath.Join(dataRoot, filepath.FromSlash(relDEMUpArea)),
		DEMElevHP:     filepath.Join(dataRoot, filepath.FromSlash(relDEMElevHP)),
		DEMWidth:      filepath.Join(dataRoot, filepath.FromSlash(relDEMWidth)),
		Catalog:       filepath.Join(dataRoot, CatalogFile),
	}

	// Only advertise the user catalog when the file is actually there.
	userCatalog := filepath.Join(configRoot, UserCatalogFile)
	if fi, err := os.Stat(userCatalog); err == nil && fi.Mode().IsRegular() {
		table.UserCatalog = userCatalog
	}

	return cfg, table, nil
}

// userDataDir returns the platform's per-user data directory, following
// the XDG base directory spec on unix-likes.
func userDataDir() (string, error) {
	switch runtime.GOOS {
	case "windows":
		dir := os.Getenv("AppData")
		if dir == "" {
			return "", fmt.Errorf("%%AppData%% is not defined")
		}
		return dir, nil
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, "Library", "Application Support"), nil
	default:
		if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
			return dir, nil
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".local", "share"), nil
	}
}
