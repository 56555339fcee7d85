// Package paths resolves where rabpro keeps its reference datasets on disk.
//
// Two roots are resolved per invocation: a data root (large downloaded
// datasets) and a config root (small user-editable files). Each is taken
// from an explicit override, then an environment variable, then the
// platform's conventional per-user directory.
//
// # Usage
//
//	cfg, table, err := paths.Resolve("", "")
//	// table.DEMElevHP -> <dataroot>/DEM/MERIT_ELEV_HP/MERIT_ELEV_HP.vrt
//
// Resolution never creates directories; callers create what they write to.
package paths
