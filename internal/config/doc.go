// Package config defines configuration for the rabpro CLI.
//
// Configuration can be provided via:
//   - Command-line flags
//   - Environment variables (RABPRO_ prefix)
//   - YAML configuration file
//
// # Structure
//
//	type Config struct {
//	    DataRoot    string
//	    ConfigRoot  string
//	    Proxy       string
//	    Progress    bool
//	    CatalogTTL  time.Duration
//	    Merit       MeritConfig
//	    Retry       RetryConfig
//	}
//
//	type MeritConfig struct {
//	    Username string
//	    Password string
//	}
//
//	type RetryConfig struct {
//	    Attempts   int
//	    Backoff    time.Duration
//	    MaxBackoff time.Duration
//	}
package config
