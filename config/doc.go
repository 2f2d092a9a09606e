// Package config handles application configuration loading and validation.
//
// Configuration is loaded from config.yml and validated using struct tags.
// Sections cover MTA API access, the static lookup table paths, per-feed
// URL overrides, and watch mode. Every section is optional; a missing file
// leaves the defaults in place.
package config
