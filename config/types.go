package config

// APIConfig contains MTA API access configuration
type APIConfig struct {
	Key       string `yaml:"key"`
	TimeoutMS int    `yaml:"timeoutMS" validate:"gte=0"`
}

// StaticConfig contains paths to the GTFS static lookup tables
type StaticConfig struct {
	TripsPath string `yaml:"tripsPath"`
	StopsPath string `yaml:"stopsPath"`
}

// WatchConfig contains watch-mode configuration
type WatchConfig struct {
	IntervalMS  int    `yaml:"intervalMS" validate:"gte=0"`
	MetricsAddr string `yaml:"metricsAddr"`
}

// AppConfig is the root configuration structure
type AppConfig struct {
	API    APIConfig    `yaml:"api"`
	Static StaticConfig `yaml:"static"`
	// Feeds maps a feed name to a URL that overrides the built-in NYCT
	// endpoint for that name.
	Feeds map[string]string `yaml:"feeds" validate:"omitempty,dive,url"`
	Watch WatchConfig       `yaml:"watch"`
}

// FeedOverride returns the configured URL override for a feed name.
func (c *AppConfig) FeedOverride(name string) (string, bool) {
	url, ok := c.Feeds[name]
	return url, ok
}
