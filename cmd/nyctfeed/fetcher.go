package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/citytransit-labs/nyct-gtfsrt/config"
	"github.com/citytransit-labs/nyct-gtfsrt/gtfsrt"
)

// feedSource is the resolved -feed argument: an MTA endpoint, an arbitrary
// URL, or a local file holding captured feed bytes for offline replay.
type feedSource struct {
	url  string
	path string
}

// resolveSource maps the -feed argument to a source. Resolution order:
// explicit URL, configured override by name, known subway line, local file.
func resolveSource(arg string) (feedSource, error) {
	if strings.HasPrefix(arg, "http://") || strings.HasPrefix(arg, "https://") {
		return feedSource{url: arg}, nil
	}
	if url, ok := config.Config.FeedOverride(arg); ok {
		return feedSource{url: url}, nil
	}
	if url, err := gtfsrt.FeedURLForLine(arg); err == nil {
		return feedSource{url: url}, nil
	}
	if _, err := os.Stat(arg); err == nil {
		return feedSource{path: arg}, nil
	}
	return feedSource{}, fmt.Errorf("feed %q is not a subway line, a URL, a configured feed name, or a readable file", arg)
}

func (s feedSource) fetch(client *gtfsrt.Client) ([]byte, error) {
	if s.path != "" {
		return os.ReadFile(s.path)
	}
	return client.Fetch(s.url)
}

func (s feedSource) String() string {
	if s.path != "" {
		return s.path
	}
	return s.url
}
