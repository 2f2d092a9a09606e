package gtfsrt

import (
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"
)

// Every line of a feed group shares one endpoint; fetching any of them
// returns the whole group's trips. "S" and "GS" are the 42nd St shuttle,
// "FS"/"SF"/"SR" the Franklin Av shuttle, "H" the Rockaway shuttle and
// "SI"/"SS"/"SIR" the Staten Island Railway.
const (
	feedURL1234567 = "https://api-endpoint.mta.info/Dataservice/mtagtfsfeeds/nyct%2Fgtfs"
	feedURLACE     = "https://api-endpoint.mta.info/Dataservice/mtagtfsfeeds/nyct%2Fgtfs-ace"
	feedURLBDFM    = "https://api-endpoint.mta.info/Dataservice/mtagtfsfeeds/nyct%2Fgtfs-bdfm"
	feedURLG       = "https://api-endpoint.mta.info/Dataservice/mtagtfsfeeds/nyct%2Fgtfs-g"
	feedURLJZ      = "https://api-endpoint.mta.info/Dataservice/mtagtfsfeeds/nyct%2Fgtfs-jz"
	feedURLNQRW    = "https://api-endpoint.mta.info/Dataservice/mtagtfsfeeds/nyct%2Fgtfs-nqrw"
	feedURLL       = "https://api-endpoint.mta.info/Dataservice/mtagtfsfeeds/nyct%2Fgtfs-l"
	feedURLSIR     = "https://api-endpoint.mta.info/Dataservice/mtagtfsfeeds/nyct%2Fgtfs-si"
)

var lineToFeedURL = map[string]string{
	"1": feedURL1234567, "2": feedURL1234567, "3": feedURL1234567,
	"4": feedURL1234567, "5": feedURL1234567, "6": feedURL1234567,
	"7": feedURL1234567, "S": feedURL1234567, "GS": feedURL1234567,
	"A": feedURLACE, "C": feedURLACE, "E": feedURLACE,
	"H": feedURLACE, "FS": feedURLACE, "SF": feedURLACE, "SR": feedURLACE,
	"B": feedURLBDFM, "D": feedURLBDFM, "F": feedURLBDFM, "M": feedURLBDFM,
	"G": feedURLG,
	"J": feedURLJZ, "Z": feedURLJZ,
	"N": feedURLNQRW, "Q": feedURLNQRW, "R": feedURLNQRW, "W": feedURLNQRW,
	"L": feedURLL,
	"SI": feedURLSIR, "SS": feedURLSIR, "SIR": feedURLSIR,
}

// FeedURLForLine resolves a subway line identifier such as "1", "Q" or "SIR"
// to the MTA feed endpoint covering it.
func FeedURLForLine(line string) (string, error) {
	url, ok := lineToFeedURL[line]
	if !ok {
		return "", fmt.Errorf("unknown subway line %q, want one of %v", line, Lines())
	}
	return url, nil
}

// Lines returns every line identifier with a known feed endpoint, sorted.
func Lines() []string {
	lines := make([]string, 0, len(lineToFeedURL))
	for line := range lineToFeedURL {
		lines = append(lines, line)
	}
	sort.Strings(lines)
	return lines
}

// DefaultFetchTimeout bounds a single feed fetch.
const DefaultFetchTimeout = 30 * time.Second

// Client fetches raw feed bytes from the MTA API. Decoding is the caller's
// job; see NewFeed.
type Client struct {
	// APIKey is sent as the x-api-key header when non-empty. Keys come
	// from https://api.mta.info/.
	APIKey string
	// HTTPClient may be replaced to change transport behavior. NewClient
	// installs one with DefaultFetchTimeout.
	HTTPClient *http.Client
}

// NewClient creates a Client authenticating with apiKey.
func NewClient(apiKey string) *Client {
	return &Client{
		APIKey:     apiKey,
		HTTPClient: &http.Client{Timeout: DefaultFetchTimeout},
	}
}

// Fetch does one GET against url and returns the raw body bytes.
func (c *Client) Fetch(url string) ([]byte, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if c.APIKey != "" {
		req.Header.Set("x-api-key", c.APIKey)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d from %s", resp.StatusCode, url)
	}

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading body from %s: %w", url, err)
	}
	if len(b) == 0 {
		return nil, fmt.Errorf("empty response from %s", url)
	}
	return b, nil
}

// FetchLine fetches the feed covering the given subway line.
func (c *Client) FetchLine(line string) ([]byte, error) {
	url, err := FeedURLForLine(line)
	if err != nil {
		return nil, err
	}
	return c.Fetch(url)
}
