package client

import (
	"net/http"
	"time"

	"regdom/pkg/psl"
)

// Snapshot is one compiled rule list pushed to the service loop. The
// raw rule sets ride along so consumers can build secondary structures
// (the rule index) without reparsing.
type Snapshot struct {
	List      *psl.List
	Positive  []psl.Rule
	Negative  []psl.Rule
	FetchedAt time.Time
	Source    string // "cache" or "download"
}

// Fetcher keeps the on-disk rule list fresh and publishes compiled
// snapshots over the update channel.
type Fetcher struct {
	listURL       string
	cacheFile     string
	fetchInterval time.Duration
	cacheMaxAge   time.Duration
	verbose       bool
	updates       chan<- Snapshot
	httpClient    *http.Client
}
