package client

import (
	"context"
	"fmt"
	"io"
	"math"
	"math/rand"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"regdom/internal/metrics"
	"regdom/pkg/psl"
)

// DefaultListURL is where publicsuffix.org publishes the rule list.
const DefaultListURL = "https://publicsuffix.org/list/public_suffix_list.dat"

// futureSlack tolerates clock skew before a cache timestamp counts as
// coming from the future and forces a redownload.
const futureSlack = time.Hour

const (
	initialBackoff = 30 * time.Second
	maxBackoff     = 30 * time.Minute
)

func NewFetcher(listURL, cacheFile string, fetchInterval, cacheMaxAge time.Duration, verbose bool, updates chan<- Snapshot) *Fetcher {
	return &Fetcher{
		listURL:       listURL,
		cacheFile:     cacheFile,
		fetchInterval: fetchInterval,
		cacheMaxAge:   cacheMaxAge,
		verbose:       verbose,
		updates:       updates,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Start refreshes immediately, then on a ticker until ctx ends. Failed
// refreshes back off exponentially before the ticker resumes.
func (f *Fetcher) Start(ctx context.Context) error {
	if f.verbose {
		log.Info().Msgf("Starting rule list fetcher, url: %s, interval: %v", f.listURL, f.fetchInterval)
	}

	if err := f.refresh(ctx); err != nil {
		log.Err(err).Msg("Initial rule list refresh failed")
		metrics.ErrorsTotal.WithLabelValues(metrics.ErrorTypeFetch, "initial").Inc()
	}

	ticker := time.NewTicker(f.fetchInterval)
	defer ticker.Stop()

	var failures int
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := f.refresh(ctx); err != nil {
				failures++
				backoff := backoffDelay(failures)
				log.Err(err).Msgf("Rule list refresh failed (attempt #%d), backing off %s", failures, backoff)
				metrics.ErrorsTotal.WithLabelValues(metrics.ErrorTypeFetch, "refresh").Inc()
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(backoff):
				}
				continue
			}
			if failures > 0 {
				log.Info().Msgf("Rule list refresh recovered after %d failures", failures)
			}
			failures = 0
		}
	}
}

// backoffDelay grows exponentially with jitter to avoid synchronized
// retries.
func backoffDelay(failures int) time.Duration {
	backoff := time.Duration(float64(initialBackoff) * math.Pow(2, float64(failures-1)))
	if backoff > maxBackoff {
		backoff = maxBackoff
	}
	jitterFrac := 0.2
	jitter := time.Duration(rand.Float64()*2*jitterFrac*float64(backoff)) -
		time.Duration(jitterFrac*float64(backoff))
	return backoff + jitter
}

// refresh loads the cached list when it is still fresh, downloads a new
// copy otherwise, then compiles and publishes a snapshot.
func (f *Fetcher) refresh(ctx context.Context) error {
	now := time.Now()

	text, source := "", "cache"
	cached, ok := ReadCache(f.cacheFile, now, f.cacheMaxAge)
	if ok {
		if f.verbose {
			log.Info().Msgf("Using cached rule list from %s", f.cacheFile)
		}
		text = cached
	} else {
		log.Info().Msgf("Redownloading rule list from %s", f.listURL)
		body, err := Download(ctx, f.httpClient, f.listURL)
		if err != nil {
			return err
		}
		if err := WriteCache(f.cacheFile, body, now); err != nil {
			log.Err(err).Msgf("Failed to write rule list cache %s", f.cacheFile)
			metrics.ErrorsTotal.WithLabelValues(metrics.ErrorTypeCacheWrite, "refresh").Inc()
		}
		text, source = body, "download"
	}

	positive, negative := psl.ParseRules(text)
	if len(positive) == 0 {
		metrics.ErrorsTotal.WithLabelValues(metrics.ErrorTypeEmptyList, source).Inc()
		return fmt.Errorf("rule list from %s contains no rules", source)
	}

	snap := Snapshot{
		List:      psl.NewList(positive, negative),
		Positive:  positive,
		Negative:  negative,
		FetchedAt: now,
		Source:    source,
	}

	select {
	case f.updates <- snap:
	case <-ctx.Done():
		return ctx.Err()
	}
	return nil
}

// Download fetches the rule list text. A nil httpClient falls back to a
// client with a 10 second timeout.
func Download(ctx context.Context, httpClient *http.Client, url string) (string, error) {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching rule list: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code from %s: %d", url, resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading rule list: %w", err)
	}
	return string(body), nil
}

// ReadCache returns the cached rule list when the file exists and its
// timestamp header is neither from the future nor older than maxAge.
// The header line is itself a // comment, so the returned text parses
// as-is.
func ReadCache(path string, now time.Time, maxAge time.Duration) (string, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	text := string(data)
	if !strings.HasPrefix(text, "// ") {
		return "", false
	}
	nl := strings.IndexByte(text, '\n')
	if nl < 0 {
		return "", false
	}
	ts, err := strconv.ParseInt(strings.TrimSpace(text[3:nl]), 10, 64)
	if err != nil {
		return "", false
	}
	stamp := time.Unix(ts, 0)
	if stamp.After(now.Add(futureSlack)) || now.Sub(stamp) > maxAge {
		return "", false
	}
	return text, true
}

// WriteCache stores text under path behind a "// <unix-timestamp>"
// header, going through a temp file and rename so a concurrent reader
// never sees a partial list.
func WriteCache(path, text string, now time.Time) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp*")
	if err != nil {
		return err
	}
	header := fmt.Sprintf("// %d\n", now.Unix())
	if _, err := tmp.WriteString(header + text); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}
