package config

import (
	"flag"
	"time"
)

type Config struct {
	ListenAddr    string
	MetricsAddr   string
	ListURL       string
	CacheFile     string
	FetchInterval time.Duration
	CacheMaxAge   time.Duration
	Verbose       bool
}

func Load() *Config {
	cfg := &Config{}
	fetchIntervalSec := 0
	cacheMaxAgeHours := 0

	flag.StringVar(&cfg.ListenAddr, "listen", ":8080", "Address the API server listens on (default :8080)")
	flag.StringVar(&cfg.MetricsAddr, "metrics", ":9090", "Metrics HTTP server address (default :9090)")
	flag.StringVar(&cfg.ListURL, "list-url", "https://publicsuffix.org/list/public_suffix_list.dat", "URL of the public suffix list")
	flag.StringVar(&cfg.CacheFile, "cache-file", "public_suffix_list.dat", "Path of the timestamped rule list cache file")
	flag.IntVar(&fetchIntervalSec, "fetch-interval", 3600, "Rule list refresh check interval in seconds (default 3600)")
	flag.IntVar(&cacheMaxAgeHours, "cache-max-age", 12, "Hours before the cached rule list is redownloaded (default 12)")
	flag.BoolVar(&cfg.Verbose, "verbose", false, "Enable verbose logging")
	flag.Parse()

	cfg.FetchInterval = time.Duration(fetchIntervalSec) * time.Second
	cfg.CacheMaxAge = time.Duration(cacheMaxAgeHours) * time.Hour

	return cfg
}
