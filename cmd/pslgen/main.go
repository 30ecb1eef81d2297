// Command pslgen compiles the public suffix list into an embeddable Go
// source file holding both tries.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"regdom/internal/client"
	"regdom/internal/gen"
	"regdom/pkg/psl"
)

func main() {
	var (
		out        = flag.String("out", "psl_data.go", "Path of the generated Go source file")
		pkg        = flag.String("pkg", "psldata", "Package name of the generated file")
		cacheFile  = flag.String("cache-file", "public_suffix_list.dat", "Path of the timestamped rule list cache file")
		listURL    = flag.String("list-url", client.DefaultListURL, "URL of the public suffix list")
		maxAgeHour = flag.Int("cache-max-age", 12, "Hours before the cached rule list is redownloaded")
	)
	flag.Parse()

	now := time.Now()
	maxAge := time.Duration(*maxAgeHour) * time.Hour

	text, ok := client.ReadCache(*cacheFile, now, maxAge)
	if ok {
		log.Info().Msgf("Using cached rule list from %s", *cacheFile)
	} else {
		log.Info().Msgf("Redownloading rule list from %s", *listURL)
		var err error
		text, err = client.Download(context.Background(), nil, *listURL)
		if err != nil {
			log.Fatal().Err(err).Msg("Download failed")
		}
		if err := client.WriteCache(*cacheFile, text, now); err != nil {
			log.Fatal().Err(err).Msgf("Writing cache %s failed", *cacheFile)
		}
	}

	positive, negative := psl.ParseRules(text)
	if len(positive) == 0 {
		log.Fatal().Msg("Rule list contains no rules")
	}

	pos := psl.BuildTrie(positive)
	neg := psl.BuildTrie(negative)
	// Bare single-label rules are covered by the resolver's implicit
	// top-level wildcard; dropping them shrinks the artifact.
	pos.PruneRoot()

	src, err := gen.File(*pkg, pos, neg, now)
	if err != nil {
		log.Fatal().Err(err).Msg("Rendering source failed")
	}
	if err := os.WriteFile(*out, src, 0o644); err != nil {
		log.Fatal().Err(err).Msgf("Writing %s failed", *out)
	}

	log.Info().Msgf("Wrote %s: %d positive rules, %d negative rules", *out, pos.Len(), neg.Len())
}
