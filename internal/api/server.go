package api

import (
	"errors"
	"net/http"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	"regdom/internal/index"
	"regdom/internal/metrics"
	"regdom/pkg/psl"
)

// Meta describes the rule list snapshot behind the current List, for
// the endpoints that report on the list rather than resolve against it.
type Meta struct {
	Index    *index.Index
	Positive int
	Negative int
	LoadedAt time.Time
	Source   string
}

type Server struct {
	addr    string
	verbose bool
	lists   *psl.AtomicList

	mu   sync.RWMutex
	meta *Meta
}

type ResolveResponse struct {
	Host              string `json:"host"`
	Outcome           string `json:"outcome"`
	RegistrableDomain string `json:"registrableDomain,omitempty"`
}

type RulesResponse struct {
	Under string   `json:"under"`
	Count int      `json:"count"`
	Rules []string `json:"rules"`
}

type ListResponse struct {
	PositiveRules int       `json:"positiveRules"`
	NegativeRules int       `json:"negativeRules"`
	LoadedAt      time.Time `json:"loadedAt"`
	Source        string    `json:"source"`
}

func NewServer(addr string, verbose bool, lists *psl.AtomicList) *Server {
	return &Server{
		addr:    addr,
		verbose: verbose,
		lists:   lists,
	}
}

// Update publishes the metadata for a freshly stored snapshot.
func (s *Server) Update(meta *Meta) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.meta = meta
	if s.verbose {
		log.Info().Msgf("API metadata updated: %d indexed rules", meta.Index.Len())
	}
}

func (s *Server) getMeta() *Meta {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.meta
}

func (s *Server) Start() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/resolve", s.handleResolve)
	mux.HandleFunc("/api/v1/rules", s.handleRules)
	mux.HandleFunc("/api/v1/list", s.handleList)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/readyz", s.handleReady)

	log.Info().Msgf("API server listening on %s", s.addr)
	return http.ListenAndServe(s.addr, mux)
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.lists.Load() == nil {
		http.Error(w, "rule list not loaded yet", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	host := r.URL.Query().Get("host")
	if host == "" {
		http.Error(w, "host parameter is required", http.StatusBadRequest)
		return
	}

	list := s.lists.Load()
	if list == nil {
		http.Error(w, "rule list not loaded yet", http.StatusServiceUnavailable)
		return
	}

	start := time.Now()
	normalized := psl.NormalizeHost(host)
	domain, err := list.Resolve(normalized)
	outcome := outcomeLabel(err)

	metrics.ResolutionsTotal.WithLabelValues(outcome).Inc()
	metrics.ResolveDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
	if s.verbose {
		log.Info().Msgf("resolve %s -> %q (%s)", normalized, domain, outcome)
	}

	resp := ResolveResponse{Host: normalized, Outcome: outcome}
	status := http.StatusOK
	switch {
	case err == nil:
		resp.RegistrableDomain = domain
	case errors.Is(err, psl.ErrEmptyLabel):
		status = http.StatusUnprocessableEntity
	default:
		// A public suffix or an unmatched single label: well-formed
		// input with no registrable domain.
		status = http.StatusNotFound
	}
	writeJSON(w, status, resp)
}

func (s *Server) handleRules(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	meta := s.getMeta()
	if meta == nil {
		http.Error(w, "rule list not loaded yet", http.StatusServiceUnavailable)
		return
	}

	under := r.URL.Query().Get("under")
	rules := meta.Index.Under(under)
	writeJSON(w, http.StatusOK, RulesResponse{
		Under: under,
		Count: len(rules),
		Rules: rules,
	})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	meta := s.getMeta()
	if meta == nil {
		http.Error(w, "rule list not loaded yet", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, ListResponse{
		PositiveRules: meta.Positive,
		NegativeRules: meta.Negative,
		LoadedAt:      meta.LoadedAt,
		Source:        meta.Source,
	})
}

func outcomeLabel(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeResolved
	case errors.Is(err, psl.ErrEmptyLabel):
		return metrics.OutcomeEmptyLabel
	case errors.Is(err, psl.ErrIsPublicSuffix):
		return metrics.OutcomeIsPublicSuffix
	default:
		return metrics.OutcomeNoMatch
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Err(err).Msg("Failed to encode response")
	}
}
