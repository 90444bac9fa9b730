package core

import (
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/encoding/json"
)

const GreetingPath = "/api/hello"

// isoMillis matches the millisecond UTC form used by browsers for ISO-8601.
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

type GreetingResponse struct {
	Message string `json:"message"`
	TS      string `json:"ts"`
}

// GreetingService answers GET and OPTIONS on the greeting endpoint and owns
// the call counter for the lifetime of the process.
type GreetingService struct {
	policy   CORSPolicy
	hostname string
	logger   zerolog.Logger
	now      func() time.Time

	calls atomic.Int64
}

func NewGreetingService(policy CORSPolicy, hostname string, logger zerolog.Logger) *GreetingService {
	return &GreetingService{
		policy:   policy,
		hostname: hostname,
		logger:   logger.With().Str("component", "greeting").Logger(),
		now:      time.Now,
	}
}

func NewGreetingServiceFromConfig(cfg *Config, logger zerolog.Logger) *GreetingService {
	return NewGreetingService(ParseCORSPolicy(cfg.AllowedOrigins), cfg.ResolveHostname(), logger)
}

func (s *GreetingService) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.HandleGreeting(w, r)
	case http.MethodOptions:
		s.HandlePreflight(w, r)
	default:
		s.policy.Apply(w.Header(), r)
		w.Header().Set("Allow", "GET, OPTIONS")
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	}
}

// HandlePreflight replies 204 with the CORS headers and nothing else.
func (s *GreetingService) HandlePreflight(w http.ResponseWriter, r *http.Request) {
	s.policy.Apply(w.Header(), r)
	w.WriteHeader(http.StatusNoContent)
}

func (s *GreetingService) HandleGreeting(w http.ResponseWriter, r *http.Request) {
	s.policy.Apply(w.Header(), r)

	resp := s.Greet()

	body, err := json.Marshal(resp)
	if err != nil {
		s.logger.Error().Err(err).Msg("encode greeting")
		http.Error(w, "Server error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

// Greet increments the call counter and builds the response for that call.
func (s *GreetingService) Greet() GreetingResponse {
	ts := s.now().UTC().Format(isoMillis)
	n := s.calls.Add(1)

	s.logger.Debug().Int64("call", n).Str("ts", ts).Msg("greeting")

	return GreetingResponse{
		Message: fmt.Sprintf("Hello from %s at %s. Call #%d.", s.hostname, ts, n),
		TS:      ts,
	}
}
