package wordgo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

var ErrOracleUnavailable = errors.New("similarity oracle unavailable")

// SimilarityOracle produces embedding vectors for words. Implementations
// may fail on I/O; callers must degrade rather than abort, so scoring
// never depends on the oracle being up. Embed batches all requested
// words in a single call.
type SimilarityOracle interface {
	Embed(ctx context.Context, words []string) ([]Vector, error)
}

const (
	oracleTimeout     = 5 * time.Second
	oracleRateLimit   = rate.Limit(20)
	oracleRateBurst   = 5
	oracleMaxBodySize = 8 << 20
)

// HTTPOracle talks to an embedding service over JSON. Requests are rate
// limited so a chatty room cannot hammer the model endpoint.
type HTTPOracle struct {
	url     string
	client  *http.Client
	limiter *rate.Limiter
	log     zerolog.Logger
}

func NewHTTPOracle(url string, logger zerolog.Logger) *HTTPOracle {
	return &HTTPOracle{
		url:     url,
		client:  &http.Client{Timeout: oracleTimeout},
		limiter: rate.NewLimiter(oracleRateLimit, oracleRateBurst),
		log:     logger.With().Str("component", "oracle").Logger(),
	}
}

type embedRequest struct {
	Words []string `json:"words"`
}

type embedResponse struct {
	Vectors []Vector `json:"vectors"`
}

func (o *HTTPOracle) Embed(ctx context.Context, words []string) ([]Vector, error) {
	if err := o.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrOracleUnavailable, err)
	}

	body, err := json.Marshal(embedRequest{Words: words})
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrOracleUnavailable, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrOracleUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		o.log.Warn().Err(err).Int("words", len(words)).Msg("embed request failed")
		return nil, fmt.Errorf("%w: %s", ErrOracleUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		o.log.Warn().Int("status", resp.StatusCode).Msg("embed request rejected")
		return nil, fmt.Errorf("%w: status %d", ErrOracleUnavailable, resp.StatusCode)
	}

	var decoded embedResponse
	if err := json.NewDecoder(http.MaxBytesReader(nil, resp.Body, oracleMaxBodySize)).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrOracleUnavailable, err)
	}
	if len(decoded.Vectors) != len(words) {
		return nil, fmt.Errorf("%w: got %d vectors for %d words", ErrOracleUnavailable, len(decoded.Vectors), len(words))
	}
	return decoded.Vectors, nil
}

// CachedOracle is a read-mostly word->vector cache in front of another
// oracle. Lookups are case-insensitive. Invalidate must be called when
// the vocabulary is replaced, since suggestions computed from stale
// vectors would otherwise survive the swap.
type CachedOracle struct {
	inner SimilarityOracle

	mu      sync.RWMutex
	vectors map[string]Vector
}

func NewCachedOracle(inner SimilarityOracle) *CachedOracle {
	return &CachedOracle{
		inner:   inner,
		vectors: make(map[string]Vector),
	}
}

func (c *CachedOracle) Embed(ctx context.Context, words []string) ([]Vector, error) {
	out := make([]Vector, len(words))
	var misses []string
	missIdx := make(map[string][]int)

	c.mu.RLock()
	for i, word := range words {
		key := strings.ToLower(word)
		if vec, ok := c.vectors[key]; ok {
			out[i] = vec
			continue
		}
		if _, seen := missIdx[key]; !seen {
			misses = append(misses, word)
		}
		missIdx[key] = append(missIdx[key], i)
	}
	c.mu.RUnlock()

	if len(misses) == 0 {
		return out, nil
	}

	fetched, err := c.inner.Embed(ctx, misses)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	for i, word := range misses {
		key := strings.ToLower(word)
		c.vectors[key] = fetched[i]
		for _, j := range missIdx[key] {
			out[j] = fetched[i]
		}
	}
	c.mu.Unlock()

	return out, nil
}

// Invalidate drops every cached vector.
func (c *CachedOracle) Invalidate() {
	c.mu.Lock()
	c.vectors = make(map[string]Vector)
	c.mu.Unlock()
}

// Len reports the number of cached vectors.
func (c *CachedOracle) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.vectors)
}
