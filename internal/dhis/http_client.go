package dhis

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

type httpClient struct {
	cfg    Config
	client *http.Client

	// Pacing state. Concurrent pipeline runs share one client, so the
	// throttle serializes request spacing under its own lock.
	lastRequest   time.Time
	throttleMutex sync.Mutex

	// Session Cache (metadata lookups only; analytics results are never cached)
	cache      map[string]*cacheEntry
	cacheMutex sync.RWMutex
}

type cacheEntry struct {
	Value       any
	Expiration  time.Time
	AccessCount int
	OriginalTTL time.Duration
}

func newHTTPClient(cfg Config) *httpClient {
	if cfg.RequestDelay == 0 {
		cfg.RequestDelay = 1 * time.Second
	}
	return &httpClient{
		cfg: cfg,
		client: &http.Client{
			Timeout: 90 * time.Second,
		},
		cache: make(map[string]*cacheEntry),
	}
}

func (c *httpClient) getFromCache(key string) (any, bool) {
	c.cacheMutex.Lock()
	defer c.cacheMutex.Unlock()

	entry, ok := c.cache[key]
	if !ok {
		log.Debug().Str("key", key).Msg("Cache miss")
		return nil, false
	}
	log.Debug().Str("key", key).Msg("Cache hit")

	if time.Now().After(entry.Expiration) {
		delete(c.cache, key)
		return nil, false
	}

	// Sliding window extension
	if entry.AccessCount < 6 {
		entry.Expiration = time.Now().Add(entry.OriginalTTL)
		entry.AccessCount++
		log.Trace().Str("key", key).Int("count", entry.AccessCount).Msg("Extended cache TTL")
	}

	return entry.Value, true
}

func (c *httpClient) addToCache(key string, value any, ttl time.Duration) {
	c.cacheMutex.Lock()
	defer c.cacheMutex.Unlock()

	c.cache[key] = &cacheEntry{
		Value:       value,
		Expiration:  time.Now().Add(ttl),
		OriginalTTL: ttl,
		AccessCount: 1,
	}
	log.Debug().Str("key", key).Dur("ttl", ttl).Msg("Added to cache")
}

func (c *httpClient) throttle(isMetadata bool) {
	c.throttleMutex.Lock()
	defer c.throttleMutex.Unlock()

	// Metadata requests (org units, user) are allowed to "burst" sequentially
	// to avoid artificial delay during the selection phase.
	if isMetadata {
		c.lastRequest = time.Now()
		return
	}

	elapsed := time.Since(c.lastRequest)
	if elapsed < c.cfg.RequestDelay {
		wait := c.cfg.RequestDelay - elapsed
		log.Debug().Dur("wait", wait).Msg("Throttling DHIS2 request")
		time.Sleep(wait)
	}
	c.lastRequest = time.Now()
}

func (c *httpClient) authenticateRequest(req *http.Request) {
	// Prioritize Personal Access Token (PAT), fall back to basic auth.
	if c.cfg.Token != "" {
		req.Header.Set("Authorization", fmt.Sprintf("ApiToken %s", c.cfg.Token))
		return
	}
	if c.cfg.Username != "" {
		req.SetBasicAuth(c.cfg.Username, c.cfg.Password)
	}
}

func (c *httpClient) statusError(status int, what string) error {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("DHIS2 authentication failed (401/403). Please check your token or credentials.")
	case http.StatusNotFound:
		return fmt.Errorf("%s not found", what)
	case http.StatusConflict:
		return fmt.Errorf("DHIS2 rejected the %s request (409). The dimension selection is likely invalid.", what)
	default:
		return fmt.Errorf("DHIS2 API returned status %d for %s. Please check server availability.", status, what)
	}
}

func (c *httpClient) Analytics(ctx context.Context, query AnalyticsQuery) (*AnalyticsResponse, error) {
	c.throttle(false)

	analyticsURL := fmt.Sprintf("%s/api/analytics?%s", strings.TrimRight(c.cfg.BaseURL, "/"), query.Params().Encode())
	log.Info().Msg("Requesting analytics from DHIS2")
	log.Debug().Str("url", analyticsURL).Msg("Analytics request details")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, analyticsURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	c.authenticateRequest(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.statusError(resp.StatusCode, "analytics")
	}

	var result AnalyticsResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode analytics response: %w", err)
	}

	return &result, nil
}

func (c *httpClient) ChildOrgUnits(ctx context.Context, unitID string) ([]OrgUnit, error) {
	cacheKey := "children:" + unitID
	if val, ok := c.getFromCache(cacheKey); ok {
		return val.([]OrgUnit), nil
	}

	c.throttle(true)

	childURL := fmt.Sprintf(
		"%s/api/organisationUnits/%s?fields=children[id,displayName,path,level,parent,organisationUnitGroups]",
		strings.TrimRight(c.cfg.BaseURL, "/"), unitID)
	log.Debug().Str("url", childURL).Msg("Requesting child org units")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, childURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	c.authenticateRequest(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.statusError(resp.StatusCode, fmt.Sprintf("organisation unit %s", unitID))
	}

	var result OrgUnit
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode org unit response: %w", err)
	}

	c.addToCache(cacheKey, result.Children, 10*time.Minute)
	return result.Children, nil
}

func (c *httpClient) Me(ctx context.Context) (*User, error) {
	cacheKey := "me"
	if val, ok := c.getFromCache(cacheKey); ok {
		return val.(*User), nil
	}

	c.throttle(true)

	meURL := fmt.Sprintf("%s/api/me?fields=id,name,organisationUnits[id,displayName,path,level]",
		strings.TrimRight(c.cfg.BaseURL, "/"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, meURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	c.authenticateRequest(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.statusError(resp.StatusCode, "current user")
	}

	var result User
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode user response: %w", err)
	}

	c.addToCache(cacheKey, &result, 30*time.Minute)
	return &result, nil
}
