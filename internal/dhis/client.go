package dhis

import (
	"context"
	"time"
)

// Client is the interface for talking to a DHIS2 instance. The analytics
// pipeline depends on this boundary only; authentication, caching and retry
// policy are implementation concerns.
type Client interface {
	Analytics(ctx context.Context, query AnalyticsQuery) (*AnalyticsResponse, error)
	ChildOrgUnits(ctx context.Context, unitID string) ([]OrgUnit, error)
	Me(ctx context.Context) (*User, error)
}

// Config holds the connection and authentication settings for DHIS2.
type Config struct {
	BaseURL string

	// Personal Access Token, preferred when set
	Token string

	// Basic auth fallback
	Username string
	Password string

	// Performance Settings
	RequestDelay time.Duration
}

// NewClient creates a new DHIS2 client from the provided configuration.
func NewClient(cfg Config) Client {
	return newHTTPClient(cfg)
}
