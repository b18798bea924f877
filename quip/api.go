package quip

import (
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const (
	defaultBaseURL = "https://platform.quip.com/1"
	userAgent      = "quip-dump/1.0"

	// Per-request timeout, matching Quip's rather slow thread endpoint.
	requestTimeout = 45 * time.Second

	// Retry knobs for transient HTTP failures (429/502/503/504).
	maxAttempts = 4
	baseBackoff = 2 * time.Second
	maxBackoff  = 10 * time.Second
)

func NewAPI(token string) (*API, error) {
	if token == "" {
		return nil, fmt.Errorf("quip: auth token is empty, set QUIP_TOKEN or pass --token")
	}

	u, err := url.ParseRequestURI(defaultBaseURL)
	if err != nil {
		return nil, fmt.Errorf("quip: couldn't parse REST API URL: %w", err)
	}

	a := &API{
		BaseURI: u,
		token:   token,
		sleep:   time.Sleep,
	}
	a.Client = &http.Client{}

	return a, nil
}

type API struct {
	// Base URI of the Quip platform API, e.g. https://platform.quip.com/1
	BaseURI *url.URL

	// An HTTP client - you can substitute VCR or whatnot.
	Client *http.Client

	// Personal Access Token
	token string

	// sleep is called for backoff between retry attempts.
	sleep func(time.Duration)
}
