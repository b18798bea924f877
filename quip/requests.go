package quip

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

func (api *API) GetCurrentUser(ctx context.Context) (*User, error) {
	ep, err := api.getCurrentUserEndpoint()
	if err != nil {
		return nil, fmt.Errorf("quip: couldn't get current user endpoint: %w", err)
	}

	body, err := api.request(ctx, ep.String())
	if err != nil {
		return nil, fmt.Errorf("quip: couldn't perform request: %w", err)
	}

	var user User
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, fmt.Errorf("quip: couldn't parse json response: %w", err)
	}

	return &user, nil
}

func (api *API) GetFolder(ctx context.Context, id string) (*Folder, error) {
	ep, err := api.getFolderEndpoint(id)
	if err != nil {
		return nil, fmt.Errorf("quip: couldn't get folder endpoint: %w", err)
	}

	body, err := api.request(ctx, ep.String())
	if err != nil {
		return nil, fmt.Errorf("quip: couldn't perform request: %w", err)
	}

	var folder Folder
	if err := json.Unmarshal(body, &folder); err != nil {
		return nil, fmt.Errorf("quip: couldn't parse json response: %w", err)
	}

	return &folder, nil
}

func (api *API) GetThread(ctx context.Context, id string) (*Thread, error) {
	ep, err := api.getThreadEndpoint(id)
	if err != nil {
		return nil, fmt.Errorf("quip: couldn't get thread endpoint: %w", err)
	}

	body, err := api.request(ctx, ep.String())
	if err != nil {
		return nil, fmt.Errorf("quip: couldn't perform request: %w", err)
	}

	var thread Thread
	if err := json.Unmarshal(body, &thread); err != nil {
		return nil, fmt.Errorf("quip: couldn't parse json response: %w", err)
	}

	return &thread, nil
}

func (api *API) GetGroup(ctx context.Context, id string) (*Group, error) {
	ep, err := api.getGroupEndpoint(id)
	if err != nil {
		return nil, fmt.Errorf("quip: couldn't get group endpoint: %w", err)
	}

	body, err := api.request(ctx, ep.String())
	if err != nil {
		return nil, fmt.Errorf("quip: couldn't perform request: %w", err)
	}

	var group Group
	if err := json.Unmarshal(body, &group); err != nil {
		return nil, fmt.Errorf("quip: couldn't parse json response: %w", err)
	}

	return &group, nil
}

// GetRecentThreads lists the caller's recently-updated threads.  The API
// returns a map of thread ID to thread object.
func (api *API) GetRecentThreads(ctx context.Context, opts RecentThreadsQuery) (map[string]Thread, error) {
	ep, err := api.getRecentThreadsEndpoint(opts)
	if err != nil {
		return nil, fmt.Errorf("quip: couldn't get recent threads endpoint: %w", err)
	}

	body, err := api.request(ctx, ep.String())
	if err != nil {
		return nil, fmt.Errorf("quip: couldn't perform request: %w", err)
	}

	threads := map[string]Thread{}
	if err := json.Unmarshal(body, &threads); err != nil {
		return nil, fmt.Errorf("quip: couldn't parse json response: %w", err)
	}

	return threads, nil
}

// GetBytes fetches raw bytes from an arbitrary URL (image blobs), with the
// same auth header and retry policy as the JSON endpoints.
func (api *API) GetBytes(ctx context.Context, rawURL string) ([]byte, error) {
	if _, err := url.Parse(rawURL); err != nil {
		return nil, fmt.Errorf("quip: bunk blob URL %s: %w", rawURL, err)
	}

	body, err := api.request(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("quip: couldn't fetch blob: %w", err)
	}

	return body, nil
}

// request performs a GET with bearer auth, retrying transient failures
// (429/502/503/504 and transport errors) with capped exponential backoff.
// This is the only retry mechanism in the whole program.
func (api *API) request(ctx context.Context, url string) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			api.sleep(backoffDelay(attempt - 1))
		}

		body, err := api.requestOnce(ctx, url)
		if err == nil {
			return body, nil
		}

		lastErr = err
		if _, transient := err.(*TransientError); !transient {
			if _, netErr := err.(*requestError); !netErr {
				return nil, err
			}
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}

	return nil, lastErr
}

// requestError wraps a transport-level failure (DNS, connect, timeout), which
// we treat as retryable like a 5xx.
type requestError struct {
	err error
}

func (e *requestError) Error() string { return e.err.Error() }
func (e *requestError) Unwrap() error { return e.err }

func (api *API) requestOnce(ctx context.Context, url string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("quip: couldn't instantiate http request: %w", err)
	}

	req.Header.Add("Accept", "application/json, */*")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Authorization", "Bearer "+api.token)

	response, err := api.Client.Do(req)
	if err != nil {
		return nil, &requestError{err: err}
	}

	body, err := io.ReadAll(response.Body)
	if err != nil {
		response.Body.Close()
		return nil, &requestError{err: err}
	}

	if err := response.Body.Close(); err != nil {
		return nil, fmt.Errorf("quip: couldn't close response body: %w", err)
	}

	switch {
	case response.StatusCode >= 200 && response.StatusCode < 300:
		return body, nil
	case retryableStatus(response.StatusCode):
		return nil, &TransientError{StatusCode: response.StatusCode, URL: url}
	default:
		return nil, &PermanentError{StatusCode: response.StatusCode, URL: url}
	}
}

func backoffDelay(i int) time.Duration {
	d := baseBackoff << uint(i)
	if d > maxBackoff {
		d = maxBackoff
	}
	return d
}
