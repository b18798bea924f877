package quip

import (
	"fmt"
	"net/url"

	"github.com/google/go-querystring/query"
)

// getCurrentUserEndpoint returns the endpoint to fetch the authenticated user:
// https://quip.com/dev/automation/documentation/current#operation/getAuthenticatedUser
func (a *API) getCurrentUserEndpoint() (*url.URL, error) {
	return a.resolveEndpoint("users/current")
}

// getFolderEndpoint returns the endpoint to fetch one folder (works for both
// web-shorthand IDs and API IDs):
// https://quip.com/dev/automation/documentation/current#operation/getFolder
func (a *API) getFolderEndpoint(id string) (*url.URL, error) {
	if id == "" {
		return nil, fmt.Errorf("quip: please provide ID to get folder")
	}
	return a.resolveEndpoint(fmt.Sprintf("folders/%s", url.PathEscape(id)))
}

// getThreadEndpoint returns the endpoint to fetch one thread (document):
// https://quip.com/dev/automation/documentation/current#operation/getThread
func (a *API) getThreadEndpoint(id string) (*url.URL, error) {
	if id == "" {
		return nil, fmt.Errorf("quip: please provide ID to get thread")
	}
	return a.resolveEndpoint(fmt.Sprintf("threads/%s", url.PathEscape(id)))
}

// getGroupEndpoint returns the endpoint to fetch one group (team workspace):
// https://quip.com/dev/automation/documentation/current#operation/getGroup
func (a *API) getGroupEndpoint(id string) (*url.URL, error) {
	if id == "" {
		return nil, fmt.Errorf("quip: please provide ID to get group")
	}
	return a.resolveEndpoint(fmt.Sprintf("groups/%s", url.PathEscape(id)))
}

// getRecentThreadsEndpoint returns the endpoint to list recently-updated threads:
// https://quip.com/dev/automation/documentation/current#operation/getRecentThreads
func (a *API) getRecentThreadsEndpoint(opts RecentThreadsQuery) (*url.URL, error) {
	ep, err := a.resolveEndpoint("threads/recent")
	if err != nil {
		return nil, fmt.Errorf("quip: couldn't resolve endpoint: %w", err)
	}

	v, err := query.Values(opts)
	if err != nil {
		return nil, fmt.Errorf("quip: couldn't encode query params: %w", err)
	}
	ep.RawQuery = v.Encode()

	return ep, nil
}

// Do a bit of error checking on endpoint format, and return it relative to the base URI.
func (a *API) resolveEndpoint(endpoint string) (*url.URL, error) {
	ref, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("quip: failed to parse endpoint ref: %w", err)
	}

	// BaseURI carries a path component ("/1"), so resolve by joining rather
	// than by reference, which would clobber it.
	joined := *a.BaseURI
	joined.Path = joined.Path + "/" + ref.Path
	joined.RawQuery = ref.RawQuery

	return &joined, nil
}
