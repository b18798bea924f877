package quip

// RecentThreadsQuery defines the query parameters for:
// https://quip.com/dev/automation/documentation/current#operation/getRecentThreads
type RecentThreadsQuery struct {
	// Maximum number of threads to return; default 10, capped server-side.
	Count int `url:"count,omitempty"`

	// Only return threads updated strictly before this usec timestamp.
	// Useful for paginating backwards through history.
	MaxUpdatedUsec int64 `url:"max_updated_usec,omitempty"`
}
