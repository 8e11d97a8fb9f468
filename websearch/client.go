package websearch

import "context"

// Result is one web search hit.
type Result struct {
	URL     string
	Title   string
	Content string
}

// Client performs a best-effort web search to supplement thin local context.
//
// Search never fails from the caller's perspective: missing credentials,
// network errors and API errors all yield an empty result. Web search is a
// supplement, never a hard dependency of answering a query.
type Client interface {
	Search(ctx context.Context, query string) []Result
}
