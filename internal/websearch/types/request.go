package types

// SearchRequest represents a search request
type SearchRequest struct {
	Query          string   `json:"query"`
	MaxResults     int      `json:"max_results,omitempty"`
	SearchDepth    string   `json:"search_depth,omitempty"` // "basic" or "advanced"
	IncludeDomains []string `json:"include_domains,omitempty"`
	ExcludeDomains []string `json:"exclude_domains,omitempty"`
}

// CacheKey identifies the request for response caching. Domain filters are
// part of the key since they change what the provider returns.
func (r *SearchRequest) CacheKey(provider ProviderID) string {
	return cacheKey(provider, r)
}
