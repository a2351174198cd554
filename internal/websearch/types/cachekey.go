package types

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

func cacheKey(provider ProviderID, r *SearchRequest) string {
	include := sortedCopy(r.IncludeDomains)
	exclude := sortedCopy(r.ExcludeDomains)

	raw := fmt.Sprintf("%s|%s|%d|%s|%s|%s",
		provider,
		strings.TrimSpace(r.Query),
		r.MaxResults,
		r.SearchDepth,
		strings.Join(include, ","),
		strings.Join(exclude, ","),
	)
	sum := sha256.Sum256([]byte(raw))
	return string(provider) + ":" + hex.EncodeToString(sum[:])
}

func sortedCopy(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	sort.Strings(out)
	return out
}
