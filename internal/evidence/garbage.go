package evidence

import (
	"regexp"
	"strings"
)

// garbagePattern catches encoded payloads: data URIs, base64 image headers
// (PNG, JPEG, GIF), long base64 runs and long hex blobs.
const garbagePattern = `(?i)(data:image/|base64,|iVBOR|/9j/4|R0lGOD|[A-Za-z0-9+/=]{80,}|[0-9a-f]{40,})`

var asciiWordPattern = regexp.MustCompile(`^[A-Za-z'’‘-]+$`)

// NoiseFilter rejects snippets that are encoded blobs, too short to be prose,
// or mostly non-text tokens.
type NoiseFilter struct {
	pattern       *regexp.Regexp
	minWords      int
	minASCIIRatio float64
}

// NewNoiseFilter compiles the garbage pattern once for the given config.
func NewNoiseFilter(cfg Config) *NoiseFilter {
	return &NoiseFilter{
		pattern:       regexp.MustCompile(garbagePattern),
		minWords:      cfg.MinSnippetWords,
		minASCIIRatio: cfg.MinASCIIRatio,
	}
}

// IsGarbage reports whether snippet must be dropped before scoring.
func (f *NoiseFilter) IsGarbage(snippet string) bool {
	if f.pattern.MatchString(snippet) {
		return true
	}

	words := strings.Fields(snippet)
	if len(words) < f.minWords {
		return true
	}

	ascii := 0
	for _, w := range words {
		if asciiWordPattern.MatchString(w) {
			ascii++
		}
	}
	return float64(ascii)/float64(len(words)) < f.minASCIIRatio
}
