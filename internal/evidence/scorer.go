package evidence

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Scorer turns one (lyric line, snippet) pair into a Reference.
//
// The confidence model is additive:
//
//	confidence = Base + hits*LyricWeight + meta*MetaWeight + depth*DepthWeight*gate
//
// where hits counts line keywords found in the snippet, meta counts title and
// artist keywords, depth is the share of snippet vocabulary not taken from the
// line and gate = min(hits/2, 1). A snippet sharing no word with the line is
// rejected outright, however much text it carries.
type Scorer struct {
	cfg      Config
	noise    *NoiseFilter
	stop     KeywordSet
	lowTrust hostList
}

// NewScorer creates a scorer bound to cfg.
func NewScorer(cfg Config, noise *NoiseFilter) *Scorer {
	if noise == nil {
		noise = NewNoiseFilter(cfg)
	}
	return &Scorer{
		cfg:      cfg,
		noise:    noise,
		stop:     newKeywordSet(cfg.NoiseWords),
		lowTrust: newHostList(cfg.LowTrustHosts),
	}
}

// Score rates snippet as support for line. The second return value is false
// when the snippet is garbage or shares no keyword with the line.
func (s *Scorer) Score(line, songTitle, artist, rawURL, snippet string) (Reference, bool) {
	if s.noise.IsGarbage(snippet) {
		return Reference{}, false
	}

	lyricKws := Keywords(line)
	snippetKws := Keywords(snippet).Minus(s.stop)
	metaKws := Keywords(songTitle + " " + artist)

	lyricHits := lyricKws.Intersect(snippetKws)
	metaHits := metaKws.Intersect(snippetKws)

	if lyricHits < s.cfg.MinLyricOverlap {
		return Reference{}, false
	}

	depth := float64(snippetKws.Minus(lyricKws).Len()) / float64(max(snippetKws.Len(), 1))
	gate := math.Min(float64(lyricHits)/2.0, 1.0)

	confidence := s.cfg.Base +
		float64(lyricHits)*s.cfg.LyricWeight +
		float64(metaHits)*s.cfg.MetaWeight +
		depth*s.cfg.DepthWeight*gate

	if s.lowTrust.matches(hostOf(rawURL)) {
		confidence *= s.cfg.LowTrustDiscount
	}

	return Reference{
		Claim:         claimOf(snippet),
		URL:           rawURL,
		Snippet:       truncateRunes(snippet, maxSnippetRunes),
		WhyItSupports: supportLabel(depth, lyricHits),
		Confidence:    roundConfidence(confidence),
	}, true
}

func supportLabel(depth float64, lyricHits int) string {
	switch {
	case depth > 0.4 && lyricHits >= 2:
		return SupportInterpretive
	case depth > 0.2 || lyricHits >= 2:
		return SupportPartial
	default:
		return SupportConfirmsQuote
	}
}

func roundConfidence(v float64) float64 {
	v = math.Max(0, math.Min(1, v))
	return math.Round(v*100) / 100
}

// claimOf returns the first sentence fragment of snippet.
func claimOf(snippet string) string {
	text := strings.TrimLeftFunc(snippet, func(r rune) bool {
		return unicode.IsSpace(r) || strings.ContainsRune(".-:;", r)
	})
	if i := strings.Index(text, ". "); i >= 0 {
		text = text[:i]
	}
	text = strings.TrimSpace(truncateRunes(text, maxClaimRunes))
	if text == "" {
		return FallbackClaim
	}
	return text
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}
