package evidence

import (
	"errors"
	"fmt"
	"time"
)

// Config holds every tunable of the evidence engine. It is built once at
// process start and handed by value to each component constructor; nothing
// in this package mutates it afterwards.
type Config struct {
	// Confidence model
	Base             float64
	LyricWeight      float64
	MetaWeight       float64
	DepthWeight      float64
	MinLyricOverlap  int
	StrongThreshold  float64
	LowTrustDiscount float64

	// Snippet filter
	MinSnippetWords int
	MinASCIIRatio   float64

	// Output caps
	MaxStrongRefs      int
	MaxWeakRefs        int
	ReturnWeakFallback bool

	// Uncertainty
	ShallowMeanThreshold float64

	// Orchestration
	MaxResultsPerQuery int
	QueryTimeout       time.Duration
	AllusionQuery      bool
	Parallel           bool

	// Static lists
	BlockedHosts         []string
	BlockedPathFragments []string
	LowTrustHosts        []string
	NoiseWords           []string
}

// DefaultConfig returns the stock engine configuration.
func DefaultConfig() Config {
	return Config{
		Base:             0.10,
		LyricWeight:      0.15,
		MetaWeight:       0.06,
		DepthWeight:      0.30,
		MinLyricOverlap:  1,
		StrongThreshold:  0.60,
		LowTrustDiscount: 0.75,

		MinSnippetWords: 8,
		MinASCIIRatio:   0.5,

		MaxStrongRefs:      3,
		MaxWeakRefs:        2,
		ReturnWeakFallback: false,

		ShallowMeanThreshold: 0.70,

		MaxResultsPerQuery: 5,
		QueryTimeout:       25 * time.Second,
		AllusionQuery:      true,
		Parallel:           false,

		BlockedHosts: []string{
			// verbatim lyric reproductions
			"genius.com",
			"azlyrics.com",
			"lyrics.com",
			"musixmatch.com",
			"songlyrics.com",
			"metrolyrics.com",
			// video / social, login walls or non-text media
			"youtube.com",
			"youtu.be",
			"tiktok.com",
			"instagram.com",
			"facebook.com",
			"twitter.com",
			"x.com",
			"pinterest.com",
			"spotify.com",
			// academic paper hosts
			"researchgate.net",
			"academia.edu",
			"jstor.org",
			"arxiv.org",
			"semanticscholar.org",
		},
		BlockedPathFragments: []string{
			"/shorts/",
			"/reel/",
			"/watch?",
			"/login",
			"/signin",
		},
		LowTrustHosts: []string{
			"songmeanings.com",
			"lyricsmode.com",
			"lyricstranslate.com",
			"lyricinterpretations.com",
		},
		NoiseWords: []string{
			"search", "video", "click", "download", "free", "play", "watch", "share",
			"subscribe", "login", "sign", "cookie", "cookies", "privacy", "advertisement",
		},
	}
}

// Validate checks that the weights keep the documented shape of the
// confidence model: additive, monotonic in every input, capped at 1.0 and
// never below Base for an accepted result.
func (c Config) Validate() error {
	if c.Base < 0 || c.Base > 1 {
		return fmt.Errorf("evidence: base must be within [0,1], got %v", c.Base)
	}
	if c.LyricWeight <= 0 {
		return errors.New("evidence: lyric weight must be > 0")
	}
	if c.MetaWeight < 0 || c.DepthWeight < 0 {
		return errors.New("evidence: meta and depth weights must be >= 0")
	}
	// Once the gate is open an extra shared word costs at most DepthWeight/3
	// of depth, so it must be paid for by one LyricWeight.
	if c.DepthWeight > 3*c.LyricWeight {
		return fmt.Errorf("evidence: depth weight %v exceeds 3x lyric weight %v", c.DepthWeight, c.LyricWeight)
	}
	if c.MinLyricOverlap < 1 {
		return errors.New("evidence: min lyric overlap must be >= 1")
	}
	if c.StrongThreshold <= 0 || c.StrongThreshold > 1 {
		return fmt.Errorf("evidence: strong threshold must be within (0,1], got %v", c.StrongThreshold)
	}
	if c.LowTrustDiscount <= 0 || c.LowTrustDiscount > 1 {
		return fmt.Errorf("evidence: low trust discount must be within (0,1], got %v", c.LowTrustDiscount)
	}
	if (c.Base+c.LyricWeight)*c.LowTrustDiscount < c.Base {
		return errors.New("evidence: low trust discount drops a gated result below base")
	}
	if c.MinSnippetWords < 1 {
		return errors.New("evidence: min snippet words must be >= 1")
	}
	if c.MinASCIIRatio < 0 || c.MinASCIIRatio > 1 {
		return errors.New("evidence: min ascii ratio must be within [0,1]")
	}
	if c.MaxStrongRefs < 1 {
		return errors.New("evidence: max strong refs must be >= 1")
	}
	if c.MaxWeakRefs < 0 {
		return errors.New("evidence: max weak refs must be >= 0")
	}
	if c.MaxResultsPerQuery < 1 {
		return errors.New("evidence: max results per query must be >= 1")
	}
	if c.QueryTimeout <= 0 {
		return errors.New("evidence: query timeout must be > 0")
	}
	return nil
}
