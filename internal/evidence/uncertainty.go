package evidence

// Caveats emitted by the Assessor.
const (
	CaveatWebDisabled  = "Web search disabled; interpretation is based on lyric text alone."
	CaveatNoEvidence   = "No supporting evidence found; interpretation is based on lyric text alone."
	CaveatShallow      = "Supporting evidence is shallow; sources mostly restate the lyric."
	CaveatNoHighConfid = "No high-confidence sources found."
)

// Assessor derives caveats from the final reference list.
type Assessor struct {
	strongThreshold float64
	shallowMean     float64
}

// NewAssessor creates an assessor for cfg.
func NewAssessor(cfg Config) *Assessor {
	return &Assessor{
		strongThreshold: cfg.StrongThreshold,
		shallowMean:     cfg.ShallowMeanThreshold,
	}
}

// Assess returns zero or more caveats, never nil. Rules apply in order and
// the first three are exclusive: web search off, a search note, no evidence.
func (a *Assessor) Assess(refs []Reference, webSearchEnabled bool, note string) []string {
	if !webSearchEnabled {
		return []string{CaveatWebDisabled}
	}
	if note != "" {
		return []string{note}
	}
	if len(refs) == 0 {
		return []string{CaveatNoEvidence}
	}

	caveats := []string{}

	var sum float64
	anyStrong := false
	for _, r := range refs {
		sum += r.Confidence
		if r.Confidence >= a.strongThreshold {
			anyStrong = true
		}
	}

	if sum/float64(len(refs)) < a.shallowMean {
		caveats = append(caveats, CaveatShallow)
	}
	if !anyStrong {
		caveats = append(caveats, CaveatNoHighConfid)
	}
	return caveats
}
