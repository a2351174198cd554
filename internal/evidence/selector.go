package evidence

// Selector caps the scored references and keeps the strong and weak tiers
// apart: a weak reference never shares an output list with a strong one.
type Selector struct {
	threshold    float64
	maxStrong    int
	maxWeak      int
	weakFallback bool
}

// NewSelector creates a selector for cfg.
func NewSelector(cfg Config) *Selector {
	return &Selector{
		threshold:    cfg.StrongThreshold,
		maxStrong:    cfg.MaxStrongRefs,
		maxWeak:      cfg.MaxWeakRefs,
		weakFallback: cfg.ReturnWeakFallback,
	}
}

// Partition splits refs at the strong threshold, keeping relative order.
func (s *Selector) Partition(refs []Reference) (strong, weak []Reference) {
	for _, r := range refs {
		if r.Confidence >= s.threshold {
			strong = append(strong, r)
		} else {
			weak = append(weak, r)
		}
	}
	return strong, weak
}

// Select expects refs sorted by descending confidence.
func (s *Selector) Select(refs []Reference) []Reference {
	strong, weak := s.Partition(refs)
	if len(strong) > 0 {
		return head(strong, s.maxStrong)
	}
	if s.weakFallback {
		return head(weak, s.maxWeak)
	}
	return []Reference{}
}

func head(refs []Reference, n int) []Reference {
	if len(refs) > n {
		refs = refs[:n]
	}
	out := make([]Reference, len(refs))
	copy(out, refs)
	return out
}
