package evidence

// Support labels attached to a Reference.
const (
	SupportConfirmsQuote = "Confirms the quote"
	SupportPartial       = "Partial context"
	SupportInterpretive  = "Interpretive context"
)

// FallbackClaim is used when a snippet has no usable leading sentence.
const FallbackClaim = "Lyric-related reference"

const (
	maxClaimRunes   = 120
	maxSnippetRunes = 300
)

// Reference is one scored web source backing an interpretation.
type Reference struct {
	Claim         string  `json:"claim"`
	URL           string  `json:"url"`
	Snippet       string  `json:"snippet"`
	WhyItSupports string  `json:"why_it_supports"`
	Confidence    float64 `json:"confidence"`
}

// Evidence is the engine output handed to the interpretation step.
type Evidence struct {
	References    []Reference `json:"references"`
	Uncertainties []string    `json:"uncertainties"`
}
