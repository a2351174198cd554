// Package interpret turns a lyric line, its song context and the gathered
// evidence into a short natural-language meaning.
package interpret

import (
	"strings"
	"unicode/utf8"

	"github.com/lk2023060901/lyricnote/internal/evidence"
)

const (
	contextRadius        = 2
	fallbackContextRows  = 6
	fallbackContextRunes = 700
	contextRunes         = 900

	// NoEvidence fills the evidence placeholder when nothing was found.
	NoEvidence = "None"
)

// PromptVars are the values substituted into the user prompt template.
type PromptVars struct {
	Line          string
	SongText      string
	ContextWindow string
	SongTitle     string
	Artist        string
	Evidence      string
}

// RenderPrompt replaces {line}, {target_line}, {song_text}, {context_window},
// {song_title}, {artist} and {evidence} in tmpl. Substitution is a single
// pass, so placeholders inside the values are left as they are.
func RenderPrompt(tmpl string, v PromptVars) string {
	return strings.NewReplacer(
		"{line}", v.Line,
		"{target_line}", v.Line,
		"{song_text}", v.SongText,
		"{context_window}", v.ContextWindow,
		"{song_title}", v.SongTitle,
		"{artist}", v.Artist,
		"{evidence}", v.Evidence,
	).Replace(tmpl)
}

// ContextWindow returns the non-empty song rows within two rows of the first
// row containing line (case-insensitive). When line is not found it returns
// the opening rows instead.
func ContextWindow(songText, line string) string {
	if songText == "" || line == "" {
		return ""
	}

	var rows []string
	for _, r := range strings.Split(songText, "\n") {
		if r = strings.TrimSpace(r); r != "" {
			rows = append(rows, r)
		}
	}

	needle := strings.ToLower(line)
	idx := -1
	for i, r := range rows {
		if strings.Contains(strings.ToLower(r), needle) {
			idx = i
			break
		}
	}

	if idx < 0 {
		head := rows[:min(len(rows), fallbackContextRows)]
		return truncateRunes(strings.Join(head, "\n"), fallbackContextRunes)
	}

	lo := max(0, idx-contextRadius)
	hi := min(len(rows), idx+contextRadius+1)
	return truncateRunes(strings.Join(rows[lo:hi], "\n"), contextRunes)
}

// EvidenceBlock lists refs as "- url: snippet" lines.
func EvidenceBlock(refs []evidence.Reference) string {
	if len(refs) == 0 {
		return NoEvidence
	}
	lines := make([]string, len(refs))
	for i, r := range refs {
		lines[i] = "- " + r.URL + ": " + r.Snippet
	}
	return strings.Join(lines, "\n")
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
