package annotate

import (
	"strings"

	apperrors "github.com/lk2023060901/lyricnote/internal/pkg/errors"
	"github.com/tidwall/gjson"
)

// Input is one annotation request.
type Input struct {
	Line      string `json:"target_line"`
	SongText  string `json:"song_text"`
	SongTitle string `json:"song_title"`
	Artist    string `json:"artist"`
	Model     string `json:"model"`
}

// ParseInput reads a request document. target_line wins over line, string
// values are trimmed, and a missing or unrendered ("{{...") model falls back
// to defaultModel. Blank input yields an empty request.
func ParseInput(raw []byte, defaultModel string) (Input, error) {
	in := Input{Model: defaultModel}

	text := strings.TrimSpace(string(raw))
	if text == "" {
		return in, nil
	}
	if !gjson.Valid(text) {
		return in, apperrors.New(apperrors.ErrInvalidInput, "malformed JSON")
	}
	doc := gjson.Parse(text)
	if !doc.IsObject() {
		return in, apperrors.New(apperrors.ErrInvalidInput, "expected a JSON object")
	}

	field := func(keys ...string) string {
		for _, k := range keys {
			if v := strings.TrimSpace(doc.Get(k).String()); v != "" {
				return v
			}
		}
		return ""
	}

	in.Line = field("target_line", "line")
	in.SongText = field("song_text")
	in.SongTitle = field("song_title")
	in.Artist = field("artist")

	if m := field("model"); m != "" && !strings.HasPrefix(m, "{{") {
		in.Model = m
	}
	return in, nil
}
