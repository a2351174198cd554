package evidence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildQueries(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		title    string
		artist   string
		allusion bool
		want     []string
	}{
		{
			name:     "full metadata with allusion",
			line:     "Counting every heavy load tonight",
			title:    "Weight",
			artist:   "The Carriers",
			allusion: true,
			want: []string{
				`"Counting every heavy load tonight" Weight The Carriers meaning explained interpretation`,
				`Counting every heavy load tonight Weight The Carriers meaning explained interpretation`,
				`Counting every heavy load tonight reference allusion slang meaning`,
			},
		},
		{
			name: "no metadata, no allusion",
			line: "  I'm not the same  ",
			want: []string{
				`"I'm not the same" meaning explained interpretation`,
				`I'm not the same meaning explained interpretation`,
			},
		},
		{
			name:   "artist only",
			line:   "hold on",
			artist: "Nova",
			want: []string{
				`"hold on" Nova meaning explained interpretation`,
				`hold on Nova meaning explained interpretation`,
			},
		},
		{name: "empty line", line: "", allusion: true, want: nil},
		{name: "blank line", line: " \t ", title: "Song", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildQueries(tt.line, tt.title, tt.artist, tt.allusion))
		})
	}
}
