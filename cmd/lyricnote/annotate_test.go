package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lk2023060901/lyricnote/internal/evidence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadInput(t *testing.T) {
	raw, err := readInput(strings.NewReader(`{"line":"stdin"}`), []string{`{"line":"arg"}`})
	require.NoError(t, err)
	assert.Equal(t, `{"line":"arg"}`, string(raw))

	raw, err = readInput(strings.NewReader(`{"line":"stdin"}`), nil)
	require.NoError(t, err)
	assert.Equal(t, `{"line":"stdin"}`, string(raw))
}

func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("LYRICNOTE_SEARCH_ENABLE_WEB_SEARCH", "false")
	t.Setenv("LYRICNOTE_LOG_LEVEL", "error")
	t.Setenv("OPENROUTER_API_KEY", "")

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append(args, "--env-file", filepath.Join(t.TempDir(), "none.env")))

	err := root.Execute()
	return out.String(), err
}

func TestAnnotateCommand(t *testing.T) {
	out, err := runCLI(t, "", "annotate", `{"target_line":"I'm not the same","song_title":"Gray"}`)
	require.NoError(t, err)

	var doc struct {
		Meaning       *string              `json:"meaning"`
		References    []evidence.Reference `json:"references"`
		Uncertainties []string             `json:"uncertainties"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Nil(t, doc.Meaning)
	assert.NotNil(t, doc.References)
	assert.Empty(t, doc.References)
	assert.Equal(t, []string{evidence.CaveatWebDisabled}, doc.Uncertainties)
	assert.Contains(t, out, `"meaning":null`)
}

func TestAnnotateCommand_Stdin(t *testing.T) {
	out, err := runCLI(t, `{"line":"Counting every heavy load"}`, "annotate")
	require.NoError(t, err)
	assert.Contains(t, out, evidence.CaveatWebDisabled)
}

func TestAnnotateCommand_MissingLine(t *testing.T) {
	_, err := runCLI(t, "", "annotate", `{"song_title":"Gray"}`)
	assert.Error(t, err)
}
