package evidence

import (
	"fmt"
	"strings"
)

const (
	metaSuffix     = "meaning explained interpretation"
	allusionSuffix = "reference allusion slang meaning"
)

// BuildQueries returns the ordered query variants for one lyric line:
// the quoted line with a metadata hint, the same without quotes and,
// when allusion is set, a form hunting for references and slang.
// An empty line yields no queries.
func BuildQueries(line, songTitle, artist string, allusion bool) []string {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}

	meta := strings.Join(strings.Fields(fmt.Sprintf("%s %s %s", songTitle, artist, metaSuffix)), " ")

	queries := []string{
		fmt.Sprintf(`"%s" %s`, line, meta),
		fmt.Sprintf("%s %s", line, meta),
	}
	if allusion {
		queries = append(queries, fmt.Sprintf("%s %s", line, allusionSuffix))
	}
	return queries
}
