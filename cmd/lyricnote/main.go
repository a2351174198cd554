// Command lyricnote annotates a single song lyric line with a short meaning,
// supporting web references and caveats about how much to trust them.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
