package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func newAnnotateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "annotate [json]",
		Short: "Annotate one lyric line and print the JSON result",
		Long: `Reads a JSON object with target_line (or line), song_text, song_title,
artist and model from the argument or, when absent, from stdin.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}

			app, cleanup, err := bootstrap(opts, true)
			if err != nil {
				return err
			}
			defer cleanup()

			result, err := app.Annotator.AnnotateRaw(cmd.Context(), raw)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetEscapeHTML(false)
			return enc.Encode(result)
		},
	}
}

// readInput prefers the positional argument, then piped stdin. An
// interactive terminal is never read.
func readInput(stdin io.Reader, args []string) ([]byte, error) {
	if len(args) > 0 && args[0] != "" {
		return []byte(args[0]), nil
	}

	if f, ok := stdin.(*os.File); ok {
		info, err := f.Stat()
		if err != nil || info.Mode()&os.ModeCharDevice != 0 {
			return nil, nil
		}
	}

	raw, err := io.ReadAll(stdin)
	if err != nil {
		return nil, fmt.Errorf("reading stdin: %w", err)
	}
	return raw, nil
}
