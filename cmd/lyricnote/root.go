package main

import (
	"fmt"

	"github.com/lk2023060901/lyricnote/internal/conf"
	"github.com/lk2023060901/lyricnote/internal/pkg/injector"
	"github.com/lk2023060901/lyricnote/internal/pkg/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type options struct {
	configFile string
	envFile    string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "lyricnote",
		Short: "Explain a song lyric line with web evidence",
		Long: `lyricnote gathers web sources about one lyric line, scores them for
relevance, asks a language model for the line's meaning and prints the result
as JSON together with caveats about the evidence.

Example usage:
  lyricnote annotate '{"target_line":"I'm not the same","song_title":"Gray","artist":"Band"}'
  echo '{"line":"..."}' | lyricnote annotate
  lyricnote serve --config configs/config.yaml`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "", "config file (defaults and environment only when empty)")
	root.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "dotenv file loaded before the config")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(newAnnotateCmd(opts), newServeCmd(opts))
	return root
}

// bootstrap loads configuration, sets up logging and builds the application.
// stdoutReserved moves console logging to stderr.
func bootstrap(opts *options, stdoutReserved bool) (*injector.App, func(), error) {
	if err := conf.LoadDotEnv(opts.envFile); err != nil {
		return nil, nil, err
	}

	config, err := conf.LoadConfig(opts.configFile)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	logCfg := config.Log
	if opts.verbose {
		logCfg.Level = "debug"
	}
	if stdoutReserved && logCfg.Output == "console" {
		logCfg.Output = "stderr"
	}

	log, err := logger.New(&logCfg)
	if err != nil {
		return nil, nil, err
	}
	logger.SetGlobal(log)

	app, cleanup, err := injector.NewApp(config, log)
	if err != nil {
		_ = log.Sync()
		return nil, nil, fmt.Errorf("building application: %w", err)
	}

	log.Debug("application ready",
		zap.Bool("web_search", config.Search.EnableWebSearch),
		zap.String("provider", string(config.Search.Provider.ID)),
		zap.String("cache", config.Search.Cache.Backend),
		zap.String("model", config.LLM.Model))

	return app, func() {
		cleanup()
		_ = log.Sync()
	}, nil
}
