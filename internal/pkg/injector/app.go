package injector

import (
	"github.com/lk2023060901/lyricnote/internal/annotate"
	"github.com/lk2023060901/lyricnote/internal/conf"
	"github.com/lk2023060901/lyricnote/internal/pkg/logger"
	"github.com/lk2023060901/lyricnote/internal/server"
)

// App encapsulates all application dependencies
type App struct {
	Config     *conf.Config
	Logger     *logger.Logger
	Annotator  *annotate.Service
	HTTPServer *server.HTTPServer
	cleanup    func()
}

// Cleanup releases all resources
func (a *App) Cleanup() {
	if a.cleanup != nil {
		a.cleanup()
	}
}

func newApp(
	config *conf.Config,
	log *logger.Logger,
	annotator *annotate.Service,
	httpServer *server.HTTPServer,
) *App {
	return &App{
		Config:     config,
		Logger:     log,
		Annotator:  annotator,
		HTTPServer: httpServer,
	}
}

// NewApp builds the application graph by hand, in the same order as
// InitializeApp. The returned cleanup closes the Redis connection if one
// was opened.
func NewApp(config *conf.Config, log *logger.Logger) (*App, func(), error) {
	rdb, cleanup, err := provideRedisClient(config, log)
	if err != nil {
		return nil, nil, err
	}

	reg := provideRegistry()
	metrics := provideMetrics(reg)
	searchProvider := provideSearchProvider(config, log, rdb)

	engine, err := provideEngine(config, searchProvider, metrics, log)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	gen := provideGenerator(config, log)
	interpreter := provideInterpreter(config, gen, log)
	annotator := provideAnnotateService(config, engine, interpreter, log)
	httpServer := server.NewHTTPServer(config, log, annotator, provideGatherer(reg))

	app := newApp(config, log, annotator, httpServer)
	app.cleanup = cleanup
	return app, cleanup, nil
}
