//go:build wireinject
// +build wireinject

package injector

import (
	"github.com/google/wire"
	"github.com/lk2023060901/lyricnote/internal/conf"
	"github.com/lk2023060901/lyricnote/internal/pkg/logger"
	"github.com/lk2023060901/lyricnote/internal/server"
)

// ProviderSet is the Wire provider set for all dependencies
var ProviderSet = wire.NewSet(
	// Metrics
	metricsProviderSet,

	// Data layer
	dataProviderSet,

	// Domain
	domainProviderSet,

	// Servers
	serverProviderSet,
)

var metricsProviderSet = wire.NewSet(
	provideRegistry,
	provideGatherer,
	provideMetrics,
)

var dataProviderSet = wire.NewSet(
	provideRedisClient,
	provideSearchProvider,
)

var domainProviderSet = wire.NewSet(
	provideEngine,
	provideGenerator,
	provideInterpreter,
	provideAnnotateService,
)

var serverProviderSet = wire.NewSet(
	server.NewHTTPServer,
)

// InitializeApp initializes the application with Wire
func InitializeApp(config *conf.Config, log *logger.Logger) (*App, func(), error) {
	wire.Build(ProviderSet, newApp)
	return nil, nil, nil
}
