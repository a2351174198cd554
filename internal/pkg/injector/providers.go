package injector

import (
	"github.com/lk2023060901/lyricnote/internal/annotate"
	"github.com/lk2023060901/lyricnote/internal/conf"
	"github.com/lk2023060901/lyricnote/internal/evidence"
	"github.com/lk2023060901/lyricnote/internal/interpret"
	"github.com/lk2023060901/lyricnote/internal/pkg/logger"
	pkgredis "github.com/lk2023060901/lyricnote/internal/pkg/redis"
	"github.com/lk2023060901/lyricnote/internal/websearch/cache"
	"github.com/lk2023060901/lyricnote/internal/websearch/provider"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

// Metrics providers

func provideRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

func provideGatherer(reg *prometheus.Registry) prometheus.Gatherer {
	return reg
}

func provideMetrics(reg *prometheus.Registry) *evidence.Metrics {
	return evidence.NewMetrics(reg)
}

// Data layer providers

// provideRedisClient connects only when the search cache lives in Redis.
func provideRedisClient(config *conf.Config, log *logger.Logger) (*pkgredis.Client, func(), error) {
	if config.Search.Cache.Backend != conf.CacheRedis {
		return nil, func() {}, nil
	}

	client, err := pkgredis.New(&config.Redis, log)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := client.Close(); err != nil {
			log.Warn("failed to close redis client", zap.Error(err))
		}
	}
	return client, cleanup, nil
}

// Search providers

// provideSearchProvider returns nil when web search is off or the provider
// cannot be built; the engine then reports web search as disabled.
func provideSearchProvider(config *conf.Config, log *logger.Logger, rdb *pkgredis.Client) evidence.SearchProvider {
	if !config.Search.EnableWebSearch {
		return nil
	}

	p, err := provider.NewFactory().Create(&config.Search.Provider)
	if err != nil {
		log.Warn("search provider unavailable, web search disabled",
			zap.String("provider", string(config.Search.Provider.ID)),
			zap.Error(err))
		return nil
	}

	cc := config.Search.Cache
	switch cc.Backend {
	case conf.CacheMemory:
		return cache.NewCachedProvider(p, cache.NewMemoryCache(cc.Size, cc.TTL), cc.TTL, log)
	case conf.CacheRedis:
		return cache.NewCachedProvider(p, cache.NewRedisCache(rdb), cc.TTL, log)
	default:
		return p
	}
}

// Domain providers

func provideEngine(
	config *conf.Config,
	searchProvider evidence.SearchProvider,
	metrics *evidence.Metrics,
	log *logger.Logger,
) (*evidence.Engine, error) {
	return evidence.NewEngine(config.EvidenceConfig(), searchProvider, searchProvider != nil, metrics, log)
}

// provideGenerator returns nil without an API key; meanings are then null.
func provideGenerator(config *conf.Config, log *logger.Logger) *interpret.Generator {
	lc := config.LLM
	gen, err := interpret.NewGenerator(interpret.GeneratorConfig{
		BaseURL:      lc.BaseURL,
		APIKey:       lc.APIKey,
		Model:        lc.Model,
		SystemPrompt: lc.SystemPrompt,
		Temperature:  lc.Temperature,
		MaxTokens:    lc.MaxTokens,
		MaxChars:     lc.MaxMeaningChars,
		Timeout:      lc.Timeout,
	}, log)
	if err != nil {
		log.Warn("llm client unavailable, meanings will be empty", zap.Error(err))
		return nil
	}
	return gen
}

func provideInterpreter(config *conf.Config, gen *interpret.Generator, log *logger.Logger) *interpret.Interpreter {
	lc := config.LLM
	var budget *interpret.TokenBudget
	if gen != nil {
		budget = interpret.NewTokenBudget(lc.Encoding, lc.SongTextTokens, lc.SongTextChars, log)
	}
	return interpret.NewInterpreter(gen, budget, lc.UserPrompt, log)
}

func provideAnnotateService(
	config *conf.Config,
	engine *evidence.Engine,
	interpreter *interpret.Interpreter,
	log *logger.Logger,
) *annotate.Service {
	return annotate.NewService(engine, interpreter, config.LLM.Model, log)
}
