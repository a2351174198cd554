package conf

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/lk2023060901/lyricnote/internal/evidence"
	"github.com/lk2023060901/lyricnote/internal/pkg/logger"
	"github.com/lk2023060901/lyricnote/internal/pkg/redis"
	"github.com/lk2023060901/lyricnote/internal/websearch/types"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. LYRICNOTE_SERVER_PORT.
const EnvPrefix = "LYRICNOTE"

// Cache backends
const (
	CacheNone   = "none"
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Log      logger.Config  `mapstructure:"log"`
	Search   SearchConfig   `mapstructure:"search"`
	Evidence EvidenceConfig `mapstructure:"evidence"`
	LLM      LLMConfig      `mapstructure:"llm"`
	Redis    redis.Config   `mapstructure:"redis"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"` // gin mode: debug, release, test
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Addr returns the listen address.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type SearchConfig struct {
	EnableWebSearch bool                 `mapstructure:"enable_web_search"`
	Provider        types.ProviderConfig `mapstructure:"provider"`
	Cache           CacheConfig          `mapstructure:"cache"`
}

type CacheConfig struct {
	Backend string        `mapstructure:"backend"` // none, memory, redis
	Size    int           `mapstructure:"size"`    // memory backend only
	TTL     time.Duration `mapstructure:"ttl"`
}

type EvidenceConfig struct {
	Base             float64 `mapstructure:"base"`
	LyricWeight      float64 `mapstructure:"lyric_weight"`
	MetaWeight       float64 `mapstructure:"meta_weight"`
	DepthWeight      float64 `mapstructure:"depth_weight"`
	MinLyricOverlap  int     `mapstructure:"min_lyric_overlap"`
	StrongThreshold  float64 `mapstructure:"strong_threshold"`
	LowTrustDiscount float64 `mapstructure:"low_trust_discount"`

	MinSnippetWords int     `mapstructure:"min_snippet_words"`
	MinASCIIRatio   float64 `mapstructure:"min_ascii_ratio"`

	MaxStrongRefs        int     `mapstructure:"max_strong_refs"`
	MaxWeakRefs          int     `mapstructure:"max_weak_refs"`
	ReturnWeakFallback   bool    `mapstructure:"return_weak_fallback"`
	ShallowMeanThreshold float64 `mapstructure:"shallow_mean_threshold"`

	MaxResultsPerQuery int           `mapstructure:"max_results_per_query"`
	QueryTimeout       time.Duration `mapstructure:"query_timeout"`
	AllusionQuery      bool          `mapstructure:"allusion_query"`
	Parallel           bool          `mapstructure:"parallel"`

	BlockedHosts         []string `mapstructure:"blocked_hosts"`
	BlockedPathFragments []string `mapstructure:"blocked_path_fragments"`
	LowTrustHosts        []string `mapstructure:"low_trust_hosts"`
	NoiseWords           []string `mapstructure:"noise_words"`
}

type LLMConfig struct {
	BaseURL      string `mapstructure:"base_url"`
	APIKey       string `mapstructure:"api_key"`
	Model        string `mapstructure:"model"`
	SystemPrompt string `mapstructure:"system_prompt"`
	UserPrompt   string `mapstructure:"user_prompt"`
	// JSON file with openrouter_model, system_prompt, user_prompt and
	// enable_web_search; its values win over the ones above.
	PromptFile string `mapstructure:"prompt_file"`

	Temperature     float32       `mapstructure:"temperature"`
	MaxTokens       int           `mapstructure:"max_tokens"`
	MaxMeaningChars int           `mapstructure:"max_meaning_chars"`
	SongTextTokens  int           `mapstructure:"song_text_tokens"`
	SongTextChars   int           `mapstructure:"song_text_chars"` // used when no tokenizer is available
	Encoding        string        `mapstructure:"encoding"`
	Timeout         time.Duration `mapstructure:"timeout"`
}

const (
	defaultSystemPrompt = "You explain song lyrics to curious listeners. Answer in two or three plain sentences. " +
		"Lean on the evidence when it is relevant and say so when you are guessing."
	defaultUserPrompt = "Song: {song_title} by {artist}\n" +
		"Line: {target_line}\n\n" +
		"Surrounding lines:\n{context_window}\n\n" +
		"Evidence:\n{evidence}\n\n" +
		"What does this line mean?"
)

// LoadConfig reads path (YAML, JSON or TOML by extension) on top of the
// defaults and applies environment overrides. An empty path loads defaults
// and environment only.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	bindEnv(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if config.LLM.PromptFile != "" {
		if err := config.LLM.applyPromptFile(&config.Search); err != nil {
			return nil, err
		}
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// LoadDotEnv exports the KEY=VALUE pairs of a dotenv file into the process
// environment. Variables that are already set are left alone, and a missing
// file is not an error.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read dotenv file: %w", err)
	}

	for _, key := range v.AllKeys() {
		name := strings.ToUpper(key)
		if _, ok := os.LookupEnv(name); ok {
			continue
		}
		if err := os.Setenv(name, v.GetString(key)); err != nil {
			return fmt.Errorf("failed to set %s: %w", name, err)
		}
	}
	return nil
}

// applyPromptFile overlays the JSON prompt file onto the LLM and search
// sections.
func (c *LLMConfig) applyPromptFile(search *SearchConfig) error {
	v := viper.New()
	v.SetConfigFile(c.PromptFile)
	v.SetConfigType("json")
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read prompt file: %w", err)
	}

	if m := strings.TrimSpace(v.GetString("openrouter_model")); m != "" {
		c.Model = m
	}
	if s := strings.TrimSpace(v.GetString("system_prompt")); s != "" {
		c.SystemPrompt = s
	}
	if u := strings.TrimSpace(v.GetString("user_prompt")); u != "" {
		c.UserPrompt = u
	}
	if v.IsSet("enable_web_search") {
		search.EnableWebSearch = v.GetBool("enable_web_search")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 90*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	lc := logger.DefaultConfig()
	v.SetDefault("log.level", lc.Level)
	v.SetDefault("log.format", lc.Format)
	v.SetDefault("log.output", lc.Output)
	v.SetDefault("log.enablecaller", lc.EnableCaller)
	v.SetDefault("log.enablestacktrace", lc.EnableStacktrace)
	v.SetDefault("log.file.filename", lc.File.Filename)
	v.SetDefault("log.file.maxsize", lc.File.MaxSize)
	v.SetDefault("log.file.maxage", lc.File.MaxAge)
	v.SetDefault("log.file.maxbackups", lc.File.MaxBackups)
	v.SetDefault("log.file.compress", lc.File.Compress)

	v.SetDefault("search.enable_web_search", true)
	v.SetDefault("search.provider.id", string(types.ProviderTavily))
	v.SetDefault("search.provider.name", "Tavily")
	v.SetDefault("search.provider.api_host", "https://api.tavily.com")
	v.SetDefault("search.provider.api_key", "")
	v.SetDefault("search.provider.basic_auth_username", "")
	v.SetDefault("search.provider.basic_auth_password", "")
	v.SetDefault("search.provider.search_depth", "basic")
	v.SetDefault("search.provider.timeout", 25)
	v.SetDefault("search.provider.rate_limit", 0)
	v.SetDefault("search.provider.rate_burst", 1)
	v.SetDefault("search.cache.backend", CacheMemory)
	v.SetDefault("search.cache.size", 512)
	v.SetDefault("search.cache.ttl", 6*time.Hour)

	ec := evidence.DefaultConfig()
	v.SetDefault("evidence.base", ec.Base)
	v.SetDefault("evidence.lyric_weight", ec.LyricWeight)
	v.SetDefault("evidence.meta_weight", ec.MetaWeight)
	v.SetDefault("evidence.depth_weight", ec.DepthWeight)
	v.SetDefault("evidence.min_lyric_overlap", ec.MinLyricOverlap)
	v.SetDefault("evidence.strong_threshold", ec.StrongThreshold)
	v.SetDefault("evidence.low_trust_discount", ec.LowTrustDiscount)
	v.SetDefault("evidence.min_snippet_words", ec.MinSnippetWords)
	v.SetDefault("evidence.min_ascii_ratio", ec.MinASCIIRatio)
	v.SetDefault("evidence.max_strong_refs", ec.MaxStrongRefs)
	v.SetDefault("evidence.max_weak_refs", ec.MaxWeakRefs)
	v.SetDefault("evidence.return_weak_fallback", ec.ReturnWeakFallback)
	v.SetDefault("evidence.shallow_mean_threshold", ec.ShallowMeanThreshold)
	v.SetDefault("evidence.max_results_per_query", ec.MaxResultsPerQuery)
	v.SetDefault("evidence.query_timeout", ec.QueryTimeout)
	v.SetDefault("evidence.allusion_query", ec.AllusionQuery)
	v.SetDefault("evidence.parallel", ec.Parallel)
	v.SetDefault("evidence.blocked_hosts", ec.BlockedHosts)
	v.SetDefault("evidence.blocked_path_fragments", ec.BlockedPathFragments)
	v.SetDefault("evidence.low_trust_hosts", ec.LowTrustHosts)
	v.SetDefault("evidence.noise_words", ec.NoiseWords)

	v.SetDefault("llm.base_url", "https://openrouter.ai/api/v1")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.model", "openai/gpt-4o-mini")
	v.SetDefault("llm.system_prompt", defaultSystemPrompt)
	v.SetDefault("llm.user_prompt", defaultUserPrompt)
	v.SetDefault("llm.prompt_file", "")
	v.SetDefault("llm.temperature", 1.0)
	v.SetDefault("llm.max_tokens", 256)
	v.SetDefault("llm.max_meaning_chars", 500)
	v.SetDefault("llm.song_text_tokens", 450)
	v.SetDefault("llm.song_text_chars", 1800)
	v.SetDefault("llm.encoding", "cl100k_base")
	v.SetDefault("llm.timeout", 25*time.Second)

	rc := redis.DefaultConfig()
	v.SetDefault("redis.mode", string(rc.Mode))
	v.SetDefault("redis.addrs", rc.Addrs)
	v.SetDefault("redis.master_name", "")
	v.SetDefault("redis.username", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", rc.DB)
	v.SetDefault("redis.key_prefix", rc.KeyPrefix)
	v.SetDefault("redis.pool_size", rc.PoolSize)
	v.SetDefault("redis.dial_timeout", rc.DialTimeout)
	v.SetDefault("redis.read_timeout", rc.ReadTimeout)
	v.SetDefault("redis.write_timeout", rc.WriteTimeout)
}

func bindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// historic variable names
	_ = v.BindEnv("llm.api_key", EnvPrefix+"_LLM_API_KEY", "OPENROUTER_API_KEY")
	_ = v.BindEnv("search.provider.api_key", EnvPrefix+"_SEARCH_PROVIDER_API_KEY", "SEARCH_API_KEY")
}

// Validate checks the sections that are not validated by their own package
// constructors.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server: invalid port %d", c.Server.Port)
	}
	switch c.Search.Cache.Backend {
	case CacheNone, CacheMemory, CacheRedis:
	default:
		return fmt.Errorf("search: unknown cache backend %q", c.Search.Cache.Backend)
	}
	if c.Search.Cache.Backend != CacheNone && c.Search.Cache.TTL <= 0 {
		return errors.New("search: cache ttl must be > 0")
	}
	if c.LLM.MaxTokens <= 0 {
		return errors.New("llm: max_tokens must be > 0")
	}
	if !strings.Contains(c.LLM.UserPrompt, "{") {
		return errors.New("llm: user_prompt has no placeholders")
	}
	if err := c.EvidenceConfig().Validate(); err != nil {
		return err
	}
	return nil
}

// EvidenceConfig converts the evidence section into the engine's immutable
// configuration.
func (c *Config) EvidenceConfig() evidence.Config {
	e := c.Evidence
	return evidence.Config{
		Base:             e.Base,
		LyricWeight:      e.LyricWeight,
		MetaWeight:       e.MetaWeight,
		DepthWeight:      e.DepthWeight,
		MinLyricOverlap:  e.MinLyricOverlap,
		StrongThreshold:  e.StrongThreshold,
		LowTrustDiscount: e.LowTrustDiscount,

		MinSnippetWords: e.MinSnippetWords,
		MinASCIIRatio:   e.MinASCIIRatio,

		MaxStrongRefs:      e.MaxStrongRefs,
		MaxWeakRefs:        e.MaxWeakRefs,
		ReturnWeakFallback: e.ReturnWeakFallback,

		ShallowMeanThreshold: e.ShallowMeanThreshold,

		MaxResultsPerQuery: e.MaxResultsPerQuery,
		QueryTimeout:       e.QueryTimeout,
		AllusionQuery:      e.AllusionQuery,
		Parallel:           e.Parallel,

		BlockedHosts:         append([]string(nil), e.BlockedHosts...),
		BlockedPathFragments: append([]string(nil), e.BlockedPathFragments...),
		LowTrustHosts:        append([]string(nil), e.LowTrustHosts...),
		NoiseWords:           append([]string(nil), e.NoiseWords...),
	}
}
