package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ErrMissingConnectionURI is returned by Load when the active vector store has no connection URI.
var ErrMissingConnectionURI = errors.New("vector store connection URI is empty")

const (
	VectorStoreAtlas  = "atlas"
	VectorStoreQdrant = "qdrant"

	StreamModeNative    = "native"
	StreamModeSimulated = "simulated"
)

// Config holds all service configuration.
type Config struct {
	// Environment
	Environment EnvironmentConfig

	// Server
	HTTPServer HTTPServerConfig
	Logger     LoggerConfig
	RateLimit  RateLimitConfig

	// Retrieval pipeline
	VectorStore VectorStoreConfig
	Embedding   EmbeddingConfig

	// LLM Provider Abstraction
	LLM LLMConfig

	// Chat front-end
	Chat ChatConfig

	// Document ingestion
	Ingest IngestConfig
}

type EnvironmentConfig struct {
	Name string
}

type HTTPServerConfig struct {
	Port        int
	Mode        string
	TurnTimeout time.Duration
	// AllowedOrigins lists extra host patterns allowed to open the chat
	// WebSocket. The serving host is always allowed.
	AllowedOrigins []string
}

type LoggerConfig struct {
	Level        string
	Mode         string
	Encoding     string
	ColorEnabled bool
}

type RateLimitConfig struct {
	Enabled        bool
	RequestsPerMin int
}

// VectorStoreConfig selects and configures the vector index backend.
type VectorStoreConfig struct {
	Provider string // "atlas" or "qdrant"
	Atlas    AtlasConfig
	Qdrant   QdrantConfig
}

type AtlasConfig struct {
	URI        string
	Database   string
	Collection string
	Index      string
}

type QdrantConfig struct {
	URL            string
	CollectionName string
	VectorSize     int
}

// ConnectionURI returns the URI of the selected vector store backend.
func (c VectorStoreConfig) ConnectionURI() string {
	if c.Provider == VectorStoreQdrant {
		return c.Qdrant.URL
	}
	return c.Atlas.URI
}

type EmbeddingConfig struct {
	Provider  string // voyage, openai, ollama, gemini
	Model     string
	APIKey    string
	BaseURL   string
	CacheDir  string
	CacheSize int
}

// LLMConfig holds configuration for the LLM provider abstraction layer
type LLMConfig struct {
	Providers       []ProviderConfig `yaml:"providers"`
	FallbackEnabled bool             `yaml:"fallback_enabled"`
	RetryAttempts   int              `yaml:"retry_attempts"`
	RetryDelay      string           `yaml:"retry_delay"`
	MaxTotalTimeout string           `yaml:"max_total_timeout"`
	MaxTokens       int              `yaml:"max_tokens"`
	Temperature     float64          `yaml:"temperature"`
	StreamMode      string           `yaml:"stream_mode"` // native or simulated
}

// ProviderConfig holds configuration for a single LLM provider
type ProviderConfig struct {
	Name     string `yaml:"name"`
	Enabled  bool   `yaml:"enabled"`
	Priority int    `yaml:"priority"`
	APIKey   string `yaml:"api_key"`
	BaseURL  string `yaml:"base_url,omitempty"`
	Model    string `yaml:"model"`
	Timeout  string `yaml:"timeout"`
}

type ChatConfig struct {
	SystemPrompt     string
	TopK             int
	MemoryTokenLimit int
	SessionTTL       time.Duration
	MaxSessions      int
	ChunkSize        int // simulated stream fragment size, in words
}

// IngestConfig controls how source documents are split before embedding.
type IngestConfig struct {
	Patterns          []string
	SentencesPerChunk int
	SentenceOverlap   int
	BatchSize         int
}

// Load loads configuration using Viper.
// Config file name: config.yaml, searched in ./config, ., /etc/app/.
// Flat secrets (ATLAS_URI, DB_NAME, ...) may also come from secrets.toml, .env or the environment.
func Load() (*Config, error) {
	// .env is optional; variables already set in the environment win.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/app/")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	if err := mergeSecrets(v); err != nil {
		return nil, err
	}

	return build(v)
}

// mergeSecrets layers an optional secrets.toml on top of config.yaml.
func mergeSecrets(v *viper.Viper) error {
	v.SetConfigName("secrets")
	v.SetConfigType("toml")
	v.AddConfigPath("./.streamlit")
	if err := v.MergeInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading secrets file: %w", err)
		}
	}
	return nil
}

func build(v *viper.Viper) (*Config, error) {
	cfg := &Config{}

	// Environment & Server
	cfg.Environment.Name = v.GetString("environment.name")
	cfg.HTTPServer.Port = v.GetInt("http_server.port")
	cfg.HTTPServer.Mode = v.GetString("http_server.mode")
	cfg.HTTPServer.TurnTimeout = v.GetDuration("http_server.turn_timeout")
	cfg.HTTPServer.AllowedOrigins = v.GetStringSlice("http_server.allowed_origins")
	cfg.Logger.Level = v.GetString("logger.level")
	cfg.Logger.Mode = v.GetString("logger.mode")
	cfg.Logger.Encoding = v.GetString("logger.encoding")
	cfg.Logger.ColorEnabled = v.GetBool("logger.color_enabled")
	cfg.RateLimit.Enabled = v.GetBool("rate_limit.enabled")
	cfg.RateLimit.RequestsPerMin = v.GetInt("rate_limit.requests_per_min")

	// Vector store
	cfg.VectorStore.Provider = strings.ToLower(v.GetString("vector_store.provider"))
	cfg.VectorStore.Atlas.URI = firstNonEmpty(v.GetString("atlas_uri"), v.GetString("vector_store.atlas.uri"))
	cfg.VectorStore.Atlas.Database = firstNonEmpty(v.GetString("db_name"), v.GetString("vector_store.atlas.database"))
	cfg.VectorStore.Atlas.Collection = firstNonEmpty(v.GetString("collection_name"), v.GetString("vector_store.atlas.collection"))
	cfg.VectorStore.Atlas.Index = firstNonEmpty(v.GetString("index_name"), v.GetString("vector_store.atlas.index"))
	cfg.VectorStore.Qdrant.URL = firstNonEmpty(v.GetString("qdrant_url"), v.GetString("vector_store.qdrant.url"))
	cfg.VectorStore.Qdrant.CollectionName = v.GetString("vector_store.qdrant.collection_name")
	cfg.VectorStore.Qdrant.VectorSize = v.GetInt("vector_store.qdrant.vector_size")

	// Fail fast before anything dials out.
	if strings.TrimSpace(cfg.VectorStore.ConnectionURI()) == "" {
		return nil, fmt.Errorf("%w: set ATLAS_URI (or QDRANT_URL for the qdrant provider)", ErrMissingConnectionURI)
	}

	// Embeddings
	cfg.Embedding.Provider = strings.ToLower(v.GetString("embedding.provider"))
	cfg.Embedding.Model = firstNonEmpty(v.GetString("embed_model"), v.GetString("embedding.model"))
	cfg.Embedding.APIKey = expandEnvVar(v, v.GetString("embedding.api_key"))
	cfg.Embedding.BaseURL = v.GetString("embedding.base_url")
	cfg.Embedding.CacheDir = firstNonEmpty(v.GetString("embed_cache_dir"), v.GetString("embedding.cache_dir"))
	cfg.Embedding.CacheSize = v.GetInt("embedding.cache_size")
	if cfg.Embedding.APIKey == "" {
		switch cfg.Embedding.Provider {
		case "voyage":
			cfg.Embedding.APIKey = v.GetString("voyage_api_key")
		case "gemini":
			cfg.Embedding.APIKey = v.GetString("gemini_api_key")
		case "openai":
			cfg.Embedding.APIKey = v.GetString("openai_api_key")
		}
	}

	// LLM Provider Abstraction
	cfg.LLM.FallbackEnabled = v.GetBool("llm.fallback_enabled")
	cfg.LLM.RetryAttempts = v.GetInt("llm.retry_attempts")
	cfg.LLM.RetryDelay = v.GetString("llm.retry_delay")
	cfg.LLM.MaxTotalTimeout = v.GetString("llm.max_total_timeout")
	cfg.LLM.MaxTokens = v.GetInt("llm.max_tokens")
	if maxTokens := v.GetInt("max_tokens"); maxTokens > 0 {
		cfg.LLM.MaxTokens = maxTokens
	}
	cfg.LLM.Temperature = v.GetFloat64("llm.temperature")
	cfg.LLM.StreamMode = strings.ToLower(v.GetString("llm.stream_mode"))
	cfg.LLM.Providers = loadProviders(v)

	// Without a providers section the service still talks to Gemini, keyed by GEMINI_API_KEY.
	if len(cfg.LLM.Providers) == 0 {
		cfg.LLM.Providers = []ProviderConfig{{
			Name:     "gemini",
			Enabled:  true,
			Priority: 1,
			APIKey:   v.GetString("gemini_api_key"),
			Model:    v.GetString("llm.default_model"),
		}}
	}

	if err := validateLLMConfig(&cfg.LLM); err != nil {
		return nil, err
	}

	// Chat
	cfg.Chat.SystemPrompt = firstNonEmpty(v.GetString("system_prompt"), v.GetString("chat.system_prompt"))
	cfg.Chat.TopK = v.GetInt("chat.top_k")
	cfg.Chat.MemoryTokenLimit = v.GetInt("chat.memory_token_limit")
	cfg.Chat.SessionTTL = v.GetDuration("chat.session_ttl")
	cfg.Chat.MaxSessions = v.GetInt("chat.max_sessions")
	cfg.Chat.ChunkSize = v.GetInt("chat.chunk_size")

	// Ingest
	cfg.Ingest.Patterns = v.GetStringSlice("ingest.patterns")
	cfg.Ingest.SentencesPerChunk = v.GetInt("ingest.sentences_per_chunk")
	cfg.Ingest.SentenceOverlap = v.GetInt("ingest.sentence_overlap")
	cfg.Ingest.BatchSize = v.GetInt("ingest.batch_size")

	return cfg, nil
}

func loadProviders(v *viper.Viper) []ProviderConfig {
	if !v.IsSet("llm.providers") {
		return nil
	}

	providersList, ok := v.Get("llm.providers").([]interface{})
	if !ok {
		return nil
	}

	var providers []ProviderConfig
	for _, p := range providersList {
		providerMap, ok := p.(map[string]interface{})
		if !ok {
			continue
		}
		providers = append(providers, ProviderConfig{
			Name:     getStringFromMap(providerMap, "name"),
			Enabled:  getBoolFromMap(providerMap, "enabled"),
			Priority: getIntFromMap(providerMap, "priority"),
			APIKey:   expandEnvVar(v, getStringFromMap(providerMap, "api_key")),
			BaseURL:  getStringFromMap(providerMap, "base_url"),
			Model:    getStringFromMap(providerMap, "model"),
			Timeout:  getStringFromMap(providerMap, "timeout"),
		})
	}
	return providers
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment.name", "development")
	v.SetDefault("http_server.port", 8080)
	v.SetDefault("http_server.mode", "debug")
	v.SetDefault("http_server.turn_timeout", "2m")
	v.SetDefault("logger.level", "debug")
	v.SetDefault("logger.mode", "development")
	v.SetDefault("logger.encoding", "console")
	v.SetDefault("logger.color_enabled", true)
	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests_per_min", 30)

	v.SetDefault("vector_store.provider", VectorStoreAtlas)
	v.SetDefault("vector_store.qdrant.collection_name", "aelf_docs")
	v.SetDefault("vector_store.qdrant.vector_size", 1024)

	v.SetDefault("embedding.provider", "gemini")
	v.SetDefault("embedding.cache_dir", "./cache")
	v.SetDefault("embedding.cache_size", 1024)

	// LLM defaults
	v.SetDefault("llm.fallback_enabled", true)
	v.SetDefault("llm.retry_attempts", 1)
	v.SetDefault("llm.retry_delay", "1s")
	v.SetDefault("llm.max_total_timeout", "60s")
	v.SetDefault("llm.max_tokens", 8000)
	v.SetDefault("llm.temperature", 0.1)
	v.SetDefault("llm.stream_mode", StreamModeNative)
	v.SetDefault("llm.default_model", "gemini-2.5-flash")

	v.SetDefault("chat.top_k", 2)
	v.SetDefault("chat.memory_token_limit", 3000)
	v.SetDefault("chat.session_ttl", "1h")
	v.SetDefault("chat.max_sessions", 1000)
	v.SetDefault("chat.chunk_size", 4)

	v.SetDefault("ingest.patterns", []string{"**/*.md", "**/*.txt"})
	v.SetDefault("ingest.sentences_per_chunk", 5)
	v.SetDefault("ingest.sentence_overlap", 1)
	v.SetDefault("ingest.batch_size", 32)
}

// expandEnvVar expands values written as ${VAR_NAME}.
func expandEnvVar(v *viper.Viper, value string) string {
	if !strings.HasPrefix(value, "${") || !strings.HasSuffix(value, "}") {
		return value
	}

	envVar := value[2 : len(value)-1]
	if envValue := v.GetString(strings.ToLower(envVar)); envValue != "" {
		return envValue
	}
	return os.Getenv(envVar)
}

// validateLLMConfig validates the LLM configuration
func validateLLMConfig(cfg *LLMConfig) error {
	if len(cfg.Providers) == 0 {
		return fmt.Errorf("no LLM providers configured")
	}

	switch cfg.StreamMode {
	case StreamModeNative, StreamModeSimulated:
	default:
		return fmt.Errorf("llm.stream_mode must be %q or %q, got %q", StreamModeNative, StreamModeSimulated, cfg.StreamMode)
	}

	enabledCount := 0
	priorityMap := make(map[int]bool)

	for i, provider := range cfg.Providers {
		if provider.Name == "" {
			return fmt.Errorf("provider %d: name is required", i)
		}
		if !provider.Enabled {
			continue
		}
		enabledCount++

		if provider.Priority <= 0 {
			return fmt.Errorf("provider %s: priority must be positive", provider.Name)
		}
		if priorityMap[provider.Priority] {
			return fmt.Errorf("provider %s: duplicate priority %d", provider.Name, provider.Priority)
		}
		priorityMap[provider.Priority] = true
	}

	if enabledCount == 0 {
		return fmt.Errorf("no enabled LLM providers")
	}

	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// Helper functions to safely extract values from map[string]interface{}
func getStringFromMap(m map[string]interface{}, key string) string {
	if val, ok := m[key]; ok {
		if str, ok := val.(string); ok {
			return str
		}
	}
	return ""
}

func getBoolFromMap(m map[string]interface{}, key string) bool {
	if val, ok := m[key]; ok {
		if b, ok := val.(bool); ok {
			return b
		}
	}
	return false
}

func getIntFromMap(m map[string]interface{}, key string) int {
	if val, ok := m[key]; ok {
		switch n := val.(type) {
		case int:
			return n
		case int64:
			return int(n)
		case float64:
			return int(n)
		}
	}
	return 0
}
