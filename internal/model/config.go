package model

import "time"

// Config holds all runtime configuration
type Config struct {
	LLM         LLMConfig         `yaml:"llm" mapstructure:"llm"`
	Search      SearchConfig      `yaml:"search" mapstructure:"search"`
	Verify      VerifyConfig      `yaml:"verify" mapstructure:"verify"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Pipeline    PipelineConfig    `yaml:"pipeline" mapstructure:"pipeline"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
}

// LLMConfig configures the generative collaborator backend
type LLMConfig struct {
	Provider    string  `yaml:"provider" mapstructure:"provider"` // openai, anthropic, ollama
	Model       string  `yaml:"model" mapstructure:"model"`
	APIKey      string  `yaml:"-" mapstructure:"api_key"` // Never written to config files
	BaseURL     string  `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Timeout     int     `yaml:"timeout" mapstructure:"timeout"` // seconds per call
	MaxTokens   int     `yaml:"max_tokens" mapstructure:"max_tokens"`
	Temperature float64 `yaml:"temperature" mapstructure:"temperature"`
	HTTPProxy   string  `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy  string  `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy     string  `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
}

// SearchConfig configures candidate retrieval
type SearchConfig struct {
	APIKey      string `yaml:"-" mapstructure:"api_key"`
	BaseURL     string `yaml:"base_url,omitempty" mapstructure:"base_url"`
	MaxResults  int    `yaml:"max_results" mapstructure:"max_results"`
	SearchDepth string `yaml:"search_depth" mapstructure:"search_depth"` // basic or advanced
	RawContent  bool   `yaml:"raw_content" mapstructure:"raw_content"`
	Timeout     int    `yaml:"timeout" mapstructure:"timeout"` // seconds
}

// VerifyConfig configures verbatim-quote verification
type VerifyConfig struct {
	FetchPages   bool          `yaml:"fetch_pages" mapstructure:"fetch_pages"` // Re-fetch source pages to check quotes
	MinOverlap   float64       `yaml:"min_overlap" mapstructure:"min_overlap"` // Token overlap threshold, 0..1
	UserAgent    string        `yaml:"user_agent" mapstructure:"user_agent"`
	FetchTimeout time.Duration `yaml:"fetch_timeout" mapstructure:"fetch_timeout"`
	MaxBodyBytes int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	RateLimit    float64       `yaml:"rate_limit" mapstructure:"rate_limit"` // Requests per second per domain
}

// ConcurrencyConfig bounds per-item fan-out inside pipeline stages
type ConcurrencyConfig struct {
	AssessWorkers   int `yaml:"assess_workers" mapstructure:"assess_workers"`     // Relevance filter fan-out
	RelationWorkers int `yaml:"relation_workers" mapstructure:"relation_workers"` // Relation classifier fan-out
	BatchWorkers    int `yaml:"batch_workers" mapstructure:"batch_workers"`       // Concurrent runs in batch mode
}

// CacheConfig configures the layered search/page cache
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// PipelineConfig bounds a single attribution run
type PipelineConfig struct {
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"` // Wall-clock budget per run
}

// OutputConfig controls rendering
type OutputConfig struct {
	Verbose bool   `yaml:"verbose" mapstructure:"verbose"`
	JSON    string `yaml:"json,omitempty" mapstructure:"json"` // Path for JSON output, empty to skip
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider:    "openai",
			Model:       "",
			Timeout:     30,
			MaxTokens:   1500,
			Temperature: 0.0,
		},
		Search: SearchConfig{
			MaxResults:  10,
			SearchDepth: "advanced",
			RawContent:  true,
			Timeout:     20,
		},
		Verify: VerifyConfig{
			FetchPages:   false,
			MinOverlap:   0.6,
			UserAgent:    "chase-source/0.1 (+https://github.com/Codeblockz/chase-source)",
			FetchTimeout: 10 * time.Second,
			MaxBodyBytes: 2_000_000,
			RateLimit:    1.0,
		},
		Concurrency: ConcurrencyConfig{
			AssessWorkers:   4,
			RelationWorkers: 4,
			BatchWorkers:    2,
		},
		Cache: CacheConfig{
			Enabled:   true,
			MemoryTTL: 15 * time.Minute,
			DiskTTL:   24 * time.Hour,
		},
		Pipeline: PipelineConfig{
			Timeout: 30 * time.Second,
		},
		Output: OutputConfig{},
	}
}
