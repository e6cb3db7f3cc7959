package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// 默认值
const (
	DefaultBaseURL     = "https://api.deepseek.com"
	DefaultModel       = "deepseek-chat"
	DefaultTemperature = 0.3
	DefaultMaxTokens   = 4000
	DefaultTimeout     = 120 // 秒

	DefaultEvidenceResults = 8
	DefaultEvidenceChars   = 5000
	DefaultEvidenceTimeout = 45 // 秒
)

// Config 项目配置结构体
type Config struct {
	LLM         LLMConfig         `yaml:"llm"`
	Search      SearchConfig      `yaml:"search"`
	Evidence    EvidenceConfig    `yaml:"evidence"`
	Log         LogConfig         `yaml:"log"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
}

// LLMConfig LLM 相关配置
type LLMConfig struct {
	BaseURL     string   `yaml:"base_url"`
	APIKey      string   `yaml:"api_key"`
	Model       string   `yaml:"model"`
	Temperature *float32 `yaml:"temperature"` // nil 表示未配置，0 是合法值
	MaxTokens   int      `yaml:"max_tokens"`
	Timeout     int      `yaml:"timeout"` // 秒
}

// TemperatureValue 采样温度，未配置时返回默认值
func (c LLMConfig) TemperatureValue() float32 {
	if c.Temperature == nil {
		return DefaultTemperature
	}
	return *c.Temperature
}

// TimeoutDuration 超时时间
func (c LLMConfig) TimeoutDuration() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// SearchConfig 搜索相关配置，Provider 为空时不检索新闻证据
type SearchConfig struct {
	Provider string        `yaml:"provider"`
	Tavily   TavilyConfig  `yaml:"tavily"`
	SearXNG  SearXNGConfig `yaml:"searxng"`
}

// TavilyConfig Tavily 配置
type TavilyConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
}

// SearXNGConfig SearXNG 配置
type SearXNGConfig struct {
	BaseURL string `yaml:"base_url"`
	Timeout int    `yaml:"timeout"`
}

// EvidenceConfig 新闻证据检索配置
type EvidenceConfig struct {
	MaxResults  int  `yaml:"max_results"`
	MaxArticles int  `yaml:"max_articles"`
	MaxChars    int  `yaml:"max_chars"`
	FetchFull   bool `yaml:"fetch_full"`
	Timeout     int  `yaml:"timeout"` // 秒，整个检索阶段的预算
}

// TimeoutDuration 检索阶段总预算
func (c EvidenceConfig) TimeoutDuration() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// LogConfig 日志相关配置
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// ConcurrencyConfig 外部调用限流配置，RPM 为 0 表示不限流
type ConcurrencyConfig struct {
	QPS int `yaml:"qps"`
	RPM int `yaml:"rpm"`
}

// ApplyDefaults 补齐未配置的字段
func (c *Config) ApplyDefaults() {
	if c.LLM.BaseURL == "" {
		c.LLM.BaseURL = DefaultBaseURL
	}
	if c.LLM.Model == "" {
		c.LLM.Model = DefaultModel
	}
	if c.LLM.Temperature == nil {
		t := float32(DefaultTemperature)
		c.LLM.Temperature = &t
	}
	if c.LLM.MaxTokens <= 0 {
		c.LLM.MaxTokens = DefaultMaxTokens
	}
	if c.LLM.Timeout <= 0 {
		c.LLM.Timeout = DefaultTimeout
	}
	if c.Evidence.MaxResults <= 0 {
		c.Evidence.MaxResults = DefaultEvidenceResults
	}
	if c.Evidence.MaxArticles <= 0 {
		c.Evidence.MaxArticles = c.Evidence.MaxResults
	}
	if c.Evidence.MaxChars <= 0 {
		c.Evidence.MaxChars = DefaultEvidenceChars
	}
	if c.Evidence.Timeout <= 0 {
		c.Evidence.Timeout = DefaultEvidenceTimeout
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// LoadConfig 从指定路径加载配置
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()

	return &cfg, nil
}
