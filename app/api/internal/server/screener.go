package server

import (
	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/adverse_media/app/api/internal/conf"
	"github.com/iWorld-y/adverse_media/app/screener/pkg/config"
	"github.com/iWorld-y/adverse_media/app/screener/pkg/engine"
	scLogger "github.com/iWorld-y/adverse_media/app/screener/pkg/logger"
)

// NewEngine 初始化筛查引擎
func NewEngine(c *conf.Screening, logger log.Logger) (*engine.Engine, error) {
	cfg := ToEngineConfig(c)

	// 初始化日志
	if err := scLogger.InitLogger(cfg.Log.Level, cfg.Log.File); err != nil {
		log.NewHelper(logger).Errorf("Failed to init screener logger: %v", err)
		_ = scLogger.InitLogger("info", "") // 降级处理
	}

	eng, err := engine.NewEngine(cfg)
	if err != nil {
		log.NewHelper(logger).Errorf("Failed to init engine: %v", err)
		return nil, err
	}
	if cfg.LLM.APIKey == "" {
		log.NewHelper(logger).Warn("DeepSeek API key not configured, report generation will fail until DEEPSEEK_API_KEY is set")
	}
	return eng, nil
}

// ToEngineConfig 将 internal/conf.Screening 转换为 pkg/config.Config
func ToEngineConfig(c *conf.Screening) *config.Config {
	cfg := &config.Config{}
	if c == nil {
		cfg.ApplyDefaults()
		return cfg
	}

	if c.Llm != nil {
		cfg.LLM = config.LLMConfig{
			BaseURL:     c.Llm.BaseUrl,
			APIKey:      c.Llm.ApiKey,
			Model:       c.Llm.Model,
			Temperature: c.Llm.Temperature,
			MaxTokens:   int(c.Llm.MaxTokens),
			Timeout:     int(c.Llm.Timeout),
		}
	}
	if c.Search != nil {
		cfg.Search.Provider = c.Search.Provider
		if c.Search.Tavily != nil {
			cfg.Search.Tavily = config.TavilyConfig{
				APIKey:  c.Search.Tavily.ApiKey,
				BaseURL: c.Search.Tavily.BaseUrl,
			}
		}
		if c.Search.Searxng != nil {
			cfg.Search.SearXNG = config.SearXNGConfig{
				BaseURL: c.Search.Searxng.BaseUrl,
				Timeout: int(c.Search.Searxng.Timeout),
			}
		}
	}
	if c.Evidence != nil {
		cfg.Evidence = config.EvidenceConfig{
			MaxResults:  int(c.Evidence.MaxResults),
			MaxArticles: int(c.Evidence.MaxArticles),
			MaxChars:    int(c.Evidence.MaxChars),
			FetchFull:   c.Evidence.FetchFull,
			Timeout:     int(c.Evidence.Timeout),
		}
	}
	if c.Log != nil {
		cfg.Log = config.LogConfig{
			Level: c.Log.Level,
			File:  c.Log.File,
		}
	}
	if c.Concurrency != nil {
		cfg.Concurrency = config.ConcurrencyConfig{
			QPS: int(c.Concurrency.Qps),
			RPM: int(c.Concurrency.Rpm),
		}
	}

	cfg.ApplyDefaults()
	return cfg
}
