package server

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/iWorld-y/adverse_media/app/api/internal/conf"
	"github.com/iWorld-y/adverse_media/app/screener/pkg/config"
)

func TestToEngineConfig(t *testing.T) {
	zero := float32(0)
	cfg := ToEngineConfig(&conf.Screening{
		Llm:         &conf.LLM{ApiKey: "sk-test", MaxTokens: 2000, Temperature: &zero},
		Search:      &conf.Search{Provider: "searxng", Searxng: &conf.SearXNG{BaseUrl: "http://searx", Timeout: 10}},
		Evidence:    &conf.Evidence{MaxResults: 4, FetchFull: true, Timeout: 20},
		Concurrency: &conf.Concurrency{Qps: 2, Rpm: 60},
	})

	assert.Equal(t, "sk-test", cfg.LLM.APIKey)
	assert.Equal(t, config.DefaultBaseURL, cfg.LLM.BaseURL)
	assert.Equal(t, config.DefaultModel, cfg.LLM.Model)
	assert.Equal(t, 2000, cfg.LLM.MaxTokens)
	assert.Equal(t, config.DefaultTimeout, cfg.LLM.Timeout)
	assert.Equal(t, "http://searx", cfg.Search.SearXNG.BaseURL)
	assert.Equal(t, 4, cfg.Evidence.MaxResults)
	assert.Equal(t, 4, cfg.Evidence.MaxArticles)
	assert.True(t, cfg.Evidence.FetchFull)
	assert.Equal(t, 20*time.Second, cfg.Evidence.TimeoutDuration())
	assert.Zero(t, cfg.LLM.TemperatureValue())
	assert.Equal(t, 60, cfg.Concurrency.RPM)
}

func TestToEngineConfig_Nil(t *testing.T) {
	cfg := ToEngineConfig(nil)
	assert.Empty(t, cfg.LLM.APIKey)
	assert.Equal(t, config.DefaultModel, cfg.LLM.Model)
	assert.Empty(t, cfg.Search.Provider)
	assert.InDelta(t, config.DefaultTemperature, cfg.LLM.TemperatureValue(), 0.0001)
	assert.Equal(t, config.DefaultEvidenceTimeout, cfg.Evidence.Timeout)
}
