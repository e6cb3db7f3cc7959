package factory

import (
	"fmt"
	"strings"

	"github.com/iWorld-y/adverse_media/app/screener/pkg/config"
	"github.com/iWorld-y/adverse_media/app/screener/pkg/search"
	"github.com/iWorld-y/adverse_media/app/screener/pkg/searxng"
	"github.com/iWorld-y/adverse_media/app/screener/pkg/tavily"
)

// NewSearcher 根据配置创建搜索实例
// 未配置 provider 时返回 nil，表示不检索新闻证据
func NewSearcher(cfg config.SearchConfig) (search.Searcher, error) {
	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))
	switch provider {
	case "", "none":
		return nil, nil

	case "tavily":
		if cfg.Tavily.APIKey == "" {
			return nil, fmt.Errorf("tavily api key is missing")
		}
		return tavily.NewClient(cfg.Tavily.APIKey, cfg.Tavily.BaseURL), nil

	case "searxng":
		if cfg.SearXNG.BaseURL == "" {
			return nil, fmt.Errorf("searxng base url is missing")
		}
		return searxng.NewClient(cfg.SearXNG.BaseURL, cfg.SearXNG.Timeout), nil

	default:
		return nil, fmt.Errorf("unknown search provider: %s", cfg.Provider)
	}
}
