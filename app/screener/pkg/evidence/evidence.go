// Package evidence 检索实体相关新闻，作为提示词的补充证据
package evidence

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-shiori/go-readability"
	"golang.org/x/time/rate"

	"github.com/iWorld-y/adverse_media/app/screener/pkg/config"
	"github.com/iWorld-y/adverse_media/app/screener/pkg/logger"
	"github.com/iWorld-y/adverse_media/app/screener/pkg/model"
	"github.com/iWorld-y/adverse_media/app/screener/pkg/search"
	"github.com/iWorld-y/adverse_media/app/screener/pkg/textutil"
)

const (
	fetchTimeout  = 30 * time.Second
	minSnippetLen = 500 // 摘要短于该长度时抓取正文
	minArticleLen = 100 // 正文短于该长度视为无效
)

var httpClient = &http.Client{Timeout: fetchTimeout}

// FetchFunc 抓取网页正文
type FetchFunc func(ctx context.Context, url string) (string, error)

// Gatherer 新闻证据检索器
type Gatherer struct {
	searcher search.Searcher
	limiter  *rate.Limiter
	cfg      config.EvidenceConfig
	fetch    FetchFunc
	budget   time.Duration // 整个 Gather 的时间预算，0 表示只受调用方 ctx 约束
}

// NewGatherer 创建检索器；searcher 为 nil 时返回 nil
func NewGatherer(searcher search.Searcher, cfg config.EvidenceConfig, limiter *rate.Limiter) *Gatherer {
	if searcher == nil {
		return nil
	}
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Inf, 0)
	}
	return &Gatherer{
		searcher: searcher,
		limiter:  limiter,
		cfg:      cfg,
		fetch:    fetchAndCleanContent,
		budget:   cfg.TimeoutDuration(),
	}
}

// NewLimiter 按 RPM/QPS 创建限流器，RPM 未配置时不限流
func NewLimiter(cc config.ConcurrencyConfig) *rate.Limiter {
	if cc.RPM <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	burst := cc.QPS
	if burst <= 0 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(float64(cc.RPM)/60.0), burst)
}

// WithFetcher 替换正文抓取函数
func (g *Gatherer) WithFetcher(fn FetchFunc) *Gatherer {
	g.fetch = fn
	return g
}

// WithBudget 替换检索阶段的时间预算
func (g *Gatherer) WithBudget(d time.Duration) *Gatherer {
	g.budget = d
	return g
}

// Gather 检索 [start, end] 内关于实体的新闻，start 为零值表示不限。
// 预算耗尽时返回已收集的文章；调用方 ctx 结束时返回其错误。
func (g *Gatherer) Gather(ctx context.Context, entityName string, start, end time.Time) ([]model.Article, error) {
	parent := ctx
	if g.budget > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.budget)
		defer cancel()
	}

	req := &search.Request{
		Query:      search.AdverseMediaQuery(entityName),
		Topic:      "news",
		MaxResults: g.cfg.MaxResults,
		EndDate:    end.Format(time.DateOnly),
	}
	if !start.IsZero() {
		req.StartDate = start.Format(time.DateOnly)
	}

	if err := g.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	resp, err := g.searcher.Search(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("search news for %q: %w", entityName, err)
	}
	logger.Log.Debugf("检索到 %d 条新闻 [%s]", len(resp.Results), entityName)

	var articles []model.Article
	for _, item := range resp.Results {
		if ctx.Err() != nil {
			logger.Log.Warnf("新闻证据检索超出预算，使用已收集的 %d 篇 [%s]", len(articles), entityName)
			break
		}

		content := item.Content
		if g.cfg.FetchFull && len(content) < minSnippetLen && item.URL != "" {
			fetched, err := g.fetchWithin(ctx, item.URL)
			if err != nil {
				logger.Log.Warnf("原文抓取失败，使用摘要 [%s]: %v", item.Title, err)
			} else if len(fetched) > len(content) {
				content = fetched
			}
		}
		if g.cfg.MaxChars > 0 {
			content = textutil.Truncate(content, g.cfg.MaxChars)
		}
		if len(content) < minArticleLen {
			continue
		}

		articles = append(articles, model.Article{
			Title:   item.Title,
			Link:    item.URL,
			Source:  item.URL,
			PubDate: item.PublishedDate,
			Content: content,
		})
		if g.cfg.MaxArticles > 0 && len(articles) >= g.cfg.MaxArticles {
			break
		}
	}
	if err := parent.Err(); err != nil {
		return articles, err
	}
	return articles, nil
}

// fetchWithin 在 ctx 结束时放弃抓取，不等待不响应 ctx 的 fetch
func (g *Gatherer) fetchWithin(ctx context.Context, pageURL string) (string, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return "", err
	}

	type result struct {
		text string
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		text, err := g.fetch(ctx, pageURL)
		ch <- result{text: text, err: err}
	}()

	select {
	case r := <-ch:
		return r.text, r.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func fetchAndCleanContent(ctx context.Context, pageURL string) (string, error) {
	parsed, err := url.ParseRequestURI(pageURL)
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", err
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("fetch %s: status %d", pageURL, resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.Contains(ct, "text/html") {
		return "", fmt.Errorf("fetch %s: unsupported content type %q", pageURL, ct)
	}

	article, err := readability.FromReader(resp.Body, parsed)
	if err != nil {
		return "", err
	}
	return article.TextContent, nil
}
