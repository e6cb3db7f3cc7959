package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-kratos/kratos/v2/errors"

	"github.com/iWorld-y/adverse_media/app/screener/pkg/config"
	"github.com/iWorld-y/adverse_media/app/screener/pkg/evidence"
	"github.com/iWorld-y/adverse_media/app/screener/pkg/llm"
	"github.com/iWorld-y/adverse_media/app/screener/pkg/logger"
	"github.com/iWorld-y/adverse_media/app/screener/pkg/model"
	"github.com/iWorld-y/adverse_media/app/screener/pkg/normalize"
	"github.com/iWorld-y/adverse_media/app/screener/pkg/parser"
	"github.com/iWorld-y/adverse_media/app/screener/pkg/prompt"
	"github.com/iWorld-y/adverse_media/app/screener/pkg/search/factory"
)

// ErrEntityNameRequired 实体名称为空
var ErrEntityNameRequired = errors.BadRequest("ENTITY_NAME_REQUIRED", "Entity name is required")

// DegradedError 模型输出无法解析为 JSON，携带原始文本
type DegradedError struct {
	Raw string
	Err error
}

func (e *DegradedError) Error() string { return fmt.Sprintf("degraded report: %v", e.Err) }
func (e *DegradedError) Unwrap() error { return e.Err }

// Completer 文本补全
type Completer interface {
	Ready() error
	Complete(ctx context.Context, req llm.Request) (string, error)
}

// Gatherer 新闻证据检索，可选
type Gatherer interface {
	Gather(ctx context.Context, entityName string, start, end time.Time) ([]model.Article, error)
}

// Engine 核心处理引擎
type Engine struct {
	completer Completer
	gatherer  Gatherer
	opts      llm.Options
	now       func() time.Time
}

// New 组装引擎，gatherer 可为 nil
func New(completer Completer, gatherer Gatherer, opts llm.Options) *Engine {
	return &Engine{
		completer: completer,
		gatherer:  gatherer,
		opts:      opts,
		now:       time.Now,
	}
}

// NewEngine 根据配置创建引擎实例
func NewEngine(cfg *config.Config) (*Engine, error) {
	ctx := context.Background()

	// 初始化 LLM
	client, err := llm.NewClient(ctx, llm.Config{
		BaseURL: cfg.LLM.BaseURL,
		APIKey:  cfg.LLM.APIKey,
		Model:   cfg.LLM.Model,
		Timeout: cfg.LLM.TimeoutDuration(),
	})
	if err != nil {
		return nil, fmt.Errorf("LLM 初始化失败: %w", err)
	}

	// 初始化搜索客户端
	searcher, err := factory.NewSearcher(cfg.Search)
	if err != nil {
		return nil, fmt.Errorf("搜索客户端初始化失败: %w", err)
	}

	var gatherer Gatherer
	if g := evidence.NewGatherer(searcher, cfg.Evidence, evidence.NewLimiter(cfg.Concurrency)); g != nil {
		gatherer = g
	}

	return New(client, gatherer, llm.Options{
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.TemperatureValue(),
		MaxTokens:   cfg.LLM.MaxTokens,
	}), nil
}

// WithClock 替换时间来源
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// Generate 生成一份负面新闻筛查报告
// 模型输出无法解析时返回 *DegradedError
func (e *Engine) Generate(ctx context.Context, req model.ReportRequest) (*model.Report, error) {
	entityName := strings.TrimSpace(req.EntityName)
	if entityName == "" {
		return nil, ErrEntityNameRequired
	}
	if err := e.completer.Ready(); err != nil {
		return nil, err
	}

	now := e.now()
	start, end := req.DateRange.Window(now)
	text := prompt.Build(req.EntityName, start, end)

	if e.gatherer != nil {
		articles, err := e.gatherer.Gather(ctx, entityName, start, end)
		if err != nil {
			logger.Log.Warnf("新闻证据检索失败，继续生成 [%s]: %v", entityName, err)
		} else {
			logger.Log.Infof("检索到 %d 篇新闻证据 [%s]", len(articles), entityName)
			text = prompt.WithEvidence(text, articles)
		}
	}
	// 检索耗尽了请求时间则不再调用模型
	if err := ctx.Err(); err != nil {
		return nil, &llm.TransportError{Err: err}
	}

	raw, err := e.completer.Complete(ctx, llm.Request{
		Prompt:       text,
		SystemPrompt: prompt.SystemPrompt,
		Options:      e.opts,
	})
	if err != nil {
		return nil, err
	}

	parsed, err := parser.Parse(raw)
	if err != nil {
		logger.Log.Warnf("模型输出解析失败 [%s]: %v", entityName, err)
		return nil, &DegradedError{Raw: raw, Err: err}
	}

	out := normalize.Normalize(parsed, now)
	logger.Log.Infof("报告生成完成 [%s]: %d 条 findings, 风险等级 %s", entityName, len(out.Findings), out.Assessment.Level)

	return &model.Report{
		EntityName:            req.EntityName,
		DateRange:             req.DateRange.String(),
		SearchDate:            now.UTC().Format(time.RFC3339),
		FindingsCount:         len(out.Findings),
		Findings:              out.Findings,
		NextSteps:             out.NextSteps,
		OverallRiskAssessment: out.Assessment,
	}, nil
}
