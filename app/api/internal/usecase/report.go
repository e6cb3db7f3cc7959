package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/iWorld-y/adverse_media/app/api/internal/conf"
	"github.com/iWorld-y/adverse_media/app/api/internal/domain"
	"github.com/iWorld-y/adverse_media/app/api/internal/repo"
	"github.com/iWorld-y/adverse_media/app/screener/pkg/model"
)

const defaultCacheTTL = 10 * time.Minute

// Generator 报告生成
type Generator interface {
	Generate(ctx context.Context, req model.ReportRequest) (*model.Report, error)
}

// ReportUseCase 报告业务逻辑
type ReportUseCase struct {
	gen   Generator
	repo  repo.ReportRepo
	cache *expirable.LRU[string, *model.Report]
	log   *log.Helper
	now   func() time.Time
}

// NewReportUseCase 创建报告业务逻辑实例，缓存按配置开启
func NewReportUseCase(gen Generator, repo repo.ReportRepo, c *conf.Screening, logger log.Logger) *ReportUseCase {
	uc := &ReportUseCase{gen: gen, repo: repo, log: log.NewHelper(logger), now: time.Now}
	if c != nil && c.Cache != nil && c.Cache.Size > 0 {
		ttl := defaultCacheTTL
		if c.Cache.Ttl != "" {
			if d, err := time.ParseDuration(c.Cache.Ttl); err == nil {
				ttl = d
			} else {
				uc.log.Warnf("invalid cache ttl %q, using %s", c.Cache.Ttl, defaultCacheTTL)
			}
		}
		uc.cache = expirable.NewLRU[string, *model.Report](int(c.Cache.Size), nil, ttl)
	}
	return uc
}

// Generate 生成报告；成功后按需归档与缓存，归档失败只记录日志
func (uc *ReportUseCase) Generate(ctx context.Context, req model.ReportRequest) (*model.Report, error) {
	key := cacheKey(req)
	if uc.cache != nil {
		if cached, ok := uc.cache.Get(key); ok {
			uc.log.WithContext(ctx).Debugf("report cache hit: %s", key)
			// 名称原样与检索时间按本次请求返回
			cp := *cached
			cp.EntityName = req.EntityName
			cp.SearchDate = uc.now().UTC().Format(time.RFC3339)
			return &cp, nil
		}
	}

	report, err := uc.gen.Generate(ctx, req)
	if err != nil {
		return nil, err
	}

	if uc.repo != nil && uc.repo.Enabled() {
		id, err := uc.repo.SaveReport(ctx, report)
		if err != nil {
			uc.log.WithContext(ctx).Errorf("failed to archive report for %q: %v", report.EntityName, err)
		} else {
			report.ID = id
		}
	}

	if uc.cache != nil {
		cp := *report
		uc.cache.Add(key, &cp)
	}
	return report, nil
}

// List 分页列出已归档的报告摘要
func (uc *ReportUseCase) List(ctx context.Context, page, pageSize int) ([]*domain.ReportSummary, int, error) {
	if uc.repo == nil || !uc.repo.Enabled() {
		return nil, 0, domain.ErrArchiveDisabled
	}
	return uc.repo.ListReports(ctx, page, pageSize)
}

// GetByID 根据 ID 获取已归档的报告
func (uc *ReportUseCase) GetByID(ctx context.Context, id string) (*model.Report, error) {
	if uc.repo == nil || !uc.repo.Enabled() {
		return nil, domain.ErrArchiveDisabled
	}
	return uc.repo.GetReport(ctx, id)
}

func cacheKey(req model.ReportRequest) string {
	return strings.ToLower(strings.TrimSpace(req.EntityName)) + "|" + req.DateRange.String()
}
