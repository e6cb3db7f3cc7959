package repo

import (
	"context"

	"github.com/iWorld-y/adverse_media/app/api/internal/domain"
	"github.com/iWorld-y/adverse_media/app/screener/pkg/model"
)

// ReportRepo 报告归档接口
type ReportRepo interface {
	// Enabled 是否配置了归档存储
	Enabled() bool
	// SaveReport 保存报告，返回分配的 ID
	SaveReport(ctx context.Context, report *model.Report) (string, error)
	// ListReports 分页获取报告摘要列表，按创建时间倒序
	ListReports(ctx context.Context, page, pageSize int) ([]*domain.ReportSummary, int, error)
	// GetReport 根据 ID 获取完整报告
	GetReport(ctx context.Context, id string) (*model.Report, error)
}
