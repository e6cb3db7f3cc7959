package domain

import "github.com/go-kratos/kratos/v2/errors"

var (
	// ErrReportNotFound 报告不存在
	ErrReportNotFound = errors.NotFound("REPORT_NOT_FOUND", "Report not found")
	// ErrArchiveDisabled 未配置数据库，报告归档不可用
	ErrArchiveDisabled = errors.ServiceUnavailable("ARCHIVE_DISABLED", "Report archive not configured")
)

// ReportSummary 已归档报告的摘要信息
type ReportSummary struct {
	ID            string `json:"id"`
	EntityName    string `json:"entityName"`
	DateRange     string `json:"dateRange"`
	SearchDate    string `json:"searchDate"`
	FindingsCount int    `json:"findingsCount"`
	RiskLevel     string `json:"riskLevel"`
	CreatedAt     string `json:"createdAt"`
}
