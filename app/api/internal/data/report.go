package data

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"

	"github.com/iWorld-y/adverse_media/app/api/internal/domain"
	"github.com/iWorld-y/adverse_media/app/api/internal/repo"
	"github.com/iWorld-y/adverse_media/app/screener/pkg/model"
)

type reportRepo struct {
	data *Data
	log  *log.Helper
}

func NewReportRepo(data *Data, logger log.Logger) repo.ReportRepo {
	return &reportRepo{
		data: data,
		log:  log.NewHelper(logger),
	}
}

func (r *reportRepo) Enabled() bool {
	return r.data != nil && r.data.db != nil
}

func (r *reportRepo) SaveReport(ctx context.Context, report *model.Report) (string, error) {
	if !r.Enabled() {
		return "", domain.ErrArchiveDisabled
	}

	id := uuid.NewString()
	stored := sanitizeReport(report, id)
	payload, err := json.Marshal(&stored)
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}

	tx, err := r.data.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO adverse_media_reports
			(id, entity_name, date_range, search_date, findings_count, risk_level, payload)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		id,
		stored.EntityName,
		stored.DateRange,
		stored.SearchDate,
		stored.FindingsCount,
		string(stored.OverallRiskAssessment.Level),
		string(payload),
	)
	if err != nil {
		if rerr := tx.Rollback(); rerr != nil {
			err = fmt.Errorf("%w: %v", err, rerr)
		}
		return "", err
	}

	for _, f := range stored.Findings {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO adverse_media_findings
				(report_id, title, finding_date, source, severity, category)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			id,
			f.Title,
			f.Date,
			f.Source,
			string(f.Severity),
			string(f.Category),
		)
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				err = fmt.Errorf("%w: %v", err, rerr)
			}
			return "", err
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return id, nil
}

func (r *reportRepo) ListReports(ctx context.Context, page, pageSize int) ([]*domain.ReportSummary, int, error) {
	if !r.Enabled() {
		return nil, 0, domain.ErrArchiveDisabled
	}
	offset := (page - 1) * pageSize

	rows, err := r.data.db.QueryContext(ctx, `
		SELECT id, entity_name, date_range, search_date, findings_count, risk_level, created_at
		FROM adverse_media_reports
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	summaries := make([]*domain.ReportSummary, 0, pageSize)
	for rows.Next() {
		var (
			s         domain.ReportSummary
			createdAt time.Time
		)
		if err := rows.Scan(&s.ID, &s.EntityName, &s.DateRange, &s.SearchDate, &s.FindingsCount, &s.RiskLevel, &createdAt); err != nil {
			return nil, 0, err
		}
		s.CreatedAt = createdAt.Format("2006-01-02 15:04:05")
		summaries = append(summaries, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.data.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM adverse_media_reports`).Scan(&total); err != nil {
		return nil, 0, err
	}
	return summaries, total, nil
}

func (r *reportRepo) GetReport(ctx context.Context, id string) (*model.Report, error) {
	if !r.Enabled() {
		return nil, domain.ErrArchiveDisabled
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrReportNotFound
	}

	var payload []byte
	err := r.data.db.QueryRowContext(ctx,
		`SELECT payload FROM adverse_media_reports WHERE id = $1`, id).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrReportNotFound
		}
		return nil, err
	}

	var report model.Report
	if err := json.Unmarshal(payload, &report); err != nil {
		return nil, fmt.Errorf("decode stored report %s: %w", id, err)
	}
	return &report, nil
}

// sanitizeReport 复制报告并去掉文本字段中的 NULL 字节，TEXT 与 JSONB 都不接受
func sanitizeReport(report *model.Report, id string) model.Report {
	out := *report
	out.ID = id
	out.EntityName = removeNullBytes(report.EntityName)
	out.DateRange = removeNullBytes(report.DateRange)
	out.SearchDate = removeNullBytes(report.SearchDate)
	out.OverallRiskAssessment.Summary = removeNullBytes(report.OverallRiskAssessment.Summary)
	out.OverallRiskAssessment.Recommendation = removeNullBytes(report.OverallRiskAssessment.Recommendation)

	if report.Findings != nil {
		out.Findings = make([]model.Finding, len(report.Findings))
		for i, f := range report.Findings {
			f.Title = removeNullBytes(f.Title)
			f.Description = removeNullBytes(f.Description)
			f.Date = removeNullBytes(f.Date)
			f.Source = removeNullBytes(f.Source)
			out.Findings[i] = f
		}
	}
	if report.NextSteps != nil {
		out.NextSteps = make([]model.NextStep, len(report.NextSteps))
		for i, step := range report.NextSteps {
			step.Action = removeNullBytes(step.Action)
			step.Description = removeNullBytes(step.Description)
			step.Timeline = removeNullBytes(step.Timeline)
			out.NextSteps[i] = step
		}
	}
	return out
}

func removeNullBytes(s string) string {
	return strings.ReplaceAll(s, "\x00", "")
}
