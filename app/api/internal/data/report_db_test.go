package data

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/adverse_media/app/api/internal/domain"
	"github.com/iWorld-y/adverse_media/app/screener/pkg/model"
)

// captured 记录 Exec 实参，匹配任意值
type captured struct {
	v driver.Value
}

func (c *captured) Match(v driver.Value) bool {
	c.v = v
	return true
}

func newMockRepo(t *testing.T) (*reportRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	r := NewReportRepo(&Data{db: db}, log.DefaultLogger).(*reportRepo)
	require.True(t, r.Enabled())
	return r, mock
}

func sampleReport() *model.Report {
	return &model.Report{
		EntityName:    "Acme\x00 Corp",
		DateRange:     "30",
		SearchDate:    "2026-10-18T09:30:00Z",
		FindingsCount: 2,
		Findings: []model.Finding{
			{Title: "Fined", Description: `regulator quoted \u0000 in filing`, Date: "2026-10-01", Source: "Reuters", Severity: model.SeverityHigh, Category: model.CategoryRegulatory},
			{Title: "Sued", Date: "2026-10-02", Source: "FT", Severity: model.SeverityMedium, Category: model.CategoryLegal},
		},
		NextSteps:             []model.NextStep{{Action: "Review Required", Priority: model.SeverityHigh}},
		OverallRiskAssessment: model.RiskAssessment{Level: model.SeverityHigh, Summary: "Regulatory fine"},
	}
}

func TestSaveAndGetReport(t *testing.T) {
	r, mock := newMockRepo(t)
	ctx := context.Background()
	id, payload := &captured{}, &captured{}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO adverse_media_reports").
		WithArgs(id, "Acme Corp", "30", "2026-10-18T09:30:00Z", 2, "High", payload).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO adverse_media_findings").
		WithArgs(sqlmock.AnyArg(), "Fined", "2026-10-01", "Reuters", "High", "Regulatory").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO adverse_media_findings").
		WithArgs(sqlmock.AnyArg(), "Sued", "2026-10-02", "FT", "Medium", "Legal").
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	in := sampleReport()
	got, err := r.SaveReport(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, got, id.v)
	assert.Empty(t, in.ID)

	stored, ok := payload.v.(string)
	require.True(t, ok)
	assert.True(t, json.Valid([]byte(stored)), stored)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT payload FROM adverse_media_reports WHERE id = $1")).
		WithArgs(got).
		WillReturnRows(sqlmock.NewRows([]string{"payload"}).AddRow(stored))

	rep, err := r.GetReport(ctx, got)
	require.NoError(t, err)
	assert.Equal(t, got, rep.ID)
	assert.Equal(t, "Acme Corp", rep.EntityName)
	require.Len(t, rep.Findings, 2)
	assert.Equal(t, `regulator quoted \u0000 in filing`, rep.Findings[0].Description)
	assert.Equal(t, model.SeverityHigh, rep.OverallRiskAssessment.Level)
	assert.Equal(t, "Review Required", rep.NextSteps[0].Action)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveReport_FindingInsertFailureRollsBack(t *testing.T) {
	r, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO adverse_media_reports").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO adverse_media_findings").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO adverse_media_findings").WillReturnError(errors.New("value too long"))
	mock.ExpectRollback()

	id, err := r.SaveReport(context.Background(), sampleReport())
	assert.ErrorContains(t, err, "value too long")
	assert.Empty(t, id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveReport_ReportInsertFailureRollsBack(t *testing.T) {
	r, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO adverse_media_reports").WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	_, err := r.SaveReport(context.Background(), sampleReport())
	assert.ErrorContains(t, err, "disk full")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListReports(t *testing.T) {
	r, mock := newMockRepo(t)
	newer := time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC)
	older := newer.Add(-time.Hour)

	cols := []string{"id", "entity_name", "date_range", "search_date", "findings_count", "risk_level", "created_at"}
	mock.ExpectQuery(`FROM adverse_media_reports\s+ORDER BY created_at DESC\s+LIMIT \$1 OFFSET \$2`).
		WithArgs(10, 10).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("r2", "Beta Ltd", "7", "2026-10-18T09:30:00Z", 0, "Medium", newer).
			AddRow("r1", "Acme Corp", "30", "2026-10-18T08:30:00Z", 3, "High", older))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM adverse_media_reports")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))

	reports, total, err := r.ListReports(context.Background(), 2, 10)
	require.NoError(t, err)
	assert.Equal(t, 12, total)
	require.Len(t, reports, 2)
	assert.Equal(t, "r2", reports[0].ID)
	assert.Equal(t, "2026-10-18 09:30:00", reports[0].CreatedAt)
	assert.Equal(t, "r1", reports[1].ID)
	assert.Equal(t, 3, reports[1].FindingsCount)
	assert.Equal(t, "High", reports[1].RiskLevel)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetReport_NotFound(t *testing.T) {
	r, mock := newMockRepo(t)
	ctx := context.Background()

	_, err := r.GetReport(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, domain.ErrReportNotFound)

	unknown := "3f1c1f0e-0000-4000-8000-000000000009"
	mock.ExpectQuery("SELECT payload FROM adverse_media_reports").
		WithArgs(unknown).
		WillReturnRows(sqlmock.NewRows([]string{"payload"}))
	_, err = r.GetReport(ctx, unknown)
	assert.ErrorIs(t, err, domain.ErrReportNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}
