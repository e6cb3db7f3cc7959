package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	kerrors "github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	khttp "github.com/go-kratos/kratos/v2/transport/http"

	"github.com/iWorld-y/adverse_media/app/api/internal/usecase"
	"github.com/iWorld-y/adverse_media/app/screener/pkg/engine"
	"github.com/iWorld-y/adverse_media/app/screener/pkg/llm"
	"github.com/iWorld-y/adverse_media/app/screener/pkg/model"
	"github.com/iWorld-y/adverse_media/app/screener/pkg/render"
)

const (
	OperationCreateReport = "/adverse_media.v1.Screening/CreateReport"
	OperationListReports  = "/adverse_media.v1.Screening/ListReports"
	OperationGetReport    = "/adverse_media.v1.Screening/GetReport"

	defaultPageSize = 10
	maxPageSize     = 100
)

// Client-facing messages
const (
	MsgInvalidBody      = "Invalid request body"
	MsgNotConfigured    = "DeepSeek API key not configured. Please set DEEPSEEK_API_KEY."
	MsgUpstreamFailed   = "Failed to fetch adverse media data from DeepSeek API"
	MsgGenerateFailed   = "Failed to generate adverse media report"
	MsgParseFailed      = "Failed to parse AI response"
	MsgReportLoadFailed = "Failed to load report"
)

type errorReply struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

type degradedReply struct {
	Findings              []model.Finding  `json:"findings"`
	NextSteps             []model.NextStep `json:"nextSteps"`
	OverallRiskAssessment any              `json:"overallRiskAssessment"`
	Error                 string           `json:"error"`
	RawResponse           string           `json:"rawResponse"`
}

type listReply struct {
	Reports any `json:"reports"`
	Total   int `json:"total"`
}

// ScreeningService 负面新闻筛查 HTTP 服务
type ScreeningService struct {
	uc  *usecase.ReportUseCase
	log *log.Helper
}

func NewScreeningService(uc *usecase.ReportUseCase, logger log.Logger) *ScreeningService {
	return &ScreeningService{
		uc:  uc,
		log: log.NewHelper(logger),
	}
}

// CreateReport POST /adverse-media-report
func (s *ScreeningService) CreateReport(ctx khttp.Context) error {
	var req model.ReportRequest
	if err := json.NewDecoder(ctx.Request().Body).Decode(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, errorReply{Error: MsgInvalidBody})
	}

	khttp.SetOperation(ctx, OperationCreateReport)
	h := ctx.Middleware(func(c context.Context, in any) (any, error) {
		return s.uc.Generate(c, in.(model.ReportRequest))
	})
	out, err := h(ctx, req)
	if err != nil {
		return s.writeGenerateError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, out)
}

func (s *ScreeningService) writeGenerateError(ctx khttp.Context, err error) error {
	var (
		upErr    *llm.UpstreamError
		tErr     *llm.TransportError
		degraded *engine.DegradedError
	)
	switch {
	case errors.Is(err, engine.ErrEntityNameRequired):
		return ctx.JSON(http.StatusBadRequest, errorReply{Error: engine.ErrEntityNameRequired.Message})

	case errors.Is(err, llm.ErrNotConfigured):
		s.log.WithContext(ctx).Error("DeepSeek API key not configured")
		return ctx.JSON(http.StatusInternalServerError, errorReply{Error: MsgNotConfigured})

	case errors.As(err, &upErr):
		s.log.WithContext(ctx).Errorf("DeepSeek API error: status=%d", upErr.StatusCode)
		return ctx.JSON(upErr.StatusCode, errorReply{Error: MsgUpstreamFailed, Details: upstreamDetails(upErr.Body)})

	case errors.As(err, &degraded):
		s.log.WithContext(ctx).Warnf("failed to parse AI response: %v", degraded.Err)
		return ctx.JSON(http.StatusOK, degradedReply{
			Findings:              []model.Finding{},
			NextSteps:             []model.NextStep{},
			OverallRiskAssessment: nil,
			Error:                 MsgParseFailed,
			RawResponse:           degraded.Raw,
		})

	case errors.As(err, &tErr):
		s.log.WithContext(ctx).Errorf("adverse media request failed: %v", tErr.Err)
		return ctx.JSON(http.StatusInternalServerError, errorReply{Error: MsgGenerateFailed})

	default:
		s.log.WithContext(ctx).Errorf("adverse media report failed: %v", err)
		return ctx.JSON(http.StatusInternalServerError, errorReply{Error: MsgGenerateFailed})
	}
}

// upstreamDetails 上游响应体是 JSON 时原样透传，否则作为字符串
func upstreamDetails(body []byte) any {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && json.Valid(trimmed) {
		return json.RawMessage(trimmed)
	}
	return string(body)
}

// ListReports GET /adverse-media-reports
func (s *ScreeningService) ListReports(ctx khttp.Context) error {
	page := queryInt(ctx, "page", 1)
	pageSize := queryInt(ctx, "page_size", defaultPageSize)
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	khttp.SetOperation(ctx, OperationListReports)
	reports, total, err := s.uc.List(ctx, page, pageSize)
	if err != nil {
		return s.writeArchiveError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, listReply{Reports: reports, Total: total})
}

// GetReport GET /adverse-media-reports/{id}
func (s *ScreeningService) GetReport(ctx khttp.Context) error {
	khttp.SetOperation(ctx, OperationGetReport)
	report, err := s.uc.GetByID(ctx, ctx.Vars().Get("id"))
	if err != nil {
		return s.writeArchiveError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, report)
}

// GetReportHTML GET /adverse-media-reports/{id}/html
func (s *ScreeningService) GetReportHTML(ctx khttp.Context) error {
	khttp.SetOperation(ctx, OperationGetReport)
	report, err := s.uc.GetByID(ctx, ctx.Vars().Get("id"))
	if err != nil {
		return s.writeArchiveError(ctx, err)
	}

	var buf bytes.Buffer
	if err := render.HTML(&buf, report); err != nil {
		s.log.WithContext(ctx).Errorf("render report %s: %v", report.ID, err)
		return ctx.JSON(http.StatusInternalServerError, errorReply{Error: MsgReportLoadFailed})
	}
	return ctx.Blob(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

// Healthz GET /healthz
func (s *ScreeningService) Healthz(ctx khttp.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *ScreeningService) writeArchiveError(ctx khttp.Context, err error) error {
	var se *kerrors.Error
	if errors.As(err, &se) {
		return ctx.JSON(int(se.Code), errorReply{Error: se.Message})
	}
	s.log.WithContext(ctx).Errorf("report archive: %v", err)
	return ctx.JSON(http.StatusInternalServerError, errorReply{Error: MsgReportLoadFailed})
}

func queryInt(ctx khttp.Context, key string, def int) int {
	n, err := strconv.Atoi(ctx.Query().Get(key))
	if err != nil || n < 1 {
		return def
	}
	return n
}
