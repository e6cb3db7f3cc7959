package engine

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	kerrors "github.com/go-kratos/kratos/v2/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/adverse_media/app/screener/pkg/llm"
	"github.com/iWorld-y/adverse_media/app/screener/pkg/model"
)

type fakeCompleter struct {
	ready error
	out   string
	err   error
	calls int
	req   llm.Request
}

func (f *fakeCompleter) Ready() error { return f.ready }

func (f *fakeCompleter) Complete(_ context.Context, req llm.Request) (string, error) {
	f.calls++
	f.req = req
	return f.out, f.err
}

type fakeGatherer struct {
	articles []model.Article
	err      error
	calls    int
	delay    time.Duration
}

func (f *fakeGatherer) Gather(context.Context, string, time.Time, time.Time) ([]model.Article, error) {
	f.calls++
	time.Sleep(f.delay)
	return f.articles, f.err
}

var fixedNow = time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC)

func newTestEngine(c Completer, g Gatherer) *Engine {
	return New(c, g, llm.Options{Model: "deepseek-chat", Temperature: 0.3, MaxTokens: 4000}).
		WithClock(func() time.Time { return fixedNow })
}

func TestGenerate_Success(t *testing.T) {
	c := &fakeCompleter{out: "```json\n{\"findings\":[{\"title\":\"Fined\",\"severity\":\"high\"}],\"nextSteps\":[{}]}\n```"}
	rep, err := newTestEngine(c, nil).Generate(context.Background(), model.ReportRequest{EntityName: "Acme Corp"})
	require.NoError(t, err)

	assert.Equal(t, 1, c.calls)
	assert.Contains(t, c.req.Prompt, "Acme Corp")
	assert.Contains(t, c.req.Prompt, "from 2026-09-18 to 2026-10-18")
	assert.Equal(t, "deepseek-chat", c.req.Options.Model)
	assert.NotEmpty(t, c.req.SystemPrompt)

	assert.Equal(t, "Acme Corp", rep.EntityName)
	assert.Equal(t, "30", rep.DateRange)
	assert.Equal(t, "2026-10-18T09:30:00Z", rep.SearchDate)
	assert.Equal(t, 1, rep.FindingsCount)
	assert.Equal(t, model.SeverityHigh, rep.Findings[0].Severity)
	assert.Equal(t, "2026-10-18", rep.Findings[0].Date)
	require.Len(t, rep.NextSteps, 1)
	assert.Equal(t, "Review Required", rep.NextSteps[0].Action)
	assert.Equal(t, model.SeverityHigh, rep.OverallRiskAssessment.Level)
}

func TestGenerate_EmptyArray(t *testing.T) {
	rep, err := newTestEngine(&fakeCompleter{out: "[]"}, nil).
		Generate(context.Background(), model.ReportRequest{EntityName: "Acme", DateRange: "all"})
	require.NoError(t, err)
	assert.Equal(t, 0, rep.FindingsCount)
	assert.Empty(t, rep.Findings)
	assert.NotNil(t, rep.Findings)
	assert.Equal(t, "all", rep.DateRange)
	assert.Equal(t, model.SeverityMedium, rep.OverallRiskAssessment.Level)
	assert.Equal(t, "No significant adverse media findings identified.", rep.OverallRiskAssessment.Summary)
}

func TestGenerate_BlankNameMakesNoCalls(t *testing.T) {
	c := &fakeCompleter{}
	g := &fakeGatherer{}
	for _, name := range []string{"", "   ", "\t\n"} {
		_, err := newTestEngine(c, g).Generate(context.Background(), model.ReportRequest{EntityName: name})
		require.Error(t, err)
		assert.True(t, kerrors.IsBadRequest(err))
		assert.True(t, errors.Is(err, ErrEntityNameRequired))
	}
	assert.Zero(t, c.calls)
	assert.Zero(t, g.calls)
}

func TestGenerate_NotConfiguredMakesNoCalls(t *testing.T) {
	c := &fakeCompleter{ready: llm.ErrNotConfigured}
	g := &fakeGatherer{}
	_, err := newTestEngine(c, g).Generate(context.Background(), model.ReportRequest{EntityName: "Acme"})
	assert.ErrorIs(t, err, llm.ErrNotConfigured)
	assert.Zero(t, c.calls)
	assert.Zero(t, g.calls)
}

func TestGenerate_UpstreamErrorPassesThrough(t *testing.T) {
	c := &fakeCompleter{err: &llm.UpstreamError{StatusCode: 429, Body: []byte(`{"error":"rate"}`)}}
	_, err := newTestEngine(c, nil).Generate(context.Background(), model.ReportRequest{EntityName: "Acme"})
	var upErr *llm.UpstreamError
	require.ErrorAs(t, err, &upErr)
	assert.Equal(t, 429, upErr.StatusCode)
}

func TestGenerate_Degraded(t *testing.T) {
	c := &fakeCompleter{out: "I cannot help with that."}
	_, err := newTestEngine(c, nil).Generate(context.Background(), model.ReportRequest{EntityName: "Acme"})
	var degraded *DegradedError
	require.ErrorAs(t, err, &degraded)
	assert.Equal(t, "I cannot help with that.", degraded.Raw)
}

func TestGenerate_Evidence(t *testing.T) {
	c := &fakeCompleter{out: "[]"}
	g := &fakeGatherer{articles: []model.Article{{Title: "Acme fined", Content: strings.Repeat("x", 120)}}}
	_, err := newTestEngine(c, g).Generate(context.Background(), model.ReportRequest{EntityName: "Acme"})
	require.NoError(t, err)
	assert.Equal(t, 1, g.calls)
	assert.Contains(t, c.req.Prompt, "Acme fined")
}

func TestGenerate_EvidenceFailureDegradesToPlainPrompt(t *testing.T) {
	c := &fakeCompleter{out: "[]"}
	g := &fakeGatherer{err: errors.New("search down")}
	_, err := newTestEngine(c, g).Generate(context.Background(), model.ReportRequest{EntityName: "Acme"})
	require.NoError(t, err)
	assert.Equal(t, 1, c.calls)
	assert.NotContains(t, c.req.Prompt, "Article 1")
}

func TestGenerate_ContextExpiredDuringEvidence(t *testing.T) {
	c := &fakeCompleter{out: "[]"}
	g := &fakeGatherer{delay: 100 * time.Millisecond}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := newTestEngine(c, g).Generate(ctx, model.ReportRequest{EntityName: "Acme"})
	var te *llm.TransportError
	require.ErrorAs(t, err, &te)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, g.calls)
	assert.Zero(t, c.calls)
}
