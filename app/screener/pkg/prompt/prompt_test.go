package prompt

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/iWorld-y/adverse_media/app/screener/pkg/model"
)

func TestBuild_ContainsEntityAndWindow(t *testing.T) {
	end := time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC)
	start := end.AddDate(0, 0, -30)

	p := Build("Acme Corp", start, end)

	assert.Contains(t, p, `"Acme Corp"`)
	assert.Contains(t, p, "2026-09-18")
	assert.Contains(t, p, "2026-10-18")
	assert.Contains(t, p, "Return ONLY valid JSON, no markdown.")
	for _, field := range []string{"findings", "nextSteps", "overallRiskAssessment", "severity", "category", "timeline"} {
		assert.Contains(t, p, field)
	}
}

func TestBuild_Deterministic(t *testing.T) {
	end := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	start := end.AddDate(0, 0, -7)
	assert.Equal(t, Build("Globex", start, end), Build("Globex", start, end))
}

func TestBuild_UnboundedWindow(t *testing.T) {
	end := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	p := Build("Initech", time.Time{}, end)
	assert.Contains(t, p, "all available history up to 2026-01-02")
	assert.NotContains(t, p, "0001-01-01")
}

func TestWithEvidence(t *testing.T) {
	base := "PROMPT"
	assert.Equal(t, base, WithEvidence(base, nil))

	long := strings.Repeat("x", maxEvidenceChars+100)
	out := WithEvidence(base, []model.Article{
		{Title: "Regulator fines Acme", Link: "https://news.example/a", Source: "Reuters", PubDate: "2026-10-01", Content: long},
	})
	assert.True(t, strings.HasPrefix(out, base))
	assert.Contains(t, out, "Title: Regulator fines Acme")
	assert.Contains(t, out, "URL: https://news.example/a")
	assert.NotContains(t, out, long)
	assert.True(t, strings.HasSuffix(out, "Return ONLY valid JSON, no markdown."))
}

func TestWithEvidence_KeepsUTF8Valid(t *testing.T) {
	content := "a" + strings.Repeat("中", maxEvidenceChars)
	out := WithEvidence("PROMPT", []model.Article{{Title: "中文报道", Content: content}})
	assert.True(t, utf8.ValidString(out))
	assert.Contains(t, out, "Content: a"+strings.Repeat("中", (maxEvidenceChars-1)/3)+"\n")
}
