// Package normalize 为模型输出补齐默认值并推导整体风险
package normalize

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/iWorld-y/adverse_media/app/screener/pkg/model"
	"github.com/iWorld-y/adverse_media/app/screener/pkg/parser"
)

const (
	DefaultTitle       = "No title"
	DefaultSource      = "Unknown"
	DefaultAction      = "Review Required"
	DefaultTimeline    = "As soon as possible"
	DefaultSeverity    = model.SeverityMedium
	DefaultCategory    = model.CategoryOther
	summaryNoFindings  = "No significant adverse media findings identified."
	summaryTemplate    = "Found %d adverse media finding(s). %d high or critical risk item(s) identified."
	recommendNone      = "No additional due diligence required based on adverse media screening."
	recommendFollowUps = "Review findings and conduct appropriate due diligence based on risk level."
)

// Normalized 补齐后的结果
type Normalized struct {
	Findings   []model.Finding
	NextSteps  []model.NextStep
	Assessment model.RiskAssessment
}

// Normalize 不会失败：任何缺失或类型错误的字段都回退到默认值
func Normalize(res *parser.Result, now time.Time) Normalized {
	out := Normalized{
		Findings:  []model.Finding{},
		NextSteps: []model.NextStep{},
	}
	if res == nil {
		out.Assessment = DeriveAssessment(out.Findings)
		return out
	}

	today := now.Format(time.DateOnly)
	for _, item := range res.Findings {
		out.Findings = append(out.Findings, Finding(asObject(item), today))
	}
	for _, item := range res.NextSteps {
		out.NextSteps = append(out.NextSteps, NextStep(asObject(item)))
	}

	derived := DeriveAssessment(out.Findings)
	if obj, ok := res.OverallRiskAssessment.(map[string]any); ok {
		out.Assessment = model.RiskAssessment{
			Level:          severity(obj["level"], derived.Level),
			Summary:        str(obj["summary"], derived.Summary),
			Recommendation: str(obj["recommendation"], derived.Recommendation),
		}
	} else {
		out.Assessment = derived
	}
	return out
}

// Finding 补齐单条 finding
func Finding(obj map[string]any, today string) model.Finding {
	return model.Finding{
		Title:       str(obj["title"], DefaultTitle),
		Description: str(obj["description"], ""),
		Date:        str(obj["date"], today),
		Source:      str(obj["source"], DefaultSource),
		Severity:    severity(obj["severity"], DefaultSeverity),
		Category:    category(obj["category"], DefaultCategory),
	}
}

// NextStep 补齐单条建议
func NextStep(obj map[string]any) model.NextStep {
	return model.NextStep{
		Action:      str(obj["action"], DefaultAction),
		Priority:    severity(obj["priority"], DefaultSeverity),
		Description: str(obj["description"], ""),
		Timeline:    str(obj["timeline"], DefaultTimeline),
	}
}

// DeriveAssessment 模型未给出整体评估时按 findings 推导
func DeriveAssessment(findings []model.Finding) model.RiskAssessment {
	elevated := 0
	for _, f := range findings {
		if f.Severity.IsElevated() {
			elevated++
		}
	}

	ra := model.RiskAssessment{Level: model.SeverityMedium}
	if elevated > 0 {
		ra.Level = model.SeverityHigh
	}
	if len(findings) == 0 {
		ra.Summary = summaryNoFindings
		ra.Recommendation = recommendNone
	} else {
		ra.Summary = fmt.Sprintf(summaryTemplate, len(findings), elevated)
		ra.Recommendation = recommendFollowUps
	}
	return ra
}

func asObject(v any) map[string]any {
	if obj, ok := v.(map[string]any); ok {
		return obj
	}
	return map[string]any{}
}

// str 只有 nil 才回退，空字符串保留
func str(v any, def string) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case json.Number:
		return x.String()
	case bool:
		return strconv.FormatBool(x)
	default:
		return def
	}
}

func canonical(s string) string {
	r := strings.NewReplacer(" ", "", "_", "", "-", "", "/", "", "&", "")
	return strings.ToLower(r.Replace(strings.TrimSpace(s)))
}

func severity(v any, def model.Severity) model.Severity {
	s, ok := v.(string)
	if !ok {
		return def
	}
	key := canonical(s)
	for _, sev := range model.Severities {
		if canonical(string(sev)) == key {
			return sev
		}
	}
	return def
}

var categoryAliases = map[string]model.Category{
	"aml":        model.CategoryMoneyLaundering,
	"insolvency": model.CategoryFinancialDistress,
	"bankruptcy": model.CategoryFinancialDistress,
	"bribery":    model.CategoryCorruption,
	"litigation": model.CategoryLegal,
	"reputation": model.CategoryReputational,
	"sanction":   model.CategorySanctions,
}

func category(v any, def model.Category) model.Category {
	s, ok := v.(string)
	if !ok {
		return def
	}
	key := canonical(s)
	for _, c := range model.Categories {
		if canonical(string(c)) == key {
			return c
		}
	}
	if c, ok := categoryAliases[key]; ok {
		return c
	}
	return def
}
