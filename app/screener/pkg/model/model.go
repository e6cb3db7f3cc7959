package model

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// DefaultRangeDays 未指定或无法解析时的回溯天数
const DefaultRangeDays = 30

// Severity 风险等级
type Severity string

const (
	SeverityCritical Severity = "Critical"
	SeverityHigh     Severity = "High"
	SeverityMedium   Severity = "Medium"
	SeverityLow      Severity = "Low"
)

// Severities 全部合法等级，按从高到低排列
var Severities = []Severity{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow}

// IsElevated 是否为高风险 (Critical / High)
func (s Severity) IsElevated() bool {
	return s == SeverityCritical || s == SeverityHigh
}

// Category 负面新闻分类
type Category string

const (
	CategoryRegulatory        Category = "Regulatory"
	CategoryLegal             Category = "Legal"
	CategoryFraud             Category = "Fraud"
	CategoryCorruption        Category = "Corruption"
	CategoryMoneyLaundering   Category = "MoneyLaundering"
	CategorySanctions         Category = "Sanctions"
	CategoryReputational      Category = "Reputational"
	CategoryESG               Category = "ESG"
	CategoryFinancialDistress Category = "FinancialDistress"
	CategoryOther             Category = "Other"
)

// Categories 全部合法分类
var Categories = []Category{
	CategoryRegulatory,
	CategoryLegal,
	CategoryFraud,
	CategoryCorruption,
	CategoryMoneyLaundering,
	CategorySanctions,
	CategoryReputational,
	CategoryESG,
	CategoryFinancialDistress,
	CategoryOther,
}

// DateRange 回溯窗口，取值 "7" / "30" / "90" / "365" / "all"
// JSON 中既可以是字符串也可以是数字
type DateRange string

// RangeAll 不设下限
const RangeAll DateRange = "all"

// UnmarshalJSON 同时接受字符串和数字
func (r *DateRange) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*r = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*r = DateRange(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*r = DateRange(n.String())
	return nil
}

// IsAll 是否为不限时间
func (r DateRange) IsAll() bool {
	return strings.EqualFold(strings.TrimSpace(string(r)), string(RangeAll))
}

// Days 解析天数，非法值回退到 DefaultRangeDays
func (r DateRange) Days() int {
	n, err := strconv.Atoi(strings.TrimSpace(string(r)))
	if err != nil || n <= 0 {
		return DefaultRangeDays
	}
	return n
}

// String 用于回显，空值回显默认天数
func (r DateRange) String() string {
	if r.IsAll() {
		return string(RangeAll)
	}
	if strings.TrimSpace(string(r)) == "" {
		return strconv.Itoa(DefaultRangeDays)
	}
	return string(r)
}

// Window 根据 now 计算提示词中展示的时间窗口，start 为零值表示不设下限
func (r DateRange) Window(now time.Time) (start, end time.Time) {
	end = now
	if r.IsAll() {
		return time.Time{}, end
	}
	return now.AddDate(0, 0, -r.Days()), end
}

// ReportRequest 报告生成请求
type ReportRequest struct {
	EntityName string    `json:"entityName"`
	DateRange  DateRange `json:"dateRange"`
}

// Finding 单条负面新闻
type Finding struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Date        string   `json:"date"`
	Source      string   `json:"source"`
	Severity    Severity `json:"severity"`
	Category    Category `json:"category"`
}

// NextStep 建议的合规动作
type NextStep struct {
	Action      string   `json:"action"`
	Priority    Severity `json:"priority"`
	Description string   `json:"description"`
	Timeline    string   `json:"timeline"`
}

// RiskAssessment 整体风险评估
type RiskAssessment struct {
	Level          Severity `json:"level"`
	Summary        string   `json:"summary"`
	Recommendation string   `json:"recommendation"`
}

// Report 负面新闻筛查报告
type Report struct {
	ID                    string         `json:"id,omitempty"`
	EntityName            string         `json:"entityName"`
	DateRange             string         `json:"dateRange"`
	SearchDate            string         `json:"searchDate"`
	FindingsCount         int            `json:"findingsCount"`
	Findings              []Finding      `json:"findings"`
	NextSteps             []NextStep     `json:"nextSteps"`
	OverallRiskAssessment RiskAssessment `json:"overallRiskAssessment"`
}

// Article 检索到的新闻证据
type Article struct {
	Title   string
	Link    string
	Source  string
	PubDate string
	Content string // 仅用于拼接提示词
}
