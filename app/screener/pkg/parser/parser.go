// Package parser 从模型回复中提取 JSON 结果
package parser

import (
	"encoding/json"
	"fmt"
	"regexp"
)

// jsonBlock 从第一个 { 或 [ 贪婪匹配到最后一个 } 或 ]
// 字符串值中的括号不做特殊处理
var jsonBlock = regexp.MustCompile(`\{[\s\S]*\}|\[[\s\S]*\]`)

// Result 解析后的原始结构，字段类型未校验
type Result struct {
	Findings              []any
	NextSteps             []any
	OverallRiskAssessment any // 缺失时为 nil
}

// ParseError 模型回复无法解析为 JSON
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse ai response: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Parse 先尝试提取嵌入的 JSON 片段，失败后再直接解析原文
func Parse(raw string) (*Result, error) {
	var lastErr error
	if block := jsonBlock.FindString(raw); block != "" {
		res, err := decode(block)
		if err == nil {
			return res, nil
		}
		lastErr = err
	}

	res, err := decode(raw)
	if err == nil {
		return res, nil
	}
	if lastErr == nil {
		lastErr = err
	}
	return nil, &ParseError{Raw: raw, Err: lastErr}
}

func decode(text string) (*Result, error) {
	var v any
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		return nil, err
	}

	res := &Result{Findings: []any{}, NextSteps: []any{}}
	switch x := v.(type) {
	case []any:
		// 裸数组视为 findings
		res.Findings = x
	case map[string]any:
		if arr, ok := x["findings"].([]any); ok {
			res.Findings = arr
		}
		if arr, ok := x["nextSteps"].([]any); ok {
			res.NextSteps = arr
		}
		res.OverallRiskAssessment = x["overallRiskAssessment"]
	}
	return res, nil
}
