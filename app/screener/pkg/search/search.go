package search

import (
	"context"
	"fmt"
)

// Searcher 定义通用的搜索接口
type Searcher interface {
	Search(ctx context.Context, req *Request) (*Response, error)
}

// Request 通用搜索请求
type Request struct {
	Query             string
	Topic             string // "news" or "general"
	MaxResults        int
	IncludeRawContent bool
	StartDate         string // YYYY-MM-DD，为空表示不限
	EndDate           string // YYYY-MM-DD
}

// Response 通用搜索响应
type Response struct {
	Results []Result
}

// Result 单条搜索结果
type Result struct {
	Title         string
	URL           string
	Content       string
	RawContent    string
	Score         float64
	PublishedDate string
}

// AdverseMediaQuery 针对实体的负面新闻检索词
func AdverseMediaQuery(entityName string) string {
	return fmt.Sprintf(`"%s" fraud OR lawsuit OR investigation OR fine OR sanctions OR bribery OR "money laundering"`, entityName)
}
