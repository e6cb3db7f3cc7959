package conf

type Bootstrap struct {
	Server    *Server
	Data      *Data
	Screening *Screening
}

type Server struct {
	Http *HTTP
}

type HTTP struct {
	Addr    string
	Timeout string
}

type Data struct {
	Database *Database
}

type Database struct {
	Driver string
	Source string
}

// Screening 负面新闻筛查引擎配置
type Screening struct {
	Llm         *LLM         `json:"llm"`
	Search      *Search      `json:"search"`
	Evidence    *Evidence    `json:"evidence"`
	Log         *Log         `json:"log"`
	Concurrency *Concurrency `json:"concurrency"`
	Cache       *Cache       `json:"cache"`
}

type LLM struct {
	BaseUrl     string   `json:"base_url"`
	ApiKey      string   `json:"api_key"`
	Model       string   `json:"model"`
	Temperature *float32 `json:"temperature"`
	MaxTokens   int32    `json:"max_tokens"`
	Timeout     int32    `json:"timeout"`
}

type Search struct {
	Provider string   `json:"provider"`
	Tavily   *Tavily  `json:"tavily"`
	Searxng  *SearXNG `json:"searxng"`
}

type Tavily struct {
	ApiKey  string `json:"api_key"`
	BaseUrl string `json:"base_url"`
}

type SearXNG struct {
	BaseUrl string `json:"base_url"`
	Timeout int32  `json:"timeout"`
}

type Evidence struct {
	MaxResults  int32 `json:"max_results"`
	MaxArticles int32 `json:"max_articles"`
	MaxChars    int32 `json:"max_chars"`
	FetchFull   bool  `json:"fetch_full"`
	Timeout     int32 `json:"timeout"`
}

type Log struct {
	Level string `json:"level"`
	File  string `json:"file"`
}

type Concurrency struct {
	Qps int32 `json:"qps"`
	Rpm int32 `json:"rpm"`
}

// Cache 结果缓存，Size 为 0 时关闭
type Cache struct {
	Size int32  `json:"size"`
	Ttl  string `json:"ttl"`
}
