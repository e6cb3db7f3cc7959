package llm

import (
	"errors"
	"fmt"
)

// ErrNotConfigured 未配置 API 密钥
var ErrNotConfigured = errors.New("llm api key not configured")

// UpstreamError 补全接口返回非 2xx
type UpstreamError struct {
	StatusCode int
	Body       []byte
}

func (e *UpstreamError) Error() string {
	const max = 512
	body := e.Body
	if len(body) > max {
		body = body[:max]
	}
	return fmt.Sprintf("llm api error (status %d): %s", e.StatusCode, string(body))
}

// TransportError 网络层失败：超时、DNS、连接重置等
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return fmt.Sprintf("llm request failed: %v", e.Err) }
func (e *TransportError) Unwrap() error { return e.Err }
