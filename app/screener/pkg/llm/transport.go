package llm

import (
	"bytes"
	"context"
	"io"
	"net/http"
)

type captureKey struct{}

// capture 记录单次调用的上游响应，随 context 传递，并发调用互不影响
type capture struct {
	seen   bool
	status int
	body   []byte
	err    error
}

func (c *capture) ok() bool {
	return c.status >= 200 && c.status < 300
}

func withCapture(ctx context.Context, c *capture) context.Context {
	return context.WithValue(ctx, captureKey{}, c)
}

func captureFrom(ctx context.Context) *capture {
	c, _ := ctx.Value(captureKey{}).(*capture)
	return c
}

// captureTransport 读出响应体并回填，使状态码和原始 body 对调用方可见
type captureTransport struct {
	base http.RoundTripper
}

func (t *captureTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	capt := captureFrom(req.Context())
	resp, err := t.base.RoundTrip(req)
	if capt == nil {
		return resp, err
	}
	if err != nil {
		capt.err = err
		return nil, err
	}

	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		capt.err = err
		return nil, err
	}

	capt.seen = true
	capt.status = resp.StatusCode
	capt.body = body
	resp.Body = io.NopCloser(bytes.NewReader(body))
	resp.ContentLength = int64(len(body))
	return resp, nil
}
