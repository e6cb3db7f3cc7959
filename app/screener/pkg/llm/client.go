// Package llm 封装 OpenAI 兼容的 chat completion 调用
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/iWorld-y/adverse_media/app/screener/pkg/logger"
)

// DefaultTimeout 单次调用超时
const DefaultTimeout = 120 * time.Second

// emptyContent 模型未返回内容时按无 findings 处理
const emptyContent = "[]"

// Config 客户端配置，由调用方显式注入
type Config struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
	// Transport 为空时使用 http.DefaultTransport
	Transport http.RoundTripper
}

// Options 单次调用的模型参数
type Options struct {
	Model       string
	Temperature float32
	MaxTokens   int
}

// Request 补全请求
type Request struct {
	Prompt       string
	SystemPrompt string
	Options      Options
}

// Client 补全客户端，不做重试
type Client struct {
	chat  model.BaseChatModel
	model string
}

// NewClient 创建客户端；APIKey 为空时仍返回客户端，调用时报 ErrNotConfigured
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return &Client{model: cfg.Model}, nil
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	base := cfg.Transport
	if base == nil {
		base = http.DefaultTransport
	}

	chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		BaseURL: cfg.BaseURL,
		APIKey:  cfg.APIKey,
		Model:   cfg.Model,
		HTTPClient: &http.Client{
			Timeout:   timeout,
			Transport: &captureTransport{base: base},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("init chat model: %w", err)
	}

	return &Client{chat: chatModel, model: cfg.Model}, nil
}

// Ready 未配置密钥时返回 ErrNotConfigured
func (c *Client) Ready() error {
	if c == nil || c.chat == nil {
		return ErrNotConfigured
	}
	return nil
}

// Complete 发起一次补全，返回 choices[0].message.content
func (c *Client) Complete(ctx context.Context, req Request) (string, error) {
	if err := c.Ready(); err != nil {
		return "", err
	}

	capt := &capture{}
	ctx = withCapture(ctx, capt)

	messages := []*schema.Message{
		schema.SystemMessage(req.SystemPrompt),
		schema.UserMessage(req.Prompt),
	}
	opts := []model.Option{model.WithTemperature(req.Options.Temperature)}
	if req.Options.Model != "" {
		opts = append(opts, model.WithModel(req.Options.Model))
	}
	if req.Options.MaxTokens > 0 {
		opts = append(opts, model.WithMaxTokens(req.Options.MaxTokens))
	}

	start := time.Now()
	resp, err := c.chat.Generate(ctx, messages, opts...)
	logger.Log.Debugf("llm call finished in %s (status %d)", time.Since(start), capt.status)

	switch {
	case capt.err != nil:
		return "", &TransportError{Err: capt.err}
	case capt.seen && !capt.ok():
		logger.Log.Warnf("llm api returned status %d", capt.status)
		return "", &UpstreamError{StatusCode: capt.status, Body: capt.body}
	case err != nil && capt.seen:
		// 2xx 但 eino 无法构造消息，例如 choices 为空
		content, derr := contentOf(capt.body)
		if derr != nil {
			return "", &TransportError{Err: fmt.Errorf("decode completion: %w", err)}
		}
		return content, nil
	case err != nil:
		return "", &TransportError{Err: err}
	}

	if resp == nil || strings.TrimSpace(resp.Content) == "" {
		return emptyContent, nil
	}
	return resp.Content, nil
}

type completionBody struct {
	Choices []struct {
		Message struct {
			Content *string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func contentOf(body []byte) (string, error) {
	var out completionBody
	if err := json.Unmarshal(body, &out); err != nil {
		return "", err
	}
	if len(out.Choices) == 0 || out.Choices[0].Message.Content == nil || strings.TrimSpace(*out.Choices[0].Message.Content) == "" {
		return emptyContent, nil
	}
	return *out.Choices[0].Message.Content, nil
}
