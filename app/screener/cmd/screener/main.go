package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/iWorld-y/adverse_media/app/screener/pkg/config"
	"github.com/iWorld-y/adverse_media/app/screener/pkg/engine"
	"github.com/iWorld-y/adverse_media/app/screener/pkg/logger"
	"github.com/iWorld-y/adverse_media/app/screener/pkg/model"
	"github.com/iWorld-y/adverse_media/app/screener/pkg/render"
)

var (
	flagconf   string
	flagEntity string
	flagRange  string
	flagFormat string
	flagOut    string
)

func init() {
	flag.StringVar(&flagconf, "conf", "configs/config.yaml", "config path, eg: -conf config.yaml")
	flag.StringVar(&flagEntity, "entity", "", "entity name to screen, eg: -entity \"Acme Corp\"")
	flag.StringVar(&flagRange, "range", "30", "look-back window in days, or all")
	flag.StringVar(&flagFormat, "format", "json", "output format: json or html")
	flag.StringVar(&flagOut, "out", "", "output file, stdout when empty")
}

// degradedReport 模型输出无法解析时的输出
type degradedReport struct {
	Findings              []model.Finding  `json:"findings"`
	NextSteps             []model.NextStep `json:"nextSteps"`
	OverallRiskAssessment any              `json:"overallRiskAssessment"`
	Error                 string           `json:"error"`
	RawResponse           string           `json:"rawResponse"`
}

func main() {
	flag.Parse()

	// 1. 加载配置
	cfg, err := config.LoadConfig(flagconf)
	if err != nil {
		log.Fatalf("无法加载配置文件: %v", err)
	}
	if key := os.Getenv("DEEPSEEK_API_KEY"); key != "" {
		cfg.LLM.APIKey = key
	}

	// 2. 初始化日志
	if err = logger.InitLogger(cfg.Log.Level, cfg.Log.File); err != nil {
		log.Fatalf("无法初始化日志: %v", err)
	}

	if strings.TrimSpace(flagEntity) == "" {
		logger.Log.Fatal("配置错误: 未设置 -entity")
	}
	if flagFormat != "json" && flagFormat != "html" {
		logger.Log.Fatalf("不支持的输出格式: %s", flagFormat)
	}

	// 3. 初始化引擎
	eng, err := engine.NewEngine(cfg)
	if err != nil {
		logger.Log.Fatalf("引擎初始化失败: %v", err)
	}

	logger.Log.Infof("开始筛查 [%s]，回溯窗口 %s", flagEntity, flagRange)
	report, err := eng.Generate(context.Background(), model.ReportRequest{
		EntityName: flagEntity,
		DateRange:  model.DateRange(flagRange),
	})

	var degraded *engine.DegradedError
	switch {
	case errors.As(err, &degraded):
		logger.Log.Warn("模型输出无法解析，输出原始内容")
		err = write(func(w io.Writer) error {
			return render.JSON(w, degradedReport{
				Findings:    []model.Finding{},
				NextSteps:   []model.NextStep{},
				Error:       "Failed to parse AI response",
				RawResponse: degraded.Raw,
			})
		})
	case err != nil:
		logger.Log.Fatalf("报告生成失败: %v", err)
	case flagFormat == "html":
		err = write(func(w io.Writer) error { return render.HTML(w, report) })
	default:
		err = write(func(w io.Writer) error { return render.JSON(w, report) })
	}
	if err != nil {
		logger.Log.Fatalf("输出报告失败: %v", err)
	}

	if flagOut != "" {
		logger.Log.Infof("✅ 筛查报告已生成: %s", flagOut)
	}
}

func write(fn func(w io.Writer) error) error {
	if flagOut == "" {
		return fn(os.Stdout)
	}
	if err := os.MkdirAll(filepath.Dir(flagOut), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	f, err := os.Create(flagOut)
	if err != nil {
		return err
	}
	defer f.Close()
	return fn(f)
}
