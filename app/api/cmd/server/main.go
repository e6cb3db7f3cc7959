package main

import (
	"flag"
	"os"

	"github.com/go-kratos/kratos/v2/config"
	"github.com/go-kratos/kratos/v2/config/file"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/joho/godotenv"

	"github.com/iWorld-y/adverse_media/app/api/internal/conf"
)

// go build -ldflags "-X main.Version=x.y.z"
var (
	// Name 是服务的名称
	Name string = "adverse-media-api"
	// Version 是服务的版本号
	Version string
	// flagconf 是配置文件的路径命令行参数
	flagconf string

	id, _ = os.Hostname()
)

func init() {
	flag.StringVar(&flagconf, "conf", "app/api/configs/config.yaml", "config path, eg: -conf config.yaml")
}

func main() {
	flag.Parse()
	// 初始化日志记录器，包含时间戳、调用者信息、服务ID等上下文
	logger := log.With(log.NewStdLogger(os.Stdout),
		"ts", log.DefaultTimestamp,
		"caller", log.DefaultCaller,
		"service.id", id,
		"service.name", Name,
		"service.version", Version,
	)

	// .env 可选
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.NewHelper(logger).Warnf("failed to load .env: %v", err)
	}

	// 初始化配置加载器
	c := config.New(
		config.WithSource(
			file.NewSource(flagconf),
		),
	)
	defer c.Close()

	if err := c.Load(); err != nil {
		panic(err)
	}

	// 扫描配置到 Bootstrap 结构体
	var bc conf.Bootstrap
	if err := c.Scan(&bc); err != nil {
		panic(err)
	}
	applyEnv(&bc)

	app, cleanup, err := initApp(bc.Server, bc.Data, bc.Screening, logger)
	if err != nil {
		panic(err)
	}
	defer cleanup()

	if err := app.Run(); err != nil {
		panic(err)
	}
}

// applyEnv 环境变量中的密钥优先于配置文件
func applyEnv(bc *conf.Bootstrap) {
	if bc.Screening == nil {
		bc.Screening = &conf.Screening{}
	}
	if bc.Screening.Llm == nil {
		bc.Screening.Llm = &conf.LLM{}
	}
	if key := os.Getenv("DEEPSEEK_API_KEY"); key != "" {
		bc.Screening.Llm.ApiKey = key
	}
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		if bc.Data == nil {
			bc.Data = &conf.Data{}
		}
		if bc.Data.Database == nil {
			bc.Data.Database = &conf.Database{}
		}
		bc.Data.Database.Source = dsn
	}
}
