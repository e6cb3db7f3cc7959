package server

import (
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/middleware/logging"
	"github.com/go-kratos/kratos/v2/middleware/recovery"
	"github.com/go-kratos/kratos/v2/transport/http"

	"github.com/iWorld-y/adverse_media/app/api/internal/conf"
	"github.com/iWorld-y/adverse_media/app/api/internal/service"
)

// 一次筛查包含模型调用，默认超时需覆盖上游的 120s
const defaultTimeout = 180 * time.Second

func NewHTTPServer(c *conf.Server, s *service.ScreeningService, logger log.Logger) *http.Server {
	timeout := defaultTimeout
	var opts = []http.ServerOption{
		http.Middleware(
			recovery.Recovery(),
			logging.Server(logger),
		),
	}
	if c != nil && c.Http != nil {
		if c.Http.Addr != "" {
			opts = append(opts, http.Address(c.Http.Addr))
		}
		if c.Http.Timeout != "" {
			if d, err := time.ParseDuration(c.Http.Timeout); err == nil {
				timeout = d
			}
		}
	}
	opts = append(opts, http.Timeout(timeout))

	srv := http.NewServer(opts...)
	RegisterScreeningHTTPServer(srv, s)
	return srv
}

// RegisterScreeningHTTPServer 注册筛查服务路由
func RegisterScreeningHTTPServer(srv *http.Server, s *service.ScreeningService) {
	r := srv.Route("/")
	r.POST("/adverse-media-report", s.CreateReport)
	r.GET("/adverse-media-reports", s.ListReports)
	r.GET("/adverse-media-reports/{id}", s.GetReport)
	r.GET("/adverse-media-reports/{id}/html", s.GetReportHTML)
	r.GET("/healthz", s.Healthz)
}
