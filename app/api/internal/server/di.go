package server

import (
	"github.com/google/wire"

	"github.com/iWorld-y/adverse_media/app/api/internal/data"
	"github.com/iWorld-y/adverse_media/app/api/internal/service"
	"github.com/iWorld-y/adverse_media/app/api/internal/usecase"
	"github.com/iWorld-y/adverse_media/app/screener/pkg/engine"
)

// ProviderSet 是筛查服务的依赖注入 Provider 集合
var ProviderSet = wire.NewSet(
	// Server providers
	NewHTTPServer,
	NewEngine,

	// Data providers
	data.NewData,
	data.NewReportRepo,

	// UseCase providers
	usecase.NewReportUseCase,
	wire.Bind(new(usecase.Generator), new(*engine.Engine)),

	// Service providers
	service.NewScreeningService,
)
