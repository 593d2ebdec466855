package handler

import (
	"github.com/deppfellow/netanomics/internal/server"
	"github.com/deppfellow/netanomics/internal/service"
)

type Handlers struct {
	Health       *HealthHandler
	OpenAPI      *OpenAPIHandler
	Constituency *ConstituencyHandler
	Analysis     *AnalysisHandler
	Process      *ProcessHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:       NewHealthHandler(s),
		OpenAPI:      NewOpenAPIHandler(s),
		Constituency: NewConstituencyHandler(s, services.Constituency),
		Analysis:     NewAnalysisHandler(s, services.Insight, services.Legal, services.Budget),
		Process:      NewProcessHandler(s, services.Processor, services.Job, services.Audit),
	}
}
