package repository

import (
	"github.com/deppfellow/netanomics/internal/server"
)

type Repositories struct {
	Constituencies *ConstituencyRepository
	Projects       *ProjectRepository
	Insights       *InsightRepository
}

func NewRepositories(s *server.Server) *Repositories {
	return &Repositories{
		Constituencies: NewConstituencyRepository(s),
		Projects:       NewProjectRepository(s),
		Insights:       NewInsightRepository(s),
	}
}
