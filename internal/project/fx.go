package project

import (
	"github.com/hopelink/hopelink/internal/project/repository"
	"github.com/hopelink/hopelink/internal/project/service"
	"go.uber.org/fx"
)

var Module = fx.Module("project.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
