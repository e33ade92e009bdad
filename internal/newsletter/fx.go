package newsletter

import (
	"github.com/hopelink/hopelink/internal/newsletter/repository"
	"github.com/hopelink/hopelink/internal/newsletter/service"
	"go.uber.org/fx"
)

var Module = fx.Module("newsletter.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
