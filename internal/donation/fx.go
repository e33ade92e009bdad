package donation

import (
	"github.com/hopelink/hopelink/internal/donation/repository"
	"github.com/hopelink/hopelink/internal/donation/service"
	"go.uber.org/fx"
)

var Module = fx.Module("donation.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
