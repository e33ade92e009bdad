package contact

import (
	"github.com/hopelink/hopelink/internal/contact/repository"
	"github.com/hopelink/hopelink/internal/contact/service"
	"go.uber.org/fx"
)

var Module = fx.Module("contact.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
