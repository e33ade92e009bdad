package auth

import (
	"github.com/hopelink/hopelink/internal/auth/repository"
	"github.com/hopelink/hopelink/internal/auth/service"
	"github.com/hopelink/hopelink/internal/auth/session"
	"go.uber.org/fx"
)

var Module = fx.Module("auth.service",
	session.Module,
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
