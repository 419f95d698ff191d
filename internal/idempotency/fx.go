package idempotency

import (
	"github.com/paylane/paylane/internal/idempotency/repository"
	"github.com/paylane/paylane/internal/idempotency/service"
	"go.uber.org/fx"
)

var Module = fx.Module("idempotency.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
