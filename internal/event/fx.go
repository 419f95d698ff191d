package event

import (
	"github.com/paylane/paylane/internal/event/repository"
	"github.com/paylane/paylane/internal/event/service"
	"go.uber.org/fx"
)

var Module = fx.Module("event.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
