package payment

import (
	"github.com/paylane/paylane/internal/payment/repository"
	"github.com/paylane/paylane/internal/payment/service"
	"go.uber.org/fx"
)

var Module = fx.Module("payment.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
