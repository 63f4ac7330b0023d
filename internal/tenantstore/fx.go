package tenantstore

import (
	"github.com/empresia/walletadmin/internal/tenantstore/repository"
	"github.com/empresia/walletadmin/internal/tenantstore/service"
	"go.uber.org/fx"
)

var Module = fx.Module("tenantstore.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
