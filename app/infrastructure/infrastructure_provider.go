package infrastructure

import (
	"github.com/google/wire"

	"github.com/devportal-io/portal-api/app/infrastructure/cache"
	"github.com/devportal-io/portal-api/app/infrastructure/database"
)

var InfrastructureProvider = wire.NewSet(
	database.NewDB,
	cache.NewCacheService,
)
