//go:build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/devportal-io/portal-api/app/domain"
	"github.com/devportal-io/portal-api/app/infrastructure"
	"github.com/devportal-io/portal-api/app/infrastructure/database/repository"
	"github.com/devportal-io/portal-api/app/interfaces/http"
	"github.com/devportal-io/portal-api/app/interfaces/http/routes"
)

func CreateApplication() (*Application, error) {
	wire.Build(
		infrastructure.InfrastructureProvider,
		repository.RepositoryProvider,
		domain.ServiceProvider,
		routes.RouteProvider,
		http.NewHttpServer,
		NewDataInitializer,
		wire.Struct(new(Application), "*"),
	)
	return nil, nil
}
