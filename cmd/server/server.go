package main

import (
	"context"

	"github.com/mileusna/crontab"

	"github.com/devportal-io/portal-api/app/domain/cron"
	"github.com/devportal-io/portal-api/app/interfaces/http"
	"github.com/devportal-io/portal-api/config/environment_variables"
)

type Application struct {
	HttpServer      *http.HttpServer
	CronService     *cron.CronService
	DataInitializer *DataInitializer
}

func (application *Application) Start() {
	if err := application.HttpServer.Run(); err != nil {
		panic(err)
	}
}

func init() {
	environment_variables.EnvironmentVariables.LoadFromEnv()
}

func main() {
	application, err := CreateApplication()
	if err != nil {
		panic(err)
	}
	ctx := context.Background()
	if err := application.DataInitializer.Install(ctx); err != nil {
		panic(err)
	}
	ctab := crontab.New()
	application.CronService.Start(ctx, ctab)
	application.Start()
}
