package main

import (
	"context"

	"github.com/devportal-io/portal-api/app/domain/user"
	"github.com/devportal-io/portal-api/app/utils/logger"
	"github.com/devportal-io/portal-api/config/environment_variables"
)

type DataInitializer struct {
	userService *user.UserService
}

func NewDataInitializer(userService *user.UserService) *DataInitializer {
	return &DataInitializer{
		userService: userService,
	}
}

func (d *DataInitializer) Install(ctx context.Context) error {
	return d.installSuperAdmin(ctx)
}

// installSuperAdmin bootstraps the superadmin account from the environment on
// first boot. Subsequent boots find the existing account and do nothing.
func (d *DataInitializer) installSuperAdmin(ctx context.Context) error {
	envs := environment_variables.EnvironmentVariables
	if envs.SUPERADMIN_USERNAME == "" || envs.SUPERADMIN_PASSWORD == "" {
		logger.GetLogger().Warn("superadmin credentials not configured, skipping bootstrap")
		return nil
	}
	existing, err := d.userService.FindByUsername(ctx, envs.SUPERADMIN_USERNAME)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}
	_, err = d.userService.RegisterUser(ctx, &user.User{
		Username: envs.SUPERADMIN_USERNAME,
		Email:    envs.SUPERADMIN_EMAIL,
		Name:     "Portal Superadmin",
		Role:     user.RoleSuperAdmin,
		Enabled:  true,
	}, envs.SUPERADMIN_PASSWORD)
	return err
}
