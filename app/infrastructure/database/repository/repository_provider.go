package repository

import (
	"github.com/google/wire"

	"github.com/devportal-io/portal-api/app/infrastructure/database/repository/apikeyrepo"
	"github.com/devportal-io/portal-api/app/infrastructure/database/repository/codereporepo"
	"github.com/devportal-io/portal-api/app/infrastructure/database/repository/impersonationrepo"
	"github.com/devportal-io/portal-api/app/infrastructure/database/repository/invitationrepo"
	"github.com/devportal-io/portal-api/app/infrastructure/database/repository/membershiprepo"
	"github.com/devportal-io/portal-api/app/infrastructure/database/repository/projectrepo"
	"github.com/devportal-io/portal-api/app/infrastructure/database/repository/userrepo"
)

var RepositoryProvider = wire.NewSet(
	userrepo.NewUserGormRepository,
	projectrepo.NewProjectGormRepository,
	codereporepo.NewCodeRepoGormRepository,
	invitationrepo.NewInvitationGormRepository,
	membershiprepo.NewMembershipGormRepository,
	impersonationrepo.NewImpersonationRecordGormRepository,
	apikeyrepo.NewApiKeyGormRepository,
)
