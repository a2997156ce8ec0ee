package auth

import (
	"embed"

	"github.com/cmdvault/cmdvault/modules/auth/infrastructure/persistence"
	"github.com/cmdvault/cmdvault/modules/auth/presentation/controllers"
	"github.com/cmdvault/cmdvault/modules/auth/services"
	"github.com/cmdvault/cmdvault/pkg/application"
)

//go:embed infrastructure/persistence/schema/auth-schema.sql
var migrationFiles embed.FS

func NewModule() application.Module {
	return &Module{}
}

type Module struct{}

func (m *Module) Register(app application.Application) error {
	app.Migrations().RegisterSchema(&migrationFiles)

	app.RegisterServices(
		services.NewAuthService(persistence.NewUserRepository()),
	)

	app.RegisterControllers(
		controllers.NewAuthController(app),
	)

	return nil
}

func (m *Module) Name() string {
	return "auth"
}
