package catalog

import (
	"embed"

	"github.com/cmdvault/cmdvault/modules/catalog/infrastructure/persistence"
	"github.com/cmdvault/cmdvault/modules/catalog/presentation/controllers"
	"github.com/cmdvault/cmdvault/modules/catalog/services"
	"github.com/cmdvault/cmdvault/pkg/application"
)

//go:embed infrastructure/persistence/schema/catalog-schema.sql
var migrationFiles embed.FS

func NewModule() application.Module {
	return &Module{}
}

type Module struct{}

func (m *Module) Register(app application.Application) error {
	app.Migrations().RegisterSchema(&migrationFiles)

	vendorRepo := persistence.NewVendorRepository()
	platformRepo := persistence.NewPlatformRepository()
	tagRepo := persistence.NewTagRepository()
	commandRepo := persistence.NewCommandRepository()

	tagService := services.NewTagService(tagRepo)
	app.RegisterServices(
		services.NewVendorService(vendorRepo),
		services.NewPlatformService(platformRepo, vendorRepo),
		tagService,
		services.NewCommandService(commandRepo, vendorRepo, platformRepo, tagRepo),
		services.NewIngestService(vendorRepo, tagService, commandRepo, services.NewSheetParser(), app.EventPublisher()),
	)

	app.RegisterControllers(
		controllers.NewVendorsController(app),
		controllers.NewPlatformsController(app),
		controllers.NewTagsController(app),
		controllers.NewCommandsController(app),
		controllers.NewUploadController(app),
	)

	return nil
}

func (m *Module) Name() string {
	return "catalog"
}
