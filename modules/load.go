package modules

import (
	"github.com/cmdvault/cmdvault/modules/auth"
	"github.com/cmdvault/cmdvault/modules/catalog"
	"github.com/cmdvault/cmdvault/pkg/application"
)

var BuiltInModules = []application.Module{
	auth.NewModule(),
	catalog.NewModule(),
}

func Load(app application.Application, externalModules ...application.Module) error {
	for _, module := range externalModules {
		if err := module.Register(app); err != nil {
			return err
		}
	}
	return nil
}
