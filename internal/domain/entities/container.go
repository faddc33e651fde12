package entities

import (
	"go.uber.org/dig"
)

// RegisterProviders registers all entity providers with the DIG container.
// Settings depend on the repository being processed and are loaded by the
// controllers.
func RegisterProviders(container *dig.Container) error {
	return container.Provide(DefaultUpdateStrategies)
}
