// internal/driver/registry_init.go
package driver

import (
	"go.uber.org/zap"

	"scope-service/internal/driver/hantek2d72"
	"scope-service/internal/model"
)

// RegisterDefaultDrivers registers all default instrument drivers
func RegisterDefaultDrivers(registry *Registry, logger *zap.Logger) {
	// Register Hantek handheld oscilloscope drivers
	registerHantekDrivers(registry, logger)

	// Register other brand drivers here
	// registerOwonDrivers(registry, logger)
	// registerSiglentDrivers(registry, logger)
}

// registerHantekDrivers registers Hantek 2000-series drivers
func registerHantekDrivers(registry *Registry, logger *zap.Logger) {
	// Hantek 2D72 (scope + meter + generator)
	registry.Register(
		model.BrandHantek,
		model.InstrumentTypeOscilloscope,
		"2D72",
		hantek2d72.NewDriver,
	)

	// Hantek 2D42
	registry.Register(
		model.BrandHantek,
		model.InstrumentTypeOscilloscope,
		"2D42",
		hantek2d72.NewDriver,
	)

	// Hantek 2D10
	registry.Register(
		model.BrandHantek,
		model.InstrumentTypeOscilloscope,
		"2D10",
		hantek2d72.NewDriver,
	)

	// Hantek 2C72 (no generator)
	registry.Register(
		model.BrandHantek,
		model.InstrumentTypeOscilloscope,
		"2C72",
		hantek2d72.NewDriver,
	)

	// Hantek 2C42
	registry.Register(
		model.BrandHantek,
		model.InstrumentTypeOscilloscope,
		"2C42",
		hantek2d72.NewDriver,
	)

	// Generic Hantek handheld (wildcard)
	registry.Register(
		model.BrandHantek,
		model.InstrumentTypeOscilloscope,
		"*",
		hantek2d72.NewDriver,
	)

	logger.Info("Hantek oscilloscope drivers registered",
		zap.Int("models", 6),
	)
}
