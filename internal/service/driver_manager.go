// internal/service/driver_manager.go
package service

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	internalDriver "scope-service/internal/driver"
	"scope-service/internal/model"
	"scope-service/internal/utils"
	"scope-service/pkg/instrument"
)

// DriverManager keeps one live driver per connected instrument. USB
// instruments are claimed exclusively, so every service that talks to
// the hardware has to go through the same driver instance.
type DriverManager struct {
	registry     *internalDriver.Registry
	logger       *utils.ServiceLogger
	eventHandler instrument.EventHandler
	mutex        sync.RWMutex
	drivers      map[string]instrument.InstrumentDriver
}

// NewDriverManager creates a new driver manager
func NewDriverManager(registry *internalDriver.Registry, logger *zap.Logger) *DriverManager {
	return &DriverManager{
		registry: registry,
		logger:   utils.NewServiceLogger(logger, "driver-manager"),
		drivers:  make(map[string]instrument.InstrumentDriver),
	}
}

// SetEventHandler sets the handler wired into every driver created
// from now on. Call before the first Acquire.
func (dm *DriverManager) SetEventHandler(handler instrument.EventHandler) {
	dm.mutex.Lock()
	defer dm.mutex.Unlock()
	dm.eventHandler = handler
}

// Acquire returns the cached driver for the instrument, creating one
// through the registry if none exists yet
func (dm *DriverManager) Acquire(inst *model.Instrument) (instrument.InstrumentDriver, error) {
	dm.mutex.Lock()
	defer dm.mutex.Unlock()

	if driverInstance, exists := dm.drivers[inst.InstrumentID]; exists {
		return driverInstance, nil
	}

	driverInstance, err := dm.registry.CreateDriver(inst, inst.ConnectionConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create driver: %w", err)
	}

	if dm.eventHandler != nil {
		driverInstance.SetEventHandler(dm.eventHandler)
	}

	dm.drivers[inst.InstrumentID] = driverInstance
	dm.logger.Info("Driver created",
		zap.String("instrument_id", inst.InstrumentID),
		zap.String("brand", string(inst.Brand)),
		zap.String("model", inst.Model),
	)

	return driverInstance, nil
}

// Get returns the cached driver for an instrument, if any
func (dm *DriverManager) Get(instrumentID string) (instrument.InstrumentDriver, bool) {
	dm.mutex.RLock()
	defer dm.mutex.RUnlock()

	driverInstance, exists := dm.drivers[instrumentID]
	return driverInstance, exists
}

// Release disconnects and drops the cached driver for an instrument
func (dm *DriverManager) Release(ctx context.Context, instrumentID string) error {
	dm.mutex.Lock()
	driverInstance, exists := dm.drivers[instrumentID]
	if exists {
		delete(dm.drivers, instrumentID)
	}
	dm.mutex.Unlock()

	if !exists {
		return nil
	}

	if err := driverInstance.Disconnect(ctx); err != nil {
		dm.logger.Warn("Driver disconnect failed during release",
			zap.String("instrument_id", instrumentID),
			zap.Error(err),
		)
	}

	if err := driverInstance.Close(); err != nil {
		return fmt.Errorf("failed to close driver: %w", err)
	}

	dm.logger.Info("Driver released", zap.String("instrument_id", instrumentID))
	return nil
}

// ConnectedIDs returns the instrument IDs with a cached driver
func (dm *DriverManager) ConnectedIDs() []string {
	dm.mutex.RLock()
	defer dm.mutex.RUnlock()

	ids := make([]string, 0, len(dm.drivers))
	for id := range dm.drivers {
		ids = append(ids, id)
	}
	return ids
}

// CloseAll releases every cached driver. Used during shutdown.
func (dm *DriverManager) CloseAll(ctx context.Context) {
	dm.mutex.Lock()
	drivers := dm.drivers
	dm.drivers = make(map[string]instrument.InstrumentDriver)
	dm.mutex.Unlock()

	for id, driverInstance := range drivers {
		if err := driverInstance.Disconnect(ctx); err != nil {
			dm.logger.Warn("Driver disconnect failed during shutdown",
				zap.String("instrument_id", id),
				zap.Error(err),
			)
		}
		if err := driverInstance.Close(); err != nil {
			dm.logger.Warn("Driver close failed during shutdown",
				zap.String("instrument_id", id),
				zap.Error(err),
			)
		}
	}

	if len(drivers) > 0 {
		dm.logger.Info("All drivers released", zap.Int("count", len(drivers)))
	}
}
