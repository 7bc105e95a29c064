// internal/driver/registry_test.go
package driver

import (
	"testing"

	"go.uber.org/zap"

	"scope-service/internal/model"
	"scope-service/pkg/instrument"
)

func stubFactory(inst *model.Instrument, connectionConfig interface{}, logger *zap.Logger) (instrument.InstrumentDriver, error) {
	return nil, nil
}

func TestRegistryResolutionOrder(t *testing.T) {
	registry := NewRegistry(zap.NewNop())
	registry.Register(model.BrandHantek, model.InstrumentTypeOscilloscope, "2D72", stubFactory)
	registry.Register(model.BrandHantek, model.InstrumentTypeOscilloscope, "*", stubFactory)
	registry.Register(model.BrandGeneric, model.InstrumentTypeMultimeter, "*", stubFactory)

	tests := []struct {
		name      string
		brand     model.InstrumentBrand
		instType  model.InstrumentType
		model     string
		supported bool
	}{
		{"exact match", model.BrandHantek, model.InstrumentTypeOscilloscope, "2D72", true},
		{"wildcard model", model.BrandHantek, model.InstrumentTypeOscilloscope, "2D42", true},
		{"generic fallback", model.BrandOwon, model.InstrumentTypeMultimeter, "UT61E", true},
		{"no driver", model.BrandOwon, model.InstrumentTypeOscilloscope, "HDS272", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := registry.IsSupported(tt.brand, tt.instType, tt.model); got != tt.supported {
				t.Errorf("IsSupported = %v, want %v", got, tt.supported)
			}

			inst := &model.Instrument{
				Brand:          tt.brand,
				InstrumentType: tt.instType,
				Model:          tt.model,
			}
			_, err := registry.CreateDriver(inst, map[string]interface{}{})
			if tt.supported && err != nil {
				t.Errorf("CreateDriver: %v", err)
			}
			if !tt.supported && err == nil {
				t.Error("CreateDriver succeeded without a registered driver")
			}
		})
	}
}

func TestRegistryDefaultDrivers(t *testing.T) {
	registry := NewRegistry(zap.NewNop())
	RegisterDefaultDrivers(registry, zap.NewNop())

	if !registry.IsSupported(model.BrandHantek, model.InstrumentTypeOscilloscope, "2D72") {
		t.Error("2D72 not supported after default registration")
	}
	if !registry.IsSupported(model.BrandHantek, model.InstrumentTypeOscilloscope, "2D1072") {
		t.Error("wildcard Hantek registration missing")
	}

	brands := registry.GetSupportedBrands(model.InstrumentTypeOscilloscope)
	if len(brands) != 1 || brands[0] != model.BrandHantek {
		t.Errorf("supported brands = %v", brands)
	}

	if len(registry.ListDrivers()) != 6 {
		t.Errorf("registered drivers = %d, want 6", len(registry.ListDrivers()))
	}
}
