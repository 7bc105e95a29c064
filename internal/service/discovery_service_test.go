// internal/service/discovery_service_test.go
package service

import (
	"testing"

	"go.uber.org/zap"

	internalDriver "scope-service/internal/driver"
	"scope-service/internal/model"
	"scope-service/pkg/instrument"
)

func TestShouldSetupInstrument(t *testing.T) {
	ds := &DiscoveryService{}

	handheld := &DiscoveredInstrument{
		Brand:          model.BrandHantek,
		Model:          "2D72",
		InstrumentType: model.InstrumentTypeOscilloscope,
		ConnectionType: model.ConnectionTypeUSB,
		Confidence:     0.85,
	}
	generic := &DiscoveredInstrument{
		Brand:          model.BrandGeneric,
		Model:          "USB-1234:5678",
		InstrumentType: model.InstrumentTypeOscilloscope,
		ConnectionType: model.ConnectionTypeUSB,
		Confidence:     0.3,
	}

	tests := []struct {
		name   string
		inst   *DiscoveredInstrument
		filter map[string]string
		want   bool
	}{
		{"no filter known instrument", handheld, nil, true},
		{"no filter generic below cutoff", generic, nil, false},
		{"brand match", handheld, map[string]string{"brand": "HANTEK"}, true},
		{"brand mismatch", handheld, map[string]string{"brand": "OWON"}, false},
		{"type mismatch", handheld, map[string]string{"instrument_type": "MULTIMETER"}, false},
		{"connection mismatch", handheld, map[string]string{"connection_type": "SERIAL"}, false},
		{"explicit low cutoff admits generic", generic, map[string]string{"min_confidence": "0.2"}, true},
		{"explicit high cutoff rejects handheld", handheld, map[string]string{"min_confidence": "0.9"}, false},
		{"unparseable cutoff keeps default", handheld, map[string]string{"min_confidence": "lots"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ds.shouldSetupInstrument(tt.inst, tt.filter); got != tt.want {
				t.Errorf("shouldSetupInstrument() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAutoInstrumentID(t *testing.T) {
	ds := &DiscoveryService{}

	withSerial := &DiscoveredInstrument{
		Brand:          model.BrandHantek,
		InstrumentType: model.InstrumentTypeOscilloscope,
		SerialNumber:   "CN2D72-0042/a",
	}
	if got := ds.autoInstrumentID(withSerial, 0); got != "AUTO_HANTEK_CN2D72_0042_A" {
		t.Errorf("autoInstrumentID = %s, want AUTO_HANTEK_CN2D72_0042_A", got)
	}

	// The same unit must map to the same ID on every scan
	first := ds.autoInstrumentID(withSerial, 0)
	second := ds.autoInstrumentID(withSerial, 3)
	if first != second {
		t.Errorf("ID not stable across scans: %s vs %s", first, second)
	}

	noSerial := &DiscoveredInstrument{
		Brand:          model.BrandOwon,
		InstrumentType: model.InstrumentTypeOscilloscope,
	}
	if got := ds.autoInstrumentID(noSerial, 2); got != "AUTO_OWON_OSCILLOSCOPE_3" {
		t.Errorf("autoInstrumentID = %s, want AUTO_OWON_OSCILLOSCOPE_3", got)
	}
}

func TestGetSupportedInstruments(t *testing.T) {
	nopFactory := func(inst *model.Instrument, connectionConfig interface{}, logger *zap.Logger) (instrument.InstrumentDriver, error) {
		return &stubDriver{}, nil
	}

	registry := internalDriver.NewRegistry(zap.NewNop())
	registry.Register(model.BrandHantek, model.InstrumentTypeOscilloscope, "2D72", nopFactory)
	registry.Register(model.BrandHantek, model.InstrumentTypeOscilloscope, "2D42", nopFactory)
	registry.Register(model.BrandHantek, model.InstrumentTypeOscilloscope, "*", nopFactory)

	ds := &DiscoveryService{driverRegistry: registry}

	resp := ds.GetSupportedInstruments()
	if resp.TotalBrands != 1 {
		t.Errorf("TotalBrands = %d, want 1", resp.TotalBrands)
	}

	models := resp.Instruments["HANTEK"]["OSCILLOSCOPE"]
	if len(models) != 2 {
		t.Errorf("models = %v, want the two concrete models", models)
	}
	for _, m := range models {
		if m == "*" {
			t.Error("wildcard driver leaked into the model list")
		}
	}

	if _, ok := resp.Capabilities["OSCILLOSCOPE"]; !ok {
		t.Error("capabilities missing OSCILLOSCOPE entry")
	}
}

func TestGetInstrumentTypeCapabilities(t *testing.T) {
	ds := &DiscoveryService{}

	caps, err := ds.GetInstrumentTypeCapabilities("MULTIMETER")
	if err != nil {
		t.Fatalf("GetInstrumentTypeCapabilities() error = %v", err)
	}
	if len(caps) == 0 {
		t.Error("expected capabilities for MULTIMETER")
	}

	if _, err := ds.GetInstrumentTypeCapabilities("TOASTER"); err == nil {
		t.Error("expected error for unknown instrument type")
	}
}
