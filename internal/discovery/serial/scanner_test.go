// internal/discovery/serial/scanner_test.go
package serial

import (
	"testing"

	"go.bug.st/serial/enumerator"
	"go.uber.org/zap"

	"scope-service/internal/model"
)

func TestIdentifyPortKnownInstrument(t *testing.T) {
	s := NewScanner(zap.NewNop())

	port := &enumerator.PortDetails{
		Name:         "/dev/ttyACM0",
		IsUSB:        true,
		VID:          "0483",
		PID:          "2d42",
		SerialNumber: "CN2C72XXAA01",
	}

	inst := s.identifyPort(port)
	if inst == nil {
		t.Fatal("expected instrument for 0483:2d42")
	}
	if inst.Brand != model.BrandHantek {
		t.Errorf("Brand = %s, want %s", inst.Brand, model.BrandHantek)
	}
	if inst.Model != "2C72" {
		t.Errorf("Model = %s, want 2C72 refined from serial number", inst.Model)
	}
	if inst.ConnectionType != model.ConnectionTypeSerial {
		t.Errorf("ConnectionType = %s, want %s", inst.ConnectionType, model.ConnectionTypeSerial)
	}
	if inst.ConnectionInfo["port"] != "/dev/ttyACM0" {
		t.Errorf("port = %v, want /dev/ttyACM0", inst.ConnectionInfo["port"])
	}
	if inst.ConnectionInfo["baud_rate"] != 115200 {
		t.Errorf("baud_rate = %v, want 115200", inst.ConnectionInfo["baud_rate"])
	}
	if inst.SerialNumber != "CN2C72XXAA01" {
		t.Errorf("SerialNumber = %s", inst.SerialNumber)
	}
}

func TestIdentifyPortBridgeChips(t *testing.T) {
	port := &enumerator.PortDetails{
		Name:  "/dev/ttyUSB0",
		IsUSB: true,
		VID:   "1A86",
		PID:   "7523",
	}

	s := NewScanner(zap.NewNop())
	if inst := s.identifyPort(port); inst != nil {
		t.Errorf("bridge chip reported with IncludeBridgeChips off: %+v", inst)
	}

	s = NewScannerWithConfig(zap.NewNop(), &Config{IncludeBridgeChips: true, DefaultBaudRate: 9600})
	inst := s.identifyPort(port)
	if inst == nil {
		t.Fatal("expected generic instrument with IncludeBridgeChips on")
	}
	if inst.Brand != model.BrandGeneric {
		t.Errorf("Brand = %s, want %s", inst.Brand, model.BrandGeneric)
	}
	if inst.Confidence >= 0.5 {
		t.Errorf("Confidence = %f, want below 0.5", inst.Confidence)
	}
	if inst.ConnectionInfo["baud_rate"] != 9600 {
		t.Errorf("baud_rate = %v, want 9600", inst.ConnectionInfo["baud_rate"])
	}
}

func TestIdentifyPortUnknownVendor(t *testing.T) {
	s := NewScannerWithConfig(zap.NewNop(), &Config{IncludeBridgeChips: true, DefaultBaudRate: 115200})

	port := &enumerator.PortDetails{
		Name:  "/dev/ttyUSB1",
		IsUSB: true,
		VID:   "ABCD",
		PID:   "0001",
	}
	if inst := s.identifyPort(port); inst != nil {
		t.Errorf("unknown vendor should not be reported: %+v", inst)
	}
}

func TestRefineHandheldModelFromSerial(t *testing.T) {
	tests := []struct {
		serial string
		want   string
	}{
		{"CN2D72A1B2C3", "2D72"},
		{"cn2c42 unit 7", "2C42"},
		{"SN00012345", "2D72"},
		{"", "2D72"},
	}

	for _, tt := range tests {
		if got := refineHandheldModel("2D72", tt.serial); got != tt.want {
			t.Errorf("refineHandheldModel(%q) = %s, want %s", tt.serial, got, tt.want)
		}
	}
}
