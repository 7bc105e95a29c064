// internal/transport/factory_test.go
package transport

import (
	"testing"
	"time"

	"go.uber.org/zap"

	"scope-service/internal/model"
)

func TestCreateTransportUSB(t *testing.T) {
	config := map[string]interface{}{
		"vendor_id":       "0x0483",
		"product_id":      "0x2d42",
		"interface":       float64(0),
		"out_endpoint":    float64(2),
		"in_endpoint":     float64(1),
		"connect_timeout": "3s",
		"read_timeout":    "500ms",
	}

	tr, err := CreateTransport(model.ConnectionTypeUSB, config, zap.NewNop())
	if err != nil {
		t.Fatalf("CreateTransport() error = %v", err)
	}

	usb, ok := tr.(*USBTransport)
	if !ok {
		t.Fatalf("CreateTransport() returned %T, want *USBTransport", tr)
	}
	if usb.config.VendorID != "0x0483" {
		t.Errorf("VendorID = %q, want %q", usb.config.VendorID, "0x0483")
	}
	if usb.config.OutEndpoint != 2 || usb.config.InEndpoint != 1 {
		t.Errorf("endpoints = (%d, %d), want (2, 1)", usb.config.OutEndpoint, usb.config.InEndpoint)
	}
	if usb.config.ConnectTimeout != 3*time.Second {
		t.Errorf("ConnectTimeout = %v, want 3s", usb.config.ConnectTimeout)
	}
	if usb.config.ReadTimeout != 500*time.Millisecond {
		t.Errorf("ReadTimeout = %v, want 500ms", usb.config.ReadTimeout)
	}
	if tr.GetTransportType() != model.ConnectionTypeUSB {
		t.Errorf("GetTransportType() = %v, want USB", tr.GetTransportType())
	}
}

func TestCreateTransportUSBDefaults(t *testing.T) {
	config := map[string]interface{}{
		"vendor_id":  "0483",
		"product_id": "2D42",
	}

	tr, err := CreateTransport(model.ConnectionTypeUSB, config, zap.NewNop())
	if err != nil {
		t.Fatalf("CreateTransport() error = %v", err)
	}

	usb := tr.(*USBTransport)
	if usb.config.OutEndpoint != 2 {
		t.Errorf("default OutEndpoint = %d, want 2", usb.config.OutEndpoint)
	}
	if usb.config.InEndpoint != 1 {
		t.Errorf("default InEndpoint = %d, want 1", usb.config.InEndpoint)
	}
	if usb.config.ConnectTimeout != 5*time.Second {
		t.Errorf("default ConnectTimeout = %v, want 5s", usb.config.ConnectTimeout)
	}
}

func TestCreateTransportUSBMissingIDs(t *testing.T) {
	tests := []struct {
		name   string
		config map[string]interface{}
	}{
		{"missing vendor_id", map[string]interface{}{"product_id": "0x2d42"}},
		{"missing product_id", map[string]interface{}{"vendor_id": "0x0483"}},
		{"empty config", map[string]interface{}{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := CreateTransport(model.ConnectionTypeUSB, tt.config, zap.NewNop()); err == nil {
				t.Error("CreateTransport() error = nil, want error")
			}
		})
	}
}

func TestCreateTransportSerial(t *testing.T) {
	config := map[string]interface{}{
		"port":      "/dev/ttyUSB0",
		"baud_rate": float64(115200),
		"parity":    "even",
		"timeout":   "1s",
	}

	tr, err := CreateTransport(model.ConnectionTypeSerial, config, zap.NewNop())
	if err != nil {
		t.Fatalf("CreateTransport() error = %v", err)
	}

	st, ok := tr.(*SerialTransport)
	if !ok {
		t.Fatalf("CreateTransport() returned %T, want *SerialTransport", tr)
	}
	if st.config.Port != "/dev/ttyUSB0" {
		t.Errorf("Port = %q, want %q", st.config.Port, "/dev/ttyUSB0")
	}
	if st.config.BaudRate != 115200 {
		t.Errorf("BaudRate = %d, want 115200", st.config.BaudRate)
	}
	if st.config.Parity != "even" {
		t.Errorf("Parity = %q, want %q", st.config.Parity, "even")
	}
	if tr.GetTransportType() != model.ConnectionTypeSerial {
		t.Errorf("GetTransportType() = %v, want SERIAL", tr.GetTransportType())
	}
}

func TestCreateTransportUnsupported(t *testing.T) {
	if _, err := CreateTransport(model.ConnectionType("BLUETOOTH"), map[string]interface{}{}, zap.NewNop()); err == nil {
		t.Error("CreateTransport() error = nil, want error for unsupported type")
	}
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name           string
		connectionType model.ConnectionType
		config         map[string]interface{}
		wantErr        bool
	}{
		{
			name:           "valid USB",
			connectionType: model.ConnectionTypeUSB,
			config:         map[string]interface{}{"vendor_id": "0x0483", "product_id": "0x2d42"},
			wantErr:        false,
		},
		{
			name:           "USB without prefix",
			connectionType: model.ConnectionTypeUSB,
			config:         map[string]interface{}{"vendor_id": "0483", "product_id": "2d42"},
			wantErr:        false,
		},
		{
			name:           "USB bad hex",
			connectionType: model.ConnectionTypeUSB,
			config:         map[string]interface{}{"vendor_id": "0xZZZZ", "product_id": "0x2d42"},
			wantErr:        true,
		},
		{
			name:           "USB vendor_id too wide",
			connectionType: model.ConnectionTypeUSB,
			config:         map[string]interface{}{"vendor_id": "0x10483", "product_id": "0x2d42"},
			wantErr:        true,
		},
		{
			name:           "USB missing product_id",
			connectionType: model.ConnectionTypeUSB,
			config:         map[string]interface{}{"vendor_id": "0x0483"},
			wantErr:        true,
		},
		{
			name:           "valid serial",
			connectionType: model.ConnectionTypeSerial,
			config:         map[string]interface{}{"port": "/dev/ttyACM0", "baud_rate": 115200},
			wantErr:        false,
		},
		{
			name:           "serial missing port",
			connectionType: model.ConnectionTypeSerial,
			config:         map[string]interface{}{"baud_rate": 9600},
			wantErr:        true,
		},
		{
			name:           "serial odd baud rate",
			connectionType: model.ConnectionTypeSerial,
			config:         map[string]interface{}{"port": "/dev/ttyACM0", "baud_rate": 12345},
			wantErr:        true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateConfig(tt.connectionType, tt.config)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseHexID(t *testing.T) {
	tests := []struct {
		input   string
		want    uint16
		wantErr bool
	}{
		{"0x0483", 0x0483, false},
		{"0483", 0x0483, false},
		{"2D42", 0x2d42, false},
		{"0x2d42", 0x2d42, false},
		{"ffff", 0xffff, false},
		{"0x10000", 0, true},
		{"nope", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseHexID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseHexID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && uint16(got) != tt.want {
				t.Errorf("parseHexID(%q) = %04x, want %04x", tt.input, uint16(got), tt.want)
			}
		})
	}
}
