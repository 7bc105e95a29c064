// pkg/instrumenttypes/types.go
package instrumenttypes

// Common instrument type definitions that can be used across the application

// ConnectionInfo represents instrument connection information
type ConnectionInfo struct {
	Type   string                 `json:"type"`
	Config map[string]interface{} `json:"config"`
}

// SerialConnectionInfo represents serial connection configuration
type SerialConnectionInfo struct {
	Port     string `json:"port"`
	BaudRate int    `json:"baud_rate"`
	DataBits int    `json:"data_bits"`
	StopBits int    `json:"stop_bits"`
	Parity   string `json:"parity"`
}

// USBConnectionInfo represents USB connection configuration
type USBConnectionInfo struct {
	VendorID  string `json:"vendor_id"`
	ProductID string `json:"product_id"`
	Interface int    `json:"interface"`
}

// InstrumentCapabilities defines standard instrument capabilities
var InstrumentCapabilities = map[string][]string{
	"OSCILLOSCOPE": {
		"CAPTURE", "STREAM", "TRIGGER", "STATUS",
	},
	"MULTIMETER": {
		"MULTIMETER", "STATUS",
	},
	"GENERATOR": {
		"GENERATOR", "STATUS",
	},
	"LOGIC_ANALYZER": {
		"CAPTURE", "STREAM", "TRIGGER", "STATUS",
	},
}

// BrandModels defines supported models for each brand
var BrandModels = map[string][]string{
	"HANTEK": {
		"2D72", "2D42", "2D10", "2C72", "2C42", "2C10",
	},
	"OWON": {
		"HDS242", "HDS272", "HDS242S", "HDS272S", "HDS2102", "HDS2202",
	},
	"UNI_T": {
		"UTD1025CL", "UTD1050CL", "UTD1102C",
	},
	"SIGLENT": {
		"SHS810X", "SHS820X", "SHS1102X",
	},
	"RIGOL": {
		"DHO802", "DHO804", "DHO812", "DHO814",
	},
}

// ErrorCodes defines standard error codes
var ErrorCodes = map[string]string{
	"CONNECTION_FAILED":     "Failed to connect to instrument",
	"DEVICE_NOT_FOUND":      "Instrument not present on the bus",
	"OPERATION_TIMEOUT":     "Operation timed out",
	"DEVICE_BUSY":           "Instrument is busy",
	"SETTINGS_REJECTED":     "Instrument rejected the settings",
	"INVALID_SETTINGS":      "Settings failed validation",
	"ACQUISITION_FAILED":    "Frame acquisition failed",
	"MALFORMED_RESPONSE":    "Instrument response could not be decoded",
	"METER_OVERLOAD":        "Measurement out of range",
	"UNSUPPORTED_OPERATION": "Operation not supported",
	"HARDWARE_ERROR":        "Hardware error",
	"FIRMWARE_ERROR":        "Firmware error",
	"CONFIGURATION_ERROR":   "Configuration error",
}

// Standard timeouts for different operations
var DefaultTimeouts = map[string]int{
	"CONNECT":      30, // seconds
	"CAPTURE":      10,
	"SETTINGS":     5,
	"METER_READ":   5,
	"GENERATOR":    5,
	"SCREEN":       3,
	"STATUS_CHECK": 5,
}

// Health score calculation weights
var HealthWeights = map[string]float64{
	"response_time": 0.3,
	"success_rate":  0.4,
	"uptime":        0.2,
	"error_rate":    0.1,
}
