// internal/model/instrument.go
package model

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// InstrumentType represents the type of instrument
type InstrumentType string

const (
	InstrumentTypeOscilloscope  InstrumentType = "OSCILLOSCOPE"
	InstrumentTypeGenerator     InstrumentType = "GENERATOR"
	InstrumentTypeMultimeter    InstrumentType = "MULTIMETER"
	InstrumentTypeLogicAnalyzer InstrumentType = "LOGIC_ANALYZER"
)

// InstrumentStatus represents the current status of an instrument
type InstrumentStatus string

const (
	InstrumentStatusOnline      InstrumentStatus = "ONLINE"
	InstrumentStatusOffline     InstrumentStatus = "OFFLINE"
	InstrumentStatusError       InstrumentStatus = "ERROR"
	InstrumentStatusStreaming   InstrumentStatus = "STREAMING"
	InstrumentStatusConnecting  InstrumentStatus = "CONNECTING"
	InstrumentStatusMaintenance InstrumentStatus = "MAINTENANCE"
)

// ConnectionType represents how the instrument is connected
type ConnectionType string

const (
	ConnectionTypeUSB    ConnectionType = "USB"
	ConnectionTypeSerial ConnectionType = "SERIAL"
)

// InstrumentBrand represents supported instrument brands
type InstrumentBrand string

const (
	BrandHantek  InstrumentBrand = "HANTEK"
	BrandOwon    InstrumentBrand = "OWON"
	BrandRigol   InstrumentBrand = "RIGOL"
	BrandSiglent InstrumentBrand = "SIGLENT"
	BrandUniT    InstrumentBrand = "UNI_T"
	BrandGeneric InstrumentBrand = "GENERIC"
)

// Capability represents what an instrument can do
type Capability string

const (
	CapabilityCapture    Capability = "CAPTURE"
	CapabilityStream     Capability = "STREAM"
	CapabilityTrigger    Capability = "TRIGGER"
	CapabilityGenerator  Capability = "GENERATOR"
	CapabilityMultimeter Capability = "MULTIMETER"
	CapabilityScreen     Capability = "SCREEN"
	CapabilityStatus     Capability = "STATUS"
	CapabilityDualChan   Capability = "DUAL_CHANNEL"
)

// JSONArray type for PostgreSQL JSONB arrays
type JSONArray []interface{}

func (j *JSONArray) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, j)
}

func (j JSONArray) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

// JSONObject type for PostgreSQL JSONB objects
type JSONObject map[string]interface{}

func (j *JSONObject) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, j)
}

func (j JSONObject) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

// Instrument represents a physical instrument in the system
type Instrument struct {
	ID                 uuid.UUID        `json:"id" db:"id"`
	InstrumentID       string           `json:"instrument_id" db:"instrument_id"`
	InstrumentType     InstrumentType   `json:"instrument_type" db:"instrument_type"`
	Brand              InstrumentBrand  `json:"brand" db:"brand"`
	Model              string           `json:"model" db:"model"`
	SerialNumber       *string          `json:"serial_number" db:"serial_number"`
	FirmwareVersion    *string          `json:"firmware_version" db:"firmware_version"`
	ConnectionType     ConnectionType   `json:"connection_type" db:"connection_type"`
	ConnectionConfig   JSONObject       `json:"connection_config" db:"connection_config"`
	Capabilities       JSONArray        `json:"capabilities" db:"capabilities"`
	Location           *string          `json:"location" db:"location"`
	Status             InstrumentStatus `json:"status" db:"status"`
	LastPing           *time.Time       `json:"last_ping" db:"last_ping"`
	ErrorInfo          JSONObject       `json:"error_info" db:"error_info"`
	PerformanceMetrics JSONObject       `json:"performance_metrics" db:"performance_metrics"`
	CreatedAt          time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at" db:"updated_at"`
}

// HasCapability checks if instrument has a specific capability
func (i *Instrument) HasCapability(capability Capability) bool {
	for _, cap := range i.Capabilities {
		if cap == string(capability) {
			return true
		}
	}
	return false
}

// IsOnline checks if instrument is currently reachable
func (i *Instrument) IsOnline() bool {
	return i.Status == InstrumentStatusOnline || i.Status == InstrumentStatusStreaming
}

// ConnectionConfig structures for different connection types

type USBConfig struct {
	VendorID  string `json:"vendor_id"`
	ProductID string `json:"product_id"`
	Interface int    `json:"interface"`
}

type SerialConfig struct {
	Port     string `json:"port"`
	BaudRate int    `json:"baud_rate"`
	DataBits int    `json:"data_bits"`
	StopBits int    `json:"stop_bits"`
	Parity   string `json:"parity"`
}

// InstrumentHealth represents instrument health metrics
type InstrumentHealth struct {
	InstrumentID  uuid.UUID  `json:"instrument_id" db:"instrument_id"`
	HealthScore   int        `json:"health_score" db:"health_score"`
	ResponseTime  *int       `json:"response_time" db:"response_time"`
	ErrorRate     *float64   `json:"error_rate" db:"error_rate"`
	Uptime        *float64   `json:"uptime" db:"uptime"`
	LastErrorTime *time.Time `json:"last_error_time" db:"last_error_time"`
	RecordedAt    time.Time  `json:"recorded_at" db:"recorded_at"`
}

// PerformanceMetrics structure
type PerformanceMetrics struct {
	AverageResponseTime int     `json:"average_response_time_ms"`
	SuccessRate         float64 `json:"success_rate"`
	UptimePercentage    float64 `json:"uptime_percentage"`
	LastOperationTime   int     `json:"last_operation_time_ms"`
	TotalOperations     int64   `json:"total_operations"`
	ErrorCount          int64   `json:"error_count"`
}

// ErrorInfo structure
type ErrorInfo struct {
	LastError     *string    `json:"last_error,omitempty"`
	ErrorCode     *string    `json:"error_code,omitempty"`
	ErrorTime     *time.Time `json:"error_time,omitempty"`
	RecoveryInfo  *string    `json:"recovery_info,omitempty"`
	ErrorCount    int        `json:"error_count"`
	CriticalError bool       `json:"critical_error"`
}
