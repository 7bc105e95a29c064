// internal/transport/config.go
package transport

import "time"

// USBConfig represents USB transport configuration
type USBConfig struct {
	VendorID       string        `json:"vendor_id"`
	ProductID      string        `json:"product_id"`
	Interface      int           `json:"interface"`
	OutEndpoint    int           `json:"out_endpoint"`
	InEndpoint     int           `json:"in_endpoint"`
	SerialNumber   string        `json:"serial_number"`
	ConnectTimeout time.Duration `json:"connect_timeout"`
	ReadTimeout    time.Duration `json:"read_timeout"`
}

// SerialConfig represents serial transport configuration
type SerialConfig struct {
	Port     string        `json:"port"`
	BaudRate int           `json:"baud_rate"`
	DataBits int           `json:"data_bits"`
	StopBits int           `json:"stop_bits"`
	Parity   string        `json:"parity"`
	Timeout  time.Duration `json:"timeout"`
}
