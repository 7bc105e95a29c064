// internal/transport/factory.go
package transport

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"scope-service/internal/model"
)

// CreateTransport creates a transport based on connection type and configuration
func CreateTransport(connectionType model.ConnectionType, config map[string]interface{}, logger *zap.Logger) (DeviceTransport, error) {
	switch connectionType {
	case model.ConnectionTypeUSB:
		return createUSBTransport(config, logger)
	case model.ConnectionTypeSerial:
		return createSerialTransport(config, logger)
	default:
		return nil, fmt.Errorf("unsupported transport type: %s", connectionType)
	}
}

// createUSBTransport creates a USB transport
func createUSBTransport(config map[string]interface{}, logger *zap.Logger) (DeviceTransport, error) {
	usbConfig := &USBConfig{
		Interface:      0,
		OutEndpoint:    2,
		InEndpoint:     1,
		ConnectTimeout: 5 * time.Second,
		ReadTimeout:    2 * time.Second,
	}

	// Parse vendor ID
	if vendorID, ok := config["vendor_id"].(string); ok {
		usbConfig.VendorID = vendorID
	} else {
		return nil, fmt.Errorf("USB vendor_id is required")
	}

	// Parse product ID
	if productID, ok := config["product_id"].(string); ok {
		usbConfig.ProductID = productID
	} else {
		return nil, fmt.Errorf("USB product_id is required")
	}

	// Parse interface
	if intf, ok := config["interface"]; ok {
		switch v := intf.(type) {
		case float64:
			usbConfig.Interface = int(v)
		case int:
			usbConfig.Interface = v
		}
	}

	// Parse out endpoint
	if outEndpoint, ok := config["out_endpoint"]; ok {
		switch v := outEndpoint.(type) {
		case float64:
			usbConfig.OutEndpoint = int(v)
		case int:
			usbConfig.OutEndpoint = v
		}
	}

	// Parse in endpoint
	if inEndpoint, ok := config["in_endpoint"]; ok {
		switch v := inEndpoint.(type) {
		case float64:
			usbConfig.InEndpoint = int(v)
		case int:
			usbConfig.InEndpoint = v
		}
	}

	// Parse serial number
	if serialNumber, ok := config["serial_number"].(string); ok {
		usbConfig.SerialNumber = serialNumber
	}

	// Parse connect timeout
	if connectTimeout, ok := config["connect_timeout"].(string); ok {
		if dur, err := time.ParseDuration(connectTimeout); err == nil {
			usbConfig.ConnectTimeout = dur
		}
	}

	// Parse read timeout
	if readTimeout, ok := config["read_timeout"].(string); ok {
		if dur, err := time.ParseDuration(readTimeout); err == nil {
			usbConfig.ReadTimeout = dur
		}
	}

	logger.Info("Creating USB transport",
		zap.String("vendor_id", usbConfig.VendorID),
		zap.String("product_id", usbConfig.ProductID),
		zap.Int("interface", usbConfig.Interface),
	)

	return NewUSBTransport(usbConfig, logger), nil
}

// createSerialTransport creates a serial transport
func createSerialTransport(config map[string]interface{}, logger *zap.Logger) (DeviceTransport, error) {
	serialConfig := &SerialConfig{
		BaudRate: 115200,
		DataBits: 8,
		StopBits: 1,
		Parity:   "none",
		Timeout:  2 * time.Second,
	}

	// Parse port
	if port, ok := config["port"].(string); ok {
		serialConfig.Port = port
	} else {
		return nil, fmt.Errorf("serial port is required")
	}

	// Parse baud rate
	if baudRate, ok := config["baud_rate"]; ok {
		switch v := baudRate.(type) {
		case float64:
			serialConfig.BaudRate = int(v)
		case int:
			serialConfig.BaudRate = v
		}
	}

	// Parse data bits
	if dataBits, ok := config["data_bits"]; ok {
		switch v := dataBits.(type) {
		case float64:
			serialConfig.DataBits = int(v)
		case int:
			serialConfig.DataBits = v
		}
	}

	// Parse stop bits
	if stopBits, ok := config["stop_bits"]; ok {
		switch v := stopBits.(type) {
		case float64:
			serialConfig.StopBits = int(v)
		case int:
			serialConfig.StopBits = v
		}
	}

	// Parse parity
	if parity, ok := config["parity"].(string); ok {
		serialConfig.Parity = parity
	}

	// Parse timeout
	if timeout, ok := config["timeout"].(string); ok {
		if dur, err := time.ParseDuration(timeout); err == nil {
			serialConfig.Timeout = dur
		}
	}

	logger.Info("Creating serial transport",
		zap.String("port", serialConfig.Port),
		zap.Int("baud_rate", serialConfig.BaudRate),
	)

	return NewSerialTransport(serialConfig, logger), nil
}

// ValidateConfig validates configuration for a specific transport type
func ValidateConfig(connectionType model.ConnectionType, config map[string]interface{}) error {
	switch connectionType {
	case model.ConnectionTypeUSB:
		return validateUSBConfig(config)
	case model.ConnectionTypeSerial:
		return validateSerialConfig(config)
	default:
		return fmt.Errorf("unsupported connection type: %s", connectionType)
	}
}

// validateUSBConfig validates USB configuration
func validateUSBConfig(config map[string]interface{}) error {
	vendorID, ok := config["vendor_id"].(string)
	if !ok {
		return fmt.Errorf("USB vendor_id is required")
	}
	if _, err := parseHexID(vendorID); err != nil {
		return fmt.Errorf("invalid vendor_id %q: %w", vendorID, err)
	}

	productID, ok := config["product_id"].(string)
	if !ok {
		return fmt.Errorf("USB product_id is required")
	}
	if _, err := parseHexID(productID); err != nil {
		return fmt.Errorf("invalid product_id %q: %w", productID, err)
	}

	return nil
}

// validateSerialConfig validates serial configuration
func validateSerialConfig(config map[string]interface{}) error {
	if _, ok := config["port"].(string); !ok {
		return fmt.Errorf("serial port is required")
	}

	if baudRate, ok := config["baud_rate"]; ok {
		var rate int
		switch v := baudRate.(type) {
		case float64:
			rate = int(v)
		case int:
			rate = v
		default:
			return fmt.Errorf("invalid baud_rate type")
		}

		validRates := []int{9600, 19200, 38400, 57600, 115200, 230400, 460800, 921600}
		valid := false
		for _, validRate := range validRates {
			if rate == validRate {
				valid = true
				break
			}
		}
		if !valid {
			return fmt.Errorf("invalid baud rate: %d", rate)
		}
	}

	return nil
}
