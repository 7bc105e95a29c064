// internal/config/config.go
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Security   SecurityConfig   `mapstructure:"security"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Instrument InstrumentConfig `mapstructure:"instrument"`
	Stream     StreamConfig     `mapstructure:"stream"`
	Generator  GeneratorConfig  `mapstructure:"generator"`
	App        AppConfig        `mapstructure:"app"`
}

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host" validate:"required"`
	Port         string        `mapstructure:"port" validate:"required"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
	TLS          TLSConfig     `mapstructure:"tls"`
}

// TLSConfig represents TLS configuration
type TLSConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	CertFile string `mapstructure:"cert_file"`
	KeyFile  string `mapstructure:"key_file"`
}

// DatabaseConfig represents database configuration
type DatabaseConfig struct {
	Host         string        `mapstructure:"host" validate:"required"`
	Port         int           `mapstructure:"port" validate:"required"`
	User         string        `mapstructure:"user" validate:"required"`
	Password     string        `mapstructure:"password" validate:"required"`
	DBName       string        `mapstructure:"dbname" validate:"required"`
	SSLMode      string        `mapstructure:"sslmode"`
	MaxOpenConns int           `mapstructure:"max_open_conns"`
	MaxIdleConns int           `mapstructure:"max_idle_conns"`
	MaxLifetime  time.Duration `mapstructure:"max_lifetime"`
}

// SecurityConfig represents security configuration
type SecurityConfig struct {
	AllowedOrigins    []string      `mapstructure:"allowed_origins"`
	RateLimitEnabled  bool          `mapstructure:"rate_limit_enabled"`
	RateLimitRequests int           `mapstructure:"rate_limit_requests"`
	RateLimitWindow   time.Duration `mapstructure:"rate_limit_window"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level" validate:"required"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
	Compress   bool   `mapstructure:"compress"`
}

// InstrumentConfig represents instrument-specific configuration
type InstrumentConfig struct {
	DiscoveryInterval   time.Duration        `mapstructure:"discovery_interval"`
	HealthCheckInterval time.Duration        `mapstructure:"health_check_interval"`
	PingInterval        time.Duration        `mapstructure:"ping_interval"`
	OperationTimeout    time.Duration        `mapstructure:"operation_timeout"`
	MaxRetryAttempts    int                  `mapstructure:"max_retry_attempts"`
	RetryDelay          time.Duration        `mapstructure:"retry_delay"`
	SupportedBrands     []string             `mapstructure:"supported_brands"`
	DefaultPort         InstrumentPortConfig `mapstructure:"default_ports"`
}

// InstrumentPortConfig represents default port configurations
type InstrumentPortConfig struct {
	Serial SerialPortConfig `mapstructure:"serial"`
	USB    USBPortConfig    `mapstructure:"usb"`
}

// SerialPortConfig represents serial port configuration
type SerialPortConfig struct {
	BaudRate int           `mapstructure:"baud_rate"`
	DataBits int           `mapstructure:"data_bits"`
	StopBits int           `mapstructure:"stop_bits"`
	Parity   string        `mapstructure:"parity"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// USBPortConfig represents USB port configuration
type USBPortConfig struct {
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	OutEndpoint    int           `mapstructure:"out_endpoint"`
	InEndpoint     int           `mapstructure:"in_endpoint"`
}

// StreamConfig represents waveform streaming configuration
type StreamConfig struct {
	DefaultInterval time.Duration `mapstructure:"default_interval"`
	MinInterval     time.Duration `mapstructure:"min_interval"`
	FrameBuffer     int           `mapstructure:"frame_buffer"`
	MaxSessions     int           `mapstructure:"max_sessions"`
	PersistFrames   bool          `mapstructure:"persist_frames"`
}

// GeneratorConfig represents signal generator limits
type GeneratorConfig struct {
	MaxFrequencyHz uint32  `mapstructure:"max_frequency_hz"`
	MaxAmplitudeV  float64 `mapstructure:"max_amplitude_v"`
	MinOffsetV     float64 `mapstructure:"min_offset_v"`
	MaxOffsetV     float64 `mapstructure:"max_offset_v"`
}

// AppConfig represents application metadata
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Version     string `mapstructure:"version" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required"`
	AppID       string `mapstructure:"app_id" validate:"required"`
	Debug       bool   `mapstructure:"debug"`
}

// Load loads configuration from file and environment variables
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("../../internal/config")

	// Environment variable support
	viper.SetEnvPrefix("SCOPE_SERVICE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Set defaults
	setDefaults()

	// Read config file
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Defaults plus environment variables are enough to run
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", "8086")
	viper.SetDefault("server.read_timeout", "30s")
	viper.SetDefault("server.write_timeout", "30s")
	viper.SetDefault("server.idle_timeout", "120s")
	viper.SetDefault("server.tls.enabled", false)

	// Database defaults
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.user", "postgres")
	viper.SetDefault("database.password", "postgres")
	viper.SetDefault("database.dbname", "scope_service")
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("database.max_open_conns", 25)
	viper.SetDefault("database.max_idle_conns", 5)
	viper.SetDefault("database.max_lifetime", "5m")

	// Security defaults
	viper.SetDefault("security.allowed_origins", []string{"*"})
	viper.SetDefault("security.rate_limit_enabled", true)
	viper.SetDefault("security.rate_limit_requests", 100)
	viper.SetDefault("security.rate_limit_window", "1m")

	// Logging defaults
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")
	viper.SetDefault("logging.output", "stdout")
	viper.SetDefault("logging.max_size", 100)
	viper.SetDefault("logging.max_backups", 3)
	viper.SetDefault("logging.max_age", 28)
	viper.SetDefault("logging.compress", true)

	// Instrument defaults
	viper.SetDefault("instrument.discovery_interval", "60s")
	viper.SetDefault("instrument.health_check_interval", "10s")
	viper.SetDefault("instrument.ping_interval", "5s")
	viper.SetDefault("instrument.operation_timeout", "30s")
	viper.SetDefault("instrument.max_retry_attempts", 3)
	viper.SetDefault("instrument.retry_delay", "2s")
	viper.SetDefault("instrument.supported_brands", []string{
		"HANTEK", "OWON", "UNI_T", "SIGLENT", "RIGOL", "GENERIC",
	})

	// Instrument port defaults
	viper.SetDefault("instrument.default_ports.serial.baud_rate", 115200)
	viper.SetDefault("instrument.default_ports.serial.data_bits", 8)
	viper.SetDefault("instrument.default_ports.serial.stop_bits", 1)
	viper.SetDefault("instrument.default_ports.serial.parity", "none")
	viper.SetDefault("instrument.default_ports.serial.timeout", "2s")

	viper.SetDefault("instrument.default_ports.usb.connect_timeout", "5s")
	viper.SetDefault("instrument.default_ports.usb.read_timeout", "2s")
	viper.SetDefault("instrument.default_ports.usb.out_endpoint", 2)
	viper.SetDefault("instrument.default_ports.usb.in_endpoint", 1)

	// Stream defaults
	viper.SetDefault("stream.default_interval", "100ms")
	viper.SetDefault("stream.min_interval", "20ms")
	viper.SetDefault("stream.frame_buffer", 1000)
	viper.SetDefault("stream.max_sessions", 4)
	viper.SetDefault("stream.persist_frames", false)

	// Generator defaults, matching the handheld's output stage
	viper.SetDefault("generator.max_frequency_hz", 25000000)
	viper.SetDefault("generator.max_amplitude_v", 3.5)
	viper.SetDefault("generator.min_offset_v", -3.5)
	viper.SetDefault("generator.max_offset_v", 3.5)

	// App defaults
	viper.SetDefault("app.name", "scope-service")
	viper.SetDefault("app.version", "1.0.0")
	viper.SetDefault("app.environment", "development")
	viper.SetDefault("app.app_id", "scope-service-01")
	viper.SetDefault("app.debug", false)
}

// validate validates the configuration
func validate(config *Config) error {
	// Basic validation
	if config.Server.Host == "" {
		return fmt.Errorf("server.host is required")
	}
	if config.Server.Port == "" {
		return fmt.Errorf("server.port is required")
	}
	if config.Database.Host == "" {
		return fmt.Errorf("database.host is required")
	}
	if config.App.AppID == "" {
		return fmt.Errorf("app.app_id is required")
	}

	// Validate environment
	validEnvs := []string{"development", "staging", "production", "test"}
	isValidEnv := false
	for _, env := range validEnvs {
		if config.App.Environment == env {
			isValidEnv = true
			break
		}
	}
	if !isValidEnv {
		return fmt.Errorf("app.environment must be one of: %v", validEnvs)
	}

	// Validate logging level
	validLevels := []string{"debug", "info", "warn", "error", "fatal"}
	isValidLevel := false
	for _, level := range validLevels {
		if config.Logging.Level == level {
			isValidLevel = true
			break
		}
	}
	if !isValidLevel {
		return fmt.Errorf("logging.level must be one of: %v", validLevels)
	}

	// Validate stream intervals
	if config.Stream.MinInterval <= 0 {
		return fmt.Errorf("stream.min_interval must be positive")
	}
	if config.Stream.DefaultInterval < config.Stream.MinInterval {
		return fmt.Errorf("stream.default_interval must not be below stream.min_interval")
	}

	return nil
}

// GetDatabaseDSN returns the database connection string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host, c.Database.Port, c.Database.User,
		c.Database.Password, c.Database.DBName, c.Database.SSLMode)
}

// GetServerAddr returns the server address
func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}

// IsProduction checks if the environment is production
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// IsDevelopment checks if the environment is development
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsDebugEnabled checks if debug mode is enabled
func (c *Config) IsDebugEnabled() bool {
	return c.App.Debug || c.IsDevelopment()
}
