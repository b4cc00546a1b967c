package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the ordering service.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Catalog CatalogConfig `yaml:"catalog"`
	Static  StaticConfig  `yaml:"static"`
	Orders  OrdersConfig  `yaml:"orders"`
}

// ServerConfig holds the HTTP listen address.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// CatalogConfig holds the restaurant-document directory settings.
type CatalogConfig struct {
	Dir                string `yaml:"dir"`
	LoadTimeoutSeconds int    `yaml:"load_timeout_seconds"`
}

// StaticConfig holds the document root for static assets.
type StaticConfig struct {
	Root string `yaml:"root"`
}

// OrdersConfig holds order-intake settings. TaxRate is a decimal string so
// the rate survives parsing exactly (no float rounding).
type OrdersConfig struct {
	TaxRate         string `yaml:"tax_rate"`
	MaxBodyBytes    int64  `yaml:"max_body_bytes"`
	EnforceMinOrder bool   `yaml:"enforce_min_order"`
}

func defaults() *Config {
	return &Config{
		Server:  ServerConfig{Host: "localhost", Port: 8000},
		Catalog: CatalogConfig{Dir: "./restaurants", LoadTimeoutSeconds: 10},
		Static:  StaticConfig{Root: "./public"},
		Orders: OrdersConfig{
			TaxRate:         "0.10",
			MaxBodyBytes:    1 << 20,
			EnforceMinOrder: true,
		},
	}
}

// Load reads configuration from a YAML file, then applies environment
// overrides. A missing config file is not an error; defaults apply.
// Environment variables may come from a .env file in the working directory.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := defaults()

	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg.applyEnv()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Server.Host = getEnv("SERVER_HOST", c.Server.Host)
	if port, err := strconv.Atoi(os.Getenv("SERVER_PORT")); err == nil {
		c.Server.Port = port
	}
	c.Catalog.Dir = getEnv("CATALOG_DIR", c.Catalog.Dir)
	c.Static.Root = getEnv("STATIC_ROOT", c.Static.Root)
	c.Orders.TaxRate = getEnv("ORDERS_TAX_RATE", c.Orders.TaxRate)
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d is out of range", c.Server.Port)
	}
	if _, err := decimal.NewFromString(c.Orders.TaxRate); err != nil {
		return fmt.Errorf("orders.tax_rate %q is not a valid decimal: %w", c.Orders.TaxRate, err)
	}
	if c.Orders.MaxBodyBytes <= 0 {
		return fmt.Errorf("orders.max_body_bytes must be positive")
	}
	if c.Catalog.LoadTimeoutSeconds <= 0 {
		return fmt.Errorf("catalog.load_timeout_seconds must be positive")
	}
	return nil
}

// Addr returns the host:port listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// LoadTimeout returns the catalog load timeout as a duration.
func (c *Config) LoadTimeout() time.Duration {
	return time.Duration(c.Catalog.LoadTimeoutSeconds) * time.Second
}

// TaxRateDecimal returns the parsed tax rate. Load has already validated it.
func (c *Config) TaxRateDecimal() decimal.Decimal {
	rate, _ := decimal.NewFromString(c.Orders.TaxRate)
	return rate
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
