package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// ShopConfig represents the complete shop configuration
type ShopConfig struct {
	Shop       ShopSettings       `toml:"shop"`
	Pagination PaginationSettings `toml:"pagination"`
	Alerts     AlertSettings      `toml:"alerts"`
	Storage    StorageSettings    `toml:"storage"`
}

// ShopSettings contains shop identity settings
type ShopSettings struct {
	Name     string `toml:"name"`
	Currency string `toml:"currency"`
}

// PaginationSettings contains list endpoint page bounds
type PaginationSettings struct {
	PageSize    int `toml:"page_size"`
	MaxPageSize int `toml:"max_page_size"`
}

// AlertSettings contains background alert job settings
type AlertSettings struct {
	LowStockThreshold   int `toml:"low_stock_threshold"`
	ScanIntervalMinutes int `toml:"scan_interval_minutes"`
}

// StorageSettings contains object storage settings
type StorageSettings struct {
	ImageBucket string `toml:"image_bucket"`
}

// LoadShopConfig loads configuration from a TOML file
func LoadShopConfig(filename string) (*ShopConfig, error) {
	config := &ShopConfig{}
	_, err := toml.DecodeFile(filename, config)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}
	config.applyDefaults()
	return config, nil
}

// DefaultShopConfig returns the configuration used when no file is provided
func DefaultShopConfig() *ShopConfig {
	config := &ShopConfig{}
	config.applyDefaults()
	return config
}

func (c *ShopConfig) applyDefaults() {
	if c.Shop.Name == "" {
		c.Shop.Name = "SareeMart"
	}
	if c.Shop.Currency == "" {
		c.Shop.Currency = "INR"
	}
	if c.Pagination.PageSize <= 0 {
		c.Pagination.PageSize = 50
	}
	if c.Pagination.MaxPageSize <= 0 {
		c.Pagination.MaxPageSize = 500
	}
	if c.Alerts.LowStockThreshold <= 0 {
		c.Alerts.LowStockThreshold = 5
	}
	if c.Alerts.ScanIntervalMinutes <= 0 {
		c.Alerts.ScanIntervalMinutes = 30
	}
	if c.Storage.ImageBucket == "" {
		c.Storage.ImageBucket = "saree-images"
	}
}
