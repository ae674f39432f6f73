package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

// Load reads configuration from a YAML file.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg AppConfig
	// Expand environment variables in the YAML content
	expandedData := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)

	if cfg.Chain.RPCURL == "" {
		return nil, fmt.Errorf("chain.rpc_url is required")
	}
	if cfg.Chain.MarketplaceAddress == "" {
		return nil, fmt.Errorf("chain.marketplace_address is required")
	}

	return &cfg, nil
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Chain.RequestTimeout == 0 {
		cfg.Chain.RequestTimeout = 15 * time.Second
	}
	if cfg.Chain.MaxRetries == 0 {
		cfg.Chain.MaxRetries = 3
	}
	if cfg.Chain.SnapshotFanout == 0 {
		cfg.Chain.SnapshotFanout = 5
	}
	if cfg.Chain.NativeCurrency.Decimals == 0 {
		cfg.Chain.NativeCurrency.Decimals = 18
	}
	if cfg.Indexer.PageSize == 0 {
		cfg.Indexer.PageSize = 100
	}
	if cfg.Indexer.RequestTimeout == 0 {
		cfg.Indexer.RequestTimeout = 15 * time.Second
	}
	if cfg.Metadata.IPFSGateway == "" {
		cfg.Metadata.IPFSGateway = "https://ipfs.io/ipfs/"
	}
	if cfg.Metadata.PlaceholderImage == "" {
		cfg.Metadata.PlaceholderImage = "/static/img/placeholder.png"
	}
	if cfg.Metadata.RequestTimeout == 0 {
		cfg.Metadata.RequestTimeout = 10 * time.Second
	}
	if cfg.Session.TTL == 0 {
		cfg.Session.TTL = 24 * time.Hour
	}
}
