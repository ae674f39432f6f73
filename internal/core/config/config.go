package config

import (
	"time"
)

// AppConfig represents the top-level configuration.
type AppConfig struct {
	Server   ServerConfig   `yaml:"server"`
	Chain    ChainConfig    `yaml:"chain"`
	Indexer  IndexerConfig  `yaml:"indexer"`
	Metadata MetadataConfig `yaml:"metadata"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Session  SessionConfig  `yaml:"session"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

// NativeCurrency describes the chain's native token for wallet clients.
type NativeCurrency struct {
	Name     string `yaml:"name"     json:"name"`
	Symbol   string `yaml:"symbol"   json:"symbol"`
	Decimals int    `yaml:"decimals" json:"decimals"`
}

// ChainConfig holds everything needed to talk to the marketplace chain and
// to describe the network to a wallet client.
type ChainConfig struct {
	RPCURL             string         `yaml:"rpc_url"`
	MarketplaceAddress string         `yaml:"marketplace_address"`
	ChainID            int64          `yaml:"chain_id"`
	ChainName          string         `yaml:"chain_name"`
	NativeCurrency     NativeCurrency `yaml:"native_currency"`
	ExplorerURL        string         `yaml:"explorer_url"`
	BlockGasLimit      int64          `yaml:"block_gas_limit"`
	RequestTimeout     time.Duration  `yaml:"request_timeout"`
	MaxRetries         int            `yaml:"max_retries"`
	SnapshotFanout     int            `yaml:"snapshot_fanout"`
}

// IndexerConfig holds NFT ownership indexer settings.
type IndexerConfig struct {
	URL            string        `yaml:"url"`
	APIKey         string        `yaml:"api_key"`
	PageSize       int           `yaml:"page_size"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

// MetadataConfig holds token metadata resolution settings.
type MetadataConfig struct {
	IPFSGateway      string        `yaml:"ipfs_gateway"`
	PlaceholderImage string        `yaml:"placeholder_image"`
	RequestTimeout   time.Duration `yaml:"request_timeout"`
}

// DatabaseConfig holds PostgreSQL connection configuration.
type DatabaseConfig struct {
	URL      string `yaml:"url"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// RedisConfig holds Redis connection configuration. An empty URL selects
// the in-memory session store.
type RedisConfig struct {
	URL      string `yaml:"url"`
	Password string `yaml:"password"`
}

// SessionConfig controls session cookie lifetime.
type SessionConfig struct {
	TTL time.Duration `yaml:"ttl"`
}
