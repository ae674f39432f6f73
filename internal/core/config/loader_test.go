package config

import (
	"os"
	"testing"
	"time"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()

	tmpFile, err := os.CreateTemp(t.TempDir(), "config_*.yaml")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	if _, err := tmpFile.Write([]byte(content)); err != nil {
		t.Fatalf("Failed to write to temp file: %v", err)
	}
	tmpFile.Close()
	return tmpFile.Name()
}

func TestLoad_EnvSubstitution(t *testing.T) {
	os.Setenv("TEST_RPC_URL", "https://testnet-rpc.example.xyz")
	defer os.Unsetenv("TEST_RPC_URL")

	path := writeTempConfig(t, `
chain:
  rpc_url: ${TEST_RPC_URL}
  marketplace_address: "0x7dA4Bf6D0EdC392C82D6C8A5aac414810689B9AE"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Chain.RPCURL != "https://testnet-rpc.example.xyz" {
		t.Errorf("Expected expanded RPC URL, got %s", cfg.Chain.RPCURL)
	}
}

func TestLoad_Defaults(t *testing.T) {
	path := writeTempConfig(t, `
chain:
  rpc_url: "https://testnet-rpc.example.xyz"
  marketplace_address: "0x7dA4Bf6D0EdC392C82D6C8A5aac414810689B9AE"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Chain.RequestTimeout != 15*time.Second {
		t.Errorf("Expected default request timeout 15s, got %v", cfg.Chain.RequestTimeout)
	}
	if cfg.Metadata.IPFSGateway != "https://ipfs.io/ipfs/" {
		t.Errorf("Expected default IPFS gateway, got %s", cfg.Metadata.IPFSGateway)
	}
	if cfg.Indexer.PageSize != 100 {
		t.Errorf("Expected default page size 100, got %d", cfg.Indexer.PageSize)
	}
	if cfg.Chain.SnapshotFanout != 5 {
		t.Errorf("Expected default snapshot fanout 5, got %d", cfg.Chain.SnapshotFanout)
	}
}

func TestLoad_MissingRPCURL(t *testing.T) {
	path := writeTempConfig(t, `
chain:
  marketplace_address: "0x7dA4Bf6D0EdC392C82D6C8A5aac414810689B9AE"
`)

	if _, err := Load(path); err == nil {
		t.Fatal("Expected error for missing rpc_url, got nil")
	}
}
