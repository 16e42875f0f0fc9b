package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gowire.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("writing test config: %v", err)
	}
	return path
}

func TestLoadAppliesWireFormatDefaultsWhenSectionOmitted(t *testing.T) {
	path := writeConfig(t, `
broker_uri: tcp://localhost:61616
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !cfg.WireFormat.TightEncodingEnabled {
		t.Fatalf("expected tight encoding to default to enabled")
	}
	if cfg.WireFormat.Version != 2 {
		t.Fatalf("expected default version 2, got %d", cfg.WireFormat.Version)
	}
	if cfg.RequestTimeout().Seconds() != 15 {
		t.Fatalf("expected default 15s request timeout, got %v", cfg.RequestTimeout())
	}
}

func TestLoadHonorsExplicitWireFormat(t *testing.T) {
	path := writeConfig(t, `
broker_uri: tcp://localhost:61616
wire_format:
  version: 9
  tight_encoding_enabled: false
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.WireFormat.Version != 9 {
		t.Fatalf("expected explicit version 9, got %d", cfg.WireFormat.Version)
	}
	if cfg.WireFormat.TightEncodingEnabled {
		t.Fatalf("expected tight encoding to stay disabled as configured")
	}
}

func TestLoadRejectsMissingBrokerURI(t *testing.T) {
	path := writeConfig(t, `debug: true`)
	if _, err := Load(path); err == nil {
		t.Fatalf("expected an error for a missing broker_uri")
	}
}

func TestLoadRejectsDurableAsyncSendWithoutEnabled(t *testing.T) {
	path := writeConfig(t, `
broker_uri: tcp://localhost:61616
async_send:
  durable: true
`)
	if _, err := Load(path); err == nil {
		t.Fatalf("expected an error for durable async_send without enabled")
	}
}

func TestLoadDefaultsDurableStoreDir(t *testing.T) {
	path := writeConfig(t, `
broker_uri: tcp://localhost:61616
async_send:
  enabled: true
  durable: true
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.AsyncSend.StoreDir == "" {
		t.Fatalf("expected a default store_dir to be applied")
	}
}

func TestWireFormatOfferReflectsConfig(t *testing.T) {
	path := writeConfig(t, `
broker_uri: tcp://localhost:61616
wire_format:
  version: 3
  cache_enabled: true
  cache_size: 512
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	offer := cfg.WireFormatOffer()
	if offer.Version != 3 || offer.CacheSize != 512 || !offer.CacheEnabled {
		t.Fatalf("unexpected offer: %+v", offer)
	}
}
