// Package config loads YAML connection-factory configuration the way
// cellorg/internal/config.Config loads gox.yaml (code/cellorg/internal/
// config/config.go): gopkg.in/yaml.v3 unmarshalling into tagged structs,
// post-unmarshal defaulting, then validation — generalized here from
// cellorg's agent-pool/cell topology to gowire's connection-factory
// settings (SPEC_FULL.md §A.3).
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tenzoki/gowire/internal/wireformat"
)

// Config is the on-disk shape of a gowire connection factory's
// configuration: the broker URI, the client's wire format and feature
// flag preferences (spec.md §4.1's negotiation offer), and the
// connection-level async-send options of spec.md §6.
type Config struct {
	BrokerURI string `yaml:"broker_uri"`
	ClientId  string `yaml:"client_id"`
	UserName  string `yaml:"username"`
	Password  string `yaml:"password"`
	Debug     bool   `yaml:"debug"`

	RequestTimeoutSeconds int `yaml:"request_timeout_seconds"`

	WireFormat WireFormatConfig `yaml:"wire_format"`
	AsyncSend  AsyncSendConfig  `yaml:"async_send"`
	Capture    CaptureConfig    `yaml:"capture"`
}

// WireFormatConfig mirrors wireformat.WireFormatInfo's fields. It is
// loaded and defaulted here but not applied anywhere: client.FromConfig
// does not pass it on, and a Connection always offers
// wireformat.DefaultClientWireFormatInfo.
type WireFormatConfig struct {
	Version                           int32 `yaml:"version"`
	TightEncodingEnabled              bool  `yaml:"tight_encoding_enabled"`
	SizePrefixDisabled                bool  `yaml:"size_prefix_disabled"`
	CacheEnabled                      bool  `yaml:"cache_enabled"`
	CacheSize                         int32 `yaml:"cache_size"`
	StackTraceEnabled                 bool  `yaml:"stack_trace_enabled"`
	TcpNoDelayEnabled                 bool  `yaml:"tcp_nodelay_enabled"`
	MaxInactivityDurationMillis       int64 `yaml:"max_inactivity_duration_millis"`
	MaxInactivityDurationInitialDelayMillis int64 `yaml:"max_inactivity_duration_initial_delay_millis"`
}

// AsyncSendConfig is the connection-level async-send configuration of
// spec.md §6: whether sends are queued asynchronously at all, and
// (SPEC_FULL.md §B.1) whether that queue is durably staged to disk.
type AsyncSendConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Durable  bool   `yaml:"durable"`
	StoreDir string `yaml:"store_dir"`
}

// CaptureConfig controls the optional wire capture/replay hook of
// SPEC_FULL.md §B.2: off unless a file is explicitly configured.
type CaptureConfig struct {
	File string `yaml:"file"`
}

// Load reads and parses a YAML config file at filename, applies
// gowire's defaults for anything left zero, and validates the result.
func Load(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", filename, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", filename, err)
	}
	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.WireFormat == (WireFormatConfig{}) {
		// No wire_format section at all: take gowire's stock offer
		// wholesale, including the feature-flag booleans a partially
		// specified section would otherwise leave at their zero value.
		d := wireformat.DefaultClientWireFormatInfo()
		c.WireFormat = WireFormatConfig{
			Version:                                  d.Version,
			TightEncodingEnabled:                     d.TightEncodingEnabled,
			SizePrefixDisabled:                        d.SizePrefixDisabled,
			CacheEnabled:                              d.CacheEnabled,
			CacheSize:                                 d.CacheSize,
			StackTraceEnabled:                         d.StackTraceEnabled,
			TcpNoDelayEnabled:                         d.TcpNoDelayEnabled,
			MaxInactivityDurationMillis:                d.MaxInactivityDuration,
			MaxInactivityDurationInitialDelayMillis:    d.MaxInactivityDurationInitialDelay,
		}
	}
	if c.RequestTimeoutSeconds == 0 {
		c.RequestTimeoutSeconds = 15
	}
	if c.AsyncSend.Durable && c.AsyncSend.StoreDir == "" {
		c.AsyncSend.StoreDir = "gowire-async-send"
	}
}

func (c *Config) validate() error {
	if c.BrokerURI == "" {
		return fmt.Errorf("config: broker_uri is required")
	}
	if c.WireFormat.Version <= 0 {
		return fmt.Errorf("config: wire_format.version must be positive, got %d", c.WireFormat.Version)
	}
	if c.RequestTimeoutSeconds < 0 {
		return fmt.Errorf("config: request_timeout_seconds cannot be negative: %d", c.RequestTimeoutSeconds)
	}
	if c.AsyncSend.Durable && !c.AsyncSend.Enabled {
		return fmt.Errorf("config: async_send.durable requires async_send.enabled")
	}
	return nil
}

// RequestTimeout returns the configured synchronous-request timeout as
// a time.Duration, for direct use by connection.Options.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// WireFormatOffer builds the WireFormatInfo gowire should offer at
// connect time from this configuration, overriding
// DefaultClientWireFormatInfo()'s fields one by one.
func (c *Config) WireFormatOffer() *wireformat.WireFormatInfo {
	return &wireformat.WireFormatInfo{
		Version:                           c.WireFormat.Version,
		TightEncodingEnabled:              c.WireFormat.TightEncodingEnabled,
		SizePrefixDisabled:                c.WireFormat.SizePrefixDisabled,
		CacheEnabled:                      c.WireFormat.CacheEnabled,
		CacheSize:                         c.WireFormat.CacheSize,
		StackTraceEnabled:                 c.WireFormat.StackTraceEnabled,
		TcpNoDelayEnabled:                 c.WireFormat.TcpNoDelayEnabled,
		MaxInactivityDuration:             c.WireFormat.MaxInactivityDurationMillis,
		MaxInactivityDurationInitialDelay: c.WireFormat.MaxInactivityDurationInitialDelayMillis,
	}
}
