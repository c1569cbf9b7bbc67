package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// Config represents the simulator configuration
type Config struct {
	// Execution settings
	Execution struct {
		MaxCycles   uint64 `toml:"max_cycles"`
		Entry       string `toml:"entry"`
		EnableTrace bool   `toml:"enable_trace"`
		TraceFile   string `toml:"trace_file"`
	} `toml:"execution"`

	// Processor settings
	Processor struct {
		HighVectors   bool `toml:"high_vectors"`
		AlignmentUBit bool `toml:"alignment_u_bit"`
		BigEndianEE   bool `toml:"big_endian_exceptions"`
		SharedMemory  bool `toml:"shared_memory"`
		ProcessorID   int  `toml:"processor_id"`
	} `toml:"processor"`

	// Unpredictable-event policy
	Unpredictable struct {
		Policy string `toml:"policy"` // ignore, log, halt
	} `toml:"unpredictable"`

	// Monitor settings
	Monitor struct {
		HistorySize  int `toml:"history_size"`
		BytesPerLine int `toml:"bytes_per_line"`
	} `toml:"monitor"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Execution.MaxCycles = 1000000
	cfg.Execution.Entry = "0x8000"
	cfg.Execution.EnableTrace = false

	cfg.Processor.AlignmentUBit = true

	cfg.Unpredictable.Policy = "log"

	cfg.Monitor.HistorySize = 1000
	cfg.Monitor.BytesPerLine = 16

	return cfg
}

// DefaultConfigPath returns the per-user configuration file location
func DefaultConfigPath() string {
	var base string
	if runtime.GOOS == "windows" {
		base = os.Getenv("APPDATA")
	} else {
		base = os.Getenv("XDG_CONFIG_HOME")
		if base == "" {
			home, err := os.UserHomeDir()
			if err == nil {
				base = filepath.Join(home, ".config")
			}
		}
	}
	if base == "" {
		return "armv6-emulator.toml"
	}
	return filepath.Join(base, "armv6-emulator", "config.toml")
}

// Load reads a TOML configuration file, filling unset fields with defaults
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		path = DefaultConfigPath()
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return cfg, nil
		}
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks configuration values for consistency
func (c *Config) Validate() error {
	switch c.Unpredictable.Policy {
	case "ignore", "log", "halt":
	default:
		return fmt.Errorf("invalid unpredictable policy %q (want ignore, log or halt)", c.Unpredictable.Policy)
	}
	if c.Monitor.BytesPerLine <= 0 || c.Monitor.BytesPerLine > 64 {
		return fmt.Errorf("invalid bytes_per_line %d (want 1..64)", c.Monitor.BytesPerLine)
	}
	return nil
}

// Save writes the configuration to a TOML file
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(c)
}
