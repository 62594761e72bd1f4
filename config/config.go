package pngmeta_config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Jdcabreradev/pngmeta/logger"
	"github.com/Jdcabreradev/pngmeta/png"
)

// RewriteConfig holds everything the pngmeta tool needs for one rewrite
type RewriteConfig struct {
	Keyword      string         `yaml:"keyword"`        // tEXt keyword to insert
	Value        string         `yaml:"value"`          // Text stored under Keyword
	Output       string         `yaml:"output"`         // Output path (empty: derive from input)
	OutputSuffix string         `yaml:"output_suffix"`  // Appended to the input name when Output is empty
	LogMode      pnglog.LogMode `yaml:"-"`              // Logging verbosity
	LogModeName  string         `yaml:"log_mode"`       // LogMode as text, parsed by Validate
	LogDir       string         `yaml:"log_dir"`        // Log file directory (non-DEV modes)
	MaxInputSize int64          `yaml:"max_input_size"` // Largest accepted input in bytes (zero for no limit)
	Verify       bool           `yaml:"verify"`         // Re-walk the output and check every chunk CRC
}

// DefaultConfig returns the configuration used when no file or flags override it
func DefaultConfig() *RewriteConfig {
	return &RewriteConfig{
		Keyword:      "Rev3alIdKey",
		Value:        "!PWNED!",
		OutputSuffix: "-modified",
		LogMode:      pnglog.DEV,
		LogModeName:  pnglog.DEV.String(),
		LogDir:       "./logs",
		MaxInputSize: 64 << 20,
		Verify:       true,
	}
}

// LoadFile reads a YAML config file on top of DefaultConfig.
// An empty path returns the defaults; a named file that cannot be read is an error.
func LoadFile(path string) (*RewriteConfig, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks if the configuration is valid and resolves LogModeName
func (c *RewriteConfig) Validate() error {
	if err := png.ValidateKeyword(c.Keyword); err != nil {
		return fmt.Errorf("keyword %q: %w", c.Keyword, err)
	}
	if c.Output == "" && c.OutputSuffix == "" {
		return fmt.Errorf("output or output_suffix must be set")
	}
	if c.MaxInputSize < 0 {
		return fmt.Errorf("max_input_size must not be negative")
	}

	if c.LogModeName != "" {
		mode, err := pnglog.ParseLogMode(c.LogModeName)
		if err != nil {
			return err
		}
		c.LogMode = mode
	}
	if c.LogMode != pnglog.DEV && c.LogDir == "" {
		return fmt.Errorf("log_dir must be set for log mode %s", c.LogMode)
	}
	return nil
}
