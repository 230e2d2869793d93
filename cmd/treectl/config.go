package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/joshuapare/treekit/internal/textenc"
	"github.com/joshuapare/treekit/pkg/treefile"
	"github.com/joshuapare/treekit/pkg/types"
)

// Config supplies defaults for flags the user did not set.
//
//	encoding: UTF-16LE
//	overwrite: true
//	depth: 4
//	color: false
//	limits: strict
type Config struct {
	Encoding  string `yaml:"encoding"`
	Overwrite bool   `yaml:"overwrite"`
	Depth     int    `yaml:"depth"`
	Color     *bool  `yaml:"color"`
	Limits    string `yaml:"limits"` // "default" or "strict"
}

func loadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if c.Encoding != "" && !textenc.Valid(c.Encoding) {
		return Config{}, fmt.Errorf("config %s: unsupported encoding %q", path, c.Encoding)
	}
	if _, err := c.limits(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return c, nil
}

func (c Config) limits() (types.Limits, error) {
	switch c.Limits {
	case "", "default":
		return types.DefaultLimits(), nil
	case "strict":
		return types.StrictLimits(), nil
	default:
		return types.Limits{}, fmt.Errorf("unknown limits preset %q", c.Limits)
	}
}

// encodingFor returns the --encoding flag when set, else the configured
// encoding.
func encodingFor(cmd *cobra.Command, flag string) string {
	if cmd != nil && cmd.Flags().Changed("encoding") {
		return flag
	}
	if cfg.Encoding != "" {
		return cfg.Encoding
	}
	return flag
}

// overwriteFor returns the --overwrite flag when set, else the configured
// default.
func overwriteFor(cmd *cobra.Command, flag bool) bool {
	if cmd != nil && cmd.Flags().Changed("overwrite") {
		return flag
	}
	return flag || cfg.Overwrite
}

// depthFor returns the --depth flag when set, else the configured depth.
func depthFor(cmd *cobra.Command, flag int) int {
	if cmd != nil && cmd.Flags().Changed("depth") {
		return flag
	}
	if cfg.Depth > 0 {
		return cfg.Depth
	}
	return flag
}

// fileOptions builds treefile options from the config and encoding.
func fileOptions(encoding string) *treefile.Options {
	limits, _ := cfg.limits()
	return &treefile.Options{Encoding: encoding, Limits: &limits}
}
