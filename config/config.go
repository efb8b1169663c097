package config

import (
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds the host-process settings for the ttshell binary. Values come
// from command-line flags, TTSHELL_-prefixed environment variables, or
// defaults, in that order of precedence.
type Config struct {
	v *viper.Viper
}

// Load parses args (not including the program name) and overlays them on the
// environment and defaults.
func (c *Config) Load(args []string) error {
	v := viper.New()
	v.SetDefault("table-size-mb", 64)
	v.SetDefault("memory-fraction", 0.0)
	v.SetDefault("debug", false)
	v.SetEnvPrefix("ttshell")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	fs := pflag.NewFlagSet("ttshell", pflag.ContinueOnError)
	fs.Int("table-size-mb", 64, "transposition table size in megabytes (4-4096)")
	fs.Float64("memory-fraction", 0,
		"if positive, size the table from this fraction of system memory instead of table-size-mb")
	fs.Bool("debug", false, "verbose logging")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := v.BindPFlags(fs); err != nil {
		return err
	}
	c.v = v
	return nil
}

func (c *Config) TableSizeMB() int { return c.v.GetInt("table-size-mb") }

func (c *Config) MemoryFraction() float64 { return c.v.GetFloat64("memory-fraction") }

func (c *Config) GetBool(key string) bool { return c.v.GetBool(key) }
