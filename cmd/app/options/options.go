package options

import (
	"github.com/spf13/cobra"
)

const DefaultConfigPath = "./config.json"

type Options struct {
	// ConfigPath points at the JSON config merged over the defaults.
	ConfigPath string

	LogLevel string
}

func (o *Options) Flags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&o.ConfigPath, "config", DefaultConfigPath, "Path to the JSON config file")
	flags.StringVar(&o.LogLevel, "log-level", "info", "Log level (debug|info|warn|error)")
}

func NewOptions() *Options {
	return &Options{}
}
