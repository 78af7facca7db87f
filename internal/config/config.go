// Package config declares the CLI surface parsed by kong. Values are
// resolved from flags, WIDOWLINK_* environment variables and config
// files (JSON/YAML/TOML), in that priority order.
package config

import "github.com/robolabs/widowlink/internal/cmd"

type LogConfig struct {
	Level   string `help:"Log level (trace|debug|info|warn|error)" default:"info" env:"WIDOWLINK_LOG_LEVEL"`
	File    string `help:"Write logs to this file instead of stdout/stderr" env:"WIDOWLINK_LOG_FILE"`
	RawFile string `help:"Hex-dump pad reports and arm frames to this file" env:"WIDOWLINK_LOG_RAW_FILE"`
}

type CLI struct {
	Log    LogConfig `embed:"" prefix:"log."`
	Config string    `help:"Path to a config file" type:"path" env:"WIDOWLINK_CONFIG"`

	Run       cmd.Run           `cmd:"" default:"withargs" help:"Bridge a DualShock 4 controller to a WidowX arm"`
	ConfigCmd cmd.ConfigCommand `cmd:"" name:"config" help:"Configuration utilities"`
}
