// Package config defines the CLI structure and configuration for omnishock.
package config

import (
	"github.com/omnishock/omnishock/internal/cmd"
)

type Log struct {
	Level   string `help:"Log level: trace, debug, info, warn, error" default:"info" env:"OMNISHOCK_LOG_LEVEL"`
	File    string `help:"Log file path (default: none; logs only to console)" env:"OMNISHOCK_LOG_FILE"`
	RawFile string `help:"Raw packet log file path (default: none)" env:"OMNISHOCK_LOG_RAW_FILE"`
}

// CLI is the root command structure for Kong CLI parsing.
type CLI struct {
	Config string `help:"Configuration file (json, yaml or toml)" type:"path" env:"OMNISHOCK_CONFIG"`
	Log    `embed:"" prefix:"log."`

	PS2CE      cmd.PS2CE         `cmd:"" name:"ps2ce" help:"Drive a PS2 Controller Emulator from the first connected controller"`
	Test       cmd.Test          `cmd:"" help:"Print controller events without a device attached"`
	Ports      cmd.Ports         `cmd:"" help:"List serial ports"`
	ConfigCmds cmd.ConfigCommand `cmd:"" name:"config" help:"Configuration file helpers"`
}
