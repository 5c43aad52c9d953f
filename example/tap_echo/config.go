package main

import (
	"fmt"
	"os"

	"github.com/jessevdk/go-flags"
	"gopkg.in/yaml.v3"

	"github.com/feifeigood/ethertap/lg"
)

const defaultDevice = "tap0"

type options struct {
	Config   string `short:"C" long:"config" description:"YAML configuration file"`
	Device   string `short:"d" long:"dev" description:"interface to attach to (default: tap0)"`
	LogLevel string `long:"loglevel" description:"log level (debug, info, warn, error, fatal)"`
	Tun      bool   `long:"tun" description:"open a layer 3 tunnel instead of a TAP interface"`
}

type config struct {
	Device     string      `yaml:"dev"`
	LogLevel   lg.LogLevel `yaml:"loglevel"`
	Tun        bool        `yaml:"tun"`
	BufferSize int         `yaml:"buffer_size"`
}

// loadConfig reads the optional config file and lets flags given on the
// command line override it.
func loadConfig(args []string) (*config, error) {
	var opts options
	if _, err := flags.NewParser(&opts, flags.Default).ParseArgs(args); err != nil {
		return nil, err
	}

	cfg := &config{Device: defaultDevice, LogLevel: lg.INFO}
	if opts.Config != "" {
		b, err := os.ReadFile(opts.Config)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("%s: %w", opts.Config, err)
		}
	}

	if opts.Device != "" {
		cfg.Device = opts.Device
	}
	if opts.LogLevel != "" {
		lvl, err := lg.ParseLogLevel(opts.LogLevel)
		if err != nil {
			return nil, err
		}
		cfg.LogLevel = lvl
	}
	if opts.Tun {
		cfg.Tun = true
	}
	return cfg, nil
}
