// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package cgminer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Command-line and configuration file keys
const (
	ArgHelp        = "help"
	ArgDebugLog    = "debugLog"
	ArgCgminerHost = "cgminerHost"
	ArgCgminerPort = "cgminerPort"
)

// ErrHelp is returned by Config.ParseArgs when -help is on the command line
var ErrHelp = errors.New("help requested")

// Config holds the settings a program needs to reach one daemon
//
// Config is a plain value: load it, override it from the command line, and
// pass it to NewClientFromConfig. Nothing is kept in package state.
//
// File form (TOML):
//
//	cgminerHost = "192.168.1.50"
//	cgminerPort = 4028
//	debugLog = false
//
// File form (YAML):
//
//	cgminerHost: 192.168.1.50
//	cgminerPort: 4028
//	debugLog: false
type Config struct {
	Host     string `toml:"cgminerHost" yaml:"cgminerHost"`
	Port     int    `toml:"cgminerPort" yaml:"cgminerPort"`
	DebugLog bool   `toml:"debugLog" yaml:"debugLog"`
}

// DefaultConfig returns localhost:4028 with debug logging off
func DefaultConfig() Config {
	return Config{
		Host: DefaultHost,
		Port: DefaultPort,
	}
}

// LoadConfig reads a TOML (.toml) or YAML (.yaml, .yml) file on top of
// DefaultConfig. Keys missing from the file keep their defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
		}
	default:
		return cfg, fmt.Errorf("unsupported config file extension %q (want .toml, .yaml or .yml)", ext)
	}

	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// ParseArgs applies -key:value overrides and returns the updated Config
//
// Recognised arguments:
//
//	-cgminerHost:HOSTNAME
//	-cgminerPort:PORT_NUMBER
//	-debugLog:{true|false}
//	-help
//
// Other arguments are left for the caller. -help returns ErrHelp; print
// Usage and exit.
func (cfg Config) ParseArgs(args []string) (Config, error) {
	for _, arg := range args {
		if !strings.HasPrefix(arg, "-") {
			continue
		}
		name, value, hasValue := strings.Cut(arg[1:], ":")
		switch name {
		case ArgHelp:
			return cfg, ErrHelp
		case ArgCgminerHost:
			if !hasValue || value == "" {
				return cfg, fmt.Errorf("-%s: missing value", name)
			}
			cfg.Host = value
		case ArgCgminerPort:
			if !hasValue || value == "" {
				return cfg, fmt.Errorf("-%s: missing value", name)
			}
			port, err := strconv.Atoi(value)
			if err != nil {
				return cfg, fmt.Errorf("-%s: %q is not a port number", name, value)
			}
			cfg.Port = port
		case ArgDebugLog:
			if !hasValue || value == "" {
				return cfg, fmt.Errorf("-%s: missing value", name)
			}
			enabled, err := strconv.ParseBool(value)
			if err != nil {
				return cfg, fmt.Errorf("-%s: %q is not true or false", name, value)
			}
			cfg.DebugLog = enabled
		}
	}

	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Usage returns the command-line help text
func Usage() string {
	var b strings.Builder
	b.WriteString("Command-line options:\n")
	b.WriteString("  -help\n\tPrint this screen for command-line argument options and exit\n")
	b.WriteString("  -debugLog:{true|false} (default false)\n\tEnable|Disable debug logging\n")
	fmt.Fprintf(&b, "  -cgminerHost:HOSTNAME (default: %s)\n\tSpecify hostname (or IP Address) of socket\n", DefaultHost)
	fmt.Fprintf(&b, "  -cgminerPort:PORT_NUMBER (default %d)\n\tSpecify port for socket connection to cgminer\n", DefaultPort)
	return b.String()
}

func (cfg Config) validate() error {
	if strings.TrimSpace(cfg.Host) == "" {
		return fmt.Errorf("%s required", ArgCgminerHost)
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return fmt.Errorf("%s: invalid port %d (must be 1-65535)", ArgCgminerPort, cfg.Port)
	}
	return nil
}
