// Copyright 2023 FlintDB, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config holds the engine-wide configuration: the decimal
// behavior switches and the log section. The active configuration is a
// process-global value swapped atomically, so readers never lock.
package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"go.uber.org/atomic"

	"github.com/flintdb/decimal/util/logutil"
)

// Config number limitations.
const (
	// MaxLogFileSize is the biggest accepted log file size in MB.
	MaxLogFileSize = 4096
)

// ValidLogLevels are the log levels InitLogger accepts. The empty string
// falls back to the info level.
var ValidLogLevels = map[string]bool{
	"":      true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
	"fatal": true,
}

// Config contains configuration options.
type Config struct {
	// AllowNegativeScale permits decimals whose scale is below zero, the
	// multiplied-out integer forms like 5 * 10^2. When off, construction
	// rescales such values to scale 0 and rescale requests below zero fail.
	AllowNegativeScale bool `toml:"allow-negative-scale" json:"allow-negative-scale"`

	Log Log `toml:"log" json:"log"`
}

// Log is the log section of config.
type Log struct {
	// Log level.
	Level string `toml:"level" json:"level"`
	// Log format, one of json, text, or console.
	Format string `toml:"format" json:"format"`
	// Disable automatic timestamps in output.
	DisableTimestamp bool `toml:"disable-timestamp" json:"disable-timestamp"`
	// File log config.
	File logutil.FileLogConfig `toml:"file" json:"file"`
}

// The ErrConfigValidationFailed error is used so that external callers can
// do a type assertion and defer handling of this specific error, which is
// raised before logging has been set up.
type ErrConfigValidationFailed struct {
	err string
}

func (e *ErrConfigValidationFailed) Error() string {
	return e.err
}

var defaultConf = Config{
	AllowNegativeScale: false,
	Log: Log{
		Level:  "info",
		Format: "text",
		File:   logutil.NewFileLogConfig(logutil.DefaultLogMaxSize),
	},
}

var globalConf = atomic.Value{}

// NewConfig creates a new config instance with default value.
func NewConfig() *Config {
	conf := defaultConf
	return &conf
}

// GetGlobalConfig returns the global configuration for this process. It
// holds the values from the configuration file and command line. Other
// parts of the system read the global configuration through this function.
func GetGlobalConfig() *Config {
	return globalConf.Load().(*Config)
}

// StoreGlobalConfig atomically swaps in a new global configuration. The
// stored value must not be mutated afterwards.
func StoreGlobalConfig(config *Config) {
	globalConf.Store(config)
}

// Load loads config options from a toml file.
func (c *Config) Load(confFile string) error {
	metaData, err := toml.DecodeFile(confFile, c)

	// If any items in confFile file are not mapped into the Config struct,
	// issue an error and stop the process from starting.
	undecoded := metaData.Undecoded()
	if len(undecoded) > 0 && err == nil {
		var undecodedItems []string
		for _, item := range undecoded {
			undecodedItems = append(undecodedItems, item.String())
		}
		err = &ErrConfigValidationFailed{fmt.Sprintf("config file %s contained unknown configuration options: %s", confFile, strings.Join(undecodedItems, ", "))}
	}

	return err
}

// Valid checks if this config is valid.
func (c *Config) Valid() error {
	c.Log.Level = strings.ToLower(c.Log.Level)
	if !ValidLogLevels[c.Log.Level] {
		nameList := make([]string, 0, len(ValidLogLevels))
		for k, v := range ValidLogLevels {
			if v && k != "" {
				nameList = append(nameList, k)
			}
		}
		return fmt.Errorf("invalid log level=%s, valid levels=%v", c.Log.Level, nameList)
	}
	if c.Log.File.MaxSize > MaxLogFileSize {
		return fmt.Errorf("invalid max log file size=%v which is larger than max=%v", c.Log.File.MaxSize, MaxLogFileSize)
	}
	return nil
}

// ToLogConfig converts *Log to *logutil.LogConfig.
func (l *Log) ToLogConfig() *logutil.LogConfig {
	return logutil.NewLogConfig(l.Level, l.Format, l.File, l.DisableTimestamp)
}

func init() {
	globalConf.Store(&defaultConf)
}
