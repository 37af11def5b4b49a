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

// Package printer prints the version banner of the decimal engine.
package printer

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/flintdb/decimal/config"
	"github.com/flintdb/decimal/util/logutil"
)

// Version information, overridden at build time through -ldflags.
var (
	ReleaseVersion = "None"
	BuildTS        = "None"
	GitHash        = "None"
	GitBranch      = "None"
	GoVersion      = "None"
)

// PrintEngineInfo logs the engine version information and the loaded
// configuration.
func PrintEngineInfo() {
	logutil.Logger(context.Background()).Info("Welcome to the FlintDB decimal engine.",
		zap.String("Release Version", ReleaseVersion),
		zap.String("Git Commit Hash", GitHash),
		zap.String("Git Branch", GitBranch),
		zap.String("UTC Build Time", BuildTS),
		zap.String("GoVersion", GoVersion))
	configJSON, err := json.Marshal(config.GetGlobalConfig())
	if err != nil {
		panic(err)
	}
	logutil.Logger(context.Background()).Info("loaded config", zap.ByteString("config", configJSON))
}

// GetEngineInfo returns the version block of this binary.
func GetEngineInfo() string {
	return fmt.Sprintf("Release Version: %s\n"+
		"Git Commit Hash: %s\n"+
		"Git Branch: %s\n"+
		"UTC Build Time: %s\n"+
		"GoVersion: %s",
		ReleaseVersion,
		GitHash,
		GitBranch,
		BuildTS,
		GoVersion)
}
