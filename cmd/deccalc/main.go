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

// Command deccalc evaluates fixed-point decimal expressions from the
// command line or an interactive prompt, printing each result with the
// DECIMAL type it was computed at.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pingcap/errors"
	"github.com/pingcap/log"

	"github.com/flintdb/decimal/config"
	"github.com/flintdb/decimal/types"
	"github.com/flintdb/decimal/util/logutil"
	"github.com/flintdb/decimal/util/printer"
)

// Flag Names
const (
	nmVersion            = "V"
	nmConfig             = "config"
	nmConfigCheck        = "config-check"
	nmLogLevel           = "L"
	nmLogFile            = "log-file"
	nmRoundMode          = "round"
	nmNullOnOverflow     = "null-on-overflow"
	nmAllowNegativeScale = "allow-negative-scale"
)

var (
	version     = flagBoolean(nmVersion, false, "print version information and exit")
	configPath  = flag.String(nmConfig, "", "config file path")
	configCheck = flagBoolean(nmConfigCheck, false, "check config file validity and exit")

	// Log
	logLevel = flag.String(nmLogLevel, "", "log level: info, debug, warn, error, fatal")
	logFile  = flag.String(nmLogFile, "", "log file path")

	// Evaluation
	roundMode          = flag.String(nmRoundMode, "halfup", "rounding mode when a round expression names none: halfup, halfeven, ceiling, floor")
	nullOnOverflow     = flagBoolean(nmNullOnOverflow, false, "degrade out-of-range results to NULL instead of raising an error")
	allowNegativeScale = flagBoolean(nmAllowNegativeScale, false, "permit negative scales, the multiplied-out integer forms")
)

var cfg *config.Config

func main() {
	flag.Parse()
	if *version {
		fmt.Println(printer.GetEngineInfo())
		os.Exit(0)
	}
	configWarning := loadConfig()
	overrideConfig()
	if err := cfg.Valid(); err != nil {
		fmt.Fprintln(os.Stderr, "invalid config", err)
		os.Exit(1)
	}
	if *configCheck {
		fmt.Println("config check successful")
		os.Exit(0)
	}
	config.StoreGlobalConfig(cfg)
	setupLog()
	// If configWarning is not an empty string, write it to the log now that
	// it's been properly set up.
	if configWarning != "" {
		log.Warn(configWarning)
	}
	printer.PrintEngineInfo()

	policy := types.OverflowError
	if *nullOnOverflow {
		policy = types.OverflowNull
	}
	if args := flag.Args(); len(args) > 0 {
		out, err := evalExpr(strings.Join(args, " "), policy)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Println(out)
		exit()
	}
	runPrompt(policy)
	exit()
}

func exit() {
	if err := log.Sync(); err != nil {
		fmt.Fprintln(os.Stderr, "sync log err:", err)
		os.Exit(1)
	}
	os.Exit(0)
}

func flagBoolean(name string, defaultVal bool, usage string) *bool {
	if !defaultVal {
		// golang does not print default false value in usage, so we append it.
		usage = fmt.Sprintf("%s (default false)", usage)
		return flag.Bool(name, defaultVal, usage)
	}
	return flag.Bool(name, defaultVal, usage)
}

func loadConfig() string {
	cfg = config.NewConfig()
	if *configPath != "" {
		err := cfg.Load(*configPath)
		// Unknown options are a warning, not a startup failure; the message
		// is deferred until logging has been set up.
		if _, ok := err.(*config.ErrConfigValidationFailed); ok && !*configCheck {
			return err.Error()
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
	return ""
}

func overrideConfig() {
	actualFlags := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) {
		actualFlags[f.Name] = true
	})
	if actualFlags[nmLogLevel] {
		cfg.Log.Level = *logLevel
	}
	if actualFlags[nmLogFile] {
		cfg.Log.File.Filename = *logFile
	}
	if actualFlags[nmAllowNegativeScale] {
		cfg.AllowNegativeScale = *allowNegativeScale
	}
}

func setupLog() {
	if err := logutil.InitLogger(cfg.Log.ToLogConfig()); err != nil {
		fmt.Fprintln(os.Stderr, "invalid log config", err)
		os.Exit(1)
	}
}

func runPrompt(policy types.OverflowPolicy) {
	scanner := bufio.NewScanner(os.Stdin)
	fmt.Print("> ")
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			fmt.Print("> ")
			continue
		case "exit", "quit":
			return
		}
		out, err := evalExpr(line, policy)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
		} else {
			fmt.Println(out)
		}
		fmt.Print("> ")
	}
}

// evalExpr evaluates one expression: a bare literal, a unary operation
// like "neg 1.5", a binary one like "1.5 + 2.25", or a rounding request
// "round 1.45 1 halfup".
func evalExpr(expr string, policy types.OverflowPolicy) (string, error) {
	fields := strings.Fields(expr)
	switch len(fields) {
	case 1:
		d, err := types.NewDecFromString(fields[0])
		if err != nil {
			return "", errors.Trace(err)
		}
		return formatResult(d), nil
	case 2:
		return evalUnary(fields[0], fields[1])
	case 3:
		if fields[0] == "round" {
			return evalRound(fields[1], fields[2], *roundMode, policy)
		}
		return evalBinary(fields[0], fields[1], fields[2], policy)
	case 4:
		if fields[0] == "round" {
			return evalRound(fields[1], fields[2], fields[3], policy)
		}
	}
	return "", errors.Errorf("cannot parse expression %q", expr)
}

func evalUnary(op, arg string) (string, error) {
	d, err := types.NewDecFromString(arg)
	if err != nil {
		return "", errors.Trace(err)
	}
	switch op {
	case "neg":
		return formatResult(types.DecimalNeg(d)), nil
	case "abs":
		return formatResult(d.Abs()), nil
	case "floor":
		r, err := d.Floor()
		if err != nil {
			return "", errors.Trace(err)
		}
		return formatResult(r), nil
	case "ceil":
		r, err := d.Ceil()
		if err != nil {
			return "", errors.Trace(err)
		}
		return formatResult(r), nil
	case "hash":
		return fmt.Sprintf("%#016x", d.Hash()), nil
	}
	return "", errors.Errorf("unknown operation %q", op)
}

func evalBinary(lhs, op, rhs string, policy types.OverflowPolicy) (string, error) {
	a, err := types.NewDecFromString(lhs)
	if err != nil {
		return "", errors.Trace(err)
	}
	b, err := types.NewDecFromString(rhs)
	if err != nil {
		return "", errors.Trace(err)
	}
	var r *types.Decimal
	switch op {
	case "+":
		r, err = types.DecimalAdd(a, b, policy)
	case "-":
		r, err = types.DecimalSub(a, b, policy)
	case "*":
		r, err = types.DecimalMul(a, b, policy)
	case "/":
		r, err = types.DecimalDiv(a, b, policy)
	case "%":
		r, err = types.DecimalMod(a, b, policy)
	case "quot", "div":
		r, err = types.DecimalQuo(a, b, policy)
	case "cmp":
		return strconv.Itoa(a.Compare(b)), nil
	default:
		return "", errors.Errorf("unknown operator %q", op)
	}
	if err != nil {
		return "", errors.Trace(err)
	}
	return formatResult(r), nil
}

func evalRound(arg, scaleStr, modeStr string, policy types.OverflowPolicy) (string, error) {
	d, err := types.NewDecFromString(arg)
	if err != nil {
		return "", errors.Trace(err)
	}
	scale, err := strconv.Atoi(scaleStr)
	if err != nil {
		return "", errors.Trace(err)
	}
	mode, err := parseRoundMode(modeStr)
	if err != nil {
		return "", errors.Trace(err)
	}
	r, err := d.ToPrecision(d.Precision(), scale, mode, policy)
	if err != nil {
		return "", errors.Trace(err)
	}
	return formatResult(r), nil
}

func parseRoundMode(s string) (types.RoundMode, error) {
	switch strings.ToLower(s) {
	case "halfup":
		return types.ModeHalfUp, nil
	case "halfeven":
		return types.ModeHalfEven, nil
	case "ceiling":
		return types.ModeCeiling, nil
	case "floor":
		return types.ModeFloor, nil
	}
	return 0, errors.Errorf("unknown rounding mode %q", s)
}

func formatResult(d *types.Decimal) string {
	if d == nil {
		return "NULL"
	}
	return fmt.Sprintf("%s\tDECIMAL(%d, %d)", d.String(), d.Precision(), d.Scale())
}
