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

package main

import (
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/pingcap/log"

	"github.com/flintdb/decimal/types"
	"github.com/flintdb/decimal/util/logutil"
)

var (
	count    = flag.Int("count", 1000000, "number of operations per job")
	logLevel = flag.String("L", "warn", "log level")
	runJobs  = flag.String("run", strings.Join([]string{
		"parse",
		"add",
		"mul",
		"div",
		"rescale",
		"compare",
		"hash",
	}, "|"), "jobs to run")
)

// Results are written to package-level sinks so the compiler cannot
// discard the benchmarked calls.
var (
	sinkDec    *types.Decimal
	sinkInt    int
	sinkUint64 uint64
)

func main() {
	flag.Parse()
	flag.PrintDefaults()
	err := logutil.InitLogger(logutil.NewLogConfig(*logLevel, logutil.DefaultLogFormat, logutil.EmptyFileLogConfig, false))
	if err != nil {
		log.Fatal(err.Error())
	}
	ut := newBenchDec()
	works := strings.Split(*runJobs, "|")
	for _, v := range works {
		work := strings.ToLower(strings.TrimSpace(v))
		switch work {
		case "parse":
			ut.benchParse()
		case "add":
			ut.benchAdd()
		case "mul":
			ut.benchMul()
		case "div":
			ut.benchDiv()
		case "rescale":
			ut.benchRescale()
		case "compare":
			ut.benchCompare()
		case "hash":
			ut.benchHash()
		default:
			cLog("Unknown job ", v)
			return
		}
	}
}

type benchDec struct {
	inputs []string
	small  []*types.Decimal
	wide   []*types.Decimal
}

func newBenchDec() *benchDec {
	inputs := []string{
		"0",
		"1",
		"-1",
		"123.45",
		"-9999.9999",
		"0.000000000000000001",
		"98765432109876543210.12345678",
		"-12345678901234567890123456789012345.678",
	}
	ut := &benchDec{inputs: inputs}
	for _, s := range inputs {
		d, err := types.NewDecFromString(s)
		if err != nil {
			log.Fatal(err.Error())
		}
		if d.Precision() <= 18 {
			ut.small = append(ut.small, d)
		} else {
			ut.wide = append(ut.wide, d)
		}
	}
	return ut
}

func (ut *benchDec) runCountTimes(name string, count int, f func()) {
	var (
		sum, first, last time.Duration
		min              = time.Minute
		max              = time.Nanosecond
	)
	cLogf("%s started", name)
	for i := 0; i < count; i++ {
		before := time.Now()
		f()
		dur := time.Since(before)
		if first == 0 {
			first = dur
		}
		last = dur
		if dur < min {
			min = dur
		}
		if dur > max {
			max = dur
		}
		sum += dur
	}
	cLogf("%s done, avg %s, count %d, sum %s, first %s, last %s, max %s, min %s\n\n",
		name, sum/time.Duration(count), count, sum, first, last, max, min)
}

func (ut *benchDec) benchParse() {
	i := 0
	ut.runCountTimes("parse", *count, func() {
		s := ut.inputs[i%len(ut.inputs)]
		d, err := types.NewDecFromString(s)
		if err != nil {
			log.Fatal(err.Error())
		}
		sinkDec = d
		i++
	})
}

func (ut *benchDec) benchAdd() {
	ut.benchBinary("add-small", ut.small, types.DecimalAdd)
	ut.benchBinary("add-wide", ut.wide, types.DecimalAdd)
}

func (ut *benchDec) benchMul() {
	ut.benchBinary("mul-small", ut.small, types.DecimalMul)
	ut.benchBinary("mul-wide", ut.wide, types.DecimalMul)
}

func (ut *benchDec) benchDiv() {
	ut.benchBinary("div-small", ut.small, types.DecimalDiv)
	ut.benchBinary("div-wide", ut.wide, types.DecimalDiv)
}

func (ut *benchDec) benchBinary(name string, pool []*types.Decimal, op func(a, b *types.Decimal, policy types.OverflowPolicy) (*types.Decimal, error)) {
	i := 0
	ut.runCountTimes(name, *count, func() {
		a := pool[i%len(pool)]
		b := pool[(i+1)%len(pool)]
		// Overflow and division by zero are expected for some operand
		// pairs; only the cost of the call matters here.
		d, _ := op(a, b, types.OverflowNull)
		sinkDec = d
		i++
	})
}

func (ut *benchDec) benchRescale() {
	pool := append(ut.small, ut.wide...)
	// One builder reused across iterations; this is the hot accumulator
	// path, so allocations here would show up directly in the numbers.
	var m types.MutableDecimal
	i := 0
	ut.runCountTimes("rescale", *count, func() {
		d := pool[i%len(pool)]
		m.SetDecimal(d)
		if err := m.Rescale(types.MaxPrecision, 2, types.ModeHalfUp); err != nil {
			log.Fatal(err.Error())
		}
		sinkDec = m.Value()
		i++
	})
}

func (ut *benchDec) benchCompare() {
	pool := append(ut.small, ut.wide...)
	i := 0
	ut.runCountTimes("compare", *count, func() {
		a := pool[i%len(pool)]
		b := pool[(i+1)%len(pool)]
		sinkInt = a.Compare(b)
		i++
	})
}

func (ut *benchDec) benchHash() {
	pool := append(ut.small, ut.wide...)
	i := 0
	ut.runCountTimes("hash", *count, func() {
		sinkUint64 = pool[i%len(pool)].Hash()
		i++
	})
}

func cLogf(format string, args ...interface{}) {
	str := fmt.Sprintf(format, args...)
	fmt.Println("\033[0;32m" + str + "\033[0m\n")
}

func cLog(args ...interface{}) {
	str := fmt.Sprint(args...)
	fmt.Println("\033[0;32m" + str + "\033[0m\n")
}
