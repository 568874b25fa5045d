// cmd/windsim/main.go
// Copyright(c) 2022-2025 windsim contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// windsim flies simple trajectories through configurable atmospheric
// disturbances and writes the resulting wind components as CSV.
// Usage: windsim [flags] scenario.{json,yaml,toml}...

package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/mmp/windsim/log"
	"github.com/mmp/windsim/util"
	"github.com/mmp/windsim/wx"

	"github.com/goforj/godump"
	"golang.org/x/sync/errgroup"
)

var (
	steps       = flag.Int("steps", 1200, "Number of simulation steps to run")
	deltaT      = flag.Float64("dt", 1.0/120, "Simulation step size, in seconds")
	seed        = flag.Int64("seed", 1, "Random seed for scenarios that don't specify one")
	logLevel    = flag.String("loglevel", "info", "Logging level: debug, info, warn, error")
	logDir      = flag.String("logdir", "", "Log file directory")
	outDir      = flag.String("outdir", ".", "Directory for the CSV output files")
	dumpThermal = flag.Bool("thermals", false, "Print each scenario's thermal field")
	dumpState   = flag.Bool("dump", false, "Print each scenario's final disturbance state")
	saveField   = flag.String("save-field", "", "Save the scenario's thermal field to the given file")
	loadField   = flag.String("load-field", "", "Use the thermal field from the given file")
)

func main() {
	flag.Parse()

	usage := func() {
		fmt.Fprintf(os.Stderr, "usage: windsim [flags] scenario...\nwhere [flags] may be:\n")
		flag.PrintDefaults()
		os.Exit(1)
	}
	if len(flag.Args()) == 0 || *steps <= 0 || *deltaT <= 0 {
		usage()
	}
	if *saveField != "" && len(flag.Args()) > 1 {
		fmt.Fprintln(os.Stderr, "-save-field can only be used with a single scenario")
		os.Exit(1)
	}

	lg := log.New(*logLevel, *logDir)

	var scenarios []*Scenario
	var e util.ErrorLogger
	for _, path := range flag.Args() {
		s, err := LoadScenario(path)
		if err != nil {
			e.Push(path)
			e.Error(err)
			e.Pop()
			continue
		}
		s.Validate(&e)
		scenarios = append(scenarios, s)
	}
	if e.HaveErrors() {
		e.PrintErrors(lg)
		os.Exit(1)
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	var stdoutMu sync.Mutex
	printf := func(format string, args ...any) {
		stdoutMu.Lock()
		defer stdoutMu.Unlock()
		fmt.Printf(format, args...)
	}

	var eg errgroup.Group
	for i, s := range scenarios {
		opts := RunOptions{
			Steps:  *steps,
			DeltaT: *deltaT,
			Seed:   s.Winds.Seed,
		}
		if opts.Seed == 0 {
			opts.Seed = *seed + int64(i)
		}

		eg.Go(func() error {
			if *loadField != "" {
				// Each scenario gets its own copy of the field.
				f, err := loadThermalField(*loadField, lg)
				if err != nil {
					return err
				}
				opts.Field = f
			}

			winds, err := runScenario(s, opts, lg)
			if err != nil {
				return fmt.Errorf("%s: %w", s.Name, err)
			}

			if *dumpThermal {
				if info, err := winds.DumpThermalInfo(); err == nil {
					printf("%s: %s\n", s.Name, info)
				} else {
					lg.Warnf("%s: %v", s.Name, err)
					printf("%s: %v\n", s.Name, err)
				}
			}
			if *dumpState {
				printf("%s:\n%s\n", s.Name, godump.DumpStr(winds.Snapshot()))
			}
			if *saveField != "" {
				return saveThermalField(winds, *saveField, lg)
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		lg.Errorf("%v", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runScenario(s *Scenario, opts RunOptions, lg *log.Logger) (*wx.Winds, error) {
	path := filepath.Join(*outDir, s.Name+".csv")
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	winds, err := s.Run(f, opts, lg)
	if err != nil {
		return nil, err
	}
	lg.Infof("%s: wrote %d steps to %s", s.Name, opts.Steps, path)
	return winds, f.Close()
}

func loadThermalField(path string, lg *log.Logger) (*wx.ThermalField, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return wx.LoadThermalField(f, lg)
}

func saveThermalField(winds *wx.Winds, path string, lg *log.Logger) error {
	field := winds.ThermalField()
	if field == nil {
		return fmt.Errorf("%s: %w", path, wx.ErrNoThermalField)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := field.Save(f); err != nil {
		return err
	}
	lg.Info("saved thermal field", "path", path, "thermals", len(field.Cells))
	return f.Close()
}
