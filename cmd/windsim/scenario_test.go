// cmd/windsim/scenario_test.go
// Copyright(c) 2022-2025 windsim contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package main

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"strings"
	"testing"

	"github.com/mmp/windsim/util"
	"github.com/mmp/windsim/wx"
)

const testScenarioYAML = `
name: approach
winds:
  seed: 17
  turbulence:
    type: tustin
    severity: 4
    windspeed_at_20ft: 25
  wind:
    speed: 15
    heading: 45
  gust:
    start: 0.5
    startup_duration: 0.5
    steady_duration: 1
    end_duration: 0.5
    magnitude: 12
    frame: body
    direction: [0, 1, 0]
  thermals:
    velocity_scale: 2.5
trajectory:
  latitude: 37.5
  longitude: -122.2
  altitude: 2500
  ground_elevation: 500
  heading: 270
  airspeed: 180
  climb_rate: -10
`

func TestParseScenario(t *testing.T) {
	s, err := ParseScenario(strings.NewReader(testScenarioYAML), "yaml", "test.yaml")
	if err != nil {
		t.Fatal(err)
	}

	if s.Name != "approach" {
		t.Errorf("name %q", s.Name)
	}
	c := s.Winds
	if c.Seed != 17 || c.Turbulence.Type != "tustin" || c.Turbulence.Severity != 4 || c.Turbulence.WindspeedAt20ft != 25 {
		t.Errorf("turbulence config %+v", c.Turbulence)
	}
	// Defaults fill in what the file doesn't specify.
	if c.Turbulence.Gain != 1 || c.Turbulence.Rate != 10 {
		t.Errorf("turbulence defaults not applied: %+v", c.Turbulence)
	}
	if c.Wind.Speed == nil || *c.Wind.Speed != 15 || c.Wind.Heading == nil || *c.Wind.Heading != 45 {
		t.Errorf("wind config %+v", c.Wind)
	}
	if g := c.Gust; g == nil || g.Frame != "body" || g.Direction != [3]float64{0, 1, 0} || g.Magnitude != 12 {
		t.Errorf("gust config %+v", c.Gust)
	}
	if c.Thermals.VelocityScale != 2.5 || c.Thermals.LayerThickness != 1000 {
		t.Errorf("thermal config %+v", c.Thermals)
	}
	if tr := s.Trajectory; tr.Heading != 270 || tr.Wingspan != 35 || tr.GroundElevation != 500 {
		t.Errorf("trajectory %+v", tr)
	}

	var e util.ErrorLogger
	s.Validate(&e)
	if e.HaveErrors() {
		t.Errorf("unexpected errors: %s", e.String())
	}
}

func TestScenarioName(t *testing.T) {
	s, err := ParseScenario(strings.NewReader(`{"trajectory": {"airspeed": 100}}`), "json", "dir/calm.json")
	if err != nil {
		t.Fatal(err)
	}
	if s.Name != "calm" {
		t.Errorf("name %q, expected the file's base name", s.Name)
	}
	if s.Trajectory.Airspeed != 100 || s.Trajectory.Altitude != 3000 {
		t.Errorf("trajectory %+v", s.Trajectory)
	}
}

func TestScenarioValidate(t *testing.T) {
	s, err := ParseScenario(strings.NewReader(`
name = "bad"
[winds.turbulence]
type = "vonkarman"
[trajectory]
latitude = 95.0
airspeed = -3.0
`), "toml", "bad.toml")
	if err != nil {
		t.Fatal(err)
	}

	var e util.ErrorLogger
	s.Validate(&e)
	str := e.String()
	for _, expected := range []string{"bad / turbulence", "bad / trajectory: latitude", "bad / trajectory: negative airspeed"} {
		if !strings.Contains(str, expected) {
			t.Errorf("expected error containing %q, got %q", expected, str)
		}
	}
}

func TestTrajectoryInputs(t *testing.T) {
	tr := Trajectory{Latitude: 40, Longitude: -105, Altitude: 6000, GroundElevation: 5000, Heading: 90,
		Airspeed: 100, ClimbRate: 5, Wingspan: 30}
	in := tr.Inputs(10, 0.01)

	if in.AltitudeASL != 6050 || in.DistanceAGL != 1050 || in.V != 100 || in.DeltaT != 0.01 || in.SimTime != 10 {
		t.Errorf("inputs %+v", in)
	}
	start := tr.Inputs(0, 0.01).Location
	// 1000 ft east
	if d := start.DistanceTo(in.Location.Longitude, in.Location.Latitude); d < 990 || d > 1010 {
		t.Errorf("moved %f ft, expected 1000", d)
	}
	if in.Location.Longitude <= start.Longitude {
		t.Errorf("didn't move east")
	}
}

func TestScenarioRun(t *testing.T) {
	s, err := ParseScenario(strings.NewReader(testScenarioYAML), "yaml", "test.yaml")
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	opts := RunOptions{Steps: 400, DeltaT: 0.01, Seed: s.Winds.Seed}
	winds, err := s.Run(&buf, opts, nil)
	if err != nil {
		t.Fatal(err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != opts.Steps+1 {
		t.Fatalf("%d records, expected %d", len(records), opts.Steps+1)
	}
	if len(records[0]) != len(csvHeader) || records[0][0] != "time" {
		t.Errorf("header %v", records[0])
	}

	col := func(name string) int {
		for i, h := range csvHeader {
			if h == name {
				return i
			}
		}
		t.Fatalf("%s: no such column", name)
		return -1
	}
	sawGust := false
	for _, r := range records[1:] {
		if len(r) != len(csvHeader) {
			t.Fatalf("record %v has %d fields", r, len(r))
		}
		for _, f := range r {
			if _, err := strconv.ParseFloat(f, 64); err != nil {
				t.Fatalf("record %v: %v", r, err)
			}
		}
		if r[col("gust_n")] != "0.000000" || r[col("gust_e")] != "0.000000" {
			sawGust = true
		}
		if h := r[col("wind_heading")]; h != "45.000000" {
			t.Errorf("wind heading %s, expected 45", h)
		}
	}
	if !sawGust {
		t.Errorf("the gust never started")
	}

	if winds.TurbulenceType() != wx.TurbulenceTustin || winds.ThermalField() == nil {
		t.Errorf("scenario configuration not applied")
	}
	if winds.GustRunning() {
		t.Errorf("gust still running at the end of the scenario")
	}

	// Runs are reproducible.
	var buf2 bytes.Buffer
	if _, err := s.Run(&buf2, opts, nil); err != nil {
		t.Fatal(err)
	}
	var buf3 bytes.Buffer
	s.Run(&buf3, opts, nil)
	if buf2.String() != buf3.String() {
		t.Errorf("identically seeded runs differ")
	}
}
