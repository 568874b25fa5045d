// cmd/windsim/scenario.go
// Copyright(c) 2022-2025 windsim contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package main

import (
	"encoding/csv"
	"fmt"
	"io"
	gomath "math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mmp/windsim/log"
	"github.com/mmp/windsim/math"
	"github.com/mmp/windsim/rand"
	"github.com/mmp/windsim/util"
	"github.com/mmp/windsim/wx"

	"github.com/spf13/viper"
)

// Scenario is a disturbance configuration and a simple straight-line
// trajectory to fly through it.
type Scenario struct {
	Name       string     `mapstructure:"name"`
	Winds      wx.Config  `mapstructure:"winds"`
	Trajectory Trajectory `mapstructure:"trajectory"`
}

// Trajectory describes constant-velocity flight from a starting point.
// Angles are in degrees and distances in feet.
type Trajectory struct {
	Latitude        float64 `mapstructure:"latitude"`
	Longitude       float64 `mapstructure:"longitude"`
	Altitude        float64 `mapstructure:"altitude"`         // MSL
	GroundElevation float64 `mapstructure:"ground_elevation"` // MSL
	Heading         float64 `mapstructure:"heading"`
	Pitch           float64 `mapstructure:"pitch"`
	Roll            float64 `mapstructure:"roll"`
	Alpha           float64 `mapstructure:"alpha"`
	Beta            float64 `mapstructure:"beta"`
	Airspeed        float64 `mapstructure:"airspeed"`   // ft/s
	ClimbRate       float64 `mapstructure:"climb_rate"` // ft/s
	Wingspan        float64 `mapstructure:"wingspan"`
}

func setScenarioDefaults(v *viper.Viper) {
	c := wx.DefaultConfig()
	v.SetDefault("winds.turbulence.type", c.Turbulence.Type)
	v.SetDefault("winds.turbulence.gain", c.Turbulence.Gain)
	v.SetDefault("winds.turbulence.rate", c.Turbulence.Rate)
	v.SetDefault("winds.turbulence.rhythmicity", c.Turbulence.Rhythmicity)
	v.SetDefault("winds.thermals.layer_thickness", c.Thermals.LayerThickness)
	v.SetDefault("winds.thermals.area_width", c.Thermals.AreaWidth)
	v.SetDefault("winds.thermals.area_height", c.Thermals.AreaHeight)

	v.SetDefault("trajectory.altitude", 3000)
	v.SetDefault("trajectory.airspeed", 200)
	v.SetDefault("trajectory.wingspan", 35)
}

// LoadScenario reads a scenario from a JSON, YAML or TOML file; the
// format is determined by the file's extension.
func LoadScenario(path string) (*Scenario, error) {
	v := viper.New()
	setScenarioDefaults(v)
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading scenario file: %w", err)
	}
	return unmarshalScenario(v, path)
}

// ParseScenario reads a scenario from r; typ is the configuration format
// ("json", "yaml" or "toml").
func ParseScenario(r io.Reader, typ string, name string) (*Scenario, error) {
	v := viper.New()
	setScenarioDefaults(v)
	v.SetConfigType(typ)

	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading scenario: %w", err)
	}
	return unmarshalScenario(v, name)
}

func unmarshalScenario(v *viper.Viper, path string) (*Scenario, error) {
	var s Scenario
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("error decoding scenario: %w", err)
	}
	if s.Name == "" {
		s.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return &s, nil
}

func (s *Scenario) Validate(e *util.ErrorLogger) {
	e.Push(s.Name)
	defer e.Pop()

	s.Winds.Validate(e)

	e.Push("trajectory")
	t := s.Trajectory
	if t.Latitude < -90 || t.Latitude > 90 {
		e.ErrorString("latitude %f out of range", t.Latitude)
	}
	if t.Airspeed < 0 {
		e.ErrorString("negative airspeed %f", t.Airspeed)
	}
	if t.Wingspan < 0 {
		e.ErrorString("negative wingspan %f", t.Wingspan)
	}
	e.Pop()
}

// RunOptions control a scenario run.
type RunOptions struct {
	Steps  int
	DeltaT float64
	Seed   int64
	// Field, if non-nil, is used in place of a randomly generated
	// thermal field.
	Field *wx.ThermalField
}

// Inputs returns the vehicle state at time t.
func (t Trajectory) Inputs(simTime, dt float64) *wx.Inputs {
	start := math.LocationFromDegrees(t.Longitude, t.Latitude, t.Altitude)

	hdg := math.Radians(t.Heading)
	d := t.Airspeed * simTime
	dh := t.ClimbRate * simTime
	loc := start.LocalToLocation(math.Vec3{d * gomath.Cos(hdg), d * gomath.Sin(hdg), 0})
	loc = loc.WithRadius(start.Radius + dh)

	alt := t.Altitude + dh
	return &wx.Inputs{
		AltitudeASL: alt,
		DistanceAGL: alt - t.GroundElevation,
		V:           t.Airspeed,
		Wingspan:    t.Wingspan,
		Location:    loc,
		Tl2b:        math.LocalToBody(math.Radians(t.Roll), math.Radians(t.Pitch), hdg),
		Tw2b:        math.WindToBody(math.Radians(t.Alpha), math.Radians(t.Beta)),
		SimTime:     simTime,
		DeltaT:      dt,
	}
}

var csvHeader = []string{
	"time",
	"total_n", "total_e", "total_d",
	"steady_n", "steady_e", "steady_d",
	"gust_n", "gust_e", "gust_d",
	"turb_n", "turb_e", "turb_d",
	"thermal_d",
	"turb_p", "turb_q", "turb_r",
	"wind_heading", "turb_direction",
}

// Run flies the scenario's trajectory through its disturbance field,
// writing a CSV record of the disturbances at each step to w. The Winds
// is returned so that its final state can be inspected.
func (s *Scenario) Run(w io.Writer, opts RunOptions, lg *log.Logger) (*wx.Winds, error) {
	lg = lg.With("scenario", s.Name)

	winds := wx.NewWinds(rand.Make(opts.Seed), lg)
	winds.ApplyConfig(s.Winds)
	if opts.Field != nil {
		winds.SetThermalField(opts.Field)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return nil, err
	}

	gustStarted := false
	rec := make([]string, 0, len(csvHeader))
	for i := range opts.Steps {
		simTime := float64(i) * opts.DeltaT
		if g := s.Winds.Gust; g != nil && !gustStarted && simTime >= g.Start {
			lg.Info("starting gust", "time", simTime)
			winds.StartGust(g.GustCommand())
			gustStarted = true
		}

		winds.Run(s.Trajectory.Inputs(simTime, opts.DeltaT))

		st := &winds.State
		rec = rec[:0]
		rec = append(rec, formatFloat(simTime))
		for _, v := range []math.Vec3{st.TotalWind, st.SteadyWind, st.Gust, st.Turbulence} {
			rec = append(rec, formatFloat(v[0]), formatFloat(v[1]), formatFloat(v[2]))
		}
		rec = append(rec, formatFloat(st.Thermal[math.Down]))
		rec = append(rec, formatFloat(st.TurbulentPQR[0]), formatFloat(st.TurbulentPQR[1]),
			formatFloat(st.TurbulentPQR[2]))
		rec = append(rec, formatFloat(math.Degrees(st.WindHeading)), formatFloat(st.TurbulenceDirection))

		if err := cw.Write(rec); err != nil {
			return nil, err
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return nil, err
	}

	lg.Info("finished scenario", "steps", opts.Steps)

	return winds, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
