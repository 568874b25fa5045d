// wx/config.go
// Copyright(c) 2022-2025 windsim contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package wx

import (
	gomath "math"

	"github.com/mmp/windsim/math"
	"github.com/mmp/windsim/util"
)

// Config is the complete set of operator inputs to Winds. It is usually
// loaded from a scenario file.
type Config struct {
	Turbulence TurbulenceConfig `json:"turbulence" mapstructure:"turbulence"`
	Wind       WindConfig       `json:"wind" mapstructure:"wind"`
	Gust       *GustConfig      `json:"gust,omitempty" mapstructure:"gust"`
	UserGust   [3]float64       `json:"user_gust" mapstructure:"user_gust"` // ft/s, NED
	Thermals   ThermalParams    `json:"thermals" mapstructure:"thermals"`
	Seed       int64            `json:"seed" mapstructure:"seed"`
}

type TurbulenceConfig struct {
	Type            string  `json:"type" mapstructure:"type"`
	Gain            float64 `json:"gain" mapstructure:"gain"`
	Rate            float64 `json:"rate" mapstructure:"rate"`
	Rhythmicity     float64 `json:"rhythmicity" mapstructure:"rhythmicity"`
	ClockwiseRate   float64 `json:"clockwise_rate" mapstructure:"clockwise_rate"`
	Severity        int     `json:"severity" mapstructure:"severity"`
	WindspeedAt20ft float64 `json:"windspeed_at_20ft" mapstructure:"windspeed_at_20ft"`
}

// WindConfig gives the steady wind as NED components (ft/s); if Speed is
// set, as a horizontal speed (ft/s) and the heading in degrees it blows
// towards; or, if From is set, the way a METAR does: the direction it
// blows from and its speed in knots.
type WindConfig struct {
	North float64 `json:"north" mapstructure:"north"`
	East  float64 `json:"east" mapstructure:"east"`
	Down  float64 `json:"down" mapstructure:"down"`

	Speed   *float64 `json:"speed,omitempty" mapstructure:"speed"`
	Heading *float64 `json:"heading,omitempty" mapstructure:"heading"`

	From  *float64 `json:"from,omitempty" mapstructure:"from"`
	Knots float64  `json:"knots" mapstructure:"knots"`
}

// GustConfig is a 1-cosine gust started at time Start (s).
type GustConfig struct {
	Start           float64    `json:"start" mapstructure:"start"`
	StartupDuration float64    `json:"startup_duration" mapstructure:"startup_duration"`
	SteadyDuration  float64    `json:"steady_duration" mapstructure:"steady_duration"`
	EndDuration     float64    `json:"end_duration" mapstructure:"end_duration"`
	Magnitude       float64    `json:"magnitude" mapstructure:"magnitude"`
	Frame           string     `json:"frame" mapstructure:"frame"`
	Direction       [3]float64 `json:"direction" mapstructure:"direction"`
}

func DefaultConfig() Config {
	p := DefaultTurbulenceParams()
	return Config{
		Turbulence: TurbulenceConfig{
			Type:        TurbulenceMilspec.String(),
			Gain:        p.Gain,
			Rate:        p.Rate,
			Rhythmicity: p.Rhythmicity,
		},
		Thermals: DefaultThermalParams(),
	}
}

func checkFinite(e *util.ErrorLogger, name string, vs ...float64) {
	for _, v := range vs {
		if !math.IsFinite(v) {
			e.ErrorString("%s: non-finite value %f", name, v)
			return
		}
	}
}

// Validate reports values in the configuration that can't be used.
// Values that are merely out of range aren't errors; they are clamped
// when the configuration is applied.
func (c *Config) Validate(e *util.ErrorLogger) {
	e.Push("turbulence")
	if _, err := ParseTurbulenceType(c.Turbulence.Type); err != nil {
		e.Error(err)
	}
	checkFinite(e, "turbulence parameters", c.Turbulence.Gain, c.Turbulence.Rate, c.Turbulence.Rhythmicity,
		c.Turbulence.ClockwiseRate, c.Turbulence.WindspeedAt20ft)
	e.Pop()

	e.Push("wind")
	checkFinite(e, "wind", c.Wind.North, c.Wind.East, c.Wind.Down)
	if c.Wind.Speed != nil {
		checkFinite(e, "speed", *c.Wind.Speed)
	}
	if c.Wind.Heading != nil {
		if c.Wind.Speed == nil {
			e.ErrorString("\"heading\" given without \"speed\"")
		}
		checkFinite(e, "heading", *c.Wind.Heading)
	}
	if c.Wind.From != nil {
		if c.Wind.Speed != nil {
			e.ErrorString("only one of \"speed\" and \"from\" may be given")
		}
		checkFinite(e, "from", *c.Wind.From, c.Wind.Knots)
	}
	checkFinite(e, "user gust", c.UserGust[:]...)
	e.Pop()

	if g := c.Gust; g != nil {
		e.Push("gust")
		if g.Frame != "" {
			if _, err := ParseGustFrame(g.Frame); err != nil {
				e.Error(err)
			}
		}
		checkFinite(e, "gust", g.Start, g.StartupDuration, g.SteadyDuration, g.EndDuration, g.Magnitude)
		checkFinite(e, "direction", g.Direction[:]...)
		if g.Start < 0 {
			e.ErrorString("negative start time %f", g.Start)
		}
		if g.StartupDuration < 0 || g.SteadyDuration < 0 || g.EndDuration < 0 {
			e.ErrorString("durations must be non-negative")
		}
		if g.Magnitude != 0 && math.Vec3(g.Direction).IsZero() {
			e.ErrorString("no direction given")
		}
		e.Pop()
	}

	e.Push("thermals")
	t := c.Thermals
	checkFinite(e, "thermals", t.VelocityScale, t.LayerThickness, t.AreaWidth, t.AreaHeight,
		t.VelocityScaleSTD, t.LayerThicknessSTD)
	if t.VelocityScale != 0 && NumThermals(t) == 0 {
		e.ErrorString("layer thickness and area must be large enough for at least one thermal")
	} else if n := thermalCount(t); n > MaxThermals {
		e.ErrorString("%.0f thermals needed to cover the area; at most %d are allowed", n, MaxThermals)
	}
	e.Pop()
}

// GustCommand returns the gust described by the configuration; the local
// frame is used if none is given.
func (g *GustConfig) GustCommand() GustCommand {
	frame, err := ParseGustFrame(g.Frame)
	if err != nil {
		frame = GustFrameLocal
	}
	return GustCommand{
		StartupDuration: g.StartupDuration,
		SteadyDuration:  g.SteadyDuration,
		EndDuration:     g.EndDuration,
		Magnitude:       g.Magnitude,
		Frame:           frame,
		Direction:       math.Vec3(g.Direction),
	}
}

// ApplyConfig applies a validated configuration; the settings persist
// until they are changed. The gust isn't started; the caller is
// responsible for starting it at c.Gust.Start.
func (w *Winds) ApplyConfig(c Config) {
	if t, err := ParseTurbulenceType(c.Turbulence.Type); err != nil {
		w.lg.Warn("ignoring invalid turbulence type", "error", err)
	} else {
		w.SetTurbulenceType(t)
	}
	w.SetTurbulenceParams(TurbulenceParams{
		Gain:            c.Turbulence.Gain,
		Rate:            c.Turbulence.Rate,
		Rhythmicity:     c.Turbulence.Rhythmicity,
		ClockwiseRate:   c.Turbulence.ClockwiseRate,
		Severity:        c.Turbulence.Severity,
		WindspeedAt20ft: c.Turbulence.WindspeedAt20ft,
	})

	if c.Wind.From != nil {
		v := NEDFromDirSpeed(*c.Wind.From, c.Wind.Knots)
		v[math.Down] = c.Wind.Down
		w.SetWindNED(v)
		if c.Wind.Knots != 0 {
			w.State.WindHeading = math.NormalizeAngle(gomath.Atan2(v[math.East], v[math.North]))
		}
	} else if c.Wind.Speed != nil {
		if c.Wind.Heading != nil {
			w.State.WindHeading = math.NormalizeAngle(math.Radians(*c.Wind.Heading))
		}
		w.SetWindspeed(*c.Wind.Speed)
		w.State.SteadyWind[math.Down] = c.Wind.Down
	} else {
		w.SetWindNED(math.Vec3{c.Wind.North, c.Wind.East, c.Wind.Down})
		if c.Wind.North != 0 || c.Wind.East != 0 {
			w.State.WindHeading = math.NormalizeAngle(gomath.Atan2(c.Wind.East, c.Wind.North))
		}
	}
	w.SetGustNED(math.Vec3(c.UserGust))

	if c.Thermals != w.thermalParams {
		w.SetThermalParams(c.Thermals)
		w.ResetThermalField()
	}
}
