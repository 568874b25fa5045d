// wx/gust.go
// Copyright(c) 2022-2025 windsim contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package wx

import (
	"fmt"
	gomath "math"
	"strings"

	"github.com/mmp/windsim/log"
	"github.com/mmp/windsim/math"
)

// GustFrame identifies the reference frame a gust direction is given in.
type GustFrame int

const (
	GustFrameNone GustFrame = iota
	GustFrameBody
	GustFrameWind
	GustFrameLocal
)

var gustFrameNames = [...]string{"none", "body", "wind", "local"}

func (f GustFrame) String() string {
	if f < 0 || int(f) >= len(gustFrameNames) {
		return fmt.Sprintf("GustFrame(%d)", int(f))
	}
	return gustFrameNames[f]
}

func ParseGustFrame(s string) (GustFrame, error) {
	for i, name := range gustFrameNames[GustFrameBody:] {
		if strings.EqualFold(s, name) {
			return GustFrame(i) + GustFrameBody, nil
		}
	}
	return GustFrameNone, fmt.Errorf("%q: %w", s, ErrInvalidGustFrame)
}

// GustCommand describes a 1-cosine gust: it ramps up over
// StartupDuration, holds for SteadyDuration and ramps down over
// EndDuration (all seconds). Direction is given in Frame and is
// normalized before use; Magnitude is in ft/s.
type GustCommand struct {
	StartupDuration float64
	SteadyDuration  float64
	EndDuration     float64
	Magnitude       float64
	Frame           GustFrame
	Direction       math.Vec3
}

func (c GustCommand) TotalDuration() float64 {
	return c.StartupDuration + c.SteadyDuration + c.EndDuration
}

// CosineGustProfile returns the gust shape factor in [0,1] at time t
// since the start of the gust.
func CosineGustProfile(startup, steady, end, t float64) float64 {
	switch {
	case t < 0:
		return 0
	case startup > 0 && t <= startup:
		return (1 - gomath.Cos(gomath.Pi*t/startup)) / 2
	case t <= startup+steady:
		return 1
	case t <= startup+steady+end:
		return (1 - gomath.Cos(gomath.Pi*(1-(t-(startup+steady))/end))) / 2
	default:
		return 0
	}
}

// GustProfile is the state machine for a single 1-cosine gust.
type GustProfile struct {
	cmd     GustCommand
	running bool
	elapsed float64

	// direction is the command's direction transformed into the local
	// frame when the gust starts running; it is held for the rest of the
	// gust so that attitude changes don't alter it.
	direction    math.Vec3
	directionSet bool
}

// Start (re)starts the gust with the given command. Negative durations
// are treated as zero.
func (g *GustProfile) Start(cmd GustCommand, lg *log.Logger) {
	cmd.StartupDuration = math.Max(cmd.StartupDuration, 0)
	cmd.SteadyDuration = math.Max(cmd.SteadyDuration, 0)
	cmd.EndDuration = math.Max(cmd.EndDuration, 0)
	if cmd.Frame == GustFrameNone {
		cmd.Frame = GustFrameLocal
	}

	if g.running {
		lg.Debug("restarting running gust", "elapsed", g.elapsed)
	}
	lg.Debug("starting gust", "frame", cmd.Frame.String(), "magnitude", cmd.Magnitude,
		"duration", cmd.TotalDuration())

	g.cmd = cmd
	g.running = true
	g.elapsed = 0
	g.direction, g.directionSet = math.Vec3{}, false
}

// Stop returns the gust to the idle state.
func (g *GustProfile) Stop() {
	g.running = false
	g.elapsed = 0
	g.direction, g.directionSet = math.Vec3{}, false
}

func (g *GustProfile) Running() bool {
	return g.running
}

func (g *GustProfile) Elapsed() float64 {
	return g.elapsed
}

func (g *GustProfile) Command() GustCommand {
	return g.cmd
}

// localDirection returns the command direction transformed to NED.
func (g *GustProfile) localDirection(in *Inputs) math.Vec3 {
	v := g.cmd.Direction.Normalize()
	switch g.cmd.Frame {
	case GustFrameBody:
		return in.Tl2b.Transpose().MulVec(v)
	case GustFrameWind:
		return in.Tl2b.Transpose().PostMultiply(in.Tw2b).MulVec(v)
	default:
		// Local is the native frame.
		return v
	}
}

// Step returns the gust velocity (ft/s, NED) for the current step and
// advances the gust's clock.
func (g *GustProfile) Step(in *Inputs, lg *log.Logger) math.Vec3 {
	if !g.running {
		return math.Vec3{}
	}

	factor := CosineGustProfile(g.cmd.StartupDuration, g.cmd.SteadyDuration, g.cmd.EndDuration, g.elapsed)

	if !g.directionSet {
		g.direction = g.localDirection(in)
		g.directionSet = true
	}

	v := g.direction.Scale(factor * g.cmd.Magnitude)

	g.elapsed += in.DeltaT
	if g.elapsed > g.cmd.TotalDuration() {
		lg.Debug("gust finished", "elapsed", g.elapsed)
		g.Stop()
		return math.Vec3{}
	}
	return v
}
