// wx/winds.go
// Copyright(c) 2022-2025 windsim contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package wx

import (
	gomath "math"

	"github.com/mmp/windsim/log"
	"github.com/mmp/windsim/math"
	"github.com/mmp/windsim/rand"

	"github.com/brunoga/deep"
)

// Winds computes the atmospheric disturbances acting on a single vehicle:
// steady wind, user and 1-cosine gusts, turbulence and thermals. Run is
// called once per simulation step. A Winds is not safe for concurrent
// use; each vehicle should have its own, with its own random source.
type Winds struct {
	State DisturbanceState

	turbulence TurbulenceModel
	turbParams TurbulenceParams

	gust GustProfile

	thermalParams ThermalParams
	thermals      *ThermalField

	rand *rand.Rand
	lg   *log.Logger
}

// NewWinds returns a Winds with the default configuration: calm steady
// wind, MIL-F-8785C turbulence with severity 0 (off) and no thermals. If
// r is nil, a new unseeded generator is used.
func NewWinds(r *rand.Rand, lg *log.Logger) *Winds {
	if r == nil {
		r = rand.New()
	}
	w := &Winds{
		turbParams:    DefaultTurbulenceParams(),
		thermalParams: DefaultThermalParams(),
		rand:          r,
		lg:            lg,
	}
	w.turbulence = NewTurbulenceModel(TurbulenceMilspec, r)
	return w
}

// Init returns the model to its initial state. Configuration and the
// steady wind are kept; the wind heading, the other outputs, the gust,
// the turbulence filters and the thermal field's origin are reset.
func (w *Winds) Init() {
	w.State = DisturbanceState{SteadyWind: w.State.SteadyWind}

	w.turbulence.Reset()
	w.gust.Stop()
	if w.thermals != nil {
		w.thermals.originSet = false
		w.thermals.cellLL = nil
	}
}

// Run advances all of the disturbance models by one step.
func (w *Winds) Run(in *Inputs) {
	st := &w.State

	if w.turbulence.Type() != TurbulenceNone {
		st.Turbulence, st.TurbulentPQR = w.turbulence.Step(in, w.turbParams, st.WindHeading)
		st.TurbulenceDirection = TurbulenceDirection(st.Turbulence)
	} else {
		st.Turbulence, st.TurbulentPQR, st.TurbulenceDirection = math.Vec3{}, math.Vec3{}, 0
	}

	st.Gust = w.gust.Step(in, w.lg)

	if w.thermalParams.VelocityScale != 0 {
		if w.thermals == nil {
			w.thermals = NewThermalField(w.thermalParams, w.rand, w.lg)
		}
		st.Thermal = w.thermals.Update(in)
	} else {
		st.Thermal = math.Vec3{}
	}

	st.TotalWind = st.SteadyWind.Add(st.UserGust).Add(st.Gust).Add(st.Turbulence).Add(st.Thermal)

	// The wind heading is the direction the wind is blowing *towards*; it
	// is held when there is no horizontal steady wind.
	if n, e := st.SteadyWind[math.North], st.SteadyWind[math.East]; n != 0 || e != 0 {
		st.WindHeading = math.NormalizeAngle(gomath.Atan2(e, n))
	}
}

///////////////////////////////////////////////////////////////////////////
// Steady wind

func (w *Winds) SetWindNED(v math.Vec3) {
	w.State.SteadyWind = v
}

func (w *Winds) WindNED() math.Vec3 {
	return w.State.SteadyWind
}

// SetWindspeed sets the horizontal steady wind speed (ft/s) along the
// current wind heading.
func (w *Winds) SetWindspeed(speed float64) {
	s, c := gomath.Sincos(w.State.WindHeading)
	w.State.SteadyWind = math.Vec3{speed * c, speed * s, 0}
}

func (w *Winds) Windspeed() float64 {
	return w.State.SteadyWind.Length()
}

// SetWindPsi sets the direction the steady wind blows towards (radians),
// keeping its speed.
func (w *Winds) SetWindPsi(psi float64) {
	speed := w.Windspeed()
	w.State.WindHeading = math.NormalizeAngle(psi)
	w.SetWindspeed(speed)
}

func (w *Winds) WindPsi() float64 {
	return w.State.WindHeading
}

// SetGustNED sets a gust velocity that is added directly to the total
// wind until it is changed.
func (w *Winds) SetGustNED(v math.Vec3) {
	w.State.UserGust = v
}

///////////////////////////////////////////////////////////////////////////
// Turbulence

// SetTurbulenceType selects the turbulence model; a new model with empty
// filter memory is created if the type changes.
func (w *Winds) SetTurbulenceType(t TurbulenceType) {
	if t == w.turbulence.Type() {
		return
	}
	w.lg.Debug("turbulence model changed", "from", w.turbulence.Type().String(), "to", t.String())
	w.turbulence = NewTurbulenceModel(t, w.rand)
	w.State.Turbulence, w.State.TurbulentPQR, w.State.TurbulenceDirection = math.Vec3{}, math.Vec3{}, 0
}

func (w *Winds) TurbulenceType() TurbulenceType {
	return w.turbulence.Type()
}

// SetTurbulenceParams sets the turbulence parameters; values outside of
// the models' valid ranges are clamped.
func (w *Winds) SetTurbulenceParams(p TurbulenceParams) {
	if c := p.Clamped(); c != p {
		w.lg.Warn("turbulence parameters clamped", "requested", p, "clamped", c)
		p = c
	}
	w.turbParams = p
}

func (w *Winds) TurbulenceParams() TurbulenceParams {
	return w.turbParams
}

// FilterMemory returns the spectral turbulence filter history; the bool
// is false if a spectral model isn't selected.
func (w *Winds) FilterMemory() (FilterMemory, bool) {
	if s, ok := w.turbulence.(*spectralTurbulence); ok {
		return s.Memory, true
	}
	return FilterMemory{}, false
}

///////////////////////////////////////////////////////////////////////////
// 1-cosine gust

// StartGust starts a 1-cosine gust, replacing any gust that is running.
func (w *Winds) StartGust(cmd GustCommand) {
	w.gust.Start(cmd, w.lg)
}

func (w *Winds) GustRunning() bool {
	return w.gust.Running()
}

func (w *Winds) Gust() *GustProfile {
	return &w.gust
}

///////////////////////////////////////////////////////////////////////////
// Thermals

// SetThermalParams sets the thermal parameters. An existing field is
// kept; call ResetThermalField to rebuild it with the new parameters.
func (w *Winds) SetThermalParams(p ThermalParams) {
	w.thermalParams = p
}

func (w *Winds) ThermalParams() ThermalParams {
	return w.thermalParams
}

// ThermalField returns the thermal field, or nil if it hasn't been built.
func (w *Winds) ThermalField() *ThermalField {
	return w.thermals
}

// SetThermalField replaces the thermal field, e.g. with one loaded with
// LoadThermalField; its parameters become the current ones.
func (w *Winds) SetThermalField(f *ThermalField) {
	w.thermals = f
	if f != nil {
		w.thermalParams = f.Params
	}
}

// ResetThermalField discards the thermal field; a new one is built on
// the next step that has a non-zero velocity scale.
func (w *Winds) ResetThermalField() {
	w.thermals = nil
}

// DumpThermalInfo returns the thermal field record described at
// ThermalField.DumpThermalInfo.
func (w *Winds) DumpThermalInfo() (string, error) {
	if w.thermals == nil {
		return "", ErrNoThermalField
	}
	return w.thermals.DumpThermalInfo(), nil
}

///////////////////////////////////////////////////////////////////////////
// Snapshots

// Snapshot is a copy of the disturbance state, suitable for handing to
// other goroutines.
type Snapshot struct {
	State      DisturbanceState
	Turbulence TurbulenceType
	Params     TurbulenceParams
	Memory     *FilterMemory

	GustRunning bool
	GustElapsed float64
	GustCommand GustCommand

	Thermals []ThermalCell
}

func (w *Winds) Snapshot() Snapshot {
	s := Snapshot{
		State:       w.State,
		Turbulence:  w.turbulence.Type(),
		Params:      w.turbParams,
		GustRunning: w.gust.Running(),
		GustElapsed: w.gust.Elapsed(),
		GustCommand: w.gust.Command(),
	}
	if m, ok := w.FilterMemory(); ok {
		s.Memory = &m
	}
	if w.thermals != nil {
		s.Thermals = w.thermals.Cells
	}
	return deep.MustCopy(s)
}
