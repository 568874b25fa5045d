// wx/state.go
// Copyright(c) 2022-2025 windsim contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package wx

import (
	"github.com/mmp/windsim/math"
)

// Inputs is the host's vehicle-state snapshot for a single step. It is
// only read by the disturbance models.
type Inputs struct {
	AltitudeASL float64 // ft
	DistanceAGL float64 // ft
	V           float64 // true airspeed, ft/s
	Wingspan    float64 // ft

	// Location is the vehicle's position; it is used to place the
	// vehicle within the thermal field.
	Location math.Location

	Tl2b math.Matrix3 // local NED to body
	Tw2b math.Matrix3 // wind to body

	SimTime float64 // s
	DeltaT  float64 // s
}

// DisturbanceState holds the outputs of the disturbance models. Velocities
// are in ft/s in the local NED frame.
type DisturbanceState struct {
	SteadyWind math.Vec3
	// UserGust is an operator-specified gust that is added directly to
	// the total; Gust is the output of the 1-cosine gust profile.
	UserGust   math.Vec3
	Gust       math.Vec3
	Turbulence math.Vec3
	Thermal    math.Vec3
	TotalWind  math.Vec3

	// TurbulentPQR is the turbulent angular rate in body axes, rad/s.
	TurbulentPQR math.Vec3

	// WindHeading (psiw) is the direction the steady wind is blowing
	// towards, radians in [0, 2pi).
	WindHeading float64

	// TurbulenceDirection is the direction of the horizontal turbulence
	// components, in degrees.
	TurbulenceDirection float64
}
