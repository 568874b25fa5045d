// wx/winddir.go
// Copyright(c) 2022-2025 windsim contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package wx

import (
	gomath "math"

	"github.com/mmp/windsim/math"
)

const KnotsToFeetPerSecond = 1.68781

// NEDFromDirSpeed converts a meteorological wind, given as the true
// direction in degrees the wind is blowing from and its speed in knots,
// to a horizontal NED velocity in ft/s.
func NEDFromDirSpeed(dir, knots float64) math.Vec3 {
	s := knots * KnotsToFeetPerSecond
	sd, cd := gomath.Sincos(math.Radians(dir))
	return math.Vec3{-s * cd, -s * sd, 0}
}

// DirSpeedFromNED returns the direction in degrees the horizontal
// component of v is blowing from, in [0,360), and its speed in knots.
func DirSpeedFromNED(v math.Vec3) (float64, float64) {
	n, e := v[math.North], v[math.East]
	dir := math.Degrees(math.NormalizeAngle(gomath.Atan2(-e, -n)))
	spd := gomath.Sqrt(n*n+e*e) / KnotsToFeetPerSecond
	return dir, spd
}
