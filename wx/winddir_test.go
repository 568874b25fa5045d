// wx/winddir_test.go
// Copyright(c) 2022-2025 windsim contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package wx

import (
	gomath "math"
	"testing"

	"github.com/mmp/windsim/math"
	"github.com/mmp/windsim/rand"
)

func TestWindDirSpeed(t *testing.T) {
	for _, tc := range []struct {
		dir, knots float64
		ned        math.Vec3
	}{
		// A north wind blows towards the south.
		{0, 10, math.Vec3{-16.8781, 0, 0}},
		{90, 10, math.Vec3{0, -16.8781, 0}},
		{180, 20, math.Vec3{33.7562, 0, 0}},
		{270, 1, math.Vec3{0, 1.68781, 0}},
	} {
		v := NEDFromDirSpeed(tc.dir, tc.knots)
		for i := range 3 {
			if gomath.Abs(v[i]-tc.ned[i]) > 1e-6 {
				t.Errorf("NEDFromDirSpeed(%f, %f) = %v, expected %v", tc.dir, tc.knots, v, tc.ned)
				break
			}
		}

		dir, knots := DirSpeedFromNED(v)
		if gomath.Abs(dir-tc.dir) > 1e-6 || gomath.Abs(knots-tc.knots) > 1e-6 {
			t.Errorf("DirSpeedFromNED(%v) = %f, %f; expected %f, %f", v, dir, knots, tc.dir, tc.knots)
		}
	}

	// Reported directions are always in [0,360).
	for _, d := range []float64{-90, 359.5, 720} {
		if dir, _ := DirSpeedFromNED(NEDFromDirSpeed(d, 5)); dir < 0 || dir >= 360 {
			t.Errorf("direction %f for %f", dir, d)
		}
	}
}

func TestApplyConfigFrom(t *testing.T) {
	from := 270.0
	c := DefaultConfig()
	c.Wind = WindConfig{From: &from, Knots: 10}

	w := NewWinds(rand.Make(1), nil)
	w.ApplyConfig(c)

	// A west wind blows towards the east.
	v := w.WindNED()
	if gomath.Abs(v[math.North]) > 1e-6 || gomath.Abs(v[math.East]-16.8781) > 1e-6 {
		t.Errorf("wind %v", v)
	}
	if gomath.Abs(w.WindPsi()-gomath.Pi/2) > 1e-9 {
		t.Errorf("heading %f, expected pi/2", w.WindPsi())
	}
}
