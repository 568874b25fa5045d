// wx/thermal_test.go
// Copyright(c) 2022-2025 windsim contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package wx

import (
	"bytes"
	"errors"
	gomath "math"
	"slices"
	"testing"

	"github.com/mmp/windsim/math"
	"github.com/mmp/windsim/rand"

	"github.com/klauspost/compress/zstd"
	"github.com/vmihailenco/msgpack/v5"
)

func testThermalParams() ThermalParams {
	p := DefaultThermalParams()
	p.VelocityScale = 2
	return p
}

func TestNumThermals(t *testing.T) {
	for _, tc := range []struct {
		p        ThermalParams
		expected int
	}{
		{DefaultThermalParams(), 17},
		{ThermalParams{LayerThickness: 1000, AreaWidth: 2000, AreaHeight: 1000}, 33},
		{ThermalParams{LayerThickness: 0, AreaWidth: 1000, AreaHeight: 1000}, 0},
		{ThermalParams{LayerThickness: 1000, AreaWidth: 0, AreaHeight: 1000}, 0},
		{ThermalParams{LayerThickness: 1000, AreaWidth: 1000, AreaHeight: -5}, 0},
		// The reference altitude is above a 12.5m layer's top.
		{ThermalParams{LayerThickness: 12.5, AreaWidth: 1000, AreaHeight: 1000}, 0},
		// The reference radius is floored just above the 12.5m limit.
		{ThermalParams{LayerThickness: 12.6, AreaWidth: 1000, AreaHeight: 1000}, 4762},
		{ThermalParams{LayerThickness: 1000, AreaWidth: 1e6, AreaHeight: 1e6}, MaxThermals},
		{ThermalParams{LayerThickness: gomath.NaN(), AreaWidth: 1000, AreaHeight: 1000}, 0},
		{ThermalParams{LayerThickness: 1000, AreaWidth: gomath.Inf(1), AreaHeight: 1000}, MaxThermals},
	} {
		if n := NumThermals(tc.p); n != tc.expected {
			t.Errorf("NumThermals(%+v) = %d, expected %d", tc.p, n, tc.expected)
		}
	}
}

func TestNumThermalsShallowLayer(t *testing.T) {
	for _, thickness := range []float64{12.5001, 12.5000000001} {
		p := ThermalParams{VelocityScale: 2, LayerThickness: thickness, AreaWidth: 1000, AreaHeight: 1000}
		if n := NumThermals(p); n < 4762 || n > 4800 {
			t.Errorf("thickness %.10f: got %d thermals, expected 4762-4800", thickness, n)
		}
	}
}

func TestThermalEffectSinkAtCenterAndFar(t *testing.T) {
	for _, alt := range []float64{300, 700, 1200} {
		center := ThermalEffect(0, 2, 1000, alt, 17, 1000, 1000)
		far := ThermalEffect(5000, 2, 1000, alt, 17, 1000, 1000)
		if center != far {
			t.Errorf("altitude %f: output at center %f differs from far output %f", alt, center, far)
		}
		if center > 0 || !math.IsFinite(center) {
			t.Errorf("altitude %f: sink %f should be finite and non-positive", alt, center)
		}
	}
}

func TestThermalEffectUpdraft(t *testing.T) {
	// Just outside of the inner radius of a thermal at 300m in a 1000m
	// layer, there's a strong updraft.
	if w := ThermalEffect(20, 2, 1000, 300, 17, 1000, 1000); w < 1 || w > 4 {
		t.Errorf("updraft %f, expected between 1 and 4 m/s", w)
	}

	// A stronger thermal has a stronger updraft.
	w2 := ThermalEffect(20, 2, 1000, 300, 17, 1000, 1000)
	w4 := ThermalEffect(20, 4, 1000, 300, 17, 1000, 1000)
	if w4 <= w2 {
		t.Errorf("doubling the strength went from %f to %f", w2, w4)
	}

	// No updraft without a layer.
	if w := ThermalEffect(20, 2, 0, 300, 17, 1000, 1000); w != 0 {
		t.Errorf("zero height gave %f", w)
	}
}

func TestThermalEffectFinite(t *testing.T) {
	for _, d := range []float64{0, 1, 10, 50, 100, 1000} {
		for _, alt := range []float64{0.1, 10, 100, 500, 900, 1000, 2000} {
			for _, n := range []int{0, 1, 17, 1000} {
				if w := ThermalEffect(d, 2, 1000, alt, n, 1000, 1000); !math.IsFinite(w) {
					t.Errorf("ThermalEffect(%f, 2, 1000, %f, %d, 1000, 1000) = %f", d, alt, n, w)
				}
			}
		}
	}
	// Updrafts covering the entire area
	if w := ThermalEffect(0, 2, 1000, 300, 17, 10, 10); !math.IsFinite(w) || w > 0 {
		t.Errorf("saturated area gave %f", w)
	}
}

func TestNewThermalField(t *testing.T) {
	p := testThermalParams()
	f := NewThermalField(p, rand.Make(3), nil)

	if len(f.Cells) != 17 {
		t.Fatalf("%d cells, expected 17", len(f.Cells))
	}
	hw, hh := p.AreaWidth/2*math.MetersToFeet, p.AreaHeight/2*math.MetersToFeet
	for i, c := range f.Cells {
		if gomath.Abs(c.Offset[math.X]) > hw || gomath.Abs(c.Offset[math.Y]) > hh || c.Offset[math.Z] != 0 {
			t.Errorf("cell %d: offset %v outside of the area", i, c.Offset)
		}
		if c.Strength != p.VelocityScale || c.Height != p.LayerThickness {
			t.Errorf("cell %d: strength %f height %f", i, c.Strength, c.Height)
		}
	}

	g := NewThermalField(p, rand.Make(3), nil)
	if !slices.Equal(f.Cells, g.Cells) {
		t.Errorf("identically seeded fields differ")
	}
}

func TestThermalFieldUpdate(t *testing.T) {
	f := NewThermalField(testThermalParams(), rand.Make(11), nil)

	in := cruiseInputs()
	origin := math.LocationFromDegrees(-105, 40, 5000)
	in.Location = origin

	// On the ground: no origin yet.
	in.DistanceAGL = 0
	if v := f.Update(in); !v.IsZero() {
		t.Errorf("expected no thermals on the ground, got %v", v)
	}
	if _, ok := f.Origin(); ok {
		t.Errorf("origin latched while on the ground")
	}

	in.DistanceAGL = 10
	v := f.Update(in)
	if o, ok := f.Origin(); !ok || o != origin {
		t.Errorf("origin %v, %v; expected %v", o, ok, origin)
	}
	if v[math.North] != 0 || v[math.East] != 0 || !v.IsFinite() {
		t.Errorf("thermal velocity %v", v)
	}

	// Directly over a cell center, 300m above the origin.
	const idx = 5
	loc := origin.LocalToLocation(f.Cells[idx].Offset)
	loc = loc.WithRadius(origin.Radius + 300*math.MetersToFeet)
	in.Location = loc
	v = f.Update(in)

	if n, d := f.Nearest(); n != idx || d > 1 {
		t.Errorf("nearest thermal %d at %f ft, expected %d at 0", n, d, idx)
	}
	// At the center, only the environmental sink remains.
	c := f.Cells[idx]
	sink := ThermalEffect(0, c.Strength, c.Height, 300, len(f.Cells), 1000, 1000)
	if expected := -sink * math.MetersToFeet; gomath.Abs(v[math.Down]-expected) > 1e-3 {
		t.Errorf("down %f, expected %f", v[math.Down], expected)
	}

	// Moving the vehicle doesn't move the field.
	if o, _ := f.Origin(); o != origin {
		t.Errorf("origin moved to %v", o)
	}
}

func TestThermalFieldEmpty(t *testing.T) {
	p := testThermalParams()
	p.AreaWidth = 0
	f := NewThermalField(p, rand.Make(1), nil)

	in := cruiseInputs()
	if v := f.Update(in); !v.IsZero() {
		t.Errorf("empty field gave %v", v)
	}
	if n, _ := f.Nearest(); n != -1 {
		t.Errorf("empty field nearest %d", n)
	}
	if s := f.DumpThermalInfo(); s != "0" {
		t.Errorf("empty field dump %q", s)
	}
}

func TestDumpThermalInfo(t *testing.T) {
	f := &ThermalField{
		Cells: []ThermalCell{
			{Offset: math.Vec3{1.5, -2, 0}, Strength: 2, Height: 1000},
			{Offset: math.Vec3{100.25, 0.125, 0}, Strength: 3.5, Height: 800},
		},
	}
	expected := "2,2.000000,1000.000000,1.500000,-2.000000,3.500000,800.000000,100.250000,0.125000"
	if s := f.DumpThermalInfo(); s != expected {
		t.Errorf("got %q, expected %q", s, expected)
	}
}

func TestThermalFieldSaveLoad(t *testing.T) {
	f := NewThermalField(testThermalParams(), rand.Make(5), nil)

	var buf bytes.Buffer
	if err := f.Save(&buf); err != nil {
		t.Fatalf("Save: %v", err)
	}

	g, err := LoadThermalField(&buf, nil)
	if err != nil {
		t.Fatalf("LoadThermalField: %v", err)
	}
	if g.Params != f.Params {
		t.Errorf("params %+v, expected %+v", g.Params, f.Params)
	}
	if !slices.Equal(g.Cells, f.Cells) {
		t.Errorf("cells differ after loading")
	}
	if _, ok := g.Origin(); ok {
		t.Errorf("loaded field has an origin")
	}
	if n, _ := g.Nearest(); n != -1 {
		t.Errorf("loaded field nearest %d", n)
	}
}

func TestLoadThermalFieldVersion(t *testing.T) {
	var buf bytes.Buffer
	zw, err := zstd.NewWriter(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if err := msgpack.NewEncoder(zw).Encode(ThermalFieldFile{Version: ThermalFieldVersion + 1}); err != nil {
		t.Fatal(err)
	}
	zw.Close()

	if _, err := LoadThermalField(&buf, nil); !errors.Is(err, ErrThermalFileVersion) {
		t.Errorf("expected ErrThermalFileVersion, got %v", err)
	}

	if _, err := LoadThermalField(bytes.NewReader([]byte("not a thermal field")), nil); err == nil {
		t.Errorf("expected an error loading garbage")
	}
}
