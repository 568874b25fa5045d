// wx/thermal.go
// Copyright(c) 2022-2025 windsim contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package wx

import (
	gomath "math"
	"strconv"
	"strings"

	"github.com/mmp/windsim/log"
	"github.com/mmp/windsim/math"
	"github.com/mmp/windsim/rand"
)

// Thermal model after Allen, "Updraft Model for Development of Autonomous
// Soaring Uninhabited Air Vehicles", AIAA 2006-1510. Distances, heights
// and velocities in this file are in meters and m/s unless noted.

const (
	// Fraction of the thermal area covered by updrafts.
	thermalCoverage = 0.6
	// Altitude at which the reference thermal radius used to size the
	// field is evaluated.
	thermalReferenceAltitude = 50
	minThermalOuterRadius    = 10

	// MaxThermals bounds the number of cells in a field.
	MaxThermals = 1 << 20
)

// ThermalParams configure the thermal field.
type ThermalParams struct {
	VelocityScale  float64 `json:"velocity_scale" mapstructure:"velocity_scale" msgpack:"velocity_scale"`       // convective velocity scale, m/s
	LayerThickness float64 `json:"layer_thickness" mapstructure:"layer_thickness" msgpack:"layer_thickness"`    // convective layer thickness, m
	AreaWidth      float64 `json:"area_width" mapstructure:"area_width" msgpack:"area_width"`                   // m
	AreaHeight     float64 `json:"area_height" mapstructure:"area_height" msgpack:"area_height"`                // m

	// Standard deviations of the velocity scale and layer thickness;
	// every cell currently gets the mean values.
	VelocityScaleSTD  float64 `json:"velocity_scale_std" mapstructure:"velocity_scale_std" msgpack:"velocity_scale_std"`
	LayerThicknessSTD float64 `json:"layer_thickness_std" mapstructure:"layer_thickness_std" msgpack:"layer_thickness_std"`
}

func DefaultThermalParams() ThermalParams {
	return ThermalParams{
		LayerThickness: 1000,
		AreaWidth:      1000,
		AreaHeight:     1000,
	}
}

// ThermalCell is a single updraft.
type ThermalCell struct {
	// Offset is the cell center's position relative to the field origin
	// in the origin's local NED frame, in feet; only the north and east
	// components are used.
	Offset   math.Vec3 `msgpack:"offset"`
	Strength float64   `msgpack:"strength"` // m/s
	Height   float64   `msgpack:"height"`   // m
}

// ThermalOuterRadius returns the outer radius (m) of a thermal in a
// convective layer of the given thickness at height ratio z (altitude
// over layer thickness).
func ThermalOuterRadius(z, thickness float64) float64 {
	return 0.102 * gomath.Cbrt(z) * (1 - 0.25*z) * thickness
}

// NumThermals returns the number of thermals needed to cover the
// configured area, capped at MaxThermals.
func NumThermals(p ThermalParams) int {
	n := thermalCount(p)
	if n > MaxThermals {
		return MaxThermals
	}
	return int(n)
}

// thermalCount returns the uncapped number of thermals for p.
func thermalCount(p ThermalParams) float64 {
	if !(p.LayerThickness > 0 && p.AreaWidth > 0 && p.AreaHeight > 0) {
		return 0
	}
	r := ThermalOuterRadius(thermalReferenceAltitude/p.LayerThickness, p.LayerThickness)
	if !(r > 0) {
		// The layer is too shallow for a thermal at the reference altitude.
		return 0
	}
	r = math.Max(r, minThermalOuterRadius)
	n := gomath.Ceil(thermalCoverage * p.AreaWidth * p.AreaHeight / (p.LayerThickness * r))
	if gomath.IsNaN(n) {
		return 0
	}
	return n
}

// ThermalField is a set of thermals at fixed positions around an origin
// that is latched at the vehicle's position the first time it is
// updated while airborne.
type ThermalField struct {
	Params ThermalParams
	Cells  []ThermalCell

	origin    math.Location
	originSet bool
	// Longitude and latitude of each cell center; fixed once the origin
	// is set.
	cellLL [][2]float64

	nearest         int
	nearestDistance float64 // ft
}

// NewThermalField builds a field for the given parameters, placing the
// thermals uniformly at random over the area.
func NewThermalField(p ThermalParams, r *rand.Rand, lg *log.Logger) *ThermalField {
	n := NumThermals(p)
	f := &ThermalField{
		Params:  p,
		Cells:   make([]ThermalCell, n),
		nearest: -1,
	}

	for i := range f.Cells {
		x := (r.Float64() - 0.5) * p.AreaWidth * math.MetersToFeet
		y := (r.Float64() - 0.5) * p.AreaHeight * math.MetersToFeet
		f.Cells[i] = ThermalCell{
			Offset:   math.Vec3{x, y, 0},
			Strength: p.VelocityScale,
			Height:   p.LayerThickness,
		}
	}

	lg.Info("built thermal field", "thermals", n, "width", p.AreaWidth, "height", p.AreaHeight,
		"thickness", p.LayerThickness, "velocity_scale", p.VelocityScale)
	if n == 0 {
		lg.Warn("thermal field has no thermals", "params", p)
	} else if n == MaxThermals && thermalCount(p) > MaxThermals {
		lg.Warn("thermal field truncated", "requested", thermalCount(p), "max", MaxThermals)
	}

	return f
}

// Origin returns the field's origin and whether it has been set yet.
func (f *ThermalField) Origin() (math.Location, bool) {
	return f.origin, f.originSet
}

// SetOrigin anchors the field at the given location.
func (f *ThermalField) SetOrigin(loc math.Location) {
	f.origin, f.originSet = loc, true

	f.cellLL = make([][2]float64, len(f.Cells))
	for i, c := range f.Cells {
		l := loc.LocalToLocation(c.Offset)
		f.cellLL[i] = [2]float64{l.Longitude, l.Latitude}
	}
}

// Nearest returns the index of the thermal closest to the vehicle at the
// last update and the distance to it in feet; the index is -1 if there
// was none.
func (f *ThermalField) Nearest() (int, float64) {
	return f.nearest, f.nearestDistance
}

// Update returns the thermal velocity (ft/s, NED) at the vehicle's
// current position.
func (f *ThermalField) Update(in *Inputs) math.Vec3 {
	if !f.originSet {
		if in.DistanceAGL <= 0 {
			return math.Vec3{}
		}
		f.SetOrigin(in.Location)
	}

	f.nearest, f.nearestDistance = -1, gomath.Inf(1)
	if len(f.Cells) == 0 {
		return math.Vec3{}
	}

	// Surface distance to each thermal center, measured at the vehicle's
	// radius so that altitude differences are ignored.
	for i, ll := range f.cellLL {
		if d := in.Location.DistanceTo(ll[0], ll[1]); d < f.nearestDistance {
			f.nearest, f.nearestDistance = i, d
		}
	}

	alt := 0.1
	if dh := in.Location.Altitude() - f.origin.Altitude(); dh > 0 {
		alt = dh * math.FeetToMeters
	}

	c := f.Cells[f.nearest]
	w := ThermalEffect(f.nearestDistance*math.FeetToMeters, c.Strength, c.Height, alt,
		len(f.Cells), f.Params.AreaWidth, f.Params.AreaHeight)

	// Updrafts are positive up; NED is positive down.
	return math.Vec3{0, 0, -w * math.MetersToFeet}
}

// Empirical shape coefficients: row i applies for radius ratios up to
// 0.5*thermalShapeRatios[i] + thermalShapeRatios[i+1].
var (
	thermalShapeRatios = [7]float64{0.14, 0.25, 0.36, 0.47, 0.58, 0.69, 0.80}
	thermalShapeCoeffs = [7][4]float64{
		{1.5352, 2.5826, -0.0113, -0.1950},
		{1.5265, 3.6054, -0.0176, -0.1265},
		{1.4866, 4.8356, -0.0320, -0.0818},
		{1.2042, 7.7904, 0.0848, -0.0445},
		{0.8816, 13.9720, 0.3404, -0.0216},
		{0.7067, 23.9940, 0.5689, -0.0099},
		{0.6189, 42.7965, 0.7157, -0.0033},
	}
)

func thermalShape(r float64) [4]float64 {
	for i := 0; i+1 < len(thermalShapeRatios); i++ {
		if r < 0.5*thermalShapeRatios[i]+thermalShapeRatios[i+1] {
			return thermalShapeCoeffs[i]
		}
	}
	return thermalShapeCoeffs[len(thermalShapeCoeffs)-1]
}

// ThermalEffect returns the vertical velocity (m/s, positive up) at the
// given distance (m) from the center of a thermal of the given strength
// (m/s) and layer height (m), at altitude (m) above the field origin.
// numThermals and the area dimensions (m) set the environmental sink that
// balances the updrafts.
func ThermalEffect(distance, strength, height, altitude float64, numThermals int, areaWidth, areaHeight float64) float64 {
	if height <= 0 {
		return 0
	}

	altRatio := altitude / height
	outerRadius := math.Max(ThermalOuterRadius(altRatio, height), minThermalOuterRadius)

	// Average updraft strength.
	meanStrength := gomath.Cbrt(altRatio) * (1 - 1.1*altRatio) * strength

	innerOuterRatio := 0.8
	if outerRadius < 600 {
		innerOuterRatio = 0.0011*outerRadius + 0.14
	}
	innerRadius := innerOuterRatio * outerRadius

	// Strength at the center that conserves the mean between the inner
	// and outer radii.
	r3, r2 := gomath.Pow(outerRadius, 3), math.Sqr(outerRadius)
	coreStrength := 3 * meanStrength * (r3 - r2*innerRadius) / (r3 - gomath.Pow(innerRadius, 3))

	radiusRatio := distance / outerRadius

	var smooth float64
	if altRatio < 1 {
		k := thermalShape(radiusRatio)
		smooth = 1/(1+gomath.Pow(k[0]*gomath.Abs(radiusRatio+k[2]), k[1])) + k[3]*radiusRatio
		smooth = math.Max(smooth, 0)
	}

	// Downdraft at the edge of the updraft.
	var down float64
	if distance > innerRadius && radiusRatio < 2 {
		down = gomath.Pi / 6 * gomath.Sin(gomath.Pi*radiusRatio)
	}

	var altDownScale, downStrength float64
	if altRatio > 0.5 && altRatio <= 0.9 {
		altDownScale = 2.5 * (altRatio - 0.5)
		downStrength = math.Min(altDownScale*down, 0)
	}

	updraft := smooth*coreStrength + downStrength*meanStrength

	// Environmental sink, from conservation of mass over the whole area.
	updraftArea := float64(numThermals) * gomath.Pi * r2
	totalArea := areaWidth * areaHeight
	sink := -(updraftArea * strength * (1 - altDownScale)) / (totalArea - updraftArea)
	if !math.IsFinite(sink) || sink > 0 {
		sink = 0
	}

	if distance <= innerRadius {
		return sink
	}

	// Stretch the updraft to blend with the sink at the edge.
	blend := 1.0
	if coreStrength != 0 {
		blend = 1 - sink/coreStrength
	}
	w := updraft*blend + sink
	if !math.IsFinite(w) {
		return 0
	}
	return w
}

// DumpThermalInfo returns the field as a single comma-separated record:
// the number of thermals followed by the strength, height and x and y
// offsets of each one.
func (f *ThermalField) DumpThermalInfo() string {
	var sb strings.Builder
	sb.WriteString(strconv.Itoa(len(f.Cells)))
	for _, c := range f.Cells {
		for _, v := range []float64{c.Strength, c.Height, c.Offset[math.X], c.Offset[math.Y]} {
			sb.WriteByte(',')
			sb.WriteString(strconv.FormatFloat(v, 'f', 6, 64))
		}
	}
	return sb.String()
}
