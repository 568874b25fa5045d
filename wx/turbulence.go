// wx/turbulence.go
// Copyright(c) 2022-2025 windsim contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package wx

import (
	"fmt"
	gomath "math"
	"strings"

	"github.com/mmp/windsim/math"
	"github.com/mmp/windsim/rand"
)

type TurbulenceType int

const (
	TurbulenceNone TurbulenceType = iota
	// TurbulenceCulp is a simple periodic model: a sinusoid at the
	// turbulence rate plus randomly re-triggered decaying spikes.
	TurbulenceCulp
	// TurbulenceMilspec is the MIL-F-8785C/Dryden spectral model with the
	// MIL-STD-1797A direct discretization.
	TurbulenceMilspec
	// TurbulenceTustin is the same spectral model discretized with the
	// bilinear (Tustin) transform.
	TurbulenceTustin
)

var turbulenceTypeNames = [...]string{"none", "culp", "milspec", "tustin"}

func (t TurbulenceType) String() string {
	if t < 0 || int(t) >= len(turbulenceTypeNames) {
		return fmt.Sprintf("TurbulenceType(%d)", int(t))
	}
	return turbulenceTypeNames[t]
}

func ParseTurbulenceType(s string) (TurbulenceType, error) {
	for i, name := range turbulenceTypeNames {
		if strings.EqualFold(s, name) {
			return TurbulenceType(i), nil
		}
	}
	return TurbulenceNone, fmt.Errorf("%q: %w", s, ErrInvalidTurbulenceType)
}

// Limits on the operator-set turbulence parameters.
const (
	MaxTurbulenceGain        = 1
	MaxTurbulenceRate        = 30 // Hz
	MaxTurbulenceRhythmicity = 1

	// Wingspan used when the vehicle reports none.
	defaultWingspan = 30 // ft
)

// TurbulenceParams are the operator-set parameters shared by the
// turbulence models.
type TurbulenceParams struct {
	// Culp model
	Gain        float64 // [0,1]
	Rate        float64 // Hz, [0,30]
	Rhythmicity float64 // [0,1]
	// Roll rate (rad/s) added by the Culp model; a clockwise vortex
	// causes a left roll.
	ClockwiseRate float64

	// Spectral models
	Severity        int     // probability of exceedance index, 0 (off) to 7
	WindspeedAt20ft float64 // ft/s
}

func DefaultTurbulenceParams() TurbulenceParams {
	return TurbulenceParams{
		Gain:        1,
		Rate:        10,
		Rhythmicity: 0.1,
	}
}

// Clamped returns the parameters limited to the ranges the models are
// valid for.
func (p TurbulenceParams) Clamped() TurbulenceParams {
	p.Gain = math.Clamp(p.Gain, 0, MaxTurbulenceGain)
	p.Rate = math.Clamp(p.Rate, 0, MaxTurbulenceRate)
	p.Rhythmicity = math.Clamp(p.Rhythmicity, 0, MaxTurbulenceRhythmicity)
	p.Severity = math.Clamp(p.Severity, 0, MaxSeverity)
	return p
}

// TurbulenceModel is implemented by each turbulence variant. Step
// advances the model by one simulation step and returns the turbulent
// velocity in NED and the turbulent angular rate in body axes. psiw is the
// current wind heading.
type TurbulenceModel interface {
	Type() TurbulenceType
	Step(in *Inputs, p TurbulenceParams, psiw float64) (ned, pqr math.Vec3)
	Reset()
}

// NewTurbulenceModel returns a freshly-initialized model of the given
// type that draws random numbers from r.
func NewTurbulenceModel(t TurbulenceType, r *rand.Rand) TurbulenceModel {
	switch t {
	case TurbulenceCulp:
		return &culpTurbulence{rand: r}
	case TurbulenceMilspec, TurbulenceTustin:
		return &spectralTurbulence{tustin: t == TurbulenceTustin, rand: r}
	default:
		return noTurbulence{}
	}
}

func wingspanOrDefault(b float64) float64 {
	if b <= 0 {
		return defaultWingspan
	}
	return b
}

// TurbulenceDirection returns the direction in degrees of the horizontal
// components of the NED turbulence vector.
func TurbulenceDirection(ned math.Vec3) float64 {
	return math.Degrees(gomath.Atan2(ned[math.East], ned[math.North]))
}

///////////////////////////////////////////////////////////////////////////
// None

type noTurbulence struct{}

func (noTurbulence) Type() TurbulenceType { return TurbulenceNone }

func (noTurbulence) Step(*Inputs, TurbulenceParams, float64) (math.Vec3, math.Vec3) {
	return math.Vec3{}, math.Vec3{}
}

func (noTurbulence) Reset() {}

///////////////////////////////////////////////////////////////////////////
// Culp

const (
	// Maximum vertical wind speed in ft/s, for a gain of 1.
	culpMaxVerticalSpeed = 40
	// Spikes are triggered at intervals of culpSpikeInterval +/- up to
	// culpSpikeJitter seconds.
	culpSpikeInterval = 0.71
	culpSpikeJitter   = 0.5
	culpSpikeDecay    = 0.9
)

type culpTurbulence struct {
	rand *rand.Rand

	spike      float64
	strength   float64
	targetTime float64
	armed      bool // targetTime holds the next spike time
}

func (c *culpTurbulence) Type() TurbulenceType { return TurbulenceCulp }

func (c *culpTurbulence) Reset() {
	c.spike, c.strength, c.targetTime, c.armed = 0, 0, 0, false
}

func (c *culpTurbulence) Step(in *Inputs, p TurbulenceParams, psiw float64) (ned, pqr math.Vec3) {
	pqr[math.P] = p.ClockwiseRate

	p = p.Clamped()
	if p.Gain == 0 {
		return
	}

	// Sine wave at the turbulence rate.
	time := in.SimTime
	sinewave := gomath.Sin(time * p.Rate * 2 * gomath.Pi)

	if !c.armed {
		c.strength = 1 - 2*c.rand.Float64()
		c.targetTime = time + culpSpikeInterval + c.strength*culpSpikeJitter
		c.armed = true
	}
	if time > c.targetTime {
		c.spike = 1
		c.armed = false
	}

	delta := c.strength * culpMaxVerticalSpeed * p.Gain * (1 - p.Rhythmicity) * c.spike

	ned[math.Down] = sinewave*culpMaxVerticalSpeed*p.Gain*p.Rhythmicity + delta
	// Fade out vertical turbulence approaching the ground.
	if spans := in.DistanceAGL / wingspanOrDefault(in.Wingspan); spans < 3 {
		ned[math.Down] *= math.Max(spans, 0) * 0.3333
	}

	// Yaw component
	ned[math.North] = gomath.Sin(delta * 3)
	ned[math.East] = gomath.Cos(delta * 3)

	// Roll component
	pqr[math.P] += delta * 0.04

	c.spike *= culpSpikeDecay

	return
}

///////////////////////////////////////////////////////////////////////////
// Spectral (MIL-F-8785C)
//
// Both discretizations follow Yeager, "Implementation and Testing of
// Turbulence Models for the F18-HARV Simulation", NASA CR-1998-206937.
// Equation numbers below refer to that report.

// AxisHistory holds a filter's previous outputs (Xi) and driving noise
// samples (Nu): index 0 is step k-1 and index 1 is step k-2.
type AxisHistory struct {
	Xi [2]float64
	Nu [2]float64
}

func (a *AxisHistory) push(xi, nu float64) {
	a.Xi[1], a.Xi[0] = a.Xi[0], xi
	a.Nu[1], a.Nu[0] = a.Nu[0], nu
}

// FilterMemory is the per-axis history of the spectral turbulence
// filters. Each axis has its own storage; the axes are only coupled
// through the filter equations themselves.
type FilterMemory struct {
	U, V, W AxisHistory // translational
	P, Q, R AxisHistory // rotational

	// Steps counts the steps the memory has been advanced since the last
	// reset.
	Steps int
}

func (m *FilterMemory) Reset() {
	*m = FilterMemory{}
}

// advance records the filter outputs and noise samples of the current
// step.
func (m *FilterMemory) advance(xi, nu [6]float64) {
	for i, a := range []*AxisHistory{&m.U, &m.V, &m.W, &m.P, &m.Q, &m.R} {
		a.push(xi[i], nu[i])
	}
	m.Steps++
}

type spectralTurbulence struct {
	tustin bool
	rand   *rand.Rand
	Memory FilterMemory
}

func (s *spectralTurbulence) Type() TurbulenceType {
	if s.tustin {
		return TurbulenceTustin
	}
	return TurbulenceMilspec
}

func (s *spectralTurbulence) Reset() {
	s.Memory.Reset()
}

// ScaleLengths returns the longitudinal and vertical turbulence scale
// lengths (ft) and intensities (ft/s) at height h (ft).
func ScaleLengths(h float64, severity int, windspeedAt20ft float64) (Lu, Lw, sigU, sigW float64) {
	// Clip height functions at 10 ft.
	h = math.Max(h, 10)

	switch {
	case h <= 1000:
		Lu = h / gomath.Pow(0.177+0.000823*h, 1.2) // MIL-F-8785C, Fig. 10, p. 55
		Lw = h
		sigW = 0.1 * windspeedAt20ft
		sigU = sigW / gomath.Pow(0.177+0.000823*h, 0.4) // MIL-F-8785C, Fig. 11, p. 56

	case h <= 2000:
		// Linear interpolation between the low and high altitude models.
		t := (h - 1000) / 1000
		Lu = 1000 + t*750
		Lw = Lu
		sigU = 0.1*windspeedAt20ft + t*(SeveritySigma(severity, h)-0.1*windspeedAt20ft)
		sigW = sigU

	default:
		Lu, Lw = 1750, 1750 // MIL-F-8785C, Sec. 3.7.2.1, p. 48
		sigU = SeveritySigma(severity, h)
		sigW = sigU
	}
	return
}

func (s *spectralTurbulence) Step(in *Inputs, p TurbulenceParams, psiw float64) (ned, pqr math.Vec3) {
	p = p.Clamped()
	V, TV := in.V, in.DeltaT

	// A severity of zero disables turbulence; airspeed and the step size
	// occur as divisors below.
	if p.Severity == 0 || V <= 0 || TV <= 0 {
		s.Memory.advance([6]float64{}, [6]float64{})
		return
	}

	bw := wingspanOrDefault(in.Wingspan)
	Lu, Lw, sigU, sigW := ScaleLengths(in.AltitudeASL, p.Severity, p.WindspeedAt20ft)

	m := &s.Memory
	var (
		sigP = 1.9 / gomath.Sqrt(Lw*bw) * sigW // eq. (8)
		Lp   = gomath.Sqrt(Lw*bw) / 2.6       // eq. (10)
		tauU = Lu / V                         // eq. (6)
		tauW = Lw / V                         // eq. (3)
		tauP = Lp / V                         // eq. (9)
		tauQ = 4 * bw / gomath.Pi / V         // eq. (13)
		tauR = 3 * bw / gomath.Pi / V         // eq. (17)

		nuU = s.rand.NormFloat64()
		nuV = s.rand.NormFloat64()
		nuW = s.rand.NormFloat64()
		nuP = s.rand.NormFloat64()

		xiU, xiV, xiW, xiP, xiQ, xiR float64
	)

	if s.tustin {
		var (
			omegaW = V / Lw
			omegaV = V / Lu
			cBL    = 1 / tauU / gomath.Tan(TV/2/tauU) // eq. (19)
			cBLp   = 1 / tauP / gomath.Tan(TV/2/tauP) // eq. (22)
			cBLq   = 1 / tauQ / gomath.Tan(TV/2/tauQ) // eq. (24)
			cBLr   = 1 / tauR / gomath.Tan(TV/2/tauR) // eq. (26)
		)

		// Everything computed so far other than the noise samples is
		// strictly positive, so all of the divisors below are as well.
		xiU = -(1-cBL*tauU)/(1+cBL*tauU)*m.U.Xi[0] +
			sigU*gomath.Sqrt(2*tauU/TV)/(1+cBL*tauU)*(nuU+m.U.Nu[0]) // eq. (18)
		xiV = tustinSecondOrder(&m.V, omegaV, cBL, sigU, TV, nuV) // eq. (20)
		xiW = tustinSecondOrder(&m.W, omegaW, cBL, sigW, TV, nuW) // eq. (20)
		xiP = -(1-cBLp*tauP)/(1+cBLp*tauP)*m.P.Xi[0] +
			sigP*gomath.Sqrt(2*tauP/TV)/(1+cBLp*tauP)*(nuP+m.P.Nu[0]) // eq. (21)

		kq := 4 * bw * cBLq / gomath.Pi / V
		xiQ = -(1-kq)/(1+kq)*m.Q.Xi[0] + cBLq/V/(1+kq)*(xiW-m.W.Xi[0]) // eq. (23)
		kr := 3 * bw * cBLr / gomath.Pi / V
		xiR = -(1-kr)/(1+kr)*m.R.Xi[0] + cBLr/V/(1+kr)*(xiV-m.V.Xi[0]) // eq. (25)
	} else {
		// MIL-STD-1797A formulation
		xiU = (1-TV/tauU)*m.U.Xi[0] + sigU*gomath.Sqrt(2*TV/tauU)*nuU     // eq. (30)
		xiV = (1-2*TV/tauU)*m.V.Xi[0] + sigU*gomath.Sqrt(4*TV/tauU)*nuV   // eq. (31)
		xiW = (1-2*TV/tauW)*m.W.Xi[0] + sigW*gomath.Sqrt(4*TV/tauW)*nuW   // eq. (32)
		xiP = (1-TV/tauP)*m.P.Xi[0] + sigP*gomath.Sqrt(2*TV/tauP)*nuP     // eq. (33)
		xiQ = (1-TV/tauQ)*m.Q.Xi[0] + gomath.Pi/4/bw*(xiW-m.W.Xi[0])      // eq. (34)
		xiR = (1-TV/tauR)*m.R.Xi[0] + gomath.Pi/3/bw*(xiV-m.V.Xi[0])      // eq. (35)
	}

	// Rotate by the wind azimuth.
	sinpsi, cospsi := gomath.Sincos(psiw)
	ned = math.Vec3{
		cospsi*xiU + sinpsi*xiV,
		-sinpsi*xiU + cospsi*xiV,
		xiW,
	}

	pqr = math.Vec3{
		cospsi*xiP + sinpsi*xiQ,
		-sinpsi*xiP + cospsi*xiQ,
		xiR,
	}
	pqr = in.Tl2b.MulVec(pqr)

	m.advance([6]float64{xiU, xiV, xiW, xiP, xiQ, xiR}, [6]float64{nuU, nuV, nuW, nuP, 0, 0})

	return
}

// tustinSecondOrder evaluates the bilinear discretization of the
// second-order Dryden filter for the lateral and vertical axes.
func tustinSecondOrder(h *AxisHistory, omega, cBL, sigma, TV, nu float64) float64 {
	den := math.Sqr(omega + cBL)
	return -2*(math.Sqr(omega)-math.Sqr(cBL))/den*h.Xi[0] -
		math.Sqr(omega-cBL)/den*h.Xi[1] +
		sigma*gomath.Sqrt(3*omega/TV)/den*((cBL+omega/gomath.Sqrt(3))*nu+
			2/gomath.Sqrt(3)*omega*h.Nu[0]+
			(omega/gomath.Sqrt(3)-cBL)*h.Nu[1])
}
