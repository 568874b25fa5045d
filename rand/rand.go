// rand/rand.go
// Copyright(c) 2022-2025 windsim contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package rand

import (
	"math"

	"github.com/MichaelTJones/pcg"
)

///////////////////////////////////////////////////////////////////////////
// Random numbers.

// Rand is a PCG32-based random number generator. It is not safe for
// concurrent use; each simulated vehicle should own its own.
type Rand struct {
	r *pcg.PCG32

	// Marsaglia's polar method generates normal deviates in pairs; the
	// second one is held here until the next call to NormFloat64.
	spare     float64
	haveSpare bool
}

func New() *Rand {
	return &Rand{r: pcg.NewPCG32()}
}

// Make returns a new generator seeded with s.
func Make(s int64) *Rand {
	r := New()
	r.Seed(s)
	return r
}

func (r *Rand) Seed(s int64) {
	r.r.Seed(uint64(s), 0xda3e39cb94b95bdb)
	r.haveSpare = false
}

// Float64 returns a uniformly-distributed value in [0,1).
func (r *Rand) Float64() float64 {
	// 53 bits from two 32-bit draws.
	hi, lo := uint64(r.r.Random()>>5), uint64(r.r.Random()>>6)
	return float64(hi<<26|lo) / (1 << 53)
}

// Uniform returns a uniformly-distributed value in [low,high).
func (r *Rand) Uniform(low, high float64) float64 {
	return low + (high-low)*r.Float64()
}

// NormFloat64 returns a normally-distributed value with zero mean and
// unit standard deviation.
func (r *Rand) NormFloat64() float64 {
	if r.haveSpare {
		r.haveSpare = false
		return r.spare
	}

	for {
		u := 2*r.Float64() - 1
		v := 2*r.Float64() - 1
		s := u*u + v*v
		if s >= 1 || s == 0 {
			continue
		}
		f := math.Sqrt(-2 * math.Log(s) / s)
		r.spare, r.haveSpare = v*f, true
		return u * f
	}
}
