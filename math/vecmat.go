// math/vecmat.go
// Copyright(c) 2022-2025 windsim contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

import gomath "math"

///////////////////////////////////////////////////////////////////////////
// Vec3

// Vec3 is a 3-vector. For vectors in the local navigation frame the
// components are North, East, Down; in body axes they are X, Y, Z (or
// P, Q, R for angular rates).
type Vec3 [3]float64

const (
	North = 0
	East  = 1
	Down  = 2

	X = 0
	Y = 1
	Z = 2

	P = 0
	Q = 1
	R = 2
)

// a+b
func (a Vec3) Add(b Vec3) Vec3 {
	return Vec3{a[0] + b[0], a[1] + b[1], a[2] + b[2]}
}

// a-b
func (a Vec3) Sub(b Vec3) Vec3 {
	return Vec3{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

// a*s
func (a Vec3) Scale(s float64) Vec3 {
	return Vec3{s * a[0], s * a[1], s * a[2]}
}

func (a Vec3) Dot(b Vec3) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

func (a Vec3) Length() float64 {
	return gomath.Sqrt(a.Dot(a))
}

// Normalize returns a unit vector in the direction of a; the zero vector
// is returned unchanged.
func (a Vec3) Normalize() Vec3 {
	l := a.Length()
	if l == 0 {
		return Vec3{}
	}
	return a.Scale(1 / l)
}

func (a Vec3) IsZero() bool {
	return a[0] == 0 && a[1] == 0 && a[2] == 0
}

func (a Vec3) IsFinite() bool {
	return IsFinite(a[0]) && IsFinite(a[1]) && IsFinite(a[2])
}

///////////////////////////////////////////////////////////////////////////
// 3x3 matrix

type Matrix3 [3][3]float64

func MakeMatrix3(m00, m01, m02, m10, m11, m12, m20, m21, m22 float64) Matrix3 {
	return [3][3]float64{
		[3]float64{m00, m01, m02},
		[3]float64{m10, m11, m12},
		[3]float64{m20, m21, m22}}
}

func Identity3x3() Matrix3 {
	var m Matrix3
	m[0][0] = 1
	m[1][1] = 1
	m[2][2] = 1
	return m
}

func (m Matrix3) PostMultiply(m2 Matrix3) Matrix3 {
	var result Matrix3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			result[i][j] = m[i][0]*m2[0][j] + m[i][1]*m2[1][j] + m[i][2]*m2[2][j]
		}
	}
	return result
}

// MulVec returns m*v.
func (m Matrix3) MulVec(v Vec3) Vec3 {
	return Vec3{
		m[0][0]*v[0] + m[0][1]*v[1] + m[0][2]*v[2],
		m[1][0]*v[0] + m[1][1]*v[1] + m[1][2]*v[2],
		m[2][0]*v[0] + m[2][1]*v[1] + m[2][2]*v[2],
	}
}

func (m Matrix3) Transpose() Matrix3 {
	var r Matrix3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r[i][j] = m[j][i]
		}
	}
	return r
}

func (m Matrix3) Determinant() float64 {
	minor12 := m[1][1]*m[2][2] - m[1][2]*m[2][1]
	minor02 := m[1][0]*m[2][2] - m[1][2]*m[2][0]
	minor01 := m[1][0]*m[2][1] - m[1][1]*m[2][0]
	return m[0][2]*minor01 + (m[0][0]*minor12 - m[0][1]*minor02)
}

// Inverse returns the inverse of m. Rotation matrices should use
// Transpose instead; this is for the general case.
func (m Matrix3) Inverse() Matrix3 {
	invDet := 1 / m.Determinant()
	var r Matrix3
	r[0][0] = invDet * (m[1][1]*m[2][2] - m[1][2]*m[2][1])
	r[1][0] = invDet * (m[1][2]*m[2][0] - m[1][0]*m[2][2])
	r[2][0] = invDet * (m[1][0]*m[2][1] - m[1][1]*m[2][0])
	r[0][1] = invDet * (m[0][2]*m[2][1] - m[0][1]*m[2][2])
	r[1][1] = invDet * (m[0][0]*m[2][2] - m[0][2]*m[2][0])
	r[2][1] = invDet * (m[0][1]*m[2][0] - m[0][0]*m[2][1])
	r[0][2] = invDet * (m[0][1]*m[1][2] - m[0][2]*m[1][1])
	r[1][2] = invDet * (m[0][2]*m[1][0] - m[0][0]*m[1][2])
	r[2][2] = invDet * (m[0][0]*m[1][1] - m[0][1]*m[1][0])
	return r
}

// LocalToBody returns the rotation from the local NED frame to body axes
// for the given 3-2-1 (yaw, pitch, roll) Euler angles in radians.
func LocalToBody(phi, theta, psi float64) Matrix3 {
	sphi, cphi := gomath.Sincos(phi)
	sth, cth := gomath.Sincos(theta)
	spsi, cpsi := gomath.Sincos(psi)

	return MakeMatrix3(
		cth*cpsi, cth*spsi, -sth,
		sphi*sth*cpsi-cphi*spsi, sphi*sth*spsi+cphi*cpsi, sphi*cth,
		cphi*sth*cpsi+sphi*spsi, cphi*sth*spsi-sphi*cpsi, cphi*cth)
}

// WindToBody returns the rotation from wind axes to body axes for angle
// of attack alpha and sideslip beta (radians).
func WindToBody(alpha, beta float64) Matrix3 {
	sa, ca := gomath.Sincos(alpha)
	sb, cb := gomath.Sincos(beta)

	return MakeMatrix3(
		ca*cb, -ca*sb, -sa,
		sb, cb, 0,
		sa*cb, -sa*sb, ca)
}
