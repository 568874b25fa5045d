// math/location.go
// Copyright(c) 2022-2025 windsim contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

import (
	"fmt"
	gomath "math"
)

// EarthRadius is the mean sea-level radius of the (spherical) Earth in feet.
const EarthRadius = 20925646.32546

// Location is a position in geocentric spherical coordinates: longitude
// and latitude in radians and the distance from the Earth's center in
// feet.
type Location struct {
	Longitude float64
	Latitude  float64
	Radius    float64
}

// MakeLocation returns the location at the given longitude and latitude
// (radians) and distance from the Earth's center (feet).
func MakeLocation(lon, lat, radius float64) Location {
	return Location{Longitude: lon, Latitude: lat, Radius: radius}
}

// LocationFromDegrees returns the location at the given longitude and
// latitude (degrees) and altitude above sea level (feet).
func LocationFromDegrees(lon, lat, altitude float64) Location {
	return MakeLocation(Radians(lon), Radians(lat), EarthRadius+altitude)
}

// Altitude returns the height above the sea-level sphere in feet.
func (l Location) Altitude() float64 {
	return l.Radius - EarthRadius
}

func (l Location) WithRadius(r float64) Location {
	l.Radius = r
	return l
}

func (l Location) String() string {
	return fmt.Sprintf("(%f, %f, %.1fft)", Degrees(l.Latitude), Degrees(l.Longitude), l.Altitude())
}

// ECEF returns the Earth-centered, Earth-fixed cartesian coordinates of
// the location in feet.
func (l Location) ECEF() Vec3 {
	slat, clat := gomath.Sincos(l.Latitude)
	slon, clon := gomath.Sincos(l.Longitude)
	return Vec3{l.Radius * clat * clon, l.Radius * clat * slon, l.Radius * slat}
}

func locationFromECEF(p Vec3) Location {
	r := p.Length()
	if r == 0 {
		return Location{}
	}
	return MakeLocation(gomath.Atan2(p[1], p[0]), gomath.Atan2(p[2], gomath.Hypot(p[0], p[1])), r)
}

// LocalToECEF returns the rotation from the local NED frame at the
// location to ECEF axes.
func (l Location) LocalToECEF() Matrix3 {
	slat, clat := gomath.Sincos(l.Latitude)
	slon, clon := gomath.Sincos(l.Longitude)
	// Columns are the north, east and down unit vectors in ECEF.
	return MakeMatrix3(
		-slat*clon, -slon, -clat*clon,
		-slat*slon, clon, -clat*slon,
		clat, 0, -slat)
}

// LocalToLocation returns the location displaced from l by the offset
// ned, given in feet in l's local NED frame.
func (l Location) LocalToLocation(ned Vec3) Location {
	return locationFromECEF(l.ECEF().Add(l.LocalToECEF().MulVec(ned)))
}

// DistanceTo returns the great-circle distance in feet, measured at l's
// radius, between l and the point at the given longitude and latitude
// (radians).
func (l Location) DistanceTo(lon, lat float64) float64 {
	// https://www.movable-type.co.uk/scripts/latlong.html
	dlat, dlon := lat-l.Latitude, lon-l.Longitude
	x := Sqr(gomath.Sin(dlat/2)) + gomath.Cos(l.Latitude)*gomath.Cos(lat)*Sqr(gomath.Sin(dlon/2))
	c := 2 * gomath.Atan2(gomath.Sqrt(x), gomath.Sqrt(1-x))
	return l.Radius * c
}
