// wx/errors.go
// Copyright(c) 2022-2025 windsim contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package wx

import (
	"errors"
)

var (
	ErrInvalidGustFrame      = errors.New("Invalid gust frame")
	ErrInvalidTurbulenceType = errors.New("Invalid turbulence type")
	ErrNoThermalField        = errors.New("Thermal field has not been initialized")
	ErrThermalFileVersion    = errors.New("Unsupported thermal field file version")
)
