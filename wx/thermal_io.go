// wx/thermal_io.go
// Copyright(c) 2022-2025 windsim contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package wx

import (
	"fmt"
	"io"

	"github.com/mmp/windsim/log"

	"github.com/klauspost/compress/zstd"
	"github.com/vmihailenco/msgpack/v5"
)

// ThermalFieldVersion is the version of the thermal field file format.
const ThermalFieldVersion = 1

// ThermalFieldFile is the on-disk form of a thermal field. Saving a field
// makes it possible to replay a randomly-placed set of thermals.
type ThermalFieldFile struct {
	Version int           `msgpack:"version"`
	Params  ThermalParams `msgpack:"params"`
	Cells   []ThermalCell `msgpack:"cells"`
}

// Save writes the field's parameters and cells to w (msgpack + zstd
// compression). The origin is not saved; it is latched again when the
// field is next used.
func (f *ThermalField) Save(w io.Writer) error {
	zw, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	if err != nil {
		return fmt.Errorf("failed to create zstd writer: %w", err)
	}
	defer zw.Close()

	ff := ThermalFieldFile{
		Version: ThermalFieldVersion,
		Params:  f.Params,
		Cells:   f.Cells,
	}
	if err := msgpack.NewEncoder(zw).Encode(ff); err != nil {
		return fmt.Errorf("failed to encode thermal field: %w", err)
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to close zstd writer: %w", err)
	}

	return nil
}

// LoadThermalField reads a thermal field written by Save.
func LoadThermalField(r io.Reader, lg *log.Logger) (*ThermalField, error) {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd reader: %w", err)
	}
	defer zr.Close()

	var ff ThermalFieldFile
	if err := msgpack.NewDecoder(zr).Decode(&ff); err != nil {
		return nil, fmt.Errorf("failed to decode thermal field: %w", err)
	}
	if ff.Version != ThermalFieldVersion {
		return nil, fmt.Errorf("%d: %w", ff.Version, ErrThermalFileVersion)
	}

	lg.Info("loaded thermal field", "thermals", len(ff.Cells))

	return &ThermalField{
		Params:  ff.Params,
		Cells:   ff.Cells,
		nearest: -1,
	}, nil
}
