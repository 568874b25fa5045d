// log/log_test.go
// Copyright(c) 2025 windsim contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestNilLogger(t *testing.T) {
	var lg *Logger
	// None of these should crash.
	lg.Debug("debug")
	lg.Debugf("debug %d", 1)
	lg.Info("info")
	lg.Infof("info %d", 2)
	if lg.With("key", "value") != nil {
		t.Errorf("With on a nil logger returned non-nil")
	}
}

func TestLevels(t *testing.T) {
	var buf bytes.Buffer
	lg := NewWithWriter(&buf, slog.LevelInfo)

	lg.Debug("hidden")
	lg.Info("shown", slog.Int("n", 3))
	lg.With(slog.String("model", "thermal")).Warnf("clamped %s", "gain")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 log records, got %d: %q", len(lines), buf.String())
	}

	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("%s: %v", lines[0], err)
	}
	if rec["msg"] != "shown" || rec["n"] != float64(3) {
		t.Errorf("unexpected first record %v", rec)
	}
	if _, ok := rec["callstack"]; !ok {
		t.Errorf("record is missing callstack")
	}

	if err := json.Unmarshal([]byte(lines[1]), &rec); err != nil {
		t.Fatalf("%s: %v", lines[1], err)
	}
	if rec["msg"] != "clamped gain" || rec["model"] != "thermal" || rec["level"] != "WARN" {
		t.Errorf("unexpected second record %v", rec)
	}
}

func TestParseLevel(t *testing.T) {
	for name, lvl := range map[string]slog.Level{
		"debug": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	} {
		if l, err := ParseLevel(name); err != nil || l != lvl {
			t.Errorf("%s: got %v, %v", name, l, err)
		}
	}
	if _, err := ParseLevel("verbose"); err == nil {
		t.Errorf("expected error for invalid level")
	}
}
