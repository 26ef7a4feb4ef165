package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/flock/config"
)

func TestOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil || om != nil {
		t.Fatalf("NewOutputManager(\"\") = %v, %v; want nil, nil", om, err)
	}

	// A nil manager accepts every call.
	if err := om.WriteFlock(FlockStats{}); err != nil {
		t.Error(err)
	}
	if err := om.WritePerf(PerfStats{}, 0, 1); err != nil {
		t.Error(err)
	}
	if err := om.WriteBookmarks([]Bookmark{{Type: BookmarkScattered}}); err != nil {
		t.Error(err)
	}
	if err := om.WriteConfig(nil); err != nil {
		t.Error(err)
	}
	if om.Dir() != "" {
		t.Error("nil manager reported a directory")
	}
	if err := om.Close(); err != nil {
		t.Error(err)
	}
}

func TestOutputManagerWritesCSV(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}

	for tick := uint64(60); tick <= 180; tick += 60 {
		if err := om.WriteFlock(FlockStats{Tick: tick, Count: 10, Polarization: 0.5}); err != nil {
			t.Fatalf("WriteFlock: %v", err)
		}
		if err := om.WritePerf(PerfStats{PhasePct: map[string]float64{"dispatch": 80}}, tick, 4); err != nil {
			t.Fatalf("WritePerf: %v", err)
		}
	}
	if err := om.WriteBookmarks([]Bookmark{{Type: BookmarkAligned, Tick: 120, Description: "Polarization rose"}}); err != nil {
		t.Fatalf("WriteBookmarks: %v", err)
	}

	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}
	if err := om.WriteConfig(cfg); err != nil {
		t.Fatalf("WriteConfig: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "flock.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(string(data), "polarization"); n != 1 {
		t.Errorf("flock.csv has %d header rows, want 1", n)
	}

	var rows []FlockStats
	if err := gocsv.UnmarshalBytes(data, &rows); err != nil {
		t.Fatalf("parsing flock.csv: %v", err)
	}
	if len(rows) != 3 || rows[2].Tick != 180 || rows[0].Count != 10 {
		t.Errorf("flock rows = %+v", rows)
	}

	perf, err := os.ReadFile(filepath.Join(dir, "perf.csv"))
	if err != nil {
		t.Fatal(err)
	}
	var perfRows []PerfStatsCSV
	if err := gocsv.UnmarshalBytes(perf, &perfRows); err != nil {
		t.Fatalf("parsing perf.csv: %v", err)
	}
	if len(perfRows) != 3 || perfRows[0].DispatchPct != 80 || perfRows[1].Workers != 4 {
		t.Errorf("perf rows = %+v", perfRows)
	}

	marks, err := os.ReadFile(filepath.Join(dir, "bookmarks.csv"))
	if err != nil {
		t.Fatal(err)
	}
	var markRows []Bookmark
	if err := gocsv.UnmarshalBytes(marks, &markRows); err != nil {
		t.Fatalf("parsing bookmarks.csv: %v", err)
	}
	if len(markRows) != 1 || markRows[0].Type != BookmarkAligned || markRows[0].Tick != 120 {
		t.Errorf("bookmark rows = %+v", markRows)
	}

	if _, err := config.Load(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("config.yaml does not reload: %v", err)
	}
}
