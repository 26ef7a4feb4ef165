package telemetry

import "testing"

func hasBookmark(bookmarks []Bookmark, typ BookmarkType) bool {
	for _, bm := range bookmarks {
		if bm.Type == typ {
			return true
		}
	}
	return false
}

func TestBookmarkDetector_Aligned(t *testing.T) {
	bd := NewBookmarkDetector(10)

	for i, pol := range []float64{0.2, 0.3, 0.6} {
		if got := bd.Check(FlockStats{Tick: uint64(i * 60), Count: 50, Polarization: pol, Dispersion: 100}); hasBookmark(got, BookmarkAligned) {
			t.Fatalf("aligned bookmark at polarization %v", pol)
		}
	}

	got := bd.Check(FlockStats{Tick: 240, Count: 50, Polarization: 0.95, Dispersion: 100})
	if !hasBookmark(got, BookmarkAligned) {
		t.Error("expected aligned bookmark")
	}

	// The minimum resets, so a second high window does not fire again.
	got = bd.Check(FlockStats{Tick: 300, Count: 50, Polarization: 0.96, Dispersion: 100})
	if hasBookmark(got, BookmarkAligned) {
		t.Error("aligned bookmark fired twice")
	}
}

func TestBookmarkDetector_Scattered(t *testing.T) {
	bd := NewBookmarkDetector(10)

	for i := 0; i < 3; i++ {
		bd.Check(FlockStats{Tick: uint64(i * 60), Count: 50, Polarization: 0.9, Dispersion: 100})
	}
	got := bd.Check(FlockStats{Tick: 180, Count: 50, Polarization: 0.3, Dispersion: 100})
	if !hasBookmark(got, BookmarkScattered) {
		t.Error("expected scattered bookmark")
	}
	if got[0].Tick != 180 {
		t.Errorf("bookmark tick = %d, want 180", got[0].Tick)
	}
}

func TestBookmarkDetector_Contracted(t *testing.T) {
	bd := NewBookmarkDetector(10)

	for i := 0; i < 4; i++ {
		bd.Check(FlockStats{Tick: uint64(i * 60), Count: 50, Polarization: 0.5, Dispersion: 200})
	}
	got := bd.Check(FlockStats{Tick: 240, Count: 50, Polarization: 0.5, Dispersion: 60})
	if !hasBookmark(got, BookmarkContracted) {
		t.Error("expected contracted bookmark")
	}
}

func TestBookmarkDetector_HueConsensus(t *testing.T) {
	bd := NewBookmarkDetector(10)

	testCases := []struct {
		coherence float64
		want      bool
	}{
		{0.5, false},
		{0.95, true},
		{0.97, false}, // still in consensus
		{0.6, false},  // resets
		{0.92, true},
	}
	for i, tc := range testCases {
		got := bd.Check(FlockStats{Tick: uint64(i), Count: 20, HueCoherence: tc.coherence, Dispersion: 50, Polarization: 0.5})
		if hasBookmark(got, BookmarkHueConsensus) != tc.want {
			t.Errorf("window %d coherence %v: got bookmark=%v, want %v", i, tc.coherence, !tc.want, tc.want)
		}
	}
}

func TestBookmarkDetector_SteadyState(t *testing.T) {
	bd := NewBookmarkDetector(10)

	fired := 0
	for i := 0; i < 12; i++ {
		got := bd.Check(FlockStats{Tick: uint64(i * 60), Count: 100, Polarization: 0.8, Dispersion: 150})
		if hasBookmark(got, BookmarkSteadyState) {
			fired++
		}
	}
	if fired != 1 {
		t.Errorf("steady_state fired %d times, want 1", fired)
	}
}

func TestBookmarkDetector_IgnoresTinyFlocks(t *testing.T) {
	bd := NewBookmarkDetector(5)
	for i := 0; i < 10; i++ {
		if got := bd.Check(FlockStats{Tick: uint64(i), Count: 1, Polarization: 1, HueCoherence: 1}); len(got) != 0 {
			t.Fatalf("bookmarks for a single boid: %+v", got)
		}
	}
}
