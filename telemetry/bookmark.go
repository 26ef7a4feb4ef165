package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkAligned      BookmarkType = "aligned"
	BookmarkScattered    BookmarkType = "scattered"
	BookmarkContracted   BookmarkType = "contracted"
	BookmarkHueConsensus BookmarkType = "hue_consensus"
	BookmarkSteadyState  BookmarkType = "steady_state"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Tick        uint64       `csv:"tick"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

const (
	alignedAbove    = 0.9
	disorderedBelow = 0.5
	scatterDrop     = 0.4
	consensusAbove  = 0.9
	consensusReset  = 0.7
	steadyWindows   = 5
)

// BookmarkDetector watches successive FlockStats windows for notable
// transitions in the flock's order.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []FlockStats
	historySize int
	historyIdx  int
	historyFull bool

	recentPolMin      float64 // lowest polarization since the last aligned bookmark
	recentPolPeak     float64 // highest polarization since the last scattered bookmark
	consensus         bool    // hue_consensus fired and has not reset
	steadyWindowCount int
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < steadyWindows {
		historySize = steadyWindows
	}
	return &BookmarkDetector{
		history:      make([]FlockStats, historySize),
		historySize:  historySize,
		recentPolMin: 1,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats FlockStats) []Bookmark {
	var bookmarks []Bookmark
	if stats.Count < 2 {
		bd.addToHistory(stats)
		return nil
	}

	if bd.historyFull || bd.historyIdx > 0 {
		if b := bd.checkAligned(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
		if b := bd.checkScattered(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
		if b := bd.checkContracted(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
		if b := bd.checkSteadyState(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
	}
	if b := bd.checkHueConsensus(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	bd.addToHistory(stats)

	if stats.Polarization < bd.recentPolMin {
		bd.recentPolMin = stats.Polarization
	}
	if stats.Polarization > bd.recentPolPeak {
		bd.recentPolPeak = stats.Polarization
	}

	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats FlockStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

// getHistory returns the stored windows, oldest first.
func (bd *BookmarkDetector) getHistory() []FlockStats {
	if !bd.historyFull {
		return bd.history[:bd.historyIdx]
	}
	out := make([]FlockStats, 0, bd.historySize)
	out = append(out, bd.history[bd.historyIdx:]...)
	return append(out, bd.history[:bd.historyIdx]...)
}

func (bd *BookmarkDetector) checkAligned(stats FlockStats) *Bookmark {
	if bd.recentPolMin >= disorderedBelow || stats.Polarization < alignedAbove {
		return nil
	}
	from := bd.recentPolMin
	bd.recentPolMin = stats.Polarization
	return &Bookmark{
		Type:        BookmarkAligned,
		Tick:        stats.Tick,
		Description: fmt.Sprintf("Polarization rose from %.2f to %.2f", from, stats.Polarization),
	}
}

func (bd *BookmarkDetector) checkScattered(stats FlockStats) *Bookmark {
	if bd.recentPolPeak-stats.Polarization <= scatterDrop {
		return nil
	}
	peak := bd.recentPolPeak
	bd.recentPolPeak = stats.Polarization
	return &Bookmark{
		Type:        BookmarkScattered,
		Tick:        stats.Tick,
		Description: fmt.Sprintf("Polarization fell from peak %.2f to %.2f", peak, stats.Polarization),
	}
}

func (bd *BookmarkDetector) checkContracted(stats FlockStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	var total float64
	for _, h := range history {
		total += h.Dispersion
	}
	avg := total / float64(len(history))
	if avg == 0 {
		return nil
	}

	if stats.Dispersion < avg*0.5 {
		return &Bookmark{
			Type:        BookmarkContracted,
			Tick:        stats.Tick,
			Description: fmt.Sprintf("Dispersion %.1f is %.0f%% of average (%.1f)", stats.Dispersion, 100*stats.Dispersion/avg, avg),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkHueConsensus(stats FlockStats) *Bookmark {
	if bd.consensus {
		if stats.HueCoherence < consensusReset {
			bd.consensus = false
		}
		return nil
	}
	if stats.HueCoherence < consensusAbove {
		return nil
	}
	bd.consensus = true
	return &Bookmark{
		Type:        BookmarkHueConsensus,
		Tick:        stats.Tick,
		Description: fmt.Sprintf("Hue coherence %.2f around %.0f degrees", stats.HueCoherence, stats.HueMean),
	}
}

func (bd *BookmarkDetector) checkSteadyState(stats FlockStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < steadyWindows-1 {
		return nil
	}

	// The current window plus the most recent ones.
	recent := append(history[len(history)-(steadyWindows-1):len(history):len(history)], stats)
	var polSum, dispSum float64
	for _, h := range recent {
		polSum += h.Polarization
		dispSum += h.Dispersion
	}
	n := float64(len(recent))
	polMean, dispMean := polSum/n, dispSum/n

	var polVar, dispVar float64
	for _, h := range recent {
		polVar += (h.Polarization - polMean) * (h.Polarization - polMean)
		dispVar += (h.Dispersion - dispMean) * (h.Dispersion - dispMean)
	}
	polVar /= n
	dispVar /= n

	// CV^2 < 0.01 means CV < 0.1
	steady := polMean > 0 && dispMean > 0 &&
		polVar/(polMean*polMean) < 0.01 && dispVar/(dispMean*dispMean) < 0.01
	if !steady {
		bd.steadyWindowCount = 0
		return nil
	}

	bd.steadyWindowCount++
	if bd.steadyWindowCount == 1 { // trigger once per steady stretch
		return &Bookmark{
			Type:        BookmarkSteadyState,
			Tick:        stats.Tick,
			Description: fmt.Sprintf("Polarization %.2f and dispersion %.1f steady over %d windows", polMean, dispMean, steadyWindows),
		}
	}
	return nil
}
