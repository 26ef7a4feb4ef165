package telemetry

import (
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/flock/systems"
)

// FlockStats summarizes the flock at the end of a stats window.
type FlockStats struct {
	Tick       uint64  `csv:"tick"`
	SimTimeSec float64 `csv:"sim_time"`
	Count      int     `csv:"count"`

	// Polarization is the length of the mean unit velocity: 1 when every
	// boid heads the same way, near 0 for a disordered flock.
	Polarization float64 `csv:"polarization"`

	SpeedMean float64 `csv:"speed_mean"`
	SpeedStd  float64 `csv:"speed_std"`
	SpeedP10  float64 `csv:"speed_p10"`
	SpeedP50  float64 `csv:"speed_p50"`
	SpeedP90  float64 `csv:"speed_p90"`

	CentroidX  float64 `csv:"centroid_x"`
	CentroidY  float64 `csv:"centroid_y"`
	Dispersion float64 `csv:"dispersion"` // RMS distance to the centroid

	HueMean      float64 `csv:"hue_mean"`      // circular mean, degrees
	HueCoherence float64 `csv:"hue_coherence"` // mean resultant length of hues, 0..1
}

// FlockSampler computes FlockStats, reusing its buffers between windows.
type FlockSampler struct {
	speeds []float64
	xs, ys []float64
	ux, uy []float64
	hues   []float64
}

// Sample computes statistics over every boid in arena.
func (s *FlockSampler) Sample(arena *systems.Arena, tick uint64, simTime float64) FlockStats {
	out := FlockStats{Tick: tick, SimTimeSec: simTime, Count: arena.Len()}
	n := arena.Len()
	if n == 0 {
		return out
	}

	s.speeds = s.speeds[:0]
	s.xs, s.ys = s.xs[:0], s.ys[:0]
	s.ux, s.uy = s.ux[:0], s.uy[:0]
	s.hues = s.hues[:0]
	for i := range arena.Agents {
		ag := &arena.Agents[i]
		s.speeds = append(s.speeds, float64(ag.Vel.Len()))
		s.xs = append(s.xs, float64(ag.Pos.X))
		s.ys = append(s.ys, float64(ag.Pos.Y))
		dir := ag.Vel.Normalize()
		s.ux = append(s.ux, float64(dir.X))
		s.uy = append(s.uy, float64(dir.Y))
		s.hues = append(s.hues, float64(ag.Color.X)*math.Pi/180)
	}

	out.Polarization = math.Hypot(stat.Mean(s.ux, nil), stat.Mean(s.uy, nil))

	out.SpeedMean, out.SpeedStd = stat.MeanStdDev(s.speeds, nil)
	if n == 1 {
		out.SpeedStd = 0
	}
	sort.Float64s(s.speeds)
	out.SpeedP10 = stat.Quantile(0.10, stat.Empirical, s.speeds, nil)
	out.SpeedP50 = stat.Quantile(0.50, stat.Empirical, s.speeds, nil)
	out.SpeedP90 = stat.Quantile(0.90, stat.Empirical, s.speeds, nil)

	out.CentroidX = stat.Mean(s.xs, nil)
	out.CentroidY = stat.Mean(s.ys, nil)
	floats.AddConst(-out.CentroidX, s.xs)
	floats.AddConst(-out.CentroidY, s.ys)
	out.Dispersion = math.Sqrt((floats.Dot(s.xs, s.xs) + floats.Dot(s.ys, s.ys)) / float64(n))

	out.HueMean = math.Mod(stat.CircularMean(s.hues, nil)*180/math.Pi+360, 360)
	var sumSin, sumCos float64
	for _, h := range s.hues {
		sumSin += math.Sin(h)
		sumCos += math.Cos(h)
	}
	out.HueCoherence = math.Hypot(sumSin, sumCos) / float64(n)

	return out
}

// LogValue implements slog.LogValuer for structured logging.
func (s FlockStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Uint64("tick", s.Tick),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("count", s.Count),
		slog.Float64("polarization", s.Polarization),
		slog.Float64("speed_mean", s.SpeedMean),
		slog.Float64("speed_std", s.SpeedStd),
		slog.Float64("speed_p10", s.SpeedP10),
		slog.Float64("speed_p50", s.SpeedP50),
		slog.Float64("speed_p90", s.SpeedP90),
		slog.Float64("centroid_x", s.CentroidX),
		slog.Float64("centroid_y", s.CentroidY),
		slog.Float64("dispersion", s.Dispersion),
		slog.Float64("hue_mean", s.HueMean),
		slog.Float64("hue_coherence", s.HueCoherence),
	)
}

// LogStats logs the flock stats using slog.
func (s FlockStats) LogStats() {
	slog.Info("flock", "stats", s)
}
