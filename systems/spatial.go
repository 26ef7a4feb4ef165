// Package systems implements the per-tick flocking pipeline.
package systems

import (
	"math"
	"time"

	"gonum.org/v1/gonum/spatial/kdtree"
)

// IndexEntry is an (identity, position) pair fed to the spatial index.
type IndexEntry struct {
	ID  uint32
	Pos Vec2
}

// Neighbor is a k-nearest result.
// DistSq is measured against positions as of the last rebuild.
type Neighbor struct {
	ID     uint32
	DistSq float32
}

// indexPoint is a k-d tree point carrying an agent identity.
type indexPoint struct {
	id   uint32
	x, y float64
}

func (p indexPoint) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(indexPoint)
	switch d {
	case 0:
		return p.x - q.x
	case 1:
		return p.y - q.y
	default:
		panic("spatial: illegal dimension")
	}
}

func (p indexPoint) Dims() int { return 2 }

// Distance returns the squared Euclidean distance.
func (p indexPoint) Distance(c kdtree.Comparable) float64 {
	q := c.(indexPoint)
	dx := p.x - q.x
	dy := p.y - q.y
	return dx*dx + dy*dy
}

type indexPoints []indexPoint

func (p indexPoints) Index(i int) kdtree.Comparable { return p[i] }
func (p indexPoints) Len() int                      { return len(p) }
func (p indexPoints) Pivot(d kdtree.Dim) int {
	return indexPlane{indexPoints: p, Dim: d}.Pivot()
}
func (p indexPoints) Slice(start, end int) kdtree.Interface { return p[start:end] }

// indexPlane sorts indexPoints along one dimension for median selection.
type indexPlane struct {
	kdtree.Dim
	indexPoints
}

func (p indexPlane) Less(i, j int) bool {
	switch p.Dim {
	case 0:
		return p.indexPoints[i].x < p.indexPoints[j].x
	case 1:
		return p.indexPoints[i].y < p.indexPoints[j].y
	default:
		panic("spatial: illegal dimension")
	}
}
func (p indexPlane) Pivot() int { return kdtree.Partition(p, kdtree.MedianOfMedians(p)) }
func (p indexPlane) Slice(start, end int) kdtree.SortSlicer {
	p.indexPoints = p.indexPoints[start:end]
	return p
}
func (p indexPlane) Swap(i, j int) {
	p.indexPoints[i], p.indexPoints[j] = p.indexPoints[j], p.indexPoints[i]
}

// SpatialIndex answers k-nearest-neighbor queries over agent positions.
// Queries are safe to run concurrently with each other but not with Rebuild.
type SpatialIndex struct {
	tree   *kdtree.Tree
	points indexPoints
}

// NewSpatialIndex creates an empty index.
func NewSpatialIndex() *SpatialIndex {
	return &SpatialIndex{}
}

// Rebuild replaces the index contents.
func (s *SpatialIndex) Rebuild(entries []IndexEntry) {
	s.points = s.points[:0]
	for _, e := range entries {
		s.points = append(s.points, indexPoint{id: e.ID, x: float64(e.Pos.X), y: float64(e.Pos.Y)})
	}
	if len(s.points) == 0 {
		s.tree = nil
		return
	}
	s.tree = kdtree.New(s.points, false)
}

// Len returns the number of indexed agents.
func (s *SpatialIndex) Len() int {
	return len(s.points)
}

// Keeper collects the k best candidates of one query.
// Each goroutine needs its own; reuse it across queries to avoid allocations.
type Keeper struct {
	k *kdtree.NKeeper
}

// reset prepares the keeper for a query of up to n results.
func (k *Keeper) reset(n int) {
	if k.k == nil || cap(k.k.Heap) != n {
		k.k = kdtree.NewNKeeper(n)
		return
	}
	k.k.Heap = k.k.Heap[:1]
	k.k.Heap[0] = kdtree.ComparableDist{Dist: math.Inf(1)}
}

// KNearest appends up to n agents nearest to p to dst and returns it.
// Result order is unspecified, as is the choice among equidistant agents at the cutoff.
func (s *SpatialIndex) KNearest(dst []Neighbor, p Vec2, n int, keeper *Keeper) []Neighbor {
	if s.tree == nil || n <= 0 {
		return dst
	}
	keeper.reset(n)
	s.tree.NearestSet(keeper.k, indexPoint{x: float64(p.X), y: float64(p.Y)})

	for _, c := range keeper.k.Heap {
		// The sentinel survives when fewer than n points exist.
		if c.Comparable == nil {
			continue
		}
		pt := c.Comparable.(indexPoint)
		dst = append(dst, Neighbor{ID: pt.id, DistSq: float32(c.Dist)})
	}
	return dst
}

// RebuildSchedule decides when the spatial index is refreshed.
// It runs on wall time, independent of the simulation tick.
type RebuildSchedule struct {
	Interval time.Duration // 0 rebuilds on every check
	last     time.Time
	primed   bool
}

// Due reports whether a rebuild should happen at now, and if so records now as the last rebuild.
func (r *RebuildSchedule) Due(now time.Time) bool {
	if r.primed && r.Interval > 0 && now.Sub(r.last) < r.Interval {
		return false
	}
	r.last = now
	r.primed = true
	return true
}

// Reset forces the next Due call to return true.
func (r *RebuildSchedule) Reset() {
	r.primed = false
}
