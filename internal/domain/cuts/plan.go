// Package cuts plans the random-cuts reorder: where to cut, which segments
// are long enough to keep, and in what order to reassemble them.
package cuts

import (
	"sort"

	"github.com/forPelevin/ytpgen/internal/rng"
)

// MinSegment is the shortest segment, in seconds, worth extracting.
const MinSegment = 0.05

// maxDraws bounds redraws when a cut point collides with 0 or another cut.
const maxDraws = 1000

type Segment struct {
	Start float64
	End   float64
}

func (s Segment) Len() float64 { return s.End - s.Start }

// Plan is the outcome of cutting a duration into pieces.
type Plan struct {
	// Bounds is sorted, starts at 0 and ends at the duration.
	Bounds []float64
	// Kept holds segments at least MinSegment long, in timeline order.
	Kept []Segment
	// Order is Kept shuffled into playback order.
	Order []Segment
}

// New cuts duration into count candidate segments using count-1 distinct
// random cut points, filters out short ones and shuffles the rest. count
// below 1 is treated as 1.
func New(duration float64, count int, r rng.Source) Plan {
	count = max(count, 1)
	points := drawPoints(duration, count-1, r)

	bounds := make([]float64, 0, len(points)+2)
	bounds = append(bounds, 0)
	bounds = append(bounds, points...)
	bounds = append(bounds, duration)

	kept := Filter(bounds)
	order := append([]Segment(nil), kept...)
	r.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })

	return Plan{Bounds: bounds, Kept: kept, Order: order}
}

// Filter turns sorted bounds into consecutive segments and drops the ones
// shorter than MinSegment.
func Filter(bounds []float64) []Segment {
	var out []Segment
	for i := 0; i+1 < len(bounds); i++ {
		s := Segment{Start: bounds[i], End: bounds[i+1]}
		if s.Len() >= MinSegment {
			out = append(out, s)
		}
	}
	return out
}

func drawPoints(duration float64, n int, r rng.Source) []float64 {
	seen := make(map[float64]bool, n)
	points := make([]float64, 0, n)
	for draws := 0; len(points) < n && draws < maxDraws; draws++ {
		p := duration * r.Float64()
		if p <= 0 || p >= duration || seen[p] {
			continue
		}
		seen[p] = true
		points = append(points, p)
	}
	sort.Float64s(points)
	return points
}
