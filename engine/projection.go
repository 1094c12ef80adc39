package engine

import (
	"math"
	"sort"
)

// DefaultProjectionMonths is how far past the last measurement Project reaches.
const DefaultProjectionMonths = 6

// Project continues the slope between the two most recent points.
//
// One point is emitted per integer month from ceil(last.X)+1 through
// last.X+horizonMonths, rounded to 2 decimals. Non-positive values are
// dropped. Fewer than two points, or a zero/negative age step between the
// last two, yield an empty projection.
func Project(points []Point, horizonMonths int) []Point {
	projection := []Point{}
	if len(points) < 2 {
		return projection
	}

	sorted := make([]Point, len(points))
	copy(sorted, points)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].X < sorted[j].X })

	last := sorted[len(sorted)-1]
	prev := sorted[len(sorted)-2]
	dx := last.X - prev.X
	if dx <= 0 {
		return projection
	}

	slope := (last.Y - prev.Y) / dx
	maxAge := last.X + float64(horizonMonths)
	for x := math.Ceil(last.X) + 1; x <= maxAge; x++ {
		y := last.Y + slope*(x-last.X)
		if y <= 0 {
			continue
		}
		projection = append(projection, Point{X: x, Y: RoundTo2(y)})
	}
	return projection
}
