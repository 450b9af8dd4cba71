package gradebook

import "math"

// CurveAdd adds `points` to every recorded score, capped at the assignment's max_points.
func (gb *Gradebook) CurveAdd(points float64) {
	gb.curve(func(score float64) float64 { return score + points })
}

// CurveScale multiplies every recorded score by `factor`, capped at the assignment's max_points.
func (gb *Gradebook) CurveScale(factor float64) {
	gb.curve(func(score float64) float64 { return score * factor })
}

// curve never leaves a score outside [0, max_points]; ungraded cells stay ungraded.
// A score whose curved value is NaN keeps its old value.
func (gb *Gradebook) curve(fn func(float64) float64) {
	gb.mu.Lock()
	defer gb.mu.Unlock()

	for _, row := range gb.grades {
		for aid, score := range row {
			curved := fn(score)
			if math.IsNaN(curved) {
				continue
			}
			curved = math.Min(curved, gb.assignments[aid].MaxPoints)
			if curved < 0 {
				curved = 0
			}
			row[aid] = curved
		}
	}
}
