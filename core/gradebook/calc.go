package gradebook

import (
	"math"

	"github.com/pkg/errors"
)

const weightTolerance = 1e-6

func (gb *Gradebook) totalWeight() float64 {
	var total float64
	for _, a := range gb.assignments {
		total += a.Weight
	}
	return total
}

// NormalizedWeights divides every assignment weight by the total weight.
func (gb *Gradebook) NormalizedWeights() (map[string]float64, error) {
	gb.mu.RLock()
	defer gb.mu.RUnlock()
	return gb.normalizedWeights()
}

func (gb *Gradebook) normalizedWeights() (map[string]float64, error) {
	total := gb.totalWeight()
	if total <= 0 {
		return nil, errors.Wrap(ErrWeight, "total assignment weight is zero; cannot compute final grades")
	}
	weights := make(map[string]float64, len(gb.assignments))
	for id, a := range gb.assignments {
		weights[id] = a.Weight / total
	}
	return weights, nil
}

func (gb *Gradebook) effectiveWeights() (map[string]float64, error) {
	if !gb.strictWeights {
		return gb.normalizedWeights()
	}
	total := gb.totalWeight()
	if math.Abs(total-1.0) >= weightTolerance {
		return nil, errors.Wrapf(ErrWeight, "weights must sum to 1.0 when strict; got %.3f", total)
	}
	weights := make(map[string]float64, len(gb.assignments))
	for id, a := range gb.assignments {
		weights[id] = a.Weight
	}
	return weights, nil
}

// StudentPercentage is the weighted final percentage of a student. Missing scores count as 0.
func (gb *Gradebook) StudentPercentage(studentID string) (float64, error) {
	gb.mu.RLock()
	defer gb.mu.RUnlock()

	if _, err := gb.getStudent(studentID); err != nil {
		return 0, err
	}
	weights, err := gb.effectiveWeights()
	if err != nil {
		return 0, err
	}
	return gb.studentPercentage(studentID, weights), nil
}

func (gb *Gradebook) studentPercentage(studentID string, weights map[string]float64) float64 {
	row := gb.grades[studentID]
	var total float64
	for _, aid := range gb.assignmentIDs {
		a := gb.assignments[aid]
		var ratio float64
		if score, ok := row[aid]; ok {
			ratio = score / a.MaxPoints
		}
		total += ratio * weights[aid] * 100.0
	}
	return total
}

// StudentGPA looks the student's percentage up in the GPA scale.
func (gb *Gradebook) StudentGPA(studentID string) (float64, error) {
	pct, err := gb.StudentPercentage(studentID)
	if err != nil {
		return 0, err
	}
	return gb.scale.Lookup(pct), nil
}

// ClassAverage is the mean percentage of all students, or 0 when there are none.
func (gb *Gradebook) ClassAverage() (float64, error) {
	gb.mu.RLock()
	defer gb.mu.RUnlock()

	if len(gb.students) == 0 {
		return 0.0, nil
	}
	weights, err := gb.effectiveWeights()
	if err != nil {
		return 0, err
	}
	var sum float64
	for _, sid := range gb.studentIDs {
		sum += gb.studentPercentage(sid, weights)
	}
	return sum / float64(len(gb.studentIDs)), nil
}
