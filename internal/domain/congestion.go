package domain

import (
	"fmt"
	"math"
	"strconv"
)

// ServiceGrade is a Level of Service letter. Higher values are worse.
type ServiceGrade int

const (
	GradeA ServiceGrade = iota
	GradeB
	GradeC
	GradeD
	GradeE
	GradeF
)

// Grades lists every service grade from best to worst.
var Grades = []ServiceGrade{GradeA, GradeB, GradeC, GradeD, GradeE, GradeF}

// gradeStep is the width of each LOS band in hourly PCU.
const gradeStep = 1440.0

// GradeUpperBounds are the inclusive upper bounds of grades A through E.
// Anything above the last bound is F.
var GradeUpperBounds = [...]float64{
	1 * gradeStep,
	2 * gradeStep,
	3 * gradeStep,
	4 * gradeStep,
	5 * gradeStep,
}

func (g ServiceGrade) String() string {
	if g < GradeA || g > GradeF {
		return "ServiceGrade(" + strconv.Itoa(int(g)) + ")"
	}
	return string(rune('A' + int(g)))
}

// Color returns the badge colour used by the dashboard for the grade.
func (g ServiceGrade) Color() string {
	switch g {
	case GradeA:
		return "brightgreen"
	case GradeB:
		return "green"
	case GradeC:
		return "yellowgreen"
	case GradeD:
		return "yellow"
	case GradeE:
		return "orange"
	default:
		return "red"
	}
}

// MarshalText encodes the grade as its letter.
func (g ServiceGrade) MarshalText() ([]byte, error) {
	if g < GradeA || g > GradeF {
		return nil, fmt.Errorf("domain: invalid service grade %d", int(g))
	}
	return []byte(g.String()), nil
}

// UnmarshalText decodes a grade letter.
func (g *ServiceGrade) UnmarshalText(b []byte) error {
	if len(b) != 1 || b[0] < 'A' || b[0] > 'F' {
		return NewInputError("service_grade", string(b), "expected a letter A-F")
	}
	*g = ServiceGrade(b[0] - 'A')
	return nil
}

// ComputeCongestionIndex returns scaleFactor * Σ counts[m]*weights[m].
//
// counts must carry exactly the modes in weights, none of them negative.
// scaleFactor converts a 5-minute bucket into an hourly equivalent and must be
// positive and finite.
func ComputeCongestionIndex(counts ModeCount, weights WeightTable, scaleFactor float64) (float64, error) {
	if scaleFactor <= 0 || math.IsNaN(scaleFactor) || math.IsInf(scaleFactor, 0) {
		return 0, NewInputError("scale_factor", strconv.FormatFloat(scaleFactor, 'g', -1, 64), "must be positive and finite")
	}
	if err := weights.Validate(); err != nil {
		return 0, err
	}
	for m := range counts {
		if _, ok := weights[m]; !ok {
			return 0, NewInputError("counts", string(m), "mode has no weight")
		}
	}

	sum := 0.0
	for _, m := range weights.sortedModes() {
		n, ok := counts[m]
		if !ok {
			return 0, NewInputError("counts", string(m), "missing count for mode")
		}
		if n < 0 {
			return 0, NewInputError("counts", fmt.Sprintf("%s=%d", m, n), "count must not be negative")
		}
		sum += float64(n) * weights[m]
	}
	return sum * scaleFactor, nil
}

// ClassifyServiceGrade maps a congestion index onto a grade. Bounds are
// inclusive, so an index sitting exactly on a bound gets the better grade.
func ClassifyServiceGrade(index float64) (ServiceGrade, error) {
	if index < 0 || math.IsNaN(index) {
		return GradeF, NewInputError("congestion_index", strconv.FormatFloat(index, 'g', -1, 64), "must be a non-negative number")
	}
	for i, bound := range GradeUpperBounds {
		if index <= bound {
			return ServiceGrade(i), nil
		}
	}
	return GradeF, nil
}

// Assessment pairs a congestion index with its grade.
type Assessment struct {
	CongestionIndex float64      `json:"congestion_index"`
	ServiceGrade    ServiceGrade `json:"service_grade"`
}

// Engine computes assessments with a fixed weight table and scale factor.
// It holds no mutable state and may be shared between goroutines.
type Engine struct {
	weights     WeightTable
	scaleFactor float64
}

// NewEngine validates the configuration and returns an Engine. The weight
// table is copied so later changes by the caller have no effect.
func NewEngine(weights WeightTable, scaleFactor float64) (Engine, error) {
	if err := weights.Validate(); err != nil {
		return Engine{}, err
	}
	if scaleFactor <= 0 || math.IsNaN(scaleFactor) || math.IsInf(scaleFactor, 0) {
		return Engine{}, NewInputError("scale_factor", strconv.FormatFloat(scaleFactor, 'g', -1, 64), "must be positive and finite")
	}
	w := make(WeightTable, len(weights))
	for m, f := range weights {
		w[m] = f
	}
	return Engine{weights: w, scaleFactor: scaleFactor}, nil
}

// ScaleFactor returns the configured scale factor.
func (e Engine) ScaleFactor() float64 { return e.scaleFactor }

// Weights returns a copy of the configured weight table.
func (e Engine) Weights() WeightTable {
	w := make(WeightTable, len(e.weights))
	for m, f := range e.weights {
		w[m] = f
	}
	return w
}

// Assess computes the index and grade for counts.
func (e Engine) Assess(counts ModeCount) (Assessment, error) {
	return e.AssessScaled(counts, e.scaleFactor)
}

// AssessScaled is Assess with a caller-supplied scale factor.
func (e Engine) AssessScaled(counts ModeCount, scaleFactor float64) (Assessment, error) {
	index, err := ComputeCongestionIndex(counts, e.weights, scaleFactor)
	if err != nil {
		return Assessment{}, err
	}
	grade, err := ClassifyServiceGrade(index)
	if err != nil {
		return Assessment{}, err
	}
	return Assessment{CongestionIndex: index, ServiceGrade: grade}, nil
}
