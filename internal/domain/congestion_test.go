package domain

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleCounts() ModeCount {
	return ModeCount{
		ModeCar:        50,
		ModeTwoWheeler: 30,
		ModeBus:        5,
		ModeTruck:      2,
		ModeBicycle:    5,
		ModePedestrian: 5,
		ModeAuto:       5,
		ModeOthers:     1,
	}
}

func zeroCounts() ModeCount {
	c := ModeCount{}
	for _, m := range Modes {
		c[m] = 0
	}
	return c
}

func TestComputeCongestionIndex(t *testing.T) {
	t.Run("worked example", func(t *testing.T) {
		index, err := ComputeCongestionIndex(sampleCounts(), DefaultWeights(), 20)
		require.NoError(t, err)
		assert.InDelta(t, 1920.0, index, 1e-9)

		grade, err := ClassifyServiceGrade(index)
		require.NoError(t, err)
		assert.Equal(t, GradeB, grade)
	})

	t.Run("zero counts give zero", func(t *testing.T) {
		for _, scale := range []float64{1, 12, 20} {
			index, err := ComputeCongestionIndex(zeroCounts(), DefaultWeights(), scale)
			require.NoError(t, err)
			assert.Equal(t, 0.0, index)
		}
	})

	t.Run("linear in each mode", func(t *testing.T) {
		weights := DefaultWeights()
		base := sampleCounts()
		baseIndex, err := ComputeCongestionIndex(base, weights, 12)
		require.NoError(t, err)

		for _, m := range Modes {
			doubled := base.Clone()
			doubled[m] *= 2
			index, err := ComputeCongestionIndex(doubled, weights, 12)
			require.NoError(t, err)

			contribution := float64(base[m]) * weights[m] * 12
			assert.InDelta(t, baseIndex+contribution, index, 1e-9, "mode %s", m)
		}
	})

	t.Run("repeated calls are bit identical", func(t *testing.T) {
		first, err := ComputeCongestionIndex(sampleCounts(), DefaultWeights(), 12)
		require.NoError(t, err)
		for i := 0; i < 50; i++ {
			again, err := ComputeCongestionIndex(sampleCounts(), DefaultWeights(), 12)
			require.NoError(t, err)
			assert.Equal(t, math.Float64bits(first), math.Float64bits(again))
		}
	})

	t.Run("rejects bad input", func(t *testing.T) {
		missing := sampleCounts()
		delete(missing, ModeBus)

		extra := sampleCounts()
		extra["Tram"] = 3

		negative := sampleCounts()
		negative[ModeTruck] = -1

		cases := map[string]struct {
			counts ModeCount
			scale  float64
		}{
			"missing mode":   {missing, 12},
			"unknown mode":   {extra, 12},
			"negative count": {negative, 12},
			"zero scale":     {sampleCounts(), 0},
			"negative scale": {sampleCounts(), -12},
			"NaN scale":      {sampleCounts(), math.NaN()},
			"infinite scale": {sampleCounts(), math.Inf(1)},
		}
		for name, tc := range cases {
			t.Run(name, func(t *testing.T) {
				_, err := ComputeCongestionIndex(tc.counts, DefaultWeights(), tc.scale)
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidInput))

				var inputErr *InputError
				assert.True(t, errors.As(err, &inputErr))
			})
		}
	})

	t.Run("rejects bad weight tables", func(t *testing.T) {
		_, err := ComputeCongestionIndex(ModeCount{}, WeightTable{}, 12)
		assert.ErrorIs(t, err, ErrInvalidInput)

		w := DefaultWeights()
		w[ModeCar] = 0
		_, err = ComputeCongestionIndex(sampleCounts(), w, 12)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("partial weight table needs matching counts", func(t *testing.T) {
		w := WeightTable{ModeCar: 1.0, ModeBus: 2.5}
		index, err := ComputeCongestionIndex(ModeCount{ModeCar: 10, ModeBus: 2}, w, 12)
		require.NoError(t, err)
		assert.InDelta(t, 180.0, index, 1e-9)

		_, err = ComputeCongestionIndex(sampleCounts(), w, 12)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestClassifyServiceGrade(t *testing.T) {
	t.Run("boundaries take the better grade", func(t *testing.T) {
		cases := []struct {
			index float64
			want  ServiceGrade
		}{
			{0, GradeA},
			{1440, GradeA},
			{1440.0001, GradeB},
			{2880, GradeB},
			{2880.5, GradeC},
			{4320, GradeC},
			{4321, GradeD},
			{5760, GradeD},
			{5760.1, GradeE},
			{7200, GradeE},
			{7200.01, GradeF},
			{1e12, GradeF},
			{math.Inf(1), GradeF},
		}
		for _, tc := range cases {
			got, err := ClassifyServiceGrade(tc.index)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got, "index %v", tc.index)
		}
	})

	t.Run("monotone non-decreasing", func(t *testing.T) {
		prev := GradeA
		for index := 0.0; index <= 9000; index += 7.5 {
			g, err := ClassifyServiceGrade(index)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, int(g), int(prev), "index %v", index)
			prev = g
		}
	})

	t.Run("rejects negative and NaN", func(t *testing.T) {
		_, err := ClassifyServiceGrade(-0.01)
		assert.ErrorIs(t, err, ErrInvalidInput)

		_, err = ClassifyServiceGrade(math.NaN())
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestServiceGradeText(t *testing.T) {
	for i, g := range Grades {
		assert.Equal(t, string(rune('A'+i)), g.String())
		assert.NotEmpty(t, g.Color())
	}
	assert.Equal(t, "ServiceGrade(9)", ServiceGrade(9).String())

	b, err := json.Marshal(map[string]ServiceGrade{"los": GradeD})
	require.NoError(t, err)
	assert.JSONEq(t, `{"los":"D"}`, string(b))

	var decoded struct {
		LOS ServiceGrade `json:"los"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"los":"E"}`), &decoded))
	assert.Equal(t, GradeE, decoded.LOS)

	assert.Error(t, json.Unmarshal([]byte(`{"los":"G"}`), &decoded))
}

func TestEngine(t *testing.T) {
	t.Run("assesses with configured scale", func(t *testing.T) {
		engine, err := NewEngine(DefaultWeights(), 20)
		require.NoError(t, err)

		a, err := engine.Assess(sampleCounts())
		require.NoError(t, err)
		assert.InDelta(t, 1920.0, a.CongestionIndex, 1e-9)
		assert.Equal(t, GradeB, a.ServiceGrade)

		a, err = engine.AssessScaled(sampleCounts(), 12)
		require.NoError(t, err)
		assert.InDelta(t, 1152.0, a.CongestionIndex, 1e-9)
		assert.Equal(t, GradeA, a.ServiceGrade)
	})

	t.Run("copies the weight table", func(t *testing.T) {
		w := DefaultWeights()
		engine, err := NewEngine(w, 12)
		require.NoError(t, err)

		w[ModeCar] = 100
		assert.Equal(t, 1.0, engine.Weights()[ModeCar])

		engine.Weights()[ModeCar] = 100
		assert.Equal(t, 1.0, engine.Weights()[ModeCar])
	})

	t.Run("rejects bad configuration", func(t *testing.T) {
		_, err := NewEngine(DefaultWeights(), 0)
		assert.ErrorIs(t, err, ErrInvalidInput)

		_, err = NewEngine(WeightTable{"Tram": 1}, 12)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("zero engine refuses to assess", func(t *testing.T) {
		var engine Engine
		_, err := engine.Assess(sampleCounts())
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("safe for concurrent use", func(t *testing.T) {
		engine, err := NewEngine(DefaultWeights(), 12)
		require.NoError(t, err)

		done := make(chan float64, 16)
		for i := 0; i < 16; i++ {
			go func() {
				a, err := engine.Assess(sampleCounts())
				if err != nil {
					done <- -1
					return
				}
				done <- a.CongestionIndex
			}()
		}
		for i := 0; i < 16; i++ {
			assert.InDelta(t, 1152.0, <-done, 1e-9)
		}
	})
}
