package service

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/naineek/trafficdash/internal/domain"
	"github.com/naineek/trafficdash/pkg/utils"
)

// SeriesLength is the number of 5-minute buckets in a traffic report (12 hours).
const SeriesLength = 24 * 6

// TrafficService simulates recent per-mode counts and derives the dashboard views
type TrafficService struct {
	engine domain.Engine
	rng    *rand.Rand
	now    func() time.Time
}

// NewTrafficService creates a new traffic service
func NewTrafficService(engine domain.Engine, rng *rand.Rand, now func() time.Time) *TrafficService {
	if now == nil {
		now = time.Now
	}
	return &TrafficService{engine: engine, rng: rng, now: now}
}

// GetReport builds the full traffic report for a day type and a highlighted mode
func (s *TrafficService) GetReport(ctx context.Context, dayType domain.DayType, mode domain.Mode) (domain.TrafficReport, error) {
	if err := ctx.Err(); err != nil {
		return domain.TrafficReport{}, err
	}
	if !mode.Valid() {
		return domain.TrafficReport{}, domain.NewInputError("mode", string(mode), "unknown vehicle mode")
	}

	rows, err := s.Series(dayType, s.now())
	if err != nil {
		return domain.TrafficReport{}, err
	}

	share := ModeShare(rows)
	return domain.TrafficReport{
		DayType:           dayType,
		Mode:              mode,
		Rows:              rows,
		ModeShare:         share,
		PeakMode:          PeakMode(share),
		Peak:              Peak(rows),
		Heatmap:           BuildHeatmap(rows),
		ActualVsPredicted: ActualVsPredicted(rows, mode, s.rng),
		IsMock:            true,
	}, nil
}

// Series simulates SeriesLength buckets ending at end. Every mode gets a base
// volume in [50,150) and each bucket adds noise in [-10,15) before the day
// type multiplier is applied.
func (s *TrafficService) Series(dayType domain.DayType, end time.Time) ([]domain.TrafficRow, error) {
	multiplier := dayType.Multiplier()
	start := end.Add(-time.Duration(SeriesLength-1) * domain.BucketDuration)

	rows := make([]domain.TrafficRow, SeriesLength)
	for i := range rows {
		rows[i] = domain.TrafficRow{
			Time:   start.Add(time.Duration(i) * domain.BucketDuration),
			Counts: make(domain.ModeCount, len(domain.Modes)),
		}
	}

	for _, m := range domain.Modes {
		base := utils.IntBetween(s.rng, 50, 150)
		for i := range rows {
			raw := float64(base+utils.IntBetween(s.rng, -10, 15)) * multiplier
			rows[i].Counts[m] = int(math.Max(0, math.Round(raw)))
		}
	}

	for i := range rows {
		a, err := s.engine.Assess(rows[i].Counts)
		if err != nil {
			return nil, fmt.Errorf("traffic: assess bucket %s: %w", rows[i].Time.Format(time.RFC3339), err)
		}
		rows[i].Assessment = a
	}
	return rows, nil
}

// ModeShare totals each mode over the series.
func ModeShare(rows []domain.TrafficRow) map[domain.Mode]int {
	share := make(map[domain.Mode]int, len(domain.Modes))
	for _, m := range domain.Modes {
		share[m] = 0
	}
	for _, row := range rows {
		for m, n := range row.Counts {
			share[m] += n
		}
	}
	return share
}

// PeakMode returns the mode with the largest total. Ties go to the mode listed
// first in domain.Modes. It returns "" when share is empty.
func PeakMode(share map[domain.Mode]int) domain.Mode {
	var (
		best  domain.Mode
		total int
	)
	for _, m := range domain.Modes {
		n, ok := share[m]
		if !ok {
			continue
		}
		if best == "" || n > total {
			best, total = m, n
		}
	}
	return best
}

// Peak returns the first bucket with the highest total volume.
func Peak(rows []domain.TrafficRow) domain.PeakWindow {
	if len(rows) == 0 {
		return domain.PeakWindow{}
	}
	best := 0
	bestTotal := rows[0].Counts.Total()
	for i := 1; i < len(rows); i++ {
		if total := rows[i].Counts.Total(); total > bestTotal {
			best, bestTotal = i, total
		}
	}
	return domain.PeakWindow{
		Start:       rows[best].Time,
		End:         rows[best].Time.Add(domain.BucketDuration),
		TotalVolume: bestTotal,
	}
}

// BuildHeatmap lays the series out as modes by time.
func BuildHeatmap(rows []domain.TrafficRow) domain.Heatmap {
	hm := domain.Heatmap{
		Modes:  append([]domain.Mode(nil), domain.Modes...),
		Times:  make([]time.Time, len(rows)),
		Values: make([][]int, len(domain.Modes)),
	}
	for i, row := range rows {
		hm.Times[i] = row.Time
	}
	for j, m := range domain.Modes {
		hm.Values[j] = make([]int, len(rows))
		for i, row := range rows {
			hm.Values[j][i] = row.Counts[m]
		}
	}
	return hm
}

// ActualVsPredicted pairs each bucket's count for mode with a prediction
// perturbed by a factor in [-5%, +5%).
func ActualVsPredicted(rows []domain.TrafficRow, mode domain.Mode, rng *rand.Rand) []domain.SeriesPoint {
	points := make([]domain.SeriesPoint, len(rows))
	for i, row := range rows {
		actual := row.Counts[mode]
		factor := 1 + utils.FloatBetween(rng, -0.05, 0.05)
		points[i] = domain.SeriesPoint{
			Time:      row.Time,
			Actual:    actual,
			Predicted: utils.RoundTo(float64(actual)*factor, 2),
		}
	}
	return points
}
