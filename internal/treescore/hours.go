package treescore

import (
	"github.com/rotisserie/eris"
)

// ExperienceTier classifies crew proficiency for points-per-hour lookups.
type ExperienceTier string

const (
	TierBeginner    ExperienceTier = "beginner"
	TierExperienced ExperienceTier = "experienced"
	TierExpert      ExperienceTier = "expert"
)

// PpHRange is a points-per-hour production range for one crew tier.
type PpHRange struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// Mid returns the midpoint of the range.
func (r PpHRange) Mid() float64 {
	return (r.Low + r.High) / 2
}

// Benchmarks holds points-per-hour production benchmarks by service and
// crew experience tier.
type Benchmarks map[Service]map[ExperienceTier]PpHRange

// DefaultBenchmarks returns the standard production benchmarks.
func DefaultBenchmarks() Benchmarks {
	return Benchmarks{
		ServiceRemoval: {
			TierBeginner:    {Low: 250, High: 350},
			TierExperienced: {Low: 350, High: 450},
			TierExpert:      {Low: 450, High: 550},
		},
		ServiceStumpGrinding: {
			TierBeginner:    {Low: 400, High: 500},
			TierExperienced: {Low: 500, High: 600},
			TierExpert:      {Low: 600, High: 800},
		},
		ServiceTrimming: {
			TierBeginner:    {Low: 300, High: 400},
			TierExperienced: {Low: 400, High: 500},
			TierExpert:      {Low: 500, High: 600},
		},
	}
}

// PpH returns the production range for a service and tier.
func (b Benchmarks) PpH(service Service, tier ExperienceTier) (PpHRange, error) {
	tiers, ok := b[service]
	if !ok {
		return PpHRange{}, eris.Wrapf(ErrUnknownService, "%q", service)
	}
	r, ok := tiers[tier]
	if !ok {
		return PpHRange{}, eris.Errorf("treescore: no benchmark for tier %q", tier)
	}
	return r, nil
}

// EstimateHours converts points into labor hours at the given production
// rate.
func EstimateHours(points, pph float64) (float64, error) {
	if points < 0 {
		return 0, eris.Wrapf(ErrInvalidDimension, "points %.2f must be >= 0", points)
	}
	if pph <= 0 {
		return 0, eris.Wrapf(ErrInvalidDimension, "points per hour %.2f must be > 0", pph)
	}
	return points / pph, nil
}

// HoursEstimate is the labor hour range implied by a benchmark.
type HoursEstimate struct {
	Points    float64  `json:"points"`
	PpH       PpHRange `json:"pph"`
	HoursLow  float64  `json:"hours_low"`  // at the high end of the PpH range
	HoursHigh float64  `json:"hours_high"` // at the low end of the PpH range
	HoursMid  float64  `json:"hours_mid"`
}

// EstimateHoursRange converts points into the hour range implied by the
// benchmarks for a service and crew tier.
func (b Benchmarks) EstimateHoursRange(points float64, service Service, tier ExperienceTier) (*HoursEstimate, error) {
	r, err := b.PpH(service, tier)
	if err != nil {
		return nil, err
	}
	lo, err := EstimateHours(points, r.High)
	if err != nil {
		return nil, err
	}
	hi, err := EstimateHours(points, r.Low)
	if err != nil {
		return nil, err
	}
	mid, err := EstimateHours(points, r.Mid())
	if err != nil {
		return nil, err
	}
	return &HoursEstimate{
		Points: points, PpH: r,
		HoursLow: lo, HoursHigh: hi, HoursMid: mid,
	}, nil
}
