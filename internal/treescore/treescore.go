// Package treescore computes TreeScore point values from tree geometry.
// Points quantify job size: a removal of a 80ft tree with a 20ft canopy
// radius and 24in DBH scores 80 * 40 * 2 = 6400 points.
package treescore

import (
	"github.com/rotisserie/eris"
)

var (
	// ErrInvalidDimension indicates a non-positive or negative measurement.
	ErrInvalidDimension = eris.New("treescore: invalid dimension")

	// ErrUnknownService indicates an unsupported service type.
	ErrUnknownService = eris.New("treescore: unknown service type")
)

// Service identifies the work type being scored.
type Service string

const (
	ServiceRemoval       Service = "tree_removal"
	ServiceStumpGrinding Service = "stump_grinding"
	ServiceTrimming      Service = "tree_trimming"
)

// Input holds the tree measurements for a calculation.
type Input struct {
	Service        Service `json:"service"`
	HeightFt       float64 `json:"height_ft"`
	CanopyRadiusFt float64 `json:"canopy_radius_ft"`
	DBHInches      float64 `json:"dbh_inches"`
}

// Result is a computed TreeScore.
type Result struct {
	Service Service `json:"service"`
	Points  float64 `json:"points"`
	Formula string  `json:"formula"`
}

// Stump grinding assumes a 12 inch grind depth below grade.
const grindDepthInches = 12.0

// Calculate computes the TreeScore points for the given measurements.
func Calculate(in Input) (*Result, error) {
	if err := validate(in); err != nil {
		return nil, err
	}

	switch in.Service {
	case ServiceRemoval:
		return &Result{
			Service: in.Service,
			Points:  in.HeightFt * (in.CanopyRadiusFt * 2) * (in.DBHInches / 12),
			Formula: "height x canopy_diameter x (dbh / 12)",
		}, nil
	case ServiceStumpGrinding:
		return &Result{
			Service: in.Service,
			Points:  (in.HeightFt + grindDepthInches) * in.DBHInches,
			Formula: "(stump_height + grind_depth) x dbh",
		}, nil
	case ServiceTrimming:
		return &Result{
			Service: in.Service,
			Points:  in.HeightFt * in.CanopyRadiusFt * (in.DBHInches / 24),
			Formula: "height x canopy_radius x (dbh / 24)",
		}, nil
	default:
		return nil, eris.Wrapf(ErrUnknownService, "%q", in.Service)
	}
}

func validate(in Input) error {
	if in.HeightFt <= 0 {
		return eris.Wrapf(ErrInvalidDimension, "height %.2f must be > 0", in.HeightFt)
	}
	if in.DBHInches <= 0 {
		return eris.Wrapf(ErrInvalidDimension, "dbh %.2f must be > 0", in.DBHInches)
	}
	if in.CanopyRadiusFt < 0 {
		return eris.Wrapf(ErrInvalidDimension, "canopy radius %.2f must be >= 0", in.CanopyRadiusFt)
	}
	// Removal and trimming both scale with canopy; a zero canopy means
	// the measurement is missing, not that the tree has no crown.
	if in.Service != ServiceStumpGrinding && in.CanopyRadiusFt == 0 {
		return eris.Wrapf(ErrInvalidDimension, "canopy radius required for %s", in.Service)
	}
	return nil
}

// WithRiskBonus returns total project points: base TreeScore plus the
// AFISS composite added as a flat point bonus.
func WithRiskBonus(base *Result, afissComposite float64) float64 {
	return base.Points + afissComposite
}
