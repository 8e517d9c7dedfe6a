// Package afiss implements weighted risk scoring across the five AFISS
// assessment domains (Access, Fall zone, Interference, Severity, Site
// conditions) and maps composite scores to pricing tiers.
package afiss

import (
	"fmt"
	"math"
	"strings"

	"github.com/rotisserie/eris"
)

// ErrConfig indicates an internally inconsistent scorer configuration.
var ErrConfig = eris.New("afiss: invalid config")

// Config holds the per-domain composite weights.
type Config struct {
	AccessWeight         float64 `yaml:"access_weight" mapstructure:"access_weight"`
	FallZoneWeight       float64 `yaml:"fall_zone_weight" mapstructure:"fall_zone_weight"`
	InterferenceWeight   float64 `yaml:"interference_weight" mapstructure:"interference_weight"`
	SeverityWeight       float64 `yaml:"severity_weight" mapstructure:"severity_weight"`
	SiteConditionsWeight float64 `yaml:"site_conditions_weight" mapstructure:"site_conditions_weight"`
}

// DefaultConfig returns the standard AFISS domain weights.
// Weights sum to 1.0.
func DefaultConfig() Config {
	return Config{
		AccessWeight:         0.20,
		FallZoneWeight:       0.25,
		InterferenceWeight:   0.20,
		SeverityWeight:       0.30,
		SiteConditionsWeight: 0.05,
	}
}

// WeightSum returns the sum of all domain weights.
func WeightSum(c Config) float64 {
	return c.AccessWeight + c.FallZoneWeight + c.InterferenceWeight +
		c.SeverityWeight + c.SiteConditionsWeight
}

// ValidateConfig checks that a Config is internally consistent.
func ValidateConfig(c Config) error {
	var errs []string

	weights := map[string]float64{
		"access_weight":          c.AccessWeight,
		"fall_zone_weight":       c.FallZoneWeight,
		"interference_weight":    c.InterferenceWeight,
		"severity_weight":        c.SeverityWeight,
		"site_conditions_weight": c.SiteConditionsWeight,
	}
	for name, w := range weights {
		if w < 0 {
			errs = append(errs, fmt.Sprintf("%s must be >= 0", name))
		}
	}

	sum := WeightSum(c)
	if sum <= 0 {
		errs = append(errs, "weight sum must be > 0")
	}

	// Weights must sum to 1.0 (allow tolerance for floating-point).
	if math.Abs(sum-1.0) > 1e-9 {
		errs = append(errs, fmt.Sprintf("weights must sum to 1.0, got %.4f", sum))
	}

	if len(errs) > 0 {
		return eris.Wrapf(ErrConfig, "validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
