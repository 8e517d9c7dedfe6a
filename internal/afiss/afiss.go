package afiss

import (
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// ErrInvalidScore indicates a domain score outside the 0-100 range.
var ErrInvalidScore = eris.New("afiss: domain score out of range")

// Domain identifies one of the five AFISS assessment domains.
type Domain string

const (
	DomainAccess         Domain = "access"
	DomainFallZone       Domain = "fall_zone"
	DomainInterference   Domain = "interference"
	DomainSeverity       Domain = "severity"
	DomainSiteConditions Domain = "site_conditions"
)

// Domains lists the five assessment domains in canonical order.
func Domains() []Domain {
	return []Domain{
		DomainAccess, DomainFallZone, DomainInterference,
		DomainSeverity, DomainSiteConditions,
	}
}

// DomainScores holds the raw 0-100 score for each domain.
type DomainScores struct {
	Access         float64 `json:"access"`
	FallZone       float64 `json:"fall_zone"`
	Interference   float64 `json:"interference"`
	Severity       float64 `json:"severity"`
	SiteConditions float64 `json:"site_conditions"`
}

// byDomain returns the scores keyed by domain in canonical order.
func (d DomainScores) byDomain() map[Domain]float64 {
	return map[Domain]float64{
		DomainAccess:         d.Access,
		DomainFallZone:       d.FallZone,
		DomainInterference:   d.Interference,
		DomainSeverity:       d.Severity,
		DomainSiteConditions: d.SiteConditions,
	}
}

// Tier is the complexity tier derived from the composite score.
type Tier string

const (
	TierLow      Tier = "low"
	TierModerate Tier = "moderate"
	TierHigh     Tier = "high"
	TierExtreme  Tier = "extreme"
)

// Tier breakpoints. Each upper bound is inclusive.
const (
	lowMax      = 28.0
	moderateMax = 46.0
	highMax     = 58.0
)

// Assessment is the result of scoring a set of domain inputs.
type Assessment struct {
	Composite       float64            `json:"composite_score"`
	Tier            Tier               `json:"tier"`
	MultiplierLow   float64            `json:"multiplier_low"`
	MultiplierHigh  float64            `json:"multiplier_high"`
	Scores          DomainScores       `json:"domain_scores"`
	WeightedScores  map[Domain]float64 `json:"weighted_scores"`
	Recommendations []string           `json:"recommendations"`
}

// Scorer computes weighted composite risk assessments.
type Scorer struct {
	cfg Config
}

// NewScorer creates a Scorer after validating the config.
func NewScorer(cfg Config) (*Scorer, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return &Scorer{cfg: cfg}, nil
}

// weightFor returns the configured weight for a domain.
func (s *Scorer) weightFor(d Domain) float64 {
	switch d {
	case DomainAccess:
		return s.cfg.AccessWeight
	case DomainFallZone:
		return s.cfg.FallZoneWeight
	case DomainInterference:
		return s.cfg.InterferenceWeight
	case DomainSeverity:
		return s.cfg.SeverityWeight
	case DomainSiteConditions:
		return s.cfg.SiteConditionsWeight
	}
	return 0
}

// Score computes the weighted composite assessment for the given domain
// scores. Each domain score must be within [0, 100]; out-of-range inputs
// are rejected rather than clamped so that bad data surfaces upstream.
func (s *Scorer) Score(scores DomainScores) (*Assessment, error) {
	byDomain := scores.byDomain()

	var composite float64
	weighted := make(map[Domain]float64, len(byDomain))
	for _, d := range Domains() {
		v := byDomain[d]
		if v < 0 || v > 100 {
			return nil, eris.Wrapf(ErrInvalidScore, "%s score %.2f not in [0, 100]", d, v)
		}
		contribution := v * s.weightFor(d)
		weighted[d] = contribution
		composite += contribution
	}

	// Composite is bounded by construction when weights sum to 1.0, but a
	// slightly over-unit custom weight set can push it past 100.
	if composite > 100 {
		composite = 100
	}
	if composite < 0 {
		composite = 0
	}

	tier, lo, hi := tierFor(composite)

	a := &Assessment{
		Composite:       composite,
		Tier:            tier,
		MultiplierLow:   lo,
		MultiplierHigh:  hi,
		Scores:          scores,
		WeightedScores:  weighted,
		Recommendations: recommendationsFor(tier),
	}

	zap.L().Debug("afiss assessment scored",
		zap.Float64("composite", composite),
		zap.String("tier", string(tier)),
	)

	return a, nil
}

// tierFor maps a composite score to its tier and pricing multiplier range.
func tierFor(composite float64) (Tier, float64, float64) {
	switch {
	case composite <= lowMax:
		return TierLow, 1.12, 1.28
	case composite <= moderateMax:
		return TierModerate, 1.45, 1.85
	case composite <= highMax:
		return TierHigh, 2.1, 2.8
	default:
		return TierExtreme, 2.5, 3.5
	}
}

// EquipmentSeverity names an equipment operating-severity profile.
// Values match the severity keys used by the equipment cost model.
type EquipmentSeverity string

const (
	SeverityLightResidential EquipmentSeverity = "light_residential"
	SeverityStandard         EquipmentSeverity = "standard"
	SeverityHeavyVegetation  EquipmentSeverity = "heavy_vegetation"
	SeverityDisasterRecovery EquipmentSeverity = "disaster_recovery"
)

// SeverityForScore maps a composite score to the equipment operating
// severity used for maintenance cost scaling. Uses the same breakpoints
// as the pricing tiers.
func SeverityForScore(composite float64) EquipmentSeverity {
	switch {
	case composite <= lowMax:
		return SeverityLightResidential
	case composite <= moderateMax:
		return SeverityStandard
	case composite <= highMax:
		return SeverityHeavyVegetation
	default:
		return SeverityDisasterRecovery
	}
}

// recommendationsFor returns operational guidance for a tier.
func recommendationsFor(tier Tier) []string {
	switch tier {
	case TierLow:
		return []string{
			"Standard crew and equipment loadout",
			"Routine safety briefing",
		}
	case TierModerate:
		return []string{
			"Experienced crew lead required",
			"Pre-job site walk with written fall-zone plan",
		}
	case TierHigh:
		return []string{
			"ISA certified arborist required on site",
			"Enhanced safety protocols and dedicated spotter",
			"Rigging plan reviewed before work begins",
		}
	case TierExtreme:
		return []string{
			"ISA certified arborist required on site",
			"Enhanced safety protocols and dedicated spotter",
			"Crane or bucket support strongly recommended",
			"Decline without specialist crew availability",
		}
	}
	return nil
}
