// Package pricing aggregates equipment, small-tool, and burdened labor
// costs into hourly loadout pricing with margin-based billing rates and
// market positioning.
package pricing

import (
	"math"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/treeai-operations/alex-cli/internal/crew"
	"github.com/treeai-operations/alex-cli/internal/equipment"
)

var (
	// ErrUnknownProjectType indicates a project type with no margin or
	// competitive range data.
	ErrUnknownProjectType = eris.New("pricing: unknown project type")

	// ErrInvalidMargin indicates a target margin outside (0, 1).
	ErrInvalidMargin = eris.New("pricing: invalid margin")

	// ErrInvalidInput indicates a loadout with no equipment and no crew.
	ErrInvalidInput = eris.New("pricing: invalid input")
)

// ProjectType identifies the service line being priced.
type ProjectType string

const (
	ProjectTreeRemoval       ProjectType = "tree_removal"
	ProjectTreeTrimming      ProjectType = "tree_trimming"
	ProjectForestryMulching  ProjectType = "forestry_mulching"
	ProjectStumpGrinding     ProjectType = "stump_grinding"
	ProjectEmergencyResponse ProjectType = "emergency_response"
	ProjectLotClearing       ProjectType = "lot_clearing"
)

// TargetMargins returns the target profit margin by project type.
// Emergency response carries a premium margin.
func TargetMargins() map[ProjectType]float64 {
	return map[ProjectType]float64{
		ProjectTreeRemoval:       0.35,
		ProjectTreeTrimming:      0.40,
		ProjectForestryMulching:  0.30,
		ProjectStumpGrinding:     0.35,
		ProjectEmergencyResponse: 0.50,
		ProjectLotClearing:       0.32,
	}
}

// RateRange is a market hourly rate band.
type RateRange struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// CompetitiveRates returns the market hourly rate range by project type.
func CompetitiveRates() map[ProjectType]RateRange {
	return map[ProjectType]RateRange{
		ProjectTreeRemoval:       {Low: 200, High: 350},
		ProjectTreeTrimming:      {Low: 150, High: 280},
		ProjectForestryMulching:  {Low: 400, High: 600},
		ProjectStumpGrinding:     {Low: 180, High: 320},
		ProjectEmergencyResponse: {Low: 300, High: 500},
		ProjectLotClearing:       {Low: 350, High: 550},
	}
}

// CompetitivePosition describes where a rate sits against the market.
type CompetitivePosition string

const (
	PositionBelowMarket CompetitivePosition = "BELOW_MARKET"
	PositionCompetitive CompetitivePosition = "COMPETITIVE"
	PositionPremium     CompetitivePosition = "PREMIUM"
)

// LoadoutConfig describes a crew-plus-equipment package to price.
type LoadoutConfig struct {
	Name        string            `json:"name"`
	ProjectType ProjectType       `json:"project_type"`
	Equipment   []equipment.Input `json:"equipment"`
	Crew        []crew.Member     `json:"crew"`
	State       string            `json:"state"`

	// TargetMargin overrides the project-type default when non-zero.
	TargetMargin float64 `json:"target_margin,omitempty"`
}

// LoadoutPricing is the complete hourly pricing breakdown for a loadout.
type LoadoutPricing struct {
	Name        string      `json:"name"`
	ProjectType ProjectType `json:"project_type"`

	// Equipment ($/hr).
	HeavyEquipmentCost   float64                   `json:"heavy_equipment_cost"`
	SmallToolsCost       float64                   `json:"small_tools_cost"`
	EquipmentCostPerHour float64                   `json:"equipment_cost_per_hour"`
	EquipmentBreakdowns  []equipment.CostBreakdown `json:"equipment_breakdowns"`
	SmallToolsBreakdown  []equipment.PoolCost      `json:"small_tools_breakdown"`

	// Labor ($/hr).
	EmployeeCostPerHour float64    `json:"employee_cost_per_hour"`
	BaseWagesPerHour    float64    `json:"base_wages_per_hour"`
	BurdenCostPerHour   float64    `json:"burden_cost_per_hour"`
	CrewCost            *crew.Cost `json:"crew_cost"`

	TotalCostPerHour float64 `json:"total_cost_per_hour"`

	// Pricing intelligence.
	TargetMargin        float64             `json:"target_margin"`
	RecommendedRate     float64             `json:"recommended_billing_rate"`
	BreakEvenRate       float64             `json:"break_even_rate"`
	CompetitiveRange    RateRange           `json:"competitive_range"`
	CompetitivePosition CompetitivePosition `json:"competitive_position"`

	CostEfficiencyScore float64 `json:"cost_efficiency_score"`
	ProfitabilityScore  float64 `json:"profitability_score"`
}

// Pricer aggregates the cost models into loadout pricing.
type Pricer struct {
	equipment *equipment.Calculator
	crew      *crew.Calculator
	margins   map[ProjectType]float64
	rates     map[ProjectType]RateRange
}

// NewPricer creates a Pricer over the given cost calculators.
func NewPricer(eq *equipment.Calculator, cr *crew.Calculator) *Pricer {
	return &Pricer{
		equipment: eq,
		crew:      cr,
		margins:   TargetMargins(),
		rates:     CompetitiveRates(),
	}
}

// Price computes the full hourly pricing breakdown for a loadout.
func (p *Pricer) Price(cfg LoadoutConfig) (*LoadoutPricing, error) {
	margin, knownMargin := p.margins[cfg.ProjectType]
	rateRange, knownRange := p.rates[cfg.ProjectType]
	if !knownMargin || !knownRange {
		return nil, eris.Wrapf(ErrUnknownProjectType, "%q", cfg.ProjectType)
	}
	if cfg.TargetMargin != 0 {
		margin = cfg.TargetMargin
	}
	if margin <= 0 || margin >= 1 {
		return nil, eris.Wrapf(ErrInvalidMargin, "margin %.2f must be in (0, 1)", margin)
	}
	if len(cfg.Equipment) == 0 && len(cfg.Crew) == 0 {
		return nil, eris.Wrap(ErrInvalidInput, "loadout has no equipment and no crew")
	}

	out := &LoadoutPricing{
		Name:             cfg.Name,
		ProjectType:      cfg.ProjectType,
		TargetMargin:     margin,
		CompetitiveRange: rateRange,
	}

	// Heavy equipment.
	for _, in := range cfg.Equipment {
		b, err := p.equipment.Calculate(in)
		if err != nil {
			return nil, eris.Wrapf(err, "loadout %s", cfg.Name)
		}
		out.EquipmentBreakdowns = append(out.EquipmentBreakdowns, *b)
		out.HeavyEquipmentCost += b.TotalPerHour
	}

	// Small tools scale with the crew composition.
	positions := make([]string, len(cfg.Crew))
	for i, m := range cfg.Crew {
		positions[i] = string(m.Position)
	}
	crewCfg := equipment.CrewConfigFromPositions(positions)
	out.SmallToolsCost, out.SmallToolsBreakdown = equipment.SmallToolsCost(crewCfg, nil)
	out.EquipmentCostPerHour = out.HeavyEquipmentCost + out.SmallToolsCost

	// Burdened labor.
	if len(cfg.Crew) > 0 {
		cc, err := p.crew.CrewCost(cfg.Crew, cfg.State)
		if err != nil {
			return nil, eris.Wrapf(err, "loadout %s", cfg.Name)
		}
		out.CrewCost = cc
		out.EmployeeCostPerHour = cc.TotalHourlyCost
		out.BaseWagesPerHour = cc.TotalBaseHourly
		out.BurdenCostPerHour = cc.BurdenPerHour
	}

	out.TotalCostPerHour = out.EquipmentCostPerHour + out.EmployeeCostPerHour
	out.BreakEvenRate = out.TotalCostPerHour
	out.RecommendedRate = billingRate(out.TotalCostPerHour, margin)
	out.CompetitivePosition = positionFor(out.RecommendedRate, rateRange)
	out.CostEfficiencyScore = costEfficiencyScore(out.EquipmentCostPerHour, out.EmployeeCostPerHour, cfg.ProjectType)
	out.ProfitabilityScore = profitabilityScore(out.RecommendedRate, rateRange, margin)

	zap.L().Debug("loadout priced",
		zap.String("loadout", cfg.Name),
		zap.String("project_type", string(cfg.ProjectType)),
		zap.Float64("total_cost_per_hour", out.TotalCostPerHour),
		zap.Float64("recommended_rate", out.RecommendedRate),
	)

	return out, nil
}

// billingRate marks a cost up so the margin is a share of revenue,
// not a markup on cost.
func billingRate(cost, margin float64) float64 {
	return cost / (1 - margin)
}

func positionFor(rate float64, r RateRange) CompetitivePosition {
	switch {
	case rate < r.Low:
		return PositionBelowMarket
	case rate > r.High:
		return PositionPremium
	default:
		return PositionCompetitive
	}
}

// ratioBenchmark is the ideal equipment share of total cost by project
// type; labor takes the rest.
func ratioBenchmark(pt ProjectType) float64 {
	switch pt {
	case ProjectTreeRemoval:
		return 0.30
	case ProjectForestryMulching:
		return 0.60
	case ProjectStumpGrinding:
		return 0.45
	case ProjectEmergencyResponse:
		return 0.35
	default:
		return 0.40
	}
}

// costEfficiencyScore measures how close the equipment/labor cost split
// is to the industry benchmark for the project type. 100 is a perfect
// match; variance is penalized at 200 points per unit.
func costEfficiencyScore(equipmentCost, employeeCost float64, pt ProjectType) float64 {
	total := equipmentCost + employeeCost
	if total == 0 {
		return 0
	}
	benchEquipment := ratioBenchmark(pt)
	benchEmployee := 1 - benchEquipment

	equipmentVariance := math.Abs(equipmentCost/total - benchEquipment)
	employeeVariance := math.Abs(employeeCost/total - benchEmployee)

	score := 100 - (equipmentVariance+employeeVariance)*200
	if score < 0 {
		return 0
	}
	return score
}

// profitabilityScore rates the recommended rate against the market
// range, with a bonus for higher target margins. In-range rates score
// 70-90 by position; below-market rates flag potential underpricing at
// 50; above-market rates decay toward 30.
func profitabilityScore(rate float64, r RateRange, margin float64) float64 {
	var base float64
	switch {
	case rate >= r.Low && rate <= r.High:
		position := (rate - r.Low) / (r.High - r.Low)
		base = 70 + position*20
	case rate < r.Low:
		base = 50
	default:
		excess := (rate - r.High) / r.High
		base = 70 - excess*100
		if base < 30 {
			base = 30
		}
	}

	bonus := margin * 25
	if bonus > 10 {
		bonus = 10
	}

	score := base + bonus
	if score > 100 {
		return 100
	}
	return score
}
