// Package crew computes fully burdened labor costs for tree-service
// positions: base wages plus payroll taxes, workers comp, benefits, and
// overhead, spread over productive (not scheduled) hours.
package crew

import (
	"strings"

	"github.com/rotisserie/eris"
)

var (
	// ErrUnknownPosition indicates a position with no base rate and no
	// explicit hourly rate.
	ErrUnknownPosition = eris.New("crew: unknown position")

	// ErrInvalidInput indicates a non-positive rate or empty crew.
	ErrInvalidInput = eris.New("crew: invalid input")
)

// Position identifies a crew role.
type Position string

const (
	PositionISACertifiedArborist Position = "isa_certified_arborist"
	PositionExperiencedClimber   Position = "experienced_climber"
	PositionGroundCrewLead       Position = "ground_crew_lead"
	PositionGroundCrewMember     Position = "ground_crew_member"
	PositionEquipmentOperator    Position = "equipment_operator"
	PositionApprentice           Position = "apprentice"
	PositionCrewSupervisor       Position = "crew_supervisor"
	PositionSafetyManager        Position = "safety_manager"
)

// DefaultBaseRates returns market base hourly rates by position.
func DefaultBaseRates() map[Position]float64 {
	return map[Position]float64{
		PositionISACertifiedArborist: 32,
		PositionExperiencedClimber:   28,
		PositionGroundCrewLead:       22,
		PositionGroundCrewMember:     18,
		PositionEquipmentOperator:    25,
		PositionApprentice:           15,
		PositionCrewSupervisor:       35,
		PositionSafetyManager:        40,
	}
}

// ScheduledAnnualHours is the standard full-time schedule.
const ScheduledAnnualHours = 2080.0

// BurdenRates holds employer burden assumptions. Percentage rates apply
// to annual base wages; dollar amounts are flat annual costs.
type BurdenRates struct {
	FICARate        float64 `yaml:"fica_rate" mapstructure:"fica_rate"`
	FUTARate        float64 `yaml:"futa_rate" mapstructure:"futa_rate"`
	SUTARate        float64 `yaml:"suta_rate" mapstructure:"suta_rate"`
	WorkersCompRate float64 `yaml:"workers_comp_rate" mapstructure:"workers_comp_rate"`
	HealthAnnual    float64 `yaml:"health_annual" mapstructure:"health_annual"`
	PPEAnnual       float64 `yaml:"ppe_annual" mapstructure:"ppe_annual"`
	VehicleAnnual   float64 `yaml:"vehicle_annual" mapstructure:"vehicle_annual"`
	TrainingAnnual  float64 `yaml:"training_annual" mapstructure:"training_annual"`
	OverheadRate    float64 `yaml:"overhead_rate" mapstructure:"overhead_rate"`
}

// DefaultBurdenRates returns baseline burden assumptions.
func DefaultBurdenRates() BurdenRates {
	return BurdenRates{
		FICARate:        0.0765,
		FUTARate:        0.006,
		SUTARate:        0.027,
		WorkersCompRate: 0.12,
		HealthAnnual:    8000,
		PPEAnnual:       3000,
		VehicleAnnual:   5000,
		TrainingAnnual:  2000,
		OverheadRate:    0.20,
	}
}

// NonProductiveHours are annual hours paid but not billable.
type NonProductiveHours struct {
	PTO      float64 `yaml:"pto" mapstructure:"pto"`
	Training float64 `yaml:"training" mapstructure:"training"`
	Downtime float64 `yaml:"downtime" mapstructure:"downtime"`
	Weather  float64 `yaml:"weather" mapstructure:"weather"`
	Admin    float64 `yaml:"admin" mapstructure:"admin"`
}

// DefaultNonProductiveHours returns baseline non-productive hours.
// Weather delay is replaced by the state adjustment when one applies.
func DefaultNonProductiveHours() NonProductiveHours {
	return NonProductiveHours{
		PTO:      100,
		Training: 60,
		Downtime: 50,
		Weather:  80,
		Admin:    100,
	}
}

// Total returns the sum of all non-productive hours.
func (n NonProductiveHours) Total() float64 {
	return n.PTO + n.Training + n.Downtime + n.Weather + n.Admin
}

// StateAdjustment overrides state-sensitive burden inputs.
type StateAdjustment struct {
	WorkersCompRate float64 `yaml:"workers_comp_rate" json:"workers_comp_rate"`
	SUTARate        float64 `yaml:"suta_rate" json:"suta_rate"`
	WeatherHours    float64 `yaml:"weather_hours" json:"weather_hours"`
}

// StateAdjustments returns per-state burden overrides.
func StateAdjustments() map[string]StateAdjustment {
	return map[string]StateAdjustment{
		"florida":        {WorkersCompRate: 0.12, SUTARate: 0.027, WeatherHours: 80},
		"georgia":        {WorkersCompRate: 0.10, SUTARate: 0.025, WeatherHours: 60},
		"texas":          {WorkersCompRate: 0.11, SUTARate: 0.026, WeatherHours: 40},
		"california":     {WorkersCompRate: 0.15, SUTARate: 0.034, WeatherHours: 20},
		"north_carolina": {WorkersCompRate: 0.09, SUTARate: 0.024, WeatherHours: 50},
	}
}

// CostBreakdown is the annualized cost decomposition for one employee.
type CostBreakdown struct {
	Position Position `json:"position"`
	State    string   `json:"state,omitempty"`
	BaseRate float64  `json:"base_hourly_rate"`

	AnnualBaseWages float64 `json:"annual_base_wages"`

	// Annual burden components.
	FICA        float64 `json:"fica"`
	FUTA        float64 `json:"futa"`
	SUTA        float64 `json:"suta"`
	WorkersComp float64 `json:"workers_comp"`
	Health      float64 `json:"health"`
	PPE         float64 `json:"ppe"`
	Vehicle     float64 `json:"vehicle"`
	Training    float64 `json:"training"`
	Overhead    float64 `json:"overhead"`
	TotalBurden float64 `json:"total_burden"`

	TotalAnnualCost  float64 `json:"total_annual_cost"`
	ProductiveHours  float64 `json:"productive_hours"`
	TrueHourlyCost   float64 `json:"true_hourly_cost"`
	BurdenMultiplier float64 `json:"burden_multiplier"`
}

// Calculator computes burdened labor costs.
type Calculator struct {
	burden        BurdenRates
	nonProductive NonProductiveHours
	baseRates     map[Position]float64
	states        map[string]StateAdjustment
}

// NewCalculator creates a Calculator with the given burden rates and the
// built-in base rate and state tables.
func NewCalculator(burden BurdenRates) *Calculator {
	return &Calculator{
		burden:        burden,
		nonProductive: DefaultNonProductiveHours(),
		baseRates:     DefaultBaseRates(),
		states:        StateAdjustments(),
	}
}

// SetBaseRate installs or replaces the base hourly rate for a position.
// Used when a reference data import supplies updated wage tables.
func (c *Calculator) SetBaseRate(p Position, rate float64) {
	c.baseRates[p] = rate
}

// BaseRate returns the base hourly rate for a position.
func (c *Calculator) BaseRate(p Position) (float64, bool) {
	r, ok := c.baseRates[p]
	return r, ok
}

// Calculate computes the burdened cost for a position in a state.
// A positive hourlyRate overrides the base rate table; without one an
// unknown position is an error. An unknown state keeps the baseline
// burden assumptions.
func (c *Calculator) Calculate(position Position, state string, hourlyRate float64) (*CostBreakdown, error) {
	rate := hourlyRate
	if rate == 0 {
		base, ok := c.baseRates[position]
		if !ok {
			return nil, eris.Wrapf(ErrUnknownPosition, "%q (provide an hourly rate to cost custom positions)", position)
		}
		rate = base
	}
	if rate <= 0 {
		return nil, eris.Wrapf(ErrInvalidInput, "hourly rate %.2f must be > 0", rate)
	}

	burden := c.burden
	nonProductive := c.nonProductive

	state = strings.ToLower(strings.TrimSpace(state))
	if adj, ok := c.states[state]; ok {
		burden.WorkersCompRate = adj.WorkersCompRate
		burden.SUTARate = adj.SUTARate
		nonProductive.Weather = adj.WeatherHours
	}

	wages := rate * ScheduledAnnualHours

	b := &CostBreakdown{
		Position:        position,
		State:           state,
		BaseRate:        rate,
		AnnualBaseWages: wages,
		FICA:            wages * burden.FICARate,
		FUTA:            wages * burden.FUTARate,
		SUTA:            wages * burden.SUTARate,
		WorkersComp:     wages * burden.WorkersCompRate,
		Health:          burden.HealthAnnual,
		PPE:             burden.PPEAnnual,
		Vehicle:         burden.VehicleAnnual,
		Training:        burden.TrainingAnnual,
		Overhead:        wages * burden.OverheadRate,
	}
	b.TotalBurden = b.FICA + b.FUTA + b.SUTA + b.WorkersComp +
		b.Health + b.PPE + b.Vehicle + b.Training + b.Overhead
	b.TotalAnnualCost = wages + b.TotalBurden

	b.ProductiveHours = ScheduledAnnualHours - nonProductive.Total()
	if b.ProductiveHours <= 0 {
		return nil, eris.Wrapf(ErrInvalidInput, "non-productive hours %.0f exceed schedule", nonProductive.Total())
	}

	b.TrueHourlyCost = b.TotalAnnualCost / b.ProductiveHours
	b.BurdenMultiplier = b.TotalAnnualCost / wages

	return b, nil
}

// Member is one crew slot for aggregate costing.
type Member struct {
	Position   Position `json:"position"`
	HourlyRate float64  `json:"hourly_rate,omitempty"` // 0 = use base rate table
}

// Cost is the aggregate burdened cost of a crew.
type Cost struct {
	Members           []CostBreakdown `json:"members"`
	TotalHourlyCost   float64         `json:"total_hourly_cost"` // sum of true hourly costs
	TotalBaseHourly   float64         `json:"total_base_hourly"` // sum of base rates
	BurdenPerHour     float64         `json:"burden_per_hour"`
	AverageMultiplier float64         `json:"average_multiplier"`
}

// CrewCost computes the aggregate burdened cost for a crew in a state.
func (c *Calculator) CrewCost(members []Member, state string) (*Cost, error) {
	if len(members) == 0 {
		return nil, eris.Wrap(ErrInvalidInput, "empty crew")
	}

	out := &Cost{Members: make([]CostBreakdown, 0, len(members))}
	var multSum float64
	for _, m := range members {
		b, err := c.Calculate(m.Position, state, m.HourlyRate)
		if err != nil {
			return nil, err
		}
		out.Members = append(out.Members, *b)
		out.TotalHourlyCost += b.TrueHourlyCost
		out.TotalBaseHourly += b.BaseRate
		multSum += b.BurdenMultiplier
	}
	out.BurdenPerHour = out.TotalHourlyCost - out.TotalBaseHourly
	out.AverageMultiplier = multSum / float64(len(members))
	return out, nil
}
