package equipment

import (
	"strings"
)

// PoolBasis describes how a small-tool pool cost scales.
type PoolBasis string

const (
	BasisPerUnit    PoolBasis = "per_unit"
	BasisPerClimber PoolBasis = "per_climber"
	BasisPerCrew    PoolBasis = "per_crew"
	BasisPerPerson  PoolBasis = "per_person"
)

// ToolPool is one category of small tools and consumables amortized into
// an hourly rate.
type ToolPool struct {
	Name        string    `yaml:"name" json:"name"`
	Basis       PoolBasis `yaml:"basis" json:"basis"`
	RatePerHour float64   `yaml:"rate_per_hour" json:"rate_per_hour"`
}

// DefaultToolPools returns the standard small-tool pool table.
func DefaultToolPools() []ToolPool {
	return []ToolPool{
		{Name: "Chainsaws & Power Tools", Basis: BasisPerUnit, RatePerHour: 0.42},
		{Name: "Climbing Gear", Basis: BasisPerClimber, RatePerHour: 0.42},
		{Name: "Hand Tools", Basis: BasisPerCrew, RatePerHour: 0.17},
		{Name: "Safety Gear", Basis: BasisPerPerson, RatePerHour: 0.25},
		{Name: "Rigging Gear", Basis: BasisPerCrew, RatePerHour: 0.28},
		{Name: "Fuel for Small Tools", Basis: BasisPerCrew, RatePerHour: 0.33},
		{Name: "PPE Consumables", Basis: BasisPerPerson, RatePerHour: 0.10},
	}
}

// CrewConfig holds the headcounts that drive small-tool costs.
type CrewConfig struct {
	Climbers   int `json:"climbers"`
	GroundCrew int `json:"ground_crew"`
	Chainsaws  int `json:"chainsaws"`
	Crews      int `json:"crews"`
}

// People returns total headcount.
func (c CrewConfig) People() int {
	return c.Climbers + c.GroundCrew
}

// CrewConfigFromPositions derives a CrewConfig from a list of crew
// position names. Climbing positions are certified arborists and
// experienced climbers; everyone whose position mentions ground crew
// counts as ground support. Chainsaw count follows the shop rule of two
// saws per climber plus one shared saw per two ground crew, minimum two.
func CrewConfigFromPositions(positions []string) CrewConfig {
	var climbers, ground int
	for _, p := range positions {
		switch {
		case p == "isa_certified_arborist" || p == "experienced_climber":
			climbers++
		case strings.Contains(p, "ground_crew"):
			ground++
		}
	}

	groundSaws := ground / 2
	if groundSaws < 1 {
		groundSaws = 1
	}
	chainsaws := climbers*2 + groundSaws
	if chainsaws < 2 {
		chainsaws = 2
	}

	return CrewConfig{
		Climbers:   climbers,
		GroundCrew: ground,
		Chainsaws:  chainsaws,
		Crews:      1,
	}
}

// PoolCost is the hourly cost of one tool pool for a crew.
type PoolCost struct {
	Pool    ToolPool `json:"pool"`
	Units   int      `json:"units"`
	PerHour float64  `json:"per_hour"`
}

// SmallToolsCost amortizes the small-tool pools across a crew and
// returns the total hourly cost with its per-pool decomposition.
func SmallToolsCost(crew CrewConfig, pools []ToolPool) (float64, []PoolCost) {
	if pools == nil {
		pools = DefaultToolPools()
	}

	var total float64
	costs := make([]PoolCost, 0, len(pools))
	for _, pool := range pools {
		var units int
		switch pool.Basis {
		case BasisPerUnit:
			units = crew.Chainsaws
		case BasisPerClimber:
			units = crew.Climbers
		case BasisPerCrew:
			units = crew.Crews
		case BasisPerPerson:
			units = crew.People()
		}
		perHour := pool.RatePerHour * float64(units)
		total += perHour
		costs = append(costs, PoolCost{Pool: pool, Units: units, PerHour: perHour})
	}
	return total, costs
}
