// Package equipment computes hourly ownership and operating costs for
// tree-service equipment using the USACE EP-1110 cost methodology.
package equipment

import (
	"math"

	"github.com/rotisserie/eris"
)

var (
	// ErrUnknownCategory indicates an equipment category with no default
	// spec and insufficient overrides to compute costs.
	ErrUnknownCategory = eris.New("equipment: unknown category")

	// ErrInvalidInput indicates a non-positive price, life, or rate.
	ErrInvalidInput = eris.New("equipment: invalid input")

	// ErrUnknownSeverity indicates an unrecognized operating severity.
	ErrUnknownSeverity = eris.New("equipment: unknown severity")
)

// Category identifies a class of equipment.
type Category string

const (
	CategorySkidSteerMulcher   Category = "skid_steer_mulcher"
	CategoryCompactTrackLoader Category = "compact_track_loader"
	CategoryMiniExcavator      Category = "mini_excavator"
	CategoryBucketTruck        Category = "bucket_truck"
	CategoryChipper            Category = "chipper"
	CategoryStumpGrinder       Category = "stump_grinder"
	CategoryLogTruck           Category = "log_truck"
	CategoryPickupTruck        Category = "pickup_truck"
)

// Severity names an operating severity profile. Harsher conditions scale
// repair and maintenance costs only.
type Severity string

const (
	SeverityLightResidential Severity = "light_residential"
	SeverityStandard         Severity = "standard"
	SeverityHeavyVegetation  Severity = "heavy_vegetation"
	SeverityDisasterRecovery Severity = "disaster_recovery"
)

// SeverityFactor returns the repair cost multiplier for a severity.
func SeverityFactor(s Severity) (float64, error) {
	switch s {
	case SeverityLightResidential:
		return 1.0, nil
	case SeverityStandard:
		return 1.1, nil
	case SeverityHeavyVegetation:
		return 1.25, nil
	case SeverityDisasterRecovery:
		return 1.45, nil
	default:
		return 0, eris.Wrapf(ErrUnknownSeverity, "%q", s)
	}
}

// Spec holds the default cost parameters for an equipment category.
type Spec struct {
	MSRP              float64 `yaml:"msrp" json:"msrp"`
	SalvagePct        float64 `yaml:"salvage_pct" json:"salvage_pct"`               // fraction of purchase price
	LifeHours         float64 `yaml:"life_hours" json:"life_hours"`                 // economic life
	FuelGPH           float64 `yaml:"fuel_gph" json:"fuel_gph"`                     // gallons per hour
	MaintenanceFactor float64 `yaml:"maintenance_factor" json:"maintenance_factor"` // percent of depreciation
}

// DefaultSpecs returns the built-in equipment spec table.
func DefaultSpecs() map[Category]Spec {
	return map[Category]Spec{
		CategorySkidSteerMulcher:   {MSRP: 118000, SalvagePct: 0.20, LifeHours: 6000, FuelGPH: 5.5, MaintenanceFactor: 100},
		CategoryCompactTrackLoader: {MSRP: 75000, SalvagePct: 0.25, LifeHours: 6000, FuelGPH: 4.0, MaintenanceFactor: 80},
		CategoryMiniExcavator:      {MSRP: 70000, SalvagePct: 0.25, LifeHours: 8000, FuelGPH: 3.0, MaintenanceFactor: 75},
		CategoryBucketTruck:        {MSRP: 165000, SalvagePct: 0.30, LifeHours: 10000, FuelGPH: 6.5, MaintenanceFactor: 60},
		CategoryChipper:            {MSRP: 50000, SalvagePct: 0.25, LifeHours: 5000, FuelGPH: 2.5, MaintenanceFactor: 90},
		CategoryStumpGrinder:       {MSRP: 45000, SalvagePct: 0.25, LifeHours: 5000, FuelGPH: 2.8, MaintenanceFactor: 90},
		CategoryLogTruck:           {MSRP: 220000, SalvagePct: 0.35, LifeHours: 12000, FuelGPH: 7.0, MaintenanceFactor: 65},
		CategoryPickupTruck:        {MSRP: 65000, SalvagePct: 0.40, LifeHours: 8000, FuelGPH: 2.5, MaintenanceFactor: 50},
	}
}

// Rates holds the ambient economic assumptions.
type Rates struct {
	FuelPricePerGallon float64 `yaml:"fuel_price_per_gallon" mapstructure:"fuel_price_per_gallon"`
	InterestRate       float64 `yaml:"interest_rate" mapstructure:"interest_rate"`
	InsuranceRate      float64 `yaml:"insurance_rate" mapstructure:"insurance_rate"` // annual, fraction of price
	AnnualHours        float64 `yaml:"annual_hours" mapstructure:"annual_hours"`
}

// DefaultRates returns the default economic assumptions.
func DefaultRates() Rates {
	return Rates{
		FuelPricePerGallon: 4.25,
		InterestRate:       0.06,
		InsuranceRate:      0.03,
		AnnualHours:        1200,
	}
}

// Used equipment loses 8% of value per year of age.
const annualDepreciationRate = 0.08

// Lubrication runs at 15% of fuel cost; wear parts at 20% of depreciation.
const (
	lubeFuelFraction         = 0.15
	wearDepreciationFraction = 0.20
)

// Input describes the machine being costed. Zero-valued override fields
// fall back to the category spec.
type Input struct {
	Category Category `json:"category"`
	Severity Severity `json:"severity"`

	// Overrides.
	PurchasePrice  float64 `json:"purchase_price,omitempty"`
	AgeYears       int     `json:"age_years,omitempty"`
	LifeHours      float64 `json:"life_hours,omitempty"`
	SalvagePct     float64 `json:"salvage_pct,omitempty"`
	FuelGPH        float64 `json:"fuel_gph,omitempty"`
	MaintenancePct float64 `json:"maintenance_pct,omitempty"`
}

// CostBreakdown is the hourly cost decomposition for one machine.
type CostBreakdown struct {
	Category       Category `json:"category"`
	Severity       Severity `json:"severity"`
	SeverityFactor float64  `json:"severity_factor"`

	PurchasePrice float64 `json:"purchase_price"`
	SalvageValue  float64 `json:"salvage_value"`

	// Ownership ($/hr).
	Depreciation   float64 `json:"depreciation"`
	Interest       float64 `json:"interest"`
	Insurance      float64 `json:"insurance"`
	OwnershipTotal float64 `json:"ownership_total"`

	// Operating ($/hr).
	Fuel           float64 `json:"fuel"`
	Lubrication    float64 `json:"lubrication"`
	Maintenance    float64 `json:"maintenance"`
	WearParts      float64 `json:"wear_parts"`
	OperatingTotal float64 `json:"operating_total"`

	TotalPerHour float64 `json:"total_per_hour"`
}

// Calculator computes hourly equipment costs.
type Calculator struct {
	rates Rates
	specs map[Category]Spec
}

// NewCalculator creates a Calculator with the given rates and the
// built-in spec table.
func NewCalculator(rates Rates) *Calculator {
	return &Calculator{rates: rates, specs: DefaultSpecs()}
}

// SetSpec installs or replaces the spec for a category. Used when a
// reference data import supplies updated catalog values.
func (c *Calculator) SetSpec(cat Category, spec Spec) {
	c.specs[cat] = spec
}

// Spec returns the spec for a category.
func (c *Calculator) Spec(cat Category) (Spec, bool) {
	s, ok := c.specs[cat]
	return s, ok
}

// Calculate computes the hourly cost breakdown for a machine.
func (c *Calculator) Calculate(in Input) (*CostBreakdown, error) {
	spec, known := c.specs[in.Category]
	if !known && (in.PurchasePrice <= 0 || in.LifeHours <= 0) {
		return nil, eris.Wrapf(ErrUnknownCategory, "%q (provide purchase_price and life_hours to cost custom equipment)", in.Category)
	}

	severity := in.Severity
	if severity == "" {
		severity = SeverityStandard
	}
	sevFactor, err := SeverityFactor(severity)
	if err != nil {
		return nil, err
	}

	price := in.PurchasePrice
	if price == 0 {
		price = spec.MSRP
		if in.AgeYears > 0 {
			price = spec.MSRP * math.Pow(1-annualDepreciationRate, float64(in.AgeYears))
		}
	}
	if price <= 0 {
		return nil, eris.Wrapf(ErrInvalidInput, "purchase price %.2f must be > 0", price)
	}
	if in.AgeYears < 0 {
		return nil, eris.Wrapf(ErrInvalidInput, "age %d must be >= 0", in.AgeYears)
	}

	lifeHours := in.LifeHours
	if lifeHours == 0 {
		lifeHours = spec.LifeHours
	}
	if lifeHours <= 0 {
		return nil, eris.Wrapf(ErrInvalidInput, "life hours %.0f must be > 0", lifeHours)
	}

	salvagePct := in.SalvagePct
	if salvagePct == 0 {
		salvagePct = spec.SalvagePct
	}
	if salvagePct < 0 || salvagePct >= 1 {
		return nil, eris.Wrapf(ErrInvalidInput, "salvage pct %.2f must be in [0, 1)", salvagePct)
	}

	fuelGPH := in.FuelGPH
	if fuelGPH == 0 {
		fuelGPH = spec.FuelGPH
	}
	if fuelGPH < 0 {
		return nil, eris.Wrapf(ErrInvalidInput, "fuel gph %.2f must be >= 0", fuelGPH)
	}

	maintPct := in.MaintenancePct
	if maintPct == 0 {
		maintPct = spec.MaintenanceFactor
	}
	if maintPct < 0 {
		return nil, eris.Wrapf(ErrInvalidInput, "maintenance pct %.2f must be >= 0", maintPct)
	}

	if c.rates.AnnualHours <= 0 {
		return nil, eris.Wrapf(ErrInvalidInput, "annual hours %.0f must be > 0", c.rates.AnnualHours)
	}

	salvage := price * salvagePct

	depreciation := (price - salvage) / lifeHours
	interest := ((price + salvage) / 2 * c.rates.InterestRate) / c.rates.AnnualHours
	insurance := (price * c.rates.InsuranceRate) / c.rates.AnnualHours
	ownership := depreciation + interest + insurance

	fuel := fuelGPH * c.rates.FuelPricePerGallon
	lube := fuel * lubeFuelFraction
	maintenance := depreciation * (maintPct / 100) * sevFactor
	wear := depreciation * wearDepreciationFraction
	operating := fuel + lube + maintenance + wear

	return &CostBreakdown{
		Category:       in.Category,
		Severity:       severity,
		SeverityFactor: sevFactor,
		PurchasePrice:  price,
		SalvageValue:   salvage,
		Depreciation:   depreciation,
		Interest:       interest,
		Insurance:      insurance,
		OwnershipTotal: ownership,
		Fuel:           fuel,
		Lubrication:    lube,
		Maintenance:    maintenance,
		WearParts:      wear,
		OperatingTotal: operating,
		TotalPerHour:   ownership + operating,
	}, nil
}
