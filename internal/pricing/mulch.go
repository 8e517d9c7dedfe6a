package pricing

import (
	"github.com/rotisserie/eris"
)

// ErrUnknownPackage indicates an unsupported mulching package size.
var ErrUnknownPackage = eris.New("pricing: unknown mulching package")

// MulchPackage is a forestry mulching service package keyed by DBH
// limit. Larger packages mean thicker material and slower production.
type MulchPackage struct {
	DBHLimit         float64 `json:"dbh_limit"`
	DifficultyFactor float64 `json:"difficulty_factor"`
	Description      string  `json:"description"`
}

// MulchPackages returns the package table keyed by DBH limit in inches.
func MulchPackages() map[int]MulchPackage {
	return map[int]MulchPackage{
		4:  {DBHLimit: 4, DifficultyFactor: 1.0, Description: "Light brush, small trees (baseline)"},
		6:  {DBHLimit: 6, DifficultyFactor: 0.77, Description: "Medium package (23% slower)"},
		8:  {DBHLimit: 8, DifficultyFactor: 0.63, Description: "Heavy vegetation (37% slower)"},
		10: {DBHLimit: 10, DifficultyFactor: 0.50, Description: "Large trees, clearing (50% slower)"},
	}
}

// Transport time bills at a reduced fraction of the mulching rate.
const transportBillingFraction = 0.75

// MulchInput describes a forestry mulching job.
type MulchInput struct {
	Acres          float64 `json:"acres"`
	PackageInches  int     `json:"package_inches"`   // 4, 6, 8, or 10
	BaseRateIAH    float64 `json:"base_rate_iah"`    // production rate, inch-acres per hour
	BillingRate    float64 `json:"billing_rate"`     // $/hr
	AFISSAdjust    float64 `json:"afiss_adjustment"` // production adjustment, -0.5 to +0.4
	TransportHours float64 `json:"transport_hours"`
}

// MulchEconomics is the package-based mulching cost breakdown.
type MulchEconomics struct {
	Package       MulchPackage `json:"package"`
	Acres         float64      `json:"acres"`
	PackageInches float64      `json:"package_inches"` // acres x DBH limit

	BaseRateIAH  float64 `json:"base_rate_iah"`
	AFISSAdjust  float64 `json:"afiss_adjustment"`
	FinalRateIAH float64 `json:"final_rate_iah"`

	MulchingHours  float64 `json:"mulching_hours"`
	TransportHours float64 `json:"transport_hours"`
	TotalHours     float64 `json:"total_hours"`

	BillingRate   float64 `json:"billing_rate"`
	TransportRate float64 `json:"transport_rate"`
	MulchingCost  float64 `json:"mulching_cost"`
	TransportCost float64 `json:"transport_cost"`
	TotalCost     float64 `json:"total_cost"`
	CostPerAcre   float64 `json:"cost_per_acre"`
	AcresPerHour  float64 `json:"acres_per_hour"`
}

// Mulch computes package-based forestry mulching economics. The AFISS
// adjustment scales the production rate before the package difficulty
// factor is applied.
func Mulch(in MulchInput) (*MulchEconomics, error) {
	pkg, ok := MulchPackages()[in.PackageInches]
	if !ok {
		return nil, eris.Wrapf(ErrUnknownPackage, "%d inch (supported: 4, 6, 8, 10)", in.PackageInches)
	}
	if in.Acres <= 0 {
		return nil, eris.Wrapf(ErrInvalidInput, "acres %.2f must be > 0", in.Acres)
	}
	if in.BaseRateIAH <= 0 {
		return nil, eris.Wrapf(ErrInvalidInput, "base production rate %.2f must be > 0", in.BaseRateIAH)
	}
	if in.BillingRate <= 0 {
		return nil, eris.Wrapf(ErrInvalidInput, "billing rate %.2f must be > 0", in.BillingRate)
	}
	if in.AFISSAdjust < -0.5 || in.AFISSAdjust > 0.4 {
		return nil, eris.Wrapf(ErrInvalidInput, "afiss adjustment %.2f must be in [-0.5, 0.4]", in.AFISSAdjust)
	}
	if in.TransportHours < 0 {
		return nil, eris.Wrapf(ErrInvalidInput, "transport hours %.2f must be >= 0", in.TransportHours)
	}

	packageInches := in.Acres * pkg.DBHLimit
	finalRate := in.BaseRateIAH * (1 + in.AFISSAdjust) * pkg.DifficultyFactor
	mulchingHours := packageInches / finalRate

	transportRate := in.BillingRate * transportBillingFraction
	mulchingCost := mulchingHours * in.BillingRate
	transportCost := in.TransportHours * transportRate

	return &MulchEconomics{
		Package:        pkg,
		Acres:          in.Acres,
		PackageInches:  packageInches,
		BaseRateIAH:    in.BaseRateIAH,
		AFISSAdjust:    in.AFISSAdjust,
		FinalRateIAH:   finalRate,
		MulchingHours:  mulchingHours,
		TransportHours: in.TransportHours,
		TotalHours:     mulchingHours + in.TransportHours,
		BillingRate:    in.BillingRate,
		TransportRate:  transportRate,
		MulchingCost:   mulchingCost,
		TransportCost:  transportCost,
		TotalCost:      mulchingCost + transportCost,
		CostPerAcre:    (mulchingCost + transportCost) / in.Acres,
		AcresPerHour:   in.Acres / mulchingHours,
	}, nil
}
