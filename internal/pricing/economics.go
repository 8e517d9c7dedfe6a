package pricing

import (
	"github.com/rotisserie/eris"
)

// ProjectEconomics projects profit over a job of a given length billed
// at the recommended rate.
type ProjectEconomics struct {
	Hours   float64 `json:"hours"`
	Cost    float64 `json:"cost"`
	Revenue float64 `json:"revenue"`
	Profit  float64 `json:"profit"`
	ROI     float64 `json:"roi"` // profit / cost
}

// Economics projects the cost, revenue, and profit for a job of the
// given length priced at the loadout's recommended rate.
func Economics(p *LoadoutPricing, hours float64) (*ProjectEconomics, error) {
	if hours <= 0 {
		return nil, eris.Wrapf(ErrInvalidInput, "hours %.2f must be > 0", hours)
	}

	cost := p.TotalCostPerHour * hours
	revenue := p.RecommendedRate * hours
	profit := revenue - cost

	e := &ProjectEconomics{
		Hours:   hours,
		Cost:    cost,
		Revenue: revenue,
		Profit:  profit,
	}
	if cost > 0 {
		e.ROI = profit / cost
	}
	return e, nil
}
