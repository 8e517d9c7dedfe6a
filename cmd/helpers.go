package main

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/treeai-operations/alex-cli/internal/afiss"
	"github.com/treeai-operations/alex-cli/internal/config"
	"github.com/treeai-operations/alex-cli/internal/crew"
	"github.com/treeai-operations/alex-cli/internal/equipment"
	"github.com/treeai-operations/alex-cli/internal/pricing"
	"github.com/treeai-operations/alex-cli/internal/store"
)

var moneyPrinter = message.NewPrinter(language.AmericanEnglish)

// formatMoney renders a dollar amount with thousands separators and cents.
func formatMoney(v float64) string {
	return moneyPrinter.Sprintf("%v", number.Decimal(v,
		number.MinFractionDigits(2),
		number.MaxFractionDigits(2),
	))
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	var result []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

// afissConfigFrom maps the loaded configuration onto scorer weights.
func afissConfigFrom(c *config.Config) afiss.Config {
	return afiss.Config{
		AccessWeight:         c.AFISS.AccessWeight,
		FallZoneWeight:       c.AFISS.FallZoneWeight,
		InterferenceWeight:   c.AFISS.InterferenceWeight,
		SeverityWeight:       c.AFISS.SeverityWeight,
		SiteConditionsWeight: c.AFISS.SiteWeight,
	}
}

// equipmentRatesFrom maps the loaded configuration onto cost model rates.
func equipmentRatesFrom(c *config.Config) equipment.Rates {
	r := equipment.DefaultRates()
	if c.Costing.FuelPricePerGallon > 0 {
		r.FuelPricePerGallon = c.Costing.FuelPricePerGallon
	}
	if c.Costing.InterestRate > 0 {
		r.InterestRate = c.Costing.InterestRate
	}
	if c.Costing.InsuranceRate > 0 {
		r.InsuranceRate = c.Costing.InsuranceRate
	}
	if c.Costing.AnnualHours > 0 {
		r.AnnualHours = c.Costing.AnnualHours
	}
	return r
}

// newPricer builds the loadout pricer from configuration.
func newPricer(c *config.Config) *pricing.Pricer {
	eq := equipment.NewCalculator(equipmentRatesFrom(c))
	cr := crew.NewCalculator(crew.DefaultBurdenRates())
	return pricing.NewPricer(eq, cr)
}

// openStore opens the configured persistence backend.
func openStore(ctx context.Context, c *config.Config) (store.Store, error) {
	switch c.Store.Driver {
	case "sqlite", "":
		st, err := store.NewSQLite(c.Store.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := st.Migrate(ctx); err != nil {
			st.Close() //nolint:errcheck
			return nil, err
		}
		return st, nil
	case "postgres":
		st, err := store.NewPostgres(ctx, c.Store.DatabaseURL, c.Store.Pool)
		if err != nil {
			return nil, err
		}
		if err := st.Migrate(ctx); err != nil {
			st.Close() //nolint:errcheck
			return nil, err
		}
		return st, nil
	default:
		return nil, eris.Errorf("unsupported store driver %q", c.Store.Driver)
	}
}
