package equipment

import (
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateBucketTruck(t *testing.T) {
	t.Parallel()
	calc := NewCalculator(DefaultRates())

	got, err := calc.Calculate(Input{Category: CategoryBucketTruck, Severity: SeverityStandard})
	require.NoError(t, err)

	// Purchase 165000, salvage 30% = 49500.
	assert.InDelta(t, 165000, got.PurchasePrice, 0.01)
	assert.InDelta(t, 49500, got.SalvageValue, 0.01)

	// depreciation: (165000-49500)/10000 = 11.55
	assert.InDelta(t, 11.55, got.Depreciation, 0.001)
	// interest: ((165000+49500)/2 * 0.06) / 1200 = 5.3625
	assert.InDelta(t, 5.3625, got.Interest, 0.001)
	// insurance: 165000*0.03/1200 = 4.125
	assert.InDelta(t, 4.125, got.Insurance, 0.001)
	assert.InDelta(t, 21.0375, got.OwnershipTotal, 0.001)

	// fuel: 6.5 * 4.25 = 27.625; lube = 15% of fuel
	assert.InDelta(t, 27.625, got.Fuel, 0.001)
	assert.InDelta(t, 4.14375, got.Lubrication, 0.001)
	// maintenance: 11.55 * 0.60 * 1.1 = 7.623
	assert.InDelta(t, 7.623, got.Maintenance, 0.001)
	// wear: 20% of depreciation
	assert.InDelta(t, 2.31, got.WearParts, 0.001)
	assert.InDelta(t, 41.70175, got.OperatingTotal, 0.001)

	// Components sum to the total.
	assert.InDelta(t, got.OwnershipTotal+got.OperatingTotal, got.TotalPerHour, 1e-9)
	assert.InDelta(t, 62.73925, got.TotalPerHour, 0.001)
}

func TestCalculateSeverityScalesMaintenanceOnly(t *testing.T) {
	t.Parallel()
	calc := NewCalculator(DefaultRates())

	light, err := calc.Calculate(Input{Category: CategoryChipper, Severity: SeverityLightResidential})
	require.NoError(t, err)
	disaster, err := calc.Calculate(Input{Category: CategoryChipper, Severity: SeverityDisasterRecovery})
	require.NoError(t, err)

	assert.Equal(t, light.OwnershipTotal, disaster.OwnershipTotal)
	assert.Equal(t, light.Fuel, disaster.Fuel)
	assert.Equal(t, light.WearParts, disaster.WearParts)
	assert.InDelta(t, 1.45, disaster.Maintenance/light.Maintenance, 0.001)
	assert.Greater(t, disaster.TotalPerHour, light.TotalPerHour)
}

func TestCalculateUsedEquipment(t *testing.T) {
	t.Parallel()
	calc := NewCalculator(DefaultRates())

	got, err := calc.Calculate(Input{Category: CategoryChipper, AgeYears: 3})
	require.NoError(t, err)

	// 50000 * 0.92^3 = 38934.40
	assert.InDelta(t, 38934.40, got.PurchasePrice, 0.01)

	newMachine, err := calc.Calculate(Input{Category: CategoryChipper})
	require.NoError(t, err)
	assert.Less(t, got.TotalPerHour, newMachine.TotalPerHour)
}

func TestCalculateOverrides(t *testing.T) {
	t.Parallel()
	calc := NewCalculator(DefaultRates())

	got, err := calc.Calculate(Input{
		Category:      CategoryStumpGrinder,
		PurchasePrice: 60000,
		LifeHours:     4000,
		SalvagePct:    0.10,
	})
	require.NoError(t, err)

	assert.InDelta(t, 60000, got.PurchasePrice, 0.01)
	assert.InDelta(t, 6000, got.SalvageValue, 0.01)
	// (60000-6000)/4000 = 13.5
	assert.InDelta(t, 13.5, got.Depreciation, 0.001)
	// Fuel still comes from the category spec: 2.8 * 4.25.
	assert.InDelta(t, 11.9, got.Fuel, 0.001)
}

func TestCalculateUnknownCategory(t *testing.T) {
	t.Parallel()
	calc := NewCalculator(DefaultRates())

	t.Run("rejected without overrides", func(t *testing.T) {
		t.Parallel()
		_, err := calc.Calculate(Input{Category: "crane"})
		require.Error(t, err)
		assert.True(t, eris.Is(err, ErrUnknownCategory))
	})

	t.Run("costed with full overrides", func(t *testing.T) {
		t.Parallel()
		got, err := calc.Calculate(Input{
			Category:       "crane",
			PurchasePrice:  500000,
			LifeHours:      15000,
			SalvagePct:     0.30,
			FuelGPH:        9.0,
			MaintenancePct: 70,
		})
		require.NoError(t, err)
		assert.InDelta(t, 500000, got.PurchasePrice, 0.01)
		assert.Greater(t, got.TotalPerHour, 0.0)
	})
}

func TestCalculateValidation(t *testing.T) {
	t.Parallel()
	calc := NewCalculator(DefaultRates())

	tests := []struct {
		name    string
		in      Input
		wantErr error
	}{
		{"negative age", Input{Category: CategoryChipper, AgeYears: -1}, ErrInvalidInput},
		{"salvage over 100 percent", Input{Category: CategoryChipper, SalvagePct: 1.5}, ErrInvalidInput},
		{"negative fuel", Input{Category: CategoryChipper, FuelGPH: -2}, ErrInvalidInput},
		{"bad severity", Input{Category: CategoryChipper, Severity: "apocalyptic"}, ErrUnknownSeverity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := calc.Calculate(tt.in)
			require.Error(t, err)
			assert.True(t, eris.Is(err, tt.wantErr))
		})
	}
}

func TestDefaultSpecs(t *testing.T) {
	t.Parallel()
	specs := DefaultSpecs()
	assert.Len(t, specs, 8)
	assert.Contains(t, specs, CategorySkidSteerMulcher)
	assert.Contains(t, specs, CategoryLogTruck)
	for cat, spec := range specs {
		assert.Greater(t, spec.MSRP, 0.0, "category %s", cat)
		assert.Greater(t, spec.LifeHours, 0.0, "category %s", cat)
	}
}

func TestSetSpec(t *testing.T) {
	t.Parallel()
	calc := NewCalculator(DefaultRates())

	calc.SetSpec("crane", Spec{MSRP: 480000, SalvagePct: 0.30, LifeHours: 15000, FuelGPH: 9, MaintenanceFactor: 70})
	got, err := calc.Calculate(Input{Category: "crane"})
	require.NoError(t, err)
	assert.InDelta(t, 480000, got.PurchasePrice, 0.01)
}
