package crew

import (
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateFloridaArborist(t *testing.T) {
	t.Parallel()
	calc := NewCalculator(DefaultBurdenRates())

	got, err := calc.Calculate(PositionISACertifiedArborist, "florida", 0)
	require.NoError(t, err)

	// 32/hr * 2080 = 66560 annual base wages.
	assert.InDelta(t, 66560, got.AnnualBaseWages, 0.01)

	// fica: 66560 * 0.0765 = 5091.84
	assert.InDelta(t, 5091.84, got.FICA, 0.01)
	// futa: 66560 * 0.006 = 399.36
	assert.InDelta(t, 399.36, got.FUTA, 0.01)
	// suta (FL 2.7%): 1797.12
	assert.InDelta(t, 1797.12, got.SUTA, 0.01)
	// workers comp (FL 12%): 7987.20
	assert.InDelta(t, 7987.20, got.WorkersComp, 0.01)
	// flat benefits: 8000 + 3000 + 5000 + 2000
	assert.InDelta(t, 18000, got.Health+got.PPE+got.Vehicle+got.Training, 0.01)
	// overhead: 66560 * 0.20 = 13312
	assert.InDelta(t, 13312, got.Overhead, 0.01)

	assert.InDelta(t, 46587.52, got.TotalBurden, 0.01)
	assert.InDelta(t, 113147.52, got.TotalAnnualCost, 0.01)

	// 2080 - (100 + 60 + 50 + 80 + 100) = 1690 productive hours.
	assert.InDelta(t, 1690, got.ProductiveHours, 0.01)
	assert.InDelta(t, 66.95, got.TrueHourlyCost, 0.01)

	// True cost always exceeds the base rate.
	assert.Greater(t, got.TrueHourlyCost, got.BaseRate)
	assert.InDelta(t, 1.70, got.BurdenMultiplier, 0.01)
}

func TestCalculateTrueCostExceedsBase(t *testing.T) {
	t.Parallel()
	calc := NewCalculator(DefaultBurdenRates())

	states := []string{"florida", "georgia", "texas", "california", "north_carolina", ""}
	for pos := range DefaultBaseRates() {
		for _, state := range states {
			got, err := calc.Calculate(pos, state, 0)
			require.NoError(t, err)
			assert.Greater(t, got.TrueHourlyCost, got.BaseRate,
				"position %s state %q", pos, state)
			assert.Greater(t, got.BurdenMultiplier, 1.0,
				"position %s state %q", pos, state)
		}
	}
}

func TestCalculateStateAdjustments(t *testing.T) {
	t.Parallel()
	calc := NewCalculator(DefaultBurdenRates())

	fl, err := calc.Calculate(PositionGroundCrewMember, "florida", 0)
	require.NoError(t, err)
	ca, err := calc.Calculate(PositionGroundCrewMember, "california", 0)
	require.NoError(t, err)
	tx, err := calc.Calculate(PositionGroundCrewMember, "texas", 0)
	require.NoError(t, err)

	// California: higher comp and SUTA, fewer weather hours.
	assert.Greater(t, ca.WorkersComp, fl.WorkersComp)
	assert.Greater(t, ca.SUTA, fl.SUTA)
	assert.Greater(t, ca.ProductiveHours, fl.ProductiveHours)

	// Texas: cheaper comp, less weather loss than Florida.
	assert.Less(t, tx.WorkersComp, fl.WorkersComp)
	assert.InDelta(t, 1730, tx.ProductiveHours, 0.01) // 2080 - 350

	// Unknown state keeps the baseline assumptions (same as Florida's).
	unknown, err := calc.Calculate(PositionGroundCrewMember, "alaska", 0)
	require.NoError(t, err)
	assert.InDelta(t, fl.TrueHourlyCost, unknown.TrueHourlyCost, 0.001)
}

func TestCalculateRateOverride(t *testing.T) {
	t.Parallel()
	calc := NewCalculator(DefaultBurdenRates())

	got, err := calc.Calculate(PositionApprentice, "georgia", 17.50)
	require.NoError(t, err)
	assert.InDelta(t, 17.50, got.BaseRate, 0.001)
	assert.InDelta(t, 17.50*2080, got.AnnualBaseWages, 0.01)
}

func TestCalculateErrors(t *testing.T) {
	t.Parallel()
	calc := NewCalculator(DefaultBurdenRates())

	t.Run("unknown position without rate", func(t *testing.T) {
		t.Parallel()
		_, err := calc.Calculate("drone_pilot", "florida", 0)
		require.Error(t, err)
		assert.True(t, eris.Is(err, ErrUnknownPosition))
	})

	t.Run("unknown position with rate is fine", func(t *testing.T) {
		t.Parallel()
		got, err := calc.Calculate("drone_pilot", "florida", 30)
		require.NoError(t, err)
		assert.Greater(t, got.TrueHourlyCost, 30.0)
	})

	t.Run("negative rate", func(t *testing.T) {
		t.Parallel()
		_, err := calc.Calculate(PositionApprentice, "florida", -5)
		require.Error(t, err)
		assert.True(t, eris.Is(err, ErrInvalidInput))
	})
}

func TestCrewCost(t *testing.T) {
	t.Parallel()
	calc := NewCalculator(DefaultBurdenRates())

	members := []Member{
		{Position: PositionISACertifiedArborist},
		{Position: PositionGroundCrewLead},
		{Position: PositionGroundCrewMember},
	}
	got, err := calc.CrewCost(members, "florida")
	require.NoError(t, err)

	require.Len(t, got.Members, 3)
	assert.InDelta(t, 32+22+18, got.TotalBaseHourly, 0.001)
	assert.Greater(t, got.TotalHourlyCost, got.TotalBaseHourly)
	assert.InDelta(t, got.TotalHourlyCost-got.TotalBaseHourly, got.BurdenPerHour, 1e-9)
	assert.Greater(t, got.AverageMultiplier, 1.0)

	var sum float64
	for _, m := range got.Members {
		sum += m.TrueHourlyCost
	}
	assert.InDelta(t, sum, got.TotalHourlyCost, 1e-9)
}

func TestCrewCostErrors(t *testing.T) {
	t.Parallel()
	calc := NewCalculator(DefaultBurdenRates())

	_, err := calc.CrewCost(nil, "florida")
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrInvalidInput))

	_, err = calc.CrewCost([]Member{{Position: "unknown_role"}}, "florida")
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrUnknownPosition))
}

func TestSetBaseRate(t *testing.T) {
	t.Parallel()
	calc := NewCalculator(DefaultBurdenRates())

	calc.SetBaseRate("crane_operator", 38)
	got, err := calc.Calculate("crane_operator", "texas", 0)
	require.NoError(t, err)
	assert.InDelta(t, 38, got.BaseRate, 0.001)
}
