package pricing

import (
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMulchBaseline(t *testing.T) {
	t.Parallel()

	got, err := Mulch(MulchInput{
		Acres:         2,
		PackageInches: 4,
		BaseRateIAH:   2.0,
		BillingRate:   400,
	})
	require.NoError(t, err)

	// 2 acres * 4" limit = 8 inch-acres at 2.0 ia/h = 4 hours.
	assert.InDelta(t, 8, got.PackageInches, 0.001)
	assert.InDelta(t, 2.0, got.FinalRateIAH, 0.001)
	assert.InDelta(t, 4, got.MulchingHours, 0.001)
	assert.InDelta(t, 1600, got.TotalCost, 0.01)
	assert.InDelta(t, 800, got.CostPerAcre, 0.01)
	assert.InDelta(t, 0.5, got.AcresPerHour, 0.001)
}

func TestMulchInvasiveVegetationJob(t *testing.T) {
	t.Parallel()

	// 3.5 acre medium package with heavy invasive growth slowing
	// production 45%, plus 1.5 hours transport.
	got, err := Mulch(MulchInput{
		Acres:          3.5,
		PackageInches:  6,
		BaseRateIAH:    1.5,
		BillingRate:    500,
		AFISSAdjust:    -0.45,
		TransportHours: 1.5,
	})
	require.NoError(t, err)

	assert.InDelta(t, 21, got.PackageInches, 0.001)
	// 1.5 * 0.55 * 0.77 = 0.63525 ia/h
	assert.InDelta(t, 0.63525, got.FinalRateIAH, 0.0001)
	assert.InDelta(t, 33.0578, got.MulchingHours, 0.001)

	// Transport bills at 75% of the hourly rate.
	assert.InDelta(t, 375, got.TransportRate, 0.001)
	assert.InDelta(t, 562.5, got.TransportCost, 0.01)
	assert.InDelta(t, 16528.93, got.MulchingCost, 0.01)
	assert.InDelta(t, 17091.43, got.TotalCost, 0.01)
	assert.InDelta(t, got.MulchingHours+1.5, got.TotalHours, 0.001)
}

func TestMulchPackageDifficultyOrdering(t *testing.T) {
	t.Parallel()

	// Same acreage gets slower (and costlier per acre) as the package
	// DBH limit grows.
	var lastHours float64
	for _, pkg := range []int{4, 6, 8, 10} {
		got, err := Mulch(MulchInput{
			Acres: 3, PackageInches: pkg, BaseRateIAH: 1.5, BillingRate: 450,
		})
		require.NoError(t, err)
		assert.Greater(t, got.MulchingHours, lastHours, "package %d", pkg)
		lastHours = got.MulchingHours
	}
}

func TestMulchValidation(t *testing.T) {
	t.Parallel()

	valid := MulchInput{Acres: 2, PackageInches: 6, BaseRateIAH: 1.5, BillingRate: 500}

	tests := []struct {
		name    string
		mutate  func(*MulchInput)
		wantErr error
	}{
		{"unsupported package", func(in *MulchInput) { in.PackageInches = 12 }, ErrUnknownPackage},
		{"zero acres", func(in *MulchInput) { in.Acres = 0 }, ErrInvalidInput},
		{"zero base rate", func(in *MulchInput) { in.BaseRateIAH = 0 }, ErrInvalidInput},
		{"zero billing rate", func(in *MulchInput) { in.BillingRate = 0 }, ErrInvalidInput},
		{"afiss too low", func(in *MulchInput) { in.AFISSAdjust = -0.6 }, ErrInvalidInput},
		{"afiss too high", func(in *MulchInput) { in.AFISSAdjust = 0.5 }, ErrInvalidInput},
		{"negative transport", func(in *MulchInput) { in.TransportHours = -1 }, ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			in := valid
			tt.mutate(&in)
			_, err := Mulch(in)
			require.Error(t, err)
			assert.True(t, eris.Is(err, tt.wantErr))
		})
	}
}
