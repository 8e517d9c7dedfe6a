package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/treeai-operations/alex-cli/internal/equipment"
	"github.com/treeai-operations/alex-cli/internal/pricing"
)

func newPriceFlagsCmd(t *testing.T, flags map[string]string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "price"}
	cmd.Flags().String("template", "", "")
	cmd.Flags().String("type", "", "")
	cmd.Flags().String("equipment", "", "")
	cmd.Flags().String("crew", "", "")
	cmd.Flags().String("state", "", "")
	cmd.Flags().String("severity", "", "")
	cmd.Flags().Float64("margin", 0, "")
	for name, value := range flags {
		require.NoError(t, cmd.Flags().Set(name, value))
	}
	return cmd
}

func TestLoadoutFromFlagsTemplate(t *testing.T) {
	cfg = testConfig(t)
	cmd := newPriceFlagsCmd(t, map[string]string{
		"template": "forestry_mulching_operation",
	})

	loadout, err := loadoutFromFlags(cmd)
	require.NoError(t, err)
	assert.Equal(t, pricing.ProjectForestryMulching, loadout.ProjectType)
	assert.Equal(t, "florida", loadout.State)
	assert.NotEmpty(t, loadout.Equipment)
	assert.NotEmpty(t, loadout.Crew)
}

func TestLoadoutFromFlagsTemplateOverrides(t *testing.T) {
	cfg = testConfig(t)
	cmd := newPriceFlagsCmd(t, map[string]string{
		"template": "residential_tree_service",
		"state":    "georgia",
		"severity": "heavy_vegetation",
		"margin":   "0.45",
	})

	loadout, err := loadoutFromFlags(cmd)
	require.NoError(t, err)
	assert.Equal(t, "georgia", loadout.State)
	assert.Equal(t, 0.45, loadout.TargetMargin)
	for _, eq := range loadout.Equipment {
		assert.Equal(t, equipment.SeverityHeavyVegetation, eq.Severity)
	}
}

func TestLoadoutFromFlagsCustom(t *testing.T) {
	cfg = testConfig(t)
	cmd := newPriceFlagsCmd(t, map[string]string{
		"type":      "stump_grinding",
		"equipment": "stump_grinder, pickup_truck",
		"crew":      "equipment_operator, ground_crew_member",
	})

	loadout, err := loadoutFromFlags(cmd)
	require.NoError(t, err)
	assert.Equal(t, pricing.ProjectStumpGrinding, loadout.ProjectType)
	require.Len(t, loadout.Equipment, 2)
	require.Len(t, loadout.Crew, 2)
	assert.Equal(t, "florida", loadout.State)
}

func TestLoadoutFromFlagsMissingType(t *testing.T) {
	cfg = testConfig(t)
	_, err := loadoutFromFlags(newPriceFlagsCmd(t, nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--template or --type is required")
}

func TestLoadoutFromFlagsEmptyLoadout(t *testing.T) {
	cfg = testConfig(t)
	cmd := newPriceFlagsCmd(t, map[string]string{"type": "tree_removal"})
	_, err := loadoutFromFlags(cmd)
	require.Error(t, err)
	assert.True(t, eris.Is(err, pricing.ErrInvalidInput))
}

func TestWritePricingCSV(t *testing.T) {
	cfg = testConfig(t)
	loadout, err := pricing.Template("stump_grinding_crew")
	require.NoError(t, err)
	result, err := newPricer(cfg).Price(loadout)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "pricing.csv")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, writePricingCSV(f, result))
	require.NoError(t, f.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.True(t, strings.HasPrefix(out, "loadout,"))
	assert.Contains(t, out, "recommended_billing_rate")
	assert.Contains(t, out, "total_cost_per_hour")
}
