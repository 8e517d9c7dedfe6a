package pricing

import (
	"github.com/rotisserie/eris"

	"github.com/treeai-operations/alex-cli/internal/crew"
	"github.com/treeai-operations/alex-cli/internal/equipment"
)

// ErrUnknownTemplate indicates a template name with no definition.
var ErrUnknownTemplate = eris.New("pricing: unknown loadout template")

// Templates returns the predefined loadout configurations keyed by
// template name.
func Templates() map[string]LoadoutConfig {
	return map[string]LoadoutConfig{
		"residential_tree_service": {
			Name:        "Residential Tree Service Crew",
			ProjectType: ProjectTreeRemoval,
			Equipment: []equipment.Input{
				{Category: equipment.CategoryBucketTruck, Severity: equipment.SeverityStandard, PurchasePrice: 165000},
				{Category: equipment.CategoryChipper, Severity: equipment.SeverityStandard, PurchasePrice: 50000},
				{Category: equipment.CategoryPickupTruck, Severity: equipment.SeverityStandard, PurchasePrice: 65000},
			},
			Crew: []crew.Member{
				{Position: crew.PositionISACertifiedArborist, HourlyRate: 32},
				{Position: crew.PositionExperiencedClimber, HourlyRate: 28},
				{Position: crew.PositionGroundCrewLead, HourlyRate: 22},
				{Position: crew.PositionGroundCrewMember, HourlyRate: 18},
			},
			State: "florida",
		},
		"forestry_mulching_operation": {
			Name:        "Forestry Mulching Operation",
			ProjectType: ProjectForestryMulching,
			Equipment: []equipment.Input{
				{Category: equipment.CategorySkidSteerMulcher, Severity: equipment.SeverityHeavyVegetation, PurchasePrice: 118000},
				{Category: equipment.CategoryPickupTruck, Severity: equipment.SeverityHeavyVegetation, PurchasePrice: 65000},
			},
			Crew: []crew.Member{
				{Position: crew.PositionEquipmentOperator, HourlyRate: 25},
				{Position: crew.PositionGroundCrewLead, HourlyRate: 22},
				{Position: crew.PositionGroundCrewMember, HourlyRate: 18},
			},
			State: "florida",
		},
		"stump_grinding_crew": {
			Name:        "Stump Grinding Crew",
			ProjectType: ProjectStumpGrinding,
			Equipment: []equipment.Input{
				{Category: equipment.CategoryStumpGrinder, Severity: equipment.SeverityStandard, PurchasePrice: 45000},
				{Category: equipment.CategoryPickupTruck, Severity: equipment.SeverityStandard, PurchasePrice: 65000},
			},
			Crew: []crew.Member{
				{Position: crew.PositionEquipmentOperator, HourlyRate: 25},
				{Position: crew.PositionGroundCrewMember, HourlyRate: 18},
			},
			State: "florida",
		},
		"emergency_response_team": {
			Name:        "Emergency Response Team",
			ProjectType: ProjectEmergencyResponse,
			Equipment: []equipment.Input{
				{Category: equipment.CategoryBucketTruck, Severity: equipment.SeverityDisasterRecovery, PurchasePrice: 165000},
				{Category: equipment.CategoryChipper, Severity: equipment.SeverityDisasterRecovery, PurchasePrice: 50000},
				{Category: equipment.CategoryPickupTruck, Severity: equipment.SeverityDisasterRecovery, PurchasePrice: 65000},
			},
			Crew: []crew.Member{
				{Position: crew.PositionISACertifiedArborist, HourlyRate: 35},
				{Position: crew.PositionExperiencedClimber, HourlyRate: 30},
				{Position: crew.PositionGroundCrewLead, HourlyRate: 25},
				{Position: crew.PositionGroundCrewMember, HourlyRate: 20},
				{Position: crew.PositionSafetyManager, HourlyRate: 40},
			},
			State: "florida",
		},
	}
}

// Template looks up a predefined loadout by name.
func Template(name string) (LoadoutConfig, error) {
	t, ok := Templates()[name]
	if !ok {
		return LoadoutConfig{}, eris.Wrapf(ErrUnknownTemplate, "%q", name)
	}
	return t, nil
}

// TemplateNames lists the available template names.
func TemplateNames() []string {
	names := make([]string, 0, len(Templates()))
	for name := range Templates() {
		names = append(names, name)
	}
	return names
}
