package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/treeai-operations/alex-cli/internal/equipment"
)

var equipmentCmd = &cobra.Command{
	Use:   "equipment",
	Short: "Compute hourly ownership and operating cost for a machine",
	Long: `Compute the full hourly cost of a machine using the standard ownership
and operating decomposition: depreciation, interest, and insurance on the
ownership side; fuel, lubrication, maintenance, and wear parts on the
operating side.

Examples:
  equipment --category bucket_truck
  equipment --category skid_steer_mulcher --severity heavy_vegetation
  equipment --category chipper --price 48000 --age 3`,
	RunE: runEquipment,
}

func init() {
	f := equipmentCmd.Flags()
	f.String("category", "", "equipment category (required)")
	f.String("severity", string(equipment.SeverityStandard), "operating severity: light_residential, standard, heavy_vegetation, disaster_recovery")
	f.Float64("price", 0, "purchase price override (defaults to category MSRP)")
	f.Int("age", 0, "machine age in years (depreciates the MSRP when price is not given)")
	f.Float64("life-hours", 0, "useful life hours override")
	f.Float64("fuel-gph", 0, "fuel burn override, gallons per hour")

	_ = equipmentCmd.MarkFlagRequired("category")
	rootCmd.AddCommand(equipmentCmd)
}

func runEquipment(cmd *cobra.Command, _ []string) error {
	category, _ := cmd.Flags().GetString("category")
	severity, _ := cmd.Flags().GetString("severity")
	age, _ := cmd.Flags().GetInt("age")

	calc := equipment.NewCalculator(equipmentRatesFrom(cfg))
	breakdown, err := calc.Calculate(equipment.Input{
		Category:      equipment.Category(category),
		Severity:      equipment.Severity(severity),
		PurchasePrice: mustFloat(cmd, "price"),
		AgeYears:      age,
		LifeHours:     mustFloat(cmd, "life-hours"),
		FuelGPH:       mustFloat(cmd, "fuel-gph"),
	})
	if err != nil {
		return err
	}

	printEquipmentBreakdown(breakdown)
	return nil
}

func printEquipmentBreakdown(b *equipment.CostBreakdown) {
	fmt.Printf("Category:       %s\n", b.Category)
	fmt.Printf("Severity:       %s (x%.2f)\n", b.Severity, b.SeverityFactor)
	fmt.Printf("Purchase price: $%s\n", formatMoney(b.PurchasePrice))

	fmt.Println("\nOwnership ($/hr):")
	fmt.Printf("  %-14s %10.2f\n", "depreciation", b.Depreciation)
	fmt.Printf("  %-14s %10.2f\n", "interest", b.Interest)
	fmt.Printf("  %-14s %10.2f\n", "insurance", b.Insurance)
	fmt.Printf("  %-14s %10.2f\n", "subtotal", b.OwnershipTotal)

	fmt.Println("\nOperating ($/hr):")
	fmt.Printf("  %-14s %10.2f\n", "fuel", b.Fuel)
	fmt.Printf("  %-14s %10.2f\n", "lubrication", b.Lubrication)
	fmt.Printf("  %-14s %10.2f\n", "maintenance", b.Maintenance)
	fmt.Printf("  %-14s %10.2f\n", "wear parts", b.WearParts)
	fmt.Printf("  %-14s %10.2f\n", "subtotal", b.OperatingTotal)

	fmt.Printf("\nTotal: $%.2f/hr\n", b.TotalPerHour)
}
