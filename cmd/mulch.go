package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/treeai-operations/alex-cli/internal/pricing"
)

var mulchCmd = &cobra.Command{
	Use:   "mulch",
	Short: "Compute package-based forestry mulching economics",
	Long: `Compute forestry mulching job economics from acreage and a DBH package
(4, 6, 8, or 10 inch max diameter). Production is measured in inch-acres
per hour; thicker packages carry lower effective production rates.

Examples:
  mulch --acres 2 --package 4 --rate 2.0 --billing 400
  mulch --acres 3.5 --package 6 --rate 1.5 --billing 500 --afiss -0.45 --transport 1.5`,
	RunE: runMulch,
}

func init() {
	f := mulchCmd.Flags()
	f.Float64("acres", 0, "acres to clear")
	f.Int("package", 4, "DBH package: 4, 6, 8, or 10 inches")
	f.Float64("rate", 0, "base production rate, inch-acres per hour")
	f.Float64("billing", 0, "billing rate, $/hr")
	f.Float64("afiss", 0, "production adjustment from site risk (-0.5 to +0.4)")
	f.Float64("transport", 0, "transport hours (billed at 75%)")

	rootCmd.AddCommand(mulchCmd)
}

func runMulch(cmd *cobra.Command, _ []string) error {
	pkg, _ := cmd.Flags().GetInt("package")

	econ, err := pricing.Mulch(pricing.MulchInput{
		Acres:          mustFloat(cmd, "acres"),
		PackageInches:  pkg,
		BaseRateIAH:    mustFloat(cmd, "rate"),
		BillingRate:    mustFloat(cmd, "billing"),
		AFISSAdjust:    mustFloat(cmd, "afiss"),
		TransportHours: mustFloat(cmd, "transport"),
	})
	if err != nil {
		return err
	}

	fmt.Printf("Package:       %d\" (%s)\n", pkg, econ.Package.Description)
	fmt.Printf("Work:          %.1f acres = %.1f inch-acres\n", econ.Acres, econ.PackageInches)
	fmt.Printf("Production:    %.2f ia/hr base -> %.3f ia/hr effective\n", econ.BaseRateIAH, econ.FinalRateIAH)
	fmt.Printf("Mulching time: %.1f hours\n", econ.MulchingHours)
	if econ.TransportHours > 0 {
		fmt.Printf("Transport:     %.1f hours at $%.2f/hr\n", econ.TransportHours, econ.TransportRate)
	}
	fmt.Printf("\nMulching cost:  $%s\n", formatMoney(econ.MulchingCost))
	if econ.TransportCost > 0 {
		fmt.Printf("Transport cost: $%s\n", formatMoney(econ.TransportCost))
	}
	fmt.Printf("Total:          $%s  ($%s/acre)\n", formatMoney(econ.TotalCost), formatMoney(econ.CostPerAcre))

	return nil
}
