package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/treeai-operations/alex-cli/internal/treescore"
)

var treescoreCmd = &cobra.Command{
	Use:   "treescore",
	Short: "Compute TreeScore points and labor hour estimates",
	Long: `Convert tree measurements into TreeScore work points and, given a crew
experience tier, into an estimated labor hour range.

Examples:
  treescore --service tree_removal --height 60 --canopy 20 --dbh 36
  treescore --service stump_grinding --height 4 --dbh 30 --tier expert
  treescore --service tree_trimming --height 45 --canopy 18 --dbh 24 --risk 23.15`,
	RunE: runTreeScore,
}

func init() {
	f := treescoreCmd.Flags()
	f.String("service", string(treescore.ServiceRemoval), "service: tree_removal, stump_grinding, tree_trimming")
	f.Float64("height", 0, "tree or stump height in feet")
	f.Float64("canopy", 0, "canopy radius in feet")
	f.Float64("dbh", 0, "trunk diameter at breast height in inches")
	f.Float64("risk", 0, "composite risk score to fold in as bonus points")
	f.String("tier", string(treescore.TierExperienced), "crew experience tier: beginner, experienced, expert")

	rootCmd.AddCommand(treescoreCmd)
}

func runTreeScore(cmd *cobra.Command, _ []string) error {
	service, _ := cmd.Flags().GetString("service")
	tier, _ := cmd.Flags().GetString("tier")
	risk, _ := cmd.Flags().GetFloat64("risk")

	result, err := treescore.Calculate(treescore.Input{
		Service:        treescore.Service(service),
		HeightFt:       mustFloat(cmd, "height"),
		CanopyRadiusFt: mustFloat(cmd, "canopy"),
		DBHInches:      mustFloat(cmd, "dbh"),
	})
	if err != nil {
		return err
	}

	points := result.Points
	fmt.Printf("Service:  %s\n", result.Service)
	fmt.Printf("Points:   %.1f  (%s)\n", result.Points, result.Formula)
	if risk > 0 {
		points = treescore.WithRiskBonus(result, risk)
		fmt.Printf("Total:    %.2f  (risk bonus +%.2f)\n", points, risk)
	}

	est, err := treescore.DefaultBenchmarks().EstimateHoursRange(points, result.Service, treescore.ExperienceTier(tier))
	if err != nil {
		return err
	}
	fmt.Printf("\nCrew tier %s at %.0f-%.0f points/hour:\n", tier, est.PpH.Low, est.PpH.High)
	fmt.Printf("Estimated hours: %.1f - %.1f (midpoint %.1f)\n", est.HoursLow, est.HoursHigh, est.HoursMid)

	return nil
}
