package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/treeai-operations/alex-cli/internal/crew"
)

var crewCmd = &cobra.Command{
	Use:   "crew",
	Short: "Compute true burdened hourly cost for a position or crew",
	Long: `Compute the true hourly cost of employing a position: base wages plus
payroll taxes, workers comp, benefits, and overhead, spread over productive
hours only.

Examples:
  crew --position isa_certified_arborist --state florida
  crew --position experienced_climber --rate 30 --state texas
  crew --members isa_certified_arborist,experienced_climber,ground_crew_lead --state georgia`,
	RunE: runCrew,
}

func init() {
	f := crewCmd.Flags()
	f.String("position", "", "single position to cost")
	f.Float64("rate", 0, "hourly base rate override")
	f.String("members", "", "comma-separated positions for aggregate crew cost")
	f.String("state", "", "state for burden adjustments (default from config)")

	rootCmd.AddCommand(crewCmd)
}

func runCrew(cmd *cobra.Command, _ []string) error {
	position, _ := cmd.Flags().GetString("position")
	members, _ := cmd.Flags().GetString("members")
	state, _ := cmd.Flags().GetString("state")
	if state == "" {
		state = cfg.Costing.DefaultState
	}

	calc := crew.NewCalculator(crew.DefaultBurdenRates())

	if members != "" {
		var crewMembers []crew.Member
		for _, p := range splitAndTrim(members) {
			crewMembers = append(crewMembers, crew.Member{Position: crew.Position(p)})
		}
		cost, err := calc.CrewCost(crewMembers, state)
		if err != nil {
			return err
		}
		printCrewCost(cost, state)
		return nil
	}

	if position == "" {
		return fmt.Errorf("crew: --position or --members is required")
	}

	breakdown, err := calc.Calculate(crew.Position(position), state, mustFloat(cmd, "rate"))
	if err != nil {
		return err
	}
	printEmployeeBreakdown(breakdown)
	return nil
}

func printEmployeeBreakdown(b *crew.CostBreakdown) {
	fmt.Printf("Position:    %s\n", b.Position)
	if b.State != "" {
		fmt.Printf("State:       %s\n", b.State)
	}
	fmt.Printf("Base rate:   $%.2f/hr  ($%s/yr)\n", b.BaseRate, formatMoney(b.AnnualBaseWages))

	fmt.Println("\nAnnual burden:")
	fmt.Printf("  %-13s %12s\n", "FICA", formatMoney(b.FICA))
	fmt.Printf("  %-13s %12s\n", "FUTA", formatMoney(b.FUTA))
	fmt.Printf("  %-13s %12s\n", "SUTA", formatMoney(b.SUTA))
	fmt.Printf("  %-13s %12s\n", "workers comp", formatMoney(b.WorkersComp))
	fmt.Printf("  %-13s %12s\n", "health", formatMoney(b.Health))
	fmt.Printf("  %-13s %12s\n", "PPE", formatMoney(b.PPE))
	fmt.Printf("  %-13s %12s\n", "vehicle", formatMoney(b.Vehicle))
	fmt.Printf("  %-13s %12s\n", "training", formatMoney(b.Training))
	fmt.Printf("  %-13s %12s\n", "overhead", formatMoney(b.Overhead))
	fmt.Printf("  %-13s %12s\n", "total", formatMoney(b.TotalBurden))

	fmt.Printf("\nTotal annual cost: $%s\n", formatMoney(b.TotalAnnualCost))
	fmt.Printf("Productive hours:  %.0f\n", b.ProductiveHours)
	fmt.Printf("True hourly cost:  $%.2f  (%.2fx base)\n", b.TrueHourlyCost, b.BurdenMultiplier)
}

func printCrewCost(c *crew.Cost, state string) {
	fmt.Printf("Crew of %d (%s):\n\n", len(c.Members), state)
	fmt.Printf("%-24s %10s %12s %8s\n", "Position", "Base", "True Cost", "Mult")
	for _, m := range c.Members {
		fmt.Printf("%-24s %9.2f/h %11.2f/h %7.2fx\n",
			m.Position, m.BaseRate, m.TrueHourlyCost, m.BurdenMultiplier)
	}
	fmt.Printf("\nTotal base:   $%.2f/hr\n", c.TotalBaseHourly)
	fmt.Printf("Total burden: $%.2f/hr\n", c.BurdenPerHour)
	fmt.Printf("Total cost:   $%.2f/hr  (avg %.2fx)\n", c.TotalHourlyCost, c.AverageMultiplier)
}
