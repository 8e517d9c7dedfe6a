package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/treeai-operations/alex-cli/internal/crew"
	"github.com/treeai-operations/alex-cli/internal/equipment"
	"github.com/treeai-operations/alex-cli/internal/model"
	"github.com/treeai-operations/alex-cli/internal/pricing"
)

var priceCmd = &cobra.Command{
	Use:   "price",
	Short: "Price a crew-plus-equipment loadout",
	Long: `Aggregate equipment and burdened labor costs into an hourly loadout
price with a recommended billing rate, competitive position, and
efficiency scoring.

Start from a named template or describe the loadout with flags.

Examples:
  # Built-in templates
  price --template residential_tree_service
  price --template forestry_mulching_operation --state texas

  # Custom loadout
  price --type stump_grinding --equipment stump_grinder,pickup_truck \
    --crew equipment_operator,ground_crew_member --state georgia

  # Project economics over an 8 hour job, exported to CSV
  price --template residential_tree_service --hours 8 --format csv --output quote.csv`,
	RunE: runPrice,
}

func init() {
	f := priceCmd.Flags()
	f.String("template", "", "loadout template: "+strings.Join(pricing.TemplateNames(), ", "))
	f.String("type", "", "project type for custom loadouts")
	f.String("equipment", "", "comma-separated equipment categories")
	f.String("crew", "", "comma-separated crew positions")
	f.String("state", "", "state for labor burden adjustments")
	f.String("severity", "", "equipment operating severity override")
	f.Float64("margin", 0, "target margin override (0-1 exclusive)")
	f.Float64("hours", 0, "project length for economics projection")
	f.String("output", "", "output file path (default: stdout)")
	f.String("format", "table", "output format: table or csv")
	f.String("name", "", "assessment name (used with --save)")
	f.Bool("save", false, "persist the priced loadout to the store")

	rootCmd.AddCommand(priceCmd)
}

func runPrice(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cfg.Validate("price"); err != nil {
		return err
	}

	format, _ := cmd.Flags().GetString("format")
	if format != "table" && format != "csv" {
		return eris.Errorf("price: --format must be table or csv (got %q)", format)
	}

	loadout, err := loadoutFromFlags(cmd)
	if err != nil {
		return err
	}

	log := zap.L().With(zap.String("command", "price"))
	log.Info("pricing loadout",
		zap.String("name", loadout.Name),
		zap.String("project_type", string(loadout.ProjectType)),
		zap.Int("equipment", len(loadout.Equipment)),
		zap.Int("crew", len(loadout.Crew)),
	)

	result, err := newPricer(cfg).Price(loadout)
	if err != nil {
		return err
	}

	outputPath, _ := cmd.Flags().GetString("output")
	if err := outputPricing(result, format, outputPath); err != nil {
		return err
	}

	record := &model.ProjectAssessment{
		ProjectType: string(result.ProjectType),
		State:       loadout.State,
		Pricing:     result,
	}

	if hours, _ := cmd.Flags().GetFloat64("hours"); hours > 0 {
		econ, err := pricing.Economics(result, hours)
		if err != nil {
			return err
		}
		record.Economics = econ
		printEconomics(econ)
	}

	if save, _ := cmd.Flags().GetBool("save"); save {
		name, _ := cmd.Flags().GetString("name")
		if name == "" {
			name = loadout.Name
		}
		record.Name = name

		st, err := openStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		if err := st.SaveAssessment(ctx, record); err != nil {
			return err
		}
		fmt.Printf("\nSaved assessment %s\n", record.ID)
	}

	return nil
}

// loadoutFromFlags builds a LoadoutConfig from a template plus flag
// overrides, or from flags alone.
func loadoutFromFlags(cmd *cobra.Command) (pricing.LoadoutConfig, error) {
	var loadout pricing.LoadoutConfig

	if name, _ := cmd.Flags().GetString("template"); name != "" {
		t, err := pricing.Template(name)
		if err != nil {
			return pricing.LoadoutConfig{}, err
		}
		loadout = t
	} else {
		projectType, _ := cmd.Flags().GetString("type")
		if projectType == "" {
			return pricing.LoadoutConfig{}, eris.New("price: --template or --type is required")
		}
		loadout.ProjectType = pricing.ProjectType(projectType)
		loadout.Name = "custom " + projectType
	}

	if v, _ := cmd.Flags().GetString("equipment"); v != "" {
		severity, _ := cmd.Flags().GetString("severity")
		loadout.Equipment = nil
		for _, cat := range splitAndTrim(v) {
			loadout.Equipment = append(loadout.Equipment, equipment.Input{
				Category: equipment.Category(cat),
				Severity: equipment.Severity(severity),
			})
		}
	} else if v, _ := cmd.Flags().GetString("severity"); v != "" {
		for i := range loadout.Equipment {
			loadout.Equipment[i].Severity = equipment.Severity(v)
		}
	}

	if v, _ := cmd.Flags().GetString("crew"); v != "" {
		loadout.Crew = nil
		for _, pos := range splitAndTrim(v) {
			loadout.Crew = append(loadout.Crew, crew.Member{Position: crew.Position(pos)})
		}
	}

	if v, _ := cmd.Flags().GetString("state"); v != "" {
		loadout.State = v
	}
	if loadout.State == "" {
		loadout.State = cfg.Costing.DefaultState
	}

	if v, _ := cmd.Flags().GetFloat64("margin"); v != 0 {
		loadout.TargetMargin = v
	}

	if len(loadout.Equipment) == 0 || len(loadout.Crew) == 0 {
		return pricing.LoadoutConfig{}, eris.Wrap(pricing.ErrInvalidInput, "price: loadout needs --equipment and --crew")
	}

	return loadout, nil
}

func outputPricing(p *pricing.LoadoutPricing, format, outputPath string) error {
	var w *os.File
	if outputPath != "" {
		var err error
		w, err = os.Create(outputPath)
		if err != nil {
			return eris.Wrapf(err, "price: create output file %s", outputPath)
		}
		defer w.Close() //nolint:errcheck
	} else {
		w = os.Stdout
	}

	switch format {
	case "csv":
		return writePricingCSV(w, p)
	default:
		return writePricingTable(w, p)
	}
}

func writePricingCSV(w *os.File, p *pricing.LoadoutPricing) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	rows := [][]string{
		{"loadout", p.Name},
		{"project_type", string(p.ProjectType)},
		{"heavy_equipment_cost", fmt.Sprintf("%.2f", p.HeavyEquipmentCost)},
		{"small_tools_cost", fmt.Sprintf("%.2f", p.SmallToolsCost)},
		{"equipment_cost_per_hour", fmt.Sprintf("%.2f", p.EquipmentCostPerHour)},
		{"employee_cost_per_hour", fmt.Sprintf("%.2f", p.EmployeeCostPerHour)},
		{"total_cost_per_hour", fmt.Sprintf("%.2f", p.TotalCostPerHour)},
		{"target_margin", fmt.Sprintf("%.2f", p.TargetMargin)},
		{"recommended_billing_rate", fmt.Sprintf("%.2f", p.RecommendedRate)},
		{"break_even_rate", fmt.Sprintf("%.2f", p.BreakEvenRate)},
		{"competitive_position", string(p.CompetitivePosition)},
		{"cost_efficiency_score", fmt.Sprintf("%.1f", p.CostEfficiencyScore)},
		{"profitability_score", fmt.Sprintf("%.1f", p.ProfitabilityScore)},
	}
	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			return eris.Wrap(err, "price: write CSV row")
		}
	}
	return nil
}

func writePricingTable(w *os.File, p *pricing.LoadoutPricing) error {
	fmt.Fprintf(w, "Loadout: %s (%s)\n\n", p.Name, p.ProjectType)

	fmt.Fprintf(w, "Cost structure ($/hr):\n")
	for _, b := range p.EquipmentBreakdowns {
		fmt.Fprintf(w, "  %-22s %10.2f\n", b.Category, b.TotalPerHour)
	}
	fmt.Fprintf(w, "  %-22s %10.2f\n", "small tools", p.SmallToolsCost)
	fmt.Fprintf(w, "  %-22s %10.2f\n", "equipment subtotal", p.EquipmentCostPerHour)
	if p.CrewCost != nil {
		for _, m := range p.CrewCost.Members {
			fmt.Fprintf(w, "  %-22s %10.2f\n", m.Position, m.TrueHourlyCost)
		}
	}
	fmt.Fprintf(w, "  %-22s %10.2f\n", "labor subtotal", p.EmployeeCostPerHour)
	fmt.Fprintf(w, "  %-22s %10.2f\n", "total", p.TotalCostPerHour)

	fmt.Fprintf(w, "\nRecommended rate: $%.2f/hr (%.0f%% margin)\n",
		p.RecommendedRate, p.TargetMargin*100)
	fmt.Fprintf(w, "Break-even rate:  $%.2f/hr\n", p.BreakEvenRate)
	fmt.Fprintf(w, "Market range:     $%.0f - $%.0f/hr (%s)\n",
		p.CompetitiveRange.Low, p.CompetitiveRange.High, p.CompetitivePosition)
	fmt.Fprintf(w, "Cost efficiency:  %.1f / 100\n", p.CostEfficiencyScore)
	fmt.Fprintf(w, "Profitability:    %.1f / 100\n", p.ProfitabilityScore)

	return nil
}

func printEconomics(e *pricing.ProjectEconomics) {
	fmt.Printf("\nProject economics over %.1f hours:\n", e.Hours)
	fmt.Printf("  cost:    $%s\n", formatMoney(e.Cost))
	fmt.Printf("  revenue: $%s\n", formatMoney(e.Revenue))
	fmt.Printf("  profit:  $%s\n", formatMoney(e.Profit))
	fmt.Printf("  ROI:     %.1f%%\n", e.ROI*100)
}
