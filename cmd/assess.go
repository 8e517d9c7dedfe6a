package main

import (
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/treeai-operations/alex-cli/internal/afiss"
	"github.com/treeai-operations/alex-cli/internal/model"
	"github.com/treeai-operations/alex-cli/internal/treescore"
)

var assessCmd = &cobra.Command{
	Use:   "assess",
	Short: "Score site risk across the five assessment domains",
	Long: `Score a job site across access, fall zone, interference, severity, and
site condition domains, producing a composite risk score, tier, and cost
multiplier range.

Domain scores may be given directly (0-100 each), or derived from risk
factor codes when a factor catalog is configured.

Examples:
  # Direct domain scores
  assess --access 25 --fall-zone 40 --interference 15 --severity 10 --site 30

  # Factor codes resolved against the configured catalog
  assess --factors AC_STEEP_SLOPE,FZ_PRIMARY_STRUCTURE,IN_POWER_LINES

  # Fold the risk into a measured removal and save the assessment
  assess --access 25 --fall-zone 40 --interference 15 --severity 10 --site 30 \
    --service tree_removal --height 60 --canopy 20 --dbh 36 \
    --name "oak - 12 elm st" --save`,
	RunE: runAssess,
}

func init() {
	f := assessCmd.Flags()
	f.Float64("access", 0, "access domain score (0-100)")
	f.Float64("fall-zone", 0, "fall zone domain score (0-100)")
	f.Float64("interference", 0, "interference domain score (0-100)")
	f.Float64("severity", 0, "severity domain score (0-100)")
	f.Float64("site", 0, "site conditions domain score (0-100)")
	f.String("factors", "", "comma-separated risk factor codes (requires catalog)")
	f.String("catalog", "", "risk factor catalog path (overrides config)")
	f.String("service", "", "service for TreeScore: tree_removal, stump_grinding, tree_trimming")
	f.Float64("height", 0, "tree or stump height in feet")
	f.Float64("canopy", 0, "canopy radius in feet")
	f.Float64("dbh", 0, "trunk diameter at breast height in inches")
	f.String("name", "", "assessment name (used with --save)")
	f.Bool("save", false, "persist the assessment to the store")

	rootCmd.AddCommand(assessCmd)
}

func runAssess(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cfg.Validate("assess"); err != nil {
		return err
	}

	scorer, err := afiss.NewScorer(afissConfigFrom(cfg))
	if err != nil {
		return err
	}

	scores, err := domainScoresFromFlags(cmd)
	if err != nil {
		return err
	}

	assessment, err := scorer.Score(scores)
	if err != nil {
		return err
	}

	printAssessment(assessment)

	record := &model.ProjectAssessment{Risk: assessment}

	if service, _ := cmd.Flags().GetString("service"); service != "" {
		result, err := treescore.Calculate(treescore.Input{
			Service:        treescore.Service(service),
			HeightFt:       mustFloat(cmd, "height"),
			CanopyRadiusFt: mustFloat(cmd, "canopy"),
			DBHInches:      mustFloat(cmd, "dbh"),
		})
		if err != nil {
			return err
		}
		total := treescore.WithRiskBonus(result, assessment.Composite)
		record.TreeScore = result
		record.ProjectType = service

		fmt.Printf("\nTreeScore:    %.1f points  (%s)\n", result.Points, result.Formula)
		fmt.Printf("Risk bonus:   +%.2f\n", assessment.Composite)
		fmt.Printf("Total points: %.2f\n", total)
	}

	if save, _ := cmd.Flags().GetBool("save"); save {
		name, _ := cmd.Flags().GetString("name")
		if name == "" {
			return eris.New("assess: --name is required with --save")
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
		zap.L().Info("assessment saved", zap.String("id", record.ID))
		fmt.Printf("\nSaved assessment %s\n", record.ID)
	}

	return nil
}

// domainScoresFromFlags resolves factor codes when given, otherwise reads
// the five direct domain score flags.
func domainScoresFromFlags(cmd *cobra.Command) (afiss.DomainScores, error) {
	factors, _ := cmd.Flags().GetString("factors")
	if factors == "" {
		return afiss.DomainScores{
			Access:         mustFloat(cmd, "access"),
			FallZone:       mustFloat(cmd, "fall-zone"),
			Interference:   mustFloat(cmd, "interference"),
			Severity:       mustFloat(cmd, "severity"),
			SiteConditions: mustFloat(cmd, "site"),
		}, nil
	}

	catalogPath, _ := cmd.Flags().GetString("catalog")
	if catalogPath == "" {
		catalogPath = cfg.AFISS.CatalogPath
	}
	if catalogPath == "" {
		return afiss.DomainScores{}, eris.New("assess: --factors requires a catalog (--catalog or afiss.catalog_path)")
	}

	catalog, err := afiss.LoadCatalog(catalogPath)
	if err != nil {
		return afiss.DomainScores{}, err
	}
	return catalog.DomainScores(splitAndTrim(factors))
}

func mustFloat(cmd *cobra.Command, name string) float64 {
	v, _ := cmd.Flags().GetFloat64(name)
	return v
}

func printAssessment(a *afiss.Assessment) {
	fmt.Printf("Composite:  %.2f / 100\n", a.Composite)
	fmt.Printf("Tier:       %s\n", strings.ToUpper(string(a.Tier)))
	fmt.Printf("Multiplier: %.2fx - %.2fx\n", a.MultiplierLow, a.MultiplierHigh)
	fmt.Printf("Severity:   %s\n", afiss.SeverityForScore(a.Composite))

	fmt.Println("\nWeighted scores:")
	for _, d := range afiss.Domains() {
		fmt.Printf("  %-16s %6.2f\n", d, a.WeightedScores[d])
	}

	if len(a.Recommendations) > 0 {
		fmt.Println("\nRecommendations:")
		for _, r := range a.Recommendations {
			fmt.Printf("  - %s\n", r)
		}
	}
}
