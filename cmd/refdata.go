package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/treeai-operations/alex-cli/internal/crew"
	"github.com/treeai-operations/alex-cli/internal/equipment"
	"github.com/treeai-operations/alex-cli/internal/fetcher"
	"github.com/treeai-operations/alex-cli/internal/refdata"
)

var refdataCmd = &cobra.Command{
	Use:   "refdata",
	Short: "Import reference data for costing",
	Long: `Import equipment spec sheets and wage tables from CSV, XLSX, JSON,
or zipped files, over HTTP, FTP, or a local path. Imported values override
the built-in defaults for the current invocation and are printed for review.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		specsURL, _ := cmd.Flags().GetString("specs")
		wagesURL, _ := cmd.Flags().GetString("wages")
		if specsURL == "" {
			specsURL = cfg.Refdata.EquipmentSpecsURL
		}
		if wagesURL == "" {
			wagesURL = cfg.Refdata.WageTableURL
		}
		if specsURL == "" && wagesURL == "" {
			return cmd.Help()
		}

		loader := refdata.NewLoader(
			fetcher.NewHTTPFetcher(fetcher.HTTPOptions{UserAgent: cfg.Refdata.UserAgent}),
			fetcher.NewFTPFetcher(fetcher.FTPOptions{}),
			cfg.Refdata.TempDir,
		)

		if specsURL != "" {
			specs, err := loader.LoadEquipmentSpecs(ctx, specsURL)
			if err != nil {
				return err
			}
			eqCalc := equipment.NewCalculator(equipmentRatesFrom(cfg))
			refdata.ApplySpecs(eqCalc, specs)
			zap.L().Info("equipment specs imported", zap.Int("categories", len(specs)))
			fmt.Printf("Imported %d equipment specs:\n", len(specs))
			for cat, spec := range specs {
				fmt.Printf("  %-20s msrp %s, life %.0f hrs, fuel %.1f gph\n",
					cat, formatMoney(spec.MSRP), spec.LifeHours, spec.FuelGPH)
			}
		}

		if wagesURL != "" {
			wages, err := loader.LoadWages(ctx, wagesURL)
			if err != nil {
				return err
			}
			crewCalc := crew.NewCalculator(crew.DefaultBurdenRates())
			refdata.ApplyWages(crewCalc, wages)
			zap.L().Info("wage table imported", zap.Int("positions", len(wages)))
			fmt.Printf("Imported %d wage rates:\n", len(wages))
			for pos, rateHr := range wages {
				fmt.Printf("  %-24s %s/hr\n", pos, formatMoney(rateHr))
			}
		}
		return nil
	},
}

func init() {
	refdataCmd.Flags().String("specs", "", "equipment spec source (path or URL)")
	refdataCmd.Flags().String("wages", "", "wage table source (path or URL)")
	rootCmd.AddCommand(refdataCmd)
}
