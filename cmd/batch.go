package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync/atomic"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/treeai-operations/alex-cli/internal/crew"
	"github.com/treeai-operations/alex-cli/internal/equipment"
	"github.com/treeai-operations/alex-cli/internal/fetcher"
	"github.com/treeai-operations/alex-cli/internal/model"
	"github.com/treeai-operations/alex-cli/internal/pricing"
	"github.com/treeai-operations/alex-cli/internal/store"
)

var (
	batchLimit int
	batchSave  bool
)

var batchCmd = &cobra.Command{
	Use:   "batch <jobs.csv>",
	Short: "Price many loadouts from a CSV job file",
	Long: `Price loadouts concurrently from a CSV file with the header:

  name,template,project_type,equipment,crew,state,margin,hours

Each row names either a template or a project_type with semicolon-separated
equipment categories and crew positions. Individual failures are logged and
skipped; the batch continues.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := cfg.Validate("batch"); err != nil {
			return err
		}

		jobs, err := parseBatchFile(ctx, args[0])
		if err != nil {
			return err
		}

		var st store.Store
		if batchSave {
			st, err = openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer st.Close() //nolint:errcheck
		}

		pricer := newPricer(cfg)
		return processBatch(ctx, jobs, batchLimit, cfg.Batch.MaxConcurrentJobs, st, func(ctx context.Context, job batchJob) (*pricing.LoadoutPricing, error) {
			loadout, err := job.loadout()
			if err != nil {
				return nil, err
			}
			return pricer.Price(loadout)
		})
	},
}

func init() {
	batchCmd.Flags().IntVar(&batchLimit, "limit", 0, "max number of jobs to process (0 = all)")
	batchCmd.Flags().BoolVar(&batchSave, "save", false, "persist priced loadouts to the store")
	rootCmd.AddCommand(batchCmd)
}

// batchJob is one row of the batch input file.
type batchJob struct {
	Name        string
	Template    string
	ProjectType string
	Equipment   string // semicolon-separated categories
	Crew        string // semicolon-separated positions
	State       string
	Margin      float64
	Hours       float64
}

// loadout resolves the job row into a priceable loadout.
func (j batchJob) loadout() (pricing.LoadoutConfig, error) {
	var loadout pricing.LoadoutConfig

	if j.Template != "" {
		t, err := pricing.Template(j.Template)
		if err != nil {
			return pricing.LoadoutConfig{}, err
		}
		loadout = t
	} else {
		loadout.ProjectType = pricing.ProjectType(j.ProjectType)
		for _, cat := range splitSemicolons(j.Equipment) {
			loadout.Equipment = append(loadout.Equipment, equipment.Input{Category: equipment.Category(cat)})
		}
		for _, pos := range splitSemicolons(j.Crew) {
			loadout.Crew = append(loadout.Crew, crew.Member{Position: crew.Position(pos)})
		}
	}

	if j.Name != "" {
		loadout.Name = j.Name
	}
	if j.State != "" {
		loadout.State = j.State
	}
	if j.Margin != 0 {
		loadout.TargetMargin = j.Margin
	}
	return loadout, nil
}

func splitSemicolons(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ";") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// parseBatchFile reads the CSV job file. Column order follows the header.
func parseBatchFile(ctx context.Context, path string) ([]batchJob, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "batch: open %s", path)
	}
	defer file.Close() //nolint:errcheck

	headerCh := make(chan []string, 1)
	rowCh, errCh := fetcher.StreamCSV(ctx, file, fetcher.CSVOptions{
		HasHeader: true,
		HeaderCh:  headerCh,
		Comment:   '#',
		TrimSpace: true,
	})

	var header []string
	var jobs []batchJob
	for row := range rowCh {
		if header == nil {
			header = <-headerCh
		}
		job, err := rowToJob(header, row)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	if err := <-errCh; err != nil {
		return nil, err
	}
	return jobs, nil
}

func rowToJob(header, row []string) (batchJob, error) {
	var job batchJob
	for i, col := range header {
		if i >= len(row) {
			break
		}
		v := row[i]
		switch col {
		case "name":
			job.Name = v
		case "template":
			job.Template = v
		case "project_type":
			job.ProjectType = v
		case "equipment":
			job.Equipment = v
		case "crew":
			job.Crew = v
		case "state":
			job.State = v
		case "margin":
			if v != "" {
				m, err := strconv.ParseFloat(v, 64)
				if err != nil {
					return batchJob{}, eris.Wrapf(err, "batch: row %q: margin", job.Name)
				}
				job.Margin = m
			}
		case "hours":
			if v != "" {
				h, err := strconv.ParseFloat(v, 64)
				if err != nil {
					return batchJob{}, eris.Wrapf(err, "batch: row %q: hours", job.Name)
				}
				job.Hours = h
			}
		}
	}
	if job.Template == "" && job.ProjectType == "" {
		return batchJob{}, eris.Errorf("batch: row %q: template or project_type is required", job.Name)
	}
	return job, nil
}

// priceFunc is the callback signature for pricing one batch job.
type priceFunc func(ctx context.Context, job batchJob) (*pricing.LoadoutPricing, error)

// processBatch applies limit, then prices jobs concurrently. If st is
// non-nil, successful results are persisted.
func processBatch(ctx context.Context, jobs []batchJob, limit, concurrency int, st store.Store, price priceFunc) error {
	if len(jobs) == 0 {
		zap.L().Info("no jobs in batch file")
		return nil
	}

	if limit > 0 && len(jobs) > limit {
		jobs = jobs[:limit]
	}

	zap.L().Info("processing batch",
		zap.Int("jobs", len(jobs)),
		zap.Int("concurrency", concurrency),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	var succeeded, failed atomic.Int64

	for _, job := range jobs {
		g.Go(func() error {
			log := zap.L().With(zap.String("job", job.Name))

			result, err := price(gctx, job)
			if err != nil {
				failed.Add(1)
				log.Error("pricing failed", zap.Error(err))
				return nil // don't abort batch on individual failure
			}

			record := &model.ProjectAssessment{
				Name:        job.Name,
				ProjectType: string(result.ProjectType),
				State:       job.State,
				Pricing:     result,
			}
			if job.Hours > 0 {
				if econ, err := pricing.Economics(result, job.Hours); err == nil {
					record.Economics = econ
				}
			}

			if st != nil {
				if err := st.SaveAssessment(gctx, record); err != nil {
					failed.Add(1)
					log.Error("save failed", zap.Error(err))
					return nil
				}
			}

			succeeded.Add(1)
			log.Info("priced",
				zap.Float64("total_cost_per_hour", result.TotalCostPerHour),
				zap.Float64("recommended_rate", result.RecommendedRate),
			)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return eris.Wrap(err, "batch processing")
	}

	fmt.Printf("Batch complete: %d succeeded, %d failed\n", succeeded.Load(), failed.Load())
	zap.L().Info("batch complete",
		zap.Int64("succeeded", succeeded.Load()),
		zap.Int64("failed", failed.Load()),
	)
	return nil
}
