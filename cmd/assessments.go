package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/treeai-operations/alex-cli/internal/model"
	"github.com/treeai-operations/alex-cli/internal/store"
)

var assessmentsCmd = &cobra.Command{
	Use:   "assessments",
	Short: "Manage saved project assessments",
}

var assessmentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved assessments",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		filter := filterFromFlags(cmd)

		st, err := openStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		assessments, err := st.ListAssessments(ctx, filter)
		if err != nil {
			return err
		}

		if len(assessments) == 0 {
			fmt.Println("No assessments found.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tTYPE\tSTATE\tSTATUS\tCREATED")
		for _, a := range assessments {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				a.ID, a.Name, a.ProjectType, a.State, a.Status,
				a.CreatedAt.Format("2006-01-02 15:04"))
		}
		return w.Flush()
	},
}

func filterFromFlags(cmd *cobra.Command) model.Filter {
	filter := model.Filter{}
	filter.ProjectType, _ = cmd.Flags().GetString("type")
	filter.State, _ = cmd.Flags().GetString("state")
	status, _ := cmd.Flags().GetString("status")
	filter.Status = model.AssessmentStatus(status)
	filter.Limit, _ = cmd.Flags().GetInt("limit")
	filter.Offset, _ = cmd.Flags().GetInt("offset")
	return filter
}

var assessmentsGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one assessment as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := openStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		assessment, err := st.GetAssessment(ctx, args[0])
		if err != nil {
			if eris.Is(err, store.ErrNotFound) {
				return eris.Errorf("no assessment with id %s", args[0])
			}
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(assessment)
	},
}

var assessmentsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an assessment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := openStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		if err := st.DeleteAssessment(ctx, args[0]); err != nil {
			if eris.Is(err, store.ErrNotFound) {
				return eris.Errorf("no assessment with id %s", args[0])
			}
			return err
		}
		fmt.Printf("Deleted %s\n", args[0])
		return nil
	},
}

func init() {
	assessmentsListCmd.Flags().String("type", "", "filter by project type")
	assessmentsListCmd.Flags().String("state", "", "filter by state")
	assessmentsListCmd.Flags().String("status", "", "filter by status (draft, quoted, accepted, declined)")
	assessmentsListCmd.Flags().Int("limit", 0, "max rows to return")
	assessmentsListCmd.Flags().Int("offset", 0, "rows to skip")

	assessmentsCmd.AddCommand(assessmentsListCmd)
	assessmentsCmd.AddCommand(assessmentsGetCmd)
	assessmentsCmd.AddCommand(assessmentsDeleteCmd)
	rootCmd.AddCommand(assessmentsCmd)
}
