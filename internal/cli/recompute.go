package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ignatzorin/lexsuite-backend/internal/usecase/escalation"
)

func RecomputeCmd() *cobra.Command {
	var firm string

	cmd := &cobra.Command{
		Use:   "recompute",
		Short: "Пересчитать статусы сроков и разослать эскалации",
		Long: `Выполняет один проход пересчёта сразу, не дожидаясь расписания.
Без --firm проходит по всем фирмам. Повторный запуск не дублирует уведомления.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			var summaries []*escalation.PassSummary
			if firm == "" {
				if summaries, err = s.app.Job.RunAll(ctx); err != nil {
					return err
				}
			} else {
				firmID, err := parseFirm(firm)
				if err != nil {
					return err
				}
				summary, err := s.app.Job.RunPass(ctx, firmID)
				if err != nil {
					return err
				}
				summaries = append(summaries, summary)
			}

			printSummaries(cmd.OutOrStdout(), summaries)
			return nil
		},
	}
	cmd.Flags().StringVar(&firm, "firm", "", "UUID фирмы")
	return cmd
}

func printSummaries(out io.Writer, summaries []*escalation.PassSummary) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FIRM\tEVALUATED\tCHANGED\tBREACHED\tDISPATCHED\tALREADY SENT\tNO RECIPIENT\tFAILED")
	for _, s := range summaries {
		if s == nil {
			continue
		}
		failed := fmt.Sprint(s.Failed)
		if s.Failed > 0 {
			failed = color.RedString(failed)
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t%d\t%d\t%s\n",
			s.FirmID, s.Evaluated, s.StatusChanged, s.Breached, s.Dispatched, s.AlreadySent, s.NoRecipient, failed)
	}
	_ = w.Flush()
}
