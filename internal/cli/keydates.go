package cli

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/ignatzorin/lexsuite-backend/internal/domain/entity"
	rules "github.com/ignatzorin/lexsuite-backend/internal/domain/escalation"
	"github.com/ignatzorin/lexsuite-backend/internal/usecase/keydate"
)

func KeyDatesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keydates",
		Short: "Ключевые даты",
	}
	cmd.AddCommand(keyDatesListCmd())
	return cmd
}

func keyDatesListCmd() *cobra.Command {
	var (
		firm      string
		matter    string
		status    string
		search    string
		completed bool
		limit     int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Список ключевых дат фирмы, самые срочные сверху",
		RunE: func(cmd *cobra.Command, args []string) error {
			firmID, err := parseFirm(firm)
			if err != nil {
				return err
			}
			var matterID *uuid.UUID
			if matter != "" {
				id, err := uuid.Parse(matter)
				if err != nil {
					return fmt.Errorf("--matter: некорректный UUID %q", matter)
				}
				matterID = &id
			}

			ctx := cmd.Context()
			s, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			uc := keydate.NewListKeyDatesUseCase(s.app.Storage.Repositories().KeyDates, s.app.Clock)
			out, err := uc.Execute(ctx, keydate.ListKeyDatesInput{
				FirmID:           firmID,
				MatterID:         matterID,
				Status:           status,
				Search:           search,
				IncludeCompleted: completed,
				Limit:            limit,
			})
			if err != nil {
				return err
			}

			printKeyDates(cmd.OutOrStdout(), out.Items, out.Now)
			if out.Total > len(out.Items) {
				fmt.Fprintf(cmd.OutOrStdout(), "\nпоказано %d из %d\n", len(out.Items), out.Total)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&firm, "firm", "", "UUID фирмы")
	cmd.Flags().StringVar(&matter, "matter", "", "UUID дела")
	cmd.Flags().StringVar(&status, "status", "", "ON_TRACK, AT_RISK, OVERDUE или BREACH")
	cmd.Flags().StringVar(&search, "search", "", "поиск по названию и делу")
	cmd.Flags().BoolVar(&completed, "completed", false, "включать выполненные")
	cmd.Flags().IntVar(&limit, "limit", 100, "сколько строк показать")
	_ = cmd.MarkFlagRequired("firm")
	return cmd
}

func printKeyDates(out io.Writer, items []*entity.KeyDate, now time.Time) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DUE\tDAYS\tMATTER\tTITLE\tPRIORITY\tSTATUS")
	for _, kd := range items {
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\t%s\n",
			kd.DueAt.Format("2006-01-02 15:04"),
			rules.DaysUntilDue(kd.DueAt, now),
			kd.MatterReference,
			kd.Title,
			kd.Priority,
			statusColor(kd.Status),
		)
	}
	_ = w.Flush()
}
