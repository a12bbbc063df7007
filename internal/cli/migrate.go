package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ignatzorin/lexsuite-backend/internal/db"
)

func MigrateCmd() *cobra.Command {
	var status bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Применить SQL-миграции (--status: только показать состояние)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, conn, err := openDB(ctx)
			if err != nil {
				return err
			}
			defer conn.Close()

			out := cmd.OutOrStdout()
			if status {
				states, err := db.MigrationStatus(ctx, conn, cfg.MigrationsPath)
				if err != nil {
					return err
				}
				w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "MIGRATION\tAPPLIED")
				for _, s := range states {
					applied := color.YellowString("pending")
					if s.AppliedAt != nil {
						applied = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
					fmt.Fprintf(w, "%s\t%s\n", s.Name, applied)
				}
				return w.Flush()
			}

			applied, err := db.RunMigrations(ctx, conn, cfg.MigrationsPath)
			if err != nil {
				return err
			}
			if len(applied) == 0 {
				fmt.Fprintln(out, "Схема актуальна")
				return nil
			}
			for _, name := range applied {
				fmt.Fprintf(out, "%s %s\n", color.GreenString("✓"), name)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&status, "status", false, "показать применённые и ожидающие миграции")
	return cmd
}
