// Package cli содержит служебные команды deadlinectl: миграции, ручной пересчёт,
// политики эскалации, выгрузка ключевых дат и выпуск токенов.
package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"github.com/ignatzorin/lexsuite-backend/internal/app"
	"github.com/ignatzorin/lexsuite-backend/internal/config"
	"github.com/ignatzorin/lexsuite-backend/internal/db"
	"github.com/ignatzorin/lexsuite-backend/internal/domain/valueobject"
	"github.com/ignatzorin/lexsuite-backend/internal/infrastructure/persistence"
	"github.com/ignatzorin/lexsuite-backend/internal/logger"
	"github.com/ignatzorin/lexsuite-backend/internal/usecase/escalation"
)

func RootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:           "deadlinectl",
		Short:         "Служебные команды движка сроков",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				logger.Init("debug")
				logger.SetTextFormatter()
				return
			}
			logger.Silence()
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "писать журнал в stderr")

	root.AddCommand(MigrateCmd())
	root.AddCommand(RecomputeCmd())
	root.AddCommand(PoliciesCmd())
	root.AddCommand(KeyDatesCmd())
	root.AddCommand(TokenCmd())
	return root
}

// session держит подключение к базе и собранное поверх него приложение.
type session struct {
	cfg  *config.Config
	conn *sqlx.DB
	app  *app.App
}

func (s *session) Close() {
	_ = s.conn.Close()
}

func openDB(ctx context.Context) (*config.Config, *sqlx.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if cfg.StorageDriver != config.StorageDriverPostgres {
		return nil, nil, fmt.Errorf("deadlinectl работает только с STORAGE_DRIVER=postgres")
	}
	conn, err := db.NewPostgres(ctx, cfg.DatabaseURL, db.PoolOptions{MaxOpenConns: 4, MaxIdleConns: 2})
	if err != nil {
		return nil, nil, err
	}
	return cfg, conn, nil
}

func openSession(ctx context.Context) (*session, error) {
	cfg, conn, err := openDB(ctx)
	if err != nil {
		return nil, err
	}

	templates, _, err := escalation.LoadDefaults(cfg.Escalation.DefaultsPath)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	application := app.New(persistence.NewPostgres(conn), app.Options{
		Templates: templates,
		Job: escalation.JobConfig{
			TenantConcurrency: cfg.Scheduler.TenantConcurrency,
			AdminFallback:     cfg.Escalation.AdminFallback,
		},
	})
	return &session{cfg: cfg, conn: conn, app: application}, nil
}

func parseFirm(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("--firm: некорректный UUID %q", raw)
	}
	return id, nil
}

// statusColor подсвечивает статус срока по срочности.
func statusColor(status valueobject.KeyDateStatus) string {
	switch status {
	case valueobject.KeyDateStatusBreach:
		return color.New(color.FgRed, color.Bold).Sprint(status)
	case valueobject.KeyDateStatusOverdue:
		return color.RedString(string(status))
	case valueobject.KeyDateStatusAtRisk:
		return color.YellowString(string(status))
	default:
		return color.GreenString(string(status))
	}
}
