package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/ignatzorin/lexsuite-backend/internal/config"
	"github.com/ignatzorin/lexsuite-backend/internal/domain/valueobject"
	"github.com/ignatzorin/lexsuite-backend/internal/service"
)

// TokenCmd выпускает access токен для отладки API и служебных интеграций.
func TokenCmd() *cobra.Command {
	var (
		user string
		firm string
		role string
		ttl  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Выпустить access токен",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			userID, err := uuid.Parse(user)
			if err != nil {
				return fmt.Errorf("--user: некорректный UUID %q", user)
			}
			firmID, err := parseFirm(firm)
			if err != nil {
				return err
			}
			r := valueobject.Role(strings.ToUpper(role))
			if !r.IsValid() {
				return fmt.Errorf("--role: неизвестная роль %q", role)
			}
			if ttl <= 0 {
				ttl = cfg.AccessTokenTTL
			}

			tokens := service.NewTokenManager(cfg.JWTSecret, ttl)
			token, exp, err := tokens.Issue(service.Principal{UserID: userID, FirmID: firmID, Role: r}, time.Now())
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			fmt.Fprintf(cmd.ErrOrStderr(), "действует до %s\n", exp.UTC().Format(time.RFC3339))
			return nil
		},
	}
	cmd.Flags().StringVar(&user, "user", "", "UUID пользователя")
	cmd.Flags().StringVar(&firm, "firm", "", "UUID фирмы")
	cmd.Flags().StringVar(&role, "role", string(valueobject.RoleSolicitor), "роль")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "срок действия (по умолчанию ACCESS_TOKEN_TTL)")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("firm")
	return cmd
}
