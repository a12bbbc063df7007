package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ignatzorin/lexsuite-backend/internal/domain/entity"
)

func PoliciesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "policies",
		Short: "Политики эскалации фирмы",
	}
	cmd.AddCommand(policiesListCmd())
	cmd.AddCommand(policiesSeedCmd())
	return cmd
}

func policiesListCmd() *cobra.Command {
	var (
		firm      string
		effective bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Показать политики (--effective: с учётом шаблонов по умолчанию)",
		RunE: func(cmd *cobra.Command, args []string) error {
			firmID, err := parseFirm(firm)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			s, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			list := s.app.Policies.List
			if effective {
				list = s.app.Policies.Effective
			}
			policies, err := list(ctx, firmID)
			if err != nil {
				return err
			}
			if len(policies) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "У фирмы нет своих политик, действуют шаблоны по умолчанию")
				return nil
			}
			printPolicies(cmd.OutOrStdout(), policies)
			return nil
		},
	}
	cmd.Flags().StringVar(&firm, "firm", "", "UUID фирмы")
	cmd.Flags().BoolVar(&effective, "effective", false, "показать действующие политики")
	_ = cmd.MarkFlagRequired("firm")
	return cmd
}

func policiesSeedCmd() *cobra.Command {
	var firm string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Сохранить шаблоны по умолчанию для уровней, которых у фирмы нет",
		RunE: func(cmd *cobra.Command, args []string) error {
			firmID, err := parseFirm(firm)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			s, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			policies, err := s.app.Policies.SeedDefaults(ctx, firmID)
			if err != nil {
				return err
			}
			printPolicies(cmd.OutOrStdout(), policies)
			return nil
		},
	}
	cmd.Flags().StringVar(&firm, "firm", "", "UUID фирмы")
	_ = cmd.MarkFlagRequired("firm")
	return cmd
}

func printPolicies(out io.Writer, policies []entity.EscalationPolicy) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIER\tOFFSET\tESCALATE TO\tCHANNELS\tACTIVE")
	for _, p := range policies {
		channels := make([]string, len(p.Channels))
		for i, c := range p.Channels {
			channels[i] = string(c)
		}
		active := color.GreenString("yes")
		if !p.IsActive {
			active = color.New(color.Faint).Sprint("no")
		}
		fmt.Fprintf(w, "%s\t%dh\t%s\t%s\t%s\n", p.Tier, p.OffsetHours, p.EscalateTo, strings.Join(channels, ","), active)
	}
	_ = w.Flush()
}
