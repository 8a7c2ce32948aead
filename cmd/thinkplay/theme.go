package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/alexcabrera/thinkplay/internal/config"
	"github.com/alexcabrera/thinkplay/internal/theme"
)

func newThemeCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:       "theme [light|dark|system]",
		Short:     "Show or set the player theme",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{string(theme.Light), string(theme.Dark), string(theme.System)},
		RunE: func(cmd *cobra.Command, args []string) error {
			return withConfig(cfgPath, func(cfg config.Config) error {
				ctx := cmd.Context()
				conn, queries, err := openPreferences(ctx, cfg)
				if err != nil {
					return err
				}
				defer conn.Close()
				defer queries.Close()

				mgr := theme.NewManager(queries, lipgloss.HasDarkBackground, nil)
				state, err := mgr.Init(ctx)
				if err != nil {
					return err
				}
				if len(args) == 1 {
					t, err := theme.Parse(args[0])
					if err != nil {
						return err
					}
					if state, err = mgr.Set(ctx, t); err != nil {
						return err
					}
				}
				fmt.Fprintln(cmd.OutOrStdout(), formatThemeState(state))
				return nil
			})
		},
	}
}

func formatThemeState(s theme.State) string {
	if s.Theme == theme.System {
		return fmt.Sprintf("%s (%s)", s.Theme, s.Resolved)
	}
	return string(s.Theme)
}
