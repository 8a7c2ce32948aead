package main

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/alexcabrera/thinkplay/internal/animctl"
	"github.com/alexcabrera/thinkplay/internal/builtin"
	"github.com/alexcabrera/thinkplay/internal/config"
	"github.com/alexcabrera/thinkplay/internal/paths"
	"github.com/alexcabrera/thinkplay/internal/playback"
)

// setupAnswers are the form values, kept as strings the way huh edits them.
type setupAnswers struct {
	interval string
	pacing   string
	speed    string
	dataset  string
	logLevel string
}

func answersFrom(cfg config.Config) setupAnswers {
	return setupAnswers{
		interval: cfg.TickInterval.String(),
		pacing:   cfg.Pacing,
		speed:    strconv.FormatFloat(cfg.SpeedScale, 'g', -1, 64),
		dataset:  cfg.Dataset,
		logLevel: cfg.LogLevel,
	}
}

// apply copies the answers onto cfg and validates the result.
func (a setupAnswers) apply(cfg config.Config) (config.Config, error) {
	interval, err := time.ParseDuration(a.interval)
	if err != nil {
		return cfg, fmt.Errorf("tick interval: %w", err)
	}
	speed, err := strconv.ParseFloat(a.speed, 64)
	if err != nil {
		return cfg, fmt.Errorf("speed: %w", err)
	}
	cfg.TickInterval = interval
	cfg.Pacing = a.pacing
	cfg.SpeedScale = speed
	cfg.Dataset = a.dataset
	cfg.LogLevel = a.logLevel
	return cfg, cfg.Validate()
}

func newSetupCmd(cfgPath *string) *cobra.Command {
	var defaults bool
	var forceOverwrite bool

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Write a config file interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withConfig(cfgPath, func(cfg config.Config) error {
				sui := newSetupUI(cmd.OutOrStdout())

				if paths.IsDevMode() {
					sui.Header("Dev mode detected")
					sui.Info(fmt.Sprintf("Repo: %s", paths.DevRoot()))
					sui.Blank()
				}

				answers := answersFrom(cfg)
				if !defaults {
					if err := setupForm(&answers).Run(); err != nil {
						return err
					}
				}
				updated, err := answers.apply(cfg)
				if err != nil {
					return err
				}
				if err := updated.Save(*cfgPath); err != nil {
					return err
				}

				if err := reinstallDatasets(sui, forceOverwrite || defaults); err != nil {
					return err
				}

				sui.SuccessPath("Config written to", *cfgPath)
				sui.SuccessPath("Preferences database", updated.Database)
				sui.SuccessPath("Log file", updated.LogFile)
				sui.Blank()
				sui.Complete("Setup complete!")
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&defaults, "defaults", false, "write the current values without prompting")
	cmd.Flags().BoolVarP(&forceOverwrite, "force", "f", false, "overwrite edited bundled datasets without prompting")
	return cmd
}

// reinstallDatasets refreshes the bundled datasets, asking first when the
// user has edited them.
func reinstallDatasets(sui *setupUI, force bool) error {
	dir := builtin.InstallDir()
	modified, err := builtin.CheckModified(dir)
	if err != nil {
		return fmt.Errorf("check modified datasets: %w", err)
	}

	if len(modified) > 0 && !force {
		sui.Warning("The following bundled datasets have been modified locally:")
		for _, m := range modified {
			sui.Info("• " + m)
		}
		sui.Blank()

		var confirm bool
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title("Overwrite them with fresh copies?").
					Description("Your changes will be lost. Copy them under a new name to keep them.").
					Value(&confirm),
			),
		).WithTheme(huh.ThemeCharm())
		if err := form.Run(); err != nil {
			return err
		}
		if !confirm {
			sui.Warning("Kept the modified datasets.")
			sui.SuccessPath("Datasets directory", dir)
			return nil
		}
	}

	if err := builtin.ForceInstall(dir); err != nil {
		return fmt.Errorf("install datasets: %w", err)
	}
	sui.SuccessPath("Datasets installed to", dir)
	return nil
}

func setupForm(a *setupAnswers) *huh.Form {
	speeds := make([]huh.Option[string], len(animctl.Presets))
	for i, p := range animctl.Presets {
		v := strconv.FormatFloat(p, 'g', -1, 64)
		speeds[i] = huh.NewOption(v+"×", v)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Pacing").
				Description("fixed holds every step for the tick interval; content waits for the reveal animation").
				Options(
					huh.NewOption("fixed", string(playback.PacingFixed)),
					huh.NewOption("content", string(playback.PacingContent)),
				).
				Value(&a.pacing),
			huh.NewInput().
				Title("Tick interval").
				Description("Time per step with fixed pacing, e.g. 3s").
				Value(&a.interval).
				Validate(func(s string) error {
					d, err := time.ParseDuration(s)
					if err != nil {
						return err
					}
					if d <= 0 {
						return fmt.Errorf("must be positive")
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("Animation speed").
				Options(speeds...).
				Value(&a.speed),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Dataset").
				Description("File path or name under the datasets directory; empty plays the built-in timeline").
				Value(&a.dataset),
			huh.NewSelect[string]().
				Title("Log level").
				Options(huh.NewOptions("debug", "info", "warn", "error")...).
				Value(&a.logLevel),
		),
	).WithTheme(huh.ThemeCharm())
}

// setupUI provides styled output for setup commands
type setupUI struct {
	out io.Writer
}

func newSetupUI(out io.Writer) *setupUI {
	return &setupUI{out: out}
}

func (s *setupUI) Header(msg string) {
	style := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))
	fmt.Fprintln(s.out, style.Render(msg))
}

func (s *setupUI) Info(msg string) {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	fmt.Fprintln(s.out, style.Render("  "+msg))
}

func (s *setupUI) SuccessPath(label, path string) {
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	pathStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	fmt.Fprintf(s.out, "  %s %s\n", labelStyle.Render("✓ "+label+":"), pathStyle.Render(path))
}

func (s *setupUI) Warning(msg string) {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	fmt.Fprintln(s.out, style.Render("⚠ "+msg))
}

func (s *setupUI) Complete(msg string) {
	style := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	fmt.Fprintln(s.out, style.Render("✓ "+msg))
}

func (s *setupUI) Blank() {
	fmt.Fprintln(s.out)
}
