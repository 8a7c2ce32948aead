package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/alexcabrera/thinkplay/internal/animctl"
	"github.com/alexcabrera/thinkplay/internal/builtin"
	"github.com/alexcabrera/thinkplay/internal/config"
	"github.com/alexcabrera/thinkplay/internal/db"
	"github.com/alexcabrera/thinkplay/internal/logging"
	"github.com/alexcabrera/thinkplay/internal/paths"
	"github.com/alexcabrera/thinkplay/internal/pipe"
	"github.com/alexcabrera/thinkplay/internal/playback"
	"github.com/alexcabrera/thinkplay/internal/steps"
	"github.com/alexcabrera/thinkplay/internal/theme"
	"github.com/alexcabrera/thinkplay/internal/timing"
	"github.com/alexcabrera/thinkplay/internal/ui/plain"
	"github.com/alexcabrera/thinkplay/internal/ui/player"
)

// playFlags override the matching config fields when set.
type playFlags struct {
	dataset string
	speed   float64
	pacing  string
	plain   bool
	debug   bool
}

func newRootCmd() *cobra.Command {
	var cfgPath string
	var flags playFlags

	cmd := &cobra.Command{
		Use:           "thinkplay [dataset]",
		Short:         "Play back a recorded thinking timeline",
		Long:          "Plays a timeline of thinking steps with autoplay, step-by-step controls and a text reveal animation.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				flags.dataset = args[0]
			}
			return withConfig(&cfgPath, func(cfg config.Config) error {
				if err := flags.apply(cmd, &cfg); err != nil {
					return err
				}
				return play(cmd.Context(), cmd.OutOrStdout(), cfg, flags)
			})
		},
	}

	cmd.PersistentFlags().StringVar(&cfgPath, "config", defaultConfigPath(), "path to config file")
	cmd.PersistentFlags().Bool("local", false, "keep data and logs under ./.thinkplay")
	cmd.Flags().StringVarP(&flags.dataset, "dataset", "d", "", "dataset file or name (default: built-in timeline)")
	cmd.Flags().Float64VarP(&flags.speed, "speed", "s", 0, "animation speed scale, e.g. 0.5 or 2")
	cmd.Flags().StringVar(&flags.pacing, "pacing", "", "step pacing: fixed or content")
	cmd.Flags().BoolVar(&flags.plain, "plain", false, "print a transcript instead of the interactive player")
	cmd.Flags().BoolVar(&flags.debug, "debug", false, "start with debug borders on")

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if local, _ := cmd.Flags().GetBool("local"); local {
			paths.SetLocalDevMode()
		}
		// Install bundled datasets if needed (version-based)
		return builtin.Install(builtin.InstallDir())
	}

	cmd.AddCommand(newStepsCmd(&cfgPath))
	cmd.AddCommand(newThemeCmd(&cfgPath))
	cmd.AddCommand(newSetupCmd(&cfgPath))

	return cmd
}

func (f playFlags) apply(cmd *cobra.Command, cfg *config.Config) error {
	if f.dataset != "" {
		cfg.Dataset = f.dataset
	}
	if cmd.Flags().Changed("speed") {
		cfg.SpeedScale = f.speed
	}
	if f.pacing != "" {
		cfg.Pacing = f.pacing
	}
	return cfg.Validate()
}

func defaultConfigPath() string {
	return paths.ConfigFile()
}

func loadConfig(cfgPath string) (config.Config, error) {
	return config.Load(cfgPath)
}

func withConfig(cfgPath *string, fn func(config.Config) error) error {
	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		return err
	}
	return fn(cfg)
}

// loadDataset resolves name against the dataset directories, then the
// bundled datasets, and loads it. An empty name is the built-in timeline
// and "-" reads standard input.
func loadDataset(name string) (*steps.Dataset, error) {
	switch name {
	case "":
		return steps.Builtin()
	case pipe.StdinArg:
		data, err := pipe.ReadStdin()
		if err != nil {
			return nil, err
		}
		if len(data) == 0 {
			return nil, fmt.Errorf("no dataset on standard input")
		}
		return steps.Parse(data)
	}
	if path := paths.ResolveDataset(name); path != "" {
		return steps.Load(path)
	}
	if builtin.Has(name) {
		return builtin.Load(name)
	}
	return nil, fmt.Errorf("dataset %q not found", name)
}

// openThemeManager opens the preferences database and loads the saved
// theme. When the database is unavailable the theme lives in memory and
// the returned error says why.
func openThemeManager(ctx context.Context, cfg config.Config, logger *zerolog.Logger) (*theme.Manager, func(), error) {
	conn, queries, err := openPreferences(ctx, cfg)
	if err != nil {
		mgr := theme.NewManager(nil, lipgloss.HasDarkBackground, logger)
		return mgr, func() {}, err
	}
	closeFn := func() {
		queries.Close()
		conn.Close()
	}
	mgr := theme.NewManager(queries, lipgloss.HasDarkBackground, logger)
	if _, err := mgr.Init(ctx); err != nil {
		return mgr, closeFn, err
	}
	return mgr, closeFn, nil
}

func openPreferences(ctx context.Context, cfg config.Config) (*sql.DB, *db.Queries, error) {
	conn, queries, err := db.ConnectWithQueries(ctx, cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("open preferences: %w", err)
	}
	return conn, queries, nil
}

func play(ctx context.Context, out io.Writer, cfg config.Config, flags playFlags) error {
	logger, logCloser, err := logging.Setup(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logCloser.Close()

	dataset, err := loadDataset(cfg.Dataset)
	if err != nil {
		return err
	}
	tm, err := timing.New(cfg.Timing)
	if err != nil {
		return err
	}
	anim, err := animctl.NewWithScale(cfg.SpeedScale)
	if err != nil {
		return err
	}
	defer anim.Close()
	anim.SetDebugVisuals(flags.debug)
	pacing, err := playback.ParsePacing(cfg.Pacing)
	if err != nil {
		return err
	}

	mgr, closeStore, err := openThemeManager(ctx, cfg, &logger)
	if err != nil {
		logger.Warn().Err(err).Msg("theme preference unavailable")
	}
	defer closeStore()

	logger.Info().
		Str("dataset", dataset.Title).
		Int("steps", dataset.Len()).
		Str("pacing", string(pacing)).
		Float64("speed", cfg.SpeedScale).
		Msg("play")

	// The player reads keys from stdin, so a piped dataset always plays plain.
	if flags.plain || !pipe.IsTerminal(out) || cfg.Dataset == pipe.StdinArg {
		ctrl, err := playback.New(playback.Config{
			Source:   dataset,
			Interval: cfg.TickInterval,
			Pacing:   pacing,
			Timing:   tm,
			Anim:     anim,
			Logger:   &logger,
		})
		if err != nil {
			return err
		}
		return plain.Run(ctx, ctrl, plain.NewPrinter(out, mgr.Current().Dark()))
	}

	return player.Run(ctx, player.Options{
		Source:   dataset,
		Title:    dataset.Title,
		Interval: cfg.TickInterval,
		Pacing:   pacing,
		Anim:     anim,
		Timing:   tm,
		Theme:    mgr,
		Logger:   &logger,
	})
}
