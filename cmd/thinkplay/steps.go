package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/spf13/cobra"

	"github.com/alexcabrera/thinkplay/internal/animctl"
	"github.com/alexcabrera/thinkplay/internal/config"
	"github.com/alexcabrera/thinkplay/internal/paths"
	"github.com/alexcabrera/thinkplay/internal/pipe"
	"github.com/alexcabrera/thinkplay/internal/steps"
	"github.com/alexcabrera/thinkplay/internal/timing"
	"github.com/alexcabrera/thinkplay/internal/ui/styles"
)

func newStepsCmd(cfgPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "steps",
		Short: "Inspect timeline datasets",
	}

	cmd.AddCommand(newStepsListCmd())
	cmd.AddCommand(newStepsShowCmd(cfgPath))
	cmd.AddCommand(newStepsTimingCmd(cfgPath))

	return cmd
}

func newStepsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List available datasets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			nameStyle := lipgloss.NewStyle().Bold(true)
			pathStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
			errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

			builtin, err := steps.Builtin()
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s  %d steps  %s\n", nameStyle.Render(builtin.Title), builtin.Len(), pathStyle.Render("(built-in)"))

			for _, path := range paths.ListDatasets() {
				d, err := steps.Load(path)
				if err != nil {
					fmt.Fprintf(out, "%s  %s\n", errStyle.Render("✗ "+err.Error()), pathStyle.Render(path))
					continue
				}
				fmt.Fprintf(out, "%s  %d steps  %s\n", nameStyle.Render(d.Title), d.Len(), pathStyle.Render(path))
			}
			return nil
		},
	}
}

func newStepsShowCmd(cfgPath *string) *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "show [dataset]",
		Short: "Print every step of a dataset",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withConfig(cfgPath, func(cfg config.Config) error {
				d, err := loadDataset(datasetArg(cfg, args))
				if err != nil {
					return err
				}
				md := datasetMarkdown(d)
				if raw || !pipe.IsTerminal(cmd.OutOrStdout()) {
					fmt.Fprint(cmd.OutOrStdout(), md)
					return nil
				}
				t := styles.For(lipgloss.HasDarkBackground())
				fmt.Fprint(cmd.OutOrStdout(), t.RenderMarkdown(md, 100))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "print markdown without rendering")
	return cmd
}

func newStepsTimingCmd(cfgPath *string) *cobra.Command {
	var speed float64

	cmd := &cobra.Command{
		Use:   "timing [dataset]",
		Short: "Show how long autoplay holds each step",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withConfig(cfgPath, func(cfg config.Config) error {
				d, err := loadDataset(datasetArg(cfg, args))
				if err != nil {
					return err
				}
				tm, err := timing.New(cfg.Timing)
				if err != nil {
					return err
				}
				if !cmd.Flags().Changed("speed") {
					speed = cfg.SpeedScale
				}
				ctl, err := animctl.NewWithScale(speed)
				if err != nil {
					return err
				}
				defer ctl.Close()
				writeTimingTable(cmd.OutOrStdout(), d, tm, ctl)
				return nil
			})
		},
	}

	cmd.Flags().Float64VarP(&speed, "speed", "s", 1, "speed scale applied to the holds")
	return cmd
}

func datasetArg(cfg config.Config, args []string) string {
	if len(args) == 1 {
		return args[0]
	}
	return cfg.Dataset
}

// datasetMarkdown renders d as a markdown document, one section per step.
func datasetMarkdown(d *steps.Dataset) string {
	var b strings.Builder
	title := d.Title
	if title == "" {
		title = "Untitled timeline"
	}
	fmt.Fprintf(&b, "# %s\n\n", title)

	for i, s := range d.Steps {
		fmt.Fprintf(&b, "## %d. %s\n\n", i+1, s.Label())
		switch s.Kind {
		case steps.KindPlaintext:
			for _, p := range timing.Paragraphs(s.Content) {
				if strings.TrimSpace(p) == "" {
					continue
				}
				fmt.Fprintf(&b, "%s\n\n", p)
			}
		case steps.KindSearch:
			for _, w := range s.Websites {
				switch {
				case w.Kind == steps.WebsiteBrowsed && w.URL != "":
					fmt.Fprintf(&b, "- %s [%s](%s)\n", styles.IconBrowsed, w.Title, w.URL)
				case w.Kind == steps.WebsiteBrowsed:
					fmt.Fprintf(&b, "- %s %s\n", styles.IconBrowsed, w.Title)
				default:
					fmt.Fprintf(&b, "- %s *%s*\n", styles.IconSearch, w.Title)
				}
			}
			b.WriteString("\n")
		case steps.KindStartThinking:
			b.WriteString("_Thinking starts._\n\n")
		case steps.KindEnd:
			b.WriteString("_Thinking ends._\n\n")
		}
	}
	return b.String()
}

// writeTimingTable prints the raw and speed-scaled hold of every step.
func writeTimingTable(w io.Writer, d *steps.Dataset, tm *timing.Model, ctl *animctl.Control) {
	header := lipgloss.NewStyle().Bold(true)
	muted := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	fmt.Fprintln(w, header.Render(fmt.Sprintf("%-4s %-15s %-32s %9s %9s", "#", "kind", "title", "hold", "scaled")))
	var total, scaled float64
	for i, s := range d.Steps {
		hold := tm.StepHold(s)
		total += hold
		scaled += ctl.AnimationDuration(hold)
		fmt.Fprintf(w, "%-4d %-15s %-32s %8.3fs %8.3fs\n",
			i+1, s.Kind, ansi.Truncate(s.Label(), 32, "…"), hold, ctl.AnimationDuration(hold))
	}
	fmt.Fprintln(w, muted.Render(fmt.Sprintf("%-53s %8.3fs %8.3fs", fmt.Sprintf("total at %g×", ctl.SpeedScale()), total, scaled)))
}
