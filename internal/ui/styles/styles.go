// Package styles provides the light and dark palettes and the styles built
// from them.
package styles

import (
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

// Theme defines the color palette and styles for one appearance.
type Theme struct {
	Name string

	Primary   lipgloss.Color
	Secondary lipgloss.Color
	// Shimmer is the highlight swept across animated titles.
	Shimmer lipgloss.Color

	Green  lipgloss.Color
	Red    lipgloss.Color
	Blue   lipgloss.Color
	Yellow lipgloss.Color

	FgBase   lipgloss.Color
	FgMuted  lipgloss.Color
	FgSubtle lipgloss.Color
	// FgReveal colors text that is still fading in.
	FgReveal lipgloss.Color

	BgBase   lipgloss.Color
	BgRaised lipgloss.Color
	Border   lipgloss.Color

	styles *Styles
}

// Styles holds pre-built styles for the player.
type Styles struct {
	Base   lipgloss.Style
	Muted  lipgloss.Style
	Subtle lipgloss.Style
	Reveal lipgloss.Style

	Header    lipgloss.Style
	Rule      lipgloss.Style
	StepTitle lipgloss.Style
	Card      lipgloss.Style

	Chip        lipgloss.Style
	ChipBrowsed lipgloss.Style

	Button         lipgloss.Style
	ButtonHeld     lipgloss.Style
	ButtonDisabled lipgloss.Style

	Preset         lipgloss.Style
	PresetActive   lipgloss.Style
	PresetModified lipgloss.Style

	Debug lipgloss.Style
}

// S returns the cached styles accessor.
func (t *Theme) S() *Styles {
	if t.styles == nil {
		t.styles = &Styles{
			Base:   lipgloss.NewStyle().Foreground(t.FgBase),
			Muted:  lipgloss.NewStyle().Foreground(t.FgMuted),
			Subtle: lipgloss.NewStyle().Foreground(t.FgSubtle),
			Reveal: lipgloss.NewStyle().Foreground(t.FgReveal),

			Header:    lipgloss.NewStyle().Foreground(t.Primary).Bold(true),
			Rule:      lipgloss.NewStyle().Foreground(t.Border),
			StepTitle: lipgloss.NewStyle().Foreground(t.FgBase).Bold(true),
			Card: lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(t.Border).
				Padding(0, 1),

			Chip: lipgloss.NewStyle().
				Foreground(t.FgMuted).
				Background(t.BgRaised).
				Padding(0, 1),
			ChipBrowsed: lipgloss.NewStyle().
				Foreground(t.Secondary).
				Background(t.BgRaised).
				Padding(0, 1),

			Button:         lipgloss.NewStyle().Foreground(t.FgBase).Padding(0, 1),
			ButtonHeld:     lipgloss.NewStyle().Foreground(t.BgBase).Background(t.Primary).Padding(0, 1),
			ButtonDisabled: lipgloss.NewStyle().Foreground(t.FgSubtle).Padding(0, 1),

			Preset:         lipgloss.NewStyle().Foreground(t.FgMuted).Padding(0, 1),
			PresetActive:   lipgloss.NewStyle().Foreground(t.BgBase).Background(t.FgBase).Padding(0, 1),
			PresetModified: lipgloss.NewStyle().Foreground(t.BgBase).Background(t.Red).Padding(0, 1),

			Debug: lipgloss.NewStyle().
				Border(lipgloss.NormalBorder()).
				BorderForeground(t.Red),
		}
	}
	return t.styles
}

// Status icons.
const (
	IconFirst    = "⇤"
	IconPrevious = "‹"
	IconPlay     = "▶"
	IconPause    = "⏸"
	IconNext     = "›"
	IconLast     = "⇥"
	IconSearch   = "⌕"
	IconBrowsed  = "↗"
	CheckMark    = "✓"
)

// Dark returns the dark palette.
func Dark() *Theme {
	return &Theme{
		Name:      "dark",
		Primary:   lipgloss.Color("#a78bfa"),
		Secondary: lipgloss.Color("#67e8f9"),
		Shimmer:   lipgloss.Color("#ffffff"),

		Green:  lipgloss.Color("#22c55e"),
		Red:    lipgloss.Color("#ef4444"),
		Blue:   lipgloss.Color("#3b82f6"),
		Yellow: lipgloss.Color("#eab308"),

		FgBase:   lipgloss.Color("#f4f4f5"),
		FgMuted:  lipgloss.Color("#a1a1aa"),
		FgSubtle: lipgloss.Color("#52525b"),
		FgReveal: lipgloss.Color("#71717a"),

		BgBase:   lipgloss.Color("#18181b"),
		BgRaised: lipgloss.Color("#27272a"),
		Border:   lipgloss.Color("#3f3f46"),
	}
}

// Light returns the light palette.
func Light() *Theme {
	return &Theme{
		Name:      "light",
		Primary:   lipgloss.Color("#7c3aed"),
		Secondary: lipgloss.Color("#0891b2"),
		Shimmer:   lipgloss.Color("#a1a1aa"),

		Green:  lipgloss.Color("#16a34a"),
		Red:    lipgloss.Color("#dc2626"),
		Blue:   lipgloss.Color("#2563eb"),
		Yellow: lipgloss.Color("#ca8a04"),

		FgBase:   lipgloss.Color("#18181b"),
		FgMuted:  lipgloss.Color("#52525b"),
		FgSubtle: lipgloss.Color("#a1a1aa"),
		FgReveal: lipgloss.Color("#d4d4d8"),

		BgBase:   lipgloss.Color("#fafafa"),
		BgRaised: lipgloss.Color("#f4f4f5"),
		Border:   lipgloss.Color("#d4d4d8"),
	}
}

// For returns the palette for a resolved appearance.
func For(dark bool) *Theme {
	if dark {
		return Dark()
	}
	return Light()
}

// RenderMarkdown renders markdown content with the glamour style matching
// the palette. Rendering errors fall back to the raw content.
func (t *Theme) RenderMarkdown(content string, width int) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(t.Name),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return content
	}
	rendered, err := r.Render(content)
	if err != nil {
		return content
	}
	return rendered
}
