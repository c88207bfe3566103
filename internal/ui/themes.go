package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
)

// Theme represents a color theme for the TUI
type Theme struct {
	Name string

	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor

	// Semantic colors
	Success lipgloss.AdaptiveColor
	Warning lipgloss.AdaptiveColor
	Error   lipgloss.AdaptiveColor
	Info    lipgloss.AdaptiveColor

	// UI colors
	Border   lipgloss.AdaptiveColor
	Muted    lipgloss.AdaptiveColor
	Progress lipgloss.AdaptiveColor
}

// buildTheme takes [light, dark] pairs
func buildTheme(name string, primary, secondary, success, warning, errorColor, info, border, muted, progress [2]string) Theme {
	return Theme{
		Name:      name,
		Primary:   lipgloss.AdaptiveColor{Light: primary[0], Dark: primary[1]},
		Secondary: lipgloss.AdaptiveColor{Light: secondary[0], Dark: secondary[1]},
		Success:   lipgloss.AdaptiveColor{Light: success[0], Dark: success[1]},
		Warning:   lipgloss.AdaptiveColor{Light: warning[0], Dark: warning[1]},
		Error:     lipgloss.AdaptiveColor{Light: errorColor[0], Dark: errorColor[1]},
		Info:      lipgloss.AdaptiveColor{Light: info[0], Dark: info[1]},
		Border:    lipgloss.AdaptiveColor{Light: border[0], Dark: border[1]},
		Muted:     lipgloss.AdaptiveColor{Light: muted[0], Dark: muted[1]},
		Progress:  lipgloss.AdaptiveColor{Light: progress[0], Dark: progress[1]},
	}
}

// Available themes
var (
	ClinicalTheme = buildTheme("clinical",
		[2]string{"#0E7490", "#22D3EE"}, [2]string{"#6B7280", "#9CA3AF"},
		[2]string{"#059669", "#10B981"}, [2]string{"#D97706", "#F59E0B"}, [2]string{"#DC2626", "#EF4444"},
		[2]string{"#0891B2", "#06B6D4"}, [2]string{"#CBD5E1", "#334155"}, [2]string{"#6B7280", "#9CA3AF"},
		[2]string{"#0891B2", "#22D3EE"})

	HighContrastTheme = buildTheme("high-contrast",
		[2]string{"#000000", "#FFFFFF"}, [2]string{"#666666", "#BBBBBB"},
		[2]string{"#006600", "#00FF00"}, [2]string{"#CC6600", "#FFAA00"}, [2]string{"#CC0000", "#FF4444"},
		[2]string{"#0066CC", "#4499FF"}, [2]string{"#000000", "#FFFFFF"}, [2]string{"#666666", "#BBBBBB"},
		[2]string{"#006600", "#00FF00"})

	MinimalTheme = buildTheme("minimal",
		[2]string{"#2D3748", "#E2E8F0"}, [2]string{"#718096", "#A0AEC0"},
		[2]string{"#2F855A", "#68D391"}, [2]string{"#C05621", "#F6AD55"}, [2]string{"#C53030", "#FC8181"},
		[2]string{"#2B6CB0", "#63B3ED"}, [2]string{"#E2E8F0", "#2D3748"}, [2]string{"#A0AEC0", "#718096"},
		[2]string{"#2F855A", "#68D391"})
)

var themes = map[string]Theme{
	ClinicalTheme.Name:     ClinicalTheme,
	HighContrastTheme.Name: HighContrastTheme,
	MinimalTheme.Name:      MinimalTheme,
}

// ThemeByName looks up a theme, falling back to the clinical theme
func ThemeByName(name string) (Theme, bool) {
	t, ok := themes[name]
	if !ok {
		return ClinicalTheme, false
	}
	return t, true
}

// GetAvailableThemes returns list of available theme names
func GetAvailableThemes() []string {
	return []string{ClinicalTheme.Name, HighContrastTheme.Name, MinimalTheme.Name}
}

// IsColorDisabled checks if colors should be disabled
func IsColorDisabled() bool {
	return os.Getenv("NO_COLOR") != ""
}

// Styles contains all the styled components
type Styles struct {
	Theme Theme

	Title      lipgloss.Style
	Header     lipgloss.Style
	Body       lipgloss.Style
	Muted      lipgloss.Style
	Disclaimer lipgloss.Style

	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Info    lipgloss.Style

	Box      lipgloss.Style
	Input    lipgloss.Style
	Progress lipgloss.Style
}

// NewStyles builds the styles for a theme
func NewStyles(theme Theme) *Styles {
	return &Styles{
		Theme: theme,

		Title: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true),

		Header: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true).
			MarginTop(1),

		Body: lipgloss.NewStyle(),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Disclaimer: lipgloss.NewStyle().
			Foreground(theme.Warning).
			Bold(true).
			Border(lipgloss.NormalBorder(), true, false).
			BorderForeground(theme.Warning),

		Success: lipgloss.NewStyle().
			Foreground(theme.Success).
			Bold(true),

		Warning: lipgloss.NewStyle().
			Foreground(theme.Warning).
			Bold(true),

		Error: lipgloss.NewStyle().
			Foreground(theme.Error).
			Bold(true),

		Info: lipgloss.NewStyle().
			Foreground(theme.Info),

		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(1, 2),

		Input: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Primary).
			Padding(0, 1),

		Progress: lipgloss.NewStyle().
			Foreground(theme.Progress).
			Bold(true),
	}
}
