// Package theme defines the color schemes consumed by the rendering layer.
package theme

import (
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme maps color roles to terminal colors. The engine never interprets
// colors itself; it hands roles through to whichever backend draws them.
type Theme struct {
	Name         string
	Background   lipgloss.Color
	AxesBg       lipgloss.Color
	Text         lipgloss.Color
	Grid         lipgloss.Color
	Accent       lipgloss.Color
	WidgetBg     lipgloss.Color
	WidgetActive lipgloss.Color
	Success      lipgloss.Color
	Warning      lipgloss.Color
	Error        lipgloss.Color
}

// Available themes.
var (
	ThemeDark = Theme{
		Name:         "dark",
		Background:   lipgloss.Color("#1e1e1e"),
		AxesBg:       lipgloss.Color("#2d2d2d"),
		Text:         lipgloss.Color("#e0e0e0"),
		Grid:         lipgloss.Color("#404040"),
		Accent:       lipgloss.Color("#569cd6"),
		WidgetBg:     lipgloss.Color("#3c3c3c"),
		WidgetActive: lipgloss.Color("#569cd6"),
		Success:      lipgloss.Color("#66bb6a"),
		Warning:      lipgloss.Color("#ffcc00"),
		Error:        lipgloss.Color("#ef5350"),
	}

	ThemeLight = Theme{
		Name:         "light",
		Background:   lipgloss.Color("#ffffff"),
		AxesBg:       lipgloss.Color("#f5f5f5"),
		Text:         lipgloss.Color("#333333"),
		Grid:         lipgloss.Color("#cccccc"),
		Accent:       lipgloss.Color("#0066cc"),
		WidgetBg:     lipgloss.Color("#e0e0e0"),
		WidgetActive: lipgloss.Color("#0066cc"),
		Success:      lipgloss.Color("#2e7d32"),
		Warning:      lipgloss.Color("#b26a00"),
		Error:        lipgloss.Color("#c62828"),
	}

	ThemeHighContrast = Theme{
		Name:         "high_contrast",
		Background:   lipgloss.Color("#000000"),
		AxesBg:       lipgloss.Color("#000000"),
		Text:         lipgloss.Color("#ffffff"),
		Grid:         lipgloss.Color("#666666"),
		Accent:       lipgloss.Color("#ffff00"),
		WidgetBg:     lipgloss.Color("#333333"),
		WidgetActive: lipgloss.Color("#ffff00"),
		Success:      lipgloss.Color("#00ff00"),
		Warning:      lipgloss.Color("#ffff00"),
		Error:        lipgloss.Color("#ff0000"),
	}
)

var registry = map[string]Theme{
	ThemeDark.Name:         ThemeDark,
	ThemeLight.Name:        ThemeLight,
	ThemeHighContrast.Name: ThemeHighContrast,
}

// Get returns a theme by name, case-insensitive, falling back to partial
// matches and finally to the dark theme for unknown names.
func Get(name string) Theme {
	lower := strings.ToLower(name)
	if t, ok := registry[lower]; ok {
		return t
	}
	for _, regName := range Names() {
		if strings.Contains(regName, lower) || strings.Contains(lower, regName) {
			return registry[regName]
		}
	}
	return ThemeDark
}

// Register adds or replaces a named theme.
func Register(t Theme) {
	registry[strings.ToLower(t.Name)] = t
}

// Unregister removes a theme and reports whether it existed.
func Unregister(name string) bool {
	lower := strings.ToLower(name)
	if _, ok := registry[lower]; !ok {
		return false
	}
	delete(registry, lower)
	return true
}

// Names lists the registered theme names sorted alphabetically.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
