package theme

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestGetExact(t *testing.T) {
	for _, name := range []string{"dark", "light", "high_contrast"} {
		if got := Get(name); got.Name != name {
			t.Errorf("Get(%q).Name = %q", name, got.Name)
		}
	}
}

func TestGetCaseInsensitive(t *testing.T) {
	if got := Get("LIGHT"); got.Name != "light" {
		t.Errorf("Get(LIGHT).Name = %q", got.Name)
	}
}

func TestGetPartialMatch(t *testing.T) {
	if got := Get("contrast"); got.Name != "high_contrast" {
		t.Errorf("Get(contrast).Name = %q", got.Name)
	}
	if got := Get("high_contrast_v2"); got.Name != "high_contrast" {
		t.Errorf("Get(high_contrast_v2).Name = %q", got.Name)
	}
}

func TestGetUnknownFallsBackToDark(t *testing.T) {
	if got := Get("solarized"); got.Name != "dark" {
		t.Errorf("Get(solarized).Name = %q, want dark fallback", got.Name)
	}
}

func TestRegisterAndUnregister(t *testing.T) {
	custom := Theme{
		Name:       "midnight",
		Background: lipgloss.Color("#000022"),
		Text:       lipgloss.Color("#aaaaff"),
	}
	Register(custom)
	defer Unregister("midnight")

	if got := Get("midnight"); got.Background != custom.Background {
		t.Errorf("registered theme not returned: %+v", got)
	}
	if !Unregister("midnight") {
		t.Error("Unregister must report the theme existed")
	}
	if Unregister("midnight") {
		t.Error("second Unregister must report absence")
	}
	if got := Get("midnight"); got.Name != "dark" {
		t.Errorf("unregistered name must fall back to dark, got %q", got.Name)
	}
}
