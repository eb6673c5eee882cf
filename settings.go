package debugdraw

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"golang.org/x/image/colornames"
	"gopkg.in/yaml.v3"
)

// Capacities configures the per-kind buffer sizes allocated on first
// append. Zero fields fall back to a small built-in capacity.
type Capacities struct {
	Lines    int `yaml:"lines"`
	Arcs     int `yaml:"arcs"`
	Boxes    int `yaml:"boxes"`
	Outlines int `yaml:"outlines"`
}

// Settings carries the user-tunable drawing parameters, loadable from a
// YAML file. Zero numeric fields fall back to the defaults.
type Settings struct {
	// Capacities sizes the initial batch allocations.
	Capacities Capacities `yaml:"capacities"`

	// LineWidth is the on-screen shape width in pixels.
	LineWidth float32 `yaml:"line_width"`

	// OccludedFade scales the alpha of fragments hidden behind scene
	// geometry.
	OccludedFade float32 `yaml:"occluded_fade"`

	// NormalFade scales the alpha of records flagged ModNormalFade.
	NormalFade float32 `yaml:"normal_fade"`

	// Colors maps user palette names to hex strings or SVG 1.1 color
	// names, resolved via Palette.
	Colors map[string]string `yaml:"colors"`
}

// DefaultSettings returns the built-in defaults.
func DefaultSettings() Settings {
	return Settings{
		LineWidth:    1.5,
		OccludedFade: 0.35,
		NormalFade:   0.3,
	}
}

// normalize fills zero numeric fields with their defaults.
func (s Settings) normalize() Settings {
	def := DefaultSettings()
	if s.LineWidth <= 0 {
		s.LineWidth = def.LineWidth
	}
	if s.OccludedFade <= 0 {
		s.OccludedFade = def.OccludedFade
	}
	if s.NormalFade <= 0 {
		s.NormalFade = def.NormalFade
	}
	return s
}

// LoadSettings reads settings from a YAML file. A missing file yields
// the defaults silently; an unreadable or malformed file logs a warning
// and yields the defaults. Debug settings must never take the host
// application down.
func LoadSettings(path string) Settings {
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			Logger().Warn("failed to read settings", "path", path, "error", err)
		}
		return DefaultSettings()
	}

	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		Logger().Warn("failed to parse settings", "path", path, "error", err)
		return DefaultSettings()
	}
	return s.normalize()
}

// ParseColor resolves a color given as a hex string ("#f80", "#ff8800",
// with or without '#') or an SVG 1.1 color name ("rebeccapurple").
func ParseColor(value string) (Color, bool) {
	v := strings.TrimSpace(value)
	if v == "" {
		return Color{}, false
	}
	if v[0] == '#' {
		return ColorFromHex(v), true
	}
	if c, ok := colornames.Map[strings.ToLower(v)]; ok {
		return ColorFromColor(c), true
	}
	if isHexColor(v) {
		return ColorFromHex(v), true
	}
	return Color{}, false
}

// isHexColor reports whether v is a bare hex color without the '#'.
func isHexColor(v string) bool {
	switch len(v) {
	case 3, 4, 6, 8:
	default:
		return false
	}
	for i := 0; i < len(v); i++ {
		c := v[i]
		if !('0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F') {
			return false
		}
	}
	return true
}

// Palette resolves the Colors map to concrete colors. Unresolvable
// entries are logged and skipped.
func (s Settings) Palette() map[string]Color {
	if len(s.Colors) == 0 {
		return nil
	}
	out := make(map[string]Color, len(s.Colors))
	for name, value := range s.Colors {
		c, ok := ParseColor(value)
		if !ok {
			Logger().Warn("unknown color in settings", "name", name, "value", value)
			continue
		}
		out[name] = c
	}
	return out
}
