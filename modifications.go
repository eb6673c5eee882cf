package debugdraw

import (
	"fmt"
	"strings"
)

// DrawModifications is a bit set selecting a rendering-time behavior
// variant for one shape record. Flags are uploaded per record and read by
// the shape shaders.
type DrawModifications uint32

const (
	// ModNone draws the shape with no modification.
	ModNone DrawModifications = 0

	// ModNormalFade scales the shape's alpha by the drawer's normal-fade
	// factor, so annotations attached to surface normals recede instead
	// of cluttering the view.
	ModNormalFade DrawModifications = 1 << 0

	// ModCustom, ModCustom2 and ModCustom3 are passed through to the
	// shaders unchanged. The stock shaders ignore them; applications
	// with custom shader variants can key behavior off these bits.
	ModCustom  DrawModifications = 1 << 1
	ModCustom2 DrawModifications = 1 << 2
	ModCustom3 DrawModifications = 1 << 3
)

// Has reports whether all bits in mods are set in m.
func (m DrawModifications) Has(mods DrawModifications) bool {
	return m&mods == mods
}

// String returns a human-readable flag list, e.g. "NormalFade|Custom".
func (m DrawModifications) String() string {
	if m == ModNone {
		return "None"
	}
	names := []struct {
		bit  DrawModifications
		name string
	}{
		{ModNormalFade, "NormalFade"},
		{ModCustom, "Custom"},
		{ModCustom2, "Custom2"},
		{ModCustom3, "Custom3"},
	}
	var parts []string
	rest := m
	for _, n := range names {
		if m.Has(n.bit) {
			parts = append(parts, n.name)
			rest &^= n.bit
		}
	}
	if rest != 0 {
		parts = append(parts, fmt.Sprintf("0x%x", uint32(rest)))
	}
	return strings.Join(parts, "|")
}
