package debugdraw

import "testing"

// TestDrawModificationsHas tests the subset check.
func TestDrawModificationsHas(t *testing.T) {
	m := ModNormalFade | ModCustom
	if !m.Has(ModNormalFade) {
		t.Error("Has(ModNormalFade) = false")
	}
	if !m.Has(ModNormalFade | ModCustom) {
		t.Error("Has(ModNormalFade|ModCustom) = false")
	}
	if m.Has(ModCustom2) {
		t.Error("Has(ModCustom2) = true")
	}
	if m.Has(ModNormalFade | ModCustom2) {
		t.Error("Has with a missing bit = true")
	}
	if !ModNone.Has(ModNone) {
		t.Error("ModNone.Has(ModNone) = false")
	}
}

// TestDrawModificationsString tests the flag-name formatting.
func TestDrawModificationsString(t *testing.T) {
	tests := []struct {
		mods DrawModifications
		want string
	}{
		{ModNone, "None"},
		{ModNormalFade, "NormalFade"},
		{ModCustom3, "Custom3"},
		{ModNormalFade | ModCustom, "NormalFade|Custom"},
		{ModNormalFade | ModCustom2 | ModCustom3, "NormalFade|Custom2|Custom3"},
		{DrawModifications(1<<8), "0x100"},
		{ModCustom | DrawModifications(1<<8), "Custom|0x100"},
	}
	for _, tt := range tests {
		if got := tt.mods.String(); got != tt.want {
			t.Errorf("DrawModifications(%#x).String() = %q, want %q", uint32(tt.mods), got, tt.want)
		}
	}
}
