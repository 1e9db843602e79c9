package layout

import (
	"strings"
	"testing"
)

func TestIsTooSmall(t *testing.T) {
	tests := []struct {
		w, h int
		want bool
	}{
		{80, 24, false},
		{79, 24, true},
		{120, 23, true},
		{200, 60, false},
	}
	for _, tt := range tests {
		if got := IsTooSmall(tt.w, tt.h); got != tt.want {
			t.Errorf("IsTooSmall(%d, %d) = %v, want %v", tt.w, tt.h, got, tt.want)
		}
	}
}

func TestRenderHeader_Wallet(t *testing.T) {
	h := RenderHeader("Lessons", Wallet{Coins: 125, Level: 3}, 100)
	for _, want := range []string{"YüFin", "Lessons", "125", "Lv 3"} {
		if !strings.Contains(h, want) {
			t.Errorf("header missing %q", want)
		}
	}

	h = RenderHeader("Lessons", Wallet{}, 100)
	if strings.Contains(h, "Lv") {
		t.Error("header should hide an unknown wallet")
	}
}

func TestRenderFooter(t *testing.T) {
	f := RenderFooter([]KeyHint{{Key: "Enter", Description: "Play"}}, 80)
	if !strings.Contains(f, "Enter") || !strings.Contains(f, "Play") {
		t.Errorf("footer = %q", f)
	}
}
