package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"

	"github.com/vovakirdan/citywalk/internal/core"
)

func TestRenderScreenKeepsText(t *testing.T) {
	s := core.NewScreen(12, 2)
	s.DrawText(0, 0, "Score: 5")
	s.DrawTextColored(0, 1, "◆●", core.ColorGold)
	s.SetColored(5, 1, '▓', core.ColorRed)

	out := RenderScreen(s)
	lines := strings.Split(ansi.Strip(out), "\n")

	if len(lines) != 2 {
		t.Fatalf("RenderScreen() produced %d lines, expected 2", len(lines))
	}
	if lines[0] != s.Row(0) {
		t.Errorf("line 0 = %q, expected %q", lines[0], s.Row(0))
	}
	if lines[1] != s.Row(1) {
		t.Errorf("line 1 = %q, expected %q", lines[1], s.Row(1))
	}
}

func TestColorStylesCoverPalette(t *testing.T) {
	for c := core.ColorDefault; c <= core.ColorPink; c++ {
		if _, ok := colorStyles[c]; !ok {
			t.Errorf("no style for color %d", c)
		}
	}
}
